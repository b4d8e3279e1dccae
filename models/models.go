// Package models synthesizes runtime validation models from the component
// schemas of an OpenAPI contract. Every schema under components/schemas
// becomes a Model that can decode and validate JSON payloads, in either the
// permissive mode the transport layer defaults to or the strict mode enabled
// with WithStrictValidation.
package models

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"
)

// Conventional error-shape schemas synthesized into every module unless the
// contract already declares them.
const (
	validationErrorName     = "ValidationError"
	httpValidationErrorName = "HTTPValidationError"
)

// Settings configures model generation and validation behavior.
type Settings struct {
	// Strict disables input coercion and rejects undeclared fields.
	Strict bool
	// KeepArtifact retains the rendered Go source artifact on disk and
	// exposes its path as Module.ArtifactPath.
	KeepArtifact bool
	// FormatArtifact runs the rendered artifact through go/format.
	FormatArtifact bool
	// Logger receives generation diagnostics. Nil discards them.
	Logger *slog.Logger
}

// DefaultSettings returns the permissive defaults.
func DefaultSettings() Settings {
	return Settings{}
}

// Option mutates Settings.
type Option func(*Settings)

func WithStrictValidation() Option     { return func(s *Settings) { s.Strict = true } }
func WithKeptArtifact() Option         { return func(s *Settings) { s.KeepArtifact = true } }
func WithFormattedArtifact() Option    { return func(s *Settings) { s.FormatArtifact = true } }
func WithLogger(l *slog.Logger) Option { return func(s *Settings) { s.Logger = l } }

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func (s Settings) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return discardLogger
}

// Module is the set of models generated from one contract. Its ID is unique
// per generation so concurrent loads of the same contract never collide.
type Module struct {
	ID   string
	Name string
	// ArtifactPath points at the retained source artifact. Empty unless
	// the module was generated with WithKeptArtifact.
	ArtifactPath string

	models map[string]*Model
}

// Model returns the named model descriptor.
func (m *Module) Model(name string) (*Model, bool) {
	mdl, ok := m.models[name]
	return mdl, ok
}

// Models returns every descriptor in the module, sorted by name.
func (m *Module) Models() []*Model {
	out := make([]*Model, 0, len(m.models))
	for _, mdl := range m.models {
		out = append(out, mdl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Model is one named schema compiled into a runtime validator.
type Model struct {
	Name string

	schema *openapi3.Schema
	strict bool
}

// EmptyBody is the request descriptor for operations that declare no request
// schema. It accepts any JSON object and never applies strict checks.
var EmptyBody = &Model{Name: "EmptyBody", schema: openapi3.NewObjectSchema()}

// Generate builds a model module from a raw contract document. Every
// reference in the document must resolve; a dangling $ref or a malformed
// schema construct fails generation rather than producing a partial module.
func Generate(raw []byte, name string, opts ...Option) (*Module, error) {
	settings := DefaultSettings()
	for _, opt := range opts {
		opt(&settings)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, &GenerationError{
			Message: fmt.Sprintf("models: contract %s does not resolve: %v", name, err),
			Cause:   err,
		}
	}

	mod := &Module{
		ID:     moduleID(name),
		Name:   name,
		models: make(map[string]*Model),
	}
	if doc.Components != nil {
		for schemaName, ref := range doc.Components.Schemas {
			if ref == nil || ref.Value == nil {
				return nil, &GenerationError{
					Component: schemaName,
					Message:   fmt.Sprintf("models: schema %s did not resolve to a value", schemaName),
				}
			}
			mod.models[schemaName] = &Model{Name: schemaName, schema: ref.Value, strict: settings.Strict}
		}
	}
	ensureErrorShapes(mod, settings.Strict)

	if err := writeArtifact(mod, settings); err != nil {
		return nil, err
	}
	return mod, nil
}

// ensureErrorShapes adds the conventional validation error envelope models
// when the contract does not declare its own.
func ensureErrorShapes(mod *Module, strict bool) {
	if _, ok := mod.models[validationErrorName]; !ok {
		mod.models[validationErrorName] = &Model{
			Name:   validationErrorName,
			schema: validationErrorSchema(),
			strict: strict,
		}
	}
	if _, ok := mod.models[httpValidationErrorName]; !ok {
		detail := mod.models[validationErrorName].schema
		mod.models[httpValidationErrorName] = &Model{
			Name:   httpValidationErrorName,
			schema: httpValidationErrorSchema(detail),
			strict: strict,
		}
	}
}

func validationErrorSchema() *openapi3.Schema {
	loc := openapi3.NewArraySchema()
	loc.Items = openapi3.NewSchemaRef("", openapi3.NewAnyOfSchema(
		openapi3.NewStringSchema(),
		openapi3.NewIntegerSchema(),
	))

	s := openapi3.NewObjectSchema().WithProperties(map[string]*openapi3.Schema{
		"loc":  loc,
		"msg":  openapi3.NewStringSchema(),
		"type": openapi3.NewStringSchema(),
	})
	s.Required = []string{"loc", "msg", "type"}
	s.Title = validationErrorName
	return s
}

func httpValidationErrorSchema(detail *openapi3.Schema) *openapi3.Schema {
	arr := openapi3.NewArraySchema()
	arr.Items = openapi3.NewSchemaRef("", detail)

	s := openapi3.NewObjectSchema().WithProperties(map[string]*openapi3.Schema{
		"detail": arr,
	})
	s.Title = httpValidationErrorName
	return s
}

var identPattern = regexp.MustCompile(`[^A-Za-z0-9]+`)

// moduleID derives a collision-free module identifier from the contract name.
func moduleID(name string) string {
	base := strings.Trim(identPattern.ReplaceAllString(name, "_"), "_")
	if base == "" {
		base = "contract"
	}
	return base + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
