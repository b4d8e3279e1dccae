package models

import (
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// writeArtifact renders the module as a Go source file under the OS temp
// directory. The artifact is transient: the file is owned by the generating
// call and removed before returning unless WithKeptArtifact was set, in
// which case its path is published on the module.
func writeArtifact(mod *Module, settings Settings) error {
	src, err := renderArtifact(mod, settings.FormatArtifact)
	if err != nil {
		return &GenerationError{
			Message: fmt.Sprintf("models: rendering artifact for %s: %v", mod.ID, err),
			Cause:   err,
		}
	}
	path := filepath.Join(os.TempDir(), mod.ID+".go")
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return &GenerationError{
			Message: fmt.Sprintf("models: writing artifact for %s: %v", mod.ID, err),
			Cause:   err,
		}
	}
	if !settings.KeepArtifact {
		if err := os.Remove(path); err != nil {
			return &GenerationError{
				Message: fmt.Sprintf("models: removing artifact for %s: %v", mod.ID, err),
				Cause:   err,
			}
		}
		return nil
	}
	mod.ArtifactPath = path
	settings.log().Info("retained model artifact", "module", mod.ID, "path", path)
	return nil
}

// renderArtifact emits plain struct declarations for every model in the
// module, one inspectable source file per generation.
func renderArtifact(mod *Module, formatted bool) ([]byte, error) {
	body := strings.Builder{}
	needsTime := false

	for _, mdl := range mod.Models() {
		schema := mdl.schema
		if schema.Description != "" {
			body.WriteString("// " + exportName(mdl.Name) + " - " + firstLine(schema.Description) + "\n")
		}
		if schema.Type == openapi3.TypeObject || len(schema.Properties) > 0 {
			body.WriteString("type " + exportName(mdl.Name) + " struct {\n")
			for _, prop := range sortedProperties(schema) {
				goType := goTypeFor(prop.schema, &needsTime)
				tag := prop.name
				if !prop.required {
					if !strings.HasPrefix(goType, "*") && !strings.HasPrefix(goType, "[]") && !strings.HasPrefix(goType, "map[") && goType != "any" {
						goType = "*" + goType
					}
					tag += ",omitempty"
				}
				body.WriteString("\t" + exportName(prop.name) + " " + goType + " `json:\"" + tag + "\"`\n")
			}
			body.WriteString("}\n\n")
			continue
		}
		body.WriteString("type " + exportName(mdl.Name) + " = " + goTypeFor(schema, &needsTime) + "\n\n")
	}

	src := strings.Builder{}
	src.WriteString("// Code generated from " + mod.Name + "; DO NOT EDIT.\n\n")
	src.WriteString("package models\n\n")
	if needsTime {
		src.WriteString("import \"time\"\n\n")
	}
	src.WriteString(body.String())

	out := []byte(src.String())
	if formatted {
		formattedSrc, err := format.Source(out)
		if err != nil {
			return nil, err
		}
		out = formattedSrc
	}
	return out, nil
}

type renderedProperty struct {
	name     string
	required bool
	schema   *openapi3.Schema
}

func sortedProperties(schema *openapi3.Schema) []renderedProperty {
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}
	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	props := make([]renderedProperty, 0, len(names))
	for _, name := range names {
		var value *openapi3.Schema
		if ref := schema.Properties[name]; ref != nil {
			value = ref.Value
		}
		props = append(props, renderedProperty{name: name, required: required[name], schema: value})
	}
	return props
}

func goTypeFor(schema *openapi3.Schema, needsTime *bool) string {
	if schema == nil {
		return "any"
	}
	if len(schema.AnyOf) > 0 || len(schema.OneOf) > 0 || len(schema.AllOf) > 0 {
		return "any"
	}
	switch schema.Type {
	case openapi3.TypeString:
		switch schema.Format {
		case "date", "date-time":
			*needsTime = true
			return "time.Time"
		}
		return "string"
	case openapi3.TypeInteger:
		return "int"
	case openapi3.TypeNumber:
		return "float64"
	case openapi3.TypeBoolean:
		return "bool"
	case openapi3.TypeArray:
		var item *openapi3.Schema
		if schema.Items != nil {
			item = schema.Items.Value
		}
		return "[]" + goTypeFor(item, needsTime)
	case openapi3.TypeObject:
		return "map[string]any"
	}
	return "any"
}

var titleCaser = cases.Title(language.English, cases.NoLower)

// exportName turns a schema or property name into an exported Go identifier,
// preserving interior capitalization of camelCase input.
func exportName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(parts) == 0 {
		return "Field"
	}
	b := strings.Builder{}
	for _, part := range parts {
		b.WriteString(titleCaser.String(part))
	}
	out := b.String()
	if !unicode.IsLetter(rune(out[0])) {
		out = "X" + out
	}
	return out
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
