package routes

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/specroute/specroute/contract"
	"github.com/specroute/specroute/models"
	"github.com/specroute/specroute/validator"
)

// defaultIncludeGlobs matches contract files under a discovery root.
var defaultIncludeGlobs = []string{"**/*.json"}

// mapping holds the routes for one contract load: a default RouteInfo per
// method plus the per-path routes. It is a plain value owned by one
// SpecRouter, never shared.
type mapping struct {
	defaultGet  *RouteInfo
	defaultPost *RouteInfo
	getMap      map[string]*routeEntry
	postMap     map[string]*routeEntry
}

// routeEntry pairs the contract-derived baseline with the explicit
// registration for one path, kept apart until Build resolves the tiers.
type routeEntry struct {
	op       *contract.Operation
	baseline *RouteInfo
	override *RouteInfo // nil until a handler is registered for this path
}

// SpecRouter loads contract documents and accumulates handler registrations
// until Build produces the finalized table. One SpecRouter serves one load;
// construct a fresh one to pick up contract changes.
type SpecRouter struct {
	root   string
	routes mapping

	extraValidators []validator.Validator
	validatorNames  []string
	modelOptions    []models.Option
	includeGlobs    []string
	logger          *slog.Logger
}

// NewSpecRouter loads every contract under path, which may name a single
// file or a directory walked with the include globs. Each file is validated
// by the chain, parsed, and turned into baseline routes with generated
// models. Any failure aborts the whole load; no partial table survives.
func NewSpecRouter(path string, opts ...Option) (*SpecRouter, error) {
	r := &SpecRouter{
		root: path,
		routes: mapping{
			getMap:  make(map[string]*routeEntry),
			postMap: make(map[string]*routeEntry),
		},
		includeGlobs: defaultIncludeGlobs,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	for _, name := range r.validatorNames {
		v, err := validator.New(name)
		if err != nil {
			return nil, err
		}
		r.extraValidators = append(r.extraValidators, v)
	}

	files, err := r.discover()
	if err != nil {
		return nil, err
	}
	chain := validator.NewChain(r.extraValidators...)
	for _, file := range files {
		if err := r.loadFile(chain, file); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// discover resolves the router root into the list of contract files,
// sorted for deterministic load order.
func (r *SpecRouter) discover() ([]string, error) {
	info, err := os.Stat(r.root)
	if err != nil {
		return nil, fmt.Errorf("routes: stat %s: %w", r.root, err)
	}
	if !info.IsDir() {
		return []string{r.root}, nil
	}

	var files []string
	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(r.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		for _, glob := range r.includeGlobs {
			if ok, _ := doublestar.Match(glob, rel); ok {
				files = append(files, path)
				return nil
			}
		}
		return nil
	}
	if err := filepath.WalkDir(r.root, walk); err != nil {
		return nil, fmt.Errorf("routes: walk %s: %w", r.root, err)
	}
	sort.Strings(files)
	return files, nil
}

// loadFile runs the full pipeline for one contract file: validate, parse,
// generate models, and record a baseline route per declared (path, method).
func (r *SpecRouter) loadFile(chain *validator.Chain, file string) error {
	doc, err := contract.Load(file)
	if err != nil {
		return &BuildError{File: file, Cause: err}
	}
	if err := chain.Run(doc); err != nil {
		return &BuildError{File: file, Cause: err}
	}
	paths, err := contract.Parse(doc)
	if err != nil {
		return &BuildError{File: file, Cause: err}
	}
	module, err := models.Generate(doc.Raw, file, r.modelOptions...)
	if err != nil {
		return &BuildError{File: file, Cause: err}
	}

	for path, item := range paths {
		for _, method := range contract.Methods {
			op := item.Operation(method)
			if op == nil {
				continue
			}
			baseline, err := r.baselineRoute(module, path, op)
			if err != nil {
				return &BuildError{File: file, Cause: err}
			}
			r.storeFor(method)[path] = &routeEntry{op: op, baseline: baseline}
		}
	}
	r.logger.Info("contract loaded", "file", file, "paths", len(paths), "module", module.ID)
	return nil
}

// baselineRoute derives the contract tier of a RouteInfo. A declared but
// unresolvable model name is a construction error; an undeclared request
// body falls back to the explicit empty-body model.
func (r *SpecRouter) baselineRoute(module *models.Module, path string, op *contract.Operation) (*RouteInfo, error) {
	ri := &RouteInfo{
		RequestModel: models.EmptyBody,
		Headers:      op.Headers,
	}
	if op.Summary != "" {
		ri.Summary = ptr(op.Summary)
	}
	if op.Description != "" {
		ri.Description = ptr(op.Description)
	}
	if len(op.Tags) > 0 {
		ri.Tags = op.Tags
	}
	if op.Deprecated {
		ri.Deprecated = ptr(true)
	}

	if op.RequestBodyModel != "" {
		mdl, ok := module.Model(op.RequestBodyModel)
		if !ok {
			return nil, fmt.Errorf("routes: %s: request model %q: %w", path, op.RequestBodyModel, ErrModelNotFound)
		}
		ri.RequestModel = mdl
	}

	for code, resp := range op.Responses {
		var mdl *models.Model
		if resp.ModelName != "" {
			var ok bool
			mdl, ok = module.Model(resp.ModelName)
			if !ok {
				return nil, fmt.Errorf("routes: %s: response model %q for status %d: %w", path, resp.ModelName, code, ErrModelNotFound)
			}
		}
		if code == 200 {
			ri.ResponseModel = mdl
			if resp.Description != "" {
				ri.ResponseDescription = ptr(resp.Description)
			}
			continue
		}
		if ri.Responses == nil {
			ri.Responses = make(map[int]Response)
		}
		ri.Responses[code] = Response{Description: resp.Description, Model: mdl}
	}
	return ri, nil
}

func (r *SpecRouter) storeFor(method contract.HTTPMethod) map[string]*routeEntry {
	if method == contract.GET {
		return r.routes.getMap
	}
	return r.routes.postMap
}

// Post registers a handler plus overrides for one POST path declared in the
// contract. An unknown path fails immediately.
func (r *SpecRouter) Post(path string, handler Handler, opts ...RouteOption) error {
	return r.register(contract.POST, path, handler, opts)
}

// Get registers a handler plus overrides for one GET path declared in the
// contract. An unknown path fails immediately.
func (r *SpecRouter) Get(path string, handler Handler, opts ...RouteOption) error {
	return r.register(contract.GET, path, handler, opts)
}

// DefaultPost registers the fallback handler used by every POST route that
// has no path-specific registration.
func (r *SpecRouter) DefaultPost(handler Handler, opts ...RouteOption) {
	r.routes.defaultPost = defaultRoute(handler, opts)
}

// DefaultGet registers the fallback handler used by every GET route that
// has no path-specific registration.
func (r *SpecRouter) DefaultGet(handler Handler, opts ...RouteOption) {
	r.routes.defaultGet = defaultRoute(handler, opts)
}

func defaultRoute(handler Handler, opts []RouteOption) *RouteInfo {
	ri := &RouteInfo{Handler: handler}
	for _, opt := range opts {
		opt(ri)
	}
	return ri
}

func (r *SpecRouter) register(method contract.HTTPMethod, path string, handler Handler, opts []RouteOption) error {
	entry, ok := r.storeFor(method)[path]
	if !ok {
		return fmt.Errorf("routes: no %s route for path %q in contract: %w", method, path, ErrRouteNotFound)
	}
	override := &RouteInfo{Handler: handler}
	for _, opt := range opts {
		opt(override)
	}
	entry.override = override
	return nil
}

// Build resolves every route's override tiers and finalizes the table.
// Precedence per field: explicit per-path registration, then the default
// registration for the method, then the contract-derived baseline, then
// literal fallbacks.
func (r *SpecRouter) Build() (*Table, error) {
	table := &Table{
		get:  make(map[string]*Route, len(r.routes.getMap)),
		post: make(map[string]*Route, len(r.routes.postMap)),
	}
	for path, entry := range r.routes.getMap {
		table.get[path] = resolve(contract.GET, path, entry, r.routes.defaultGet)
	}
	for path, entry := range r.routes.postMap {
		table.post[path] = resolve(contract.POST, path, entry, r.routes.defaultPost)
	}
	return table, nil
}

// resolve merges the tiers for one route and freezes the result.
func resolve(method contract.HTTPMethod, path string, entry *routeEntry, deflt *RouteInfo) *Route {
	ri := entry.override.clone()
	ri.fillFrom(deflt)
	ri.fillFrom(entry.baseline)

	if ri.ResponseDescription == nil {
		ri.ResponseDescription = ptr("Successful response")
	}
	if ri.Handler == nil {
		ri.Handler = notImplemented
	}

	name := deref(ri.Name)
	if ri.NameFactory != nil {
		name = ri.NameFactory(path, entry.op)
	}

	return &Route{
		Path:                path,
		Method:              method,
		Name:                name,
		Summary:             deref(ri.Summary),
		Description:         deref(ri.Description),
		ResponseDescription: deref(ri.ResponseDescription),
		Tags:                ri.Tags,
		Deprecated:          ri.Deprecated != nil && *ri.Deprecated,
		Dependencies:        ri.Dependencies,
		Headers:             ri.Headers,
		RequestModel:        ri.RequestModel,
		ResponseModel:       ri.ResponseModel,
		Responses:           ri.Responses,
		handler:             ri.Handler,
	}
}

func ptr[T any](v T) *T { return &v }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
