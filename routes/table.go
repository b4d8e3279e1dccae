package routes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/specroute/specroute/contract"
	"github.com/specroute/specroute/models"
)

// Table is the finalized route table. It is read-only after Build; the
// transport layer walks Routes and binds each one.
type Table struct {
	get  map[string]*Route
	post map[string]*Route
}

// Route is one resolved (path, method) binding.
type Route struct {
	Path   string
	Method contract.HTTPMethod

	Name                string
	Summary             string
	Description         string
	ResponseDescription string
	Tags                []string
	Deprecated          bool
	Dependencies        []Dependency
	Headers             map[string]contract.Header
	RequestModel        *models.Model
	ResponseModel       *models.Model
	Responses           map[int]Response

	handler Handler
}

// Routes returns every route sorted by path, GET before POST per path.
func (t *Table) Routes() []*Route {
	out := make([]*Route, 0, len(t.get)+len(t.post))
	for _, rt := range t.get {
		out = append(out, rt)
	}
	for _, rt := range t.post {
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// Route looks up the binding for one (method, path). A method outside the
// routed set fails with ErrUnsupportedMethod; an undeclared path fails with
// ErrRouteNotFound, never a nil result.
func (t *Table) Route(method, path string) (*Route, error) {
	var store map[string]*Route
	switch contract.HTTPMethod(strings.ToLower(method)) {
	case contract.GET:
		store = t.get
	case contract.POST:
		store = t.post
	default:
		return nil, fmt.Errorf("routes: method %q: %w", method, ErrUnsupportedMethod)
	}
	rt, ok := store[path]
	if !ok {
		return nil, fmt.Errorf("routes: no %s route for path %q: %w", strings.ToLower(method), path, ErrRouteNotFound)
	}
	return rt, nil
}

// Serve runs one request through the route: dependencies first, then request
// body validation against the request model, then the handler with the
// validated value. Validation failures surface as *models.ValidationError
// with locations anchored under "body".
func (r *Route) Serve(ctx context.Context, req *Request) (any, error) {
	for _, dep := range r.Dependencies {
		if err := dep(ctx, req); err != nil {
			return nil, err
		}
	}

	body := req.Body
	if len(body) == 0 {
		body = []byte("{}")
	}
	decoded, err := r.RequestModel.Decode(body)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return nil, verr.Prefixed("body")
		}
		return nil, err
	}
	return r.handler(ctx, req, decoded)
}

// ValidateResponse checks handler output against the primary response model.
// Routes without a declared 200 model accept anything.
func (r *Route) ValidateResponse(v any) error {
	if r.ResponseModel == nil {
		return nil
	}
	return r.ResponseModel.Validate(v)
}
