// Package routes builds validated route tables from OpenAPI contract
// documents. A SpecRouter loads one or more contracts, gates them through a
// validator chain, and synthesizes one route per declared (path, method) with
// typed request and response models. Callers register handlers per path or as
// a method-wide default, then Build resolves the overrides into an immutable
// Table for the transport layer to bind.
package routes

import (
	"context"

	"github.com/specroute/specroute/contract"
	"github.com/specroute/specroute/models"
)

// Request is the transport-agnostic view of one incoming request. The
// transport fills it in before calling Route.Serve.
type Request struct {
	Path   string
	Method contract.HTTPMethod
	// Headers is keyed by lowercase header name.
	Headers map[string]string
	// Body is the raw request payload, decoded and validated against the
	// route's request model before the handler runs.
	Body []byte
}

// Header returns the named header value, matching case-insensitively.
func (r *Request) Header(name string) string {
	if r == nil {
		return ""
	}
	return r.Headers[lowerASCII(name)]
}

// Handler processes one validated request. body is the decoded request
// payload after validation against the route's request model.
type Handler func(ctx context.Context, req *Request, body any) (any, error)

// Dependency runs before the handler; a non-nil error aborts the request.
// Typical uses are header gating and authorization hooks.
type Dependency func(ctx context.Context, req *Request) error

// NameFactory derives a route name from its path and operation at
// finalization time. When present it takes precedence over a literal name.
type NameFactory func(path string, op *contract.Operation) string

// Response is the resolved metadata for one non-200 status code.
type Response struct {
	Description string
	Model       *models.Model
}

// RouteInfo is the per-route configuration while the table is under
// construction. Optional scalar fields are pointers so that unset (nil) is
// distinguishable from an explicit zero value during override resolution.
type RouteInfo struct {
	Name                *string
	NameFactory         NameFactory
	Summary             *string
	Description         *string
	ResponseDescription *string
	Tags                []string
	Deprecated          *bool
	Dependencies        []Dependency
	Headers             map[string]contract.Header
	RequestModel        *models.Model
	ResponseModel       *models.Model
	Responses           map[int]Response
	Handler             Handler
}

// fillFrom copies every field that is still unset on r from other. Non-nil
// fields on r always win; repeated application resolves a tier stack with
// the nearest tier taking precedence.
func (r *RouteInfo) fillFrom(other *RouteInfo) {
	if other == nil {
		return
	}
	if r.Name == nil {
		r.Name = other.Name
	}
	if r.NameFactory == nil {
		r.NameFactory = other.NameFactory
	}
	if r.Summary == nil {
		r.Summary = other.Summary
	}
	if r.Description == nil {
		r.Description = other.Description
	}
	if r.ResponseDescription == nil {
		r.ResponseDescription = other.ResponseDescription
	}
	if r.Tags == nil {
		r.Tags = other.Tags
	}
	if r.Deprecated == nil {
		r.Deprecated = other.Deprecated
	}
	if r.Dependencies == nil {
		r.Dependencies = other.Dependencies
	}
	if r.Headers == nil {
		r.Headers = other.Headers
	}
	if r.RequestModel == nil {
		r.RequestModel = other.RequestModel
	}
	if r.ResponseModel == nil {
		r.ResponseModel = other.ResponseModel
	}
	if r.Responses == nil {
		r.Responses = other.Responses
	}
	if r.Handler == nil {
		r.Handler = other.Handler
	}
}

// clone returns a shallow copy safe to mutate during resolution.
func (r *RouteInfo) clone() *RouteInfo {
	if r == nil {
		return &RouteInfo{}
	}
	out := *r
	return &out
}

// notImplemented is the fallback handler for routes nobody registered.
func notImplemented(ctx context.Context, req *Request, body any) (any, error) {
	return map[string]any{}, nil
}

func lowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
