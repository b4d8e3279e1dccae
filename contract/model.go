package contract

// Routing model extracted from one contract document.

// HTTPMethod names a routed method. Only GET and POST are meaningful to
// route synthesis; other methods declared in a contract are ignored.
type HTTPMethod string

const (
	GET  HTTPMethod = "get"
	POST HTTPMethod = "post"
)

// Methods lists the routed methods in a stable order.
var Methods = []HTTPMethod{GET, POST}

// Parameter is one declared operation parameter.
type Parameter struct {
	Name        string
	In          string // query|header|path|cookie
	Required    bool
	Description string
}

// Header is a required-header declaration taken from a header parameter.
// Collections of headers are keyed by the lowercase name so that lookups are
// case-insensitive and duplicates collapse.
type Header struct {
	Name        string // spelling as written in the contract
	Required    bool
	Description string
}

// Response carries the declared metadata for one status code.
type Response struct {
	Description string
	// ModelName is the component schema name referenced by the response's
	// structured-JSON content, or "" when the response declares none.
	ModelName string
}

// Operation is one HTTP method on one path.
type Operation struct {
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool
	Parameters  []Parameter
	// Headers holds the header parameters keyed by lowercase name.
	Headers map[string]Header
	// RequestBodyModel is the component schema name of the request body,
	// or "" when the operation declares no structured-JSON body.
	RequestBodyModel string
	Responses        map[int]Response
}

// PathItem maps the routed methods onto their operations for one path.
type PathItem struct {
	Get  *Operation
	Post *Operation
}

// Operation returns the operation declared for m, or nil.
func (p *PathItem) Operation(m HTTPMethod) *Operation {
	if p == nil {
		return nil
	}
	switch m {
	case GET:
		return p.Get
	case POST:
		return p.Post
	}
	return nil
}
