package contract

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Parse builds the routing model from a loaded document: one PathItem per
// declared path, one Operation per routed method. Pure transformation; the
// document is not mutated.
//
// Unresolvable or absent schema references are tolerated here (the affected
// model name is simply empty). The only hard failure is a parameter object
// without a name.
func Parse(doc *Document) (map[string]*PathItem, error) {
	paths := asMap(doc.Root["paths"])
	out := make(map[string]*PathItem, len(paths))

	// Deterministic order so the first parse error is stable across runs.
	keys := make([]string, 0, len(paths))
	for p := range paths {
		keys = append(keys, p)
	}
	sort.Strings(keys)

	for _, p := range keys {
		raw := asMap(paths[p])
		if raw == nil {
			continue
		}
		item := &PathItem{}
		for _, m := range Methods {
			opRaw := asMap(raw[string(m)])
			if opRaw == nil {
				continue
			}
			op, err := parseOperation(opRaw)
			if err != nil {
				if ce, ok := err.(*Error); ok {
					ce.Path = doc.Path
					ce.Message = fmt.Sprintf("%s (path %s, method %s)", ce.Message, p, m)
				}
				return nil, err
			}
			switch m {
			case GET:
				item.Get = op
			case POST:
				item.Post = op
			}
		}
		out[p] = item
	}
	return out, nil
}

func parseOperation(raw map[string]any) (*Operation, error) {
	op := &Operation{
		Summary:     asString(raw["summary"]),
		Description: asString(raw["description"]),
		Deprecated:  asBool(raw["deprecated"]),
		Headers:     map[string]Header{},
		Responses:   map[int]Response{},
	}
	for _, t := range asSlice(raw["tags"]) {
		if s := asString(t); s != "" {
			op.Tags = append(op.Tags, s)
		}
	}

	for _, entry := range asSlice(raw["parameters"]) {
		pm := asMap(entry)
		name := asString(pm["name"])
		if name == "" {
			return nil, &Error{Code: MissingParameter, Message: "contract: parameter without a name"}
		}
		param := Parameter{
			Name:        name,
			In:          asString(pm["in"]),
			Required:    asBool(pm["required"]),
			Description: asString(pm["description"]),
		}
		op.Parameters = append(op.Parameters, param)
		if strings.EqualFold(param.In, "header") {
			op.Headers[strings.ToLower(name)] = Header{
				Name:        name,
				Required:    param.Required,
				Description: param.Description,
			}
		}
	}

	if body := asMap(raw["requestBody"]); body != nil {
		op.RequestBodyModel = modelNameFromContent(asMap(body["content"]))
	}

	for code, r := range asMap(raw["responses"]) {
		status, err := strconv.Atoi(code)
		if err != nil {
			// Range and "default" responses carry no routable status code.
			continue
		}
		rm := asMap(r)
		op.Responses[status] = Response{
			Description: asString(rm["description"]),
			ModelName:   modelNameFromContent(asMap(rm["content"])),
		}
	}
	return op, nil
}

// modelNameFromContent extracts the component schema name referenced under
// the single supported structured-JSON media type. Any other media type, an
// inline schema, or an absent $ref yields "".
func modelNameFromContent(content map[string]any) string {
	media := asMap(content["application/json"])
	if media == nil {
		return ""
	}
	schema := asMap(media["schema"])
	if schema == nil {
		return ""
	}
	ref := asString(schema["$ref"])
	if ref == "" {
		return ""
	}
	parts := strings.Split(ref, "/")
	return parts[len(parts)-1]
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}
