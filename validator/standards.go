package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/specroute/specroute/contract"
)

const componentRefPrefix = "#/components/schemas/"

// Standards enforces the data-product publishing convention: exactly one
// path declaring POST and nothing else, JSON request and response bodies
// backed by component schemas, the gateway auth headers, and no servers or
// security sections. Checks run in a fixed order and the first violation
// wins.
type Standards struct{}

// NewStandards returns the standards validator.
func NewStandards() Standards { return Standards{} }

func (Standards) Name() string { return "standards" }

func (s Standards) Validate(doc *contract.Document) error {
	spec := doc.Root

	if _, ok := spec["servers"]; ok {
		return s.fail(ServersShouldNotBeDefined, `"servers" section should not be defined`)
	}

	paths := asMap(spec["paths"])
	if len(paths) == 0 {
		return s.fail(NoEndpointsDefined, "no endpoints defined")
	}
	if len(paths) > 1 {
		return s.fail(OnlyOneEndpointAllowed, fmt.Sprintf("only one endpoint allowed, found %d", len(paths)))
	}

	var post map[string]any
	for _, v := range paths {
		item := asMap(v)
		post = asMap(item["post"])
		if post == nil {
			return s.fail(PostMethodIsMissing, "POST method is missing")
		}
		if extra := soleExtraKey(item); extra != "" {
			return s.fail(OnlyPostMethodAllowed, fmt.Sprintf("only the POST method is allowed, found %q", extra))
		}
	}

	schemas := asMap(asMap(spec["components"])["schemas"])
	if len(schemas) == 0 {
		return s.fail(SchemaMissing, `no "components/schemas" section defined`)
	}

	if _, ok := post["security"]; ok {
		return s.fail(SecurityShouldNotBeDefined, `"security" section should not be defined`)
	}

	// A request body is optional, and a declared one without content is
	// tolerated. Only a body that carries content must resolve to a
	// component schema.
	if body := asMap(post["requestBody"]); len(asMap(body["content"])) > 0 {
		if err := s.checkComponentSchema(body, schemas); err != nil {
			return err
		}
	}

	responses := asMap(post["responses"])
	ok200 := asMap(responses["200"])
	if len(asMap(ok200["content"])) == 0 {
		return s.fail(ResponseBodyMissing, "200 response with content is missing")
	}
	// The same routine gates the response side, so request and response
	// violations surface with identical error kinds.
	if err := s.checkComponentSchema(ok200, schemas); err != nil {
		return err
	}

	headers := map[string]bool{}
	for _, p := range asSlice(post["parameters"]) {
		pm := asMap(p)
		if asString(pm["in"]) == "header" {
			headers[strings.ToLower(asString(pm["name"]))] = true
		}
	}
	if !headers["authorization"] {
		return s.fail(AuthorizationHeaderMissing, "Authorization header parameter is missing")
	}
	if !headers["x-authorization-provider"] {
		return s.fail(AuthProviderHeaderMissing, "X-Authorization-Provider header parameter is missing")
	}
	return nil
}

// soleExtraKey reports the first path item key besides "post", if any. Path
// items may not declare other methods, shared parameters or summaries.
func soleExtraKey(item map[string]any) string {
	keys := make([]string, 0, len(item))
	for key := range item {
		if key != "post" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	return keys[0]
}

// checkComponentSchema requires a structured-JSON content entry whose schema
// is a $ref resolving into the component schemas.
func (s Standards) checkComponentSchema(body, schemas map[string]any) error {
	media := asMap(asMap(body["content"])["application/json"])
	if len(media) == 0 {
		return s.fail(WrongContentType, "model description must be in application/json format")
	}
	ref := asString(asMap(media["schema"])["$ref"])
	if ref == "" {
		return s.fail(SchemaMissing, `request or response model is missing from "schema/$ref" section`)
	}
	if !strings.HasPrefix(ref, componentRefPrefix) {
		return s.fail(SchemaMissing, fmt.Sprintf("schema reference %q does not point to %s", ref, componentRefPrefix))
	}
	name := strings.TrimPrefix(ref, componentRefPrefix)
	if _, ok := schemas[name]; !ok {
		return s.fail(SchemaMissing, fmt.Sprintf("component schema is missing for %s", name))
	}
	return nil
}

func (s Standards) fail(code ErrorCode, msg string) error {
	return &Error{Code: code, Message: "validator: " + msg, Validator: s.Name()}
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
