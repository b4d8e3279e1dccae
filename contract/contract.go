package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is one loaded contract file. Root holds the raw mapping exactly as
// decoded; validators and the parser treat it as read-only.
type Document struct {
	Path string
	Raw  []byte
	Root map[string]any
}

// Load reads and decodes a contract document from the filesystem. The decoder
// accepts JSON and YAML input; anything that does not decode to a mapping is
// rejected as InvalidJSON.
func Load(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &Error{Code: InvalidJSON, Message: fmt.Sprintf("contract: resolve path %s: %v", path, err), Path: path, Cause: err}
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, &Error{Code: InvalidJSON, Message: fmt.Sprintf("contract: read %s: %v", abs, err), Path: abs, Cause: err}
	}
	return FromBytes(raw, abs)
}

// FromBytes decodes an in-memory contract document. path is recorded for
// diagnostics and companion-file lookups only; it is not read.
func FromBytes(raw []byte, path string) (*Document, error) {
	var root map[string]any
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, &Error{Code: InvalidJSON, Message: fmt.Sprintf("contract: %s is not a structured document: %v", path, err), Path: path, Cause: err}
	}
	if root == nil {
		return nil, &Error{Code: InvalidJSON, Message: fmt.Sprintf("contract: %s is empty", path), Path: path}
	}
	normalizeKeys(root)
	return &Document{Path: path, Raw: raw, Root: root}, nil
}

// normalizeKeys rewrites nested YAML mappings with non-string keys (for
// example unquoted status codes) into string-keyed maps so the whole tree
// walks as map[string]any.
func normalizeKeys(m map[string]any) {
	for k, v := range m {
		m[k] = normalizeValue(v)
	}
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		normalizeKeys(t)
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeValue(val)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = normalizeValue(item)
		}
		return t
	}
	return v
}

// Version returns the declared specification version, or "" when absent.
func (d *Document) Version() string {
	v, _ := d.Root["openapi"].(string)
	return strings.TrimSpace(v)
}
