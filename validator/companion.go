package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/specroute/specroute/contract"
)

// linkedDataShape is the envelope required of the linked-data companion:
// a JSON object carrying at least an @context.
const linkedDataShape = `{
	"type": "object",
	"required": ["@context"],
	"properties": {
		"@context": {"type": ["string", "object", "array"]}
	}
}`

// CompanionDocs checks the files published alongside a contract: a
// human-readable document (<base>.md) and a linked-data document
// (<base>.jsonld), both colocated with the contract file and sharing its
// base name. Both must exist and be non-empty; the linked-data file must
// also parse as JSON and satisfy the JSON-LD envelope shape.
type CompanionDocs struct {
	schema *jsonschema.Schema
}

// NewCompanionDocs returns the companion-file validator.
func NewCompanionDocs() *CompanionDocs {
	return &CompanionDocs{schema: mustCompileLinkedDataShape()}
}

func mustCompileLinkedDataShape() *jsonschema.Schema {
	var doc any
	if err := json.Unmarshal([]byte(linkedDataShape), &doc); err != nil {
		panic(fmt.Sprintf("validator: linked-data shape is not valid JSON: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("linked-data-shape.json", doc); err != nil {
		panic(fmt.Sprintf("validator: add linked-data shape: %v", err))
	}
	schema, err := compiler.Compile("linked-data-shape.json")
	if err != nil {
		panic(fmt.Sprintf("validator: compile linked-data shape: %v", err))
	}
	return schema
}

func (c *CompanionDocs) Name() string { return "companion-docs" }

func (c *CompanionDocs) Validate(doc *contract.Document) error {
	base := strings.TrimSuffix(doc.Path, filepath.Ext(doc.Path))

	if _, err := c.readCompanion(base + ".md"); err != nil {
		return err
	}

	raw, err := c.readCompanion(base + ".jsonld")
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return c.fail(CompanionFileInvalid, fmt.Sprintf("%s.jsonld is not valid JSON: %v", filepath.Base(base), err), err)
	}
	if err := c.schema.Validate(v); err != nil {
		return c.fail(CompanionFileInvalid, fmt.Sprintf("%s.jsonld is not a linked-data document: %v", filepath.Base(base), err), err)
	}
	return nil
}

func (c *CompanionDocs) readCompanion(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, c.fail(CompanionFileMissing, fmt.Sprintf("companion file %s is missing", filepath.Base(path)), err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, c.fail(CompanionFileEmpty, fmt.Sprintf("companion file %s is empty", filepath.Base(path)), nil)
	}
	return data, nil
}

func (c *CompanionDocs) fail(code ErrorCode, msg string, cause error) error {
	return &Error{Code: code, Message: "validator: " + msg, Validator: c.Name(), Cause: cause}
}
