package contract

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestLoadJSONContract(t *testing.T) {
	t.Parallel()

	doc, err := Load(filepath.Join("testdata", "company_basic_info.json"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if doc.Version() != "3.0.2" {
		t.Fatalf("Version = %q, want %q", doc.Version(), "3.0.2")
	}
	if doc.Path == "" || len(doc.Raw) == 0 {
		t.Fatalf("document missing path or raw bytes: %+v", doc)
	}
	if _, ok := doc.Root["paths"].(map[string]any); !ok {
		t.Fatalf("paths not decoded as mapping: %T", doc.Root["paths"])
	}
}

func TestLoadYAMLContract(t *testing.T) {
	t.Parallel()

	doc, err := Load(filepath.Join("testdata", "petstore.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if doc.Version() != "3.0.2" {
		t.Fatalf("Version = %q, want %q", doc.Version(), "3.0.2")
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join("testdata", "garbage.json"))
	if err == nil {
		t.Fatal("expected error for non-mapping input")
	}
	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("error is %T, want *contract.Error", err)
	}
	if cerr.Code != InvalidJSON {
		t.Fatalf("Code = %q, want %q", cerr.Code, InvalidJSON)
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join("testdata", "no_such_file.json"))
	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("error is %T, want *contract.Error", err)
	}
	if cerr.Code != InvalidJSON {
		t.Fatalf("Code = %q, want %q", cerr.Code, InvalidJSON)
	}
}

func TestFromBytesRejectsEmptyDocument(t *testing.T) {
	t.Parallel()

	_, err := FromBytes(nil, "empty.json")
	var cerr *Error
	if !errors.As(err, &cerr) || cerr.Code != InvalidJSON {
		t.Fatalf("expected InvalidJSON for empty input, got %v", err)
	}
}
