package validator

import (
	"errors"
	"reflect"
	"testing"

	"github.com/specroute/specroute/contract"
)

func TestDefaultRejectsNon3xVersions(t *testing.T) {
	t.Parallel()

	base := Default{}
	for _, version := range []string{"", "2.0", "4.0.0"} {
		doc := &contract.Document{Root: map[string]any{"openapi": version}}
		wantCode(t, base.Validate(doc), UnsupportedVersion)
	}
	for _, version := range []string{"3.0.2", "3.1.0"} {
		doc := &contract.Document{Root: map[string]any{"openapi": version}}
		if err := base.Validate(doc); err != nil {
			t.Fatalf("version %q rejected: %v", version, err)
		}
	}
}

func TestChainRunsEveryValidator(t *testing.T) {
	t.Parallel()

	doc := loadCompany(t)
	doc.Root["openapi"] = "2.0"     // trips the baseline validator
	doc.Root["servers"] = []any{""} // trips the standards validator

	err := NewChain(NewStandards()).Run(doc)
	if err == nil {
		t.Fatal("expected chain failure")
	}
	var cerr *ChainError
	if !errors.As(err, &cerr) {
		t.Fatalf("error is %T, want *ChainError", err)
	}
	if len(cerr.Errors) != 2 {
		t.Fatalf("got %d errors, want 2 (chain must not stop early): %v", len(cerr.Errors), cerr)
	}
	// Chain order: baseline first, registration order afterwards.
	wantCode(t, cerr.Errors[0], UnsupportedVersion)
	wantCode(t, cerr.Errors[1], ServersShouldNotBeDefined)

	// errors.As reaches violations through the aggregate.
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatal("errors.As failed to traverse the chain error")
	}
}

func TestChainLeavesDocumentUntouched(t *testing.T) {
	t.Parallel()

	doc := loadCompany(t)
	pristine := loadCompany(t)

	// A failing run must not mutate the document.
	doc.Root["servers"] = []any{map[string]any{"url": "https://example.com"}}
	pristine.Root["servers"] = []any{map[string]any{"url": "https://example.com"}}
	if err := NewChain(NewStandards(), NewCompanionDocs()).Run(doc); err == nil {
		t.Fatal("expected chain failure")
	}
	if !reflect.DeepEqual(doc.Root, pristine.Root) {
		t.Fatal("document mutated by validator chain")
	}
}

func TestChainPassesCanonicalContract(t *testing.T) {
	t.Parallel()

	if err := NewChain(NewStandards()).Run(loadCompany(t)); err != nil {
		t.Fatalf("chain rejected canonical contract: %v", err)
	}
}

func TestRegistryResolvesByName(t *testing.T) {
	t.Parallel()

	v, err := New("standards")
	if err != nil {
		t.Fatalf("New(standards): %v", err)
	}
	if v.Name() != "standards" {
		t.Fatalf("Name = %q", v.Name())
	}

	if _, err := New("no-such-validator"); !errors.Is(err, ErrUnknownValidator) {
		t.Fatalf("unknown name error = %v, want ErrUnknownValidator", err)
	}

	names := Names()
	if len(names) < 2 {
		t.Fatalf("Names() = %v, want at least the built-ins", names)
	}
}
