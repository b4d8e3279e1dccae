// Package validator gates contract documents before anything is built from
// them. A chain always starts with the baseline version validator; optional
// validators such as the standards convention are appended by name or value
// and run in registration order.
package validator

import (
	"fmt"
	"strings"

	"github.com/specroute/specroute/contract"
)

// Validator is one structural check over a loaded contract document.
// Implementations must treat the document as read-only.
type Validator interface {
	Name() string
	Validate(doc *contract.Document) error
}

// Chain is an ordered sequence of validators. The baseline version validator
// is always first. Chains are stateless between documents and safe to reuse.
type Chain struct {
	validators []Validator
}

// NewChain builds a chain from the implicit baseline validator followed by
// the given validators in order.
func NewChain(extra ...Validator) *Chain {
	vs := make([]Validator, 0, len(extra)+1)
	vs = append(vs, Default{})
	vs = append(vs, extra...)
	return &Chain{validators: vs}
}

// Validators returns the chain members in execution order.
func (c *Chain) Validators() []Validator {
	out := make([]Validator, len(c.validators))
	copy(out, c.validators)
	return out
}

// Run executes every validator against the document and aggregates their
// violations in chain order. The document fails if any validator raised;
// later validators still run so diagnostics stay complete.
func (c *Chain) Run(doc *contract.Document) error {
	var errs []error
	for _, v := range c.validators {
		if err := v.Validate(doc); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &ChainError{Errors: errs}
}

// Default rejects documents whose declared specification version is not a
// supported major version. Every chain carries it implicitly.
type Default struct{}

func (Default) Name() string { return "default" }

func (Default) Validate(doc *contract.Document) error {
	v := doc.Version()
	if strings.HasPrefix(v, "3") {
		return nil
	}
	return &Error{
		Code:      UnsupportedVersion,
		Message:   fmt.Sprintf("validator: unsupported OpenAPI version %q (only 3.x is supported)", v),
		Validator: "default",
	}
}
