package routes

import (
	"errors"
	"fmt"
)

var (
	// ErrRouteNotFound is returned when a registration or lookup names a
	// path the contract never declared.
	ErrRouteNotFound = errors.New("routes: route not found")

	// ErrUnsupportedMethod is returned when a lookup asks for a method the
	// table can never contain.
	ErrUnsupportedMethod = errors.New("routes: unsupported HTTP method")

	// ErrModelNotFound is returned during construction when a contract
	// declares a request or response schema name that the generated module
	// does not contain.
	ErrModelNotFound = errors.New("routes: model not found in generated module")
)

// BuildError reports a failure while constructing routes from one contract
// file. It wraps the underlying validator, parser, or generation error.
type BuildError struct {
	File  string
	Cause error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("routes: building %s: %v", e.File, e.Cause)
}

func (e *BuildError) Unwrap() error { return e.Cause }
