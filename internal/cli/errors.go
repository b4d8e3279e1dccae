// Package cli implements the specroute command surface: batch validation,
// route table inspection, config scaffolding, and contract watching.
package cli

import "errors"

// ErrUsage marks errors caused by how the command was invoked rather than by
// the contracts it processed; errors.Is(err, ErrUsage) matches them.
var ErrUsage = errors.New("cli usage error")

type usageError struct {
	msg string
}

func newUsageError(msg string) error {
	return usageError{msg: msg}
}

func (e usageError) Error() string {
	return e.msg
}

func (e usageError) Is(target error) bool {
	return target == ErrUsage
}
