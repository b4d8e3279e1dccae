package models

import "fmt"

// GenerationError reports a failure while synthesizing models from a
// contract: an unresolvable reference or a malformed schema construct.
type GenerationError struct {
	Component string // offending schema name, where known
	Message   string
	Cause     error
}

func (e *GenerationError) Error() string { return e.Message }
func (e *GenerationError) Unwrap() error { return e.Cause }

// Field error kinds. The vocabulary follows the transport runtime's own
// validation errors so envelopes look identical no matter whether a failure
// originated in a contract-declared constraint or in the strict temporal
// pre-validators.
const (
	KindMissing                 = "missing"
	KindExtraForbidden          = "extra_forbidden"
	KindJSONInvalid             = "json_invalid"
	KindStringType              = "string_type"
	KindIntType                 = "int_type"
	KindIntParsing              = "int_parsing"
	KindIntFromFloat            = "int_from_float"
	KindFloatType               = "float_type"
	KindFloatParsing            = "float_parsing"
	KindBoolType                = "bool_type"
	KindBoolParsing             = "bool_parsing"
	KindModelType               = "model_type"
	KindListType                = "list_type"
	KindEnum                    = "enum"
	KindDateType                = "date_type"
	KindDateParsing             = "date_parsing"
	KindDateFromDatetimeParsing = "date_from_datetime_parsing"
	KindDateInexact             = "date_from_datetime_inexact"
	KindDatetimeType            = "datetime_type"
	KindDatetimeParsing         = "datetime_parsing"
	KindDatetimeFromDateParsing = "datetime_from_date_parsing"
	KindValueError              = "value_error"
)

// FieldError is one field-level violation inside a validated value.
type FieldError struct {
	Loc   []any          `json:"loc"`
	Msg   string         `json:"msg"`
	Kind  string         `json:"type"`
	Input any            `json:"input,omitempty"`
	Ctx   map[string]any `json:"ctx,omitempty"`
}

// ValidationError is the transport-compatible envelope carrying every field
// violation found while validating one value against one model.
type ValidationError struct {
	Detail []*FieldError `json:"detail"`
}

func (e *ValidationError) Error() string {
	switch len(e.Detail) {
	case 0:
		return "models: validation failed"
	case 1:
		return fmt.Sprintf("models: validation failed at %v: %s", e.Detail[0].Loc, e.Detail[0].Msg)
	default:
		return fmt.Sprintf("models: validation failed with %d field errors", len(e.Detail))
	}
}

func (e *ValidationError) add(loc []any, kind, msg string, input any) {
	if loc == nil {
		loc = []any{}
	}
	e.Detail = append(e.Detail, &FieldError{Loc: loc, Kind: kind, Msg: msg, Input: input})
}

func (e *ValidationError) addField(loc []any, fe *FieldError) {
	if loc == nil {
		loc = []any{}
	}
	fe.Loc = loc
	e.Detail = append(e.Detail, fe)
}

// Prefixed returns a copy whose field locations start with seg. The route
// adapter uses it to anchor request-body errors under "body".
func (e *ValidationError) Prefixed(seg any) *ValidationError {
	out := &ValidationError{Detail: make([]*FieldError, len(e.Detail))}
	for i, fe := range e.Detail {
		clone := *fe
		clone.Loc = append([]any{seg}, fe.Loc...)
		out.Detail[i] = &clone
	}
	return out
}
