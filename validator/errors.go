package validator

import "fmt"

// ErrorCode names one rule a contract document can violate.
type ErrorCode string

const (
	UnsupportedVersion ErrorCode = "UnsupportedVersion"

	// Standards rules.
	ServersShouldNotBeDefined  ErrorCode = "ServersShouldNotBeDefined"
	NoEndpointsDefined         ErrorCode = "NoEndpointsDefined"
	OnlyOneEndpointAllowed     ErrorCode = "OnlyOneEndpointAllowed"
	PostMethodIsMissing        ErrorCode = "PostMethodIsMissing"
	OnlyPostMethodAllowed      ErrorCode = "OnlyPostMethodAllowed"
	SchemaMissing              ErrorCode = "SchemaMissing"
	SecurityShouldNotBeDefined ErrorCode = "SecurityShouldNotBeDefined"
	WrongContentType           ErrorCode = "WrongContentType"
	RequestBodyMissing         ErrorCode = "RequestBodyMissing"
	ResponseBodyMissing        ErrorCode = "ResponseBodyMissing"
	AuthorizationHeaderMissing ErrorCode = "AuthorizationHeaderMissing"
	AuthProviderHeaderMissing  ErrorCode = "AuthProviderHeaderMissing"

	// Companion document rules.
	CompanionFileMissing ErrorCode = "CompanionFileMissing"
	CompanionFileEmpty   ErrorCode = "CompanionFileEmpty"
	CompanionFileInvalid ErrorCode = "CompanionFileInvalid"
)

// Error is one rule violation raised by a validator.
type Error struct {
	Code      ErrorCode
	Message   string
	Validator string // name of the validator that raised
	Cause     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Cause }

// ChainError aggregates every violation raised while running a chain over
// one document. The first entry is the headline diagnostic; errors.Is and
// errors.As traverse all of them.
type ChainError struct {
	Errors []error
}

func (e *ChainError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "validator: chain failed"
	case 1:
		return e.Errors[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", e.Errors[0], len(e.Errors)-1)
	}
}

func (e *ChainError) Unwrap() []error { return e.Errors }
