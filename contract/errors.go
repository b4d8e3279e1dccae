package contract

// ErrorCode categorizes contract loading and parsing failures.
type ErrorCode string

const (
	// InvalidJSON marks input that does not decode to a mapping at all.
	InvalidJSON ErrorCode = "InvalidJSON"
	// MissingParameter marks a parameter object that lacks a name.
	MissingParameter ErrorCode = "MissingParameter"
)

// Error is a structured contract error tied to one document.
type Error struct {
	Code    ErrorCode
	Message string
	Path    string // contract file path, where known
	Cause   error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Cause }
