package serrors

import "fmt"

// Base is a typed error carrying a stable machine-readable code alongside the
// human-readable message. API layers map codes to HTTP responses without
// string-matching messages.
type Base struct {
	Code    string
	Message string
	Details string
}

func NewError(code, message, details string) *Base {
	return &Base{
		Code:    code,
		Message: message,
		Details: details,
	}
}

func (e *Base) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Details)
}

// WithDetails returns a copy of the error with details attached, keeping the
// original usable as a sentinel for errors.Is.
func (e *Base) WithDetails(details string) *Base {
	return &Base{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

func (e *Base) Is(target error) bool {
	other, ok := target.(*Base)
	if !ok {
		return false
	}
	return other.Code == e.Code
}
