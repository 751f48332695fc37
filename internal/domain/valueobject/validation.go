package valueobject

import "fmt"

// ValidationError signals that a value object could not be constructed
// because the input violates one of its invariants. There is no way to
// obtain an invalid value object instance.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
