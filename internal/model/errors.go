package model

// ValidationError is a rejected form field. Message is shown to the user as is.
type ValidationError struct {
	Field   string
	Message string
	// Suggestions lists alternatives the user may pick instead.
	Suggestions []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a ValidationError.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
