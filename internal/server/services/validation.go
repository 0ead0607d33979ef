package services

import "strings"

// ValidationError carries user-facing validation messages. Handlers render
// the messages verbatim, so they are written in display form
// ("Name can't be blank"), not as error codes.
type ValidationError struct {
	Messages []string
}

func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}
