// Package errors holds validation and wrapped error types shared across
// the lead filter.
package errors

import (
	"encoding/json"
	"fmt"
)

// Errors represents API-serializable validation errors.
type Errors map[string][]string

// Add appends a message to the named field's errors.
func (e Errors) Add(name, message string) {
	e[name] = append(e[name], message)
}

// Empty reports if there are no errors.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// JSON returns the errors' JSON representation for the API.
func (e Errors) JSON() ([]byte, error) {
	wrapped := struct {
		Errors Errors `json:"errors"`
	}{e}
	return json.MarshalIndent(wrapped, "", "    ")
}

// WrappedError pairs an error with the context it occurred in.
type WrappedError struct {
	context string
	err     error
}

// NewWrapped wraps an error with an explanation.
func NewWrapped(context string, err error) *WrappedError {
	return &WrappedError{context: context, err: err}
}

// WrapErrors wraps an old error with a new error and an explanation.
func WrapErrors(context string, old, err error) *WrappedError {
	return &WrappedError{
		context: context,
		err:     NewWrapped(err.Error(), old),
	}
}

func (w *WrappedError) Error() string {
	return fmt.Sprintf("%s: %s", w.context, w.err.Error())
}
