package apperr

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// MissingRequiredDataError is a fatal precondition failure: a run cannot start
// because required inputs are absent.
type MissingRequiredDataError struct {
	What    string
	Missing []string
}

func (e *MissingRequiredDataError) Error() string {
	if len(e.Missing) == 0 {
		return e.What
	}
	return fmt.Sprintf("%s: missing %d required item(s). First missing: %s",
		e.What, len(e.Missing), e.Missing[0])
}

// Listing returns every missing item, one per line.
func (e *MissingRequiredDataError) Listing() string {
	return strings.Join(e.Missing, "\n")
}

func NewMissingRequiredData(what string, missing ...string) *MissingRequiredDataError {
	return &MissingRequiredDataError{What: what, Missing: missing}
}
