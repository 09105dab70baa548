// Package validation holds the request validator and the Brazilian document
// rules (CNPJ, phone numbers) it enforces.
package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Error describes the first failing field of a request.
type Error struct {
	Field string
	Tag   string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Tag)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// FirstError converts a validator error into an *Error for the first failing
// field. Errors that are not validation errors are returned unchanged.
func FirstError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &Error{Field: verrs[0].Field(), Tag: verrs[0].Tag(), Cause: err}
	}
	return err
}
