package helper

import "errors"

// FieldError menandai error pada satu field request.
type FieldError struct {
	Field string
	Error string
}

// ValidationError: error input dari service; controller menjawab 400.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

// BadInput: shortcut ValidationError dengan satu pesan.
func BadInput(msg string) error {
	return &ValidationError{Err: errors.New(msg)}
}

func (err *ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return "invalid input"
	}
	return err.Err.Error()
}

func (err *ValidationError) Unwrap() error { return err.Err }

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
