package errors

import "fmt"

// Field returns an error instance that wraps the original error with
// information about the field name that this error refers to. Use it to
// provide a detailed information about which parts of a processed entity
// are invalid.
//
// This function might cause a memory leak if the wrapped error is
// referencing the given error, creating a cycle. Use with care.
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{
		field: fieldName,
		msg:   description,
		err:   err,
	}
}

// AppendField is a helper function that allows to build a list of field
// errors. The given error is wrapped with the field information and appended
// to the errs collection. This function is nil error safe.
func AppendField(errs error, fieldName string, fieldErr error) error {
	if fieldErr == nil {
		return errs
	}
	err := Field(fieldName, fieldErr, "field failure")
	return Append(errs, err)
}

// FieldErrors returns the list of all errors that are created for the given
// field name. An unwrapped error does not belong to any field and therefore
// an empty string matches it.
func FieldErrors(err error, fieldName string) []error {
	if err == nil {
		return nil
	}

	if u, ok := err.(unpacker); ok {
		var res []error
		for _, e := range u.Unpack() {
			res = append(res, FieldErrors(e, fieldName)...)
		}
		return res
	}

	if f, ok := err.(*fieldError); ok {
		if f.field == fieldName {
			return []error{f.err}
		}
		return nil
	}

	if fieldName == "" {
		return []error{err}
	}
	return nil
}

type fieldError struct {
	field string
	msg   string
	err   error
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("field %q: %s: %s", e.field, e.msg, e.err)
}

func (e *fieldError) Cause() error {
	return e.err
}

func (e *fieldError) Field() string {
	return e.field
}
