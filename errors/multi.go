package errors

import "strings"

// Append clubs together all provided errors. Nil values are ignored.
//
// If given error implements the unpacker interface, it is flattened and all
// the contained errors are directly included into the result set. This
// prevents nesting of multi errors.
func Append(errs ...error) error {
	var res multiError
	for _, e := range errs {
		switch e := e.(type) {
		case nil:
			continue
		case multiError:
			res = append(res, e...)
		default:
			res = append(res, e)
		}
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

type multiError []error

var _ unpacker = (multiError)(nil)

func (errs multiError) Unpack() []error {
	return errs
}

func (errs multiError) Error() string {
	switch len(errs) {
	case 0:
		return "<nil>"
	case 1:
		return errs[0].Error()
	}
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}
