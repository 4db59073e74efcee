package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no errors are given or all given errors are nil, nil is returned. If
// only one non nil error is given, it is returned without being wrapped.
func Append(errs ...error) error {
	var all multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		// Flatten so that Unpack returns a single level.
		if m, ok := e.(multiErr); ok {
			all = append(all, m...)
			continue
		}
		all = append(all, e)
	}
	switch len(all) {
	case 0:
		return nil
	case 1:
		return all[0]
	default:
		return all
	}
}

// multiErr represents a set of errors. The code reported is the code of the
// first error.
type multiErr []error

var _ unpacker = multiErr(nil)

func (errs multiErr) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = "* " + e.Error()
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(errs), strings.Join(msgs, "\n\t"))
}

// Unpack returns all errors contained in this set.
func (errs multiErr) Unpack() []error {
	return errs
}

// Code returns the code of the first error, consistent with a fail-fast
// approach.
func (errs multiErr) Code() uint32 {
	if len(errs) == 0 {
		return SuccessCode
	}
	return Code(errs[0])
}

type unpacker interface {
	Unpack() []error
}
