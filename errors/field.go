package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field attaches a field name to err, for example "Sender" or "InstanceKey".
// The description is optional and formatted with args. A nil err gives nil.
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) != 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: fieldName, desc: description}
}

// AppendField adds the field error, if any, to errorsOrNil.
func AppendField(errorsOrNil error, fieldName string, fieldErrOrNil error) error {
	return Append(errorsOrNil, Field(fieldName, fieldErrOrNil, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (err *fieldError) Error() string {
	msg := fmt.Sprintf("field %q", err.field)
	if err.desc != "" {
		msg += ": " + err.desc
	}
	return msg + ": " + err.parent.Error()
}

func (err *fieldError) Cause() error { return err.parent }

func (err *fieldError) Field() string { return err.field }

type fielder interface {
	Field() string
}

// FieldErrors returns all errors attached to the given field name.
func FieldErrors(err error, fieldName string) []error {
	var res []error
	walkFields(err, func(name string, ferr error) {
		if name == fieldName {
			res = append(res, ferr)
		}
	})
	return res
}

// FieldNames returns the names of all fields that carry an error, in the
// order they were appended. A name is listed once.
func FieldNames(err error) []string {
	var names []string
	seen := make(map[string]bool)
	walkFields(err, func(name string, _ error) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	})
	return names
}

// walkFields calls fn for every outermost field error found in err. Multi
// errors are unpacked, other wrappers are followed through their cause.
func walkFields(err error, fn func(name string, ferr error)) {
	for !isNilErr(err) {
		if f, ok := err.(fielder); ok {
			fn(f.Field(), err)
			return
		}
		if u, ok := err.(unpacker); ok {
			for _, e := range u.Unpack() {
				walkFields(e, fn)
			}
			return
		}
		c, ok := err.(causer)
		if !ok {
			return
		}
		err = c.Cause()
	}
}
