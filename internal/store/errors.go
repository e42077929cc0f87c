package store

import (
	"errors"
	"fmt"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

// IsNotFound reports whether err (or anything it wraps) is a missing-record error.
func IsNotFound(err error) bool {
	var nf notFoundError
	return errors.As(err, &nf)
}

type fieldError struct {
	accountID string
	field     string
	reason    string
}

func (e fieldError) Error() string {
	return fmt.Sprintf("account %s: field %s: %s", e.accountID, e.field, e.reason)
}

// IsFieldError reports whether err is an invalid field/value error.
func IsFieldError(err error) bool {
	var fe fieldError
	return errors.As(err, &fe)
}
