package todd

import (
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
)

var (
	// ErrNotOfType is returned when a dynamic value is narrowed to a concrete
	// type that does not match its variant.
	ErrNotOfType = errors.New("value is not of the requested type")

	// ErrInvalidIdentifier is returned when a raw identifier string cannot be
	// parsed into a record reference.
	ErrInvalidIdentifier = errors.New("identifier cannot be parsed into a record reference")

	// ErrDuplicateBinding is returned when two query bindings in the same call
	// share a name. It indicates a defect in the caller, not bad user input.
	ErrDuplicateBinding = errors.New("multiple query bindings share the same name")

	// ErrNotFound is returned when a read by reference produces no record.
	ErrNotFound = errors.New("the requested record could not be found")

	// ErrNoResponse is returned when the datastore returns zero statement
	// results for a query known to contain at least one statement.
	ErrNoResponse = errors.New("datastore returned no statement results")

	// ErrQuery wraps an execution error reported by the datastore for an
	// individual statement. The underlying error is preserved as a cause.
	ErrQuery = errors.New("query execution failed")

	ErrDB              = errors.New("an error occured with the DB")
	ErrBodyUnmarshal   = errors.New("malformed data in request")
	ErrDecodingFailure = errors.New("field could not be decoded from storage format")
)

// Error is a typed error returned by functions in todd packages as their error
// value. It contains both a message explaining what happened as well as one or
// more error values it considers to be its causes. Error is compatible with
// the use of errors.Is() - calling errors.Is on some Error value err along
// with any value of error it holds as one of its causes will return true.
// This allows for easy examination and failure condition checking without
// needing to resort to manual typecasting.
//
// If Error has at least one cause defined, the result of calling Error.Error()
// will be its primary message with the result of calling Error() on its first
// cause appended to it.
//
// Error should not be used directly; call NewError to create one.
type Error struct {
	msg   string
	cause []error
}

// Error returns the message defined for the Error. If a message was defined
// for it when created, that message is returned, concatenated with the result
// of calling Error() on its first cause if one is defined. If no message or an
// empty message was defined for it when created, but there is at least one
// cause defined for it, the result of calling Error() on the first cause is
// returned. If no message is defined and no causes are defined, returns the
// empty string.
func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}

	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}

	return e.msg
}

// Unwrap returns the causes of Error. The return value will be nil if no
// causes were defined for it.
//
// This function is for interaction with the errors API. It will only be used
// in Go version 1.20 and later; 1.19 will default to use of Error.Is when
// calling errors.Is on the Error.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is returns whether Error either Is itself the given target error, or one of
// its causes is.
//
// This function is for interaction with the errors API.
func (e Error) Is(target error) bool {
	// is the target error itself?
	if errTarget, ok := target.(Error); ok {
		if e.msg == errTarget.msg {
			if len(e.cause) == len(errTarget.cause) {
				allCausesEqual := true
				for i := range e.cause {
					if e.cause[i] != errTarget.cause[i] {
						allCausesEqual = false
						break
					}
				}
				if allCausesEqual {
					return true
				}
			}
		}
	}

	// otherwise, check if any cause equals target
	//
	// per go docs, an Is method should only shallowly compare err and the
	// target and not call Unwrap on either, but Go 1.19 does not support
	// wrapping multiple errors so we do it this way.
	for i := range e.cause {

		// we must check if any are of type Error, because if they are, we need
		// to run the normal Is.
		if sErr, ok := e.cause[i].(Error); ok {
			if sErr.Is(target) {
				return true
			}
		} else if e.cause[i] == target {
			return true
		}
	}
	return false
}

func convertDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		primaryCode := sqliteErr.Code() & 0xff
		if primaryCode == 1 {
			// 1 is a generic error and thus the string is not descriptive, so
			// do not use the error code string
			return err
		}

		return NewError(sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	return err
}

// WrapDBError creates a new Error that wraps the given error as a cause and
// automatically adds ErrDB as another cause. A user-set message may be
// provided if desired with msg, but it may be left as "".
//
// The provided error being wrapped will itself be converted to an Error of
// the appropriate todd type if possible; e.g. SQLite-specific errors
// indicating that a record could not be found would be converted to an Error
// that returns true for errors.Is(err, todd.ErrNotFound).
//
// msg, if provided, is used to create the msg of the error by calling
// fmt.Sprint. For format capability, use WrapDBErrorf.
func WrapDBError(err error, msg ...any) Error {
	err = convertDBError(err)

	var errMsg string
	if len(msg) > 0 {
		errMsg = fmt.Sprint(msg...)
	}

	return Error{
		msg:   errMsg,
		cause: []error{err, ErrDB},
	}
}

// WrapDBErrorf creates a new Error that wraps the given error as a cause and
// automatically adds ErrDB as another cause. A user-set message may be
// provided if desired with format and arguments a.
func WrapDBErrorf(err error, format string, a ...any) Error {
	err = convertDBError(err)

	return Error{
		msg:   fmt.Sprintf(format, a...),
		cause: []error{err, ErrDB},
	}
}

// NewError creates a new Error with the given message, along with any errors
// it should wrap as its causes. Providing cause errors is not required, but
// will cause it to return true when it is checked against that error via a
// call to errors.Is.
func NewError(msg string, causes ...error) Error {
	err := Error{msg: msg}
	if len(causes) > 0 {
		err.cause = make([]error, len(causes))
		copy(err.cause, causes)
	}
	return err
}
