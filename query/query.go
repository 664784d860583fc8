// Package query defines the boundary between typed application code and the
// datastore's statement executor: the capability contracts a type must meet
// to be used in a creation or patch statement, construction of the named
// variable map an executor expects, and extraction of results from the
// per-statement outcomes an executor returns.
package query

import (
	"context"
	"fmt"

	"github.com/dekarrin/todd"
	"github.com/dekarrin/todd/value"
)

// Session identifies the namespace and database that statements run against.
type Session struct {
	Namespace string
	Database  string
}

// Outcome is the result of a single statement within a query: either a value
// or the execution error that statement produced.
type Outcome struct {
	Value value.Value
	Err   error
}

// Executor runs a query of one or more ';'-separated statements with the
// given named variable bindings and returns one Outcome per statement, in
// statement order. The returned error is reserved for failures that prevent
// the query from running at all; per-statement failures go in the Outcomes.
//
// Implementations must be safe to call concurrently.
type Executor interface {
	Execute(ctx context.Context, statements string, sess Session, vars map[string]value.Value, strict bool) ([]Outcome, error)
}

// Creatable is the capability contract for types that may be converted into a
// dynamic value suitable for record creation. The produced value must be an
// Object holding every required field and must not carry an identifier; the
// datastore assigns one.
type Creatable interface {
	CreationValue() value.Value
}

// Patchable is the capability contract for types that may be converted into a
// dynamic value suitable for a partial update. The produced value must be an
// Object holding only the fields to change; fields that are not set must be
// left out entirely, never emitted as Null.
type Patchable interface {
	PatchValue() value.Value
}

// Binding is a single named value to be supplied to an executor in place of a
// variable in a statement.
type Binding struct {
	Name  string
	Value value.Value
}

// Bind pairs a variable name with a value for use with Vars.
func Bind(name string, v value.Value) Binding {
	return Binding{Name: name, Value: v}
}

// Vars assembles bindings into the named variable map an Executor expects.
// Giving two bindings with the same name is a defect in the caller; it fails
// with an error matching todd.ErrDuplicateBinding and no partial map.
func Vars(binds ...Binding) (map[string]value.Value, error) {
	vars := make(map[string]value.Value, len(binds))
	for _, b := range binds {
		if _, ok := vars[b.Name]; ok {
			return nil, todd.NewError(fmt.Sprintf("binding %q given more than once", b.Name), todd.ErrDuplicateBinding)
		}
		vars[b.Name] = b.Value
	}
	return vars, nil
}

// First returns the value of the first statement outcome in res. An empty res
// indicates the executor violated protocol and fails with an error matching
// todd.ErrNoResponse. A failed first outcome propagates its execution error,
// wrapped so it matches todd.ErrQuery; the underlying error is not
// interpreted.
func First(res []Outcome) (value.Value, error) {
	if len(res) == 0 {
		return value.None, todd.NewError("query produced no statement results", todd.ErrNoResponse)
	}
	if res[0].Err != nil {
		return value.None, todd.NewError("", res[0].Err, todd.ErrQuery)
	}
	return res[0].Value, nil
}

// FirstRecord extracts the single record a one-record read produces: the
// first statement's value must be an Array of objects, and the first element
// is the record. An empty Array is the normal "no such record" outcome and
// fails with an error matching todd.ErrNotFound, which is distinct from a
// narrowing failure.
func FirstRecord(res []Outcome) (value.Object, error) {
	v, err := First(res)
	if err != nil {
		return nil, err
	}

	arr, err := v.AsArray()
	if err != nil {
		return nil, err
	}
	if len(arr) == 0 {
		return nil, todd.ErrNotFound
	}

	return arr[0].AsObject()
}

// Records extracts every record from the first statement's Array value. A
// result with no records gives an empty slice and a nil error.
func Records(res []Outcome) ([]value.Object, error) {
	v, err := First(res)
	if err != nil {
		return nil, err
	}

	arr, err := v.AsArray()
	if err != nil {
		return nil, err
	}

	objs := make([]value.Object, len(arr))
	for i := range arr {
		objs[i], err = arr[i].AsObject()
		if err != nil {
			return nil, err
		}
	}
	return objs, nil
}
