// Package value holds the dynamic value model used at the boundary between
// the schemaless datastore and typed application code. A Value is exactly one
// of a closed set of variants: Null, Bool, Number, String, Array, Object, or
// Reference. Values produced by the datastore are narrowed to concrete types
// with the As* methods; each narrowing either succeeds or fails with an error
// matching todd.ErrNotOfType, and never coerces between unrelated variants.
package value

import (
	"fmt"
	"math"

	"github.com/dekarrin/todd"
)

// Kind enumerates the variants a Value can hold.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
	KindReference
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindArray:
		return "Array"
	case KindObject:
		return "Object"
	case KindReference:
		return "Reference"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Object is a key-unique mapping of field names to Values. It is the wire
// object shape; marshaling one to JSON gives the representation sent to
// callers.
type Object map[string]Value

// Value is a single dynamic value. The zero value is Null. Values are
// immutable once constructed except through the slices and maps handed to
// FromArray and FromObject, which the Value borrows rather than copies.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	isInt bool
	s     string
	arr   []Value
	obj   Object
	ref   Ref
}

// None is the Null value.
var None = Value{}

// FromBool creates a Bool Value.
func FromBool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// FromInt creates a Number Value holding an integer.
func FromInt(i int64) Value {
	return Value{kind: KindNumber, i: i, isInt: true}
}

// FromFloat creates a Number Value holding a float.
func FromFloat(f float64) Value {
	return Value{kind: KindNumber, f: f}
}

// FromString creates a String Value.
func FromString(s string) Value {
	return Value{kind: KindString, s: s}
}

// FromArray creates an Array Value over the given items. The slice is
// borrowed, not copied.
func FromArray(items []Value) Value {
	return Value{kind: KindArray, arr: items}
}

// FromObject creates an Object Value over the given mapping. The map is
// borrowed, not copied.
func FromObject(o Object) Value {
	return Value{kind: KindObject, obj: o}
}

// FromRef creates a Reference Value.
func FromRef(r Ref) Value {
	return Value{kind: KindReference, ref: r}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull returns whether v is the Null variant.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

func notOfType(target string) error {
	return todd.NewError(fmt.Sprintf("value not of type '%s'", target), todd.ErrNotOfType)
}

// AsObject narrows v to an Object. It fails for every variant other than
// Object.
func (v Value) AsObject() (Object, error) {
	if v.kind != KindObject {
		return nil, notOfType("Object")
	}
	if v.obj == nil {
		return Object{}, nil
	}
	return v.obj, nil
}

// AsArray narrows v to an ordered sequence of Values. It fails for every
// variant other than Array.
func (v Value) AsArray() ([]Value, error) {
	if v.kind != KindArray {
		return nil, notOfType("Array")
	}
	if v.arr == nil {
		return []Value{}, nil
	}
	return v.arr, nil
}

// AsInt narrows v to a 64-bit integer. It fails for every variant other than
// Number, and for Number values that do not hold an integral amount
// representable in an int64.
func (v Value) AsInt() (int64, error) {
	if v.kind != KindNumber {
		return 0, notOfType("i64")
	}
	if v.isInt {
		return v.i, nil
	}
	if math.IsNaN(v.f) || math.IsInf(v.f, 0) || math.Trunc(v.f) != v.f {
		return 0, notOfType("i64")
	}
	if v.f < math.MinInt64 || v.f > math.MaxInt64 {
		return 0, notOfType("i64")
	}
	return int64(v.f), nil
}

// AsBool narrows v to a bool. It fails for every variant other than Bool.
func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, notOfType("bool")
	}
	return v.b, nil
}

// AsString narrows v to a string. String values give their contents;
// Reference values give their canonical "table:identifier" form, since record
// identifiers are surfaced to callers as opaque strings. Every other variant
// fails.
func (v Value) AsString() (string, error) {
	switch v.kind {
	case KindString:
		return v.s, nil
	case KindReference:
		return v.ref.String(), nil
	default:
		return "", notOfType("String")
	}
}

// AsRef narrows v to a Ref. It fails for every variant other than Reference.
func (v Value) AsRef() (Ref, error) {
	if v.kind != KindReference {
		return Ref{}, notOfType("Reference")
	}
	return v.ref, nil
}
