package value

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dekarrin/todd"
)

// MarshalJSON implements json.Marshaler. Null, Bool, Number, String, Array,
// and Object marshal as their JSON counterparts; a Reference marshals as its
// canonical "table:identifier" string, never as a structured object.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindNumber:
		if v.isInt {
			return json.Marshal(v.i)
		}
		return json.Marshal(v.f)
	case KindString:
		return json.Marshal(v.s)
	case KindArray:
		if v.arr == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.arr)
	case KindObject:
		if v.obj == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.obj)
	case KindReference:
		return json.Marshal(v.ref.String())
	default:
		return nil, fmt.Errorf("unknown value kind %v", v.kind)
	}
}

// Decode converts JSON bytes into a Value. Integral numbers decode to integer
// Numbers. JSON has no reference form, so references stored through a JSON
// round trip come back as plain strings.
func Decode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return None, todd.NewError("", err, todd.ErrDecodingFailure)
	}

	v, err := fromNative(raw)
	if err != nil {
		return None, todd.NewError("", err, todd.ErrDecodingFailure)
	}
	return v, nil
}

// DecodeObject converts JSON bytes holding a JSON object into an Object.
func DecodeObject(data []byte) (Object, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, err
	}
	o, err := v.AsObject()
	if err != nil {
		return nil, todd.NewError("decoded value is not an object", err, todd.ErrDecodingFailure)
	}
	return o, nil
}

func fromNative(raw interface{}) (Value, error) {
	switch tv := raw.(type) {
	case nil:
		return None, nil
	case bool:
		return FromBool(tv), nil
	case json.Number:
		if i, err := tv.Int64(); err == nil {
			return FromInt(i), nil
		}
		f, err := tv.Float64()
		if err != nil {
			return None, fmt.Errorf("number %q: %w", tv.String(), err)
		}
		return FromFloat(f), nil
	case string:
		return FromString(tv), nil
	case []interface{}:
		arr := make([]Value, len(tv))
		for i := range tv {
			var err error
			arr[i], err = fromNative(tv[i])
			if err != nil {
				return None, err
			}
		}
		return FromArray(arr), nil
	case map[string]interface{}:
		obj := make(Object, len(tv))
		for k := range tv {
			conv, err := fromNative(tv[k])
			if err != nil {
				return None, err
			}
			obj[k] = conv
		}
		return FromObject(obj), nil
	default:
		return None, fmt.Errorf("cannot convert %T to a value", raw)
	}
}
