package value

import (
	"encoding/json"
	"testing"

	"github.com/dekarrin/todd"
	"github.com/stretchr/testify/assert"
)

func Test_Value_MarshalJSON(t *testing.T) {
	testCases := []struct {
		name   string
		input  Value
		expect string
	}{
		{
			name:   "null",
			input:  None,
			expect: `null`,
		},
		{
			name:   "bool",
			input:  FromBool(false),
			expect: `false`,
		},
		{
			name:   "integer",
			input:  FromInt(413),
			expect: `413`,
		},
		{
			name:   "float",
			input:  FromFloat(6.12),
			expect: `6.12`,
		},
		{
			name:   "string",
			input:  FromString("mither"),
			expect: `"mither"`,
		},
		{
			name:   "empty array",
			input:  FromArray(nil),
			expect: `[]`,
		},
		{
			name:   "array",
			input:  FromArray([]Value{FromInt(1), FromString("two")}),
			expect: `[1,"two"]`,
		},
		{
			name:   "empty object",
			input:  FromObject(nil),
			expect: `{}`,
		},
		{
			name:   "reference marshals as its textual form",
			input:  FromRef(Ref{Table: "todo", ID: "abc123"}),
			expect: `"todo:abc123"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := json.Marshal(tc.input)

			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, string(actual))
		})
	}
}

func Test_Value_MarshalJSON_objectWithIDRef(t *testing.T) {
	assert := assert.New(t)

	obj := Object{
		"id":    FromRef(Ref{Table: "todo", ID: "42"}),
		"title": FromString("water the cat"),
	}

	actual, err := json.Marshal(obj)

	if !assert.NoError(err) {
		return
	}
	assert.JSONEq(`{"id": "todo:42", "title": "water the cat"}`, string(actual))
}

func Test_Decode(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Value
		expectErr bool
	}{
		{
			name:   "null",
			input:  `null`,
			expect: None,
		},
		{
			name:   "integer stays integral",
			input:  `413`,
			expect: FromInt(413),
		},
		{
			name:   "float",
			input:  `0.25`,
			expect: FromFloat(0.25),
		},
		{
			name:   "string",
			input:  `"sup"`,
			expect: FromString("sup"),
		},
		{
			name:   "nested",
			input:  `{"done": false, "tags": ["a", "b"]}`,
			expect: FromObject(Object{"done": FromBool(false), "tags": FromArray([]Value{FromString("a"), FromString("b")})}),
		},
		{
			name:      "not json",
			input:     `{"done":`,
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Decode([]byte(tc.input))

			if tc.expectErr {
				assert.ErrorIs(err, todd.ErrDecodingFailure)
			} else {
				if !assert.NoError(err) {
					return
				}
				assert.Equal(tc.expect, actual)
			}
		})
	}
}

func Test_DecodeObject(t *testing.T) {
	assert := assert.New(t)

	obj, err := DecodeObject([]byte(`{"title": "feed the walls"}`))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(Object{"title": FromString("feed the walls")}, obj)

	_, err = DecodeObject([]byte(`[1, 2]`))
	assert.ErrorIs(err, todd.ErrDecodingFailure)
}

func Test_Decode_roundTripPreservesIntegers(t *testing.T) {
	assert := assert.New(t)

	orig := Object{"count": FromInt(8), "title": FromString("x")}

	data, err := json.Marshal(FromObject(orig))
	if !assert.NoError(err) {
		return
	}

	back, err := DecodeObject(data)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(orig, back)
}
