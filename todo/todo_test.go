package todo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/todd/value"
)

func strPtr(s string) *string {
	return &s
}

func Test_Todo_CreationValue(t *testing.T) {
	assert := assert.New(t)

	td := Todo{Title: "water the cat", Body: "srsly, do it"}

	obj, err := td.CreationValue().AsObject()
	require.NoError(t, err)

	title, err := obj["title"].AsString()
	require.NoError(t, err)
	body, err := obj["body"].AsString()
	require.NoError(t, err)

	assert.Equal("water the cat", title)
	assert.Equal("srsly, do it", body)
}

func Test_Todo_CreationValueExcludesID(t *testing.T) {
	assert := assert.New(t)

	td := Todo{ID: "already-set", Title: "x", Body: "y"}

	obj, err := td.CreationValue().AsObject()
	require.NoError(t, err)

	_, hasID := obj["id"]
	assert.False(hasID)
}

func Test_TodoPatch_PatchValue(t *testing.T) {
	testCases := []struct {
		name   string
		patch  TodoPatch
		expect value.Object
	}{
		{
			name:   "empty patch",
			patch:  TodoPatch{},
			expect: value.Object{},
		},
		{
			name:   "title only",
			patch:  TodoPatch{Title: strPtr("new title")},
			expect: value.Object{"title": value.FromString("new title")},
		},
		{
			name:   "body only",
			patch:  TodoPatch{Body: strPtr("new body")},
			expect: value.Object{"body": value.FromString("new body")},
		},
		{
			name:  "both fields",
			patch: TodoPatch{Title: strPtr("t"), Body: strPtr("b")},
			expect: value.Object{
				"title": value.FromString("t"),
				"body":  value.FromString("b"),
			},
		},
		{
			name:   "set to empty string is still set",
			patch:  TodoPatch{Title: strPtr("")},
			expect: value.Object{"title": value.FromString("")},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			obj, err := tc.patch.PatchValue().AsObject()
			require.NoError(t, err)

			assert.Equal(tc.expect, obj)
		})
	}
}
