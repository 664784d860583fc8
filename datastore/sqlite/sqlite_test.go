package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/todd/query"
	"github.com/dekarrin/todd/value"
)

var testSess = query.Session{Namespace: "test", Database: "test"}

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func Test_Store_PutGet(t *testing.T) {
	assert := assert.New(t)
	s := openTestStore(t)

	fields := value.Object{
		"title": value.FromString("water the cat"),
		"count": value.FromInt(8),
	}
	require.NoError(t, s.Put(testSess, "todo", "a1", fields))

	got, found, err := s.Get(testSess, "todo", "a1")
	require.NoError(t, err)
	assert.True(found)
	assert.Equal(fields, got)
}

func Test_Store_GetMissing(t *testing.T) {
	assert := assert.New(t)
	s := openTestStore(t)

	_, found, err := s.Get(testSess, "todo", "nope")
	require.NoError(t, err)
	assert.False(found)
}

func Test_Store_PutReplaces(t *testing.T) {
	assert := assert.New(t)
	s := openTestStore(t)

	require.NoError(t, s.Put(testSess, "todo", "a1", value.Object{"title": value.FromString("old")}))
	require.NoError(t, s.Put(testSess, "todo", "a1", value.Object{"title": value.FromString("new")}))

	got, found, err := s.Get(testSess, "todo", "a1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(value.FromString("new"), got["title"])
}

func Test_Store_List(t *testing.T) {
	assert := assert.New(t)
	s := openTestStore(t)

	require.NoError(t, s.Put(testSess, "todo", "b", value.Object{"n": value.FromInt(2)}))
	require.NoError(t, s.Put(testSess, "todo", "a", value.Object{"n": value.FromInt(1)}))

	recs, err := s.List(testSess, "todo")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal("a", recs[0].ID)
	assert.Equal("b", recs[1].ID)
}

func Test_Store_Delete(t *testing.T) {
	assert := assert.New(t)
	s := openTestStore(t)

	require.NoError(t, s.Put(testSess, "todo", "a1", value.Object{}))

	existed, err := s.Delete(testSess, "todo", "a1")
	require.NoError(t, err)
	assert.True(existed)

	existed, err = s.Delete(testSess, "todo", "a1")
	require.NoError(t, err)
	assert.False(existed)
}

func Test_Store_sessionIsolation(t *testing.T) {
	assert := assert.New(t)
	s := openTestStore(t)

	require.NoError(t, s.Put(testSess, "todo", "a1", value.Object{}))

	other := query.Session{Namespace: "prod", Database: "test"}
	_, found, err := s.Get(other, "todo", "a1")
	require.NoError(t, err)
	assert.False(found)
}

func Test_Store_persistsAcrossReopen(t *testing.T) {
	assert := assert.New(t)

	file := filepath.Join(t.TempDir(), "data.db")

	s, err := Open(file)
	require.NoError(t, err)
	require.NoError(t, s.Put(testSess, "todo", "a1", value.Object{"title": value.FromString("still here")}))
	require.NoError(t, s.Close())

	s, err = Open(file)
	require.NoError(t, err)
	defer s.Close()

	got, found, err := s.Get(testSess, "todo", "a1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(value.FromString("still here"), got["title"])
}
