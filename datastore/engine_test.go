package datastore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/todd/datastore"
	"github.com/dekarrin/todd/datastore/inmem"
	"github.com/dekarrin/todd/query"
	"github.com/dekarrin/todd/value"
)

var testSess = query.Session{Namespace: "test", Database: "test"}

func newTestEngine() *datastore.Engine {
	return datastore.NewEngine(inmem.New())
}

func createOne(t *testing.T, e *datastore.Engine, title, body string) value.Ref {
	t.Helper()

	vars := map[string]value.Value{
		"data": value.FromObject(value.Object{
			"title": value.FromString(title),
			"body":  value.FromString(body),
		}),
	}

	res, err := e.Execute(context.Background(), "CREATE todo CONTENT $data", testSess, vars, false)
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.NoError(t, res[0].Err)

	obj, err := query.FirstRecord(res)
	require.NoError(t, err)

	ref, err := obj["id"].AsRef()
	require.NoError(t, err)
	return ref
}

func Test_Engine_createAssignsID(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	ref1 := createOne(t, e, "one", "first")
	ref2 := createOne(t, e, "two", "second")

	assert.Equal("todo", ref1.Table)
	assert.NotEmpty(ref1.ID)
	assert.NotEqual(ref1.ID, ref2.ID)
}

func Test_Engine_createIgnoresIDField(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	vars := map[string]value.Value{
		"data": value.FromObject(value.Object{
			"id":    value.FromString("sneaky"),
			"title": value.FromString("x"),
		}),
	}

	res, err := e.Execute(context.Background(), "CREATE todo CONTENT $data", testSess, vars, false)
	require.NoError(t, err)

	obj, err := query.FirstRecord(res)
	require.NoError(t, err)

	ref, err := obj["id"].AsRef()
	require.NoError(t, err)
	assert.NotEqual("sneaky", ref.ID)
}

func Test_Engine_selectByRef(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	ref := createOne(t, e, "water the cat", "srsly")

	vars := map[string]value.Value{"th": value.FromRef(ref)}
	res, err := e.Execute(context.Background(), "SELECT * FROM $th", testSess, vars, true)
	require.NoError(t, err)

	obj, err := query.FirstRecord(res)
	require.NoError(t, err)

	title, err := obj["title"].AsString()
	require.NoError(t, err)
	assert.Equal("water the cat", title)
}

func Test_Engine_selectMissingGivesEmptyArray(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	vars := map[string]value.Value{"th": value.FromRef(value.Ref{Table: "todo", ID: "nope"})}
	res, err := e.Execute(context.Background(), "SELECT * FROM $th", testSess, vars, true)
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.NoError(t, res[0].Err)

	arr, err := res[0].Value.AsArray()
	require.NoError(t, err)
	assert.Len(arr, 0)
}

func Test_Engine_selectAll(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	createOne(t, e, "one", "1")
	createOne(t, e, "two", "2")

	res, err := e.Execute(context.Background(), "SELECT * FROM todo", testSess, nil, true)
	require.NoError(t, err)

	objs, err := query.Records(res)
	require.NoError(t, err)
	assert.Len(objs, 2)
}

func Test_Engine_selectAllEmptyTable(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	res, err := e.Execute(context.Background(), "SELECT * FROM todo", testSess, nil, true)
	require.NoError(t, err)

	objs, err := query.Records(res)
	require.NoError(t, err)
	assert.Len(objs, 0)
}

func Test_Engine_updateMerges(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	ref := createOne(t, e, "old title", "old body")

	vars := map[string]value.Value{
		"th":   value.FromRef(ref),
		"data": value.FromObject(value.Object{"title": value.FromString("new title")}),
	}
	res, err := e.Execute(context.Background(), "UPDATE $th MERGE $data", testSess, vars, true)
	require.NoError(t, err)

	obj, err := query.FirstRecord(res)
	require.NoError(t, err)

	title, _ := obj["title"].AsString()
	body, _ := obj["body"].AsString()
	assert.Equal("new title", title)
	assert.Equal("old body", body, "merge must not clear unmentioned fields")
}

func Test_Engine_updateWithNullRemovesField(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	ref := createOne(t, e, "title", "body")

	vars := map[string]value.Value{
		"th":   value.FromRef(ref),
		"data": value.FromObject(value.Object{"body": value.None}),
	}
	res, err := e.Execute(context.Background(), "UPDATE $th MERGE $data", testSess, vars, true)
	require.NoError(t, err)

	obj, err := query.FirstRecord(res)
	require.NoError(t, err)

	_, hasBody := obj["body"]
	assert.False(hasBody)
}

func Test_Engine_updateMissingGivesEmptyArray(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	vars := map[string]value.Value{
		"th":   value.FromRef(value.Ref{Table: "todo", ID: "nope"}),
		"data": value.FromObject(value.Object{"title": value.FromString("x")}),
	}
	res, err := e.Execute(context.Background(), "UPDATE $th MERGE $data", testSess, vars, true)
	require.NoError(t, err)
	require.NoError(t, res[0].Err)

	arr, err := res[0].Value.AsArray()
	require.NoError(t, err)
	assert.Len(arr, 0)
}

func Test_Engine_delete(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	ref := createOne(t, e, "doomed", "so doomed")

	vars := map[string]value.Value{"th": value.FromRef(ref)}
	res, err := e.Execute(context.Background(), "DELETE $th", testSess, vars, false)
	require.NoError(t, err)
	require.NoError(t, res[0].Err)

	res, err = e.Execute(context.Background(), "SELECT * FROM $th", testSess, vars, true)
	require.NoError(t, err)

	arr, err := res[0].Value.AsArray()
	require.NoError(t, err)
	assert.Len(arr, 0)
}

func Test_Engine_strictUnboundVariableFails(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	res, err := e.Execute(context.Background(), "SELECT * FROM $th", testSess, nil, true)
	require.NoError(t, err)
	require.Len(t, res, 1)

	assert.Error(res[0].Err)
}

func Test_Engine_nonStrictUnboundVariableIsEmpty(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	res, err := e.Execute(context.Background(), "DELETE $th", testSess, nil, false)
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.NoError(t, res[0].Err)

	arr, err := res[0].Value.AsArray()
	require.NoError(t, err)
	assert.Len(arr, 0)
}

func Test_Engine_badlyTypedVariableFails(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	vars := map[string]value.Value{"th": value.FromString("todo:41")}
	res, err := e.Execute(context.Background(), "SELECT * FROM $th", testSess, vars, true)
	require.NoError(t, err)
	require.Len(t, res, 1)

	assert.Error(res[0].Err)
}

func Test_Engine_multipleStatements(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	vars := map[string]value.Value{
		"data": value.FromObject(value.Object{"title": value.FromString("x")}),
	}
	res, err := e.Execute(context.Background(), "CREATE todo CONTENT $data; SELECT * FROM todo", testSess, vars, false)
	require.NoError(t, err)
	require.Len(t, res, 2)
	require.NoError(t, res[0].Err)
	require.NoError(t, res[1].Err)

	arr, err := res[1].Value.AsArray()
	require.NoError(t, err)
	assert.Len(arr, 1)
}

func Test_Engine_failedStatementDoesNotStopLaterOnes(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	res, err := e.Execute(context.Background(), "SELECT * FROM $missing; SELECT * FROM todo", testSess, nil, true)
	require.NoError(t, err)
	require.Len(t, res, 2)

	assert.Error(res[0].Err)
	assert.NoError(res[1].Err)
}

func Test_Engine_parseErrorFailsWholeQuery(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	res, err := e.Execute(context.Background(), "DROP todo", testSess, nil, false)

	assert.Error(err)
	assert.Nil(res)
}

func Test_Engine_cancelledContext(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Execute(ctx, "SELECT * FROM todo", testSess, nil, true)

	assert.ErrorIs(err, context.Canceled)
}

func Test_Engine_sessionsAreIsolated(t *testing.T) {
	assert := assert.New(t)
	e := newTestEngine()

	createOne(t, e, "mine", "here")

	otherSess := query.Session{Namespace: "test", Database: "other"}
	res, err := e.Execute(context.Background(), "SELECT * FROM todo", otherSess, nil, true)
	require.NoError(t, err)

	objs, err := query.Records(res)
	require.NoError(t, err)
	assert.Len(objs, 0)
}
