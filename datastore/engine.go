package datastore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dekarrin/todd/internal/sortby"
	"github.com/dekarrin/todd/query"
	"github.com/dekarrin/todd/value"
)

// Record is a stored record: its identifier within its table, and its fields.
// The identifier is not among the fields; the engine attaches it as an "id"
// reference when building results.
type Record struct {
	ID     string
	Fields value.Object
}

// Storage is the persistence interface the engine runs against. All methods
// are scoped by session so that distinct namespace/database pairs never see
// each other's records. Implementations must be safe for concurrent use.
type Storage interface {
	// Get retrieves one record's fields. The second return value is false if
	// no record has the given id.
	Get(sess query.Session, table, id string) (value.Object, bool, error)

	// List retrieves every record in the table, ordered by id. An unknown
	// table is not an error; it lists as empty.
	List(sess query.Session, table string) ([]Record, error)

	// Put stores fields under the given id, replacing any existing record.
	Put(sess query.Session, table, id string, fields value.Object) error

	// Delete removes a record, reporting whether it existed.
	Delete(sess query.Session, table, id string) (bool, error)

	// Close releases any held resources. The Storage is unusable afterward.
	Close() error
}

// Engine executes parsed statements against a Storage. It implements
// query.Executor.
//
// Strict mode controls variable resolution: when strict, referencing a
// variable that was not bound is an execution error; when not strict, the
// missing variable resolves to Null and the statement comes back with empty
// results instead of failing.
type Engine struct {
	store Storage
}

// NewEngine creates an Engine over the given storage backend.
func NewEngine(store Storage) *Engine {
	return &Engine{store: store}
}

// Close closes the underlying storage.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Execute parses statements and runs each in order, producing one outcome per
// statement. A statement that fails contributes an error outcome but does not
// stop the statements after it. The returned error is non-nil only when the
// query cannot run at all: a parse failure or a cancelled context.
func (e *Engine) Execute(ctx context.Context, statements string, sess query.Session, vars map[string]value.Value, strict bool) ([]query.Outcome, error) {
	stmts, err := Parse(statements)
	if err != nil {
		return nil, err
	}

	out := make([]query.Outcome, len(stmts))
	for i, st := range stmts {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		v, err := e.run(st, sess, vars, strict)
		out[i] = query.Outcome{Value: v, Err: err}
	}

	return out, nil
}

func (e *Engine) run(st Statement, sess query.Session, vars map[string]value.Value, strict bool) (value.Value, error) {
	switch st.Op {
	case OpSelect:
		if st.Target.Table != "" {
			return e.selectAll(sess, st.Target.Table)
		}
		return e.selectOne(sess, vars, st.Target.Var, strict)
	case OpCreate:
		return e.create(sess, vars, st.Target.Table, st.ContentVar, strict)
	case OpUpdate:
		return e.update(sess, vars, st.Target.Var, st.MergeVar, strict)
	case OpDelete:
		return e.delete(sess, vars, st.Target.Var, strict)
	default:
		return value.None, fmt.Errorf("unsupported operation %v", st.Op)
	}
}

func (e *Engine) selectAll(sess query.Session, table string) (value.Value, error) {
	recs, err := e.store.List(sess, table)
	if err != nil {
		return value.None, err
	}

	arr := make([]value.Value, len(recs))
	for i, rec := range recs {
		arr[i] = value.FromObject(withID(rec.Fields, value.Ref{Table: table, ID: rec.ID}))
	}
	return value.FromArray(arr), nil
}

func (e *Engine) selectOne(sess query.Session, vars map[string]value.Value, varName string, strict bool) (value.Value, error) {
	ref, ok, err := refVar(vars, varName, strict)
	if err != nil {
		return value.None, err
	}
	if !ok {
		return value.FromArray(nil), nil
	}

	fields, found, err := e.store.Get(sess, ref.Table, ref.ID)
	if err != nil {
		return value.None, err
	}
	if !found {
		return value.FromArray(nil), nil
	}

	return singleRecord(fields, ref), nil
}

func (e *Engine) create(sess query.Session, vars map[string]value.Value, table, contentVar string, strict bool) (value.Value, error) {
	content, err := objVar(vars, contentVar, strict)
	if err != nil {
		return value.None, err
	}

	fields := make(value.Object, len(content))
	for k, v := range content {
		if k == "id" {
			// the store assigns identifiers
			continue
		}
		fields[k] = v
	}

	id := uuid.NewString()
	if err := e.store.Put(sess, table, id, fields); err != nil {
		return value.None, err
	}

	return singleRecord(fields, value.Ref{Table: table, ID: id}), nil
}

func (e *Engine) update(sess query.Session, vars map[string]value.Value, targetVar, mergeVar string, strict bool) (value.Value, error) {
	ref, ok, err := refVar(vars, targetVar, strict)
	if err != nil {
		return value.None, err
	}
	if !ok {
		return value.FromArray(nil), nil
	}

	existing, found, err := e.store.Get(sess, ref.Table, ref.ID)
	if err != nil {
		return value.None, err
	}
	if !found {
		return value.FromArray(nil), nil
	}

	data, err := objVar(vars, mergeVar, strict)
	if err != nil {
		return value.None, err
	}

	merged := make(value.Object, len(existing)+len(data))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range data {
		if k == "id" {
			continue
		}
		if v.IsNull() {
			// merging Null removes the field
			delete(merged, k)
			continue
		}
		merged[k] = v
	}

	if err := e.store.Put(sess, ref.Table, ref.ID, merged); err != nil {
		return value.None, err
	}

	return singleRecord(merged, ref), nil
}

func (e *Engine) delete(sess query.Session, vars map[string]value.Value, targetVar string, strict bool) (value.Value, error) {
	ref, ok, err := refVar(vars, targetVar, strict)
	if err != nil {
		return value.None, err
	}
	if !ok {
		return value.FromArray(nil), nil
	}

	fields, found, err := e.store.Get(sess, ref.Table, ref.ID)
	if err != nil {
		return value.None, err
	}
	if !found {
		return value.FromArray(nil), nil
	}

	if _, err := e.store.Delete(sess, ref.Table, ref.ID); err != nil {
		return value.None, err
	}

	return singleRecord(fields, ref), nil
}

// refVar resolves a variable expected to hold a record reference. A missing
// variable is an error when strict; otherwise it resolves as absent and the
// second return value is false.
func refVar(vars map[string]value.Value, name string, strict bool) (value.Ref, bool, error) {
	v, present := vars[name]
	if !present || v.IsNull() {
		if strict && !present {
			return value.Ref{}, false, fmt.Errorf("variable $%s is not bound", name)
		}
		return value.Ref{}, false, nil
	}

	ref, err := v.AsRef()
	if err != nil {
		return value.Ref{}, false, fmt.Errorf("variable $%s does not hold a record reference", name)
	}
	return ref, true, nil
}

// objVar resolves a variable expected to hold an object. A missing variable
// is an error when strict, and an empty object otherwise.
func objVar(vars map[string]value.Value, name string, strict bool) (value.Object, error) {
	v, present := vars[name]
	if !present {
		if strict {
			return nil, fmt.Errorf("variable $%s is not bound", name)
		}
		return value.Object{}, nil
	}

	obj, err := v.AsObject()
	if err != nil {
		return nil, fmt.Errorf("variable $%s does not hold an object", name)
	}
	return obj, nil
}

func withID(fields value.Object, ref value.Ref) value.Object {
	obj := make(value.Object, len(fields)+1)
	for k, v := range fields {
		obj[k] = v
	}
	obj["id"] = value.FromRef(ref)
	return obj
}

func singleRecord(fields value.Object, ref value.Ref) value.Value {
	return value.FromArray([]value.Value{value.FromObject(withID(fields, ref))})
}

// SortRecords returns the records ordered by id. Backends use it so that List
// output is stable regardless of underlying map iteration order.
func SortRecords(recs []Record) []Record {
	return sortby.By(recs, func(left, right Record) bool {
		return left.ID < right.ID
	})
}
