package todo

import (
	"context"
	"fmt"

	"github.com/dekarrin/todd/query"
	"github.com/dekarrin/todd/value"
)

// Store is the access facade for todo records. It builds the statements and
// typed variable bindings for each operation, hands them to the executor, and
// converts the dynamic results back into wire objects. It holds no state of
// its own beyond the executor handle and session, and is safe for concurrent
// use.
type Store struct {
	DB   query.Executor
	Sess query.Session
}

// NewStore creates a Store over the given executor and session.
func NewStore(db query.Executor, sess query.Session) Store {
	return Store{DB: db, Sess: sess}
}

// GetAll retrieves every todo record as a wire object. No records gives an
// empty slice and a nil error.
func (s Store) GetAll(ctx context.Context) ([]value.Object, error) {
	res, err := s.DB.Execute(ctx, "SELECT * FROM todo", s.Sess, nil, true)
	if err != nil {
		return nil, err
	}

	return query.Records(res)
}

// Get retrieves the todo record with the given raw identifier. A missing
// record fails with an error matching todd.ErrNotFound; an unparseable id
// fails with one matching todd.ErrInvalidIdentifier.
func (s Store) Get(ctx context.Context, id string) (value.Object, error) {
	th, err := value.NewRef(Table, id)
	if err != nil {
		return nil, err
	}

	vars, err := query.Vars(query.Bind("th", value.FromRef(th)))
	if err != nil {
		return nil, err
	}

	res, err := s.DB.Execute(ctx, "SELECT * FROM $th", s.Sess, vars, true)
	if err != nil {
		return nil, err
	}

	return query.FirstRecord(res)
}

// Create stores t as a new record and returns the created record as a wire
// object, including the identifier the datastore assigned.
func (s Store) Create(ctx context.Context, t Todo) (value.Object, error) {
	return s.create(ctx, Table, t)
}

// Update applies the patch to the record with the given raw identifier and
// returns the record as it is after the merge.
func (s Store) Update(ctx context.Context, id string, p TodoPatch) (value.Object, error) {
	return s.merge(ctx, Table, id, p)
}

// Delete removes the record with the given raw identifier and returns the
// canonical "todo:identifier" form of the id. Deleting a record that does not
// exist is not an error.
func (s Store) Delete(ctx context.Context, id string) (string, error) {
	th, err := value.NewRef(Table, id)
	if err != nil {
		return "", err
	}

	vars, err := query.Vars(query.Bind("th", value.FromRef(th)))
	if err != nil {
		return "", err
	}

	res, err := s.DB.Execute(ctx, "DELETE $th", s.Sess, vars, false)
	if err != nil {
		return "", err
	}

	if _, err := query.First(res); err != nil {
		return "", err
	}

	return th.String(), nil
}

// create runs a creation statement for any Creatable. The Creatable's value
// is narrowed to an object before binding so that a contract implementation
// that produces some other variant is caught here rather than in the
// datastore.
func (s Store) create(ctx context.Context, table string, data query.Creatable) (value.Object, error) {
	content, err := data.CreationValue().AsObject()
	if err != nil {
		return nil, err
	}

	vars, err := query.Vars(query.Bind("data", value.FromObject(content)))
	if err != nil {
		return nil, err
	}

	sql := fmt.Sprintf("CREATE %s CONTENT $data", table)
	res, err := s.DB.Execute(ctx, sql, s.Sess, vars, false)
	if err != nil {
		return nil, err
	}

	return query.FirstRecord(res)
}

// merge runs a merge-update statement for any Patchable against the record
// with the given raw identifier.
func (s Store) merge(ctx context.Context, table, id string, data query.Patchable) (value.Object, error) {
	th, err := value.NewRef(table, id)
	if err != nil {
		return nil, err
	}

	vars, err := query.Vars(
		query.Bind("th", value.FromRef(th)),
		query.Bind("data", data.PatchValue()),
	)
	if err != nil {
		return nil, err
	}

	res, err := s.DB.Execute(ctx, "UPDATE $th MERGE $data", s.Sess, vars, true)
	if err != nil {
		return nil, err
	}

	return query.FirstRecord(res)
}
