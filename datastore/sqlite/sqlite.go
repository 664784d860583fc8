// Package sqlite provides a datastore.Storage persisted in a SQLite file.
// Record fields are stored as JSON text keyed by namespace, database, table,
// and id, so the schemaless document shape survives a round trip to disk
// intact.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"

	_ "modernc.org/sqlite"

	"github.com/dekarrin/todd"
	"github.com/dekarrin/todd/datastore"
	"github.com/dekarrin/todd/query"
	"github.com/dekarrin/todd/value"
)

// Store is a SQLite-backed storage backend. Its zero-value should not be
// used; call Open to get a Store ready for use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at the given file path and
// prepares the records table.
func Open(file string) (*Store, error) {
	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, todd.WrapDBError(err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS records (
		ns TEXT NOT NULL,
		db TEXT NOT NULL,
		tb TEXT NOT NULL,
		id TEXT NOT NULL,
		data TEXT NOT NULL,
		PRIMARY KEY (ns, db, tb, id)
	);`)
	if err != nil {
		db.Close()
		return nil, todd.WrapDBError(err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Get(sess query.Session, table, id string) (value.Object, bool, error) {
	row := s.db.QueryRow(
		`SELECT data FROM records WHERE ns = ? AND db = ? AND tb = ? AND id = ?`,
		sess.Namespace, sess.Database, table, id,
	)

	var data string
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, todd.WrapDBError(err)
	}

	fields, err := value.DecodeObject([]byte(data))
	if err != nil {
		return nil, false, todd.WrapDBErrorf(err, "decode record %s:%s", table, id)
	}

	return fields, true, nil
}

func (s *Store) List(sess query.Session, table string) ([]datastore.Record, error) {
	rows, err := s.db.Query(
		`SELECT id, data FROM records WHERE ns = ? AND db = ? AND tb = ? ORDER BY id`,
		sess.Namespace, sess.Database, table,
	)
	if err != nil {
		return nil, todd.WrapDBError(err)
	}
	defer rows.Close()

	var recs []datastore.Record
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, todd.WrapDBError(err)
		}

		fields, err := value.DecodeObject([]byte(data))
		if err != nil {
			return nil, todd.WrapDBErrorf(err, "decode record %s:%s", table, id)
		}

		recs = append(recs, datastore.Record{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, todd.WrapDBError(err)
	}

	return recs, nil
}

func (s *Store) Put(sess query.Session, table, id string, fields value.Object) error {
	data, err := json.Marshal(value.FromObject(fields))
	if err != nil {
		return todd.WrapDBErrorf(err, "encode record %s:%s", table, id)
	}

	_, err = s.db.Exec(
		`INSERT INTO records (ns, db, tb, id, data) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (ns, db, tb, id) DO UPDATE SET data = excluded.data`,
		sess.Namespace, sess.Database, table, id, string(data),
	)
	if err != nil {
		return todd.WrapDBError(err)
	}

	return nil
}

func (s *Store) Delete(sess query.Session, table, id string) (bool, error) {
	res, err := s.db.Exec(
		`DELETE FROM records WHERE ns = ? AND db = ? AND tb = ? AND id = ?`,
		sess.Namespace, sess.Database, table, id,
	)
	if err != nil {
		return false, todd.WrapDBError(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, todd.WrapDBError(err)
	}

	return n > 0, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
