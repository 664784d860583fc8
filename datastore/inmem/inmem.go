// Package inmem provides an in-memory datastore.Storage. Records live only as
// long as the process; it is the default backend and the one tests use.
package inmem

import (
	"sync"

	"github.com/dekarrin/todd/datastore"
	"github.com/dekarrin/todd/query"
	"github.com/dekarrin/todd/value"
)

// Store is an in-memory storage backend. The zero value is not ready for use;
// call New.
type Store struct {
	mtx  sync.RWMutex
	data map[string]map[string]map[string]value.Object
}

// New creates an empty in-memory Store.
func New() *Store {
	return &Store{
		data: map[string]map[string]map[string]value.Object{},
	}
}

func sessKey(sess query.Session) string {
	// NUL cannot occur in a namespace or database name
	return sess.Namespace + "\x00" + sess.Database
}

func (s *Store) Get(sess query.Session, table, id string) (value.Object, bool, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	fields, ok := s.data[sessKey(sess)][table][id]
	if !ok {
		return nil, false, nil
	}
	return copyFields(fields), true, nil
}

func (s *Store) List(sess query.Session, table string) ([]datastore.Record, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	tbl := s.data[sessKey(sess)][table]

	recs := make([]datastore.Record, 0, len(tbl))
	for id, fields := range tbl {
		recs = append(recs, datastore.Record{ID: id, Fields: copyFields(fields)})
	}
	return datastore.SortRecords(recs), nil
}

func (s *Store) Put(sess query.Session, table, id string, fields value.Object) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	key := sessKey(sess)
	if s.data[key] == nil {
		s.data[key] = map[string]map[string]value.Object{}
	}
	if s.data[key][table] == nil {
		s.data[key][table] = map[string]value.Object{}
	}
	s.data[key][table][id] = copyFields(fields)

	return nil
}

func (s *Store) Delete(sess query.Session, table, id string) (bool, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	tbl := s.data[sessKey(sess)][table]
	if _, ok := tbl[id]; !ok {
		return false, nil
	}
	delete(tbl, id)

	return true, nil
}

func (s *Store) Close() error {
	return nil
}

func copyFields(fields value.Object) value.Object {
	cp := make(value.Object, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return cp
}
