package value

import (
	"fmt"
	"strings"

	"github.com/dekarrin/todd"
)

// Ref names a single record in the datastore by table and identifier. Its
// canonical textual form is "table:identifier", and that is the form record
// ids take in responses to callers.
type Ref struct {
	Table string
	ID    string
}

// NewRef creates a Ref for the given table and raw identifier. It fails with
// an error matching todd.ErrInvalidIdentifier if either part contains
// characters not legal in an identifier.
func NewRef(table, id string) (Ref, error) {
	if !validTable(table) {
		return Ref{}, todd.NewError(fmt.Sprintf("invalid table name %q", table), todd.ErrInvalidIdentifier)
	}
	if !validID(id) {
		return Ref{}, todd.NewError(fmt.Sprintf("invalid record identifier %q", id), todd.ErrInvalidIdentifier)
	}
	return Ref{Table: table, ID: id}, nil
}

// ParseRef parses the canonical "table:identifier" form into a Ref.
func ParseRef(s string) (Ref, error) {
	table, id, ok := strings.Cut(s, ":")
	if !ok {
		return Ref{}, todd.NewError(fmt.Sprintf("reference %q is missing ':'", s), todd.ErrInvalidIdentifier)
	}
	return NewRef(table, id)
}

// String returns the canonical textual form of the Ref.
func (r Ref) String() string {
	return r.Table + ":" + r.ID
}

func validTable(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' {
			continue
		}
		if i > 0 && c >= '0' && c <= '9' {
			continue
		}
		return false
	}
	return true
}

func validID(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-' {
			continue
		}
		return false
	}
	return true
}
