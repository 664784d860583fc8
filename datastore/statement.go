// Package datastore implements the statement executor that backs the todo
// service: a small engine that parses the supported statement forms and runs
// them against a pluggable storage backend. The backends themselves live in
// the inmem and sqlite sub-packages.
//
// The supported grammar is deliberately tiny; it covers exactly the statement
// shapes the record access layer issues:
//
//	SELECT * FROM <table>
//	SELECT * FROM $var
//	CREATE <table> CONTENT $var
//	UPDATE $var MERGE $var
//	DELETE $var
//
// Multiple statements may be given separated by ';'. Each statement produces
// its own outcome; a failed statement does not stop later ones from running.
package datastore

import (
	"fmt"
	"strings"
)

// Op is the operation a statement performs.
type Op int

const (
	OpSelect Op = iota
	OpCreate
	OpUpdate
	OpDelete
)

func (op Op) String() string {
	switch op {
	case OpSelect:
		return "SELECT"
	case OpCreate:
		return "CREATE"
	case OpUpdate:
		return "UPDATE"
	case OpDelete:
		return "DELETE"
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

// Target is the record or table a statement operates on: either a literal
// table name or a variable expected to hold a record reference at execution
// time. Exactly one of Table and Var is set.
type Target struct {
	Table string
	Var   string
}

// Statement is one parsed statement.
type Statement struct {
	Op     Op
	Target Target

	// ContentVar is the variable holding the fields of a CREATE.
	ContentVar string

	// MergeVar is the variable holding the fields of an UPDATE ... MERGE.
	MergeVar string
}

// Parse splits src on ';' and parses each non-empty piece as a statement.
// Anything outside the supported grammar is an error naming the offending
// statement.
func Parse(src string) ([]Statement, error) {
	var stmts []Statement

	pieces := strings.Split(src, ";")
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}

		st, err := parseStatement(piece)
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", len(stmts)+1, err)
		}
		stmts = append(stmts, st)
	}

	if len(stmts) == 0 {
		return nil, fmt.Errorf("query contains no statements")
	}

	return stmts, nil
}

func parseStatement(src string) (Statement, error) {
	fields := strings.Fields(src)

	switch strings.ToUpper(fields[0]) {
	case "SELECT":
		if len(fields) != 4 || fields[1] != "*" || !strings.EqualFold(fields[2], "FROM") {
			return Statement{}, fmt.Errorf("SELECT must have the form 'SELECT * FROM <target>'")
		}
		tgt, err := parseTarget(fields[3])
		if err != nil {
			return Statement{}, err
		}
		return Statement{Op: OpSelect, Target: tgt}, nil
	case "CREATE":
		if len(fields) != 4 || !strings.EqualFold(fields[2], "CONTENT") {
			return Statement{}, fmt.Errorf("CREATE must have the form 'CREATE <table> CONTENT $var'")
		}
		if !validIdent(fields[1]) {
			return Statement{}, fmt.Errorf("invalid table name %q", fields[1])
		}
		contentVar, err := parseVar(fields[3])
		if err != nil {
			return Statement{}, err
		}
		return Statement{Op: OpCreate, Target: Target{Table: fields[1]}, ContentVar: contentVar}, nil
	case "UPDATE":
		if len(fields) != 4 || !strings.EqualFold(fields[2], "MERGE") {
			return Statement{}, fmt.Errorf("UPDATE must have the form 'UPDATE $var MERGE $var'")
		}
		tgtVar, err := parseVar(fields[1])
		if err != nil {
			return Statement{}, err
		}
		mergeVar, err := parseVar(fields[3])
		if err != nil {
			return Statement{}, err
		}
		return Statement{Op: OpUpdate, Target: Target{Var: tgtVar}, MergeVar: mergeVar}, nil
	case "DELETE":
		if len(fields) != 2 {
			return Statement{}, fmt.Errorf("DELETE must have the form 'DELETE $var'")
		}
		tgtVar, err := parseVar(fields[1])
		if err != nil {
			return Statement{}, err
		}
		return Statement{Op: OpDelete, Target: Target{Var: tgtVar}}, nil
	default:
		return Statement{}, fmt.Errorf("unsupported statement %q", fields[0])
	}
}

func parseTarget(s string) (Target, error) {
	if strings.HasPrefix(s, "$") {
		v, err := parseVar(s)
		if err != nil {
			return Target{}, err
		}
		return Target{Var: v}, nil
	}
	if !validIdent(s) {
		return Target{}, fmt.Errorf("invalid table name %q", s)
	}
	return Target{Table: s}, nil
}

func parseVar(s string) (string, error) {
	if !strings.HasPrefix(s, "$") || !validIdent(s[1:]) {
		return "", fmt.Errorf("%q is not a valid variable", s)
	}
	return s[1:], nil
}

func validIdent(s string) bool {
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
