// Package todo holds the todo record types and the datastore access facade
// for them.
package todo

import (
	"github.com/dekarrin/todd/value"
)

// Table is the datastore table that todo records live in.
const Table = "todo"

// Todo is a single todo item. ID is empty before the record has been created;
// once stored, reads carry the assigned identifier in "todo:identifier" form.
type Todo struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CreationValue converts the Todo into the dynamic value submitted for record
// creation. The identifier is never included; the datastore assigns it.
func (t Todo) CreationValue() value.Value {
	return value.FromObject(value.Object{
		"title": value.FromString(t.Title),
		"body":  value.FromString(t.Body),
	})
}

// TodoPatch is a partial update to a Todo. A nil field means "leave that
// field unchanged". A TodoPatch with every field nil is a legal no-op.
type TodoPatch struct {
	Title *string `json:"title,omitempty"`
	Body  *string `json:"body,omitempty"`
}

// PatchValue converts the patch into the dynamic value submitted for a merge
// update. Only fields that are set appear in the result; unset fields are
// left out entirely rather than emitted as Null.
func (p TodoPatch) PatchValue() value.Value {
	obj := value.Object{}

	if p.Title != nil {
		obj["title"] = value.FromString(*p.Title)
	}
	if p.Body != nil {
		obj["body"] = value.FromString(*p.Body)
	}

	return value.FromObject(obj)
}
