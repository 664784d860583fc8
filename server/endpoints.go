package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dekarrin/todd"
	"github.com/dekarrin/todd/todo"
)

// TodoAPI serves the todo CRUD endpoints.
type TodoAPI struct {
	Store todo.Store
	Log   todd.Logger
}

// Routes returns the router for the todo API.
func (api *TodoAPI) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", api.endpoint(api.epCreate))
	r.Get("/", api.endpoint(api.epGetAll))
	r.Get("/{id}", api.endpoint(api.epGet))
	r.Put("/{id}", api.endpoint(api.epUpdate))
	r.Patch("/{id}", api.endpoint(api.epUpdate))
	r.Delete("/{id}", api.endpoint(api.epDelete))

	return r
}

func (api *TodoAPI) endpoint(ep func(req *http.Request) todd.Result) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		r := ep(req)
		r.WriteResponse(w)
		api.Log.LogResult(req, r)
	}
}

func (api *TodoAPI) epCreate(req *http.Request) todd.Result {
	var t todo.Todo

	if err := todd.ParseJSONRequest(req, &t); err != nil {
		return todd.BadRequest(err.Error(), err.Error())
	}

	created, err := api.Store.Create(req.Context(), t)
	if err != nil {
		return errResult(err, "create todo")
	}

	return todd.Created(created, "created todo %v", created["id"])
}

func (api *TodoAPI) epGetAll(req *http.Request) todd.Result {
	all, err := api.Store.GetAll(req.Context())
	if err != nil {
		return errResult(err, "get all todos")
	}

	return todd.OK(all, "listed %d todos", len(all))
}

func (api *TodoAPI) epGet(req *http.Request) todd.Result {
	id := todd.RequireIDParam(req)

	t, err := api.Store.Get(req.Context(), id)
	if err != nil {
		return errResult(err, "get todo %q", id)
	}

	return todd.OK(t, "got todo %q", id)
}

func (api *TodoAPI) epUpdate(req *http.Request) todd.Result {
	id := todd.RequireIDParam(req)

	var p todo.TodoPatch
	if err := todd.ParseJSONRequest(req, &p); err != nil {
		return todd.BadRequest(err.Error(), err.Error())
	}

	updated, err := api.Store.Update(req.Context(), id, p)
	if err != nil {
		return errResult(err, "update todo %q", id)
	}

	return todd.OK(updated, "updated todo %q", id)
}

func (api *TodoAPI) epDelete(req *http.Request) todd.Result {
	id := todd.RequireIDParam(req)

	deleted, err := api.Store.Delete(req.Context(), id)
	if err != nil {
		return errResult(err, "delete todo %q", id)
	}

	return todd.OK(deleted, "deleted todo %q", id)
}

// errResult converts an error from the todo store into the Result to respond
// with. what names the operation that failed and is only used for internal
// log messages.
func errResult(err error, what string, v ...interface{}) todd.Result {
	args := append(append([]interface{}{}, v...), err)
	msgArgs := append([]interface{}{what + ": %v"}, args...)

	switch {
	case errors.Is(err, todd.ErrNotFound):
		return todd.NotFound(msgArgs...)
	case errors.Is(err, todd.ErrNotOfType),
		errors.Is(err, todd.ErrInvalidIdentifier),
		errors.Is(err, todd.ErrBodyUnmarshal):
		return todd.BadRequest(err.Error(), msgArgs...)
	default:
		return todd.InternalServerError(msgArgs...)
	}
}
