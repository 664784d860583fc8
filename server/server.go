// Package server provides the HTTP REST server that serves the todo API over
// a configured datastore.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/dekarrin/todd"
	"github.com/dekarrin/todd/config"
	"github.com/dekarrin/todd/datastore"
	"github.com/dekarrin/todd/datastore/inmem"
	"github.com/dekarrin/todd/datastore/sqlite"
	"github.com/dekarrin/todd/internal/middle"
	"github.com/dekarrin/todd/logging"
	"github.com/dekarrin/todd/query"
	"github.com/dekarrin/todd/todo"
)

// Server is an HTTP REST server that provides the todo API. The zero-value of
// a Server should not be used directly; call New() to get one ready for use.
type Server struct {
	mtx     *sync.Mutex
	rtr     chi.Router
	closing bool
	serving bool
	http    *http.Server
	eng     *datastore.Engine
	api     *TodoAPI
	cfg     config.Config // config that it was started with.

	log todd.Logger // if logging disabled, this will be set to a no-op logger
}

// New creates a new Server ready to serve requests. The configured datastore
// is opened before this function returns, and the config is retained for
// future operations.
func New(cfg *config.Config) (*Server, error) {
	// check config
	if cfg == nil {
		cfg = &config.Config{}
	} else {
		copy := new(config.Config)
		*copy = *cfg
		cfg = copy
	}
	*cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var logger todd.Logger = logging.NoOpLogger{}
	// config is loaded, make the first thing we start be our logger
	if cfg.Log.Enabled {
		var err error

		logger, err = logging.New(cfg.Log.File)
		if err != nil {
			return nil, fmt.Errorf("create logger: %w", err)
		}
	}

	// open the datastore
	var store datastore.Storage
	switch cfg.Datastore.Type {
	case config.DatastoreInMemory:
		store = inmem.New()
	case config.DatastoreSQLite:
		var err error
		store, err = sqlite.Open(cfg.Datastore.DataFile)
		if err != nil {
			return nil, fmt.Errorf("open datastore %q: %w", cfg.Datastore.DataFile, err)
		}
	default:
		return nil, fmt.Errorf("datastore: %q is not a supported datastore type", cfg.Datastore.Type)
	}
	logger.Debugf("Opened %s datastore", cfg.Datastore.Type)

	eng := datastore.NewEngine(store)
	sess := query.Session{
		Namespace: cfg.Datastore.Namespace,
		Database:  cfg.Datastore.Database,
	}

	rs := &Server{
		mtx: &sync.Mutex{},
		eng: eng,
		api: &TodoAPI{
			Store: todo.NewStore(eng, sess),
			Log:   logger,
		},
		cfg: *cfg,
		log: logger,
	}

	return rs, nil
}

// Config returns the configuration that the server used during creation.
// Modifying the returned config will have no effect on the server.
func (rs *Server) Config() config.Config {
	return rs.cfg.FillDefaults()
}

// buildRouter builds the full router, rooted at the configured base URI.
func (rs *Server) buildRouter() chi.Router {
	root := chi.NewRouter()
	root.Use(middle.DontPanic(rs.log))

	// make server base router
	r := root
	if rs.cfg.Globals.URIBase != "/" {
		r = chi.NewRouter()
		root.Mount(rs.cfg.Globals.URIBase, r)
	}

	r.Mount("/todos", rs.api.Routes())

	return root
}

// Handler returns the full route handler of the server. It is primarily
// intended for testing; normal use should go through ServeForever.
func (rs *Server) Handler() http.Handler {
	rs.mtx.Lock()
	defer rs.mtx.Unlock()

	if rs.rtr == nil {
		rs.rtr = rs.buildRouter()
	}
	return rs.rtr
}

// ServeForever begins listening on the server's configured address and port
// for HTTP REST client requests.
//
// This function will block until the server is stopped. If it returns as a
// result of rs.Shutdown() being called elsewhere, it will return
// http.ErrServerClosed.
func (rs *Server) ServeForever() (err error) {
	rs.mtx.Lock()
	if rs.serving {
		rs.mtx.Unlock()
		return fmt.Errorf("server is already running")
	}
	rs.serving = true
	if rs.rtr == nil {
		rs.rtr = rs.buildRouter()
	}
	rtr := rs.rtr
	rs.mtx.Unlock()

	addr := fmt.Sprintf("%s:%d", rs.cfg.Globals.Address, rs.cfg.Globals.Port)
	rs.http = &http.Server{Addr: addr, Handler: rtr}

	defer func() {
		rs.mtx.Lock()
		rs.closing = false
		rs.serving = false
		rs.mtx.Unlock()
	}()

	return rs.http.ListenAndServe()
}

// Shutdown shuts down the server gracefully, first closing the HTTP server to
// new connections and then closing the datastore. This will cause
// ServeForever to return in any Go thread that is blocking on it. If the
// passed-in context is canceled while shutting down, graceful shutdown of the
// HTTP server is halted.
//
// Returns a non-nil error if the server is not currently running due to a
// call to ServeForever.
//
// Once Shutdown returns, the Server should not be used again.
func (rs *Server) Shutdown(ctx context.Context) error {
	rs.mtx.Lock()
	defer rs.mtx.Unlock()
	if rs.closing {
		return fmt.Errorf("close already in-progress in another goroutine")
	}
	if !rs.serving {
		return fmt.Errorf("server is not running")
	}
	rs.closing = true

	var fullError error

	if rs.http != nil {
		err := rs.http.Shutdown(ctx)
		if err != nil {
			fullError = fmt.Errorf("stop HTTP server: %w", err)
		}
		rs.http = nil
		if err != nil && err == ctx.Err() {
			// if its due to the context expiring or timing out, we should
			// immediately exit without waiting for clean shutdown of the
			// datastore.
			return fullError
		}
	}

	if err := rs.eng.Close(); err != nil {
		dsErr := fmt.Errorf("close datastore: %w", err)
		if fullError != nil {
			fullError = fmt.Errorf("%s\nadditionally: %w", fullError, dsErr)
		} else {
			fullError = dsErr
		}
	}

	return fullError
}
