// Package middle contains middleware for use with the todd server.
package middle

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/dekarrin/todd"
)

// Middleware is a function that takes a handler and returns a new handler
// that wraps it.
type Middleware func(next http.Handler) http.Handler

type mwFunc http.HandlerFunc

func (sf mwFunc) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	sf(w, req)
}

// DontPanic returns a Middleware that performs a panic check as it exits. If
// the function is panicking, it will write out an HTTP response with a generic
// message to the client and add it to the log.
func DontPanic(log todd.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return mwFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				if panicErr := recover(); panicErr != nil {
					r := todd.TextErr(
						http.StatusInternalServerError,
						"An internal server error occurred",
						fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())),
					)
					r.WriteResponse(w)
					log.LogResult(req, r)
				}
			}()
			next.ServeHTTP(w, req)
		})
	}
}
