// Package todd is a small REST server that exposes a todo resource backed by
// a schemaless document datastore. Records cross the boundary between the
// datastore's dynamic value model and application types through the value and
// query packages; the todo package holds the record types and access facade,
// and the datastore package holds the statement engine and its storage
// backends.
package todd

import "net/http"

// Logger is an object that is used to log messages. Use the logging
// sub-package to create one.
type Logger interface {
	// Debug writes a message to the log at Debug level.
	Debug(string)

	// Debugf writes a formatted message to the log at Debug level.
	Debugf(string, ...interface{})

	// Error writes a message to the log at Error level.
	Error(string)

	// Errorf writes a formatted message to the log at Error level.
	Errorf(string, ...interface{})

	// Info writes a message to the log at Info level.
	Info(string)

	// Infof writes a formatted message to the log at Info level.
	Infof(string, ...interface{})

	// Trace writes a message to the log at Trace level.
	Trace(string)

	// Tracef writes a formatted message to the log at Trace level.
	Tracef(string, ...interface{})

	// Warn writes a message to the log at Warn level.
	Warn(string)

	// Warnf writes a formatted message to the log at Warn level.
	Warnf(string, ...interface{})

	// LogResult logs a request and the response to that request.
	LogResult(req *http.Request, r Result)
}
