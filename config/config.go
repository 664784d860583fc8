// Package config contains configuration options for the server as well as
// loading of config files.
package config

import (
	"fmt"
	"strings"
)

// DatastoreType is the kind of storage backend the server persists records
// with.
type DatastoreType string

const (
	DatastoreInMemory DatastoreType = "inmem"
	DatastoreSQLite   DatastoreType = "sqlite"
)

// ParseDatastoreType returns the DatastoreType named by s. The match is not
// case-sensitive.
func ParseDatastoreType(s string) (DatastoreType, error) {
	switch strings.ToLower(s) {
	case "", string(DatastoreInMemory):
		return DatastoreInMemory, nil
	case string(DatastoreSQLite):
		return DatastoreSQLite, nil
	default:
		return DatastoreInMemory, fmt.Errorf("%q is not a supported datastore type", s)
	}
}

// Log contains logging options. If logging is enabled, the server will
// configure the logger and use it both for messages about the server itself
// and for request handling.
type Log struct {
	// Enabled is whether to enable built-in logging statements.
	Enabled bool

	// File to log to. If not set, all logging will be done to stderr and it
	// will display all logging statements. If set, the file will receive all
	// levels of log messages and stderr will show only those of Info level or
	// higher.
	File string
}

func (log Log) FillDefaults() Log {
	return log
}

func (log Log) Validate() error {
	return nil
}

// Datastore holds the configuration for the persistence layer that todo
// records are stored in.
type Datastore struct {
	// Type selects the storage backend. It will default to DatastoreInMemory
	// if none is given.
	Type DatastoreType

	// DataFile is the path to the data file. It is only used when Type is
	// DatastoreSQLite, and is required in that case.
	DataFile string

	// Namespace is the datastore namespace that records are scoped to. It
	// will default to "test" if none is given.
	Namespace string

	// Database is the datastore database that records are scoped to. It will
	// default to "test" if none is given.
	Database string
}

func (ds Datastore) FillDefaults() Datastore {
	newDS := ds

	if newDS.Type == "" {
		newDS.Type = DatastoreInMemory
	}
	if newDS.Namespace == "" {
		newDS.Namespace = "test"
	}
	if newDS.Database == "" {
		newDS.Database = "test"
	}

	return newDS
}

func (ds Datastore) Validate() error {
	switch ds.Type {
	case DatastoreInMemory:
		// no further options to check
	case DatastoreSQLite:
		if ds.DataFile == "" {
			return fmt.Errorf("file: must not be empty for type %q", ds.Type)
		}
	default:
		return fmt.Errorf("type: %q is not a supported datastore type", ds.Type)
	}

	if ds.Namespace == "" {
		return fmt.Errorf("ns: must not be empty")
	}
	if ds.Database == "" {
		return fmt.Errorf("db: must not be empty")
	}

	return nil
}

// Globals are the top level configuration values for the server.
type Globals struct {
	// Port is the port that the server will listen on. It will default to
	// 8080 if none is given.
	Port int

	// Address is the internet address that the server will listen on. It will
	// default to "localhost" if none is given.
	Address string

	// URIBase is the base path that all endpoints are rooted on. It will
	// default to "/", which is equivalent to being directly on root.
	URIBase string
}

func (g Globals) FillDefaults() Globals {
	newG := g

	if newG.Port == 0 {
		newG.Port = 8080
	}
	if newG.Address == "" {
		newG.Address = "localhost"
	}
	if newG.URIBase == "" {
		newG.URIBase = "/"
	}

	return newG
}

func (g Globals) Validate() error {
	if g.Port < 1 {
		return fmt.Errorf("port: must be greater than 0")
	}
	if g.Address == "" {
		return fmt.Errorf("address: must not be empty")
	}
	if err := validateBaseURI(g.URIBase); err != nil {
		return fmt.Errorf("base: %w", err)
	}

	return nil
}

// Config is a complete configuration for a server. It contains all parameters
// that can be used to configure its operation.
type Config struct {
	// Globals is the top level server variables.
	Globals Globals

	// Datastore is the configuration of the persistence layer that records
	// are stored in. If not provided, it will be set to a configuration for
	// using an in-memory persistence layer.
	Datastore Datastore

	// Log is used to configure the built-in logging system. It can be left
	// blank to disable logging entirely.
	Log Log
}

// FillDefaults returns a new Config identical to cfg but with unset values
// set to their defaults.
func (cfg Config) FillDefaults() Config {
	newCFG := cfg

	newCFG.Globals = newCFG.Globals.FillDefaults()
	newCFG.Datastore = newCFG.Datastore.FillDefaults()
	newCFG.Log = newCFG.Log.FillDefaults()

	return newCFG
}

// Validate returns an error if the Config has invalid field values set. Empty
// and unset values are considered invalid; if defaults are intended to be
// used, call Validate on the return value of FillDefaults.
func (cfg Config) Validate() error {
	if err := cfg.Globals.Validate(); err != nil {
		return err
	}
	if err := cfg.Datastore.Validate(); err != nil {
		return fmt.Errorf("datastore: %w", err)
	}
	if err := cfg.Log.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	return nil
}

func validateBaseURI(base string) error {
	if strings.ContainsRune(base, '{') {
		return fmt.Errorf("contains disallowed char \"{\"")
	}
	if strings.ContainsRune(base, '}') {
		return fmt.Errorf("contains disallowed char \"}\"")
	}
	if strings.Contains(base, "//") {
		return fmt.Errorf("contains disallowed double-slash \"//\"")
	}
	return nil
}
