package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type marshaledDatastore struct {
	Type      string `yaml:"type" json:"type"`
	File      string `yaml:"file" json:"file"`
	Namespace string `yaml:"ns" json:"ns"`
	Database  string `yaml:"db" json:"db"`
}

type marshaledLog struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	File    string `yaml:"file" json:"file"`
}

type marshaledConfig struct {
	Listen    string             `yaml:"listen" json:"listen"`
	Base      string             `yaml:"base" json:"base"`
	Datastore marshaledDatastore `yaml:"datastore" json:"datastore"`
	Log       marshaledLog       `yaml:"logging" json:"logging"`
}

// Load loads a configuration from a JSON or YAML file. The format of the file
// is determined by examining its extension; files ending in .json are parsed
// as JSON files, and files ending in .yaml or .yml are parsed as YAML files.
// Other extensions are not supported. The extension is not case-sensitive.
func Load(file string) (Config, error) {
	var cfg Config
	var mc marshaledConfig

	data, err := os.ReadFile(file)
	if err != nil {
		return cfg, fmt.Errorf("%q: %w", file, err)
	}

	switch filepath.Ext(strings.ToLower(file)) {
	case ".json":
		err = json.Unmarshal(data, &mc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &mc)
	default:
		return cfg, fmt.Errorf("%q: incompatible format; must be .json, .yml, or .yaml file", file)
	}
	if err != nil {
		return cfg, fmt.Errorf("%q: %w", file, err)
	}

	err = cfg.unmarshal(mc)
	return cfg, err
}

// unmarshal completely replaces all attributes.
//
// does no validation except that which is required for parsing.
func (cfg *Globals) unmarshal(m marshaledConfig) error {
	var err error

	// listen address part...
	if m.Listen != "" {
		bindParts := strings.SplitN(m.Listen, ":", 2)
		if len(bindParts) != 2 {
			return fmt.Errorf("listen: not in \"ADDRESS:PORT\" or \":PORT\" format")
		}
		cfg.Address = bindParts[0]
		cfg.Port, err = strconv.Atoi(bindParts[1])
		if err != nil {
			return fmt.Errorf("listen: %q is not a valid port number", bindParts[1])
		}
	}

	// ...and the rest
	cfg.URIBase = m.Base

	return nil
}

// unmarshal completely replaces all attributes.
//
// does no validation except that which is required for parsing.
func (ds *Datastore) unmarshal(m marshaledDatastore) error {
	var err error

	ds.Type, err = ParseDatastoreType(m.Type)
	if err != nil {
		return fmt.Errorf("type: %w", err)
	}

	ds.DataFile = m.File
	ds.Namespace = m.Namespace
	ds.Database = m.Database

	return nil
}

// unmarshal completely replaces all attributes with the values or missing
// values in the marshaledConfig.
//
// does no validation except that which is required for parsing.
func (cfg *Config) unmarshal(m marshaledConfig) error {
	if err := cfg.Globals.unmarshal(m); err != nil {
		return err
	}
	if err := cfg.Datastore.unmarshal(m.Datastore); err != nil {
		return fmt.Errorf("datastore: %w", err)
	}
	cfg.Log.Enabled = m.Log.Enabled
	cfg.Log.File = m.Log.File

	return nil
}
