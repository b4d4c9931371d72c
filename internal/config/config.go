// Package config loads the optional .lfvrc.json configuration file, the
// ambient counterpart spec.md leaves unspecified: a recursion limit, a
// host-version compatibility string, a default log path, and a diagnostics
// on/off switch. cmd/lfv applies hostVersion and logPath; recursionLimit
// and diagnostics are validated and decoded but have no effect (the
// engine's recursion limit is fixed at 200).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Config is the decoded, validated contents of a .lfvrc.json file. Every
// field is optional; a zero Config means "use the engine's own defaults."
type Config struct {
	RecursionLimit int    `json:"recursionLimit,omitempty"`
	HostVersion    string `json:"hostVersion,omitempty"`
	LogPath        string `json:"logPath,omitempty"`
	Diagnostics    bool   `json:"diagnostics,omitempty"`
}

// schemaJSON is the inline JSON Schema every loaded config is validated
// against before being unmarshaled into a Config, grounded on
// core/types/validation.go's compile-then-validate split (AddResource a
// single in-memory schema, then Compile it).
const schemaJSON = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"recursionLimit": {"type": "integer", "minimum": 1, "maximum": 100000},
		"hostVersion": {"type": "string", "minLength": 1},
		"logPath": {"type": "string"},
		"diagnostics": {"type": "boolean"}
	}
}`

var knownKeys = []string{"recursionLimit", "hostVersion", "logPath", "diagnostics"}

// KnownKeys returns the config's top-level property names. Load itself
// rejects an unknown key through schema validation without suggesting a
// correction.
func KnownKeys() []string { return knownKeys }

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	const url = "schema://lfvrc.json"
	if err := compiler.AddResource(url, strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("lfvrc schema: %w", err)
	}
	return compiler.Compile(url)
}

// Load reads and validates the config file at path. A missing file is not
// an error; Load returns a zero Config in that case so callers can treat
// "no config" and "empty config" identically.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	schema, err := compileSchema()
	if err != nil {
		return Config{}, err
	}
	if err := schema.Validate(raw); err != nil {
		return Config{}, fmt.Errorf("%s failed schema validation: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return cfg, nil
}
