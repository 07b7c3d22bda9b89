package engine

import (
	"fmt"
	"strings"
)

// Open creates an Engine from a connection descriptor.
//
// Supported descriptors:
//
//	"memory:"            - in-memory (ephemeral, for testing)
//	"sqlite:path/to.db"  - SQLite database at the given path
//	"json:data_dir"      - JSON file in data_dir
//	"path/to.db"         - no scheme defaults to SQLite
func Open(dsn string) (Engine, error) {
	scheme, rest, found := strings.Cut(dsn, ":")
	if !found {
		return NewSQLiteEngine(dsn)
	}
	switch scheme {
	case "memory":
		return NewMemoryEngine(), nil
	case "sqlite":
		return NewSQLiteEngine(rest)
	case "json":
		return NewJSONFileEngine(rest)
	default:
		return nil, fmt.Errorf("unknown engine scheme: %q (supported: memory, sqlite, json)", scheme)
	}
}
