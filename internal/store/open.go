package store

import "fmt"

// History backends selectable in config.json.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open returns the delivery store for backend in configDir.
func Open(configDir, backend string, limit int) (Store, error) {
	switch backend {
	case "", BackendJSON:
		return NewJSONStore(configDir, limit)
	case BackendSQLite:
		return NewSQLiteStore(configDir, limit)
	default:
		return nil, fmt.Errorf("unknown history backend %q", backend)
	}
}
