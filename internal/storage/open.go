package storage

import (
	"fmt"

	"github.com/valter-silva-au/netnext/pkg/models"
)

// Open returns the StatusStore selected by cfg, already loaded.
func Open(cfg models.DatastoreConfig) (StatusStore, error) {
	var store StatusStore
	switch cfg.Backend {
	case models.BackendYAML, "":
		store = NewYAMLStatusStore(cfg.Path)
	case models.BackendSQLite:
		s, err := NewSQLiteStatusStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		store = s
	default:
		return nil, fmt.Errorf("unknown datastore backend %q", cfg.Backend)
	}

	if err := store.Load(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
