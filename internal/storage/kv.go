package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("storage: not found")

// KV is a synchronous string key-value store. All task state, the reminder
// ledger and the notification permission live behind it.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendJSON   Backend = "json"
	BackendMemory Backend = "memory"
)

type Options struct {
	Backend Backend
	Path    string
	// Driver picks the sqlite driver: "sqlite3" (mattn, cgo) or "sqlite"
	// (modernc, pure Go). Empty means modernc.
	Driver string
}

func Open(opts Options) (KV, error) {
	switch Backend(strings.ToLower(string(opts.Backend))) {
	case BackendSQLite, "":
		return OpenSQLite(opts.Driver, opts.Path)
	case BackendJSON:
		return OpenJSONFile(opts.Path)
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", opts.Backend)
	}
}

func validKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("storage: empty key")
	}
	return nil
}
