package backend

import (
	"context"

	"donations/internal/core"
	"donations/internal/prefs"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BackendResult is everything the dashboard reads from or writes to.
// Health and Cleanup are nil when nothing needs checking or closing.
type BackendResult struct {
	Dataset     core.Dataset
	Preferences prefs.Store
	Health      Pinger
	Cleanup     CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	DataBackend  BackendType
	DatasetFile  string
	PrefsBackend PrefsType
	SQLiteDBPath string
}

// BackendType selects where donation records come from.
type BackendType string

const (
	MemoryBackend BackendType = "memory"
	FileBackend   BackendType = "file"
	SQLiteBackend BackendType = "sqlite"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, FileBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// PrefsType selects where user preferences are kept.
type PrefsType string

const (
	MemoryPrefs PrefsType = "memory"
	SQLitePrefs PrefsType = "sqlite"
)

func (pt PrefsType) String() string {
	return string(pt)
}

func (pt PrefsType) IsValid() bool {
	return pt == MemoryPrefs || pt == SQLitePrefs
}
