package backend

import (
	"context"

	"fairdash/internal/source"
)

// CleanupFunc releases the resources held by a backend.
type CleanupFunc func() error

// BackendResult contains the summary reader and optional cleanup function
type BackendResult struct {
	Reader  source.SummaryReader
	Cleanup CleanupFunc
}

// Close runs the cleanup function if there is one.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// Table (or sheet tab) holding the summary rows
	StatsTable string

	// Postgres specific
	DatabaseURL string

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific
	GoogleSpreadsheetID      string
	GoogleStatsSheetName     string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Memory backend specific
	MemorySeedFile string
}

// BackendType represents the type of backend
type BackendType string

const (
	PostgresBackend BackendType = "postgres"
	SQLiteBackend   BackendType = "sqlite"
	SheetsBackend   BackendType = "sheets"
	MemoryBackend   BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case PostgresBackend, SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
