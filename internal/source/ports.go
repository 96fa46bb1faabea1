// Package source defines the outbound port the dashboard reads its statistics through.
package source

import (
	"context"
	"errors"

	"fairdash/internal/core"
)

// ErrNoRows is returned when the statistics table holds no rows yet.
var ErrNoRows = errors.New("no summary rows")

// DefaultTable is the statistics table (or sheet tab) read by every backend.
const DefaultTable = "dashboard_stats"

// Ports for outbound adapters.
type (
	// SummaryReader returns the most recently inserted summary row.
	// Implementations order by the first column descending and take one row.
	SummaryReader interface {
		Latest(ctx context.Context) (core.RawRow, error)
	}

	// Pinger is implemented by readers that can check their connection for readiness probes.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)

// ReaderFunc adapts a function to SummaryReader.
type ReaderFunc func(ctx context.Context) (core.RawRow, error)

func (f ReaderFunc) Latest(ctx context.Context) (core.RawRow, error) {
	return f(ctx)
}
