// Package services orchestrates one dashboard refresh: fetch, map, render.
package services

import (
	"context"
	"fmt"
	"maps"

	"golang.org/x/sync/singleflight"

	"fairdash/internal/core"
	"fairdash/internal/log"
	"fairdash/internal/source"
)

// FailureNotifier is told about every fetch that fell back to zeros.
type FailureNotifier interface {
	NotifyFetchFailure(err error)
}

// Fetcher reads the latest summary row. It never returns an error: any
// failure is logged, reported, and replaced by the all-zero fallback row.
type Fetcher struct {
	reader   source.SummaryReader
	notifier FailureNotifier
	logger   *log.Logger
	source   string
	group    singleflight.Group
}

// NewFetcher creates a fetcher. notifier may be nil.
func NewFetcher(reader source.SummaryReader, sourceName string, notifier FailureNotifier, logger *log.Logger) *Fetcher {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Fetcher{
		reader:   reader,
		notifier: notifier,
		logger:   logger.WithComponent(log.ComponentFetcher),
		source:   sourceName,
	}
}

// FetchLatest returns a private copy of the most recent row. Callers arriving
// while a query is running share it; cancelling one caller does not cancel
// the shared query.
func (f *Fetcher) FetchLatest(ctx context.Context) core.RawRow {
	v, err, _ := f.group.Do("latest", func() (any, error) {
		row, err := f.reader.Latest(context.WithoutCancel(ctx))
		if err == nil && row == nil {
			err = fmt.Errorf("reader returned no row: %w", source.ErrNoRows)
		}
		if err != nil {
			f.fail(ctx, err)
			return nil, err
		}
		return row, nil
	})
	if err != nil {
		return core.FallbackRow()
	}

	row, _ := v.(core.RawRow)
	if row == nil {
		return core.FallbackRow()
	}
	return maps.Clone(row)
}

func (f *Fetcher) fail(ctx context.Context, err error) {
	f.logger.ErrorContext(ctx, "Failed to fetch latest summary, using fallback row",
		log.FieldOperation, log.OpFetch,
		log.FieldBackend, f.source,
		log.FieldError, err)
	if f.notifier != nil {
		f.notifier.NotifyFetchFailure(err)
	}
}
