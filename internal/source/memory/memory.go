// Package memory serves a fixed summary row, for local development and demos.
package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"sync"

	"fairdash/internal/core"
	"fairdash/internal/source"
)

var _ source.SummaryReader = (*Store)(nil)

// Store holds one summary row in memory.
type Store struct {
	mu  sync.RWMutex
	row core.RawRow
}

// New returns a store serving row. A nil row makes Latest report source.ErrNoRows.
func New(row core.RawRow) *Store {
	return &Store{row: maps.Clone(row)}
}

// NewDemo returns a store seeded with a plausible mid-event snapshot.
func NewDemo() *Store {
	return New(DemoRow())
}

// NewFromFile seeds the store from a JSON object of counter name to value.
// An empty path falls back to the demo row.
func NewFromFile(path string) (*Store, error) {
	if path == "" {
		return NewDemo(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	row, err := decodeRow(data)
	if err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	return New(row), nil
}

func decodeRow(data []byte) (core.RawRow, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var row core.RawRow
	if err := dec.Decode(&row); err != nil {
		return nil, err
	}
	return row, nil
}

// DemoRow returns the sample snapshot used when no seed file is configured.
func DemoRow() core.RawRow {
	return core.RawRow{
		"total_registered":   int64(500),
		"visitors":           int64(300),
		"applied_to_job":     int64(120),
		"application":        int64(400),
		"unique_applicant":   int64(250),
		"total_companies":    int64(10),
		"direct_payment":     int64(1000),
		"paid_by_applicants": int64(500),
		"pro_users_today":    int64(20),
		"amount_pro_users":   int64(2000),
		"total_revenue":      int64(50000),
		"pro_seeker_total":   int64(80),
	}
}

// Latest returns a copy of the stored row.
func (s *Store) Latest(_ context.Context) (core.RawRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.row == nil {
		return nil, source.ErrNoRows
	}
	return maps.Clone(s.row), nil
}

// Set replaces the stored row.
func (s *Store) Set(row core.RawRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.row = maps.Clone(row)
}
