//go:build integration

package google

import (
	"context"
	"os"
	"testing"
	"time"

	"fairdash/internal/core"
	"fairdash/internal/log"
)

// Integration tests require real Google Sheets credentials
// Run with: go test -tags=integration ./internal/source/google

func TestIntegration_LatestFromSheet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	spreadsheetID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	if spreadsheetID == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set, skipping integration test")
	}
	cfg := Config{
		SpreadsheetID:      spreadsheetID,
		SheetName:          os.Getenv("GOOGLE_STATS_SHEET_NAME"),
		ServiceAccountJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		ServiceAccountFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
	}
	if cfg.ServiceAccountJSON == "" && cfg.ServiceAccountFile == "" && os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		t.Skip("service account credentials not configured, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := New(ctx, cfg, log.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := client.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	row, err := client.Latest(ctx)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	d := core.Map(row)
	if len(d.Rows) != len(core.Keys) {
		t.Fatalf("rows = %d, want %d", len(d.Rows), len(core.Keys))
	}
	t.Logf("latest snapshot: registered=%d revenue=%s", d.Counters.TotalRegistered, d.Highlights[2].Display)
}
