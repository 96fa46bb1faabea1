// Package google reads the latest summary row from a Google Sheets tab.
package google

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"fairdash/internal/core"
	"fairdash/internal/log"
	"fairdash/internal/source"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

var (
	_ source.SummaryReader = (*Client)(nil)
	_ source.Pinger        = (*Client)(nil)
)

// Config selects the spreadsheet tab and credentials.
type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
}

// Client reads a tab whose first row holds counter names and whose last
// non-empty row is the latest snapshot.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheet := strings.TrimSpace(cfg.SheetName)
	if sheet == "" {
		sheet = source.DefaultTable
	}

	svc, err := newSheetsService(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheet,
		logger:        logger.WithComponent(log.ComponentSheets),
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Inline JSON wins over a file path; GOOGLE_APPLICATION_CREDENTIALS is the last resort.
func newSheetsService(ctx context.Context, cfg Config, logger *log.Logger) (*gsheet.Service, error) {
	inline := strings.TrimSpace(cfg.ServiceAccountJSON)
	file := strings.TrimSpace(cfg.ServiceAccountFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case inline != "":
		credentialsJSON = []byte(inline)
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	logger.InfoContext(ctx, "Creating Google Sheets service",
		"inline_credentials", inline != "",
		"scope", gsheet.SpreadsheetsReadonlyScope)

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope),
		goption.WithHTTPClient(newHTTPClient()))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

// newHTTPClient keeps a small pool of connections to the Sheets API. Timeouts
// are left to the transport defaults so a slow read only delays its own tick.
func newHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Client{
		Transport: &http.Transport{
			DialContext:         dialer.DialContext,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 4,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			ForceAttemptHTTP2:   true,
		},
	}
}

// Latest reads the whole tab and returns its last data row keyed by header.
func (c *Client) Latest(ctx context.Context) (core.RawRow, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}

	rng := quoteSheet(c.sheetName)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	row, err := parseSummarySheet(resp.Values)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rng, err)
	}
	c.logger.DebugContext(ctx, "Read summary row from sheet", "sheet", c.sheetName, "columns", len(row))
	return row, nil
}

// Ping fetches spreadsheet metadata to confirm credentials and access.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	return err
}

// quoteSheet wraps a tab name for A1 notation, escaping embedded quotes.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
