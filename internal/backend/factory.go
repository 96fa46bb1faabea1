package backend

import (
	"context"
	"fmt"

	"fairdash/internal/log"
	"fairdash/internal/source/google"
	"fairdash/internal/source/memory"
	"fairdash/internal/source/postgres"
	"fairdash/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case PostgresBackend:
		return f.createPostgresBackend(ctx, config)
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createPostgresBackend(ctx context.Context, config Config) (*BackendResult, error) {
	db, err := postgres.NewConnection(ctx, config.DatabaseURL, config.StatsTable)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres source: %w", err)
	}

	f.logger.Info("Initialized postgres backend", log.FieldTable, config.StatsTable)

	return &BackendResult{
		Reader: db,
		Cleanup: func() error {
			db.Close()
			return nil
		},
	}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, config.StatsTable)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		log.FieldTable, config.StatsTable)

	return &BackendResult{
		Reader:  repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	cli, err := google.New(ctx, google.Config{
		SpreadsheetID:      config.GoogleSpreadsheetID,
		SheetName:          config.GoogleStatsSheetName,
		ServiceAccountJSON: config.GoogleServiceAccountJSON,
		ServiceAccountFile: config.GoogleServiceAccountFile,
	}, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", "sheet", config.GoogleStatsSheetName)

	return &BackendResult{Reader: cli}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	store, err := memory.NewFromFile(config.MemorySeedFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize memory backend: %w", err)
	}

	f.logger.Info("Initialized memory backend", "seed_file", config.MemorySeedFile)

	return &BackendResult{Reader: store}, nil
}
