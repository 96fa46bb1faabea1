package backend

import (
	"context"
	"path/filepath"
	"testing"

	"fairdash/internal/config"
	"fairdash/internal/log"
	"fairdash/internal/source/memory"
	"fairdash/internal/storage"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("nil config: want error")
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "mongo"}); err == nil {
		t.Error("unknown backend: want error")
	}

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: "./data/x.db",
		StatsTable:   "dashboard_stats",
	})
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "./data/x.db" || cfg.StatsTable != "dashboard_stats" {
		t.Errorf("FromAppConfig = %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"postgres without url", Config{Type: PostgresBackend}, true},
		{"postgres", Config{Type: PostgresBackend, DatabaseURL: "postgres://localhost/db"}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"sheets without id", Config{Type: SheetsBackend}, true},
		{"unknown", Config{Type: "mongo"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFactory_Memory(t *testing.T) {
	res, err := NewFactory(log.Discard()).CreateBackend(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if _, ok := res.Reader.(*memory.Store); !ok {
		t.Fatalf("reader = %T, want *memory.Store", res.Reader)
	}
	if err := res.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestFactory_SQLite(t *testing.T) {
	res, err := NewFactory(log.Discard()).CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "fair.db"),
		StatsTable:   "dashboard_stats",
	})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	defer res.Close()

	if _, ok := res.Reader.(*storage.SQLiteRepository); !ok {
		t.Fatalf("reader = %T, want *storage.SQLiteRepository", res.Reader)
	}
}

func TestFactory_InvalidConfig(t *testing.T) {
	if _, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: PostgresBackend}); err == nil {
		t.Fatal("want error for postgres without url")
	}
}

func TestBackendResult_CloseNil(t *testing.T) {
	var r *BackendResult
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil result: %v", err)
	}
}
