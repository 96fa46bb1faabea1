package backend

import (
	"fmt"

	"fairdash/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:       backendType,
		StatsTable: appConfig.StatsTable,

		DatabaseURL:  appConfig.DatabaseURL,
		SQLiteDBPath: appConfig.SQLiteDBPath,

		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		GoogleStatsSheetName:     appConfig.GoogleStatsSheetName,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,

		MemorySeedFile: appConfig.MemorySeedFile,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case PostgresBackend:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database URL is required for postgres backend")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case SheetsBackend:
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets backend")
		}
	case MemoryBackend:
		// seed file is optional; the demo row is used without one
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{MemoryBackend, PostgresBackend, SheetsBackend, SQLiteBackend}
}
