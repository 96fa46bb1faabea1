package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Event window of the Noakhali fair, Bangladesh time.
const (
	DefaultEventStart = "2026-01-20T10:00:00+06:00"
	DefaultEventEnd   = "2026-01-20T16:00:00+06:00"
)

// ValidBackends lists the accepted DATA_BACKEND values.
var ValidBackends = []string{"memory", "postgres", "sheets", "sqlite"}

// tableName allows plain or schema-qualified SQL identifiers.
var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

type Config struct {
	// HTTP Server
	Port               string
	RateLimitPerMinute int

	// Backend selection
	DataBackend string
	StatsTable  string

	// Databases
	DatabaseURL  string
	SQLiteDBPath string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleStatsSheetName     string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Memory backend
	MemorySeedFile string

	// AMQP fetch-failure notices (disabled when URL is empty)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Dashboard
	RefreshInterval time.Duration
	FairName        string
	FairTitle       string
	FairLogoURL     string
	EventStart      time.Time
	EventEnd        time.Time
	DefaultTheme    string

	// Logging
	LogLevel  string
	LogFormat string

	// raw values kept so Validate can report unparseable timestamps
	eventStartRaw string
	eventEndRaw   string
}

func Load() *Config {
	cfg := &Config{
		Port:               getEnv("PORT", "8050"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		DataBackend: getEnv("DATA_BACKEND", "memory"),
		StatsTable:  getEnv("STATS_TABLE", "dashboard_stats"),

		DatabaseURL:  getEnv("DATABASE_URL", ""),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/fairdash.db"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleStatsSheetName:     getEnv("GOOGLE_STATS_SHEET_NAME", "dashboard_stats"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		MemorySeedFile: getEnv("MEMORY_SEED_FILE", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "fairdash"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "fetch_failures"),

		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 100*time.Second),
		FairName:        getEnv("FAIR_NAME", "BDJOBS CHAKRI MELA - NOAKHALI 2026"),
		FairTitle:       getEnv("FAIR_TITLE", "Noakhali Job & Career Fair"),
		FairLogoURL:     getEnv("FAIR_LOGO_URL", "https://bdjobs.com/jobfair/new_reg/images/bdjobs-chakri-mela-noakhali-jan-2026.svg"),
		DefaultTheme:    strings.ToLower(getEnv("DEFAULT_THEME", "light")),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		eventStartRaw: getEnv("EVENT_START", DefaultEventStart),
		eventEndRaw:   getEnv("EVENT_END", DefaultEventEnd),
	}

	cfg.EventStart, _ = time.Parse(time.RFC3339, cfg.eventStartRaw)
	cfg.EventEnd, _ = time.Parse(time.RFC3339, cfg.eventEndRaw)

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(ValidBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, ValidBackends))
	}

	if c.DataBackend == "postgres" || c.DataBackend == "sqlite" {
		if !tableName.MatchString(c.StatsTable) {
			errors = append(errors, fmt.Sprintf("invalid stats table '%s': must be a plain SQL identifier", c.StatsTable))
		}
	}

	if c.DataBackend == "postgres" {
		if c.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required when using postgres backend")
		} else if u, err := url.Parse(c.DatabaseURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid DATABASE_URL: %v", err))
		} else if u.Scheme != "postgres" && u.Scheme != "postgresql" {
			errors = append(errors, fmt.Sprintf("invalid DATABASE_URL scheme '%s': must be 'postgres' or 'postgresql'", u.Scheme))
		}
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.DataBackend == "sheets" {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GoogleStatsSheetName == "" {
			errors = append(errors, "Google stats sheet name is required when using sheets backend")
		}
		hasFile := c.GoogleServiceAccountFile != ""
		if !hasFile && c.GoogleServiceAccountJSON == "" && os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
			errors = append(errors, "one of GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_APPLICATION_CREDENTIALS must be provided for sheets backend")
		}
		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if c.DataBackend == "memory" && c.MemorySeedFile != "" {
		if _, err := os.Stat(c.MemorySeedFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("memory seed file does not exist: %s", c.MemorySeedFile))
		}
	}

	// AMQP is optional; validate only when configured
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.RefreshInterval < 10*time.Second {
		errors = append(errors, fmt.Sprintf("invalid refresh interval %v: must be at least 10 seconds", c.RefreshInterval))
	} else if c.RefreshInterval > time.Hour {
		errors = append(errors, fmt.Sprintf("invalid refresh interval %v: must be at most 1 hour", c.RefreshInterval))
	}

	startOK, endOK := !c.EventStart.IsZero(), !c.EventEnd.IsZero()
	if !startOK {
		errors = append(errors, fmt.Sprintf("invalid EVENT_START '%s': must be RFC3339", c.eventStartRaw))
	}
	if !endOK {
		errors = append(errors, fmt.Sprintf("invalid EVENT_END '%s': must be RFC3339", c.eventEndRaw))
	}
	if startOK && endOK && c.EventEnd.Before(c.EventStart) {
		errors = append(errors, "EVENT_END must not be before EVENT_START")
	}

	if c.DefaultTheme != "light" && c.DefaultTheme != "dark" {
		errors = append(errors, fmt.Sprintf("invalid default theme '%s': must be 'light' or 'dark'", c.DefaultTheme))
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// AMQPEnabled reports whether fetch-failure notices should be published.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
