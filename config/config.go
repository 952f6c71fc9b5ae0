package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Data source kinds accepted in DATA_SOURCE.
const (
	SourceSheets   = "sheets"
	SourceSnapshot = "snapshot"
	SourceFile     = "file"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV:
//
//	SERVER_PORT=8080
//	DATA_SOURCE=sheets
//	SHEETS_SPREADSHEET_ID=1AbC...
//	SHEETS_RANGES=Gastos!A:F,Receitas!A:D
//	GOOGLE_CREDENTIALS_FILE=/secrets/sa.json
//	REFERENCE_YEAR=2025
//	POSTGRES_HOST=localhost
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Source   SourceConfig   // Where the expense table comes from
	Sheets   SheetsConfig   // Google Sheets access
	Schema   SchemaConfig   // Column names and reference year
	Postgres PostgresConfig // PostgreSQL connection settings (snapshot source, ingestion)
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string        // The TCP port the HTTP server will listen on (e.g., "8080")
	RateLimitPerMinute int           // Requests per client IP per minute; 0 disables
	RequestTimeout     time.Duration // Upper bound for each request context
}

// SourceConfig selects the table source used by the API and report.
type SourceConfig struct {
	Kind     string // sheets | snapshot | file
	DataFile string // JSON or CSV export read by the file source
}

// SheetsConfig identifies the spreadsheet and how to authenticate.
//
// Ranges are opaque A1 strings passed to the API untouched. The first range
// is the one served by the API; ingestion snapshots all of them.
type SheetsConfig struct {
	SpreadsheetID   string
	Ranges          []string
	CredentialsJSON string
	CredentialsFile string
	Endpoint        string
}

// PrimaryRange returns the first configured range or "".
func (s SheetsConfig) PrimaryRange() string {
	if len(s.Ranges) == 0 {
		return ""
	}
	return s.Ranges[0]
}

// SchemaConfig names the columns the analyses read.
type SchemaConfig struct {
	DateColumn     string
	CategoryColumn string
	ItemColumn     string
	AmountColumn   string
	ReferenceYear  int
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If variables required by DATA_SOURCE are missing, validateConfig() terminates
//     the app with a descriptive log message.
func LoadConfig() {
	setDefaults()

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Legacy variable names are accepted as fallbacks.
	_ = viper.BindEnv("SHEETS_SPREADSHEET_ID", "SHEETS_SPREADSHEET_ID", "SAMPLE_SPREADSHEET_ID")
	_ = viper.BindEnv("SHEETS_RANGES", "SHEETS_RANGES", "SAMPLE_RANGE_NAME")
	_ = viper.BindEnv("GOOGLE_CREDENTIALS_FILE", "GOOGLE_CREDENTIALS_FILE", "GOOGLE_APPLICATION_CREDENTIALS")
	viper.AutomaticEnv()

	AppConfig = fromViper()

	validateConfig()
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 60)
	viper.SetDefault("REQUEST_TIMEOUT", "10s")

	viper.SetDefault("DATA_SOURCE", SourceSheets)

	viper.SetDefault("SCHEMA_DATE_COLUMN", "Data")
	viper.SetDefault("SCHEMA_CATEGORY_COLUMN", "Categoria")
	viper.SetDefault("SCHEMA_ITEM_COLUMN", "Item")
	viper.SetDefault("SCHEMA_AMOUNT_COLUMN", "Valor_total")
	viper.SetDefault("REFERENCE_YEAR", 2025)

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "gastos")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
}

func fromViper() Config {
	cfg := Config{
		Server: ServerConfig{
			Port:               viper.GetString("SERVER_PORT"),
			RateLimitPerMinute: viper.GetInt("RATE_LIMIT_PER_MINUTE"),
			RequestTimeout:     viper.GetDuration("REQUEST_TIMEOUT"),
		},
		Source: SourceConfig{
			Kind:     strings.ToLower(strings.TrimSpace(viper.GetString("DATA_SOURCE"))),
			DataFile: viper.GetString("DATA_FILE"),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:   strings.TrimSpace(viper.GetString("SHEETS_SPREADSHEET_ID")),
			Ranges:          splitList(viper.GetString("SHEETS_RANGES")),
			CredentialsJSON: viper.GetString("GOOGLE_CREDENTIALS_JSON"),
			CredentialsFile: viper.GetString("GOOGLE_CREDENTIALS_FILE"),
			Endpoint:        viper.GetString("SHEETS_ENDPOINT"),
		},
		Schema: SchemaConfig{
			DateColumn:     viper.GetString("SCHEMA_DATE_COLUMN"),
			CategoryColumn: viper.GetString("SCHEMA_CATEGORY_COLUMN"),
			ItemColumn:     viper.GetString("SCHEMA_ITEM_COLUMN"),
			AmountColumn:   viper.GetString("SCHEMA_AMOUNT_COLUMN"),
			ReferenceYear:  viper.GetInt("REFERENCE_YEAR"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
	}

	// Construct Postgres DSN (used by database/sql)
	cfg.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)
	return cfg
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Missing lists the variables a source kind needs that are not set in cfg.
func Missing(cfg Config, kind string) []string {
	var missing []string

	switch kind {
	case SourceSheets:
		if cfg.Sheets.SpreadsheetID == "" {
			missing = append(missing, "SHEETS_SPREADSHEET_ID")
		}
		if len(cfg.Sheets.Ranges) == 0 {
			missing = append(missing, "SHEETS_RANGES")
		}
	case SourceFile:
		if cfg.Source.DataFile == "" {
			missing = append(missing, "DATA_FILE")
		}
	case SourceSnapshot:
		if len(cfg.Sheets.Ranges) == 0 {
			missing = append(missing, "SHEETS_RANGES")
		}
		if cfg.Postgres.Host == "" {
			missing = append(missing, "POSTGRES_HOST")
		}
		if cfg.Postgres.Port == 0 {
			missing = append(missing, "POSTGRES_PORT")
		}
		if cfg.Postgres.User == "" {
			missing = append(missing, "POSTGRES_USER")
		}
		if cfg.Postgres.Password == "" {
			missing = append(missing, "POSTGRES_PASSWORD")
		}
		if cfg.Postgres.DBName == "" {
			missing = append(missing, "POSTGRES_DB")
		}
	default:
		missing = append(missing, fmt.Sprintf("DATA_SOURCE (got %q, want sheets|snapshot|file)", kind))
	}
	return missing
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
//
// Behavior:
//   - Checks the server port and the variables DATA_SOURCE depends on.
//   - If any are missing, logs them and terminates the app with log.Fatalf().
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	missing = append(missing, Missing(AppConfig, AppConfig.Source.Kind)...)

	if len(missing) > 0 {
		log.Fatalf("missing required environment variables: %v\n", missing)
	}
}

// Override forces a configuration key, taking precedence over .env and the
// environment. Commands use it to apply flags before LoadConfig.
func Override(key string, value any) {
	viper.Set(key, value)
}
