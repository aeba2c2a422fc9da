package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Supported values of DATA_SOURCE.
const (
	SourceSupabase = "supabase"
	SourcePostgres = "postgres"
	SourceMongoDB  = "mongodb"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Source   SourceConfig
	Supabase SupabaseConfig
	Postgres PostgresConfig
	MongoDB  MongoDBConfig
	Display  DisplayConfig
	Schedule ScheduleConfig
	WhatsApp WhatsAppConfig
	Sheets   SheetsConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig holds logger options.
type LogConfig struct {
	Level string
}

// SourceConfig selects the backend the batch records are loaded from.
type SourceConfig struct {
	Kind string
}

// SupabaseConfig contains the PostgREST endpoint of the hosted backend.
type SupabaseConfig struct {
	URL     string
	AnonKey string
}

// PostgresConfig holds the direct database connection string.
type PostgresConfig struct {
	DSN string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// DisplayConfig drives number formatting and week numbering.
type DisplayConfig struct {
	Locale   string
	Timezone string
}

// ScheduleConfig holds the cron expressions of background jobs.
type ScheduleConfig struct {
	RefreshCron string
	ReportCron  string
}

// WhatsAppConfig contains credentials for the Meta WhatsApp Cloud API. Alerts
// are disabled when AccessToken is empty.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	RecipientID   string
}

// Enabled reports whether alerts can be sent.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != ""
}

// SheetsConfig contains configuration required to publish to Google Sheets.
// Publishing is disabled when CredentialsPath is empty.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	Range           string
}

// Enabled reports whether sheet publishing is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a validated Config instance.
func Load(envFile string) (*Config, error) {
	cfg, err := Read(envFile)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Read is Load without validation, for tools that only need the display
// settings.
func Read(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when the environment is set directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Source: SourceConfig{
			Kind: strings.ToLower(getenvWithDefault("DATA_SOURCE", SourceSupabase)),
		},
		Supabase: SupabaseConfig{
			URL:     os.Getenv("SUPABASE_URL"),
			AnonKey: os.Getenv("SUPABASE_ANON_KEY"),
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("DATABASE_URL"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "hatchery"),
		},
		Display: DisplayConfig{
			Locale:   getenvWithDefault("DISPLAY_LOCALE", "en-US"),
			Timezone: getenvWithDefault("TIMEZONE", "UTC"),
		},
		Schedule: ScheduleConfig{
			RefreshCron: getenvWithDefault("REFRESH_CRON_SCHEDULE", "*/30 * * * *"),
			ReportCron:  getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * 5"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			RecipientID:   os.Getenv("WHATSAPP_ALERT_RECIPIENT"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			Range:           getenvWithDefault("GOOGLE_SHEET_RANGE", "CompleteData!A1"),
		},
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Source.Kind {
	case SourceSupabase:
		switch {
		case c.Supabase.URL == "":
			return errors.New("SUPABASE_URL must be provided")
		case c.Supabase.AnonKey == "":
			return errors.New("SUPABASE_ANON_KEY must be provided")
		}
	case SourcePostgres:
		if c.Postgres.DSN == "" {
			return errors.New("DATABASE_URL must be provided")
		}
	case SourceMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must not be empty")
		}
	default:
		return fmt.Errorf("DATA_SOURCE %q is not one of supabase, postgres, mongodb", c.Source.Kind)
	}

	if c.Display.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if c.Schedule.RefreshCron == "" {
		return errors.New("REFRESH_CRON_SCHEDULE must be provided")
	}

	if c.WhatsApp.Enabled() {
		switch {
		case c.WhatsApp.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
		case c.WhatsApp.RecipientID == "":
			return errors.New("WHATSAPP_ALERT_RECIPIENT must be provided")
		case c.WhatsApp.BaseURL == "":
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		case c.WhatsApp.APIVersion == "":
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	if c.Sheets.Enabled() && c.Sheets.SpreadsheetID == "" {
		return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
