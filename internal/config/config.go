package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds every configuration group, assembled once at process start.
// Groups are independent: the collector and the token bootstrap each consume
// only the groups they need.
type Config struct {
	App       App
	Splitwise Splitwise
	Drive     GoogleDrive
	Email     Email

	// Storage
	SQLiteDBPath string
	ExportDir    string

	// AMQP (optional; empty URL disables publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// App holds branding configuration.
type App struct {
	Title string
}

// Splitwise holds the accounting API credentials. GroupID is optional:
// when empty the fetch spans all groups the key can see.
type Splitwise struct {
	APIKey  string
	GroupID string
}

// GoogleDrive holds the OAuth credentials for the backup upload destination.
type GoogleDrive struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	FolderID     string
}

// IsConfigured reports whether every field required for uploads is set.
// Recomputed on each call; a single missing field disables the group.
func (g GoogleDrive) IsConfigured() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.RefreshToken != "" && g.FolderID != ""
}

// Email holds Gmail SMTP credentials for the run-summary mail.
type Email struct {
	GmailAddress     string
	GmailAppPassword string
	RecipientEmail   string
}

// IsConfigured reports whether every field required for sending is set.
func (e Email) IsConfigured() bool {
	return e.GmailAddress != "" && e.GmailAppPassword != "" && e.RecipientEmail != ""
}

// SetRecipient replaces the recipient address on this config instance.
// The previous value is discarded. Callers own the Config and there is no
// concurrency guard: this is meant for single-threaded batch runs.
func (c *Config) SetRecipient(address string) {
	c.Email.RecipientEmail = address
}

// Load assembles the configuration from environment variables. Missing
// values are not errors here; they surface later as Validate failures or
// as unconfigured optional groups.
func Load() *Config {
	return &Config{
		App: App{
			Title: getEnv("DASHBOARD_TITLE", "Family Expenses"),
		},
		Splitwise: Splitwise{
			APIKey:  getEnv("api_key", ""),
			GroupID: getEnv("group_id", ""),
		},
		Drive: GoogleDrive{
			ClientID:     getEnv("GDRIVE_CLIENT_ID", ""),
			ClientSecret: getEnv("GDRIVE_CLIENT_SECRET", ""),
			RefreshToken: getEnv("GDRIVE_REFRESH_TOKEN", ""),
			FolderID:     getEnv("GDRIVE_FOLDER_ID", ""),
		},
		Email: Email{
			GmailAddress:     getEnv("GMAIL_ADDRESS", ""),
			GmailAppPassword: getEnv("GMAIL_APP_PASSWORD", ""),
			RecipientEmail:   getEnv("RECIPIENT_EMAIL", ""),
		},

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/expenses.db"),
		ExportDir:    getEnv("EXPORT_DIR", "./data"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "family_expenses"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "dataset_refreshed"),
	}
}

// Validate validates the configuration the collector cannot run without.
// Optional groups (Drive, Email, AMQP) are tolerated when unconfigured.
func (c *Config) Validate() error {
	var errors []string

	if c.Splitwise.APIKey == "" {
		errors = append(errors, "missing api_key environment variable")
	}
	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	}
	if c.AMQPURL != "" {
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
