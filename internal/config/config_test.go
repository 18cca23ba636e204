package config

import (
	"os"
	"strings"
	"testing"
)

func TestGoogleDriveIsConfigured(t *testing.T) {
	// Every combination of present/absent fields; only all-present counts
	// as configured.
	for mask := 0; mask < 16; mask++ {
		g := GoogleDrive{}
		if mask&1 != 0 {
			g.ClientID = "id"
		}
		if mask&2 != 0 {
			g.ClientSecret = "secret"
		}
		if mask&4 != 0 {
			g.RefreshToken = "token"
		}
		if mask&8 != 0 {
			g.FolderID = "folder"
		}
		want := mask == 15
		if got := g.IsConfigured(); got != want {
			t.Errorf("mask %04b: IsConfigured() = %v, want %v", mask, got, want)
		}
	}
}

func TestEmailIsConfigured(t *testing.T) {
	for mask := 0; mask < 8; mask++ {
		e := Email{}
		if mask&1 != 0 {
			e.GmailAddress = "a@example.com"
		}
		if mask&2 != 0 {
			e.GmailAppPassword = "pw"
		}
		if mask&4 != 0 {
			e.RecipientEmail = "b@example.com"
		}
		want := mask == 7
		if got := e.IsConfigured(); got != want {
			t.Errorf("mask %03b: IsConfigured() = %v, want %v", mask, got, want)
		}
	}
}

func TestSetRecipient(t *testing.T) {
	cfg := &Config{Email: Email{
		GmailAddress:     "a@example.com",
		GmailAppPassword: "pw",
		RecipientEmail:   "old@example.com",
	}}

	cfg.SetRecipient("new@example.com")

	if cfg.Email.RecipientEmail != "new@example.com" {
		t.Errorf("RecipientEmail = %q, want new@example.com", cfg.Email.RecipientEmail)
	}
	// Only the recipient changes.
	if cfg.Email.GmailAddress != "a@example.com" || cfg.Email.GmailAppPassword != "pw" {
		t.Error("SetRecipient must not touch the other fields")
	}
}

func TestLoad(t *testing.T) {
	vars := []string{
		"DASHBOARD_TITLE", "api_key", "group_id",
		"GDRIVE_CLIENT_ID", "GDRIVE_CLIENT_SECRET", "GDRIVE_REFRESH_TOKEN", "GDRIVE_FOLDER_ID",
		"GMAIL_ADDRESS", "GMAIL_APP_PASSWORD", "RECIPIENT_EMAIL",
		"SQLITE_DB_PATH", "EXPORT_DIR", "AMQP_URL", "AMQP_EXCHANGE", "AMQP_QUEUE",
	}
	original := map[string]string{}
	for _, key := range vars {
		original[key] = os.Getenv(key)
		os.Unsetenv(key)
	}
	defer func() {
		for key, value := range original {
			if value != "" {
				os.Setenv(key, value)
			} else {
				os.Unsetenv(key)
			}
		}
	}()

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.App.Title != "Family Expenses" {
			t.Errorf("Title = %q, want Family Expenses", cfg.App.Title)
		}
		if cfg.Splitwise.APIKey != "" || cfg.Splitwise.GroupID != "" {
			t.Error("Splitwise credentials should default to empty")
		}
		if cfg.Drive.IsConfigured() {
			t.Error("Drive should not be configured by default")
		}
		if cfg.Email.IsConfigured() {
			t.Error("Email should not be configured by default")
		}
		if cfg.SQLiteDBPath != "./data/expenses.db" {
			t.Errorf("SQLiteDBPath = %q, want ./data/expenses.db", cfg.SQLiteDBPath)
		}
		if cfg.AMQPURL != "" {
			t.Errorf("AMQPURL = %q, want empty", cfg.AMQPURL)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		os.Setenv("DASHBOARD_TITLE", "Casa")
		os.Setenv("api_key", "key123")
		os.Setenv("group_id", "42")
		os.Setenv("GDRIVE_CLIENT_ID", "cid")
		os.Setenv("GDRIVE_CLIENT_SECRET", "csecret")
		os.Setenv("GDRIVE_REFRESH_TOKEN", "rtoken")
		os.Setenv("GDRIVE_FOLDER_ID", "fid")

		cfg := Load()

		if cfg.App.Title != "Casa" {
			t.Errorf("Title = %q, want Casa", cfg.App.Title)
		}
		if cfg.Splitwise.APIKey != "key123" {
			t.Errorf("APIKey = %q, want key123", cfg.Splitwise.APIKey)
		}
		if cfg.Splitwise.GroupID != "42" {
			t.Errorf("GroupID = %q, want 42", cfg.Splitwise.GroupID)
		}
		if !cfg.Drive.IsConfigured() {
			t.Error("Drive should be configured")
		}
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid minimal config",
			config: Config{
				Splitwise:    Splitwise{APIKey: "key"},
				SQLiteDBPath: "./test.db",
			},
			wantErr: false,
		},
		{
			name: "missing api key",
			config: Config{
				SQLiteDBPath: "./test.db",
			},
			wantErr:     true,
			errorString: "missing api_key environment variable",
		},
		{
			name: "missing db path",
			config: Config{
				Splitwise: Splitwise{APIKey: "key"},
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name: "AMQP URL without exchange",
			config: Config{
				Splitwise:    Splitwise{APIKey: "key"},
				SQLiteDBPath: "./test.db",
				AMQPURL:      "amqp://localhost:5672/",
				AMQPQueue:    "q",
			},
			wantErr:     true,
			errorString: "AMQP exchange name cannot be empty",
		},
		{
			name: "AMQP URL without queue",
			config: Config{
				Splitwise:    Splitwise{APIKey: "key"},
				SQLiteDBPath: "./test.db",
				AMQPURL:      "amqp://localhost:5672/",
				AMQPExchange: "ex",
			},
			wantErr:     true,
			errorString: "AMQP queue name cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Validate() error = nil, want error")
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Validate() error = %v, want error containing %q", err, tt.errorString)
				}
			} else if err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
		})
	}
}
