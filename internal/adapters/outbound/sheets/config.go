package sheets

import (
	"log/slog"

	"google.golang.org/api/option"
)

// Config holds configuration for the spreadsheet-backed row store.
type Config struct {
	// SpreadsheetID identifies the spreadsheet holding the order queue.
	SpreadsheetID string

	// SheetName is the tab holding the queue rows.
	SheetName string

	// ReadRange is the A1 column span read on every cycle, without the
	// sheet prefix.
	ReadRange string

	// CredentialsFile is the path to a service-account JSON key. Leave
	// empty to use application default credentials.
	CredentialsFile string

	Logger *slog.Logger

	// ClientOptions are appended after the credential options, letting
	// tests point the service at a fake endpoint.
	ClientOptions []option.ClientOption
}

// ConfigDefaults returns a Config with sensible default values.
func ConfigDefaults() Config {
	return Config{
		SheetName: "Place_Orders",
		ReadRange: "A:F",
	}
}

func applyDefaults(config *Config, defaults Config) {
	if config.SheetName == "" {
		config.SheetName = defaults.SheetName
	}
	if config.ReadRange == "" {
		config.ReadRange = defaults.ReadRange
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
}
