package extension

import "time"

// Config holds the Folio extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.folio" or "folio" keys).
type Config struct {
	// DisableStart skips the store ping and plugin init on Start.
	DisableStart bool `json:"disable_start" mapstructure:"disable_start" yaml:"disable_start"`

	// DefaultCurrency is used for invoices created without a currency
	// (default: "USD").
	DefaultCurrency string `json:"default_currency" mapstructure:"default_currency" yaml:"default_currency"`

	// DefaultPaymentTerms is used for invoices created without terms
	// (default: "net_30").
	DefaultPaymentTerms string `json:"default_payment_terms" mapstructure:"default_payment_terms" yaml:"default_payment_terms"`

	// DuplicateDueDays is how many days after today a duplicated invoice
	// falls due (default: 30).
	DuplicateDueDays int `json:"duplicate_due_days" mapstructure:"duplicate_due_days" yaml:"duplicate_due_days"`

	// DashboardRecent is the number of recent invoices in dashboard stats
	// (default: 5).
	DashboardRecent int `json:"dashboard_recent" mapstructure:"dashboard_recent" yaml:"dashboard_recent"`

	// Latency adds a simulated delay before every engine operation.
	Latency time.Duration `json:"latency" mapstructure:"latency" yaml:"latency"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DefaultCurrency:     "USD",
		DefaultPaymentTerms: "net_30",
		DuplicateDueDays:    30,
		DashboardRecent:     5,
	}
}
