package extension

import (
	"time"

	"github.com/xraph/folio"
	audithook "github.com/xraph/folio/audit_hook"
	"github.com/xraph/folio/delivery"
	"github.com/xraph/folio/directory"
	"github.com/xraph/folio/observability"
	"github.com/xraph/folio/plugin"
	"github.com/xraph/folio/store"
)

// Option configures the Folio Forge extension.
type Option func(*Extension)

// WithStore sets the store for the folio engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithFolioOption passes a folio.Option through to the underlying engine.
func WithFolioOption(opt folio.Option) Option {
	return func(e *Extension) {
		e.folioOpts = append(e.folioOpts, opt)
	}
}

// WithPlugin registers a folio plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.folioOpts = append(e.folioOpts, folio.WithPlugin(p))
	}
}

// WithSender sets the delivery transport used to send invoices.
func WithSender(s delivery.Sender) Option {
	return func(e *Extension) {
		e.folioOpts = append(e.folioOpts, folio.WithSender(s))
	}
}

// WithDirectory sets the client/project lookup.
func WithDirectory(d directory.Directory) Option {
	return func(e *Extension) {
		e.folioOpts = append(e.folioOpts, folio.WithDirectory(d))
	}
}

// WithMetrics registers the observability plugin backed by factory.
func WithMetrics(factory observability.MetricFactory) Option {
	return WithPlugin(observability.NewMetricsExtension(factory))
}

// WithAuditRecorder registers the audit hook plugin writing to r.
func WithAuditRecorder(r audithook.Recorder, opts ...audithook.Option) Option {
	return WithPlugin(audithook.New(r, opts...))
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableStart skips engine start-up checks.
func WithDisableStart() Option {
	return func(e *Extension) { e.config.DisableStart = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithDefaultCurrency sets the currency for invoices created without one.
func WithDefaultCurrency(code string) Option {
	return func(e *Extension) { e.config.DefaultCurrency = code }
}

// WithDefaultPaymentTerms sets the terms for invoices created without any.
func WithDefaultPaymentTerms(terms string) Option {
	return func(e *Extension) { e.config.DefaultPaymentTerms = terms }
}

// WithDuplicateDueDays sets how far past today a duplicate is due.
func WithDuplicateDueDays(days int) Option {
	return func(e *Extension) { e.config.DuplicateDueDays = days }
}

// WithDashboardRecent sets how many recent invoices the dashboard lists.
func WithDashboardRecent(n int) Option {
	return func(e *Extension) { e.config.DashboardRecent = n }
}

// WithLatency adds a simulated delay before every engine operation.
func WithLatency(d time.Duration) Option {
	return func(e *Extension) { e.config.Latency = d }
}
