// Package extension provides the Forge extension adapter for Folio.
//
// It implements the forge.Extension interface to integrate Folio
// into a Forge application with DI registration and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.folio" or "folio" keys.
package extension

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/folio"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/store"
	"github.com/xraph/folio/store/memory"
	"github.com/xraph/folio/types"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "folio"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Invoice lifecycle and payment ledger engine"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts Folio as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config    Config
	engine    *folio.Folio
	store     store.Store
	folioOpts []folio.Option
}

// New creates a new Folio Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying Folio instance.
// This is nil until Register is called.
func (e *Extension) Engine() *folio.Folio { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the folio engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	opts, err := e.buildFolioOpts()
	if err != nil {
		return err
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}
	e.engine = folio.New(e.store, opts...)

	return vessel.Provide(fapp.Container(), func() (*folio.Folio, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("folio: extension not initialized")
	}

	if !e.config.DisableStart {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("folio: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildFolioOpts constructs folio.Option values from the resolved config.
// Pass-through options come last so they win over config.
func (e *Extension) buildFolioOpts() ([]folio.Option, error) {
	cfg := e.config
	currency := types.Currency(cfg.DefaultCurrency)
	if !currency.Valid() {
		return nil, errors.Newf("folio: unsupported default currency %q", cfg.DefaultCurrency)
	}
	terms := invoice.PaymentTerms(cfg.DefaultPaymentTerms)
	if !terms.Valid() {
		return nil, errors.Newf("folio: unknown default payment terms %q", cfg.DefaultPaymentTerms)
	}

	opts := make([]folio.Option, 0, len(e.folioOpts)+5)
	opts = append(opts,
		folio.WithDefaultCurrency(currency),
		folio.WithDefaultPaymentTerms(terms),
		folio.WithDuplicateDueDays(cfg.DuplicateDueDays),
		folio.WithDashboardRecent(cfg.DashboardRecent),
	)
	if cfg.Latency > 0 {
		opts = append(opts, folio.WithLatency(cfg.Latency))
	}

	return append(opts, e.folioOpts...), nil
}

// --- Config Loading ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("folio: configuration is required but not found in config files; " +
				"ensure 'extensions.folio' or 'folio' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("folio: configuration loaded",
		forge.F("disable_start", e.config.DisableStart),
		forge.F("default_currency", e.config.DefaultCurrency),
		forge.F("default_payment_terms", e.config.DefaultPaymentTerms),
		forge.F("duplicate_due_days", e.config.DuplicateDueDays),
		forge.F("dashboard_recent", e.config.DashboardRecent),
		forge.F("latency", e.config.Latency),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()

	for _, key := range []string{"extensions.folio", "folio"} {
		if !cm.IsSet(key) {
			continue
		}
		var cfg Config
		if err := cm.Bind(key, &cfg); err != nil {
			e.Logger().Warn("folio: failed to bind config",
				forge.F("key", key),
				forge.F("error", err.Error()),
			)
			continue
		}
		e.Logger().Debug("folio: loaded config from file",
			forge.F("key", key),
		)
		return cfg, true
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = defaults.DefaultCurrency
	}
	if cfg.DefaultPaymentTerms == "" {
		cfg.DefaultPaymentTerms = defaults.DefaultPaymentTerms
	}
	if cfg.DuplicateDueDays == 0 {
		cfg.DuplicateDueDays = defaults.DuplicateDueDays
	}
	if cfg.DashboardRecent == 0 {
		cfg.DashboardRecent = defaults.DashboardRecent
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence; programmatic values fill gaps.
func mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	if programmaticConfig.DisableStart {
		yamlConfig.DisableStart = true
	}
	if yamlConfig.DefaultCurrency == "" {
		yamlConfig.DefaultCurrency = programmaticConfig.DefaultCurrency
	}
	if yamlConfig.DefaultPaymentTerms == "" {
		yamlConfig.DefaultPaymentTerms = programmaticConfig.DefaultPaymentTerms
	}
	if yamlConfig.DuplicateDueDays == 0 {
		yamlConfig.DuplicateDueDays = programmaticConfig.DuplicateDueDays
	}
	if yamlConfig.DashboardRecent == 0 {
		yamlConfig.DashboardRecent = programmaticConfig.DashboardRecent
	}
	if yamlConfig.Latency == 0 {
		yamlConfig.Latency = programmaticConfig.Latency
	}

	// Fill remaining zeros with defaults.
	return mergeWithDefaults(yamlConfig)
}
