package plugin

import (
	"context"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/xraph/folio/delivery"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/invoice"
)

// DefaultTimeout bounds a single hook call.
const DefaultTimeout = 5 * time.Second

// ErrTimeout is returned (and logged) when a hook exceeds the timeout.
var ErrTimeout = errors.New("plugin: timeout")

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery so an emit only walks plugins that
// implement the hook.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger
	timeout time.Duration

	// Type-cached plugin lists for efficient dispatch
	onInit              []OnInit
	onShutdown          []OnShutdown
	onInvoiceCreated    []OnInvoiceCreated
	onInvoiceUpdated    []OnInvoiceUpdated
	onInvoiceDeleted    []OnInvoiceDeleted
	onInvoiceDuplicated []OnInvoiceDuplicated
	onInvoiceSent       []OnInvoiceSent
	onInvoiceCancelled  []OnInvoiceCancelled
	onPaymentRecorded   []OnPaymentRecorded
	onInvoicePaid       []OnInvoicePaid
	onInvoiceOverdue    []OnInvoiceOverdue
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:  slog.Default(),
		timeout: DefaultTimeout,
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// WithTimeout sets the per-hook timeout. Non-positive values are ignored.
func (r *Registry) WithTimeout(d time.Duration) *Registry {
	if d > 0 {
		r.timeout = d
	}
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return errors.Newf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnInvoiceCreated); ok {
		r.onInvoiceCreated = append(r.onInvoiceCreated, v)
	}
	if v, ok := p.(OnInvoiceUpdated); ok {
		r.onInvoiceUpdated = append(r.onInvoiceUpdated, v)
	}
	if v, ok := p.(OnInvoiceDeleted); ok {
		r.onInvoiceDeleted = append(r.onInvoiceDeleted, v)
	}
	if v, ok := p.(OnInvoiceDuplicated); ok {
		r.onInvoiceDuplicated = append(r.onInvoiceDuplicated, v)
	}
	if v, ok := p.(OnInvoiceSent); ok {
		r.onInvoiceSent = append(r.onInvoiceSent, v)
	}
	if v, ok := p.(OnInvoiceCancelled); ok {
		r.onInvoiceCancelled = append(r.onInvoiceCancelled, v)
	}
	if v, ok := p.(OnPaymentRecorded); ok {
		r.onPaymentRecorded = append(r.onPaymentRecorded, v)
	}
	if v, ok := p.(OnInvoicePaid); ok {
		r.onInvoicePaid = append(r.onInvoicePaid, v)
	}
	if v, ok := p.(OnInvoiceOverdue); ok {
		r.onInvoiceOverdue = append(r.onInvoiceOverdue, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", Interfaces(p),
	)

	return nil
}

var hookTypes = []struct {
	name string
	typ  reflect.Type
}{
	{"OnInit", reflect.TypeOf((*OnInit)(nil)).Elem()},
	{"OnShutdown", reflect.TypeOf((*OnShutdown)(nil)).Elem()},
	{"OnInvoiceCreated", reflect.TypeOf((*OnInvoiceCreated)(nil)).Elem()},
	{"OnInvoiceUpdated", reflect.TypeOf((*OnInvoiceUpdated)(nil)).Elem()},
	{"OnInvoiceDeleted", reflect.TypeOf((*OnInvoiceDeleted)(nil)).Elem()},
	{"OnInvoiceDuplicated", reflect.TypeOf((*OnInvoiceDuplicated)(nil)).Elem()},
	{"OnInvoiceSent", reflect.TypeOf((*OnInvoiceSent)(nil)).Elem()},
	{"OnInvoiceCancelled", reflect.TypeOf((*OnInvoiceCancelled)(nil)).Elem()},
	{"OnPaymentRecorded", reflect.TypeOf((*OnPaymentRecorded)(nil)).Elem()},
	{"OnInvoicePaid", reflect.TypeOf((*OnInvoicePaid)(nil)).Elem()},
	{"OnInvoiceOverdue", reflect.TypeOf((*OnInvoiceOverdue)(nil)).Elem()},
}

// Interfaces returns the names of the hooks p implements.
func Interfaces(p Plugin) []string {
	var out []string
	t := reflect.TypeOf(p)
	for _, h := range hookTypes {
		if t.Implements(h.typ) {
			out = append(out, h.name)
		}
	}
	return out
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// emit runs fn for every plugin in the snapshot. Failures are logged, never
// returned: a misbehaving plugin must not fail an invoice operation.
func emit[T Plugin](ctx context.Context, r *Registry, hook string, list func() []T, fn func(T) error) {
	r.mu.RLock()
	plugins := list()
	r.mu.RUnlock()

	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return fn(p)
		}); err != nil {
			r.logger.Warn("plugin "+hook+" failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, engine any) {
	emit(ctx, r, "OnInit", func() []OnInit { return r.onInit }, func(p OnInit) error {
		return p.OnInit(ctx, engine)
	})
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	emit(ctx, r, "OnShutdown", func() []OnShutdown { return r.onShutdown }, func(p OnShutdown) error {
		return p.OnShutdown(ctx)
	})
}

// EmitInvoiceCreated emits an invoice created event.
func (r *Registry) EmitInvoiceCreated(ctx context.Context, inv *invoice.Invoice) {
	emit(ctx, r, "OnInvoiceCreated", func() []OnInvoiceCreated { return r.onInvoiceCreated }, func(p OnInvoiceCreated) error {
		return p.OnInvoiceCreated(ctx, inv.Clone())
	})
}

// EmitInvoiceUpdated emits an invoice updated event.
func (r *Registry) EmitInvoiceUpdated(ctx context.Context, before, after *invoice.Invoice) {
	emit(ctx, r, "OnInvoiceUpdated", func() []OnInvoiceUpdated { return r.onInvoiceUpdated }, func(p OnInvoiceUpdated) error {
		return p.OnInvoiceUpdated(ctx, before.Clone(), after.Clone())
	})
}

// EmitInvoiceDeleted emits an invoice deleted event.
func (r *Registry) EmitInvoiceDeleted(ctx context.Context, invID id.InvoiceID) {
	emit(ctx, r, "OnInvoiceDeleted", func() []OnInvoiceDeleted { return r.onInvoiceDeleted }, func(p OnInvoiceDeleted) error {
		return p.OnInvoiceDeleted(ctx, invID)
	})
}

// EmitInvoiceDuplicated emits an invoice duplicated event.
func (r *Registry) EmitInvoiceDuplicated(ctx context.Context, src, dup *invoice.Invoice) {
	emit(ctx, r, "OnInvoiceDuplicated", func() []OnInvoiceDuplicated { return r.onInvoiceDuplicated }, func(p OnInvoiceDuplicated) error {
		return p.OnInvoiceDuplicated(ctx, src.Clone(), dup.Clone())
	})
}

// EmitInvoiceSent emits an invoice sent event.
func (r *Registry) EmitInvoiceSent(ctx context.Context, inv *invoice.Invoice, ack *delivery.Acknowledgment) {
	emit(ctx, r, "OnInvoiceSent", func() []OnInvoiceSent { return r.onInvoiceSent }, func(p OnInvoiceSent) error {
		return p.OnInvoiceSent(ctx, inv.Clone(), ack)
	})
}

// EmitInvoiceCancelled emits an invoice cancelled event.
func (r *Registry) EmitInvoiceCancelled(ctx context.Context, inv *invoice.Invoice) {
	emit(ctx, r, "OnInvoiceCancelled", func() []OnInvoiceCancelled { return r.onInvoiceCancelled }, func(p OnInvoiceCancelled) error {
		return p.OnInvoiceCancelled(ctx, inv.Clone())
	})
}

// EmitPaymentRecorded emits a payment recorded event.
func (r *Registry) EmitPaymentRecorded(ctx context.Context, inv *invoice.Invoice, payment invoice.Payment) {
	emit(ctx, r, "OnPaymentRecorded", func() []OnPaymentRecorded { return r.onPaymentRecorded }, func(p OnPaymentRecorded) error {
		return p.OnPaymentRecorded(ctx, inv.Clone(), payment)
	})
}

// EmitInvoicePaid emits an invoice paid event.
func (r *Registry) EmitInvoicePaid(ctx context.Context, inv *invoice.Invoice) {
	emit(ctx, r, "OnInvoicePaid", func() []OnInvoicePaid { return r.onInvoicePaid }, func(p OnInvoicePaid) error {
		return p.OnInvoicePaid(ctx, inv.Clone())
	})
}

// EmitInvoiceOverdue emits an invoice overdue event.
func (r *Registry) EmitInvoiceOverdue(ctx context.Context, inv *invoice.Invoice) {
	emit(ctx, r, "OnInvoiceOverdue", func() []OnInvoiceOverdue { return r.onInvoiceOverdue }, func(p OnInvoiceOverdue) error {
		return p.OnInvoiceOverdue(ctx, inv.Clone())
	})
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block invoice operations.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(r.timeout):
		return errors.Wrapf(ErrTimeout, "%s after %s", pluginName, r.timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}
