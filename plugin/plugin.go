// Package plugin provides an extensible plugin system for Folio.
// Plugins can hook into invoice lifecycle events to extend functionality.
// Hooks receive copies; mutating them has no effect on stored invoices.
package plugin

import (
	"context"

	"github.com/xraph/folio/delivery"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/invoice"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the engine starts.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, engine any) error
}

// OnShutdown is called when the engine stops.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Invoice lifecycle hooks
// ──────────────────────────────────────────────────

// OnInvoiceCreated is called after an invoice is created.
type OnInvoiceCreated interface {
	Plugin
	OnInvoiceCreated(ctx context.Context, inv *invoice.Invoice) error
}

// OnInvoiceUpdated is called after a patch is applied.
type OnInvoiceUpdated interface {
	Plugin
	OnInvoiceUpdated(ctx context.Context, before, after *invoice.Invoice) error
}

// OnInvoiceDeleted is called after an invoice is removed.
type OnInvoiceDeleted interface {
	Plugin
	OnInvoiceDeleted(ctx context.Context, invID id.InvoiceID) error
}

// OnInvoiceDuplicated is called after a copy of src is stored.
type OnInvoiceDuplicated interface {
	Plugin
	OnInvoiceDuplicated(ctx context.Context, src, dup *invoice.Invoice) error
}

// OnInvoiceSent is called after a delivery was acknowledged and the invoice
// moved to sent.
type OnInvoiceSent interface {
	Plugin
	OnInvoiceSent(ctx context.Context, inv *invoice.Invoice, ack *delivery.Acknowledgment) error
}

// OnInvoiceCancelled is called when an invoice is cancelled.
type OnInvoiceCancelled interface {
	Plugin
	OnInvoiceCancelled(ctx context.Context, inv *invoice.Invoice) error
}

// ──────────────────────────────────────────────────
// Payment and status hooks
// ──────────────────────────────────────────────────

// OnPaymentRecorded is called after a payment is appended.
type OnPaymentRecorded interface {
	Plugin
	OnPaymentRecorded(ctx context.Context, inv *invoice.Invoice, payment invoice.Payment) error
}

// OnInvoicePaid is called when an invoice becomes paid, by payment or by
// explicit status change.
type OnInvoicePaid interface {
	Plugin
	OnInvoicePaid(ctx context.Context, inv *invoice.Invoice) error
}

// OnInvoiceOverdue is called when the resolver first marks an invoice
// overdue.
type OnInvoiceOverdue interface {
	Plugin
	OnInvoiceOverdue(ctx context.Context, inv *invoice.Invoice) error
}
