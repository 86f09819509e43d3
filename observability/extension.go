// Package observability provides a metrics plugin for Folio that records
// invoice lifecycle counts and amounts through a MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/folio/delivery"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/plugin"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin              = (*MetricsExtension)(nil)
	_ plugin.OnInit              = (*MetricsExtension)(nil)
	_ plugin.OnInvoiceCreated    = (*MetricsExtension)(nil)
	_ plugin.OnInvoiceUpdated    = (*MetricsExtension)(nil)
	_ plugin.OnInvoiceDeleted    = (*MetricsExtension)(nil)
	_ plugin.OnInvoiceDuplicated = (*MetricsExtension)(nil)
	_ plugin.OnInvoiceSent       = (*MetricsExtension)(nil)
	_ plugin.OnInvoiceCancelled  = (*MetricsExtension)(nil)
	_ plugin.OnInvoiceOverdue    = (*MetricsExtension)(nil)
	_ plugin.OnInvoicePaid       = (*MetricsExtension)(nil)
	_ plugin.OnPaymentRecorded   = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records invoice lifecycle metrics.
// Register it as a Folio plugin to track billing activity. Amounts are
// observed in major units regardless of currency.
type MetricsExtension struct {
	factory MetricFactory

	// Invoice metrics
	InvoiceCreated    Counter
	InvoiceUpdated    Counter
	InvoiceDeleted    Counter
	InvoiceDuplicated Counter
	InvoiceSent       Counter
	InvoiceCancelled  Counter
	InvoiceOverdue    Counter
	InvoicePaid       Counter
	InvoiceTotal      Histogram
	InvoiceLineItems  Histogram

	// Payment metrics
	PaymentRecorded Counter
	PaymentAmount   Histogram
	PartialPayments Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		InvoiceCreated:    factory.Counter("folio.invoice.created"),
		InvoiceUpdated:    factory.Counter("folio.invoice.updated"),
		InvoiceDeleted:    factory.Counter("folio.invoice.deleted"),
		InvoiceDuplicated: factory.Counter("folio.invoice.duplicated"),
		InvoiceSent:       factory.Counter("folio.invoice.sent"),
		InvoiceCancelled:  factory.Counter("folio.invoice.cancelled"),
		InvoiceOverdue:    factory.Counter("folio.invoice.overdue"),
		InvoicePaid:       factory.Counter("folio.invoice.paid"),
		InvoiceTotal:      factory.Histogram("folio.invoice.total_amount"),
		InvoiceLineItems:  factory.Histogram("folio.invoice.line_items"),

		PaymentRecorded: factory.Counter("folio.payment.recorded"),
		PaymentAmount:   factory.Histogram("folio.payment.amount"),
		PartialPayments: factory.Counter("folio.payment.partial"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ any) error {
	return nil
}

// ──────────────────────────────────────────────────
// Invoice lifecycle hooks
// ──────────────────────────────────────────────────

// OnInvoiceCreated implements plugin.OnInvoiceCreated.
func (m *MetricsExtension) OnInvoiceCreated(_ context.Context, inv *invoice.Invoice) error {
	m.InvoiceCreated.Inc()
	m.InvoiceTotal.Observe(inv.Total.Decimal().InexactFloat64())
	m.InvoiceLineItems.Observe(float64(len(inv.Items)))
	return nil
}

// OnInvoiceUpdated implements plugin.OnInvoiceUpdated.
func (m *MetricsExtension) OnInvoiceUpdated(_ context.Context, _, _ *invoice.Invoice) error {
	m.InvoiceUpdated.Inc()
	return nil
}

// OnInvoiceDeleted implements plugin.OnInvoiceDeleted.
func (m *MetricsExtension) OnInvoiceDeleted(_ context.Context, _ id.InvoiceID) error {
	m.InvoiceDeleted.Inc()
	return nil
}

// OnInvoiceDuplicated implements plugin.OnInvoiceDuplicated.
func (m *MetricsExtension) OnInvoiceDuplicated(_ context.Context, _, _ *invoice.Invoice) error {
	m.InvoiceDuplicated.Inc()
	return nil
}

// OnInvoiceSent implements plugin.OnInvoiceSent.
func (m *MetricsExtension) OnInvoiceSent(_ context.Context, _ *invoice.Invoice, _ *delivery.Acknowledgment) error {
	m.InvoiceSent.Inc()
	return nil
}

// OnInvoiceCancelled implements plugin.OnInvoiceCancelled.
func (m *MetricsExtension) OnInvoiceCancelled(_ context.Context, _ *invoice.Invoice) error {
	m.InvoiceCancelled.Inc()
	return nil
}

// OnInvoiceOverdue implements plugin.OnInvoiceOverdue.
func (m *MetricsExtension) OnInvoiceOverdue(_ context.Context, _ *invoice.Invoice) error {
	m.InvoiceOverdue.Inc()
	return nil
}

// OnInvoicePaid implements plugin.OnInvoicePaid.
func (m *MetricsExtension) OnInvoicePaid(_ context.Context, _ *invoice.Invoice) error {
	m.InvoicePaid.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Payment hooks
// ──────────────────────────────────────────────────

// OnPaymentRecorded implements plugin.OnPaymentRecorded.
func (m *MetricsExtension) OnPaymentRecorded(_ context.Context, inv *invoice.Invoice, p invoice.Payment) error {
	m.PaymentRecorded.Inc()
	m.PaymentAmount.Observe(p.Amount.Decimal().InexactFloat64())
	if inv.BalanceDue.IsPositive() {
		m.PartialPayments.Inc()
	}
	return nil
}
