// Package audithook bridges Folio invoice events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not depend on
// any particular audit store. Callers inject a RecorderFunc adapter at
// wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/xraph/folio/delivery"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/plugin"
	"github.com/xraph/folio/types"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin              = (*Extension)(nil)
	_ plugin.OnInvoiceCreated    = (*Extension)(nil)
	_ plugin.OnInvoiceUpdated    = (*Extension)(nil)
	_ plugin.OnInvoiceDeleted    = (*Extension)(nil)
	_ plugin.OnInvoiceDuplicated = (*Extension)(nil)
	_ plugin.OnInvoiceSent       = (*Extension)(nil)
	_ plugin.OnInvoiceCancelled  = (*Extension)(nil)
	_ plugin.OnInvoiceOverdue    = (*Extension)(nil)
	_ plugin.OnInvoicePaid       = (*Extension)(nil)
	_ plugin.OnPaymentRecorded   = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a single audit trail entry.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges invoice lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Invoice lifecycle hooks
// ──────────────────────────────────────────────────

// OnInvoiceCreated implements plugin.OnInvoiceCreated.
func (e *Extension) OnInvoiceCreated(ctx context.Context, inv *invoice.Invoice) error {
	return e.record(ctx, ActionInvoiceCreated, SeverityInfo, OutcomeSuccess,
		ResourceInvoice, inv.ID.String(), CategoryBilling,
		"invoice_number", inv.InvoiceNumber,
		"client_id", inv.ClientID,
		"total", inv.Total.String(),
	)
}

// OnInvoiceUpdated implements plugin.OnInvoiceUpdated.
func (e *Extension) OnInvoiceUpdated(ctx context.Context, before, after *invoice.Invoice) error {
	kv := []any{"invoice_number", after.InvoiceNumber}
	if before.Status != after.Status {
		kv = append(kv, "status_from", string(before.Status), "status_to", string(after.Status))
	}
	if !before.Total.Equal(after.Total) {
		kv = append(kv, "total_from", before.Total.String(), "total_to", after.Total.String())
	}
	return e.record(ctx, ActionInvoiceUpdated, SeverityInfo, OutcomeSuccess,
		ResourceInvoice, after.ID.String(), CategoryBilling,
		kv...,
	)
}

// OnInvoiceDeleted implements plugin.OnInvoiceDeleted.
func (e *Extension) OnInvoiceDeleted(ctx context.Context, invID id.InvoiceID) error {
	return e.record(ctx, ActionInvoiceDeleted, SeverityWarning, OutcomeSuccess,
		ResourceInvoice, invID.String(), CategoryBilling,
	)
}

// OnInvoiceDuplicated implements plugin.OnInvoiceDuplicated.
func (e *Extension) OnInvoiceDuplicated(ctx context.Context, src, dup *invoice.Invoice) error {
	return e.record(ctx, ActionInvoiceDuplicated, SeverityInfo, OutcomeSuccess,
		ResourceInvoice, dup.ID.String(), CategoryBilling,
		"invoice_number", dup.InvoiceNumber,
		"source_id", src.ID.String(),
		"source_number", src.InvoiceNumber,
	)
}

// OnInvoiceSent implements plugin.OnInvoiceSent.
func (e *Extension) OnInvoiceSent(ctx context.Context, inv *invoice.Invoice, ack *delivery.Acknowledgment) error {
	kv := []any{"invoice_number", inv.InvoiceNumber}
	if ack != nil {
		kv = append(kv, "message_id", ack.ID.String(), "to", ack.To, "provider", ack.Provider)
	}
	return e.record(ctx, ActionInvoiceSent, SeverityInfo, OutcomeSuccess,
		ResourceInvoice, inv.ID.String(), CategoryDelivery,
		kv...,
	)
}

// OnInvoiceCancelled implements plugin.OnInvoiceCancelled.
func (e *Extension) OnInvoiceCancelled(ctx context.Context, inv *invoice.Invoice) error {
	return e.record(ctx, ActionInvoiceCancelled, SeverityWarning, OutcomeSuccess,
		ResourceInvoice, inv.ID.String(), CategoryBilling,
		"invoice_number", inv.InvoiceNumber,
		"balance_due", inv.BalanceDue.String(),
	)
}

// OnInvoiceOverdue implements plugin.OnInvoiceOverdue.
func (e *Extension) OnInvoiceOverdue(ctx context.Context, inv *invoice.Invoice) error {
	return e.record(ctx, ActionInvoiceOverdue, SeverityWarning, OutcomeSuccess,
		ResourceInvoice, inv.ID.String(), CategoryPayment,
		"invoice_number", inv.InvoiceNumber,
		"due_date", inv.DueDate.Format(types.DateLayout),
		"balance_due", inv.BalanceDue.String(),
	)
}

// OnInvoicePaid implements plugin.OnInvoicePaid.
func (e *Extension) OnInvoicePaid(ctx context.Context, inv *invoice.Invoice) error {
	kv := []any{"invoice_number", inv.InvoiceNumber, "total", inv.Total.String()}
	if inv.PaidDate != nil {
		kv = append(kv, "paid_date", inv.PaidDate.Format(types.DateLayout))
	}
	return e.record(ctx, ActionInvoicePaid, SeverityInfo, OutcomeSuccess,
		ResourceInvoice, inv.ID.String(), CategoryPayment,
		kv...,
	)
}

// ──────────────────────────────────────────────────
// Payment hooks
// ──────────────────────────────────────────────────

// OnPaymentRecorded implements plugin.OnPaymentRecorded.
func (e *Extension) OnPaymentRecorded(ctx context.Context, inv *invoice.Invoice, p invoice.Payment) error {
	return e.record(ctx, ActionPaymentRecorded, SeverityInfo, OutcomeSuccess,
		ResourcePayment, p.ID.String(), CategoryPayment,
		"invoice_id", inv.ID.String(),
		"amount", p.Amount.String(),
		"method", string(p.Method),
		"reference", lo.Ternary(p.Reference == "", "-", p.Reference),
		"balance_due", inv.BalanceDue.String(),
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
