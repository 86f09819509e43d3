package audithook

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/folio/delivery"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/types"
)

type memRecorder struct {
	mu     sync.Mutex
	events []*AuditEvent
}

func (m *memRecorder) Record(_ context.Context, evt *AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
	return nil
}

func (m *memRecorder) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Action)
	}
	return out
}

func testInvoice() *invoice.Invoice {
	paid := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	return &invoice.Invoice{
		ID:            id.NewInvoiceID(),
		InvoiceNumber: "INV-2024-001",
		ClientID:      "client-1",
		Status:        invoice.StatusPaid,
		Currency:      types.CurrencyUSD,
		Total:         types.USD(22000),
		AmountPaid:    types.USD(22000),
		BalanceDue:    types.USD(0),
		DueDate:       paid,
		PaidDate:      &paid,
	}
}

func TestRecordsInvoiceEvents(t *testing.T) {
	ctx := context.Background()
	rec := &memRecorder{}
	ext := New(rec)
	inv := testInvoice()

	require.NoError(t, ext.OnInvoiceCreated(ctx, inv))
	require.NoError(t, ext.OnInvoicePaid(ctx, inv))
	require.NoError(t, ext.OnInvoiceSent(ctx, inv, &delivery.Acknowledgment{
		ID: id.NewMessageID(), To: "ap@acme.test", Provider: "mock", Accepted: true,
	}))
	require.NoError(t, ext.OnInvoiceDeleted(ctx, inv.ID))

	assert.Equal(t, []string{
		ActionInvoiceCreated, ActionInvoicePaid, ActionInvoiceSent, ActionInvoiceDeleted,
	}, rec.actions())

	paid := rec.events[1]
	assert.Equal(t, ResourceInvoice, paid.Resource)
	assert.Equal(t, inv.ID.String(), paid.ResourceID)
	assert.Equal(t, "2024-01-10", paid.Metadata["paid_date"])
	assert.Equal(t, "$220.00", paid.Metadata["total"])

	sent := rec.events[2]
	assert.Equal(t, CategoryDelivery, sent.Category)
	assert.Equal(t, "ap@acme.test", sent.Metadata["to"])
}

func TestRecordsPayment(t *testing.T) {
	rec := &memRecorder{}
	ext := New(rec)
	inv := testInvoice()
	p := invoice.Payment{
		ID:     id.NewPaymentID(),
		Amount: types.USD(22000),
		Method: invoice.MethodBankTransfer,
	}

	require.NoError(t, ext.OnPaymentRecorded(context.Background(), inv, p))
	require.Len(t, rec.events, 1)

	evt := rec.events[0]
	assert.Equal(t, ResourcePayment, evt.Resource)
	assert.Equal(t, p.ID.String(), evt.ResourceID)
	assert.Equal(t, "bank_transfer", evt.Metadata["method"])
	assert.Equal(t, "-", evt.Metadata["reference"])
	assert.Equal(t, inv.ID.String(), evt.Metadata["invoice_id"])
}

func TestUpdateRecordsOnlyChanges(t *testing.T) {
	rec := &memRecorder{}
	ext := New(rec)
	before := testInvoice()
	before.Status = invoice.StatusSent
	after := testInvoice()
	after.ID = before.ID

	require.NoError(t, ext.OnInvoiceUpdated(context.Background(), before, after))
	meta := rec.events[0].Metadata
	assert.Equal(t, "sent", meta["status_from"])
	assert.Equal(t, "paid", meta["status_to"])
	assert.NotContains(t, meta, "total_from")
}

func TestEnabledActionsFilter(t *testing.T) {
	rec := &memRecorder{}
	ext := New(rec, WithEnabledActions(ActionInvoicePaid))
	inv := testInvoice()

	require.NoError(t, ext.OnInvoiceCreated(context.Background(), inv))
	require.NoError(t, ext.OnInvoicePaid(context.Background(), inv))

	assert.Equal(t, []string{ActionInvoicePaid}, rec.actions())
}

func TestDisabledActionsFilter(t *testing.T) {
	rec := &memRecorder{}
	ext := New(rec, WithDisabledActions(ActionInvoiceCreated))
	inv := testInvoice()

	require.NoError(t, ext.OnInvoiceCreated(context.Background(), inv))
	require.NoError(t, ext.OnInvoiceCancelled(context.Background(), inv))

	assert.Equal(t, []string{ActionInvoiceCancelled}, rec.actions())
}

func TestRecorderFailureIsSwallowed(t *testing.T) {
	ext := New(RecorderFunc(func(context.Context, *AuditEvent) error {
		return errors.New("backend unavailable")
	}))

	assert.NoError(t, ext.OnInvoiceCreated(context.Background(), testInvoice()))
}
