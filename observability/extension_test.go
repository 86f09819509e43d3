package observability

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/folio/id"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/types"
)

type fakeMetric struct {
	mu       sync.Mutex
	count    float64
	observed []float64
}

func (f *fakeMetric) Inc()              { f.Add(1) }
func (f *fakeMetric) Add(v float64)     { f.mu.Lock(); f.count += v; f.mu.Unlock() }
func (f *fakeMetric) Observe(v float64) { f.mu.Lock(); f.observed = append(f.observed, v); f.mu.Unlock() }

type fakeFactory struct {
	metrics map[string]*fakeMetric
}

func newFakeFactory() *fakeFactory {
	return &fakeFactory{metrics: make(map[string]*fakeMetric)}
}

func (f *fakeFactory) get(name string) *fakeMetric {
	if m, ok := f.metrics[name]; ok {
		return m
	}
	m := &fakeMetric{}
	f.metrics[name] = m
	return m
}

func (f *fakeFactory) Counter(name string) Counter     { return f.get(name) }
func (f *fakeFactory) Histogram(name string) Histogram { return f.get(name) }

func TestInvoiceCounters(t *testing.T) {
	ctx := context.Background()
	f := newFakeFactory()
	m := NewMetricsExtension(f)

	inv := &invoice.Invoice{
		ID:       id.NewInvoiceID(),
		Currency: types.CurrencyUSD,
		Items:    []invoice.LineItem{{Description: "a"}, {Description: "b"}},
		Total:    types.USD(22050),
	}

	require.NoError(t, m.OnInvoiceCreated(ctx, inv))
	require.NoError(t, m.OnInvoiceSent(ctx, inv, nil))
	require.NoError(t, m.OnInvoiceOverdue(ctx, inv))
	require.NoError(t, m.OnInvoiceDeleted(ctx, inv.ID))

	assert.Equal(t, float64(1), f.metrics["folio.invoice.created"].count)
	assert.Equal(t, float64(1), f.metrics["folio.invoice.sent"].count)
	assert.Equal(t, float64(1), f.metrics["folio.invoice.overdue"].count)
	assert.Equal(t, float64(1), f.metrics["folio.invoice.deleted"].count)
	assert.Equal(t, []float64{220.5}, f.metrics["folio.invoice.total_amount"].observed)
	assert.Equal(t, []float64{2}, f.metrics["folio.invoice.line_items"].observed)
	assert.Zero(t, f.metrics["folio.invoice.paid"].count)
}

func TestPaymentMetrics(t *testing.T) {
	ctx := context.Background()
	f := newFakeFactory()
	m := NewMetricsExtension(f)

	inv := &invoice.Invoice{Currency: types.CurrencyEUR, BalanceDue: types.EUR(1000)}
	require.NoError(t, m.OnPaymentRecorded(ctx, inv, invoice.Payment{Amount: types.EUR(5000)}))

	inv.BalanceDue = types.EUR(0)
	require.NoError(t, m.OnPaymentRecorded(ctx, inv, invoice.Payment{Amount: types.EUR(1000)}))

	assert.Equal(t, float64(2), f.metrics["folio.payment.recorded"].count)
	assert.Equal(t, float64(1), f.metrics["folio.payment.partial"].count)
	assert.Equal(t, []float64{50, 10}, f.metrics["folio.payment.amount"].observed)
}
