package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/folio/types"
)

var now = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

func invoiceFixture(status Status, due string, total, paid int64) *Invoice {
	return &Invoice{
		Status:     status,
		IssueDate:  types.MustDate("2024-01-01"),
		DueDate:    types.MustDate(due),
		Currency:   types.CurrencyUSD,
		Total:      types.USD(total),
		AmountPaid: types.USD(paid),
		BalanceDue: types.USD(total - paid),
	}
}

func TestCanTransition(t *testing.T) {
	allowed := [][2]Status{
		{StatusDraft, StatusSent},
		{StatusDraft, StatusCancelled},
		{StatusSent, StatusViewed},
		{StatusSent, StatusOverdue},
		{StatusSent, StatusPaid},
		{StatusViewed, StatusPaid},
		{StatusOverdue, StatusPaid},
		{StatusOverdue, StatusCancelled},
		{StatusPaid, StatusPaid},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}

	denied := [][2]Status{
		{StatusDraft, StatusPaid},
		{StatusDraft, StatusViewed},
		{StatusSent, StatusDraft},
		{StatusViewed, StatusSent},
		{StatusPaid, StatusCancelled},
		{StatusPaid, StatusDraft},
		{StatusCancelled, StatusDraft},
		{StatusCancelled, StatusSent},
	}
	for _, tr := range denied {
		assert.False(t, CanTransition(tr[0], tr[1]), "%s -> %s", tr[0], tr[1])
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		inv     *Invoice
		want    Status
		changed bool
	}{
		{"draft past due stays draft", invoiceFixture(StatusDraft, "2024-01-01", 100, 0), StatusDraft, false},
		{"sent past due becomes overdue", invoiceFixture(StatusSent, "2024-01-14", 100, 0), StatusOverdue, true},
		{"sent due today is not overdue", invoiceFixture(StatusSent, "2024-01-15", 100, 0), StatusSent, false},
		{"viewed past due stays viewed", invoiceFixture(StatusViewed, "2024-01-01", 100, 0), StatusViewed, false},
		{"covered sent becomes paid", invoiceFixture(StatusSent, "2024-02-01", 100, 100), StatusPaid, true},
		{"covered overdue becomes paid", invoiceFixture(StatusOverdue, "2024-01-01", 100, 100), StatusPaid, true},
		{"covered draft becomes paid", invoiceFixture(StatusDraft, "2024-02-01", 100, 100), StatusPaid, true},
		{"partially paid overdue stays overdue", invoiceFixture(StatusOverdue, "2024-01-01", 100, 40), StatusOverdue, false},
		{"zero total unpaid draft stays draft", invoiceFixture(StatusDraft, "2024-02-01", 0, 0), StatusDraft, false},
		{"cancelled is terminal", invoiceFixture(StatusCancelled, "2024-01-01", 100, 100), StatusCancelled, false},
		{"paid is terminal", invoiceFixture(StatusPaid, "2024-01-01", 100, 100), StatusPaid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed := Resolve(tt.inv, now)
			assert.Equal(t, tt.changed, changed)
			assert.Equal(t, tt.want, tt.inv.Status)

			assert.False(t, Resolve(tt.inv, now), "resolving twice changes nothing")
			assert.Equal(t, tt.want, tt.inv.Status)
		})
	}
}

func TestResolveSetsPaidDate(t *testing.T) {
	inv := invoiceFixture(StatusSent, "2024-02-01", 100, 100)
	require.True(t, Resolve(inv, now))
	require.NotNil(t, inv.PaidDate)
	assert.Equal(t, types.MustDate("2024-01-15"), *inv.PaidDate)

	earlier := types.MustDate("2024-01-10")
	inv = invoiceFixture(StatusSent, "2024-02-01", 100, 100)
	inv.PaidDate = &earlier
	Resolve(inv, now)
	assert.Equal(t, earlier, *inv.PaidDate)
}

func TestResolveOverdueThenPaid(t *testing.T) {
	inv := invoiceFixture(StatusSent, "2024-01-01", 100, 100)
	require.True(t, Resolve(inv, now))
	assert.Equal(t, StatusPaid, inv.Status)
}

func TestStatusHelpers(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.Valid())
	}
	assert.False(t, Status("archived").Valid())
	assert.True(t, StatusPaid.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusOverdue.Terminal())

	assert.Equal(t, types.MustDate("2024-01-31"), TermsNet30.DueDate(types.MustDate("2024-01-01")))
	assert.Equal(t, types.MustDate("2024-01-01"), TermsDueOnReceipt.DueDate(types.MustDate("2024-01-01")))
	assert.False(t, PaymentTerms("net_90").Valid())
}
