package invoice

import (
	"context"

	"github.com/xraph/folio/id"
)

// Store persists invoices together with their payments.
type Store interface {
	Create(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, invID id.InvoiceID) (*Invoice, error)
	List(ctx context.Context, opts ListOpts) ([]*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, invID id.InvoiceID) error
	// NextNumber returns the next value of the invoice-number sequence.
	// Values start at 1 and are never reused, even after deletes.
	NextNumber(ctx context.Context) (int64, error)
}

// ListOpts filters List. Zero values match everything.
type ListOpts struct {
	Statuses  []Status
	ClientID  string
	ProjectID string
	Limit     int
	Offset    int
}
