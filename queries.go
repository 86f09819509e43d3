package folio

import (
	"context"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/xraph/folio/directory"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/types"
)

// ListFilter narrows GetAll. Statuses are matched after status
// resolution, so an invoice that became overdue today matches "overdue".
type ListFilter struct {
	Statuses  []invoice.Status
	ClientID  string
	ProjectID string
}

// DashboardStats summarizes the ledger. Money totals are per currency;
// currencies are never converted.
type DashboardStats struct {
	TotalOutstanding map[types.Currency]types.Money `json:"total_outstanding"`
	TotalPaid        map[types.Currency]types.Money `json:"total_paid"`
	OverdueCount     int                            `json:"overdue_count"`
	Recent           []*invoice.Invoice             `json:"recent"`
}

// Detail is an invoice with its client and project resolved for display.
// Client and Project are nil when the directory does not know the id.
type Detail struct {
	Invoice *invoice.Invoice   `json:"invoice"`
	Client  *directory.Client  `json:"client,omitempty"`
	Project *directory.Project `json:"project,omitempty"`
}

// GetByID returns an invoice with its status resolved for now.
func (f *Folio) GetByID(ctx context.Context, invID id.InvoiceID) (*invoice.Invoice, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	inv, err := f.store.Get(ctx, invID)
	if err != nil {
		return nil, err
	}
	return f.settle(ctx, inv, f.now())
}

// GetDetail returns an invoice together with its client and project.
func (f *Folio) GetDetail(ctx context.Context, invID id.InvoiceID) (*Detail, error) {
	inv, err := f.GetByID(ctx, invID)
	if err != nil {
		return nil, err
	}

	client, err := f.directory.Client(ctx, inv.ClientID)
	if err != nil {
		return nil, errors.Wrapf(err, "folio: look up client %s", inv.ClientID)
	}
	d := &Detail{Invoice: inv, Client: client}
	if inv.ProjectID != "" {
		if d.Project, err = f.directory.Project(ctx, inv.ProjectID); err != nil {
			return nil, errors.Wrapf(err, "folio: look up project %s", inv.ProjectID)
		}
	}
	return d, nil
}

// GetAll returns every matching invoice, newest issue date first.
func (f *Folio) GetAll(ctx context.Context, filter ListFilter) ([]*invoice.Invoice, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	all, err := f.listResolved(ctx, invoice.ListOpts{ClientID: filter.ClientID, ProjectID: filter.ProjectID})
	if err != nil {
		return nil, err
	}

	if len(filter.Statuses) > 0 {
		all = lo.Filter(all, func(inv *invoice.Invoice, _ int) bool {
			return lo.Contains(filter.Statuses, inv.Status)
		})
	}
	slices.SortFunc(all, func(a, b *invoice.Invoice) int {
		if c := b.IssueDate.Compare(a.IssueDate); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return b.ID.Compare(a.ID)
	})
	return all, nil
}

// GetOutstanding returns invoices awaiting payment (sent, viewed or
// overdue), earliest due date first. Ties go to the older invoice.
func (f *Folio) GetOutstanding(ctx context.Context) ([]*invoice.Invoice, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	all, err := f.listResolved(ctx, invoice.ListOpts{})
	if err != nil {
		return nil, err
	}

	out := lo.Filter(all, func(inv *invoice.Invoice, _ int) bool {
		return outstanding(inv.Status)
	})
	slices.SortFunc(out, func(a, b *invoice.Invoice) int {
		if c := a.DueDate.Compare(b.DueDate); c != 0 {
			return c
		}
		return a.ID.Compare(b.ID)
	})
	return out, nil
}

// GetDashboardStats aggregates balances across all invoices.
func (f *Folio) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	all, err := f.listResolved(ctx, invoice.ListOpts{})
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalOutstanding: make(map[types.Currency]types.Money),
		TotalPaid:        make(map[types.Currency]types.Money),
	}
	for _, inv := range all {
		switch inv.Status {
		case invoice.StatusPaid:
			stats.TotalPaid[inv.Currency] = addTo(stats.TotalPaid, inv.Total)
		case invoice.StatusCancelled:
		default:
			stats.TotalOutstanding[inv.Currency] = addTo(stats.TotalOutstanding, inv.BalanceDue)
			if inv.Status == invoice.StatusOverdue {
				stats.OverdueCount++
			}
		}
	}

	slices.SortFunc(all, func(a, b *invoice.Invoice) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return b.ID.Compare(a.ID)
	})
	stats.Recent = lo.Subset(all, 0, uint(f.dashboardRecent))
	return stats, nil
}

func outstanding(s invoice.Status) bool {
	return s == invoice.StatusSent || s == invoice.StatusViewed || s == invoice.StatusOverdue
}

func addTo(totals map[types.Currency]types.Money, m types.Money) types.Money {
	cur, ok := totals[m.Currency]
	if !ok {
		return m
	}
	return cur.Add(m)
}

// listResolved loads invoices and resolves each one for a single instant.
func (f *Folio) listResolved(ctx context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	list, err := f.store.List(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "folio: list invoices")
	}

	now := f.now()
	out := make([]*invoice.Invoice, 0, len(list))
	for _, inv := range list {
		settled, err := f.settle(ctx, inv, now)
		if IsNotFound(err) {
			continue // deleted since the list was taken
		}
		if err != nil {
			return nil, err
		}
		out = append(out, settled)
	}
	return out, nil
}

// settle resolves inv for now and persists the result when the status
// moved. The write happens under the invoice lock against a fresh copy so
// it never overwrites a concurrent mutation.
func (f *Folio) settle(ctx context.Context, inv *invoice.Invoice, now time.Time) (*invoice.Invoice, error) {
	if !invoice.Resolve(inv.Clone(), now) {
		return inv, nil
	}

	unlock := f.locks.Lock(inv.ID.String())
	defer unlock()

	fresh, err := f.store.Get(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	before := fresh.Status
	if !invoice.Resolve(fresh, now) {
		return fresh, nil
	}
	if err := f.store.Update(ctx, fresh); err != nil {
		return nil, errors.Wrapf(err, "folio: persist status of invoice %s", inv.ID)
	}

	f.logger.Debug("invoice status resolved",
		"invoice_id", fresh.ID.String(),
		"invoice_number", fresh.InvoiceNumber,
		"from", before,
		"status", fresh.Status,
	)
	f.emitStatus(ctx, before, fresh)
	return fresh, nil
}
