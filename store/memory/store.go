// Package memory is an in-process Store. Records are deep-copied on the way
// in and out, so callers can never mutate stored state in place.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/xraph/folio"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	invoices map[string]*invoice.Invoice
	sequence int64
	closed   bool
}

func New() *Store {
	return &Store{
		invoices: make(map[string]*invoice.Invoice),
	}
}

func (s *Store) Create(_ context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return folio.ErrStoreClosed
	}
	if _, exists := s.invoices[inv.ID.String()]; exists {
		return errors.Wrapf(folio.ErrAlreadyExists, "invoice %s", inv.ID)
	}
	s.invoices[inv.ID.String()] = inv.Clone()
	return nil
}

func (s *Store) Get(_ context.Context, invID id.InvoiceID) (*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, folio.ErrStoreClosed
	}
	if inv, ok := s.invoices[invID.String()]; ok {
		return inv.Clone(), nil
	}
	return nil, &folio.NotFoundError{Kind: "invoice", ID: invID.String()}
}

// List returns matching invoices in creation order.
func (s *Store) List(_ context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, folio.ErrStoreClosed
	}

	result := lo.Filter(lo.Values(s.invoices), func(inv *invoice.Invoice, _ int) bool {
		if len(opts.Statuses) > 0 && !lo.Contains(opts.Statuses, inv.Status) {
			return false
		}
		if opts.ClientID != "" && inv.ClientID != opts.ClientID {
			return false
		}
		return opts.ProjectID == "" || inv.ProjectID == opts.ProjectID
	})
	slices.SortFunc(result, func(a, b *invoice.Invoice) int {
		return a.ID.Compare(b.ID)
	})

	// Apply limit/offset
	start := opts.Offset
	if start > len(result) {
		start = len(result)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}

	return lo.Map(result[start:end], func(inv *invoice.Invoice, _ int) *invoice.Invoice {
		return inv.Clone()
	}), nil
}

func (s *Store) Update(_ context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return folio.ErrStoreClosed
	}
	if _, exists := s.invoices[inv.ID.String()]; !exists {
		return &folio.NotFoundError{Kind: "invoice", ID: inv.ID.String()}
	}
	s.invoices[inv.ID.String()] = inv.Clone()
	return nil
}

func (s *Store) Delete(_ context.Context, invID id.InvoiceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return folio.ErrStoreClosed
	}
	if _, exists := s.invoices[invID.String()]; !exists {
		return &folio.NotFoundError{Kind: "invoice", ID: invID.String()}
	}
	delete(s.invoices, invID.String())
	return nil
}

func (s *Store) NextNumber(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, folio.ErrStoreClosed
	}
	s.sequence++
	return s.sequence, nil
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return folio.ErrStoreClosed
	}
	return nil
}

// Close marks the store closed. Every later call fails with
// folio.ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
