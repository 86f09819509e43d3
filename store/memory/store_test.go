package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/folio"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/store/memory"
	"github.com/xraph/folio/types"
)

func newInvoice(client, project string, status invoice.Status) *invoice.Invoice {
	return &invoice.Invoice{
		Entity:     types.NewEntity(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)),
		ID:         id.NewInvoiceID(),
		ClientID:   client,
		ProjectID:  project,
		Status:     status,
		Currency:   types.CurrencyUSD,
		Total:      types.USD(1000),
		AmountPaid: types.USD(0),
		BalanceDue: types.USD(1000),
		Items:      []invoice.LineItem{},
		Payments:   []invoice.Payment{},
	}
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	inv := newInvoice("c1", "", invoice.StatusDraft)
	require.NoError(t, s.Create(ctx, inv))
	assert.ErrorIs(t, s.Create(ctx, inv), folio.ErrAlreadyExists)

	got, err := s.Get(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv, got)

	got.Notes = "edited"
	again, err := s.Get(ctx, inv.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Notes, "returned copies are detached")

	require.NoError(t, s.Update(ctx, got))
	again, err = s.Get(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", again.Notes)

	require.NoError(t, s.Delete(ctx, inv.ID))
	_, err = s.Get(ctx, inv.ID)
	assert.ErrorIs(t, err, folio.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, inv.ID), folio.ErrNotFound)
	assert.ErrorIs(t, s.Update(ctx, inv), folio.ErrNotFound)
}

func TestStoreList(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	a := newInvoice("c1", "p1", invoice.StatusDraft)
	b := newInvoice("c1", "p2", invoice.StatusSent)
	c := newInvoice("c2", "p3", invoice.StatusPaid)
	for _, inv := range []*invoice.Invoice{a, b, c} {
		require.NoError(t, s.Create(ctx, inv))
	}

	all, err := s.List(ctx, invoice.ListOpts{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.Negative(t, all[i-1].ID.Compare(all[i].ID))
	}

	byClient, err := s.List(ctx, invoice.ListOpts{ClientID: "c1"})
	require.NoError(t, err)
	assert.Len(t, byClient, 2)

	byProject, err := s.List(ctx, invoice.ListOpts{ProjectID: "p3"})
	require.NoError(t, err)
	require.Len(t, byProject, 1)
	assert.Equal(t, c.ID, byProject[0].ID)

	byStatus, err := s.List(ctx, invoice.ListOpts{Statuses: []invoice.Status{invoice.StatusDraft, invoice.StatusSent}})
	require.NoError(t, err)
	assert.Len(t, byStatus, 2)

	page, err := s.List(ctx, invoice.ListOpts{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, all[1].ID, page[0].ID)

	past, err := s.List(ctx, invoice.ListOpts{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestStoreNextNumberIsUnique(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	p := pool.NewWithResults[int64]().WithErrors()
	for range 100 {
		p.Go(func() (int64, error) { return s.NextNumber(ctx) })
	}
	seqs, err := p.Wait()
	require.NoError(t, err)

	seen := make(map[int64]bool, len(seqs))
	for _, n := range seqs {
		assert.False(t, seen[n], "sequence %d handed out twice", n)
		seen[n] = true
	}
	assert.Len(t, seen, 100)
	assert.True(t, seen[1])
	assert.True(t, seen[100])
}

func TestStoreClosed(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Ping(ctx), folio.ErrStoreClosed)
	assert.ErrorIs(t, s.Create(ctx, newInvoice("c1", "", invoice.StatusDraft)), folio.ErrStoreClosed)
	_, err := s.Get(ctx, id.NewInvoiceID())
	assert.ErrorIs(t, err, folio.ErrStoreClosed)
	_, err = s.List(ctx, invoice.ListOpts{})
	assert.ErrorIs(t, err, folio.ErrStoreClosed)
	_, err = s.NextNumber(ctx)
	assert.ErrorIs(t, err, folio.ErrStoreClosed)
}
