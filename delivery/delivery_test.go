package delivery

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/folio/id"
	"github.com/xraph/folio/types"
)

var fixedNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func testMessage() Message {
	return Message{
		InvoiceID:     id.NewInvoiceID(),
		InvoiceNumber: "INV-2024-001",
		To:            "billing@acme.test",
		CC:            []string{"ops@acme.test", "ops@acme.test"},
		Subject:       "Invoice INV-2024-001",
		BalanceDue:    types.USD(22000),
	}
}

func TestMockSenderAcknowledges(t *testing.T) {
	s := NewMockSender(WithClock(func() time.Time { return fixedNow }))

	ack, err := s.Send(context.Background(), testMessage())
	require.NoError(t, err)

	assert.True(t, ack.Accepted)
	assert.Equal(t, "mock", ack.Provider)
	assert.Equal(t, "billing@acme.test", ack.To)
	assert.Equal(t, []string{"ops@acme.test"}, ack.CC)
	assert.Equal(t, fixedNow, ack.SentAt)
	assert.Equal(t, id.PrefixMessage, ack.ID.Prefix())

	sent := s.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "INV-2024-001", sent[0].InvoiceNumber)
}

func TestMockSenderRejectsMissingRecipient(t *testing.T) {
	s := NewMockSender()
	msg := testMessage()
	msg.To = ""

	_, err := s.Send(context.Background(), msg)
	assert.ErrorIs(t, err, ErrNoRecipient)
	assert.Empty(t, s.Sent())
}

func TestMockSenderFailure(t *testing.T) {
	boom := errors.New("smtp down")
	s := NewMockSender(WithFailure(boom))

	_, err := s.Send(context.Background(), testMessage())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "INV-2024-001")
	assert.Empty(t, s.Sent())
}

func TestMockSenderDelayHonorsContext(t *testing.T) {
	s := NewMockSender(WithDelay(time.Minute))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Send(ctx, testMessage())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockSenderReset(t *testing.T) {
	s := NewMockSender()
	_, err := s.Send(context.Background(), testMessage())
	require.NoError(t, err)

	s.Reset()
	assert.Empty(t, s.Sent())
}
