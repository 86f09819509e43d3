// Package delivery hands rendered invoices to an outbound transport. Only a
// mock transport ships with Folio; it acknowledges without sending
// anything.
package delivery

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/xraph/folio/id"
	"github.com/xraph/folio/types"
)

// ErrNoRecipient is returned when a message has no To address.
var ErrNoRecipient = errors.New("delivery: message has no recipient")

// Message is an invoice email ready for transport.
type Message struct {
	InvoiceID     id.InvoiceID `json:"invoice_id"`
	InvoiceNumber string       `json:"invoice_number"`
	To            string       `json:"to"`
	CC            []string     `json:"cc,omitempty"`
	Subject       string       `json:"subject"`
	Body          string       `json:"body"`
	BalanceDue    types.Money  `json:"balance_due"`
	DueDate       time.Time    `json:"due_date"`
}

// Acknowledgment confirms a transport accepted a message.
type Acknowledgment struct {
	ID       id.MessageID `json:"id"`
	To       string       `json:"to"`
	CC       []string     `json:"cc,omitempty"`
	Accepted bool         `json:"accepted"`
	Provider string       `json:"provider"`
	SentAt   time.Time    `json:"sent_at"`
}

// Sender delivers invoice messages.
type Sender interface {
	Send(ctx context.Context, msg Message) (*Acknowledgment, error)
}

// MockSender records every message and acknowledges it immediately.
type MockSender struct {
	mu    sync.Mutex
	sent  []Message
	now   func() time.Time
	fail  error
	delay time.Duration
}

// MockOption configures a MockSender.
type MockOption func(*MockSender)

// WithClock sets the time source used for SentAt.
func WithClock(now func() time.Time) MockOption {
	return func(m *MockSender) { m.now = now }
}

// WithFailure makes every Send return err.
func WithFailure(err error) MockOption {
	return func(m *MockSender) { m.fail = err }
}

// WithDelay simulates transport latency.
func WithDelay(d time.Duration) MockOption {
	return func(m *MockSender) { m.delay = d }
}

// NewMockSender creates a MockSender.
func NewMockSender(opts ...MockOption) *MockSender {
	m := &MockSender{now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MockSender) Send(ctx context.Context, msg Message) (*Acknowledgment, error) {
	if msg.To == "" {
		return nil, ErrNoRecipient
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.fail != nil {
		return nil, errors.Wrapf(m.fail, "delivery: send %s", msg.InvoiceNumber)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, msg)
	return &Acknowledgment{
		ID:       id.NewMessageID(),
		To:       msg.To,
		CC:       lo.Uniq(msg.CC),
		Accepted: true,
		Provider: "mock",
		SentAt:   m.now().UTC(),
	}, nil
}

// Sent returns a copy of every accepted message, oldest first.
func (m *MockSender) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}

// Reset forgets recorded messages.
func (m *MockSender) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}
