package folio

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/xraph/folio/delivery"
	"github.com/xraph/folio/directory"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/plugin"
	"github.com/xraph/folio/store"
	"github.com/xraph/folio/types"
)

// Folio is the invoice lifecycle engine. It is safe for concurrent use;
// mutations of the same invoice are serialized.
type Folio struct {
	store     store.Store
	plugins   *plugin.Registry
	logger    *slog.Logger
	sender    delivery.Sender
	directory directory.Directory
	locks     *keyedMutex
	now       func() time.Time
	latency   time.Duration

	// Configuration
	defaultCurrency  types.Currency
	defaultTerms     invoice.PaymentTerms
	duplicateDueDays int
	dashboardRecent  int
}

// New creates a new Folio instance.
func New(s store.Store, opts ...Option) *Folio {
	f := &Folio{
		store:            s,
		plugins:          plugin.NewRegistry(),
		logger:           slog.Default(),
		directory:        directory.Empty{},
		locks:            newKeyedMutex(),
		now:              time.Now,
		defaultCurrency:  types.CurrencyUSD,
		defaultTerms:     invoice.TermsNet30,
		duplicateDueDays: 30,
		dashboardRecent:  5,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.sender == nil {
		f.sender = delivery.NewMockSender(delivery.WithClock(f.now))
	}

	return f
}

// Option configures a Folio instance.
type Option func(*Folio)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Folio) {
		f.logger = logger
		f.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(f *Folio) {
		_ = f.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithClock sets the time source. Every status decision is made against
// it.
func WithClock(now func() time.Time) Option {
	return func(f *Folio) {
		f.now = now
	}
}

// WithLatency adds a simulated delay before every operation.
func WithLatency(d time.Duration) Option {
	return func(f *Folio) {
		f.latency = d
	}
}

// WithSender sets the delivery transport used by Send.
func WithSender(s delivery.Sender) Option {
	return func(f *Folio) {
		f.sender = s
	}
}

// WithDirectory sets the client/project lookup.
func WithDirectory(d directory.Directory) Option {
	return func(f *Folio) {
		f.directory = d
	}
}

// WithDefaultCurrency sets the currency for invoices created without one.
func WithDefaultCurrency(c types.Currency) Option {
	return func(f *Folio) {
		if c.Valid() {
			f.defaultCurrency = c
		}
	}
}

// WithDefaultPaymentTerms sets the terms for invoices created without any.
func WithDefaultPaymentTerms(t invoice.PaymentTerms) Option {
	return func(f *Folio) {
		if t.Valid() {
			f.defaultTerms = t
		}
	}
}

// WithDuplicateDueDays sets how far past today a duplicate is due.
func WithDuplicateDueDays(days int) Option {
	return func(f *Folio) {
		if days >= 0 {
			f.duplicateDueDays = days
		}
	}
}

// WithDashboardRecent sets how many recent invoices the dashboard lists.
func WithDashboardRecent(n int) Option {
	return func(f *Folio) {
		if n > 0 {
			f.dashboardRecent = n
		}
	}
}

// Store returns the underlying store.
func (f *Folio) Store() store.Store { return f.store }

// Plugins returns the plugin registry.
func (f *Folio) Plugins() *plugin.Registry { return f.plugins }

// Start verifies the store and initializes plugins.
func (f *Folio) Start(ctx context.Context) error {
	if f.store == nil {
		return ErrNoStore
	}
	if err := f.store.Ping(ctx); err != nil {
		return errors.Wrap(err, "folio: store unavailable")
	}

	f.plugins.EmitInit(ctx, f)

	f.logger.Info("folio started",
		"default_currency", f.defaultCurrency,
		"default_terms", f.defaultTerms,
		"plugins", f.plugins.Count(),
		"latency", f.latency,
	)

	return nil
}

// Stop shuts down plugins and closes the store.
func (f *Folio) Stop() error {
	f.plugins.EmitShutdown(context.Background())
	f.logger.Info("folio stopped")
	return f.store.Close()
}

// ──────────────────────────────────────────────────
// Lifecycle operations
// ──────────────────────────────────────────────────

// Create validates in, assigns an id and invoice number, and stores a new
// draft invoice.
func (f *Folio) Create(ctx context.Context, in invoice.CreateInput) (*invoice.Invoice, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	now := f.now()
	today := types.DateOf(now)

	if vs := invoice.ValidateInput(in); len(vs) > 0 {
		return nil, newValidationError(vs)
	}

	currency := lo.Ternary(in.Currency == "", f.defaultCurrency, in.Currency)
	terms := lo.Ternary(in.PaymentTerms == "", f.defaultTerms, in.PaymentTerms)
	issue := lo.Ternary(in.IssueDate.IsZero(), today, types.DateOf(in.IssueDate))
	due := lo.Ternary(in.DueDate.IsZero(), terms.DueDate(issue), types.DateOf(in.DueDate))
	pricing := invoice.Pricing{
		Currency:       currency,
		TaxRate:        in.TaxRate,
		DiscountAmount: in.DiscountAmount,
		DiscountType:   lo.Ternary(in.DiscountType == "", invoice.DiscountFixed, in.DiscountType),
	}

	vs := invoice.CheckPricing(in.Items, pricing)
	if due.Before(issue) {
		vs = append(vs, invoice.Violation{Field: "due_date", Message: fmt.Sprintf(
			"due date %s is before issue date %s", due.Format(types.DateLayout), issue.Format(types.DateLayout))})
	}
	if len(vs) > 0 {
		return nil, newValidationError(vs)
	}

	number, err := f.nextNumber(ctx, now)
	if err != nil {
		return nil, err
	}

	inv := &invoice.Invoice{
		Entity:             types.NewEntity(now),
		ID:                 id.NewInvoiceID(),
		InvoiceNumber:      number,
		ClientID:           in.ClientID,
		ProjectID:          in.ProjectID,
		Status:             invoice.StatusDraft,
		IssueDate:          issue,
		DueDate:            due,
		Currency:           currency,
		PaymentTerms:       terms,
		Items:              append([]invoice.LineItem{}, in.Items...),
		TaxRate:            pricing.TaxRate,
		DiscountAmount:     pricing.DiscountAmount,
		DiscountType:       pricing.DiscountType,
		AmountPaid:         types.Zero(currency),
		Notes:              in.Notes,
		TermsAndConditions: in.TermsAndConditions,
		ThankYouMessage:    in.ThankYouMessage,
		Payments:           []invoice.Payment{},
		Metadata:           in.Metadata,
	}
	inv.ApplyTotals(invoice.Calculate(inv.Items, pricing))
	invoice.Resolve(inv, now)

	if err := f.store.Create(ctx, inv); err != nil {
		return nil, errors.Wrapf(err, "folio: create invoice %s", inv.InvoiceNumber)
	}

	f.logger.Debug("invoice created",
		"invoice_id", inv.ID.String(),
		"invoice_number", inv.InvoiceNumber,
		"total", inv.Total.String(),
	)
	f.plugins.EmitInvoiceCreated(ctx, inv)
	return inv, nil
}

// Update applies a partial patch. Non-draft invoices only accept status
// changes, and those must follow the transition table.
func (f *Folio) Update(ctx context.Context, invID id.InvoiceID, patch invoice.Patch) (*invoice.Invoice, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	unlock := f.locks.Lock(invID.String())
	defer unlock()

	now := f.now()
	inv, err := f.store.Get(ctx, invID)
	if err != nil {
		return nil, err
	}
	invoice.Resolve(inv, now)
	before := inv.Clone()

	res := invoice.ValidatePatch(patch, inv)
	switch {
	case len(res.Locked) > 0:
		return nil, &EditLockedError{InvoiceID: invID.String(), Status: inv.Status, Fields: res.Locked}
	case len(res.Violations) > 0:
		return nil, newValidationError(res.Violations)
	case res.Conflict != nil:
		return nil, &StateConflictError{InvoiceID: invID.String(), Op: "update", From: res.Conflict.From, To: res.Conflict.To}
	}

	patch.Apply(inv, now)
	invoice.Resolve(inv, now)

	if err := f.store.Update(ctx, inv); err != nil {
		return nil, errors.Wrapf(err, "folio: update invoice %s", invID)
	}

	f.logger.Debug("invoice updated",
		"invoice_id", inv.ID.String(),
		"invoice_number", inv.InvoiceNumber,
		"status", inv.Status,
		"fields", patch.Fields(),
	)
	f.plugins.EmitInvoiceUpdated(ctx, before, inv)
	f.emitStatus(ctx, before.Status, inv)
	return inv, nil
}

// Delete permanently removes an invoice unless it is paid.
func (f *Folio) Delete(ctx context.Context, invID id.InvoiceID) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	unlock := f.locks.Lock(invID.String())
	defer unlock()

	inv, err := f.store.Get(ctx, invID)
	if err != nil {
		return err
	}
	invoice.Resolve(inv, f.now())
	if inv.Status == invoice.StatusPaid {
		return &DeleteBlockedError{InvoiceID: invID.String(), Status: inv.Status}
	}

	if err := f.store.Delete(ctx, invID); err != nil {
		return errors.Wrapf(err, "folio: delete invoice %s", invID)
	}

	f.logger.Debug("invoice deleted",
		"invoice_id", invID.String(),
		"invoice_number", inv.InvoiceNumber,
	)
	f.plugins.EmitInvoiceDeleted(ctx, invID)
	return nil
}

// Duplicate stores a fresh draft copy of an invoice with payment state
// reset. The source is not modified.
func (f *Folio) Duplicate(ctx context.Context, invID id.InvoiceID) (*invoice.Invoice, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	src, err := f.store.Get(ctx, invID)
	if err != nil {
		return nil, err
	}

	now := f.now()
	today := types.DateOf(now)
	number, err := f.nextNumber(ctx, now)
	if err != nil {
		return nil, err
	}

	dup := src.Clone()
	dup.Entity = types.NewEntity(now)
	dup.ID = id.NewInvoiceID()
	dup.InvoiceNumber = number
	dup.Status = invoice.StatusDraft
	dup.IssueDate = today
	dup.DueDate = types.AddDays(today, f.duplicateDueDays)
	dup.AmountPaid = types.Zero(dup.Currency)
	dup.BalanceDue = dup.Total
	dup.Payments = []invoice.Payment{}
	dup.PaidDate = nil
	dup.SentDate = nil
	invoice.Resolve(dup, now)

	if err := f.store.Create(ctx, dup); err != nil {
		return nil, errors.Wrapf(err, "folio: duplicate invoice %s", invID)
	}

	f.logger.Debug("invoice duplicated",
		"invoice_id", dup.ID.String(),
		"invoice_number", dup.InvoiceNumber,
		"source_id", src.ID.String(),
	)
	f.plugins.EmitInvoiceDuplicated(ctx, src, dup)
	return dup, nil
}

// Send delivers an invoice and marks it sent. The invoice is only changed
// once the transport acknowledged the message.
func (f *Folio) Send(ctx context.Context, invID id.InvoiceID, target invoice.EmailTarget) (*delivery.Acknowledgment, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if vs := invoice.ValidateInput(target); len(vs) > 0 {
		return nil, newValidationError(vs)
	}

	unlock := f.locks.Lock(invID.String())
	defer unlock()

	now := f.now()
	inv, err := f.store.Get(ctx, invID)
	if err != nil {
		return nil, err
	}
	invoice.Resolve(inv, now)
	if inv.Status.Terminal() {
		return nil, &StateConflictError{InvoiceID: invID.String(), Op: "send", From: inv.Status}
	}
	before := inv.Status

	msg, err := f.compose(ctx, inv, target)
	if err != nil {
		return nil, err
	}
	ack, err := f.sender.Send(ctx, msg)
	if err != nil {
		return nil, errors.Wrapf(err, "folio: deliver invoice %s", inv.InvoiceNumber)
	}

	inv.Status = invoice.StatusSent
	inv.SentDate = lo.ToPtr(types.DateOf(now))
	inv.Touch(now)
	invoice.Resolve(inv, now)

	if err := f.store.Update(ctx, inv); err != nil {
		return nil, errors.Wrapf(err, "folio: mark invoice %s sent", invID)
	}

	f.logger.Debug("invoice sent",
		"invoice_id", inv.ID.String(),
		"invoice_number", inv.InvoiceNumber,
		"to", ack.To,
		"message_id", ack.ID.String(),
	)
	f.plugins.EmitInvoiceSent(ctx, inv, ack)
	f.emitStatus(ctx, before, inv)
	return ack, nil
}

// MarkViewed records that the client opened a sent invoice.
func (f *Folio) MarkViewed(ctx context.Context, invID id.InvoiceID) (*invoice.Invoice, error) {
	return f.transition(ctx, invID, "mark viewed", invoice.StatusViewed, func(s invoice.Status) bool {
		return s == invoice.StatusSent
	})
}

// Cancel moves any unpaid invoice to cancelled. Cancelled is terminal.
func (f *Folio) Cancel(ctx context.Context, invID id.InvoiceID) (*invoice.Invoice, error) {
	return f.transition(ctx, invID, "cancel", invoice.StatusCancelled, func(s invoice.Status) bool {
		return !s.Terminal()
	})
}

func (f *Folio) transition(
	ctx context.Context,
	invID id.InvoiceID,
	op string,
	to invoice.Status,
	allowed func(invoice.Status) bool,
) (*invoice.Invoice, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	unlock := f.locks.Lock(invID.String())
	defer unlock()

	now := f.now()
	inv, err := f.store.Get(ctx, invID)
	if err != nil {
		return nil, err
	}
	invoice.Resolve(inv, now)
	if !allowed(inv.Status) {
		return nil, &StateConflictError{InvoiceID: invID.String(), Op: op, From: inv.Status, To: to}
	}

	before := inv.Clone()
	inv.Status = to
	inv.Touch(now)
	invoice.Resolve(inv, now)

	if err := f.store.Update(ctx, inv); err != nil {
		return nil, errors.Wrapf(err, "folio: %s invoice %s", op, invID)
	}

	f.logger.Debug("invoice status changed",
		"invoice_id", inv.ID.String(),
		"invoice_number", inv.InvoiceNumber,
		"from", before.Status,
		"status", inv.Status,
	)
	f.plugins.EmitInvoiceUpdated(ctx, before, inv)
	f.emitStatus(ctx, before.Status, inv)
	return inv, nil
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// wait applies the simulated latency.
func (f *Folio) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.latency <= 0 {
		return nil
	}
	select {
	case <-time.After(f.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Folio) nextNumber(ctx context.Context, now time.Time) (string, error) {
	seq, err := f.store.NextNumber(ctx)
	if err != nil {
		return "", errors.Wrap(err, "folio: allocate invoice number")
	}
	return invoice.FormatNumber(now.UTC().Year(), seq), nil
}

// compose builds the delivery message. An empty recipient falls back to
// the client's address.
func (f *Folio) compose(ctx context.Context, inv *invoice.Invoice, target invoice.EmailTarget) (delivery.Message, error) {
	client, err := f.directory.Client(ctx, inv.ClientID)
	if err != nil {
		return delivery.Message{}, errors.Wrapf(err, "folio: look up client %s", inv.ClientID)
	}

	to := target.To
	if to == "" && client != nil {
		to = client.Email
	}
	if to == "" {
		return delivery.Message{}, &ValidationError{
			Field:   "to",
			Message: fmt.Sprintf("no recipient given and client %q has no email address", inv.ClientID),
		}
	}

	subject := target.Subject
	if subject == "" {
		subject = fmt.Sprintf("Invoice %s", inv.InvoiceNumber)
	}

	var body strings.Builder
	if client != nil && client.Name != "" {
		fmt.Fprintf(&body, "Hello %s,\n\n", client.Name)
	}
	if target.Message != "" {
		body.WriteString(target.Message)
		body.WriteString("\n\n")
	}
	fmt.Fprintf(&body, "Invoice %s for %s is due on %s.\n",
		inv.InvoiceNumber, inv.BalanceDue, inv.DueDate.Format(types.DateLayout))
	if inv.ThankYouMessage != "" {
		fmt.Fprintf(&body, "\n%s\n", inv.ThankYouMessage)
	}

	return delivery.Message{
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		To:            to,
		CC:            target.CC,
		Subject:       subject,
		Body:          body.String(),
		BalanceDue:    inv.BalanceDue,
		DueDate:       inv.DueDate,
	}, nil
}

// emitStatus fires the hook for a status the invoice just entered.
func (f *Folio) emitStatus(ctx context.Context, before invoice.Status, inv *invoice.Invoice) {
	if before == inv.Status {
		return
	}
	switch inv.Status {
	case invoice.StatusOverdue:
		f.plugins.EmitInvoiceOverdue(ctx, inv)
	case invoice.StatusPaid:
		f.plugins.EmitInvoicePaid(ctx, inv)
	case invoice.StatusCancelled:
		f.plugins.EmitInvoiceCancelled(ctx, inv)
	}
}
