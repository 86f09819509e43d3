// Package folio provides an invoice lifecycle and payment ledger engine for
// Go applications.
//
// Folio is designed as a library, not a service. Import it directly into
// your Go application. It provides:
//
//   - Invoice creation with sequential numbering and exact money totals
//   - A status lifecycle (draft, sent, viewed, overdue, paid, cancelled)
//     resolved against an injectable clock
//   - Append-only payments that can never overpay an invoice
//   - Delivery through a pluggable Sender
//   - Outstanding and dashboard queries with per-currency totals
//   - Lifecycle hooks for audit trails and metrics
//
// # Quick Start
//
//	import (
//	    "github.com/xraph/folio"
//	    "github.com/xraph/folio/invoice"
//	    "github.com/xraph/folio/store/memory"
//	)
//
//	f := folio.New(memory.New())
//	if err := f.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Stop()
//
//	inv, err := f.Create(ctx, invoice.CreateInput{
//	    ClientID: "client_acme",
//	    Items: []invoice.LineItem{
//	        {Description: "Design", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(100)},
//	    },
//	    TaxRate: decimal.NewFromInt(10),
//	})
//
// # Status
//
// Status is never trusted as stored. Every read and every mutation first
// resolves it for the current instant: a sent invoice past its due date
// becomes overdue, and an invoice whose payments cover its total becomes
// paid. Paid and cancelled are terminal.
//
// Once an invoice leaves draft only its status may change; every other
// edit is rejected with an EditLockedError.
//
// # Money
//
// Amounts are int64 minor units tagged with a currency. Each line, the
// discount and the tax are rounded half away from zero exactly once, and
// the total is assembled from the rounded parts, so
// Total == Subtotal - Discount + Tax and BalanceDue == Total - AmountPaid
// always hold.
//
// # Errors
//
// Rejections are typed: ValidationError, EditLockedError,
// DeleteBlockedError, StateConflictError and NotFoundError. Each matches
// its sentinel with errors.Is. A rejected operation never changes the
// stored invoice.
//
// # TypeID
//
// Invoices, payments and delivery messages use TypeIDs:
//
//	inv_01h455vb4pex5vsknk084sn02q   // Invoice ID
//	pay_01h455vb4pex5vsknk084sn02q   // Payment ID
//	msg_01h455vb4pex5vsknk084sn02q   // Message ID
package folio
