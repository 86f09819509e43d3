package folio

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/xraph/folio/id"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/types"
)

// RecordPayment appends a payment to an invoice. The amount must be
// positive, expressible in the currency's minor unit, and no larger than
// the remaining balance. On any failure the invoice is left untouched.
func (f *Folio) RecordPayment(ctx context.Context, invID id.InvoiceID, in invoice.PaymentInput) (*invoice.Invoice, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if vs := invoice.ValidateInput(in); len(vs) > 0 {
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
	if inv.Status == invoice.StatusCancelled {
		return nil, &StateConflictError{InvoiceID: invID.String(), Op: "record payment on", From: inv.Status}
	}
	before := inv.Status

	amount, err := checkAmount(in, inv)
	if err != nil {
		return nil, err
	}

	date := lo.Ternary(in.Date.IsZero(), types.DateOf(now), types.DateOf(in.Date))
	payment := invoice.Payment{
		ID:        id.NewPaymentID(),
		Amount:    amount,
		Method:    lo.Ternary(in.Method == "", invoice.MethodOther, in.Method),
		Reference: in.Reference,
		Notes:     in.Notes,
		Date:      date,
		CreatedAt: now.UTC(),
	}

	inv.Payments = append(inv.Payments, payment)
	inv.AmountPaid = inv.AmountPaid.Add(amount)
	inv.BalanceDue = inv.Total.Subtract(inv.AmountPaid)
	if !inv.AmountPaid.LessThan(inv.Total) && inv.PaidDate == nil {
		inv.PaidDate = lo.ToPtr(date)
	}
	inv.Touch(now)
	invoice.Resolve(inv, now)

	if err := f.store.Update(ctx, inv); err != nil {
		return nil, errors.Wrapf(err, "folio: record payment on invoice %s", invID)
	}

	f.logger.Debug("payment recorded",
		"invoice_id", inv.ID.String(),
		"invoice_number", inv.InvoiceNumber,
		"payment_id", payment.ID.String(),
		"amount", amount.String(),
		"balance_due", inv.BalanceDue.String(),
		"status", inv.Status,
	)
	f.plugins.EmitPaymentRecorded(ctx, inv, payment)
	f.emitStatus(ctx, before, inv)
	return inv, nil
}

// checkAmount converts the payment amount to the invoice currency and
// rejects it when it is not positive or exceeds the remaining balance.
func checkAmount(in invoice.PaymentInput, inv *invoice.Invoice) (types.Money, error) {
	remaining := inv.Remaining()
	reject := func(format string, args ...any) error {
		return &ValidationError{
			Field:     "amount",
			Message:   fmt.Sprintf(format, args...),
			Remaining: &remaining,
		}
	}

	if !in.Amount.IsPositive() {
		return types.Money{}, reject("amount must be greater than zero, got %s (remaining balance %s)",
			in.Amount, remaining)
	}
	if !types.Fits(in.Amount, inv.Currency) {
		return types.Money{}, reject("amount %s exceeds the remaining balance %s",
			in.Amount, remaining)
	}
	amount := types.FromDecimal(in.Amount, inv.Currency)
	if !amount.Decimal().Equal(in.Amount) {
		return types.Money{}, reject("amount %s has more precision than %s allows",
			in.Amount, inv.Currency)
	}
	if amount.GreaterThan(remaining) {
		return types.Money{}, reject("amount %s exceeds the remaining balance %s",
			amount, remaining)
	}
	return amount, nil
}
