package invoice

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/xraph/folio/id"
	"github.com/xraph/folio/types"
)

// Status is the lifecycle state of an invoice.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusViewed    Status = "viewed"
	StatusPaid      Status = "paid"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusDraft, StatusSent, StatusViewed, StatusPaid, StatusOverdue, StatusCancelled}

// Valid reports whether s is a known status.
func (s Status) Valid() bool { return lo.Contains(Statuses, s) }

// Terminal reports whether no further transition is defined from s.
func (s Status) Terminal() bool { return s == StatusPaid || s == StatusCancelled }

// PaymentTerms determines the default due date relative to the issue date.
type PaymentTerms string

const (
	TermsDueOnReceipt PaymentTerms = "due_on_receipt"
	TermsNet15        PaymentTerms = "net_15"
	TermsNet30        PaymentTerms = "net_30"
	TermsNet60        PaymentTerms = "net_60"
)

var termDays = map[PaymentTerms]int{
	TermsDueOnReceipt: 0,
	TermsNet15:        15,
	TermsNet30:        30,
	TermsNet60:        60,
}

// Valid reports whether t is a known payment term.
func (t PaymentTerms) Valid() bool {
	_, ok := termDays[t]
	return ok
}

// Days returns the number of days between issue and due date.
func (t PaymentTerms) Days() int { return termDays[t] }

// DueDate returns the due date for an invoice issued on issued.
func (t PaymentTerms) DueDate(issued time.Time) time.Time {
	return types.AddDays(issued, t.Days())
}

// PaymentMethod is how a payment was made.
type PaymentMethod string

const (
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCheck        PaymentMethod = "check"
	MethodCash         PaymentMethod = "cash"
	MethodCard         PaymentMethod = "card"
	MethodPayPal       PaymentMethod = "paypal"
	MethodStripe       PaymentMethod = "stripe"
	MethodOther        PaymentMethod = "other"
)

// DiscountType selects how DiscountAmount is interpreted.
type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// Invoice is a financial document and the payments recorded against it.
type Invoice struct {
	types.Entity
	ID                 id.InvoiceID      `json:"id"`
	InvoiceNumber      string            `json:"invoice_number"`
	ClientID           string            `json:"client_id"`
	ProjectID          string            `json:"project_id,omitempty"`
	Status             Status            `json:"status"`
	IssueDate          time.Time         `json:"issue_date"`
	DueDate            time.Time         `json:"due_date"`
	Currency           types.Currency    `json:"currency"`
	PaymentTerms       PaymentTerms      `json:"payment_terms"`
	Items              []LineItem        `json:"items"`
	Subtotal           types.Money       `json:"subtotal"`
	TaxRate            decimal.Decimal   `json:"tax_rate"`
	TaxAmount          types.Money       `json:"tax_amount"`
	DiscountAmount     decimal.Decimal   `json:"discount_amount"`
	DiscountType       DiscountType      `json:"discount_type"`
	DiscountValue      types.Money       `json:"discount_value"`
	Total              types.Money       `json:"total"`
	AmountPaid         types.Money       `json:"amount_paid"`
	BalanceDue         types.Money       `json:"balance_due"`
	Notes              string            `json:"notes,omitempty"`
	TermsAndConditions string            `json:"terms_and_conditions,omitempty"`
	ThankYouMessage    string            `json:"thank_you_message,omitempty"`
	PaidDate           *time.Time        `json:"paid_date,omitempty"`
	SentDate           *time.Time        `json:"sent_date,omitempty"`
	Payments           []Payment         `json:"payments"`
	Metadata           map[string]string `json:"metadata,omitempty"`
}

// LineItem is a billable unit. Its total is Quantity x Rate and is never
// stored.
type LineItem struct {
	Description string          `json:"description" validate:"max=1000"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// Amount returns the line total in the given currency.
func (li LineItem) Amount(currency types.Currency) types.Money {
	return types.FromDecimal(li.Quantity.Mul(li.Rate), currency)
}

// Payment is an append-only record of money received against an invoice.
type Payment struct {
	ID        id.PaymentID  `json:"id"`
	Amount    types.Money   `json:"amount"`
	Method    PaymentMethod `json:"method"`
	Reference string        `json:"reference,omitempty"`
	Notes     string        `json:"notes,omitempty"`
	Date      time.Time     `json:"date"`
	CreatedAt time.Time     `json:"created_at"`
}

// Pricing returns the inputs the totals calculator needs.
func (inv *Invoice) Pricing() Pricing {
	return Pricing{
		Currency:       inv.Currency,
		TaxRate:        inv.TaxRate,
		DiscountAmount: inv.DiscountAmount,
		DiscountType:   inv.DiscountType,
	}
}

// ApplyTotals stores calculated totals and re-derives the balance due.
// AmountPaid is left untouched.
func (inv *Invoice) ApplyTotals(t Totals) {
	inv.Subtotal = t.Subtotal
	inv.DiscountValue = t.Discount
	inv.TaxAmount = t.Tax
	inv.Total = t.Total
	inv.BalanceDue = t.Total.Subtract(inv.AmountPaid)
}

// Remaining is the amount a new payment may still cover.
func (inv *Invoice) Remaining() types.Money {
	return inv.Total.Subtract(inv.AmountPaid)
}

// Overdue reports whether the invoice is past its due date on now's
// calendar day.
func (inv *Invoice) Overdue(now time.Time) bool {
	return types.DateOf(now).After(types.DateOf(inv.DueDate))
}

// Clone returns a deep copy. Stores hand out clones so callers can never
// mutate ledger state in place.
func (inv *Invoice) Clone() *Invoice {
	if inv == nil {
		return nil
	}
	out := *inv
	out.Items = append([]LineItem(nil), inv.Items...)
	out.Payments = append([]Payment(nil), inv.Payments...)
	if out.Items == nil {
		out.Items = []LineItem{}
	}
	if out.Payments == nil {
		out.Payments = []Payment{}
	}
	if inv.PaidDate != nil {
		out.PaidDate = lo.ToPtr(*inv.PaidDate)
	}
	if inv.SentDate != nil {
		out.SentDate = lo.ToPtr(*inv.SentDate)
	}
	if inv.Metadata != nil {
		out.Metadata = make(map[string]string, len(inv.Metadata))
		for k, v := range inv.Metadata {
			out.Metadata[k] = v
		}
	}
	return &out
}
