package invoice

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/xraph/folio/types"
)

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	ClientID           *string          `json:"client_id,omitempty"`
	ProjectID          *string          `json:"project_id,omitempty"`
	Status             *Status          `json:"status,omitempty"`
	IssueDate          *time.Time       `json:"issue_date,omitempty"`
	DueDate            *time.Time       `json:"due_date,omitempty"`
	Currency           *types.Currency  `json:"currency,omitempty"`
	PaymentTerms       *PaymentTerms    `json:"payment_terms,omitempty"`
	Items              *[]LineItem      `json:"items,omitempty"`
	TaxRate            *decimal.Decimal `json:"tax_rate,omitempty"`
	DiscountAmount     *decimal.Decimal `json:"discount_amount,omitempty"`
	DiscountType       *DiscountType    `json:"discount_type,omitempty"`
	Notes              *string          `json:"notes,omitempty"`
	TermsAndConditions *string          `json:"terms_and_conditions,omitempty"`
	ThankYouMessage    *string          `json:"thank_you_message,omitempty"`
}

// Fields returns the JSON names of the fields the patch sets, in
// declaration order.
func (p Patch) Fields() []string {
	set := []struct {
		name string
		ok   bool
	}{
		{"client_id", p.ClientID != nil},
		{"project_id", p.ProjectID != nil},
		{"status", p.Status != nil},
		{"issue_date", p.IssueDate != nil},
		{"due_date", p.DueDate != nil},
		{"currency", p.Currency != nil},
		{"payment_terms", p.PaymentTerms != nil},
		{"items", p.Items != nil},
		{"tax_rate", p.TaxRate != nil},
		{"discount_amount", p.DiscountAmount != nil},
		{"discount_type", p.DiscountType != nil},
		{"notes", p.Notes != nil},
		{"terms_and_conditions", p.TermsAndConditions != nil},
		{"thank_you_message", p.ThankYouMessage != nil},
	}

	var out []string
	for _, f := range set {
		if f.ok {
			out = append(out, f.name)
		}
	}
	return out
}

// Empty reports whether the patch sets nothing.
func (p Patch) Empty() bool { return len(p.Fields()) == 0 }

// TouchesTotals reports whether applying p requires recomputing totals.
func (p Patch) TouchesTotals() bool {
	return p.Items != nil || p.TaxRate != nil || p.DiscountAmount != nil ||
		p.DiscountType != nil || p.Currency != nil
}

// Transition is a requested status change.
type Transition struct {
	From Status
	To   Status
}

// Result is the outcome of validating a patch against the current invoice.
// At most one category is populated: a locked invoice is not checked
// further, and a disallowed transition is only reported for otherwise
// valid patches.
type Result struct {
	Locked     []string
	Violations []Violation
	Conflict   *Transition
}

// OK reports whether the patch may be applied.
func (r Result) OK() bool {
	return len(r.Locked) == 0 && len(r.Violations) == 0 && r.Conflict == nil
}

// ValidatePatch checks p against current without modifying either.
func ValidatePatch(p Patch, current *Invoice) Result {
	if current.Status != StatusDraft {
		locked := lo.Without(p.Fields(), "status")
		if len(locked) > 0 {
			return Result{Locked: locked}
		}
	}

	var out []Violation

	if p.Status != nil && !p.Status.Valid() {
		out = append(out, violationf("status", "unknown status %q", *p.Status))
	}
	if p.ClientID != nil && *p.ClientID == "" {
		out = append(out, violationf("client_id", "is required"))
	}
	if p.Currency != nil {
		switch {
		case !p.Currency.Valid():
			out = append(out, violationf("currency", "unsupported currency %q", *p.Currency))
		case *p.Currency != current.Currency && len(current.Payments) > 0:
			out = append(out, violationf("currency", "cannot change currency after payments were recorded"))
		}
	}
	if p.PaymentTerms != nil && !p.PaymentTerms.Valid() {
		out = append(out, violationf("payment_terms", "unknown payment terms %q", *p.PaymentTerms))
	}
	if p.DiscountType != nil && *p.DiscountType != DiscountFixed && *p.DiscountType != DiscountPercentage {
		out = append(out, violationf("discount_type", "unknown discount type %q", *p.DiscountType))
	}
	if p.Items != nil {
		for i, item := range *p.Items {
			for _, v := range ValidateInput(item) {
				out = append(out, Violation{Field: itemField(i, v.Field), Message: v.Message})
			}
		}
	}

	issue, due := p.dates(current)
	if due.Before(issue) {
		out = append(out, violationf("due_date", "due date %s is before issue date %s",
			due.Format(types.DateLayout), issue.Format(types.DateLayout)))
	}

	// Enum problems make pricing meaningless; report those first.
	if len(out) > 0 {
		return Result{Violations: out}
	}

	if p.TouchesTotals() {
		items, pricing := p.pricing(current)
		if vs := CheckPricing(items, pricing); len(vs) > 0 {
			return Result{Violations: vs}
		}
		if t := Calculate(items, pricing); t.Total.LessThan(current.AmountPaid.In(pricing.Currency)) {
			return Result{Violations: []Violation{violationf("total",
				"new total %s is below the amount already paid %s", t.Total, current.AmountPaid)}}
		}
	}

	if p.Status != nil && !CanTransition(current.Status, *p.Status) {
		return Result{Conflict: &Transition{From: current.Status, To: *p.Status}}
	}

	return Result{}
}

// Apply writes p onto inv and recomputes derived fields. It assumes
// ValidatePatch returned OK. The resolver is not run.
func (p Patch) Apply(inv *Invoice, now time.Time) {
	today := types.DateOf(now)
	issue, due := p.dates(inv)
	inv.IssueDate, inv.DueDate = issue, due

	if p.ClientID != nil {
		inv.ClientID = *p.ClientID
	}
	if p.ProjectID != nil {
		inv.ProjectID = *p.ProjectID
	}
	if p.PaymentTerms != nil {
		inv.PaymentTerms = *p.PaymentTerms
	}
	if p.Notes != nil {
		inv.Notes = *p.Notes
	}
	if p.TermsAndConditions != nil {
		inv.TermsAndConditions = *p.TermsAndConditions
	}
	if p.ThankYouMessage != nil {
		inv.ThankYouMessage = *p.ThankYouMessage
	}

	if p.TouchesTotals() {
		items, pricing := p.pricing(inv)
		inv.Items = items
		inv.Currency = pricing.Currency
		inv.TaxRate = pricing.TaxRate
		inv.DiscountAmount = pricing.DiscountAmount
		inv.DiscountType = pricing.DiscountType
		inv.AmountPaid = inv.AmountPaid.In(pricing.Currency)
		inv.ApplyTotals(Calculate(items, pricing))
	}

	if p.Status != nil && *p.Status != inv.Status {
		inv.Status = *p.Status
		switch inv.Status {
		case StatusSent:
			if inv.SentDate == nil {
				inv.SentDate = lo.ToPtr(today)
			}
		case StatusPaid:
			if inv.PaidDate == nil {
				inv.PaidDate = lo.ToPtr(today)
			}
		}
	}

	inv.Touch(now)
}

// dates returns the issue and due dates after p is applied. A payment
// terms change without an explicit due date moves the due date.
func (p Patch) dates(current *Invoice) (issue, due time.Time) {
	issue, due = current.IssueDate, current.DueDate
	if p.IssueDate != nil {
		issue = types.DateOf(*p.IssueDate)
	}
	switch {
	case p.DueDate != nil:
		due = types.DateOf(*p.DueDate)
	case p.PaymentTerms != nil:
		due = p.PaymentTerms.DueDate(issue)
	}
	return issue, due
}

func (p Patch) pricing(current *Invoice) ([]LineItem, Pricing) {
	items := current.Items
	if p.Items != nil {
		items = append([]LineItem(nil), (*p.Items)...)
	}
	pricing := current.Pricing()
	if p.Currency != nil {
		pricing.Currency = *p.Currency
	}
	if p.TaxRate != nil {
		pricing.TaxRate = *p.TaxRate
	}
	if p.DiscountAmount != nil {
		pricing.DiscountAmount = *p.DiscountAmount
	}
	if p.DiscountType != nil {
		pricing.DiscountType = *p.DiscountType
	}
	return items, pricing
}
