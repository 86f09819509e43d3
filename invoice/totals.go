package invoice

import (
	"github.com/shopspring/decimal"

	"github.com/xraph/folio/types"
)

var hundred = decimal.NewFromInt(100)

// Pricing holds the invoice-level parameters applied on top of line items.
type Pricing struct {
	Currency       types.Currency
	TaxRate        decimal.Decimal // percent, >= 0
	DiscountAmount decimal.Decimal // major units, or percent when DiscountType is percentage
	DiscountType   DiscountType
}

// Totals is the derived money breakdown of an invoice.
type Totals struct {
	Subtotal types.Money `json:"subtotal"`
	Discount types.Money `json:"discount"`
	Tax      types.Money `json:"tax"`
	Total    types.Money `json:"total"`
}

// Calculate derives subtotal, discount, tax and total from line items.
//
// Each line and each derived component is rounded to the minor unit once;
// Total is then assembled from the rounded parts so that
// Total == Subtotal - Discount + Tax holds exactly. Calculate does not
// validate its input; see CheckPricing.
func Calculate(items []LineItem, p Pricing) Totals {
	subtotal := types.Zero(p.Currency)
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount(p.Currency))
	}

	discount := discountOf(subtotal, p)
	base := subtotal.Subtract(discount)
	tax := base.Percent(p.TaxRate)

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    base.Add(tax),
	}
}

func discountOf(subtotal types.Money, p Pricing) types.Money {
	if p.DiscountType == DiscountPercentage {
		return subtotal.Percent(p.DiscountAmount)
	}
	return types.FromDecimal(p.DiscountAmount, p.Currency)
}

// CheckPricing reports input the calculator would turn into nonsense:
// negative quantities, rates, tax or discount, a percentage discount above
// 100, a discount larger than the subtotal, or any line amount or total
// too large to hold in minor units.
func CheckPricing(items []LineItem, p Pricing) []Violation {
	var out []Violation

	for i, item := range items {
		if item.Quantity.IsNegative() {
			out = append(out, violationf(itemField(i, "quantity"), "must not be negative, got %s", item.Quantity))
		}
		if item.Rate.IsNegative() {
			out = append(out, violationf(itemField(i, "rate"), "must not be negative, got %s", item.Rate))
		}
	}
	if p.TaxRate.IsNegative() {
		out = append(out, violationf("tax_rate", "must not be negative, got %s", p.TaxRate))
	}
	if p.DiscountAmount.IsNegative() {
		out = append(out, violationf("discount_amount", "must not be negative, got %s", p.DiscountAmount))
	}
	if p.DiscountType == DiscountPercentage && p.DiscountAmount.GreaterThan(hundred) {
		out = append(out, violationf("discount_amount", "percentage discount cannot exceed 100, got %s", p.DiscountAmount))
	}
	if len(out) > 0 {
		return out
	}

	e := calculateExact(items, p)
	format := func(minor decimal.Decimal) string { return types.FormatMinor(minor, p.Currency) }

	for i, amount := range e.lines {
		if !types.InRange(amount) {
			out = append(out, violationf(itemField(i, "amount"), "line amount %s is too large", format(amount)))
		}
	}
	if len(out) > 0 {
		return out
	}
	switch {
	case !types.InRange(e.subtotal):
		out = append(out, violationf("items", "subtotal %s is too large", format(e.subtotal)))
	case !types.InRange(e.discount):
		out = append(out, violationf("discount_amount", "discount %s is too large", format(e.discount)))
	case e.discount.GreaterThan(e.subtotal):
		out = append(out, violationf("discount_amount", "discount %s exceeds subtotal %s", format(e.discount), format(e.subtotal)))
	case !types.InRange(e.total):
		out = append(out, violationf("total", "total %s is too large", format(e.total)))
	}
	return out
}

// exactTotals holds the Calculate results in unbounded minor units.
type exactTotals struct {
	lines    []decimal.Decimal
	subtotal decimal.Decimal
	discount decimal.Decimal
	total    decimal.Decimal
}

// calculateExact mirrors Calculate step for step without int64 limits.
func calculateExact(items []LineItem, p Pricing) exactTotals {
	e := exactTotals{lines: make([]decimal.Decimal, 0, len(items))}
	for _, item := range items {
		amount := types.MinorUnits(item.Quantity.Mul(item.Rate), p.Currency)
		e.lines = append(e.lines, amount)
		e.subtotal = e.subtotal.Add(amount)
	}

	if p.DiscountType == DiscountPercentage {
		e.discount = e.subtotal.Mul(p.DiscountAmount.Div(hundred)).Round(0)
	} else {
		e.discount = types.MinorUnits(p.DiscountAmount, p.Currency)
	}
	base := e.subtotal.Sub(e.discount)
	e.total = base.Add(base.Mul(p.TaxRate.Div(hundred)).Round(0))
	return e
}
