package invoice

import (
	"time"

	"github.com/samber/lo"

	"github.com/xraph/folio/types"
)

// transitions lists the statuses reachable from each status by an explicit
// status change. The resolver and Send follow their own rules.
var transitions = map[Status][]Status{
	StatusDraft:   {StatusSent, StatusCancelled},
	StatusSent:    {StatusViewed, StatusOverdue, StatusPaid, StatusCancelled},
	StatusViewed:  {StatusPaid, StatusCancelled},
	StatusOverdue: {StatusPaid, StatusCancelled},
}

// CanTransition reports whether an explicit change from -> to is allowed.
// Staying in the same status is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	return lo.Contains(transitions[from], to)
}

// Resolve normalizes inv's status for the instant now and reports whether
// anything changed. Rules, in order:
//
//  1. paid and cancelled are terminal.
//  2. a sent invoice past its due date becomes overdue. Days are compared
//     in UTC, so an invoice is not overdue on its due date itself.
//  3. an invoice whose payments cover its total becomes paid; PaidDate
//     defaults to now's date.
//
// Rule 3 also requires some amount to have been paid. Without that a
// zero-total invoice would count as paid the moment it was created, so a
// zero-total draft stays a draft until it is sent or cancelled.
//
// Resolve is idempotent for a fixed now.
func Resolve(inv *Invoice, now time.Time) bool {
	if inv.Status.Terminal() {
		return false
	}

	changed := false
	if inv.Status == StatusSent && inv.Overdue(now) {
		inv.Status = StatusOverdue
		changed = true
	}

	if settled(inv) {
		inv.Status = StatusPaid
		if inv.PaidDate == nil {
			inv.PaidDate = lo.ToPtr(types.DateOf(now))
		}
		changed = true
	}

	return changed
}

// settled reports whether recorded payments cover the total. An invoice
// nobody has paid anything on is never settled, even at a zero total.
func settled(inv *Invoice) bool {
	return inv.AmountPaid.IsPositive() && !inv.AmountPaid.LessThan(inv.Total)
}
