package types

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = time.DateOnly

// DateOf truncates t to midnight UTC of its calendar day in t's location.
// Invoice dates carry no time-of-day component.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n calendar days after d.
func AddDays(d time.Time, n int) time.Time {
	return DateOf(d).AddDate(0, 0, n)
}

// MustDate parses a YYYY-MM-DD string. It panics on malformed input and is
// meant for fixtures and constants.
func MustDate(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic("types: invalid date " + s + ": " + err.Error())
	}
	return t
}
