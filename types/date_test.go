package types

import (
	"testing"
	"time"
)

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"UTC midday", time.Date(2024, 1, 10, 13, 45, 0, 0, time.UTC), "2024-01-10"},
		{"Already midnight", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), "2024-01-10"},
		{"Local calendar day wins", time.Date(2024, 1, 10, 2, 0, 0, 0, loc), "2024-01-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DateOf(tt.in)
			if got.Format(DateLayout) != tt.want {
				t.Errorf("DateOf: got %s, want %s", got.Format(DateLayout), tt.want)
			}
			if got.Location() != time.UTC || got.Hour() != 0 {
				t.Errorf("DateOf: expected midnight UTC, got %v", got)
			}
		})
	}
}

func TestAddDays(t *testing.T) {
	got := AddDays(MustDate("2024-01-31"), 30)
	if got.Format(DateLayout) != "2024-03-01" {
		t.Errorf("AddDays: got %s, want 2024-03-01", got.Format(DateLayout))
	}
}
