package invoice

import "fmt"

// FormatNumber renders an invoice number such as INV-2024-007. Sequences
// past 999 simply widen.
func FormatNumber(year int, seq int64) string {
	return fmt.Sprintf("INV-%d-%03d", year, seq)
}
