package id_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/xraph/folio/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"InvoiceID", id.NewInvoiceID, "inv_"},
		{"PaymentID", id.NewPaymentID, "pay_"},
		{"MessageID", id.NewMessageID, "msg_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		newFn   func() id.ID
		parseFn func(string) (id.ID, error)
	}{
		{"InvoiceID", id.NewInvoiceID, id.ParseInvoiceID},
		{"PaymentID", id.NewPaymentID, id.ParsePaymentID},
		{"Any", id.NewMessageID, id.ParseAny},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := tt.newFn()
			parsed, err := tt.parseFn(original.String())
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if parsed.String() != original.String() {
				t.Errorf("round-trip mismatch: %q != %q", parsed.String(), original.String())
			}
		})
	}
}

func TestCrossTypeRejection(t *testing.T) {
	if _, err := id.ParseInvoiceID(id.NewPaymentID().String()); err == nil {
		t.Error("ParseInvoiceID accepted a pay_ ID")
	}
	if _, err := id.ParsePaymentID(id.NewInvoiceID().String()); err == nil {
		t.Error("ParsePaymentID accepted an inv_ ID")
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := id.Parse(""); err == nil {
		t.Error("expected error for empty string")
	}
}

func TestNilID(t *testing.T) {
	var i id.ID
	if !i.IsNil() {
		t.Error("zero-value ID should be nil")
	}
	if i.String() != "" {
		t.Errorf("expected empty string, got %q", i.String())
	}
	if i.Prefix() != "" {
		t.Errorf("expected empty prefix, got %q", i.Prefix())
	}
}

func TestJSONRoundTrip(t *testing.T) {
	type doc struct {
		ID id.ID `json:"id"`
	}

	original := doc{ID: id.NewInvoiceID()}
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var restored doc
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if restored.ID.String() != original.ID.String() {
		t.Errorf("mismatch: %q != %q", restored.ID.String(), original.ID.String())
	}
}

func TestCompare(t *testing.T) {
	a := id.MustParse("inv_01h455vb4pex5vsknk084sn02q")
	b := id.MustParse("inv_01h455vb4pex5vsknk084sn02r")

	if a.Compare(b) >= 0 {
		t.Errorf("expected %q < %q", a, b)
	}
	if b.Compare(a) <= 0 {
		t.Errorf("expected %q > %q", b, a)
	}
	if a.Compare(a) != 0 {
		t.Error("expected an ID to compare equal to itself")
	}
}

func TestUniqueness(t *testing.T) {
	a := id.NewInvoiceID()
	b := id.NewInvoiceID()
	if a.String() == b.String() {
		t.Errorf("two consecutive NewInvoiceID() calls returned the same ID: %q", a.String())
	}
}
