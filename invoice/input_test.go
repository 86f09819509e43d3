package invoice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInputCreate(t *testing.T) {
	ok := CreateInput{ClientID: "client_acme", Items: []LineItem{line("1", "10")}}
	assert.Empty(t, ValidateInput(ok))

	bad := CreateInput{
		Currency:     "JPY",
		PaymentTerms: "net_90",
		DiscountType: "bogo",
		Items:        []LineItem{{Description: strings.Repeat("x", 1001)}},
	}
	vs := ValidateInput(bad)

	fields := make([]string, 0, len(vs))
	for _, v := range vs {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{
		"client_id", "currency", "payment_terms", "discount_type", "items[0].description",
	}, fields)

	for _, v := range vs {
		switch v.Field {
		case "client_id":
			assert.Equal(t, "is required", v.Message)
		case "currency":
			assert.Contains(t, v.Message, `got "JPY"`)
		case "items[0].description":
			assert.Equal(t, "must be at most 1000 characters", v.Message)
		}
	}
}

func TestValidateInputPayment(t *testing.T) {
	assert.Empty(t, ValidateInput(PaymentInput{Amount: d("10")}))
	assert.Empty(t, ValidateInput(PaymentInput{Amount: d("10"), Method: MethodStripe}))

	vs := ValidateInput(PaymentInput{Amount: d("10"), Method: "barter"})
	require.Len(t, vs, 1)
	assert.Equal(t, "method", vs[0].Field)
	assert.Equal(t, "method: "+vs[0].Message, vs[0].String())
}

func TestValidateInputEmailTarget(t *testing.T) {
	assert.Empty(t, ValidateInput(EmailTarget{}))
	assert.Empty(t, ValidateInput(EmailTarget{To: "ap@acme.test", CC: []string{"pm@acme.test"}}))

	vs := ValidateInput(EmailTarget{To: "nope", CC: []string{"ok@acme.test", "also-nope"}})
	require.Len(t, vs, 2)
	assert.Equal(t, "to", vs[0].Field)
	assert.Equal(t, "cc[1]", vs[1].Field)
	assert.Contains(t, vs[0].Message, "not a valid email")
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "INV-2024-001", FormatNumber(2024, 1))
	assert.Equal(t, "INV-2024-042", FormatNumber(2024, 42))
	assert.Equal(t, "INV-2025-1000", FormatNumber(2025, 1000))
}
