package invoice

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/xraph/folio/types"
)

// CreateInput carries the caller-supplied fields of a new invoice. Zero
// values fall back to engine defaults: IssueDate to today, DueDate to
// IssueDate plus the payment terms, Currency, PaymentTerms and
// DiscountType to the configured defaults.
type CreateInput struct {
	ClientID           string            `json:"client_id" validate:"required,max=128"`
	ProjectID          string            `json:"project_id,omitempty" validate:"max=128"`
	IssueDate          time.Time         `json:"issue_date"`
	DueDate            time.Time         `json:"due_date"`
	Currency           types.Currency    `json:"currency,omitempty" validate:"omitempty,oneof=USD EUR GBP CAD"`
	PaymentTerms       PaymentTerms      `json:"payment_terms,omitempty" validate:"omitempty,oneof=due_on_receipt net_15 net_30 net_60"`
	Items              []LineItem        `json:"items" validate:"dive"`
	TaxRate            decimal.Decimal   `json:"tax_rate"`
	DiscountAmount     decimal.Decimal   `json:"discount_amount"`
	DiscountType       DiscountType      `json:"discount_type,omitempty" validate:"omitempty,oneof=fixed percentage"`
	Notes              string            `json:"notes,omitempty" validate:"max=4000"`
	TermsAndConditions string            `json:"terms_and_conditions,omitempty" validate:"max=4000"`
	ThankYouMessage    string            `json:"thank_you_message,omitempty" validate:"max=1000"`
	Metadata           map[string]string `json:"metadata,omitempty"`
}

// PaymentInput describes a payment to record. Amount is in major units of
// the invoice currency. A zero Date means today; an empty Method means
// "other".
type PaymentInput struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    PaymentMethod   `json:"method,omitempty" validate:"omitempty,oneof=bank_transfer check cash card paypal stripe other"`
	Reference string          `json:"reference,omitempty" validate:"max=255"`
	Notes     string          `json:"notes,omitempty" validate:"max=4000"`
	Date      time.Time       `json:"date"`
}

// EmailTarget addresses an invoice delivery. An empty To falls back to the
// client's address from the directory.
type EmailTarget struct {
	To      string   `json:"to,omitempty" validate:"omitempty,email"`
	CC      []string `json:"cc,omitempty" validate:"dive,email"`
	Subject string   `json:"subject,omitempty" validate:"max=255"`
	Message string   `json:"message,omitempty" validate:"max=10000"`
}

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Violation) String() string { return v.Field + ": " + v.Message }

func violationf(field, format string, args ...any) Violation {
	return Violation{Field: field, Message: fmt.Sprintf(format, args...)}
}

func itemField(i int, name string) string {
	return fmt.Sprintf("items[%d].%s", i, name)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateInput runs struct-tag validation over one of the input types and
// returns one violation per failing field.
func ValidateInput(in any) []Violation {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Violation{{Field: "", Message: err.Error()}}
	}

	out := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, Violation{
			Field:   fieldPath(fe.Namespace()),
			Message: describeTag(fe),
		})
	}
	return out
}

// fieldPath drops the struct name from a validator namespace such as
// "CreateInput.items[0].description".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fmt.Sprint(fe.Value()))
	case "email":
		return fmt.Sprintf("%q is not a valid email address", fmt.Sprint(fe.Value()))
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
