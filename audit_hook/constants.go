package audithook

// Action constants for audit events.
const (
	// Invoice actions
	ActionInvoiceCreated    = "invoice.created"
	ActionInvoiceUpdated    = "invoice.updated"
	ActionInvoiceDeleted    = "invoice.deleted"
	ActionInvoiceDuplicated = "invoice.duplicated"
	ActionInvoiceSent       = "invoice.sent"
	ActionInvoiceCancelled  = "invoice.cancelled"
	ActionInvoiceOverdue    = "invoice.overdue"
	ActionInvoicePaid       = "invoice.paid"

	// Payment actions
	ActionPaymentRecorded = "payment.recorded"
)

// Resource constants for audit events.
const (
	ResourceInvoice = "invoice"
	ResourcePayment = "payment"
)

// Category constants for audit events.
const (
	CategoryBilling  = "billing"
	CategoryPayment  = "payment"
	CategoryDelivery = "delivery"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
