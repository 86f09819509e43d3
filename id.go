package folio

import "github.com/xraph/folio/id"

// ID is the primary identifier type for all Folio entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix

// ParseInvoiceID parses an "inv_" TypeID string.
func ParseInvoiceID(s string) (id.InvoiceID, error) { return id.ParseInvoiceID(s) }
