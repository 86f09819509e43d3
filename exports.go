package folio

import (
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/types"
)

// Re-export common types for convenience so users don't have to import types package.

// Money is re-exported from types package.
type Money = types.Money

// Currency is re-exported from types package.
type Currency = types.Currency

// Invoice is re-exported from invoice package.
type Invoice = invoice.Invoice

// Re-export Money constructors
var (
	USD  = types.USD
	EUR  = types.EUR
	GBP  = types.GBP
	CAD  = types.CAD
	Zero = types.Zero
	Sum  = types.Sum
)
