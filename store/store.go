// Package store defines the storage surface the Folio engine runs on.
package store

import (
	"context"

	"github.com/xraph/folio/invoice"
)

// Store is the unified storage interface for Folio.
type Store interface {
	invoice.Store

	// Core methods
	Ping(ctx context.Context) error
	Close() error
}
