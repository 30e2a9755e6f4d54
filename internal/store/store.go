// Package store defines the transaction-record persistence contract and
// two implementations: a Redis-backed production store and an in-memory
// store used by tests and non-production runs.
//
// Key layout (Redis): a record is stored at "txn:<id>"; the id is also
// pushed onto the list at "user_txns:<receiver_id>" so a caller can page
// through everything sent to a given account without scanning every
// record.
package store

import (
	"context"

	"github.com/nearft/relay/internal/model"
)

// Store is the status-store contract every component that needs to read
// or write a TransactionRecord depends on. Implementations are expected to
// give best-effort consistency between the "txn:<id>" record and its
// "user_txns:<receiver>" index entry — the Redis store writes the record
// first, so a crash between the two writes can leave a record that its
// receiver's index does not list. Paging callers skip any indexed id whose
// record is missing.
type Store interface {
	// Put writes or overwrites the record at rec.ID, and, on first write,
	// indexes it under its receiver.
	Put(ctx context.Context, rec *model.TransactionRecord) error

	// Get returns the record with the given id. The returned error wraps
	// apperr.StoreMissing if no such record exists.
	Get(ctx context.Context, id string) (*model.TransactionRecord, error)

	// ListByStatus performs a full scan of every stored record and
	// returns those matching status, paged by page/page size. This is
	// deliberately O(N) in the number of stored records: the spec this
	// implements does not require a secondary status index.
	ListByStatus(ctx context.Context, status model.TransactionStatus, page model.Pagination) ([]model.TransactionRecord, error)

	// ListBySender pages through the records sent to receiverID using an
	// opaque cursor; an empty cursor starts from the beginning. The
	// returned cursor is empty once exhausted.
	ListBySender(ctx context.Context, receiverID string, scan model.ScanPagination) ([]model.TransactionRecord, string, error)

	// Scan walks every stored record regardless of status or receiver,
	// using the same opaque-cursor convention as ListBySender. An empty
	// cursor starts from the beginning; the returned cursor is empty once
	// exhausted.
	Scan(ctx context.Context, scan model.ScanPagination) ([]model.TransactionRecord, string, error)
}
