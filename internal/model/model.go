// Package model holds the wire and storage types shared by every component
// of the relay: the inbound transfer request, the persisted transaction
// record, and the status values a record can take.
package model

import "time"

// TransactionStatus is a closed set of states a TransactionRecord can be in.
// It is a distinct string type rather than a bare string so the compiler
// catches stray literals at call sites.
type TransactionStatus string

const (
	StatusQueued  TransactionStatus = "Queued"
	StatusSuccess TransactionStatus = "Success"
	StatusFailure TransactionStatus = "Failure"
)

// TransferRequest is the caller-supplied payload for a single FT transfer.
// The "Reciever" field name preserves a misspelling present on the wire
// format this service exposes; renaming it would be a breaking API change.
type TransferRequest struct {
	RecieverID string `json:"reciever_id"`
	Amount     string `json:"amount"`
	Memo       string `json:"memo,omitempty"`
}

// TransactionRecord is the durable record of one transfer request, from
// admission through final chain outcome.
type TransactionRecord struct {
	ID            string            `json:"id"`
	SenderID      string            `json:"sender_id"`
	Status        TransactionStatus `json:"status"`
	Request       TransferRequest   `json:"request"`
	TxnHash       string            `json:"txn_hash,omitempty"`
	ErrorMessage  string            `json:"error_message,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// QueueItem is what ingress hands the batching worker over the bounded
// channel: just enough to build the chain action and to write the outcome
// back to the record it came from.
type QueueItem struct {
	RecordID   string
	RecieverID string
	Amount     string
	Memo       string
}
