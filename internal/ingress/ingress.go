// Package ingress is the admission boundary: it validates an incoming
// transfer request, persists a Queued record for it, and hands it to the
// batching worker over a bounded channel. A full channel is rejected at
// once with EnqueueFailed (HTTP 500 with a "try again later" message)
// rather than the relay buffering without bound.
package ingress

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nearft/relay/internal/apperr"
	"github.com/nearft/relay/internal/metrics"
	"github.com/nearft/relay/internal/model"
	"github.com/nearft/relay/internal/near"
	"github.com/nearft/relay/internal/store"
)

// Ingress is the admission component.
type Ingress struct {
	store    store.Store
	queue    chan<- model.QueueItem
	senderID string
	log      *zap.SugaredLogger
	metrics  *metrics.Metrics
}

// New constructs an Ingress over queue, which must be the producer side
// of the worker's bounded channel.
func New(st store.Store, queue chan<- model.QueueItem, senderID string, log *zap.SugaredLogger, m *metrics.Metrics) *Ingress {
	return &Ingress{store: st, queue: queue, senderID: senderID, log: log, metrics: m}
}

// Submit validates req, persists a Queued TransactionRecord for it, and
// enqueues it for the worker. It returns apperr.InvalidInput if req fails
// validation, or apperr.EnqueueFailed if the queue is full. A freshly
// generated id is attached to the response even on an InvalidInput error,
// so the caller has something to correlate against support requests.
// Persisting the Queued record is best-effort: Submit waits for the
// status-store write to return before enqueueing (the write is not done in
// the background), but admission never fails because of it — a failure
// there is logged and the request still proceeds to the queue.
func (ing *Ingress) Submit(ctx context.Context, req model.TransferRequest) (*model.TransferResponse, error) {
	id := uuid.NewString()

	if req.RecieverID == "" {
		return &model.TransferResponse{TransactionID: id}, apperr.New(apperr.InvalidInput, "reciever_id is required")
	}
	if _, err := near.ValidateAmount(req.Amount); err != nil {
		return &model.TransferResponse{TransactionID: id}, err
	}

	rec := &model.TransactionRecord{
		ID:        id,
		SenderID:  ing.senderID,
		Status:    model.StatusQueued,
		Request:   req,
		CreatedAt: time.Now(),
	}

	if err := ing.store.Put(ctx, rec); err != nil {
		ing.log.Errorw("failed to persist transaction record, continuing", "record_id", id, "error", err)
	}

	item := model.QueueItem{
		RecordID:   id,
		RecieverID: req.RecieverID,
		Amount:     req.Amount,
		Memo:       req.Memo,
	}

	select {
	case ing.queue <- item:
	default:
		ing.log.Warnw("admission queue is full, rejecting request", "record_id", id)
		return &model.TransferResponse{TransactionID: id}, apperr.New(apperr.EnqueueFailed, "queue is at capacity, try again later")
	}

	if ing.metrics != nil {
		ing.metrics.QueueDepth.Set(float64(len(ing.queue)))
	}

	return &model.TransferResponse{
		Success:       true,
		Message:       "transfer queued",
		TransactionID: id,
	}, nil
}
