// Package worker implements the batching state machine: it forms a batch
// from the admission queue (FormingBatch), dispatches it under a
// concurrency gate (Dispatching/InFlight), and reconciles each item's
// outcome back into the status store (Reconciling).
//
// A batch has no absolute deadline — once the first item arrives, the
// worker keeps adding items until either Config.MaxBatchSize is reached or a
// single recv wait exceeds Config.RecvTimeout. A steady trickle of one item just
// under the timeout, forever, would keep one batch open indefinitely;
// that tradeoff favors larger batches over a hard SLA on dispatch latency.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/google/uuid"

	"github.com/nearft/relay/internal/audit"
	"github.com/nearft/relay/internal/keypool"
	"github.com/nearft/relay/internal/metrics"
	"github.com/nearft/relay/internal/model"
	"github.com/nearft/relay/internal/near"
	"github.com/nearft/relay/internal/store"
)

// Submitter is the subset of near.Submitter the worker depends on.
type Submitter interface {
	SubmitActions(ctx context.Context, signer near.Signer, actions []near.Action) (string, error)
}

// Config tunes the batching state machine.
type Config struct {
	MaxBatchSize  int
	RecvTimeout   time.Duration
	MaxConcurrent int64
}

// Worker consumes QueueItems, forms them into batches, and dispatches
// each batch as one signed transaction.
type Worker struct {
	queue     <-chan model.QueueItem
	store     store.Store
	pool      *keypool.Pool
	submitter Submitter
	audit     *audit.Logger
	metrics   *metrics.Metrics
	log       *zap.SugaredLogger
	cfg       Config
	sem       *semaphore.Weighted
}

// New constructs a Worker. queue is the consumer side of the channel
// ingress produces QueueItems onto.
func New(queue <-chan model.QueueItem, st store.Store, pool *keypool.Pool, submitter Submitter, auditLog *audit.Logger, m *metrics.Metrics, log *zap.SugaredLogger, cfg Config) *Worker {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	return &Worker{
		queue:     queue,
		store:     st,
		pool:      pool,
		submitter: submitter,
		audit:     auditLog,
		metrics:   m,
		log:       log,
		cfg:       cfg,
		sem:       semaphore.NewWeighted(cfg.MaxConcurrent),
	}
}

// Run forms and dispatches batches until ctx is canceled or the queue is
// closed. It blocks the calling goroutine.
func (w *Worker) Run(ctx context.Context) error {
	for {
		first, ok := w.recvFirst(ctx)
		if !ok {
			return ctx.Err()
		}

		batch := w.formBatch(ctx, first)

		if err := w.sem.Acquire(ctx, 1); err != nil {
			return err
		}

		if w.metrics != nil {
			w.metrics.InFlightBatches.Inc()
		}

		go func(batch []model.QueueItem) {
			defer w.sem.Release(1)
			defer func() {
				if w.metrics != nil {
					w.metrics.InFlightBatches.Dec()
				}
			}()
			w.dispatchBatch(ctx, batch)
		}(batch)
	}
}

// recvFirst blocks until an item is available, ctx is canceled, or the
// queue is closed.
func (w *Worker) recvFirst(ctx context.Context) (model.QueueItem, bool) {
	select {
	case item, ok := <-w.queue:
		return item, ok
	case <-ctx.Done():
		return model.QueueItem{}, false
	}
}

// formBatch grows batch beyond its first item, bounded by MaxBatchSize,
// stopping as soon as a single recv wait exceeds RecvTimeout.
func (w *Worker) formBatch(ctx context.Context, first model.QueueItem) []model.QueueItem {
	batch := make([]model.QueueItem, 0, w.cfg.MaxBatchSize)
	batch = append(batch, first)

	timer := time.NewTimer(w.cfg.RecvTimeout)
	defer timer.Stop()

	for len(batch) < w.cfg.MaxBatchSize {
		select {
		case item, ok := <-w.queue:
			if !ok {
				return batch
			}
			batch = append(batch, item)
			timer.Reset(w.cfg.RecvTimeout)
		case <-timer.C:
			return batch
		case <-ctx.Done():
			return batch
		}
	}
	return batch
}

// dispatchBatch signs and submits batch as a single transaction, then
// reconciles every item's outcome back into the store. A zero-amount item
// never gets its own FunctionCall action — ft_transfer of nothing has
// nothing to verify on chain — but it still shares the dispatched batch's
// outcome, the same as any item whose action did make the transaction.
func (w *Worker) dispatchBatch(ctx context.Context, batch []model.QueueItem) {
	batchID := uuid.NewString()
	w.log.Infow("sending batch of transfers", "batch_id", batchID, "size", len(batch))

	actions := make([]near.Action, 0, len(batch))
	reconcile := make([]model.QueueItem, 0, len(batch))
	for _, item := range batch {
		amt, err := near.ValidateAmount(item.Amount)
		if err != nil {
			w.markFailure(ctx, item, "", err)
			continue
		}
		if amt.Sign() == 0 {
			reconcile = append(reconcile, item)
			continue
		}

		action, err := near.BuildFtTransferAction(item.RecieverID, item.Amount, item.Memo)
		if err != nil {
			w.markFailure(ctx, item, "", err)
			continue
		}
		actions = append(actions, action)
		reconcile = append(reconcile, item)
	}

	if len(actions) == 0 {
		for _, item := range reconcile {
			w.markSuccess(ctx, item, "")
		}
		return
	}

	key := w.pool.Next()
	txHash, err := w.submitter.SubmitActions(ctx, key, actions)

	entry := audit.Entry{
		BatchID:   batchID,
		Timestamp: time.Now(),
		ItemCount: len(batch),
		KeyUsed:   key.PublicKeyString(),
		TxnHash:   txHash,
	}

	if err != nil {
		entry.Outcome = "FAILURE"
		entry.ErrorMessage = err.Error()
		w.recordBatchMetric("failure")
		for _, item := range reconcile {
			w.markFailure(ctx, item, txHash, err)
		}
	} else {
		entry.Outcome = "SUCCESS"
		w.recordBatchMetric("success")
		for _, item := range reconcile {
			w.markSuccess(ctx, item, txHash)
		}
	}

	if w.audit != nil {
		if logErr := w.audit.LogBatch(entry); logErr != nil {
			w.log.Errorw("failed to write audit entry", "batch_id", batchID, "error", logErr)
		}
	}
}

func (w *Worker) recordBatchMetric(outcome string) {
	if w.metrics != nil {
		w.metrics.BatchesTotal.WithLabelValues(outcome).Inc()
	}
}

func (w *Worker) markSuccess(ctx context.Context, item model.QueueItem, txHash string) {
	w.updateRecord(ctx, item.RecordID, model.StatusSuccess, txHash, "")
	if w.metrics != nil {
		w.metrics.TransfersTotal.WithLabelValues("success").Inc()
	}
}

func (w *Worker) markFailure(ctx context.Context, item model.QueueItem, txHash string, cause error) {
	w.updateRecord(ctx, item.RecordID, model.StatusFailure, txHash, cause.Error())
	if w.metrics != nil {
		w.metrics.TransfersTotal.WithLabelValues("failure").Inc()
	}
}

func (w *Worker) updateRecord(ctx context.Context, recordID string, status model.TransactionStatus, txHash, errMsg string) {
	rec, err := w.store.Get(ctx, recordID)
	if err != nil {
		w.log.Errorw("failed to load record for reconciliation", "record_id", recordID, "error", err)
		return
	}

	rec.Status = status
	rec.TxnHash = txHash
	rec.ErrorMessage = errMsg

	if err := w.store.Put(ctx, rec); err != nil {
		w.log.Errorw("failed to persist reconciled record", "record_id", recordID, "error", err)
	}
}
