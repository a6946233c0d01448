// Package submitter sequences marketplace operations: it validates a job,
// performs the optimistic catalog write, drives assembly and proof generation,
// submits the result to the ledger and records the outcome. Each operation
// kind has its own handler behind a closed dispatch table; there is no
// fallthrough for unknown operations.
package submitter

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zkmarket/mintworkersrv/internal/assembler"
	"github.com/zkmarket/mintworkersrv/internal/catalog"
	"github.com/zkmarket/mintworkersrv/internal/events"
	"github.com/zkmarket/mintworkersrv/internal/ledger"
	"github.com/zkmarket/mintworkersrv/internal/metadata"
	"github.com/zkmarket/mintworkersrv/internal/metrics"
	"github.com/zkmarket/mintworkersrv/internal/reservation"
	"github.com/zkmarket/mintworkersrv/pkg/types"
)

// Handler processes one operation job end to end.
type Handler func(ctx context.Context, job *Job) (*Result, error)

// Controller owns the operation dispatch table and the collaborators every
// handler shares.
type Controller struct {
	store        catalog.Store
	assembler    *assembler.Assembler
	connector    ledger.Connector
	metadata     *metadata.Assembler
	events       events.Sink
	reservations reservation.Client
	handlers     map[types.OperationKind]Handler
	now          func() time.Time
}

func NewController(
	store catalog.Store,
	asm *assembler.Assembler,
	connector ledger.Connector,
	md *metadata.Assembler,
	sink events.Sink,
	reservations reservation.Client,
) *Controller {
	c := &Controller{
		store:        store,
		assembler:    asm,
		connector:    connector,
		metadata:     md,
		events:       sink,
		reservations: reservations,
		now:          time.Now,
	}
	c.handlers = map[types.OperationKind]Handler{
		types.OperationMint:    c.mint,
		types.OperationSell:    c.sell,
		types.OperationBuy:     c.buy,
		types.OperationPrepare: c.prepare,
	}
	return c
}

// Run dispatches a job to its operation handler. Network validation happens
// here, before any handler runs, so an unknown network can never leave a
// partial catalog write behind.
func (c *Controller) Run(ctx context.Context, job *Job) (*Result, error) {
	h, ok := c.handlers[job.Operation]
	if !ok {
		return nil, ErrUnknownOperation.Msg(string(job.Operation))
	}
	if !job.Network.IsValid() {
		return nil, ErrInvalidNetwork.Msg(string(job.Network))
	}
	if err := job.ContractAddress.Check(); err != nil {
		return nil, ErrInvalidPayload.Err(err)
	}

	start := c.now()
	res, err := h(ctx, job)
	metrics.SubmissionDuration.WithLabelValues(string(job.Operation)).Observe(time.Since(start).Seconds())
	outcome := "error"
	if err == nil && res != nil {
		outcome = res.State
	}
	metrics.SubmissionsTotal.WithLabelValues(string(job.Operation), outcome).Inc()
	return res, err
}

// recordSubmission appends the audit row for one submission attempt. The row
// is written for accepted and rejected submissions alike; a write failure is
// logged and counted, never propagated.
func (c *Controller) recordSubmission(ctx context.Context, job *Job, sender ledger.Address, price string, result *ledger.SubmitResult, submitErr error) {
	rec := &catalog.TransactionRecord{
		JobId:     job.JobId,
		Operation: job.Operation,
		Price:     price,
		Sender:    sender.String(),
		Timestamp: c.now(),
	}
	switch {
	case submitErr != nil:
		rec.Status = "error"
	case result.Accepted():
		rec.Status = ledger.SubmitStatusPending
		rec.TxHash = result.Hash
	default:
		rec.Status = ledger.SubmitStatusRejected
		rec.TxHash = result.Hash
	}
	if err := c.store.AppendTransactionRecord(ctx, rec); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("jobId", job.JobId).
			Msg("unable to append transaction record")
		metrics.CatalogWriteFailures.WithLabelValues(string(job.Operation)).Inc()
	}
}

// markFailed is the best-effort terminal write for a mint whose submission did
// not go through. When the ledger assigned a hash before refusing, the hash is
// kept on the failed entry. The transition guard keeps it from clobbering an
// entry that already moved on.
func (c *Controller) markFailed(ctx context.Context, id types.ObjectId, txHash string) {
	_, err := c.store.UpdateEntryFields(ctx, id, func(e *catalog.Entry) error {
		if !e.Status.CanTransitionTo(types.StatusFailed) {
			return catalog.ErrInvalidTransition.Msg(string(e.Status) + " -> " + string(types.StatusFailed))
		}
		e.Status = types.StatusFailed
		if txHash != "" {
			e.TxHash = txHash
		}
		return nil
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("objectId", id.String()).
			Msg("unable to mark catalog entry failed")
		metrics.CatalogWriteFailures.WithLabelValues(string(types.OperationMint)).Inc()
	}
}

// updateEntry applies a mutation after a successful submission. Failures are
// logged and counted but never mask the submission result the caller already
// holds.
func (c *Controller) updateEntry(ctx context.Context, op types.OperationKind, id types.ObjectId, m catalog.Mutation) {
	if _, err := c.store.UpdateEntryFields(ctx, id, m); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("objectId", id.String()).
			Str("operation", string(op)).
			Msg("catalog update failed after accepted submission")
		metrics.CatalogWriteFailures.WithLabelValues(string(op)).Inc()
	}
}

// publish delivers the operation event. Best effort: a sink failure is logged
// and counted, the submission result stands.
func (c *Controller) publish(ctx context.Context, ev *events.OperationEvent) {
	if err := c.events.Publish(ctx, ev); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("txHash", ev.TxHash).
			Str("operation", string(ev.Operation)).
			Msg("event publish failed")
		metrics.EventsFailed.WithLabelValues(string(ev.Operation)).Inc()
		return
	}
	metrics.EventsPublished.WithLabelValues(string(ev.Operation)).Inc()
}
