package finality

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zkmarket/mintworkersrv/internal/catalog"
	"github.com/zkmarket/mintworkersrv/internal/ledger"
	"github.com/zkmarket/mintworkersrv/internal/metadata"
	"github.com/zkmarket/mintworkersrv/pkg/types"
)

// TransactionRef identifies a previously submitted transaction awaiting
// finality.
type TransactionRef struct {
	Network     types.Network  `json:"network"`
	Contract    ledger.Address `json:"contract"`
	Name        string         `json:"name"`
	JobId       string         `json:"jobId"`
	TxHash      string         `json:"txHash"`
	SubmittedAt time.Time      `json:"submittedAt"`
}

// Reconciler resolves a pending transaction and brings the catalog back to
// canonical on-chain truth.
type Reconciler struct {
	store     catalog.Store
	connector ledger.Connector
	metadata  *metadata.Assembler
	resolver  *Resolver
}

func NewReconciler(store catalog.Store, connector ledger.Connector, md *metadata.Assembler, resolver *Resolver) *Reconciler {
	return &Reconciler{
		store:     store,
		connector: connector,
		metadata:  md,
		resolver:  resolver,
	}
}

// Run resolves the transaction's outcome and reconciles the catalog.
// Returns ErrUnresolved while the outcome is still open so callers retry.
func (r *Reconciler) Run(ctx context.Context, ref *TransactionRef) (Outcome, error) {
	outcome := r.resolver.Resolve(ctx, ref.Network, ref.TxHash, ref.SubmittedAt)
	switch outcome {
	case OutcomePending:
		return outcome, ErrUnresolved.Msg("transaction " + ref.TxHash + " is still pending")
	case OutcomeApplied:
		r.reconcileApplied(ctx, ref)
		return outcome, nil
	case OutcomeReplaced:
		r.markReplaced(ctx, ref)
		return outcome, nil
	}
	return outcome, ErrFinalityError.Msg("unknown outcome " + string(outcome))
}

// reconcileApplied overwrites the catalog entry wholesale from the ledger
// account, superseding any earlier optimistic write. Reconciliation failures
// leave the entry in its last known state; they are logged, never propagated,
// because the submission outcome itself is already settled.
func (r *Reconciler) reconcileApplied(ctx context.Context, ref *TransactionRef) {
	nameField, err := ledger.EncodeString(ref.Name)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("name", ref.Name).Msg("cannot encode asset name for reconciliation")
		return
	}
	acct, err := r.connector.FetchTokenAccount(ctx, ref.Network, ref.Contract, nameField)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("contract", ref.Contract.String()).
			Str("name", ref.Name).
			Msg("no ledger account found, leaving catalog untouched")
		return
	}

	name, err := acct.Name.DecodeString()
	if err != nil || name == "" {
		name = ref.Name
	}

	doc, err := r.metadata.Assemble(ctx, acct.ContentHash, name)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("hash", acct.ContentHash).
			Msg("no metadata found for hash, aborting reconciliation")
		return
	}

	entry := &catalog.Entry{
		ObjectId:        types.ObjectIdFor(ref.Network, ref.Contract.String(), name),
		Network:         ref.Network,
		ContractAddress: ref.Contract.String(),
		Name:            name,
		Owner:           acct.Owner.String(),
		Price:           acct.Price.DecimalOrZero(),
		Status:          types.StatusApplied,
		JobId:           ref.JobId,
		ContentHash:     acct.ContentHash,
		TxHash:          ref.TxHash,
		Version:         acct.Version,
	}
	metadata.Merge(entry, doc)

	if err := r.store.CreateEntry(ctx, entry); err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("objectId", entry.ObjectId.String()).
			Msg("catalog overwrite failed during reconciliation")
	}
}

func (r *Reconciler) markReplaced(ctx context.Context, ref *TransactionRef) {
	id := types.ObjectIdFor(ref.Network, ref.Contract.String(), ref.Name)
	_, err := r.store.UpdateEntryFields(ctx, id, func(e *catalog.Entry) error {
		if !e.Status.CanTransitionTo(types.StatusReplaced) {
			return catalog.ErrInvalidTransition.Msg(string(e.Status) + " -> " + string(types.StatusReplaced))
		}
		e.Status = types.StatusReplaced
		return nil
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("objectId", id.String()).
			Msg("unable to mark catalog entry replaced")
	}
}
