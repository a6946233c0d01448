package finality

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zkmarket/mintworkersrv/internal/ledger"
	"github.com/zkmarket/mintworkersrv/internal/metrics"
	"github.com/zkmarket/mintworkersrv/pkg/types"
)

// Outcome is the resolved fate of a previously pending transaction.
type Outcome string

const (
	OutcomeApplied  Outcome = "applied"
	OutcomePending  Outcome = "pending"
	OutcomeReplaced Outcome = "replaced"
)

// FastPathBound is how long a fast-finality network gets to confirm a
// transaction before the resolver declares it replaced.
const FastPathBound = 21 * time.Minute

// Resolver determines whether a submitted transaction ultimately applied or
// was replaced/dropped.
type Resolver struct {
	connector ledger.Connector
	explorer  Explorer
	now       func() time.Time
}

func NewResolver(connector ledger.Connector, explorer Explorer) *Resolver {
	return &Resolver{
		connector: connector,
		explorer:  explorer,
		now:       time.Now,
	}
}

// Resolve picks the path by network class. Fast-finality networks re-query
// inclusion directly and time out to replaced after FastPathBound. Slow
// networks ask the explorer; an explorer failure or unknown status resolves
// to replaced rather than retrying forever — absence of explorer data after
// the initial pending is presumed non-finalization.
func (r *Resolver) Resolve(ctx context.Context, network types.Network, hash string, submittedAt time.Time) Outcome {
	if network.HasFastFinality() {
		outcome := r.resolveFast(ctx, network, hash, submittedAt)
		metrics.FinalityResolutionsTotal.WithLabelValues("fast", string(outcome)).Inc()
		return outcome
	}
	outcome := r.resolveExplorer(ctx, hash)
	metrics.FinalityResolutionsTotal.WithLabelValues("explorer", string(outcome)).Inc()
	return outcome
}

func (r *Resolver) resolveFast(ctx context.Context, network types.Network, hash string, submittedAt time.Time) Outcome {
	included, err := r.connector.CheckInclusion(ctx, network, hash)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("network", string(network)).
			Str("hash", hash).
			Msg("error while checking transaction inclusion")
		return OutcomeReplaced
	}
	if included {
		return OutcomeApplied
	}
	if r.now().Sub(submittedAt) > FastPathBound {
		log.Ctx(ctx).Error().
			Str("network", string(network)).
			Str("hash", hash).
			Msg("timeout while waiting for transaction confirmation")
		return OutcomeReplaced
	}
	return OutcomePending
}

func (r *Resolver) resolveExplorer(ctx context.Context, hash string) Outcome {
	status, err := r.explorer.TransactionStatus(ctx, hash)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("hash", hash).Msg("explorer lookup failed")
		return OutcomeReplaced
	}
	switch status {
	case "applied":
		return OutcomeApplied
	case "pending", "in_mempool":
		return OutcomePending
	case "failed", "replaced":
		return OutcomeReplaced
	}
	// No definitive status is treated as a terminal negative.
	return OutcomeReplaced
}
