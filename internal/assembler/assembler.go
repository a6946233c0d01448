package assembler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zkmarket/mintworkersrv/internal/ledger"
	"github.com/zkmarket/mintworkersrv/internal/metrics"
	"github.com/zkmarket/mintworkersrv/pkg/types"
)

// Prover generates the zero-knowledge proofs for a spliced transaction and
// returns the submittable result. This is the single longest-latency step in
// a submission; it carries no internal timeout, cancellation is the caller's
// job through ctx.
type Prover interface {
	Prove(ctx context.Context, tx *ledger.Transaction) (*ledger.Transaction, error)
}

// Request carries everything the client flow prepared for one operation.
type Request struct {
	Operation             types.OperationKind
	Network               types.Network
	Contract              ledger.Address
	SerializedTransaction string
	SignedData            string
	ParamsBlob            string
}

// Assembler reconstructs a live transaction from a client skeleton, splices
// the client's signature fragments onto it and drives proof generation.
type Assembler struct {
	connector ledger.Connector
	prover    Prover
	compiler  Compiler
	keys      *KeyCache
}

func New(connector ledger.Connector, prover Prover, compiler Compiler, keys *KeyCache) *Assembler {
	return &Assembler{
		connector: connector,
		prover:    prover,
		compiler:  compiler,
		keys:      keys,
	}
}

// Assemble produces a submittable transaction, or fails with an
// ErrAssemblyError descendant when any parameter, position or signature is
// structurally invalid. ErrEnvironmentInconsistency escapes untouched; it is
// fatal, not an assembly problem.
func (a *Assembler) Assemble(ctx context.Context, req *Request) (*ledger.Transaction, error) {
	if err := a.keys.Ensure(ctx, a.compiler); err != nil {
		return nil, err
	}
	if err := req.Contract.Check(); err != nil {
		return nil, ErrAssemblyError.Err(err)
	}

	skel, err := ledger.DeserializeSkeleton(req.SerializedTransaction)
	if err != nil {
		return nil, ErrAssemblyError.Err(err)
	}
	env, err := ledger.ParseSignedEnvelope(req.SignedData)
	if err != nil {
		return nil, ErrAssemblyError.Err(err)
	}
	if err := a.checkParams(req); err != nil {
		return nil, err
	}

	// Rebuild against current chain state: both the contract and the sender
	// account must be fetched fresh, the skeleton's nonce may be stale.
	if _, err := a.connector.FetchAccount(ctx, req.Network, req.Contract); err != nil {
		return nil, ErrAssemblyError.MsgErr("contract account fetch failed", err)
	}
	sender, err := a.connector.FetchAccount(ctx, req.Network, skel.FeePayer.Sender)
	if err != nil {
		return nil, ErrAssemblyError.MsgErr("sender account fetch failed", err)
	}
	if sender.Nonce != skel.FeePayer.Nonce {
		log.Ctx(ctx).Warn().
			Uint32("accountNonce", sender.Nonce).
			Uint32("skeletonNonce", skel.FeePayer.Nonce).
			Str("sender", sender.PublicKey.String()).
			Msg("skeleton nonce differs from current account nonce")
	}

	tx := ledger.NewTransaction(skel)

	layout, err := ResolveLayout(req.Operation, skel)
	if err != nil {
		return nil, err
	}
	if err := Splice(tx, env, layout); err != nil {
		return nil, err
	}

	start := time.Now()
	proven, err := a.prover.Prove(ctx, tx)
	metrics.ProofDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, ErrProofFailed.Err(err)
	}
	return proven, nil
}

// Degraded reports whether verification-key setup failed terminally. The
// readiness probe serves this so the deployment recycles the worker instead
// of letting it answer every submission with the same failure.
func (a *Assembler) Degraded() bool {
	return a.keys.Degraded()
}

// checkParams validates the operation parameter blob decodes into the typed
// data the operation expects.
func (a *Assembler) checkParams(req *Request) error {
	fields, err := ledger.DeserializeFields(req.ParamsBlob)
	if err != nil {
		return ErrInvalidParams.Err(err)
	}
	switch req.Operation {
	case types.OperationMint:
		_, err = ledger.MintParamsFromFields(fields)
	case types.OperationSell:
		_, err = ledger.SellParamsFromFields(fields)
	case types.OperationBuy:
		_, err = ledger.BuyParamsFromFields(fields)
	default:
		return ErrInvalidParams.Msg("operation " + string(req.Operation) + " has no parameter layout")
	}
	if err != nil {
		return ErrInvalidParams.Err(err)
	}
	return nil
}
