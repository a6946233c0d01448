package ledger

import (
	"context"

	"github.com/zkmarket/mintworkersrv/pkg/types"
)

// Account is the fee-payer-level view of a ledger account.
type Account struct {
	PublicKey Address `json:"publicKey"`
	Balance   string  `json:"balance"`
	Nonce     uint32  `json:"nonce"`
}

// TokenAccount is the canonical on-chain state of one named asset under a
// marketplace contract. The reconciler treats this as ground truth.
type TokenAccount struct {
	Address     Address `json:"address"`
	TokenId     string  `json:"tokenId"`
	Name        Field   `json:"name"`
	Owner       Address `json:"owner"`
	Price       Field   `json:"price"`
	Version     string  `json:"version"`
	ContentHash string  `json:"contentHash"`
}

// SubmitResult is the ledger's immediate answer to a submission: accepted into
// the queue ("pending") or rejected outright.
type SubmitResult struct {
	Hash   string `json:"hash"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

const (
	SubmitStatusPending  = "pending"
	SubmitStatusRejected = "rejected"
)

func (r *SubmitResult) Accepted() bool {
	return r != nil && r.Status == SubmitStatusPending
}

// Connector is the ledger collaborator. Account and contract semantics live
// behind it; the worker only sequences calls. Every method is remote I/O with
// no intrinsic latency bound.
type Connector interface {
	// FetchAccount returns fresh account state, or ErrAccountNotFound.
	FetchAccount(ctx context.Context, network types.Network, addr Address) (*Account, error)

	// FetchTokenAccount returns the canonical asset state under the contract,
	// or ErrAccountNotFound when the asset has no on-chain account.
	FetchTokenAccount(ctx context.Context, network types.Network, contract Address, name Field) (*TokenAccount, error)

	// Submit sends a proven transaction. A rejection is reported through the
	// result, not through the error; errors mean the submission itself could
	// not be carried out.
	Submit(ctx context.Context, network types.Network, tx *Transaction) (*SubmitResult, error)

	// CheckInclusion reports whether the transaction is included on chain.
	CheckInclusion(ctx context.Context, network types.Network, hash string) (bool, error)
}
