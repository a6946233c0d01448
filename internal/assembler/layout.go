package assembler

import (
	"strings"

	"github.com/zkmarket/mintworkersrv/internal/ledger"
	"github.com/zkmarket/mintworkersrv/pkg/types"
)

// Role names a signature slot inside a transaction. The contract's
// account-update layout fixes which update each role lands on; call sites
// deal in roles so a layout change stays local to this file.
type Role string

const (
	RoleContract Role = "contract"
	RoleToken    Role = "token"
	RolePayment  Role = "payment"
)

// Layout maps signature roles onto account-update positions for one
// operation. FeePayer signatures live outside the update list and are always
// spliced.
type Layout struct {
	Slots map[Role]int
}

// Mint uses the fixed four-position layout: fee payer plus the contract,
// token and payment updates at their contract-defined indices.
var mintSlots = map[Role]int{
	RoleContract: 0,
	RoleToken:    2,
	RolePayment:  3,
}

// roleOf matches an account-update label to a known role. Labels are
// "<method>.<role>" strings emitted by the client when serializing the
// skeleton.
func roleOf(label string) (Role, bool) {
	idx := strings.LastIndex(label, ".")
	if idx < 0 {
		return "", false
	}
	switch Role(label[idx+1:]) {
	case RoleContract:
		return RoleContract, true
	case RoleToken:
		return RoleToken, true
	case RolePayment:
		return RolePayment, true
	}
	return "", false
}

// ResolveLayout determines the signature slots for an operation against a
// concrete skeleton. Mint is fixed by the contract's layout; sell and buy
// layouts vary with the listing shape and are resolved by matching the
// skeleton's labels.
func ResolveLayout(op types.OperationKind, skel *ledger.Skeleton) (*Layout, error) {
	switch op {
	case types.OperationMint:
		if len(skel.AccountUpdates) < 4 {
			return nil, ErrInvalidLayout.Msg("mint skeleton needs at least four account updates")
		}
		return &Layout{Slots: mintSlots}, nil

	case types.OperationSell, types.OperationBuy:
		slots := make(map[Role]int)
		for i, u := range skel.AccountUpdates {
			role, ok := roleOf(u.Label)
			if !ok {
				continue
			}
			if _, dup := slots[role]; dup {
				return nil, ErrInvalidLayout.Msg("duplicate role in skeleton: " + string(role))
			}
			slots[role] = i
		}
		if _, ok := slots[RoleToken]; !ok {
			return nil, ErrInvalidLayout.Msg("skeleton has no token update")
		}
		return &Layout{Slots: slots}, nil
	}
	return nil, ErrInvalidLayout.Msg("no signature layout for operation " + string(op))
}

// Splice attaches the client's signature fragments onto the rebuilt
// transaction at the layout's positions.
func Splice(tx *ledger.Transaction, env *ledger.SignedEnvelope, layout *Layout) error {
	tx.FeePayer.Authorization = env.FeePayerAuthorization
	for role, pos := range layout.Slots {
		if pos >= len(tx.AccountUpdates) {
			return ErrInvalidLayout.Msg("layout position for role " + string(role) + " is outside the transaction")
		}
		sig, err := env.SignatureAt(pos)
		if err != nil {
			return ErrMissingFragment.MsgErr("no signature for role "+string(role), err)
		}
		tx.AccountUpdates[pos].Authorization.Signature = sig
	}
	return nil
}
