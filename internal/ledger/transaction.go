package ledger

import (
	"encoding/json"
	"strconv"
)

// TransactionParams are the fee-payer parameters carried by the client's
// serialized skeleton.
type TransactionParams struct {
	Sender Address `json:"sender"`
	Fee    uint64  `json:"fee"`
	Nonce  uint32  `json:"nonce"`
	Memo   string  `json:"memo"`
}

// AccountUpdateSkeleton is one account update of the skeleton, before
// signatures and proofs are attached. Label names the contract method the
// update belongs to; it is what operation layouts match on.
type AccountUpdateSkeleton struct {
	Label     string  `json:"label"`
	PublicKey Address `json:"publicKey"`
	TokenId   string  `json:"tokenId,omitempty"`
	CallDepth int     `json:"callDepth"`
}

// Skeleton is a client-prepared transaction shape: fee payer parameters plus
// the ordered account updates, without authorizations.
type Skeleton struct {
	FeePayer       TransactionParams       `json:"feePayer"`
	AccountUpdates []AccountUpdateSkeleton `json:"accountUpdates"`
}

// DeserializeSkeleton parses the client-supplied serialized transaction.
func DeserializeSkeleton(serialized string) (*Skeleton, error) {
	if serialized == "" {
		return nil, ErrInvalidSkeleton.Msg("serialized transaction is empty")
	}
	var s Skeleton
	if err := json.Unmarshal([]byte(serialized), &s); err != nil {
		return nil, ErrInvalidSkeleton.Err(err)
	}
	if err := s.FeePayer.Sender.Check(); err != nil {
		return nil, ErrInvalidSkeleton.Err(err)
	}
	if len(s.AccountUpdates) == 0 {
		return nil, ErrInvalidSkeleton.Msg("skeleton has no account updates")
	}
	return &s, nil
}

func (s *Skeleton) Serialize() (string, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return "", ErrInvalidSkeleton.Err(err)
	}
	return string(b), nil
}

// TransactionParamsOf extracts only the fee-payer parameters from a
// serialized skeleton.
func TransactionParamsOf(serialized string) (*TransactionParams, error) {
	s, err := DeserializeSkeleton(serialized)
	if err != nil {
		return nil, err
	}
	p := s.FeePayer
	return &p, nil
}

// Authorization is the signature or proof attached to one account update.
type Authorization struct {
	Signature string `json:"signature,omitempty"`
	Proof     string `json:"proof,omitempty"`
}

// AccountUpdate is a live account update: skeleton plus authorization.
type AccountUpdate struct {
	AccountUpdateSkeleton
	Authorization Authorization `json:"authorization"`
}

// FeePayer is the live fee-payer section of a transaction.
type FeePayer struct {
	TransactionParams
	Authorization string `json:"authorization,omitempty"`
}

// Transaction is a rebuilt, submittable transaction.
type Transaction struct {
	FeePayer       FeePayer        `json:"feePayer"`
	AccountUpdates []AccountUpdate `json:"accountUpdates"`
}

// NewTransaction rebuilds a live transaction from a skeleton.
func NewTransaction(skel *Skeleton) *Transaction {
	updates := make([]AccountUpdate, len(skel.AccountUpdates))
	for i, u := range skel.AccountUpdates {
		updates[i] = AccountUpdate{AccountUpdateSkeleton: u}
	}
	return &Transaction{
		FeePayer:       FeePayer{TransactionParams: skel.FeePayer},
		AccountUpdates: updates,
	}
}

// SignedEnvelope carries the client's signature fragments: the fee-payer
// authorization and per-update signatures aligned positionally with the
// skeleton's account updates.
type SignedEnvelope struct {
	FeePayerAuthorization string
	Signatures            []string
}

type signedCommand struct {
	Command struct {
		FeePayer struct {
			Authorization string `json:"authorization"`
		} `json:"feePayer"`
		AccountUpdates []struct {
			Authorization struct {
				Signature string `json:"signature"`
			} `json:"authorization"`
		} `json:"accountUpdates"`
	} `json:"command"`
}

// ParseSignedEnvelope parses the signed-data payload produced by the client's
// wallet flow.
func ParseSignedEnvelope(signedData string) (*SignedEnvelope, error) {
	if signedData == "" {
		return nil, ErrInvalidEnvelope.Msg("signed data is empty")
	}
	var sc signedCommand
	if err := json.Unmarshal([]byte(signedData), &sc); err != nil {
		return nil, ErrInvalidEnvelope.Err(err)
	}
	if sc.Command.FeePayer.Authorization == "" {
		return nil, ErrInvalidEnvelope.Msg("missing fee payer authorization")
	}
	env := &SignedEnvelope{
		FeePayerAuthorization: sc.Command.FeePayer.Authorization,
		Signatures:            make([]string, len(sc.Command.AccountUpdates)),
	}
	for i, u := range sc.Command.AccountUpdates {
		env.Signatures[i] = u.Authorization.Signature
	}
	return env, nil
}

// SignatureAt returns the signature at a skeleton position, or an error when
// the position is absent or unsigned.
func (e *SignedEnvelope) SignatureAt(pos int) (string, error) {
	if pos < 0 || pos >= len(e.Signatures) {
		return "", ErrInvalidEnvelope.Msg("no signature at position " + strconv.Itoa(pos))
	}
	if e.Signatures[pos] == "" {
		return "", ErrInvalidEnvelope.Msg("position " + strconv.Itoa(pos) + " is unsigned")
	}
	return e.Signatures[pos], nil
}
