package submitter

import (
	"encoding/json"

	"github.com/zkmarket/mintworkersrv/internal/ledger"
	"github.com/zkmarket/mintworkersrv/pkg/api"
	"github.com/zkmarket/mintworkersrv/pkg/types"
)

// Job is one operation invocation. Transactions carries the client-prepared
// serialized payloads; only the first is consulted.
type Job struct {
	JobId           string
	Operation       types.OperationKind
	Network         types.Network
	ContractAddress ledger.Address
	Transactions    []string
}

// flowState tracks a submission through its state machine. Terminal states
// are statePending (awaiting finality) and stateRejected.
type flowState string

const (
	stateIntentRecorded flowState = "INTENT_RECORDED"
	stateAssembled      flowState = "ASSEMBLED"
	stateSubmitted      flowState = "SUBMITTED"
	statePending        flowState = "PENDING"
	stateRejected       flowState = "REJECTED"
)

// Result is what the job caller gets back: a transaction hash for submitted
// operations, or the serialized bundle for prepare.
type Result struct {
	JobId  string             `json:"jobId"`
	TxHash string             `json:"txHash,omitempty"`
	State  string             `json:"state"`
	Bundle *api.PrepareBundle `json:"bundle,omitempty"`
}

// payload is the first element of Job.Transactions: the client flow's
// serialized skeleton, its signature fragments, and the operation-specific
// parameter blob.
type payload struct {
	SerializedTransaction string `json:"serializedTransaction"`
	SignedData            string `json:"signedData"`
	MintParams            string `json:"mintParams,omitempty"`
	SellParams            string `json:"sellParams,omitempty"`
	BuyParams             string `json:"buyParams,omitempty"`
}

func parsePayload(job *Job) (*payload, error) {
	if len(job.Transactions) == 0 {
		return nil, ErrEmptyJob
	}
	var p payload
	if err := json.Unmarshal([]byte(job.Transactions[0]), &p); err != nil {
		return nil, ErrInvalidPayload.Err(err)
	}
	if p.SerializedTransaction == "" {
		return nil, ErrInvalidPayload.Msg("missing serialized transaction")
	}
	return &p, nil
}

func (p *payload) paramsBlob(op types.OperationKind) (string, error) {
	var blob string
	switch op {
	case types.OperationMint:
		blob = p.MintParams
	case types.OperationSell:
		blob = p.SellParams
	case types.OperationBuy:
		blob = p.BuyParams
	}
	if blob == "" {
		return "", ErrInvalidPayload.Msg("missing parameters for operation " + string(op))
	}
	return blob, nil
}
