package api

import (
	"encoding/json"
	"time"

	hatchapi "github.com/mugiliam/hatchsrv/pkg/api"
)

// SubmitJobReq carries one operation job. Transactions holds the serialized
// payloads prepared by the client flow; the worker consults only the first.
type SubmitJobReq struct {
	JobId           string   `json:"jobId,omitempty"`
	Operation       string   `json:"operation" validate:"required,operationValidator"`
	Network         string   `json:"network" validate:"required,networkValidator"`
	ContractAddress string   `json:"contractAddress" validate:"required,base58Validator"`
	Transactions    []string `json:"transactions,omitempty"`
}

func (r SubmitJobReq) RequestMethod() (string, string) {
	return "POST", "/jobs"
}

func (r SubmitJobReq) AuthMethod() hatchapi.AuthMethod {
	return hatchapi.AuthMethodIdToken
}

type SubmitJobRsp struct {
	JobId  string         `json:"jobId"`
	TxHash string         `json:"txHash,omitempty"`
	State  string         `json:"state"`
	Bundle *PrepareBundle `json:"bundle,omitempty"`
}

// PrepareBundle is everything a client needs to sign and resubmit a mint:
// the unsigned transaction in both structured and serialized form, the
// operation parameter blob, and the reservation grant backing the name.
type PrepareBundle struct {
	Transaction           json.RawMessage   `json:"transaction"`
	SerializedTransaction string            `json:"serializedTransaction"`
	OperationParams       string            `json:"operationParams"`
	Fee                   uint64            `json:"fee"`
	Memo                  string            `json:"memo"`
	Reservation           *ReservationGrant `json:"reservation,omitempty"`
}

// ReservationGrant is the signed name reservation the prepare flow obtained on
// the caller's behalf.
type ReservationGrant struct {
	Name      string    `json:"name"`
	Signature string    `json:"signature"`
	Price     string    `json:"price"`
	Expiry    time.Time `json:"expiry"`
}

type GetEntryReq struct {
	ObjectId string `json:"objectId"`
}

func (r GetEntryReq) RequestMethod() (string, string) {
	return "GET", "/entries/{objectId}"
}

func (r GetEntryReq) AuthMethod() hatchapi.AuthMethod {
	return hatchapi.AuthMethodIdToken
}

// ResolveTransactionReq asks the worker to resolve the fate of a previously
// submitted transaction and reconcile the catalog accordingly.
type ResolveTransactionReq struct {
	Network         string    `json:"network" validate:"required,networkValidator"`
	ContractAddress string    `json:"contractAddress" validate:"required,base58Validator"`
	Name            string    `json:"name" validate:"required,assetNameValidator"`
	JobId           string    `json:"jobId,omitempty"`
	TxHash          string    `json:"txHash" validate:"required"`
	SubmittedAt     time.Time `json:"submittedAt"`
}

func (r ResolveTransactionReq) RequestMethod() (string, string) {
	return "POST", "/transactions/resolve"
}

func (r ResolveTransactionReq) AuthMethod() hatchapi.AuthMethod {
	return hatchapi.AuthMethodIdToken
}

type ResolveTransactionRsp struct {
	TxHash  string `json:"txHash"`
	Outcome string `json:"outcome"`
}
