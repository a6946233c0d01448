package types

import "strings"

// Network identifies one of the ledger environments the worker is allowed to
// submit to. Anything outside the allow-list is rejected before any side effect.
type Network string

const (
	NetworkDevnet  Network = "devnet"
	NetworkMainnet Network = "mainnet"
	NetworkZeko    Network = "zeko"
)

var allowedNetworks = []Network{
	NetworkDevnet,
	NetworkMainnet,
	NetworkZeko,
}

func (n Network) IsValid() bool {
	for _, a := range allowedNetworks {
		if n == a {
			return true
		}
	}
	return false
}

// HasFastFinality reports whether transaction inclusion on this network can be
// re-queried directly. Mainnet finality is only observable through a
// third-party explorer.
func (n Network) HasFastFinality() bool {
	return n == NetworkDevnet || n == NetworkZeko
}

func AllowedNetworks() []Network {
	nets := make([]Network, len(allowedNetworks))
	copy(nets, allowedNetworks)
	return nets
}

// OperationKind is the closed set of marketplace operations the worker handles.
type OperationKind string

const (
	OperationInvalid OperationKind = "invalid"
	OperationMint    OperationKind = "mint"
	OperationSell    OperationKind = "sell"
	OperationBuy     OperationKind = "buy"
	OperationPrepare OperationKind = "prepare"
)

func ParseOperationKind(s string) OperationKind {
	switch OperationKind(s) {
	case OperationMint, OperationSell, OperationBuy, OperationPrepare:
		return OperationKind(s)
	}
	return OperationInvalid
}

// EntryStatus is the catalog-visible lifecycle state of an asset entry.
type EntryStatus string

const (
	StatusCreated  EntryStatus = "created"
	StatusPending  EntryStatus = "pending"
	StatusApplied  EntryStatus = "applied"
	StatusFailed   EntryStatus = "failed"
	StatusReplaced EntryStatus = "replaced"
)

// statusTransitions enumerates the allowed entry lifecycle moves. Applied and
// replaced are terminal for status purposes; owner and price fields of an
// applied entry are still mutated in place by later sell/buy operations.
var statusTransitions = map[EntryStatus][]EntryStatus{
	StatusCreated:  {StatusPending, StatusFailed},
	StatusPending:  {StatusApplied, StatusReplaced},
	StatusFailed:   {},
	StatusApplied:  {},
	StatusReplaced: {},
}

func (s EntryStatus) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

func (s EntryStatus) CanTransitionTo(next EntryStatus) bool {
	for _, t := range statusTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// IsIntent reports whether the status marks an optimistic write made before
// the ledger has accepted anything. Intent writes are uniqueness-guarded;
// everything later is allowed to overwrite.
func (s EntryStatus) IsIntent() bool {
	return s == StatusCreated || s == StatusFailed
}

// ObjectId is the catalog's natural key: network + "." + contract + "." + name.
type ObjectId string

func ObjectIdFor(network Network, contractAddress, name string) ObjectId {
	return ObjectId(string(network) + "." + contractAddress + "." + name)
}

func (o ObjectId) String() string {
	return string(o)
}

func (o ObjectId) IsNil() bool {
	return o == ""
}

// Split decomposes the id back into its triple. The asset name may itself
// contain dots, so only the first two separators are structural.
func (o ObjectId) Split() (network Network, contractAddress, name string, ok bool) {
	parts := strings.SplitN(string(o), ".", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", false
	}
	return Network(parts[0]), parts[1], parts[2], true
}

type Nullable interface {
	IsNil() bool
}
