package ledger

import "github.com/mr-tron/base58"

// Address is a base58-encoded ledger public key.
type Address string

func (a Address) String() string {
	return string(a)
}

func (a Address) IsNil() bool {
	return a == ""
}

// Check verifies the address decodes as base58. The ledger's own key
// validation is out of scope here; structural validity is enough to reject
// garbage before a round trip.
func (a Address) Check() error {
	if a == "" {
		return ErrInvalidAddress.Msg("address cannot be empty")
	}
	if _, err := base58.Decode(string(a)); err != nil {
		return ErrInvalidAddress.MsgErr("address is not base58: "+string(a), err)
	}
	return nil
}
