package ledger

// Operation parameter blobs travel as field arrays (see DeserializeFields).
// Layouts:
//
//	mint: [name, price, contentHash...]  (content hash spans the tail fields)
//	sell: [name, price]
//	buy:  [name, price]

// MintParams describe the asset being minted.
type MintParams struct {
	Name        Field
	Price       Field
	ContentHash string
}

func MintParamsFromFields(fields []Field) (*MintParams, error) {
	if len(fields) < 3 {
		return nil, ErrInvalidEncoding.Msg("mint parameters need name, price and content hash fields")
	}
	hash, err := DecodeStringChunks(fields[2:])
	if err != nil {
		return nil, err
	}
	return &MintParams{
		Name:        fields[0],
		Price:       fields[1],
		ContentHash: hash,
	}, nil
}

func (p *MintParams) ToFields() ([]Field, error) {
	hashFields, err := EncodeStringChunks(p.ContentHash)
	if err != nil {
		return nil, err
	}
	return append([]Field{p.Name, p.Price}, hashFields...), nil
}

// SellParams carry the new listing price for an existing asset.
type SellParams struct {
	Name  Field
	Price Field
}

func SellParamsFromFields(fields []Field) (*SellParams, error) {
	if len(fields) != 2 {
		return nil, ErrInvalidEncoding.Msg("sell parameters need exactly name and price fields")
	}
	return &SellParams{Name: fields[0], Price: fields[1]}, nil
}

// BuyParams carry the purchase of an existing listing. The buyer is the
// transaction's fee payer; it is not part of the parameter blob.
type BuyParams struct {
	Name  Field
	Price Field
}

func BuyParamsFromFields(fields []Field) (*BuyParams, error) {
	if len(fields) != 2 {
		return nil, ErrInvalidEncoding.Msg("buy parameters need exactly name and price fields")
	}
	return &BuyParams{Name: fields[0], Price: fields[1]}, nil
}
