package ledger

import (
	"encoding/json"
	"math/big"
)

// Field is a ledger field element in its decimal string form, the encoding
// operation parameters travel in on the wire.
type Field string

// maxFieldBytes is the number of payload bytes a single field can carry.
const maxFieldBytes = 31

// EncodeString packs a short UTF-8 string into one field element.
func EncodeString(s string) (Field, error) {
	b := []byte(s)
	if len(b) == 0 {
		return "", ErrInvalidEncoding.Msg("cannot encode empty string")
	}
	if len(b) > maxFieldBytes {
		return "", ErrInvalidEncoding.Msg("string too long for a single field: " + s)
	}
	n := new(big.Int).SetBytes(b)
	return Field(n.String()), nil
}

// DecodeString unpacks a field element back into the string it encodes.
func (f Field) DecodeString() (string, error) {
	n, ok := new(big.Int).SetString(string(f), 10)
	if !ok || n.Sign() < 0 {
		return "", ErrInvalidEncoding.Msg("not a decimal field: " + string(f))
	}
	return string(n.Bytes()), nil
}

// EncodeStringChunks splits a longer string across consecutive fields.
func EncodeStringChunks(s string) ([]Field, error) {
	if s == "" {
		return nil, ErrInvalidEncoding.Msg("cannot encode empty string")
	}
	var fields []Field
	b := []byte(s)
	for len(b) > 0 {
		n := len(b)
		if n > maxFieldBytes {
			n = maxFieldBytes
		}
		f, err := EncodeString(string(b[:n]))
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
		b = b[n:]
	}
	return fields, nil
}

// DecodeStringChunks reassembles a string split across fields.
func DecodeStringChunks(fields []Field) (string, error) {
	var s string
	for _, f := range fields {
		part, err := f.DecodeString()
		if err != nil {
			return "", err
		}
		s += part
	}
	return s, nil
}

// DeserializeFields parses a serialized parameter blob: a JSON array of
// decimal field strings.
func DeserializeFields(blob string) ([]Field, error) {
	var raw []string
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		return nil, ErrInvalidEncoding.MsgErr("parameter blob is not a field array", err)
	}
	fields := make([]Field, 0, len(raw))
	for _, r := range raw {
		f := Field(r)
		if _, err := f.DecodeString(); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// SerializeFields is the inverse of DeserializeFields.
func SerializeFields(fields []Field) (string, error) {
	raw := make([]string, len(fields))
	for i, f := range fields {
		raw[i] = string(f)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return "", ErrInvalidEncoding.Err(err)
	}
	return string(b), nil
}

// DecimalOrZero returns the field's decimal value, or "0" when it does not
// parse. Prices travel as decimal strings end to end.
func (f Field) DecimalOrZero() string {
	n, ok := new(big.Int).SetString(string(f), 10)
	if !ok || n.Sign() < 0 {
		return "0"
	}
	return n.String()
}
