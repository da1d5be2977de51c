package primitives

import (
	"github.com/Layr-Labs/eosio-keys-go/pkg/asset"
	"github.com/Layr-Labs/eosio-keys-go/pkg/codec"
	"github.com/Layr-Labs/eosio-keys-go/pkg/name"
)

var transferActionName = name.MustParse("transfer")

// ActionTransfer is the eosio.token::transfer payload
type ActionTransfer struct {
	From     name.Name   `json:"from"`
	To       name.Name   `json:"to"`
	Quantity asset.Asset `json:"quantity"`
	Memo     string      `json:"memo"`
}

// NewActionTransferFromStrings parses the account names and the "1.0000 EOS" style quantity
func NewActionTransferFromStrings(from, to, quantity, memo string) (*ActionTransfer, error) {
	f, err := name.Parse(from)
	if err != nil {
		return nil, err
	}
	t, err := name.Parse(to)
	if err != nil {
		return nil, err
	}
	q, err := asset.Parse(quantity)
	if err != nil {
		return nil, err
	}
	return &ActionTransfer{From: f, To: t, Quantity: q, Memo: memo}, nil
}

func (t *ActionTransfer) ActionName() name.Name {
	return transferActionName
}

func (t *ActionTransfer) EncodedSize() int {
	return t.From.EncodedSize() + t.To.EncodedSize() + t.Quantity.EncodedSize() + codec.StringSize(t.Memo)
}

func (t *ActionTransfer) EncodeInto(buf []byte, pos int) (int, error) {
	next, err := t.From.EncodeInto(buf, pos)
	if err != nil {
		return pos, err
	}
	if next, err = t.To.EncodeInto(buf, next); err != nil {
		return pos, err
	}
	if next, err = t.Quantity.EncodeInto(buf, next); err != nil {
		return pos, err
	}
	if next, err = codec.WriteString(buf, next, t.Memo); err != nil {
		return pos, err
	}
	return next, nil
}

func (t *ActionTransfer) DecodeFrom(buf []byte, pos int) (int, error) {
	var out ActionTransfer
	next, err := out.From.DecodeFrom(buf, pos)
	if err != nil {
		return pos, err
	}
	if next, err = out.To.DecodeFrom(buf, next); err != nil {
		return pos, err
	}
	if next, err = out.Quantity.DecodeFrom(buf, next); err != nil {
		return pos, err
	}
	if out.Memo, next, err = codec.ReadString(buf, next); err != nil {
		return pos, err
	}
	*t = out
	return next, nil
}
