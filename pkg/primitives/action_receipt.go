package primitives

import (
	"github.com/Layr-Labs/eosio-keys-go/pkg/codec"
	"github.com/Layr-Labs/eosio-keys-go/pkg/name"
)

// AuthSequence is the per-authorizer sequence number recorded in a receipt
type AuthSequence struct {
	Account  name.Name `json:"account"`
	Sequence uint64    `json:"sequence"`
}

func NewAuthSequence(account string, sequence uint64) (AuthSequence, error) {
	n, err := name.Parse(account)
	if err != nil {
		return AuthSequence{}, err
	}
	return AuthSequence{Account: n, Sequence: sequence}, nil
}

func (a AuthSequence) EncodedSize() int {
	return a.Account.EncodedSize() + 8
}

func (a AuthSequence) EncodeInto(buf []byte, pos int) (int, error) {
	next, err := a.Account.EncodeInto(buf, pos)
	if err != nil {
		return pos, err
	}
	return codec.WriteUint64(buf, next, a.Sequence)
}

func (a *AuthSequence) DecodeFrom(buf []byte, pos int) (int, error) {
	var out AuthSequence
	next, err := out.Account.DecodeFrom(buf, pos)
	if err != nil {
		return pos, err
	}
	if out.Sequence, next, err = codec.ReadUint64(buf, next); err != nil {
		return pos, err
	}
	*a = out
	return next, nil
}

// ActionReceipt records the execution of an action. Its digest commits to
// every field in declared order.
type ActionReceipt struct {
	Receiver       name.Name       `json:"receiver"`
	ActDigest      Checksum256     `json:"act_digest"`
	GlobalSequence uint64          `json:"global_sequence"`
	RecvSequence   uint64          `json:"recv_sequence"`
	AuthSequence   []AuthSequence  `json:"auth_sequence"`
	CodeSequence   codec.VarUint32 `json:"code_sequence"`
	AbiSequence    codec.VarUint32 `json:"abi_sequence"`
}

// NewActionReceipt parses the receiver name and the hex action digest
func NewActionReceipt(
	receiver string,
	digestHex string,
	globalSequence uint64,
	recvSequence uint64,
	authSequence []AuthSequence,
	codeSequence uint32,
	abiSequence uint32,
) (*ActionReceipt, error) {
	r, err := name.Parse(receiver)
	if err != nil {
		return nil, err
	}
	digest, err := Checksum256FromHex(digestHex)
	if err != nil {
		return nil, err
	}
	return &ActionReceipt{
		Receiver:       r,
		ActDigest:      digest,
		GlobalSequence: globalSequence,
		RecvSequence:   recvSequence,
		AuthSequence:   authSequence,
		CodeSequence:   codec.VarUint32(codeSequence),
		AbiSequence:    codec.VarUint32(abiSequence),
	}, nil
}

func (r *ActionReceipt) SerializeData() ([]byte, error) {
	return codec.Pack(r)
}

// Digest is the SHA-256 of the canonical encoding
func (r *ActionReceipt) Digest() (Checksum256, error) {
	data, err := r.SerializeData()
	if err != nil {
		return Checksum256{}, err
	}
	return Sha256Of(data), nil
}

func (r *ActionReceipt) EncodedSize() int {
	return r.Receiver.EncodedSize() +
		r.ActDigest.EncodedSize() +
		8 + 8 +
		codec.VectorSize(r.AuthSequence) +
		r.CodeSequence.EncodedSize() +
		r.AbiSequence.EncodedSize()
}

func (r *ActionReceipt) EncodeInto(buf []byte, pos int) (int, error) {
	next, err := r.Receiver.EncodeInto(buf, pos)
	if err != nil {
		return pos, err
	}
	if next, err = r.ActDigest.EncodeInto(buf, next); err != nil {
		return pos, err
	}
	if next, err = codec.WriteUint64(buf, next, r.GlobalSequence); err != nil {
		return pos, err
	}
	if next, err = codec.WriteUint64(buf, next, r.RecvSequence); err != nil {
		return pos, err
	}
	if next, err = codec.WriteVector(buf, next, r.AuthSequence); err != nil {
		return pos, err
	}
	if next, err = r.CodeSequence.EncodeInto(buf, next); err != nil {
		return pos, err
	}
	if next, err = r.AbiSequence.EncodeInto(buf, next); err != nil {
		return pos, err
	}
	return next, nil
}

func (r *ActionReceipt) DecodeFrom(buf []byte, pos int) (int, error) {
	var out ActionReceipt
	next, err := out.Receiver.DecodeFrom(buf, pos)
	if err != nil {
		return pos, err
	}
	if next, err = out.ActDigest.DecodeFrom(buf, next); err != nil {
		return pos, err
	}
	if out.GlobalSequence, next, err = codec.ReadUint64(buf, next); err != nil {
		return pos, err
	}
	if out.RecvSequence, next, err = codec.ReadUint64(buf, next); err != nil {
		return pos, err
	}
	if out.AuthSequence, next, err = codec.ReadVector[AuthSequence](buf, next); err != nil {
		return pos, err
	}
	if next, err = out.CodeSequence.DecodeFrom(buf, next); err != nil {
		return pos, err
	}
	if next, err = out.AbiSequence.DecodeFrom(buf, next); err != nil {
		return pos, err
	}
	*r = out
	return next, nil
}
