package primitives

import (
	"github.com/Layr-Labs/eosio-keys-go/pkg/codec"
	"github.com/Layr-Labs/eosio-keys-go/pkg/keys"
	"github.com/pkg/errors"
)

// Signature is the wire form of a signature: a curve tag and 65 compact bytes
type Signature struct {
	Type codec.VarUint32
	Data [keys.SignatureSize]byte
}

func NewSignature(sig *keys.Signature) Signature {
	out := Signature{Type: KeyTypeK1}
	copy(out.Data[:], sig.Bytes())
	return out
}

// Compact converts a K1 wire signature back to a keys.Signature
func (s Signature) Compact() (*keys.Signature, error) {
	if s.Type != KeyTypeK1 {
		return nil, errors.Wrapf(ErrUnsupportedKeyType, "type %d", s.Type)
	}
	return keys.SignatureFromBytes(s.Data[:])
}

func (s Signature) EncodedSize() int {
	return s.Type.EncodedSize() + keys.SignatureSize
}

func (s Signature) EncodeInto(buf []byte, pos int) (int, error) {
	next, err := s.Type.EncodeInto(buf, pos)
	if err != nil {
		return pos, err
	}
	return codec.WriteFixed(buf, next, s.Data[:])
}

func (s *Signature) DecodeFrom(buf []byte, pos int) (int, error) {
	var out Signature
	next, err := out.Type.DecodeFrom(buf, pos)
	if err != nil {
		return pos, err
	}
	if next, err = codec.ReadFixed(buf, next, out.Data[:]); err != nil {
		return pos, err
	}
	*s = out
	return next, nil
}
