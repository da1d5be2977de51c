package primitives

import (
	"encoding/hex"

	"github.com/Layr-Labs/eosio-keys-go/pkg/codec"
	"github.com/Layr-Labs/eosio-keys-go/pkg/keys"
	"github.com/pkg/errors"
)

// Key type tags on the wire
const (
	KeyTypeK1 codec.VarUint32 = 0
	KeyTypeR1 codec.VarUint32 = 1
)

// PublicKey is the wire form of a public key: a curve tag and a compressed point
type PublicKey struct {
	Type codec.VarUint32
	Data [keys.PublicKeySize]byte
}

// NewPublicKey converts a K1 key into its wire form
func NewPublicKey(pk *keys.PublicKey) PublicKey {
	out := PublicKey{Type: KeyTypeK1}
	copy(out.Data[:], pk.Bytes())
	return out
}

// Key converts a K1 wire key back to a keys.PublicKey
func (p PublicKey) Key() (*keys.PublicKey, error) {
	if p.Type != KeyTypeK1 {
		return nil, errors.Wrapf(ErrUnsupportedKeyType, "type %d", p.Type)
	}
	return keys.PublicKeyFromBytes(p.Data[:])
}

func (p PublicKey) Equal(other PublicKey) bool {
	return p.Type == other.Type && p.Data == other.Data
}

// String returns the hex encoding of the point
func (p PublicKey) String() string {
	return hex.EncodeToString(p.Data[:])
}

func (p PublicKey) EncodedSize() int {
	return p.Type.EncodedSize() + keys.PublicKeySize
}

func (p PublicKey) EncodeInto(buf []byte, pos int) (int, error) {
	next, err := p.Type.EncodeInto(buf, pos)
	if err != nil {
		return pos, err
	}
	return codec.WriteFixed(buf, next, p.Data[:])
}

func (p *PublicKey) DecodeFrom(buf []byte, pos int) (int, error) {
	var out PublicKey
	next, err := out.Type.DecodeFrom(buf, pos)
	if err != nil {
		return pos, err
	}
	if next, err = codec.ReadFixed(buf, next, out.Data[:]); err != nil {
		return pos, err
	}
	*p = out
	return next, nil
}
