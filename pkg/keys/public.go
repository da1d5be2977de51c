package keys

import (
	"strings"

	"github.com/Layr-Labs/eosio-keys-go/pkg/base58"
	"github.com/Layr-Labs/eosio-keys-go/pkg/crypto"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/pkg/errors"
)

const (
	// PublicKeySize is the length of a compressed secp256k1 point
	PublicKeySize = 33

	// LegacyPublicKeyPrefix starts the original EOS public key format
	LegacyPublicKeyPrefix = "EOS"
	// K1PublicKeyPrefix starts the curve-tagged public key format
	K1PublicKeyPrefix = "PUB_K1_"

	curveK1 = "K1"
)

// PublicKey is a secp256k1 point. It is always serialized compressed, which
// is the only form EOSIO accepts.
type PublicKey struct {
	key *secp256k1.PublicKey
}

// PublicKeyFromSecret derives the public point of sk. Pure and deterministic.
func PublicKeyFromSecret(sk *SecretKey) *PublicKey {
	return &PublicKey{key: sk.key.PubKey()}
}

// PublicKeyFromBytes parses a compressed (33 byte) or uncompressed (65 byte) point
func PublicKeyFromBytes(b []byte) (*PublicKey, error) {
	key, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidPublicKey, "%v", err)
	}
	return &PublicKey{key: key}, nil
}

// ParsePublicKey accepts both the legacy "EOS…" and the "PUB_K1_…" text forms
func ParsePublicKey(s string) (*PublicKey, error) {
	var data []byte
	var err error

	switch {
	case strings.HasPrefix(s, K1PublicKeyPrefix):
		data, err = base58.RipemdCheckDecode(strings.TrimPrefix(s, K1PublicKeyPrefix), curveK1)
	case strings.HasPrefix(s, LegacyPublicKeyPrefix):
		data, err = base58.RipemdCheckDecode(strings.TrimPrefix(s, LegacyPublicKeyPrefix), "")
	default:
		return nil, errors.Wrapf(ErrInvalidPrefix, "public key %q", s)
	}
	if err != nil {
		return nil, err
	}
	if len(data) != PublicKeySize {
		return nil, errors.Wrapf(ErrInvalidLength, "public key must be %d bytes, got %d", PublicKeySize, len(data))
	}
	return PublicKeyFromBytes(data)
}

// Bytes returns the 33-byte compressed point
func (pk *PublicKey) Bytes() []byte {
	return pk.key.SerializeCompressed()
}

// UncompressedBytes returns the 65-byte 0x04-prefixed point
func (pk *PublicKey) UncompressedBytes() []byte {
	return pk.key.SerializeUncompressed()
}

// String returns the legacy "EOS" + base58(point || ripemd160(point)[:4]) form
func (pk *PublicKey) String() string {
	return LegacyPublicKeyPrefix + base58.RipemdCheckEncode(pk.Bytes(), "")
}

// StringK1 returns the "PUB_K1_" form, whose checksum also covers the curve tag
func (pk *PublicKey) StringK1() string {
	return K1PublicKeyPrefix + base58.RipemdCheckEncode(pk.Bytes(), curveK1)
}

func (pk *PublicKey) Equal(other *PublicKey) bool {
	if pk == nil || other == nil {
		return pk == other
	}
	return pk.key.IsEqual(other.key)
}

// Verify hashes message with SHA-256 and checks sig against it.
// A mismatch is reported as false, never as an error.
func (pk *PublicKey) Verify(message []byte, sig *Signature) bool {
	digest := crypto.Sha256(message)
	return pk.VerifyHash(digest[:], sig)
}

// VerifyHash checks sig against a 32-byte digest
func (pk *PublicKey) VerifyHash(hash []byte, sig *Signature) bool {
	if sig == nil || len(hash) != DigestSize {
		return false
	}
	r, s, ok := sig.scalars()
	if !ok {
		return false
	}
	return ecdsa.NewSignature(&r, &s).Verify(hash, pk.key)
}

// MarshalText implements encoding.TextMarshaler with the legacy form
func (pk *PublicKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (pk *PublicKey) UnmarshalText(text []byte) error {
	parsed, err := ParsePublicKey(string(text))
	if err != nil {
		return err
	}
	*pk = *parsed
	return nil
}
