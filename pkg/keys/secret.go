package keys

import (
	"crypto/subtle"
	"io"

	"github.com/Layr-Labs/eosio-keys-go/pkg/base58"
	"github.com/Layr-Labs/eosio-keys-go/pkg/crypto"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

const (
	// SecretKeySize is the length of a raw secp256k1 scalar
	SecretKeySize = 32

	wifUncompressedLength = 1 + SecretKeySize
	wifCompressedLength   = wifUncompressedLength + 1
	wifCompressionMarker  = 0x01

	redacted = "[private key data]"
)

// SecretKey is a secp256k1 private key along with the metadata WIF carries.
// Values are immutable; String and GoString never reveal the scalar.
type SecretKey struct {
	key        *secp256k1.PrivateKey
	compressed bool
	network    Network
}

// GenerateSecretKey draws a uniformly random valid scalar from rng. The key is
// tagged Mainnet and uncompressed. rng is not retained.
func GenerateSecretKey(rng io.Reader) (*SecretKey, error) {
	if rng == nil {
		return nil, errors.New("keys: random source is nil")
	}
	key, err := secp256k1.GeneratePrivateKeyFromRand(rng)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate secret key")
	}
	return &SecretKey{key: key, network: Mainnet}, nil
}

// SecretKeyFromBytes builds a key from a raw 32-byte big-endian scalar
func SecretKeyFromBytes(b []byte, network Network, compressed bool) (*SecretKey, error) {
	if len(b) != SecretKeySize {
		return nil, errors.Wrapf(ErrInvalidLength, "secret key must be %d bytes, got %d", SecretKeySize, len(b))
	}

	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(b); overflow || scalar.IsZero() {
		return nil, errors.Wrap(ErrInvalidScalar, "scalar is zero or not below the curve order")
	}
	return &SecretKey{
		key:        secp256k1.NewPrivateKey(&scalar),
		compressed: compressed,
		network:    network,
	}, nil
}

// SecretKeyFromWIF parses a Wallet Import Format string. The payload is the
// network byte, the 32-byte scalar and an optional 0x01 compression marker.
func SecretKeyFromWIF(wif string) (*SecretKey, error) {
	data, err := base58.CheckDecode(wif)
	if err != nil {
		return nil, err
	}

	var compressed bool
	switch len(data) {
	case wifUncompressedLength:
		compressed = false
	case wifCompressedLength:
		if data[wifCompressedLength-1] != wifCompressionMarker {
			return nil, errors.Wrapf(ErrInvalidCompressionFlag, "got 0x%02x", data[wifCompressedLength-1])
		}
		compressed = true
	default:
		return nil, errors.Wrapf(ErrInvalidLength, "WIF payload must be %d or %d bytes, got %d",
			wifUncompressedLength, wifCompressedLength, len(data))
	}

	network, ok := networkFromWIFVersion(data[0])
	if !ok {
		return nil, errors.Wrapf(ErrInvalidVersion, "unknown WIF version 0x%02x", data[0])
	}

	return SecretKeyFromBytes(data[1:1+SecretKeySize], network, compressed)
}

// ToWIF encodes the key in Wallet Import Format
func (sk *SecretKey) ToWIF() string {
	payload := make([]byte, 0, wifCompressedLength)
	payload = append(payload, sk.network.WIFVersion())
	payload = append(payload, sk.key.Serialize()...)
	if sk.compressed {
		payload = append(payload, wifCompressionMarker)
	}
	return base58.CheckEncode(payload)
}

// Bytes returns the raw 32-byte scalar
func (sk *SecretKey) Bytes() []byte {
	return sk.key.Serialize()
}

func (sk *SecretKey) Compressed() bool {
	return sk.compressed
}

func (sk *SecretKey) Network() Network {
	return sk.network
}

// PublicKey derives the matching public key
func (sk *SecretKey) PublicKey() *PublicKey {
	return PublicKeyFromSecret(sk)
}

// Equal compares scalar, network and compression in constant time for the scalar
func (sk *SecretKey) Equal(other *SecretKey) bool {
	if sk == nil || other == nil {
		return sk == other
	}
	return subtle.ConstantTimeCompare(sk.key.Serialize(), other.key.Serialize()) == 1 &&
		sk.compressed == other.compressed &&
		sk.network == other.network
}

// Sign hashes message with SHA-256 and signs the digest
func (sk *SecretKey) Sign(message []byte) (*Signature, error) {
	digest := crypto.Sha256(message)
	return sk.SignHash(digest[:])
}

// SignHash produces a canonical signature over a 32-byte digest
func (sk *SecretKey) SignHash(hash []byte) (*Signature, error) {
	if len(hash) != DigestSize {
		return nil, errors.Wrapf(ErrInvalidDigestLength, "got %d bytes", len(hash))
	}
	return signCanonical(sk.key, hash)
}

// String is redacted. Use ToWIF to export the key.
func (sk *SecretKey) String() string {
	return redacted
}

func (sk *SecretKey) GoString() string {
	return redacted
}

// MarshalLogObject lets zap log the key's metadata without the scalar
func (sk *SecretKey) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("network", sk.network.String())
	enc.AddBool("compressed", sk.compressed)
	enc.AddString("publicKey", sk.PublicKey().String())
	return nil
}
