package keys

import (
	"github.com/Layr-Labs/eosio-keys-go/pkg/base58"
	"github.com/pkg/errors"
)

// Base58Check failures are reported with the codec's own sentinels so callers
// can match either package.
var (
	ErrInvalidLength    = base58.ErrInvalidLength
	ErrInvalidVersion   = base58.ErrInvalidVersion
	ErrChecksumMismatch = base58.ErrChecksumMismatch
)

var (
	// ErrInvalidScalar is returned when key material is zero or not below the curve order
	ErrInvalidScalar = errors.New("keys: invalid secret scalar")
	// ErrInvalidCompressionFlag is returned for a 34-byte WIF payload without the 0x01 marker
	ErrInvalidCompressionFlag = errors.New("keys: invalid compression flag")
	// ErrInvalidDigestLength is returned when signing input is not a 32-byte digest
	ErrInvalidDigestLength = errors.New("keys: digest must be 32 bytes")
	// ErrInvalidPublicKey is returned when bytes do not decode to a curve point
	ErrInvalidPublicKey = errors.New("keys: invalid public key")
	// ErrInvalidSignature is returned for malformed signature material
	ErrInvalidSignature = errors.New("keys: invalid signature")
	// ErrInvalidPrefix is returned when textual key or signature material has an unknown prefix
	ErrInvalidPrefix = errors.New("keys: invalid prefix")
)
