// Package primitives holds the EOSIO records whose canonical encoding is hashed
// and signed: actions, action receipts, checksums and the wire forms of keys and
// signatures. Every record implements codec.Encodable and codec.Decodable by
// delegating to its fields in declared order.
package primitives

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidHex is returned when a hex digest cannot be decoded
	ErrInvalidHex = errors.New("primitives: invalid hex")
	// ErrInvalidLength is returned when decoded bytes have the wrong size
	ErrInvalidLength = errors.New("primitives: invalid length")
	// ErrUnsupportedKeyType is returned when a wire key or signature is not K1
	ErrUnsupportedKeyType = errors.New("primitives: unsupported key type")
)
