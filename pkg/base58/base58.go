// Package base58 implements the Base58Check text encoding used for WIF
// private keys and the RIPEMD-160 checksum variant used by EOSIO public keys
// and signatures.
package base58

import (
	"bytes"

	"github.com/Layr-Labs/eosio-keys-go/pkg/crypto"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// ChecksumLength is the number of checksum bytes appended to a payload
const ChecksumLength = 4

var (
	// ErrInvalidLength is returned when a decoded buffer is too short to carry a checksum
	ErrInvalidLength = errors.New("base58: invalid length")
	// ErrInvalidVersion is returned when a version byte is not the expected one
	ErrInvalidVersion = errors.New("base58: invalid version")
	// ErrChecksumMismatch is returned when the trailing checksum does not match the payload
	ErrChecksumMismatch = errors.New("base58: checksum mismatch")
	// ErrInvalidCharacter is returned when the input contains a character outside the alphabet
	ErrInvalidCharacter = errors.New("base58: invalid character")
)

// Encode maps b through the Bitcoin base-58 alphabet. Leading zero bytes become leading '1's.
func Encode(b []byte) string {
	return base58.Encode(b)
}

// Decode reverses Encode
func Decode(s string) ([]byte, error) {
	if s == "" {
		return []byte{}, nil
	}
	out, err := base58.Decode(s)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidCharacter, "%v", err)
	}
	return out, nil
}

// CheckEncode appends the first 4 bytes of SHA256(SHA256(payload)) and base-58 encodes the result
func CheckEncode(payload []byte) string {
	sum := crypto.DoubleSha256(payload)
	return encodeWithChecksum(payload, sum[:ChecksumLength])
}

// CheckDecode decodes s and verifies its double-SHA256 checksum, returning the payload
func CheckDecode(s string) ([]byte, error) {
	payload, checksum, err := splitChecksum(s)
	if err != nil {
		return nil, err
	}

	sum := crypto.DoubleSha256(payload)
	if !bytes.Equal(sum[:ChecksumLength], checksum) {
		return nil, errors.Wrapf(ErrChecksumMismatch, "expected %x, got %x", sum[:ChecksumLength], checksum)
	}
	return payload, nil
}

// CheckEncodeVersion prefixes payload with a version byte and Base58Check encodes it
func CheckEncodeVersion(version byte, payload []byte) string {
	buf := make([]byte, 0, len(payload)+1)
	buf = append(buf, version)
	buf = append(buf, payload...)
	return CheckEncode(buf)
}

// CheckDecodeVersion reverses CheckEncodeVersion
func CheckDecodeVersion(s string) (byte, []byte, error) {
	data, err := CheckDecode(s)
	if err != nil {
		return 0, nil, err
	}
	if len(data) < 1 {
		return 0, nil, errors.Wrapf(ErrInvalidLength, "missing version byte")
	}
	return data[0], data[1:], nil
}

// RipemdCheckEncode appends RIPEMD160(payload || suffix)[:4] and base-58 encodes the result.
// Legacy EOS public keys use an empty suffix, the K1 key and signature forms use "K1".
func RipemdCheckEncode(payload []byte, suffix string) string {
	sum := crypto.Ripemd160(payload, []byte(suffix))
	return encodeWithChecksum(payload, sum[:ChecksumLength])
}

// RipemdCheckDecode reverses RipemdCheckEncode
func RipemdCheckDecode(s string, suffix string) ([]byte, error) {
	payload, checksum, err := splitChecksum(s)
	if err != nil {
		return nil, err
	}

	sum := crypto.Ripemd160(payload, []byte(suffix))
	if !bytes.Equal(sum[:ChecksumLength], checksum) {
		return nil, errors.Wrapf(ErrChecksumMismatch, "expected %x, got %x", sum[:ChecksumLength], checksum)
	}
	return payload, nil
}

func encodeWithChecksum(payload, checksum []byte) string {
	buf := make([]byte, 0, len(payload)+len(checksum))
	buf = append(buf, payload...)
	buf = append(buf, checksum...)
	return base58.Encode(buf)
}

func splitChecksum(s string) ([]byte, []byte, error) {
	data, err := Decode(s)
	if err != nil {
		return nil, nil, err
	}
	if len(data) < ChecksumLength {
		return nil, nil, errors.Wrapf(ErrInvalidLength, "decoded %d bytes, need at least %d", len(data), ChecksumLength)
	}
	split := len(data) - ChecksumLength
	return data[:split], data[split:], nil
}
