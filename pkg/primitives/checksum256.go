package primitives

import (
	"bytes"
	"encoding/hex"

	"github.com/Layr-Labs/eosio-keys-go/pkg/codec"
	"github.com/Layr-Labs/eosio-keys-go/pkg/crypto"
	"github.com/pkg/errors"
)

// Checksum256Size is the length of a SHA-256 digest
const Checksum256Size = 32

// Checksum256 is an opaque 32-byte content hash. Equality and ordering are byte-wise.
type Checksum256 [Checksum256Size]byte

// Checksum256FromHex decodes a 64 character hex digest
func Checksum256FromHex(s string) (Checksum256, error) {
	var c Checksum256
	raw, err := hex.DecodeString(s)
	if err != nil {
		return c, errors.Wrapf(ErrInvalidHex, "%v", err)
	}
	return Checksum256FromBytes(raw)
}

// Checksum256FromBytes copies exactly 32 bytes into a checksum
func Checksum256FromBytes(b []byte) (Checksum256, error) {
	var c Checksum256
	if len(b) != Checksum256Size {
		return c, errors.Wrapf(ErrInvalidLength, "checksum256 must be %d bytes, got %d", Checksum256Size, len(b))
	}
	copy(c[:], b)
	return c, nil
}

// Sha256Of hashes data into a checksum
func Sha256Of(data []byte) Checksum256 {
	return Checksum256(crypto.Sha256(data))
}

func (c Checksum256) Bytes() []byte {
	out := make([]byte, Checksum256Size)
	copy(out, c[:])
	return out
}

func (c Checksum256) Equal(other Checksum256) bool {
	return c == other
}

// Compare orders checksums lexicographically by byte
func (c Checksum256) Compare(other Checksum256) int {
	return bytes.Compare(c[:], other[:])
}

// String returns the lower-case hex form
func (c Checksum256) String() string {
	return hex.EncodeToString(c[:])
}

func (c Checksum256) EncodedSize() int {
	return Checksum256Size
}

func (c Checksum256) EncodeInto(buf []byte, pos int) (int, error) {
	return codec.WriteFixed(buf, pos, c[:])
}

func (c *Checksum256) DecodeFrom(buf []byte, pos int) (int, error) {
	var tmp Checksum256
	next, err := codec.ReadFixed(buf, pos, tmp[:])
	if err != nil {
		return pos, err
	}
	*c = tmp
	return next, nil
}

// MarshalText implements encoding.TextMarshaler
func (c Checksum256) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Checksum256) UnmarshalText(text []byte) error {
	parsed, err := Checksum256FromHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
