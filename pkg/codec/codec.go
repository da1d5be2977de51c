// Package codec implements the EOSIO consensus binary serialization: little-endian
// fixed-width integers, LEB128 varints for lengths, length-prefixed byte strings
// and vectors, and composite records encoded field by field with no padding.
//
// Every serializable type implements Encodable and, through a pointer receiver,
// Decodable. Composite types delegate to their fields in declared order.
package codec

import (
	"github.com/pkg/errors"
)

var (
	// ErrOutOfBounds is returned when a read would consume bytes past the end of the buffer
	ErrOutOfBounds = errors.New("codec: read out of bounds")
	// ErrCapacityExceeded is returned when a write does not fit in the destination buffer
	ErrCapacityExceeded = errors.New("codec: buffer capacity exceeded")
	// ErrVarintOverflow is returned for varints longer than their declared width allows
	ErrVarintOverflow = errors.New("codec: varint overflows 32 bits")
	// ErrTrailingBytes is returned by Unpack when input remains after decoding
	ErrTrailingBytes = errors.New("codec: trailing bytes after value")
)

// Encodable is implemented by every type with a canonical binary form
type Encodable interface {
	// EncodedSize returns the exact number of bytes EncodeInto writes
	EncodedSize() int
	// EncodeInto writes the encoding at buf[pos:] and returns the position after it
	EncodeInto(buf []byte, pos int) (int, error)
}

// Decodable is implemented by pointers to types with a canonical binary form
type Decodable interface {
	// DecodeFrom reads the value from buf[pos:] and returns the position after it.
	// On error the receiver must be left unchanged.
	DecodeFrom(buf []byte, pos int) (int, error)
}

// Pack allocates a buffer of exactly e.EncodedSize() bytes and encodes e into it
func Pack(e Encodable) ([]byte, error) {
	buf := make([]byte, e.EncodedSize())
	n, err := e.EncodeInto(buf, 0)
	if err != nil {
		return nil, err
	}
	if n != len(buf) {
		return nil, errors.Errorf("codec: encoded %d bytes, size reported %d", n, len(buf))
	}
	return buf, nil
}

// Unpack decodes d from data, requiring every byte to be consumed
func Unpack(data []byte, d Decodable) error {
	n, err := d.DecodeFrom(data, 0)
	if err != nil {
		return err
	}
	if n != len(data) {
		return errors.Wrapf(ErrTrailingBytes, "%d of %d bytes consumed", n, len(data))
	}
	return nil
}

func ensureWrite(buf []byte, pos, n int) error {
	if pos < 0 || n < 0 || n > len(buf)-pos {
		return errors.Wrapf(ErrCapacityExceeded, "need %d bytes at offset %d, buffer holds %d", n, pos, len(buf))
	}
	return nil
}

func ensureRead(buf []byte, pos, n int) error {
	if pos < 0 || n < 0 || n > len(buf)-pos {
		return errors.Wrapf(ErrOutOfBounds, "need %d bytes at offset %d, buffer holds %d", n, pos, len(buf))
	}
	return nil
}
