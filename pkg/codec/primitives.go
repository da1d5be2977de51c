package codec

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// WriteUint8 writes a single byte
func WriteUint8(buf []byte, pos int, v uint8) (int, error) {
	if err := ensureWrite(buf, pos, 1); err != nil {
		return pos, err
	}
	buf[pos] = v
	return pos + 1, nil
}

// ReadUint8 reads a single byte
func ReadUint8(buf []byte, pos int) (uint8, int, error) {
	if err := ensureRead(buf, pos, 1); err != nil {
		return 0, pos, err
	}
	return buf[pos], pos + 1, nil
}

// WriteUint16 writes v little-endian
func WriteUint16(buf []byte, pos int, v uint16) (int, error) {
	if err := ensureWrite(buf, pos, 2); err != nil {
		return pos, err
	}
	binary.LittleEndian.PutUint16(buf[pos:], v)
	return pos + 2, nil
}

// ReadUint16 reads a little-endian uint16
func ReadUint16(buf []byte, pos int) (uint16, int, error) {
	if err := ensureRead(buf, pos, 2); err != nil {
		return 0, pos, err
	}
	return binary.LittleEndian.Uint16(buf[pos:]), pos + 2, nil
}

// WriteUint32 writes v little-endian
func WriteUint32(buf []byte, pos int, v uint32) (int, error) {
	if err := ensureWrite(buf, pos, 4); err != nil {
		return pos, err
	}
	binary.LittleEndian.PutUint32(buf[pos:], v)
	return pos + 4, nil
}

// ReadUint32 reads a little-endian uint32
func ReadUint32(buf []byte, pos int) (uint32, int, error) {
	if err := ensureRead(buf, pos, 4); err != nil {
		return 0, pos, err
	}
	return binary.LittleEndian.Uint32(buf[pos:]), pos + 4, nil
}

// WriteUint64 writes v little-endian
func WriteUint64(buf []byte, pos int, v uint64) (int, error) {
	if err := ensureWrite(buf, pos, 8); err != nil {
		return pos, err
	}
	binary.LittleEndian.PutUint64(buf[pos:], v)
	return pos + 8, nil
}

// ReadUint64 reads a little-endian uint64
func ReadUint64(buf []byte, pos int) (uint64, int, error) {
	if err := ensureRead(buf, pos, 8); err != nil {
		return 0, pos, err
	}
	return binary.LittleEndian.Uint64(buf[pos:]), pos + 8, nil
}

// WriteInt8 writes v as its two's complement byte
func WriteInt8(buf []byte, pos int, v int8) (int, error) {
	return WriteUint8(buf, pos, uint8(v))
}

// ReadInt8 reads a two's complement byte
func ReadInt8(buf []byte, pos int) (int8, int, error) {
	v, next, err := ReadUint8(buf, pos)
	return int8(v), next, err
}

// WriteInt16 writes v little-endian, two's complement
func WriteInt16(buf []byte, pos int, v int16) (int, error) {
	return WriteUint16(buf, pos, uint16(v))
}

// ReadInt16 reads a little-endian int16
func ReadInt16(buf []byte, pos int) (int16, int, error) {
	v, next, err := ReadUint16(buf, pos)
	return int16(v), next, err
}

// WriteInt32 writes v little-endian, two's complement
func WriteInt32(buf []byte, pos int, v int32) (int, error) {
	return WriteUint32(buf, pos, uint32(v))
}

// ReadInt32 reads a little-endian int32
func ReadInt32(buf []byte, pos int) (int32, int, error) {
	v, next, err := ReadUint32(buf, pos)
	return int32(v), next, err
}

// WriteInt64 writes v little-endian, two's complement
func WriteInt64(buf []byte, pos int, v int64) (int, error) {
	return WriteUint64(buf, pos, uint64(v))
}

// ReadInt64 reads a little-endian int64
func ReadInt64(buf []byte, pos int) (int64, int, error) {
	v, next, err := ReadUint64(buf, pos)
	return int64(v), next, err
}

// WriteBool encodes b as a single 0x00/0x01 byte
func WriteBool(buf []byte, pos int, b bool) (int, error) {
	var v uint8
	if b {
		v = 1
	}
	return WriteUint8(buf, pos, v)
}

// ReadBool treats any non-zero byte as true
func ReadBool(buf []byte, pos int) (bool, int, error) {
	v, next, err := ReadUint8(buf, pos)
	return v != 0, next, err
}

// WriteFloat32 writes the IEEE 754 bits of v little-endian
func WriteFloat32(buf []byte, pos int, v float32) (int, error) {
	return WriteUint32(buf, pos, math.Float32bits(v))
}

// ReadFloat32 reads little-endian IEEE 754 bits
func ReadFloat32(buf []byte, pos int) (float32, int, error) {
	v, next, err := ReadUint32(buf, pos)
	return math.Float32frombits(v), next, err
}

// WriteFloat64 writes the IEEE 754 bits of v little-endian
func WriteFloat64(buf []byte, pos int, v float64) (int, error) {
	return WriteUint64(buf, pos, math.Float64bits(v))
}

// ReadFloat64 reads little-endian IEEE 754 bits
func ReadFloat64(buf []byte, pos int) (float64, int, error) {
	v, next, err := ReadUint64(buf, pos)
	return math.Float64frombits(v), next, err
}

// WriteFixed copies b verbatim with no length prefix
func WriteFixed(buf []byte, pos int, b []byte) (int, error) {
	if err := ensureWrite(buf, pos, len(b)); err != nil {
		return pos, err
	}
	copy(buf[pos:], b)
	return pos + len(b), nil
}

// ReadFixed fills dst from buf[pos:]
func ReadFixed(buf []byte, pos int, dst []byte) (int, error) {
	if err := ensureRead(buf, pos, len(dst)); err != nil {
		return pos, err
	}
	copy(dst, buf[pos:])
	return pos + len(dst), nil
}

// BytesSize is the encoded size of a length-prefixed byte string
func BytesSize(b []byte) int {
	return VarUint32Size(uint32(len(b))) + len(b)
}

// WriteBytes writes a varuint32 length followed by b
func WriteBytes(buf []byte, pos int, b []byte) (int, error) {
	if err := ensureWrite(buf, pos, BytesSize(b)); err != nil {
		return pos, err
	}
	next, err := WriteVarUint32(buf, pos, uint32(len(b)))
	if err != nil {
		return pos, err
	}
	return WriteFixed(buf, next, b)
}

// ReadBytes reads a length-prefixed byte string into a fresh slice
func ReadBytes(buf []byte, pos int) ([]byte, int, error) {
	n, next, err := ReadVarUint32(buf, pos)
	if err != nil {
		return nil, pos, err
	}
	if uint64(n) > uint64(len(buf)-next) {
		return nil, pos, errors.Wrapf(ErrOutOfBounds, "length %d at offset %d exceeds the %d remaining bytes", n, pos, len(buf)-next)
	}
	out := make([]byte, n)
	copy(out, buf[next:])
	return out, next + int(n), nil
}

// StringSize is the encoded size of a length-prefixed string
func StringSize(s string) int {
	return VarUint32Size(uint32(len(s))) + len(s)
}

// WriteString writes s as length-prefixed UTF-8 bytes
func WriteString(buf []byte, pos int, s string) (int, error) {
	return WriteBytes(buf, pos, []byte(s))
}

// ReadString reads a length-prefixed string
func ReadString(buf []byte, pos int) (string, int, error) {
	b, next, err := ReadBytes(buf, pos)
	if err != nil {
		return "", pos, err
	}
	return string(b), next, nil
}
