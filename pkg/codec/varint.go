package codec

import "github.com/pkg/errors"

// MaxVarUint32Size is the longest encoding of a 32-bit varint
const MaxVarUint32Size = 5

// VarUint32Size returns the number of bytes in the minimal LEB128 encoding of v
func VarUint32Size(v uint32) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// WriteVarUint32 writes v as LEB128: 7 bits per byte, least significant group first,
// high bit set on every byte except the last
func WriteVarUint32(buf []byte, pos int, v uint32) (int, error) {
	if err := ensureWrite(buf, pos, VarUint32Size(v)); err != nil {
		return pos, err
	}
	for v >= 0x80 {
		buf[pos] = byte(v) | 0x80
		v >>= 7
		pos++
	}
	buf[pos] = byte(v)
	return pos + 1, nil
}

// ReadVarUint32 reads a LEB128 value. Encodings that carry more than 32 bits fail
// with ErrVarintOverflow. Non-minimal encodings such as 80 00 are accepted, as the
// chain accepts them, so re-encoding a decoded value may yield fewer bytes.
func ReadVarUint32(buf []byte, pos int) (uint32, int, error) {
	var v uint32
	var shift uint
	cur := pos
	for i := 0; i < MaxVarUint32Size; i++ {
		if err := ensureRead(buf, cur, 1); err != nil {
			return 0, pos, err
		}
		b := buf[cur]
		cur++

		if i == MaxVarUint32Size-1 && b > 0x0f {
			return 0, pos, errors.Wrapf(ErrVarintOverflow, "final byte 0x%02x at offset %d", b, cur-1)
		}
		v |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, cur, nil
		}
		shift += 7
	}
	return 0, pos, errors.Wrapf(ErrVarintOverflow, "more than %d bytes at offset %d", MaxVarUint32Size, pos)
}

func zigzag32(v int32) uint32 {
	return uint32(v<<1) ^ uint32(v>>31)
}

func unzigzag32(v uint32) int32 {
	return int32(v>>1) ^ -int32(v&1)
}

// VarInt32Size returns the encoded size of v after zigzag mapping
func VarInt32Size(v int32) int {
	return VarUint32Size(zigzag32(v))
}

// WriteVarInt32 writes v zigzag encoded so small negative numbers stay short
func WriteVarInt32(buf []byte, pos int, v int32) (int, error) {
	return WriteVarUint32(buf, pos, zigzag32(v))
}

// ReadVarInt32 reads a zigzag encoded varint
func ReadVarInt32(buf []byte, pos int) (int32, int, error) {
	v, next, err := ReadVarUint32(buf, pos)
	if err != nil {
		return 0, pos, err
	}
	return unzigzag32(v), next, nil
}

// VarUint32 is a standalone unsigned varint value, the wire form of EOSIO's unsigned_int
type VarUint32 uint32

func (v VarUint32) EncodedSize() int {
	return VarUint32Size(uint32(v))
}

func (v VarUint32) EncodeInto(buf []byte, pos int) (int, error) {
	return WriteVarUint32(buf, pos, uint32(v))
}

func (v *VarUint32) DecodeFrom(buf []byte, pos int) (int, error) {
	val, next, err := ReadVarUint32(buf, pos)
	if err != nil {
		return pos, err
	}
	*v = VarUint32(val)
	return next, nil
}

// VarInt32 is the wire form of EOSIO's signed_int
type VarInt32 int32

func (v VarInt32) EncodedSize() int {
	return VarInt32Size(int32(v))
}

func (v VarInt32) EncodeInto(buf []byte, pos int) (int, error) {
	return WriteVarInt32(buf, pos, int32(v))
}

func (v *VarInt32) DecodeFrom(buf []byte, pos int) (int, error) {
	val, next, err := ReadVarInt32(buf, pos)
	if err != nil {
		return pos, err
	}
	*v = VarInt32(val)
	return next, nil
}
