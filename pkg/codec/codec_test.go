package codec

import (
	"encoding/hex"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pair is a small composite used to exercise vectors of records
type pair struct {
	Key   uint64
	Value string
}

func (p pair) EncodedSize() int {
	return 8 + StringSize(p.Value)
}

func (p pair) EncodeInto(buf []byte, pos int) (int, error) {
	next, err := WriteUint64(buf, pos, p.Key)
	if err != nil {
		return pos, err
	}
	return WriteString(buf, next, p.Value)
}

func (p *pair) DecodeFrom(buf []byte, pos int) (int, error) {
	key, next, err := ReadUint64(buf, pos)
	if err != nil {
		return pos, err
	}
	value, next, err := ReadString(buf, next)
	if err != nil {
		return pos, err
	}
	p.Key, p.Value = key, value
	return next, nil
}

type pairs []pair

func (ps pairs) EncodedSize() int { return VectorSize([]pair(ps)) }

func (ps pairs) EncodeInto(buf []byte, pos int) (int, error) {
	return WriteVector(buf, pos, []pair(ps))
}

func (ps *pairs) DecodeFrom(buf []byte, pos int) (int, error) {
	items, next, err := ReadVector[pair](buf, pos)
	if err != nil {
		return pos, err
	}
	*ps = items
	return next, nil
}

func TestFixedWidthIntegers_LittleEndian(t *testing.T) {
	buf := make([]byte, 1+2+4+8)
	pos, err := WriteUint8(buf, 0, 0x01)
	require.NoError(t, err)
	pos, err = WriteUint16(buf, pos, 0x0302)
	require.NoError(t, err)
	pos, err = WriteUint32(buf, pos, 0x07060504)
	require.NoError(t, err)
	pos, err = WriteUint64(buf, pos, 0x0f0e0d0c0b0a0908)
	require.NoError(t, err)
	require.Equal(t, len(buf), pos)
	assert.Equal(t, "0102030405060708090a0b0c0d0e0f", hex.EncodeToString(buf))

	u8, pos, err := ReadUint8(buf, 0)
	require.NoError(t, err)
	u16, pos, err := ReadUint16(buf, pos)
	require.NoError(t, err)
	u32, pos, err := ReadUint32(buf, pos)
	require.NoError(t, err)
	u64, pos, err := ReadUint64(buf, pos)
	require.NoError(t, err)

	assert.Equal(t, uint8(0x01), u8)
	assert.Equal(t, uint16(0x0302), u16)
	assert.Equal(t, uint32(0x07060504), u32)
	assert.Equal(t, uint64(0x0f0e0d0c0b0a0908), u64)
	assert.Equal(t, len(buf), pos)
}

func TestSignedIntegers(t *testing.T) {
	buf := make([]byte, 15)
	pos, _ := WriteInt8(buf, 0, -1)
	pos, _ = WriteInt16(buf, pos, -2)
	pos, _ = WriteInt32(buf, pos, math.MinInt32)
	_, err := WriteInt64(buf, pos, -10000)
	require.NoError(t, err)

	assert.Equal(t, "fffeff00000080f0d8ffffffffffff", hex.EncodeToString(buf))

	i8, pos, _ := ReadInt8(buf, 0)
	i16, pos, _ := ReadInt16(buf, pos)
	i32, pos, _ := ReadInt32(buf, pos)
	i64, _, err := ReadInt64(buf, pos)
	require.NoError(t, err)
	assert.Equal(t, int8(-1), i8)
	assert.Equal(t, int16(-2), i16)
	assert.Equal(t, int32(math.MinInt32), i32)
	assert.Equal(t, int64(-10000), i64)
}

func TestBoolAndFloats(t *testing.T) {
	buf := make([]byte, 1+4+8)
	pos, _ := WriteBool(buf, 0, true)
	pos, _ = WriteFloat32(buf, pos, 1.5)
	_, err := WriteFloat64(buf, pos, -2.25)
	require.NoError(t, err)

	b, pos, _ := ReadBool(buf, 0)
	f32, pos, _ := ReadFloat32(buf, pos)
	f64, _, err := ReadFloat64(buf, pos)
	require.NoError(t, err)
	assert.True(t, b)
	assert.Equal(t, float32(1.5), f32)
	assert.Equal(t, -2.25, f64)
}

func TestVarUint32_Vectors(t *testing.T) {
	tests := []struct {
		value uint32
		hex   string
	}{
		{0, "00"},
		{1, "01"},
		{127, "7f"},
		{128, "8001"},
		{300, "ac02"},
		{16383, "ff7f"},
		{16384, "808001"},
		{math.MaxUint32, "ffffffff0f"},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			buf := make([]byte, VarUint32Size(tt.value))
			end, err := WriteVarUint32(buf, 0, tt.value)
			require.NoError(t, err)
			require.Equal(t, len(buf), end)
			assert.Equal(t, tt.hex, hex.EncodeToString(buf))

			v, next, err := ReadVarUint32(buf, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.value, v)
			assert.Equal(t, len(buf), next)
		})
	}
}

func TestReadVarUint32_Overflow(t *testing.T) {
	_, _, err := ReadVarUint32([]byte{0xff, 0xff, 0xff, 0xff, 0x1f}, 0)
	require.ErrorIs(t, err, ErrVarintOverflow)

	_, _, err = ReadVarUint32([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}, 0)
	require.ErrorIs(t, err, ErrVarintOverflow)
}

func TestReadVarUint32_Truncated(t *testing.T) {
	_, _, err := ReadVarUint32([]byte{0x80, 0x80}, 0)
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestVarInt32_ZigZag(t *testing.T) {
	tests := []struct {
		value int32
		hex   string
	}{
		{0, "00"},
		{-1, "01"},
		{1, "02"},
		{-64, "7f"},
		{64, "8001"},
		{math.MinInt32, "ffffffff0f"},
	}

	for _, tt := range tests {
		v := VarInt32(tt.value)
		data, err := Pack(v)
		require.NoError(t, err)
		assert.Equal(t, tt.hex, hex.EncodeToString(data))

		var decoded VarInt32
		require.NoError(t, Unpack(data, &decoded))
		assert.Equal(t, v, decoded)
	}
}

func TestBytesAndString(t *testing.T) {
	data, err := Pack(pair{Key: 1, Value: "a memo"})
	require.NoError(t, err)
	assert.Equal(t, "0100000000000000"+"06"+hex.EncodeToString([]byte("a memo")), hex.EncodeToString(data))

	buf := make([]byte, BytesSize(nil))
	_, err = WriteBytes(buf, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, buf)

	out, next, err := ReadBytes(buf, 0)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 1, next)
}

func TestReadBytes_LengthPastEnd(t *testing.T) {
	_, _, err := ReadBytes([]byte{0x05, 'a', 'b'}, 0)
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestReadBytes_MaxLengthPrefix(t *testing.T) {
	buf := []byte{0xff, 0xff, 0xff, 0xff, 0x0f, 'a'}

	_, next, err := ReadBytes(buf, 0)
	require.ErrorIs(t, err, ErrOutOfBounds)
	assert.Equal(t, 0, next)

	_, _, err = ReadString(buf, 0)
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestEnsureRead_NegativeLength(t *testing.T) {
	require.ErrorIs(t, ensureRead(make([]byte, 4), 0, -1), ErrOutOfBounds)
	require.ErrorIs(t, ensureWrite(make([]byte, 4), 0, -1), ErrCapacityExceeded)
}

func TestReadVarUint32_NonMinimalAccepted(t *testing.T) {
	v, next, err := ReadVarUint32([]byte{0x80, 0x00}, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), v)
	assert.Equal(t, 2, next)
	assert.Equal(t, 1, VarUint32Size(v))
}

func TestFixedBytes(t *testing.T) {
	buf := make([]byte, 4)
	_, err := WriteFixed(buf, 0, []byte{1, 2, 3, 4})
	require.NoError(t, err)

	var dst [4]byte
	next, err := ReadFixed(buf, 0, dst[:])
	require.NoError(t, err)
	assert.Equal(t, 4, next)
	assert.Equal(t, [4]byte{1, 2, 3, 4}, dst)

	_, err = ReadFixed(buf, 1, dst[:])
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestVector_EmptyIsSingleZero(t *testing.T) {
	data, err := Pack(pairs{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00}, data)

	var decoded pairs
	require.NoError(t, Unpack(data, &decoded))
	assert.Empty(t, decoded)
}

func TestVector_PreservesOrder(t *testing.T) {
	in := pairs{{Key: 2, Value: "b"}, {Key: 1, Value: "a"}, {Key: 3, Value: ""}}
	data, err := Pack(in)
	require.NoError(t, err)
	require.Equal(t, in.EncodedSize(), len(data))
	assert.Equal(t, byte(3), data[0])

	var out pairs
	require.NoError(t, Unpack(data, &out))
	assert.Equal(t, in, out)
}

func TestVector_HugeCountFailsWithoutAllocating(t *testing.T) {
	var out pairs
	err := Unpack([]byte{0xff, 0xff, 0xff, 0xff, 0x0f}, &out)
	require.ErrorIs(t, err, ErrOutOfBounds)
	assert.Nil(t, out, "receiver must be untouched on failure")

	_, next, err := ReadVector[pair]([]byte{0xff, 0xff, 0xff, 0xff, 0x0f, 0x01}, 0)
	require.ErrorIs(t, err, ErrOutOfBounds)
	assert.Equal(t, 0, next)
}

func TestWrite_CapacityExceeded(t *testing.T) {
	buf := make([]byte, 3)
	_, err := WriteUint32(buf, 0, 1)
	require.ErrorIs(t, err, ErrCapacityExceeded)

	_, err = WriteUint8(buf, 3, 1)
	require.ErrorIs(t, err, ErrCapacityExceeded)

	_, err = WriteVarUint32(buf, 0, math.MaxUint32)
	require.ErrorIs(t, err, ErrCapacityExceeded)

	_, err = WriteString(buf, 0, "abc")
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, []byte{0, 0, 0}, buf, "failed write must not touch the buffer")

	_, err = pair{Key: 1, Value: "x"}.EncodeInto(make([]byte, 9), 0)
	require.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestRead_OutOfBounds(t *testing.T) {
	_, _, err := ReadUint64([]byte{1, 2, 3}, 0)
	require.ErrorIs(t, err, ErrOutOfBounds)

	_, _, err = ReadUint8(nil, 0)
	require.ErrorIs(t, err, ErrOutOfBounds)

	_, _, err = ReadUint16([]byte{1, 2}, -1)
	require.ErrorIs(t, err, ErrOutOfBounds)

	var p pair
	_, err = p.DecodeFrom([]byte{1, 0, 0, 0, 0, 0, 0, 0, 2, 'a'}, 0)
	require.ErrorIs(t, err, ErrOutOfBounds)
	assert.Equal(t, pair{}, p)
}

func TestUnpack_TrailingBytes(t *testing.T) {
	var v VarUint32
	err := Unpack([]byte{0x01, 0x02}, &v)
	require.ErrorIs(t, err, ErrTrailingBytes)
}

func FuzzVarUint32RoundTrip(f *testing.F) {
	f.Add(uint32(0))
	f.Add(uint32(127))
	f.Add(uint32(128))
	f.Add(uint32(math.MaxUint32))

	f.Fuzz(func(t *testing.T, v uint32) {
		data, err := Pack(VarUint32(v))
		require.NoError(t, err)
		require.Equal(t, VarUint32Size(v), len(data))
		require.Zero(t, data[len(data)-1]&0x80, "last byte must not carry a continuation bit")

		var out VarUint32
		require.NoError(t, Unpack(data, &out))
		require.Equal(t, VarUint32(v), out)
	})
}
