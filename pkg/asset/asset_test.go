package asset

import (
	"encoding/hex"
	"testing"

	"github.com/Layr-Labs/eosio-keys-go/pkg/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Transfer(t *testing.T) {
	a, err := Parse("1.0000 EOS")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), a.Amount)
	assert.Equal(t, uint8(4), a.Symbol.Precision())
	assert.Equal(t, "EOS", a.Symbol.Code())
	assert.Equal(t, "1.0000 EOS", a.String())

	data, err := codec.Pack(a)
	require.NoError(t, err)
	assert.Equal(t, "102700000000000004454f5300000000", hex.EncodeToString(data))

	var decoded Asset
	require.NoError(t, codec.Unpack(data, &decoded))
	assert.Equal(t, a, decoded)
}

func TestParse_Forms(t *testing.T) {
	tests := []struct {
		in        string
		amount    int64
		precision uint8
		out       string
	}{
		{"0.0001 SYS", 1, 4, "0.0001 SYS"},
		{"-12.50 USD", -1250, 2, "-12.50 USD"},
		{"42 TOKEN", 42, 0, "42 TOKEN"},
		{"  3.000 ABCDEFG ", 3000, 3, "3.000 ABCDEFG"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			a, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.amount, a.Amount)
			assert.Equal(t, tt.precision, a.Symbol.Precision())
			assert.Equal(t, tt.out, a.String())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		in  string
		err error
	}{
		{"1.0000", ErrInvalidAsset},
		{"1. EOS", ErrInvalidAsset},
		{".5 EOS", ErrInvalidAsset},
		{"1.0000 eos", ErrInvalidSymbol},
		{"1.0000 TOOLONGX", ErrInvalidSymbol},
		{"1.2.3 EOS", ErrInvalidAsset},
		{"99999999999999999999 EOS", ErrInvalidAsset},
	}

	for _, tt := range tests {
		_, err := Parse(tt.in)
		require.ErrorIs(t, err, tt.err, "input %q", tt.in)
	}
}

func TestParseSymbol(t *testing.T) {
	s, err := ParseSymbol("4,EOS")
	require.NoError(t, err)
	assert.Equal(t, "4,EOS", s.String())

	_, err = ParseSymbol("EOS")
	require.ErrorIs(t, err, ErrInvalidSymbol)

	_, err = ParseSymbol("19,EOS")
	require.ErrorIs(t, err, ErrInvalidSymbol)
}
