// Package name parses EOSIO account, action and permission names.
//
// A name is up to 13 characters from ".12345abcdefghijklmnopqrstuvwxyz" packed
// 5 bits per character into a uint64, most significant character first. The
// 13th character only has 4 bits left and is limited to ".12345abcdefghij".
package name

import (
	"strings"

	"github.com/Layr-Labs/eosio-keys-go/pkg/codec"
	"github.com/pkg/errors"
)

// MaxLength is the longest textual name
const MaxLength = 13

const charmap = ".12345abcdefghijklmnopqrstuvwxyz"

// ErrInvalidName is returned for strings that are not valid EOSIO names
var ErrInvalidName = errors.New("invalid name")

// Name is the packed uint64 form of an EOSIO name
type Name uint64

// Parse converts s into its packed form
func Parse(s string) (Name, error) {
	if len(s) > MaxLength {
		return 0, errors.Wrapf(ErrInvalidName, "%q is longer than %d characters", s, MaxLength)
	}

	var value uint64
	for i := 0; i < len(s); i++ {
		c, ok := symbol(s[i])
		if !ok {
			return 0, errors.Wrapf(ErrInvalidName, "%q has invalid character %q at position %d", s, s[i], i)
		}

		if i < MaxLength-1 {
			value |= uint64(c&0x1f) << (64 - 5*(i+1))
		} else {
			if c > 0x0f {
				return 0, errors.Wrapf(ErrInvalidName, "%q has invalid 13th character %q", s, s[i])
			}
			value |= uint64(c)
		}
	}
	return Name(value), nil
}

// MustParse is Parse for compile-time constants. It panics on invalid input.
func MustParse(s string) Name {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

func symbol(c byte) (byte, bool) {
	switch {
	case c >= 'a' && c <= 'z':
		return c - 'a' + 6, true
	case c >= '1' && c <= '5':
		return c - '1' + 1, true
	case c == '.':
		return 0, true
	default:
		return 0, false
	}
}

// String returns the textual name with trailing dots removed
func (n Name) String() string {
	var out [MaxLength]byte
	tmp := uint64(n)
	for i := 0; i < MaxLength; i++ {
		if i == 0 {
			out[MaxLength-1-i] = charmap[tmp&0x0f]
			tmp >>= 4
		} else {
			out[MaxLength-1-i] = charmap[tmp&0x1f]
			tmp >>= 5
		}
	}
	return strings.TrimRight(string(out[:]), ".")
}

func (n Name) Uint64() uint64 {
	return uint64(n)
}

func (n Name) EncodedSize() int {
	return 8
}

func (n Name) EncodeInto(buf []byte, pos int) (int, error) {
	return codec.WriteUint64(buf, pos, uint64(n))
}

func (n *Name) DecodeFrom(buf []byte, pos int) (int, error) {
	v, next, err := codec.ReadUint64(buf, pos)
	if err != nil {
		return pos, err
	}
	*n = Name(v)
	return next, nil
}

// MarshalText implements encoding.TextMarshaler
func (n Name) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (n *Name) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
