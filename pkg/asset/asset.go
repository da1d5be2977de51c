// Package asset parses EOSIO token quantities such as "1.0000 EOS".
package asset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Layr-Labs/eosio-keys-go/pkg/codec"
	"github.com/pkg/errors"
)

const (
	// MaxPrecision is the largest number of decimal places a symbol may declare
	MaxPrecision = 18
	// MaxSymbolCodeLength is the longest symbol code, seven upper-case letters
	MaxSymbolCodeLength = 7
	// MaxAmount bounds the absolute amount of an asset
	MaxAmount = int64(1<<62 - 1)
)

var (
	// ErrInvalidSymbol is returned for malformed symbol codes or precisions
	ErrInvalidSymbol = errors.New("invalid symbol")
	// ErrInvalidAsset is returned for malformed quantities
	ErrInvalidAsset = errors.New("invalid asset")
)

// Symbol packs the precision into the low byte and the code characters above it
type Symbol uint64

// NewSymbol builds a symbol from a precision and an upper-case code
func NewSymbol(precision uint8, code string) (Symbol, error) {
	if precision > MaxPrecision {
		return 0, errors.Wrapf(ErrInvalidSymbol, "precision %d exceeds %d", precision, MaxPrecision)
	}
	if len(code) == 0 || len(code) > MaxSymbolCodeLength {
		return 0, errors.Wrapf(ErrInvalidSymbol, "code %q must be 1-%d characters", code, MaxSymbolCodeLength)
	}

	value := uint64(precision)
	for i := 0; i < len(code); i++ {
		c := code[i]
		if c < 'A' || c > 'Z' {
			return 0, errors.Wrapf(ErrInvalidSymbol, "code %q has invalid character %q", code, c)
		}
		value |= uint64(c) << (8 * (i + 1))
	}
	return Symbol(value), nil
}

// ParseSymbol parses the "precision,CODE" form, e.g. "4,EOS"
func ParseSymbol(s string) (Symbol, error) {
	precisionStr, code, ok := strings.Cut(s, ",")
	if !ok {
		return 0, errors.Wrapf(ErrInvalidSymbol, "%q is not of the form precision,CODE", s)
	}
	precision, err := strconv.ParseUint(strings.TrimSpace(precisionStr), 10, 8)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidSymbol, "invalid precision in %q", s)
	}
	return NewSymbol(uint8(precision), strings.TrimSpace(code))
}

func (s Symbol) Precision() uint8 {
	return uint8(s)
}

// Code returns the symbol letters
func (s Symbol) Code() string {
	var sb strings.Builder
	v := uint64(s) >> 8
	for v > 0 && sb.Len() < MaxSymbolCodeLength {
		sb.WriteByte(byte(v))
		v >>= 8
	}
	return sb.String()
}

func (s Symbol) String() string {
	return fmt.Sprintf("%d,%s", s.Precision(), s.Code())
}

func (s Symbol) EncodedSize() int {
	return 8
}

func (s Symbol) EncodeInto(buf []byte, pos int) (int, error) {
	return codec.WriteUint64(buf, pos, uint64(s))
}

func (s *Symbol) DecodeFrom(buf []byte, pos int) (int, error) {
	v, next, err := codec.ReadUint64(buf, pos)
	if err != nil {
		return pos, err
	}
	*s = Symbol(v)
	return next, nil
}

// Asset is an amount in the smallest unit of its symbol
type Asset struct {
	Amount int64
	Symbol Symbol
}

// Parse reads "<amount> <CODE>", taking the precision from the number of decimals
func Parse(s string) (Asset, error) {
	amountStr, code, ok := strings.Cut(strings.TrimSpace(s), " ")
	if !ok {
		return Asset{}, errors.Wrapf(ErrInvalidAsset, "%q is missing a symbol", s)
	}
	code = strings.TrimSpace(code)

	negative := strings.HasPrefix(amountStr, "-")
	digits := strings.TrimPrefix(amountStr, "-")

	whole, frac, hasDot := strings.Cut(digits, ".")
	if whole == "" || (hasDot && frac == "") {
		return Asset{}, errors.Wrapf(ErrInvalidAsset, "malformed amount %q", amountStr)
	}
	if len(frac) > MaxPrecision {
		return Asset{}, errors.Wrapf(ErrInvalidAsset, "amount %q has more than %d decimals", amountStr, MaxPrecision)
	}

	symbol, err := NewSymbol(uint8(len(frac)), code)
	if err != nil {
		return Asset{}, err
	}

	amount, err := strconv.ParseInt(whole+frac, 10, 64)
	if err != nil || amount > MaxAmount {
		return Asset{}, errors.Wrapf(ErrInvalidAsset, "amount %q is out of range", amountStr)
	}
	for _, c := range whole + frac {
		if c < '0' || c > '9' {
			return Asset{}, errors.Wrapf(ErrInvalidAsset, "amount %q is not a decimal number", amountStr)
		}
	}
	if negative {
		amount = -amount
	}

	return Asset{Amount: amount, Symbol: symbol}, nil
}

func (a Asset) String() string {
	precision := int(a.Symbol.Precision())
	abs := a.Amount
	sign := ""
	if abs < 0 {
		sign = "-"
		abs = -abs
	}

	digits := strconv.FormatInt(abs, 10)
	if precision > 0 {
		if len(digits) <= precision {
			digits = strings.Repeat("0", precision-len(digits)+1) + digits
		}
		digits = digits[:len(digits)-precision] + "." + digits[len(digits)-precision:]
	}
	return sign + digits + " " + a.Symbol.Code()
}

func (a Asset) EncodedSize() int {
	return 8 + a.Symbol.EncodedSize()
}

func (a Asset) EncodeInto(buf []byte, pos int) (int, error) {
	next, err := codec.WriteInt64(buf, pos, a.Amount)
	if err != nil {
		return pos, err
	}
	return a.Symbol.EncodeInto(buf, next)
}

func (a *Asset) DecodeFrom(buf []byte, pos int) (int, error) {
	amount, next, err := codec.ReadInt64(buf, pos)
	if err != nil {
		return pos, err
	}
	var symbol Symbol
	next, err = symbol.DecodeFrom(buf, next)
	if err != nil {
		return pos, err
	}
	a.Amount, a.Symbol = amount, symbol
	return next, nil
}
