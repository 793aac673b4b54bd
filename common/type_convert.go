package common

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/shopspring/decimal"
)

// One is useful type so we don't need to manage 8 zeroes all the time
const One = 100000000

// MaxUintBits is the widest magnitude a sdk.Uint can hold
const MaxUintBits = 256

// ErrUintOverflow is returned when a magnitude does not fit in MaxUintBits
var ErrUintOverflow = errors.New("uint overflow")

// ParseUint parse a base 10 unsigned integer string, an empty string is treated as zero
func ParseUint(input string) (sdk.Uint, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return sdk.ZeroUint(), nil
	}
	i, ok := new(big.Int).SetString(input, 10)
	if !ok {
		return sdk.ZeroUint(), fmt.Errorf("%q is not a valid integer", input)
	}
	if i.Sign() < 0 {
		return sdk.ZeroUint(), fmt.Errorf("%q is negative", input)
	}
	if i.BitLen() > MaxUintBits {
		return sdk.ZeroUint(), fmt.Errorf("%q overflows %d bits: %w", input, MaxUintBits, ErrUintOverflow)
	}
	return sdk.NewUintFromBigInt(i), nil
}

// UintOrZero return zero for an uninitialised sdk.Uint, which would panic on use
func UintOrZero(u sdk.Uint) sdk.Uint {
	if u == (sdk.Uint{}) {
		return sdk.ZeroUint()
	}
	return u
}

// UintToDecimal convert the integer magnitude to an unscaled decimal
func UintToDecimal(input sdk.Uint) decimal.Decimal {
	return decimal.NewFromBigInt(UintOrZero(input).BigInt(), 0)
}

// DecimalToUint round the decimal half up to an integer, negative values become zero
func DecimalToUint(input decimal.Decimal) (sdk.Uint, error) {
	rounded := input.Round(0)
	if rounded.Sign() <= 0 {
		return sdk.ZeroUint(), nil
	}
	i := rounded.BigInt()
	if i.BitLen() > MaxUintBits {
		return sdk.ZeroUint(), fmt.Errorf("%s overflows %d bits: %w", rounded, MaxUintBits, ErrUintOverflow)
	}
	return sdk.NewUintFromBigInt(i), nil
}
