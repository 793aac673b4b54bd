package common

import (
	"errors"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/shopspring/decimal"
)

const (
	// DefaultDecimals is the notation Mayachain uses for every asset other than CACAO
	DefaultDecimals = 8
	// CacaoDecimals is the notation of MAYA.CACAO
	CacaoDecimals = 10
)

var errAssetMismatch = errors.New("assets do not match")

// BaseAmount is an integer magnitude expressed in the smallest unit of a notation with Decimal places
type BaseAmount struct {
	Amount  sdk.Uint `json:"amount"`
	Decimal int      `json:"decimal"`
}

// NewBaseAmount create a new BaseAmount
func NewBaseAmount(amount sdk.Uint, decimals int) BaseAmount {
	return BaseAmount{
		Amount:  amount,
		Decimal: decimals,
	}
}

// NewBaseAmountFromUint64 create a new BaseAmount from a uint64 magnitude
func NewBaseAmountFromUint64(amount uint64, decimals int) BaseAmount {
	return NewBaseAmount(sdk.NewUint(amount), decimals)
}

// ZeroBaseAmount return a zero amount at the given notation
func ZeroBaseAmount(decimals int) BaseAmount {
	return NewBaseAmount(sdk.ZeroUint(), decimals)
}

// ParseBaseAmount parse an integer magnitude string
func ParseBaseAmount(input string, decimals int) (BaseAmount, error) {
	amt, err := ParseUint(input)
	if err != nil {
		return BaseAmount{}, fmt.Errorf("fail to parse base amount: %w", err)
	}
	return NewBaseAmount(amt, decimals), nil
}

// BaseAmountFromAssetAmount convert a human readable amount like 1.5 into base units, rounding half up
func BaseAmountFromAssetAmount(amount decimal.Decimal, decimals int) (BaseAmount, error) {
	amt, err := DecimalToUint(amount.Shift(int32(decimals)))
	if err != nil {
		return BaseAmount{}, fmt.Errorf("fail to convert %s to %d decimals: %w", amount, decimals, err)
	}
	return NewBaseAmount(amt, decimals), nil
}

// amount is the magnitude, an unset Amount reads as zero
func (b BaseAmount) amount() sdk.Uint {
	return UintOrZero(b.Amount)
}

// IsZero return true when the magnitude is zero
func (b BaseAmount) IsZero() bool {
	return b.amount().IsZero()
}

// Equals return true when both magnitude and notation match
func (b BaseAmount) Equals(b2 BaseAmount) bool {
	return b.Decimal == b2.Decimal && b.amount().Equal(b2.amount())
}

// Value return the unscaled magnitude as a decimal
func (b BaseAmount) Value() decimal.Decimal {
	return UintToDecimal(b.Amount)
}

// ValueIn return the unscaled magnitude in another notation, narrowing rounds half up.
// Unlike Rescale the result is not bound to MaxUintBits.
func (b BaseAmount) ValueIn(decimals int) decimal.Decimal {
	if decimals >= b.Decimal {
		return b.Value().Shift(int32(decimals - b.Decimal))
	}
	return b.Value().Shift(int32(decimals - b.Decimal)).Round(0)
}

// AssetAmount return the human readable amount, magnitude / 10^Decimal
func (b BaseAmount) AssetAmount() decimal.Decimal {
	return b.Value().Shift(-int32(b.Decimal))
}

// Rescale express the amount in another notation, narrowing rounds half up.
// Widening fails with ErrUintOverflow once the magnitude no longer fits.
func (b BaseAmount) Rescale(decimals int) (BaseAmount, error) {
	if decimals == b.Decimal {
		return NewBaseAmount(b.amount(), decimals), nil
	}
	amt, err := DecimalToUint(b.ValueIn(decimals))
	if err != nil {
		return BaseAmount{}, fmt.Errorf("fail to rescale %s to %d decimals: %w", b, decimals, err)
	}
	return NewBaseAmount(amt, decimals), nil
}

// Cmp compare two amounts in a common notation
func (b BaseAmount) Cmp(b2 BaseAmount) int {
	decimals := b.Decimal
	if b2.Decimal > decimals {
		decimals = b2.Decimal
	}
	return b.ValueIn(decimals).Cmp(b2.ValueIn(decimals))
}

// String implement fmt.Stringer
func (b BaseAmount) String() string {
	return fmt.Sprintf("%s(%d)", b.amount().String(), b.Decimal)
}

// CryptoAmount is a BaseAmount tagged with the asset it is denominated in
type CryptoAmount struct {
	BaseAmount BaseAmount `json:"base_amount"`
	Asset      Asset      `json:"asset"`
}

// NewCryptoAmount create a new CryptoAmount
func NewCryptoAmount(amount BaseAmount, asset Asset) CryptoAmount {
	return CryptoAmount{
		BaseAmount: amount,
		Asset:      asset,
	}
}

// ZeroCryptoAmount return a zero amount of asset at the given notation
func ZeroCryptoAmount(asset Asset, decimals int) CryptoAmount {
	return NewCryptoAmount(ZeroBaseAmount(decimals), asset)
}

// AssetAmount return the human readable amount
func (c CryptoAmount) AssetAmount() decimal.Decimal {
	return c.BaseAmount.AssetAmount()
}

// IsZero return true when the magnitude is zero
func (c CryptoAmount) IsZero() bool {
	return c.BaseAmount.IsZero()
}

// Plus add two amounts of the same asset, the result use the notation of c
func (c CryptoAmount) Plus(c2 CryptoAmount) (CryptoAmount, error) {
	if !c.Asset.Equals(c2.Asset) {
		return CryptoAmount{}, fmt.Errorf("fail to add %s to %s: %w", c2.Asset, c.Asset, errAssetMismatch)
	}
	sum, err := DecimalToUint(c.BaseAmount.Value().Add(c2.BaseAmount.ValueIn(c.BaseAmount.Decimal)))
	if err != nil {
		return CryptoAmount{}, fmt.Errorf("fail to add %s to %s: %w", c2, c, err)
	}
	return NewCryptoAmount(NewBaseAmount(sum, c.BaseAmount.Decimal), c.Asset), nil
}

// String implement fmt.Stringer
func (c CryptoAmount) String() string {
	return fmt.Sprintf("%s %s", c.AssetAmount().String(), c.Asset)
}
