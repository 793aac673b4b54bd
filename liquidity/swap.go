package liquidity

import (
	"fmt"

	"github.com/shopspring/decimal"

	"gitlab.com/mayachain/mayaquery/common"
)

// SwapOutput is the estimated result of a swap through one or two pools
type SwapOutput struct {
	Output  common.CryptoAmount `json:"output"`
	SwapFee common.CryptoAmount `json:"swap_fee"`
	Slip    decimal.Decimal     `json:"slip"`
}

// swapSides return the input in pool notation and the input and output depths for the direction
func swapSides(input common.CryptoAmount, pool LiquidityPool, toCacao bool) (x, X, Y decimal.Decimal, out common.Asset, outDecimals int) {
	if toCacao {
		return input.BaseAmount.ValueIn(pool.AssetBalance.Decimal),
			pool.AssetBalance.Value(), pool.CacaoBalance.Value(),
			common.CacaoAsset, pool.CacaoBalance.Decimal
	}
	return input.BaseAmount.ValueIn(pool.CacaoBalance.Decimal),
		pool.CacaoBalance.Value(), pool.AssetBalance.Value(),
		pool.Asset, pool.AssetBalance.Decimal
}

// GetSingleSwap estimate a swap through one pool, toCacao is the direction of the swap
func GetSingleSwap(input common.CryptoAmount, pool LiquidityPool, toCacao bool) (SwapOutput, error) {
	x, X, Y, outAsset, outDecimals := swapSides(input, pool, toCacao)
	if X.IsZero() || Y.IsZero() {
		return SwapOutput{}, fmt.Errorf("fail to swap in pool %s: %w", pool.Asset, ErrZeroBalance)
	}
	// (x + X) ^ 2
	denominator := x.Add(X).Mul(x.Add(X))
	// output: (x * X * Y) / (x + X) ^ 2
	output := x.Mul(X).Mul(Y).Div(denominator)
	// fee: (x * x * Y) / (x + X) ^ 2
	fee := x.Mul(x).Mul(Y).Div(denominator)
	// slip: x / (x + X)
	slip := x.Div(x.Add(X))
	outAmount, err := common.DecimalToUint(output)
	if err != nil {
		return SwapOutput{}, fmt.Errorf("fail to swap in pool %s: %w", pool.Asset, err)
	}
	feeAmount, err := common.DecimalToUint(fee)
	if err != nil {
		return SwapOutput{}, fmt.Errorf("fail to swap in pool %s: %w", pool.Asset, err)
	}
	return SwapOutput{
		Output:  common.NewCryptoAmount(common.NewBaseAmount(outAmount, outDecimals), outAsset),
		SwapFee: common.NewCryptoAmount(common.NewBaseAmount(feeAmount, outDecimals), outAsset),
		Slip:    slip,
	}, nil
}

// GetDoubleSwap estimate a swap from the asset of pool1 to the asset of pool2 through CACAO.
// The fee is expressed in CACAO.
func GetDoubleSwap(input common.CryptoAmount, pool1, pool2 LiquidityPool) (SwapOutput, error) {
	first, err := GetSingleSwap(input, pool1, true)
	if err != nil {
		return SwapOutput{}, err
	}
	second, err := GetSingleSwap(first.Output, pool2, false)
	if err != nil {
		return SwapOutput{}, err
	}
	ratio, err := pool2.CacaoToAssetRatio()
	if err != nil {
		return SwapOutput{}, err
	}
	secondFeeInCacao, err := common.BaseAmountFromAssetAmount(second.SwapFee.AssetAmount().Mul(ratio), pool2.CacaoBalance.Decimal)
	if err != nil {
		return SwapOutput{}, err
	}
	fee, err := first.SwapFee.Plus(common.NewCryptoAmount(secondFeeInCacao, common.CacaoAsset))
	if err != nil {
		return SwapOutput{}, err
	}
	return SwapOutput{
		Output:  second.Output,
		SwapFee: fee,
		Slip:    first.Slip.Add(second.Slip),
	}, nil
}
