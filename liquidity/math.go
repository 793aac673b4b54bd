package liquidity

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"gitlab.com/mayachain/mayaquery/common"
)

const (
	// BlocksPerDay at the Mayachain target block time of six seconds
	BlocksPerDay = 14400
	// FullProtectionDays is the period after which impermanent loss is fully covered
	FullProtectionDays = 100
	// DefaultFullProtectionBlocks is FullProtectionDays expressed in blocks
	DefaultFullProtectionBlocks = BlocksPerDay * FullProtectionDays
)

var (
	ErrZeroUnits    = errors.New("total units is zero")
	ErrInvalidBlock = errors.New("invalid block data")

	two = decimal.NewFromInt(2)
)

// LiquidityToAdd is a deposit of both sides of a pool, either side may be zero
type LiquidityToAdd struct {
	Asset common.CryptoAmount `json:"asset"`
	Cacao common.CryptoAmount `json:"cacao"`
}

// UnitData is a liquidity provider's units and the pool units they are a share of
type UnitData struct {
	LiquidityUnits decimal.Decimal `json:"liquidity_units"`
	TotalUnits     decimal.Decimal `json:"total_units"`
}

// PoolShareDetail is the pro rata claim of a liquidity provider on a pool
type PoolShareDetail struct {
	AssetShare common.CryptoAmount `json:"asset_share"`
	CacaoShare common.CryptoAmount `json:"cacao_share"`
}

// PositionDepositValue is what a liquidity provider originally deposited
type PositionDepositValue struct {
	Asset common.BaseAmount `json:"asset"`
	Cacao common.BaseAmount `json:"cacao"`
}

// Block is the block context used to work out the protection progress
type Block struct {
	Current        int64 `json:"current"`
	LastAdded      int64 `json:"last_added"`
	FullProtection int64 `json:"full_protection"`
}

// ILProtectionData is the impermanent loss protection a provider is entitled to
type ILProtectionData struct {
	ILProtection common.CryptoAmount `json:"il_protection"`
	TotalDays    string              `json:"total_days"`
}

// depths return the pool depths and the deposit expressed in the pool notation
func depths(toAdd LiquidityToAdd, pool LiquidityPool) (r, a, R, A decimal.Decimal) {
	r = toAdd.Cacao.BaseAmount.ValueIn(pool.CacaoBalance.Decimal)
	a = toAdd.Asset.BaseAmount.ValueIn(pool.AssetBalance.Decimal)
	return r, a, pool.CacaoBalance.Value(), pool.AssetBalance.Value()
}

func liquidityUnits(P, r, a, R, A decimal.Decimal) (decimal.Decimal, error) {
	if R.IsZero() || A.IsZero() {
		return decimal.Zero, ErrZeroBalance
	}
	// P * (r*A + R*a) / (2*R*A)
	numerator := P.Mul(r.Mul(A).Add(R.Mul(a)))
	denominator := two.Mul(R).Mul(A)
	return numerator.Div(denominator), nil
}

// GetLiquidityUnits calculate the liquidity units minted by adding liquidity to the pool
func GetLiquidityUnits(toAdd LiquidityToAdd, pool LiquidityPool) (decimal.Decimal, error) {
	r, a, R, A := depths(toAdd, pool)
	units, err := liquidityUnits(pool.LiquidityUnits(), r, a, R, A)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fail to get liquidity units of %s: %w", pool.Asset, err)
	}
	return units, nil
}

// GetPoolShare calculate the asset and cacao a provider can redeem
func GetPoolShare(unitData UnitData, pool LiquidityPool) (PoolShareDetail, error) {
	if unitData.TotalUnits.IsZero() {
		return PoolShareDetail{}, fmt.Errorf("fail to get pool share of %s: %w", pool.Asset, ErrZeroUnits)
	}
	// (depth * part) / total
	share := unitData.LiquidityUnits
	total := unitData.TotalUnits
	asset := pool.AssetBalance.Value().Mul(share).Div(total)
	cacao := pool.CacaoBalance.Value().Mul(share).Div(total)
	assetShare, err := common.DecimalToUint(asset)
	if err != nil {
		return PoolShareDetail{}, fmt.Errorf("fail to get pool share of %s: %w", pool.Asset, err)
	}
	cacaoShare, err := common.DecimalToUint(cacao)
	if err != nil {
		return PoolShareDetail{}, fmt.Errorf("fail to get pool share of %s: %w", pool.Asset, err)
	}
	return PoolShareDetail{
		AssetShare: common.NewCryptoAmount(common.NewBaseAmount(assetShare, pool.AssetBalance.Decimal), pool.Asset),
		CacaoShare: common.NewCryptoAmount(common.NewBaseAmount(cacaoShare, pool.CacaoBalance.Decimal), common.CacaoAsset),
	}, nil
}

// GetPoolOwnership calculate the fraction of the pool owned after the deposit, in [0,1]
func GetPoolOwnership(toAdd LiquidityToAdd, pool LiquidityPool) (decimal.Decimal, error) {
	r, a, R, A := depths(toAdd, pool)
	P := pool.LiquidityUnits()
	if P.IsZero() {
		if r.IsZero() && a.IsZero() {
			return decimal.Zero, nil
		}
		// the first provider owns the whole pool
		return decimal.NewFromInt(1), nil
	}
	// balances must include the deposit first
	minted, err := liquidityUnits(P, r, a, R.Add(r), A.Add(a))
	if err != nil {
		return decimal.Zero, fmt.Errorf("fail to get pool ownership of %s: %w", pool.Asset, err)
	}
	return minted.Div(P.Add(minted)), nil
}

// GetSlipOnLiquidity calculate the slip of adding liquidity, 0.123 means 12.3%
func GetSlipOnLiquidity(toAdd LiquidityToAdd, pool LiquidityPool) (decimal.Decimal, error) {
	r, t, R, T := depths(toAdd, pool)
	if R.IsZero() || T.IsZero() {
		return decimal.Zero, fmt.Errorf("fail to get slip on liquidity of %s: %w", pool.Asset, ErrZeroBalance)
	}
	// |(t*R - T*r) / (T*r + R*T)|
	numerator := t.Mul(R).Sub(T.Mul(r))
	denominator := T.Mul(r).Add(R.Mul(T))
	return numerator.Div(denominator).Abs(), nil
}

// GetLiquidityProtectionData calculate the impermanent loss protection of a position.
// The deposit and current share are valued at the current pool ratio, protection only covers a loss.
func GetLiquidityProtectionData(depositValue PositionDepositValue, poolShare PoolShareDetail, block Block) (ILProtectionData, error) {
	if block.FullProtection <= 0 {
		return ILProtectionData{}, fmt.Errorf("full protection must be positive: %w", ErrInvalidBlock)
	}
	// everything is valued in the notation of the deposit
	R0 := depositValue.Cacao.Value()
	A0 := depositValue.Asset.Value()
	R1 := poolShare.CacaoShare.BaseAmount.ValueIn(depositValue.Cacao.Decimal)
	A1 := poolShare.AssetShare.BaseAmount.ValueIn(depositValue.Asset.Decimal)
	if A1.IsZero() {
		return ILProtectionData{}, fmt.Errorf("fail to get current pool ratio: %w", ErrZeroBalance)
	}
	P1 := R1.Div(A1)

	// coverage = (A0*P1 + R0) - (A1*P1 + R1)
	coverage := A0.Mul(P1).Add(R0).Sub(A1.Mul(P1).Add(R1))
	if coverage.IsNegative() {
		coverage = decimal.Zero
	}

	progress := decimal.NewFromInt(block.Current - block.LastAdded).Div(decimal.NewFromInt(block.FullProtection))
	if progress.GreaterThan(decimal.NewFromInt(1)) {
		progress = decimal.NewFromInt(1)
	}
	if progress.IsNegative() {
		progress = decimal.Zero
	}

	protection, err := common.DecimalToUint(coverage.Mul(progress))
	if err != nil {
		return ILProtectionData{}, fmt.Errorf("fail to get protection: %w", err)
	}
	return ILProtectionData{
		ILProtection: common.NewCryptoAmount(common.NewBaseAmount(protection, depositValue.Cacao.Decimal), common.CacaoAsset),
		TotalDays:    progress.Mul(decimal.NewFromInt(FullProtectionDays)).StringFixed(2),
	}, nil
}
