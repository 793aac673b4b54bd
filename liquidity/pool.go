package liquidity

import (
	"encoding/json"
	"fmt"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"gitlab.com/mayachain/mayaquery/common"
)

// ErrZeroBalance is returned when a ratio would divide by an empty side of a pool
var ErrZeroBalance = errors.New("pool balance is zero")

// PoolStatus is an indication of what the pool state is
type PoolStatus int

const (
	Available PoolStatus = iota
	Staged
	Suspended
	Unknown
)

var poolStatusStr = map[string]PoolStatus{
	"Available": Available,
	"Staged":    Staged,
	"Suspended": Suspended,
}

// String implement stringer
func (ps PoolStatus) String() string {
	for key, item := range poolStatusStr {
		if item == ps {
			return key
		}
	}
	return "Unknown"
}

// MarshalJSON marshal PoolStatus to JSON in string form
func (ps PoolStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(ps.String())
}

// UnmarshalJSON convert string form back to PoolStatus
func (ps *PoolStatus) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*ps = GetPoolStatus(s)
	return nil
}

// GetPoolStatus from string, case insensitive
func GetPoolStatus(ps string) PoolStatus {
	for key, item := range poolStatusStr {
		if strings.EqualFold(key, ps) {
			return item
		}
	}
	return Unknown
}

// PoolDetail is the canonical pool snapshot, both Mayanode and Midgard pools are mapped into it.
// Depths are expressed in the pool notation, 8 decimals for the asset side and 10 for CACAO.
type PoolDetail struct {
	Asset                string   `json:"asset"`
	AssetDepth           sdk.Uint `json:"asset_depth"`
	CacaoDepth           sdk.Uint `json:"cacao_depth"`
	LiquidityUnits       sdk.Uint `json:"liquidity_units"`
	Units                sdk.Uint `json:"units"`
	SynthSupply          sdk.Uint `json:"synth_supply"`
	SynthUnits           sdk.Uint `json:"synth_units"`
	Status               string   `json:"status"`
	NativeDecimal        int64    `json:"native_decimal"`
	AssetPrice           string   `json:"asset_price"`
	AssetPriceUSD        string   `json:"asset_price_usd"`
	AnnualPercentageRate string   `json:"annual_percentage_rate"`
	PoolAPY              string   `json:"pool_apy"`
	SaversDepth          sdk.Uint `json:"savers_depth"`
	Volume24h            string   `json:"volume_24h"`
}

// LiquidityPool wrap a PoolDetail with its parsed asset and balances
type LiquidityPool struct {
	Pool         PoolDetail        `json:"pool"`
	Asset        common.Asset      `json:"asset"`
	AssetBalance common.BaseAmount `json:"asset_balance"`
	CacaoBalance common.BaseAmount `json:"cacao_balance"`
	Status       PoolStatus        `json:"status"`
}

// NewLiquidityPool create a LiquidityPool from a snapshot, fail when the asset can't be parsed
func NewLiquidityPool(pool PoolDetail) (LiquidityPool, error) {
	asset, err := common.NewAsset(pool.Asset)
	if err != nil {
		return LiquidityPool{}, fmt.Errorf("fail to parse pool asset: %w", err)
	}
	return LiquidityPool{
		Pool:         pool,
		Asset:        asset,
		AssetBalance: common.NewBaseAmount(common.UintOrZero(pool.AssetDepth), common.DefaultDecimals),
		CacaoBalance: common.NewBaseAmount(common.UintOrZero(pool.CacaoDepth), common.CacaoDecimals),
		Status:       GetPoolStatus(pool.Status),
	}, nil
}

// IsAvailable return true when the pool status is available
func (lp LiquidityPool) IsAvailable() bool {
	return lp.Status == Available
}

// LiquidityUnits return the liquidity provider units of the pool as a decimal
func (lp LiquidityPool) LiquidityUnits() decimal.Decimal {
	return common.UintToDecimal(common.UintOrZero(lp.Pool.LiquidityUnits))
}

// CacaoToAssetRatio is the amount of CACAO one whole unit of the asset is worth
func (lp LiquidityPool) CacaoToAssetRatio() (decimal.Decimal, error) {
	if lp.AssetBalance.IsZero() || lp.CacaoBalance.IsZero() {
		return decimal.Zero, fmt.Errorf("fail to get cacao to asset ratio of %s: %w", lp.Asset, ErrZeroBalance)
	}
	return lp.CacaoBalance.AssetAmount().Div(lp.AssetBalance.AssetAmount()), nil
}

// AssetToCacaoRatio is the amount of the asset one whole CACAO is worth
func (lp LiquidityPool) AssetToCacaoRatio() (decimal.Decimal, error) {
	if lp.AssetBalance.IsZero() || lp.CacaoBalance.IsZero() {
		return decimal.Zero, fmt.Errorf("fail to get asset to cacao ratio of %s: %w", lp.Asset, ErrZeroBalance)
	}
	return lp.AssetBalance.AssetAmount().Div(lp.CacaoBalance.AssetAmount()), nil
}
