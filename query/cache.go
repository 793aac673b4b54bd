package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"gitlab.com/mayachain/mayaquery/cache"
	"gitlab.com/mayachain/mayaquery/common"
	"gitlab.com/mayachain/mayaquery/config"
	"gitlab.com/mayachain/mayaquery/constants"
	"gitlab.com/mayachain/mayaquery/liquidity"
	"gitlab.com/mayachain/mayaquery/mayaclient/types"
	"gitlab.com/mayachain/mayaquery/metrics"
	"gitlab.com/mayachain/mayaquery/midgard"
)

const (
	DefaultInboundTTL  = 5 * time.Minute
	DefaultDecimalsTTL = 24 * time.Hour
	DefaultPoolsTTL    = 30 * time.Second

	inboundCacheName  = "inbound"
	decimalsCacheName = "decimals"
	poolsCacheName    = "pools"
)

// MayachainCache keep the inbound details, asset decimals and pools of one network
type MayachainCache struct {
	logger   zerolog.Logger
	node     NodeAPI
	indexer  IndexerAPI
	metrics  *metrics.Metrics
	inbound  *cache.TTLCache[map[string]InboundDetail]
	decimals *cache.TTLCache[DecimalsResult]
	pools    *cache.TTLCache[map[string]liquidity.LiquidityPool]
}

// NewMayachainCache create a new instance of MayachainCache, a zero TTL use the default one
func NewMayachainCache(node NodeAPI, indexer IndexerAPI, cfg config.CacheConfiguration, m *metrics.Metrics) (*MayachainCache, error) {
	if node == nil {
		return nil, fmt.Errorf("node api is nil")
	}
	if indexer == nil {
		return nil, fmt.Errorf("indexer api is nil")
	}
	if m == nil {
		return nil, fmt.Errorf("metrics is nil")
	}
	c := &MayachainCache{
		logger:  log.With().Str("module", "mayachain_cache").Logger(),
		node:    node,
		indexer: indexer,
		metrics: m,
	}
	c.inbound = cache.NewTTLCache(instrument(m, inboundCacheName, c.refreshInboundDetails), ttlOrDefault(cfg.InboundTTL, DefaultInboundTTL))
	c.decimals = cache.NewTTLCache(instrument(m, decimalsCacheName, c.refreshAssetDecimals), ttlOrDefault(cfg.DecimalsTTL, DefaultDecimalsTTL))
	c.pools = cache.NewTTLCache(instrument(m, poolsCacheName, c.refreshPools), ttlOrDefault(cfg.PoolsTTL, DefaultPoolsTTL))
	return c, nil
}

// Invalidate drop the cached values, the next read of each one refresh it
func (c *MayachainCache) Invalidate() {
	c.inbound.Invalidate()
	c.decimals.Invalidate()
	c.pools.Invalidate()
}

// CacheStatus is when a cache was last refreshed, zero if it never was, and how long a value is kept
type CacheStatus struct {
	RefreshedAt time.Time
	TTL         time.Duration
}

// Status return the CacheStatus of each cache keyed by name
func (c *MayachainCache) Status() map[string]CacheStatus {
	return map[string]CacheStatus{
		inboundCacheName:  {RefreshedAt: c.inbound.RefreshedAt(), TTL: c.inbound.TTL()},
		decimalsCacheName: {RefreshedAt: c.decimals.RefreshedAt(), TTL: c.decimals.TTL()},
		poolsCacheName:    {RefreshedAt: c.pools.RefreshedAt(), TTL: c.pools.TTL()},
	}
}

func ttlOrDefault(ttl, def time.Duration) time.Duration {
	if ttl <= 0 {
		return def
	}
	return ttl
}

// instrument record how long a refresh took and whether it succeeded
func instrument[T any](m *metrics.Metrics, name string, refresh cache.RefreshFunc[T]) cache.RefreshFunc[T] {
	return func(ctx context.Context) (T, error) {
		start := time.Now()
		value, err := refresh(ctx)
		m.GetHistogramVec(metrics.CacheRefreshDuration).WithLabelValues(name).Observe(time.Since(start).Seconds())
		result := "success"
		if err != nil {
			result = "failure"
		}
		m.GetCounterVec(metrics.CacheRefresh).WithLabelValues(name, result).Inc()
		return value, err
	}
}

func (c *MayachainCache) refreshInboundDetails(ctx context.Context) (map[string]InboundDetail, error) {
	var mimir map[string]int64
	var addresses []types.InboundAddress
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		mimir, err = c.node.GetMimir(gctx)
		if err != nil {
			return fmt.Errorf("fail to get mimir: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		addresses, err = c.node.GetInboundAddresses(gctx)
		if err != nil {
			return fmt.Errorf("fail to get inbound addresses: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	flags := constants.Mimir(mimir)
	details := make(map[string]InboundDetail, len(addresses)+1)
	for _, addr := range addresses {
		if missing := addr.MissingFields(); len(missing) > 0 {
			return nil, fmt.Errorf("inbound address of %q lacks %s: %w", addr.Chain, strings.Join(missing, ", "), ErrMissingInboundInfo)
		}
		chain, err := common.NewChain(addr.Chain)
		if err != nil {
			return nil, fmt.Errorf("fail to parse inbound chain: %w", err)
		}
		key := chain.String()
		details[key] = InboundDetail{
			Chain:          chain,
			Address:        addr.Address,
			Router:         addr.Router,
			GasRate:        addr.GasRate,
			GasRateUnits:   addr.GasRateUnits,
			OutboundTxSize: addr.OutboundTxSize,
			OutboundFee:    addr.OutboundFee,
			HaltedChain:    addr.Halted || flags.IsSet(constants.HaltChain(key)) || flags.IsSet(constants.HaltChainGlobal),
			HaltedTrading:  flags.IsSet(constants.HaltTrading) || flags.IsSet(constants.HaltChainTrading(key)),
			HaltedLP:       flags.IsSet(constants.PauseLP) || flags.IsSet(constants.PauseChainLP(key)),
		}
	}
	// MAYA has no inbound vault, it is never part of the node response
	details[common.MAYAChain.String()] = InboundDetail{
		Chain:          common.MAYAChain,
		GasRate:        sdk.ZeroUint(),
		OutboundTxSize: sdk.ZeroUint(),
		OutboundFee:    sdk.ZeroUint(),
		HaltedTrading:  flags.IsSet(constants.HaltTrading),
	}
	return details, nil
}

func (c *MayachainCache) refreshAssetDecimals(ctx context.Context) (DecimalsResult, error) {
	pools, err := c.node.GetPools(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("fail to get pools from mayanode, use the fallback decimals")
		c.metrics.GetCounterVec(metrics.CacheFallback).WithLabelValues(decimalsCacheName).Inc()
		return DecimalsResult{
			Decimals:       copyDecimals(fallbackDecimals),
			FallbackUsed:   true,
			FallbackReason: err.Error(),
		}, nil
	}
	decimals := copyDecimals(nativeDecimals)
	for _, pool := range pools {
		asset, err := common.NewAsset(pool.Asset)
		if err != nil {
			return DecimalsResult{}, fmt.Errorf("fail to parse pool asset: %w", err)
		}
		d := int(pool.Decimals)
		if d <= 0 {
			d = common.DefaultDecimals
		}
		decimals[asset.String()] = d
	}
	return DecimalsResult{Decimals: decimals}, nil
}

func (c *MayachainCache) refreshPools(ctx context.Context) (map[string]liquidity.LiquidityPool, error) {
	details, err := c.poolsFromNode(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("fail to get pools from mayanode, fallback to midgard")
		c.metrics.GetCounterVec(metrics.CacheFallback).WithLabelValues(poolsCacheName).Inc()
		var midgardErr error
		details, midgardErr = c.poolsFromIndexer(ctx)
		if midgardErr != nil {
			return nil, fmt.Errorf("fail to get pools from mayanode (%s) and midgard: %w", err, midgardErr)
		}
	}
	pools := make(map[string]liquidity.LiquidityPool, len(details))
	for _, detail := range details {
		pool, err := liquidity.NewLiquidityPool(detail)
		if err != nil {
			return nil, err
		}
		pools[pool.Asset.PoolKey()] = pool
	}
	return pools, nil
}

func (c *MayachainCache) poolsFromNode(ctx context.Context) ([]liquidity.PoolDetail, error) {
	pools, err := c.node.GetPools(ctx)
	if err != nil {
		return nil, err
	}
	details := make([]liquidity.PoolDetail, 0, len(pools))
	for _, pool := range pools {
		details = append(details, liquidity.PoolDetail{
			Asset:                pool.Asset,
			AssetDepth:           common.UintOrZero(pool.BalanceAsset),
			CacaoDepth:           common.UintOrZero(pool.BalanceCacao),
			LiquidityUnits:       common.UintOrZero(pool.LPUnits),
			Units:                common.UintOrZero(pool.PoolUnits),
			SynthSupply:          common.UintOrZero(pool.SynthSupply),
			SynthUnits:           common.UintOrZero(pool.SynthUnits),
			Status:               pool.Status,
			NativeDecimal:        pool.Decimals,
			AssetPrice:           "0",
			AssetPriceUSD:        "0",
			AnnualPercentageRate: "0",
			PoolAPY:              "0",
			SaversDepth:          common.UintOrZero(pool.SaversDepth),
			Volume24h:            "0",
		})
	}
	return details, nil
}

func (c *MayachainCache) poolsFromIndexer(ctx context.Context) ([]liquidity.PoolDetail, error) {
	pools, err := c.indexer.GetPools(ctx)
	if err != nil {
		return nil, err
	}
	details := make([]liquidity.PoolDetail, 0, len(pools))
	for _, pool := range pools {
		detail, err := midgardPoolDetail(pool)
		if err != nil {
			return nil, fmt.Errorf("fail to map midgard pool %s: %w", pool.Asset, err)
		}
		details = append(details, detail)
	}
	return details, nil
}

func midgardPoolDetail(pool midgard.PoolDetail) (liquidity.PoolDetail, error) {
	var err error
	parse := func(input string) sdk.Uint {
		if err != nil {
			return sdk.ZeroUint()
		}
		var u sdk.Uint
		u, err = common.ParseUint(input)
		return u
	}
	detail := liquidity.PoolDetail{
		Asset:                pool.Asset,
		AssetDepth:           parse(pool.AssetDepth),
		CacaoDepth:           parse(pool.RuneDepth),
		LiquidityUnits:       parse(pool.LiquidityUnits),
		Units:                parse(pool.Units),
		SynthSupply:          parse(pool.SynthSupply),
		SynthUnits:           parse(pool.SynthUnits),
		SaversDepth:          parse(pool.SaversDepth),
		Status:               pool.Status,
		AssetPrice:           pool.AssetPrice,
		AssetPriceUSD:        pool.AssetPriceUSD,
		AnnualPercentageRate: pool.AnnualPercentageRate,
		PoolAPY:              pool.PoolAPY,
		Volume24h:            pool.Volume24h,
	}
	if err != nil {
		return liquidity.PoolDetail{}, err
	}
	if pool.NativeDecimal != "" {
		detail.NativeDecimal, err = strconv.ParseInt(pool.NativeDecimal, 10, 64)
		if err != nil {
			return liquidity.PoolDetail{}, fmt.Errorf("fail to parse native decimal: %w", err)
		}
	}
	return detail, nil
}

// GetInboundDetails return the inbound details keyed by chain
func (c *MayachainCache) GetInboundDetails(ctx context.Context) (map[string]InboundDetail, error) {
	details, err := c.inbound.Get(ctx)
	if err != nil {
		return nil, err
	}
	result := make(map[string]InboundDetail, len(details))
	for k, v := range details {
		result[k] = v
	}
	return result, nil
}

// GetAssetDecimalsDetailed return the decimals table along with whether the fallback was used
func (c *MayachainCache) GetAssetDecimalsDetailed(ctx context.Context) (DecimalsResult, error) {
	result, err := c.decimals.Get(ctx)
	if err != nil {
		return DecimalsResult{}, err
	}
	result.Decimals = copyDecimals(result.Decimals)
	return result, nil
}

// GetAssetDecimals return the decimals of every known asset keyed by asset notation
func (c *MayachainCache) GetAssetDecimals(ctx context.Context) (map[string]int, error) {
	result, err := c.GetAssetDecimalsDetailed(ctx)
	if err != nil {
		return nil, err
	}
	return result.Decimals, nil
}

// GetDecimalsOfAsset return the decimals of one asset, synths and trade assets use the Mayachain notation
func (c *MayachainCache) GetDecimalsOfAsset(ctx context.Context, asset common.Asset) (int, error) {
	if asset.IsSynth() || asset.IsTrade() {
		return common.DefaultDecimals, nil
	}
	result, err := c.decimals.Get(ctx)
	if err != nil {
		return 0, err
	}
	d, ok := result.Decimals[asset.String()]
	if !ok {
		return 0, fmt.Errorf("Can not get decimals for %s: %w", asset, ErrNoDecimals)
	}
	return d, nil
}

// GetPools return the pools keyed by asset notation
func (c *MayachainCache) GetPools(ctx context.Context) (map[string]liquidity.LiquidityPool, error) {
	pools, err := c.pools.Get(ctx)
	if err != nil {
		return nil, err
	}
	result := make(map[string]liquidity.LiquidityPool, len(pools))
	for k, v := range pools {
		result[k] = v
	}
	return result, nil
}

// GetPoolForAsset return the pool of the asset, synths and trade assets resolve to the pool of the layer one asset
func (c *MayachainCache) GetPoolForAsset(ctx context.Context, asset common.Asset) (liquidity.LiquidityPool, error) {
	if asset.IsCacao() {
		return liquidity.LiquidityPool{}, fmt.Errorf("CACAO has no pool: %w", ErrPoolNotFound)
	}
	pools, err := c.pools.Get(ctx)
	if err != nil {
		return liquidity.LiquidityPool{}, err
	}
	pool, ok := pools[asset.PoolKey()]
	if !ok {
		return liquidity.LiquidityPool{}, fmt.Errorf("no pool for %s: %w", asset, ErrPoolNotFound)
	}
	return pool, nil
}

// GetExchangeRate return how many units of to one unit of from is worth
func (c *MayachainCache) GetExchangeRate(ctx context.Context, from, to common.Asset) (decimal.Decimal, error) {
	if from.Equals(to) {
		return decimal.NewFromInt(1), nil
	}
	switch {
	case from.IsCacao():
		pool, err := c.GetPoolForAsset(ctx, to)
		if err != nil {
			return decimal.Zero, err
		}
		return pool.AssetToCacaoRatio()
	case to.IsCacao():
		pool, err := c.GetPoolForAsset(ctx, from)
		if err != nil {
			return decimal.Zero, err
		}
		return pool.CacaoToAssetRatio()
	}
	fromPool, err := c.GetPoolForAsset(ctx, from)
	if err != nil {
		return decimal.Zero, err
	}
	toPool, err := c.GetPoolForAsset(ctx, to)
	if err != nil {
		return decimal.Zero, err
	}
	fromInCacao, err := fromPool.CacaoToAssetRatio()
	if err != nil {
		return decimal.Zero, err
	}
	cacaoInTo, err := toPool.AssetToCacaoRatio()
	if err != nil {
		return decimal.Zero, err
	}
	return fromInCacao.Mul(cacaoInTo), nil
}

// Convert value the input in outAsset at the current pool prices, the result use the decimals of outAsset
func (c *MayachainCache) Convert(ctx context.Context, input common.CryptoAmount, outAsset common.Asset) (common.CryptoAmount, error) {
	rate, err := c.GetExchangeRate(ctx, input.Asset, outAsset)
	if err != nil {
		return common.CryptoAmount{}, fmt.Errorf("fail to get exchange rate: %w", err)
	}
	outDecimals, err := c.GetDecimalsOfAsset(ctx, outAsset)
	if err != nil {
		return common.CryptoAmount{}, err
	}
	out, err := common.BaseAmountFromAssetAmount(input.AssetAmount().Mul(rate), outDecimals)
	if err != nil {
		return common.CryptoAmount{}, err
	}
	return common.NewCryptoAmount(out, outAsset), nil
}
