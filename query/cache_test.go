package query

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "gopkg.in/check.v1"

	"gitlab.com/mayachain/mayaquery/common"
	"gitlab.com/mayachain/mayaquery/config"
	"gitlab.com/mayachain/mayaquery/liquidity"
	"gitlab.com/mayachain/mayaquery/metrics"
)

type CacheSuite struct{}

var _ = Suite(&CacheSuite{})

func (s *CacheSuite) TestNewMayachainCache(c *C) {
	m, err := metrics.NewMetrics(config.MetricsConfiguration{})
	c.Assert(err, IsNil)
	mc, err := NewMayachainCache(nil, newFakeIndexer(c), config.CacheConfiguration{}, m)
	c.Assert(err, NotNil)
	c.Assert(mc, IsNil)
	mc, err = NewMayachainCache(newFakeNode(c), nil, config.CacheConfiguration{}, m)
	c.Assert(err, NotNil)
	c.Assert(mc, IsNil)
	mc, err = NewMayachainCache(newFakeNode(c), newFakeIndexer(c), config.CacheConfiguration{}, nil)
	c.Assert(err, NotNil)
	c.Assert(mc, IsNil)

	mc, err = NewMayachainCache(newFakeNode(c), newFakeIndexer(c), config.CacheConfiguration{
		PoolsTTL: 10 * time.Second,
	}, m)
	c.Assert(err, IsNil)
	c.Check(mc.pools.TTL(), Equals, 10*time.Second)
	c.Check(mc.inbound.TTL(), Equals, DefaultInboundTTL)
	c.Check(mc.decimals.TTL(), Equals, DefaultDecimalsTTL)
}

func (s *CacheSuite) TestInvalidate(c *C) {
	node := newFakeNode(c)
	q := newTestQuery(c, node, newFakeIndexer(c))
	ctx := context.Background()
	for name, status := range q.Cache().Status() {
		c.Check(status.RefreshedAt.IsZero(), Equals, true, Commentf(name))
	}
	c.Check(q.Cache().Status()[poolsCacheName].TTL, Equals, DefaultPoolsTTL)

	_, err := q.GetInboundDetails(ctx)
	c.Assert(err, IsNil)
	_, err = q.GetPools(ctx)
	c.Assert(err, IsNil)
	_, err = q.GetAssetDecimals(ctx, common.BTCAsset)
	c.Assert(err, IsNil)
	c.Check(node.called("inbound"), Equals, 1)
	c.Check(node.called("pools"), Equals, 2)
	for name, status := range q.Cache().Status() {
		c.Check(status.RefreshedAt.IsZero(), Equals, false, Commentf(name))
	}

	q.Cache().Invalidate()
	for name, status := range q.Cache().Status() {
		c.Check(status.RefreshedAt.IsZero(), Equals, true, Commentf(name))
	}
	_, err = q.GetInboundDetails(ctx)
	c.Assert(err, IsNil)
	_, err = q.GetPools(ctx)
	c.Assert(err, IsNil)
	c.Check(node.called("inbound"), Equals, 2)
	c.Check(node.called("pools"), Equals, 3)
}

func (s *CacheSuite) TestInboundDetails(c *C) {
	node := newFakeNode(c)
	q := newTestQuery(c, node, newFakeIndexer(c))
	details, err := q.GetInboundDetails(context.Background())
	c.Assert(err, IsNil)
	c.Assert(details, HasLen, 7)

	btc := details["BTC"]
	c.Check(btc.Chain, Equals, common.BTCChain)
	c.Check(btc.Address, Equals, "bc1q0cyg49kz2u982x0m57f8ces0296s04wedddrcs")
	c.Check(btc.OutboundFee.Uint64(), Equals, uint64(82500))
	c.Check(btc.GasRateUnits, Equals, "satsperbyte")
	c.Check(btc.HaltedChain, Equals, false)
	c.Check(btc.HaltedTrading, Equals, false)
	c.Check(btc.HaltedLP, Equals, false)

	eth := details["ETH"]
	c.Check(eth.HaltedChain, Equals, true)
	c.Check(eth.Router, Equals, "0xe3985E6b61b814F7Cdb188766562ba71b446B46d")
	c.Check(details["KUJI"].HaltedChain, Equals, true)
	// HALTDASHCHAIN is 0
	c.Check(details["DASH"].HaltedChain, Equals, false)
	c.Check(details["THOR"].HaltedTrading, Equals, true)
	c.Check(details["THOR"].HaltedChain, Equals, false)
	c.Check(details["ARB"].HaltedLP, Equals, true)
	c.Check(details["ARB"].HaltedTrading, Equals, false)

	maya := details["MAYA"]
	c.Check(maya.Chain, Equals, common.MAYAChain)
	c.Check(maya.Address, Equals, "")
	c.Check(maya.GasRate.IsZero(), Equals, true)
	c.Check(maya.OutboundFee.IsZero(), Equals, true)
	c.Check(maya.HaltedChain, Equals, false)
	c.Check(maya.HaltedTrading, Equals, false)
	c.Check(maya.HaltedLP, Equals, false)

	// callers get their own copy
	delete(details, "BTC")
	details, err = q.GetInboundDetails(context.Background())
	c.Assert(err, IsNil)
	c.Check(details, HasLen, 7)
	c.Check(node.called("mimir"), Equals, 1)
	c.Check(node.called("inbound"), Equals, 1)

	detail, err := q.GetChainInboundDetails(context.Background(), common.THORChain)
	c.Assert(err, IsNil)
	c.Check(detail.Address, Equals, "thor10cyg49kz2u982x0m57f8ces0296s04weas2nfz")
	_, err = q.GetChainInboundDetails(context.Background(), common.Chain("BNB"))
	c.Assert(err, ErrorMatches, "no inbound details known for BNB chain.*")
	c.Check(errors.Is(err, ErrUnknownChain), Equals, true)
}

func (s *CacheSuite) TestInboundDetailsGlobalHalt(c *C) {
	node := newFakeNode(c)
	node.mimir = map[string]int64{"HALTCHAINGLOBAL": 1, "HALTTRADING": 1}
	q := newTestQuery(c, node, newFakeIndexer(c))
	details, err := q.GetInboundDetails(context.Background())
	c.Assert(err, IsNil)
	for chain, detail := range details {
		c.Check(detail.HaltedTrading, Equals, true, Commentf("chain %s", chain))
		if chain == "MAYA" {
			c.Check(detail.HaltedChain, Equals, false)
			continue
		}
		c.Check(detail.HaltedChain, Equals, true, Commentf("chain %s", chain))
	}
}

func (s *CacheSuite) TestInboundDetailsErrors(c *C) {
	node := newFakeNode(c)
	node.inbound = nil
	loadFixture(c, "mayanode/inbound_addresses_incomplete.json", &node.inbound)
	q := newTestQuery(c, node, newFakeIndexer(c))
	_, err := q.GetInboundDetails(context.Background())
	c.Assert(err, NotNil)
	c.Check(errors.Is(err, ErrMissingInboundInfo), Equals, true)
	c.Check(err, ErrorMatches, ".*outbound_tx_size, outbound_fee.*")

	node = newFakeNode(c)
	node.mimirErr = errors.New("mimir is down")
	q = newTestQuery(c, node, newFakeIndexer(c))
	_, err = q.GetInboundDetails(context.Background())
	c.Assert(err, ErrorMatches, "fail to get mimir: mimir is down")
	counter := q.cache.metrics.GetCounterVec(metrics.CacheRefresh).WithLabelValues(inboundCacheName, "failure")
	c.Check(testutil.ToFloat64(counter), Equals, float64(1))

	// a failed refresh is retried on the next call
	node.mimirErr = nil
	details, err := q.GetInboundDetails(context.Background())
	c.Assert(err, IsNil)
	c.Check(details, HasLen, 7)
}

func (s *CacheSuite) TestAssetDecimals(c *C) {
	node := newFakeNode(c)
	q := newTestQuery(c, node, newFakeIndexer(c))
	result, err := q.GetAssetDecimalsDetailed(context.Background())
	c.Assert(err, IsNil)
	c.Check(result.FallbackUsed, Equals, false)
	c.Check(result.FallbackReason, Equals, "")
	c.Check(result.Decimals, DeepEquals, map[string]int{
		"BTC.BTC":   8,
		"ETH.ETH":   18,
		"DASH.DASH": 8,
		"ETH.USDT-0XDAC17F958D2EE523A2206206994597C13D831EC7": 6,
		"MAYA.CACAO": 10,
		"THOR.RUNE":  8,
	})

	for input, expected := range map[string]int{
		"ETH.ETH":    18,
		"ETH/ETH":    8,
		"ETH~ETH":    8,
		"MAYA.CACAO": 10,
		"eth.usdt-0xdac17f958d2ee523a2206206994597c13d831ec7": 6,
	} {
		d, err := q.GetAssetDecimals(context.Background(), mustAsset(c, input))
		c.Assert(err, IsNil)
		c.Check(d, Equals, expected, Commentf("asset %s", input))
	}
	_, err = q.GetAssetDecimals(context.Background(), mustAsset(c, "BNB.BNB"))
	c.Assert(err, ErrorMatches, "Can not get decimals for BNB.BNB.*")
	c.Check(errors.Is(err, ErrNoDecimals), Equals, true)
	c.Check(node.called("pools"), Equals, 1)
}

func (s *CacheSuite) TestAssetDecimalsFallback(c *C) {
	node := newFakeNode(c)
	node.poolsErr = errors.New("mayanode is down")
	q := newTestQuery(c, node, newFakeIndexer(c))
	result, err := q.GetAssetDecimalsDetailed(context.Background())
	c.Assert(err, IsNil)
	c.Check(result.FallbackUsed, Equals, true)
	c.Check(result.FallbackReason, Equals, "mayanode is down")
	c.Check(result.Decimals["ETH.ETH"], Equals, 18)
	c.Check(result.Decimals["KUJI.KUJI"], Equals, 6)
	c.Check(result.Decimals["MAYA.CACAO"], Equals, 10)

	// the caller can't alter the cached table
	result.Decimals["ETH.ETH"] = 0
	d, err := q.GetAssetDecimals(context.Background(), common.ETHAsset)
	c.Assert(err, IsNil)
	c.Check(d, Equals, 18)
	counter := q.cache.metrics.GetCounterVec(metrics.CacheFallback).WithLabelValues(decimalsCacheName)
	c.Check(testutil.ToFloat64(counter), Equals, float64(1))
}

func (s *CacheSuite) TestPools(c *C) {
	node := newFakeNode(c)
	indexer := newFakeIndexer(c)
	q := newTestQuery(c, node, indexer)
	pools, err := q.GetPools(context.Background())
	c.Assert(err, IsNil)
	c.Assert(pools, HasLen, 4)
	btc, ok := pools["BTC.BTC"]
	c.Assert(ok, Equals, true)
	c.Check(btc.IsAvailable(), Equals, true)
	c.Check(btc.AssetBalance.Equals(common.NewBaseAmountFromUint64(81300000000, 8)), Equals, true)
	c.Check(btc.CacaoBalance.Equals(common.NewBaseAmountFromUint64(88150000000000000, 10)), Equals, true)
	c.Check(btc.Pool.LiquidityUnits.Uint64(), Equals, uint64(50000000000000))
	c.Check(btc.Pool.Units.Uint64(), Equals, uint64(60000000000000))
	c.Check(btc.Pool.NativeDecimal, Equals, int64(8))
	c.Check(btc.Pool.AssetPrice, Equals, "0")
	dash := pools["DASH.DASH"]
	c.Check(dash.Status, Equals, liquidity.Staged)
	c.Check(dash.Pool.SaversDepth.IsZero(), Equals, true)
	c.Check(indexer.called("pools"), Equals, 0)

	_, err = q.GetPools(context.Background())
	c.Assert(err, IsNil)
	c.Check(node.called("pools"), Equals, 1)
}

func (s *CacheSuite) TestPoolsFallback(c *C) {
	node := newFakeNode(c)
	node.poolsErr = errors.New("mayanode is down")
	indexer := newFakeIndexer(c)
	q := newTestQuery(c, node, indexer)
	pools, err := q.GetPools(context.Background())
	c.Assert(err, IsNil)
	c.Assert(pools, HasLen, 2)
	busd := pools["BNB.BUSD-BD1"]
	c.Check(busd.Status, Equals, liquidity.Staged)
	c.Check(busd.Pool.LiquidityUnits.Uint64(), Equals, uint64(117576764000000))
	c.Check(busd.Pool.Units.Uint64(), Equals, uint64(119365324519968))
	c.Check(busd.CacaoBalance.Amount.Uint64(), Equals, uint64(486327132022076))
	c.Check(busd.Pool.AssetPriceUSD, Equals, "1")
	c.Check(pools["BTC.BTC"].Pool.Volume24h, Equals, "472358072383752")
	counter := q.cache.metrics.GetCounterVec(metrics.CacheFallback).WithLabelValues(poolsCacheName)
	c.Check(testutil.ToFloat64(counter), Equals, float64(1))

	// both sources down
	node = newFakeNode(c)
	node.poolsErr = errors.New("mayanode is down")
	indexer = newFakeIndexer(c)
	indexer.poolsErr = errors.New("midgard is down")
	q = newTestQuery(c, node, indexer)
	_, err = q.GetPools(context.Background())
	c.Assert(err, ErrorMatches, ".*midgard is down")

	// malformed data never reach the cache
	node = newFakeNode(c)
	node.poolsErr = errors.New("mayanode is down")
	indexer = newFakeIndexer(c)
	indexer.pools[0].AssetDepth = "not a number"
	q = newTestQuery(c, node, indexer)
	_, err = q.GetPools(context.Background())
	c.Assert(err, NotNil)
}

func (s *CacheSuite) TestPoolsMalformedAsset(c *C) {
	node := newFakeNode(c)
	node.pools[1].Asset = "ETH"
	q := newTestQuery(c, node, newFakeIndexer(c))
	_, err := q.GetPools(context.Background())
	c.Assert(err, ErrorMatches, "fail to parse pool asset.*")
}

func (s *CacheSuite) TestGetPoolForAsset(c *C) {
	q := newTestQuery(c, newFakeNode(c), newFakeIndexer(c))
	ctx := context.Background()
	pool, err := q.GetPoolForAsset(ctx, mustAsset(c, "BTC.BTC"))
	c.Assert(err, IsNil)
	c.Check(pool.Asset.Equals(common.BTCAsset), Equals, true)
	pool, err = q.GetPoolForAsset(ctx, mustAsset(c, "BTC/BTC"))
	c.Assert(err, IsNil)
	c.Check(pool.Asset.Equals(common.BTCAsset), Equals, true)
	pool, err = q.GetPoolForAsset(ctx, mustAsset(c, "ETH~USDT-0XDAC17F958D2EE523A2206206994597C13D831EC7"))
	c.Assert(err, IsNil)
	c.Check(pool.Asset.Symbol.String(), Equals, "USDT-0XDAC17F958D2EE523A2206206994597C13D831EC7")

	_, err = q.GetPoolForAsset(ctx, common.CacaoAsset)
	c.Check(errors.Is(err, ErrPoolNotFound), Equals, true)
	_, err = q.GetPoolForAsset(ctx, mustAsset(c, "ETH.USDC-0XA0B86991C6218B36C1D19D4A2E9EB0CE3606EB48"))
	c.Check(errors.Is(err, ErrPoolNotFound), Equals, true)
}

func (s *CacheSuite) TestExchangeRate(c *C) {
	q := newTestQuery(c, newFakeNode(c), newFakeIndexer(c))
	ctx := context.Background()
	rate, err := q.GetExchangeRate(ctx, common.BTCAsset, common.BTCAsset)
	c.Assert(err, IsNil)
	c.Check(rate.String(), Equals, "1")

	btcInCacao, err := q.GetExchangeRate(ctx, common.BTCAsset, common.CacaoAsset)
	c.Assert(err, IsNil)
	c.Check(btcInCacao.StringFixed(4), Equals, "10842.5584")
	cacaoInBTC, err := q.GetExchangeRate(ctx, common.CacaoAsset, common.BTCAsset)
	c.Assert(err, IsNil)
	c.Check(cacaoInBTC.Mul(btcInCacao).StringFixed(8), Equals, "1.00000000")

	// 1 CACAO is 0.5 USDT
	usdt := mustAsset(c, "ETH.USDT-0XDAC17F958D2EE523A2206206994597C13D831EC7")
	rate, err = q.GetExchangeRate(ctx, common.CacaoAsset, usdt)
	c.Assert(err, IsNil)
	c.Check(rate.String(), Equals, "0.5")

	btcInETH, err := q.GetExchangeRate(ctx, common.BTCAsset, common.ETHAsset)
	c.Assert(err, IsNil)
	c.Check(btcInETH.StringFixed(4), Equals, "3.6142")

	_, err = q.GetExchangeRate(ctx, common.BTCAsset, common.KUJIAsset)
	c.Check(errors.Is(err, ErrPoolNotFound), Equals, true)
}

func (s *CacheSuite) TestConvert(c *C) {
	q := newTestQuery(c, newFakeNode(c), newFakeIndexer(c))
	ctx := context.Background()
	oneBTC := common.NewCryptoAmount(common.NewBaseAmountFromUint64(100000000, 8), common.BTCAsset)
	out, err := q.Convert(ctx, oneBTC, common.CacaoAsset)
	c.Assert(err, IsNil)
	c.Check(out.Asset.Equals(common.CacaoAsset), Equals, true)
	c.Check(out.BaseAmount.Decimal, Equals, 10)
	c.Check(out.BaseAmount.Amount.Uint64(), Equals, uint64(108425584255843))

	usdt := mustAsset(c, "ETH.USDT-0XDAC17F958D2EE523A2206206994597C13D831EC7")
	tenCacao := common.NewCryptoAmount(common.NewBaseAmountFromUint64(100000000000, 10), common.CacaoAsset)
	out, err = q.Convert(ctx, tenCacao, usdt)
	c.Assert(err, IsNil)
	c.Check(out.BaseAmount.Equals(common.NewBaseAmountFromUint64(5000000, 6)), Equals, true)

	// the output use the decimals of the destination asset
	out, err = q.Convert(ctx, common.NewCryptoAmount(common.NewBaseAmountFromUint64(3000000000000000, 10), common.CacaoAsset), common.ETHAsset)
	c.Assert(err, IsNil)
	c.Check(out.BaseAmount.Decimal, Equals, 18)
	c.Check(out.AssetAmount().StringFixed(4), Equals, "100.0000")

	_, err = q.Convert(ctx, oneBTC, mustAsset(c, "BNB.BNB"))
	c.Assert(err, NotNil)
}
