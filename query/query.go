package query

import (
	"context"
	"fmt"
	"time"

	"github.com/blang/semver"
	sdk "github.com/cosmos/cosmos-sdk/types"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"gitlab.com/mayachain/mayaquery/common"
	"gitlab.com/mayachain/mayaquery/liquidity"
	"gitlab.com/mayachain/mayaquery/mayaclient/types"
	"gitlab.com/mayachain/mayaquery/metrics"
)

// DefaultMAYANameTTL is how long a MAYAName lookup is kept
const DefaultMAYANameTTL = time.Minute

// MayachainQuery answer questions about Mayachain from a MayachainCache
type MayachainQuery struct {
	logger    zerolog.Logger
	cache     *MayachainCache
	metrics   *metrics.Metrics
	mayanames *gocache.Cache
	now       func() time.Time
}

// NewMayachainQuery create a new MayachainQuery on top of the given cache
func NewMayachainQuery(c *MayachainCache, mayanameTTL time.Duration) (*MayachainQuery, error) {
	if c == nil {
		return nil, fmt.Errorf("mayachain cache is nil")
	}
	mayanameTTL = ttlOrDefault(mayanameTTL, DefaultMAYANameTTL)
	return &MayachainQuery{
		logger:    log.With().Str("module", "mayachain_query").Logger(),
		cache:     c,
		metrics:   c.metrics,
		mayanames: gocache.New(mayanameTTL, 2*mayanameTTL),
		now:       time.Now,
	}, nil
}

// Cache return the cache the query is built on
func (q *MayachainQuery) Cache() *MayachainCache {
	return q.cache
}

// GetNodeVersion return the version Mayanode runs
func (q *MayachainQuery) GetNodeVersion(ctx context.Context) (semver.Version, error) {
	return q.cache.node.GetVersion(ctx)
}

// quoteDecimals is the notation the quote endpoint takes and returns amounts in
func quoteDecimals(asset common.Asset) int {
	if asset.IsCacao() {
		return common.CacaoDecimals
	}
	return common.DefaultDecimals
}

// QuoteSwap request a swap quote from Mayanode. A quote Mayanode rejects is returned with CanSwap false
// and the reason in Errors, only transport and decoding failures are returned as errors.
func (q *MayachainQuery) QuoteSwap(ctx context.Context, params QuoteSwapParams) (QuoteSwap, error) {
	if err := params.Validate(); err != nil {
		return QuoteSwap{}, err
	}
	dust, err := q.GetChainDustValue(params.FromAsset.Chain)
	if err != nil {
		return QuoteSwap{}, err
	}
	q.metrics.GetCounter(metrics.QuoteRequests).Inc()

	input, err := params.Amount.BaseAmount.Rescale(quoteDecimals(params.FromAsset))
	if err != nil {
		return QuoteSwap{}, fmt.Errorf("%s: %w", err, ErrInvalidQuoteParams)
	}
	resp, err := q.cache.node.GetSwapQuote(ctx, types.QuoteSwapRequest{
		FromAsset:         params.FromAsset.String(),
		ToAsset:           params.DestinationAsset.String(),
		Amount:            input.Amount,
		Destination:       params.DestinationAddress,
		StreamingInterval: params.StreamingInterval,
		StreamingQuantity: params.StreamingQuantity,
		ToleranceBps:      params.ToleranceBps,
		AffiliateBps:      params.AffiliateBps,
		Affiliate:         params.AffiliateAddress,
		Height:            params.Height,
	})
	if err != nil {
		return QuoteSwap{}, fmt.Errorf("fail to get swap quote: %w", err)
	}
	if resp.Error != "" {
		q.logger.Debug().Str("error", resp.Error).Msg("mayanode rejected the swap quote")
		return rejectedQuote(params.DestinationAsset, dust, resp.Error), nil
	}

	feeAsset, err := common.NewAsset(resp.Fees.Asset)
	if err != nil {
		return QuoteSwap{}, fmt.Errorf("fail to parse quote fee asset: %w", err)
	}
	errs := []string{}
	if resp.Memo == "" {
		errs = append(errs, "Error parsing swap quote: Memo is empty")
	}
	feeAmount := func(u sdk.Uint) common.CryptoAmount {
		return common.NewCryptoAmount(common.NewBaseAmount(common.UintOrZero(u), quoteDecimals(feeAsset)), feeAsset)
	}
	var inboundSeconds int64
	if resp.InboundConfirmationSeconds != nil {
		inboundSeconds = *resp.InboundConfirmationSeconds
	}
	return QuoteSwap{
		ToAddress: resp.InboundAddress,
		Memo:      resp.Memo,
		ExpectedAmount: common.NewCryptoAmount(
			common.NewBaseAmount(common.UintOrZero(resp.ExpectedAmountOut), quoteDecimals(params.DestinationAsset)),
			params.DestinationAsset),
		DustThreshold: dust,
		Fees: QuoteFees{
			Asset:        feeAsset,
			AffiliateFee: feeAmount(resp.Fees.Affiliate),
			OutboundFee:  feeAmount(resp.Fees.Outbound),
			LiquidityFee: feeAmount(resp.Fees.Liquidity),
			TotalFee:     feeAmount(resp.Fees.Total),
		},
		InboundConfirmationSeconds: resp.InboundConfirmationSeconds,
		InboundConfirmationBlocks:  resp.InboundConfirmationBlocks,
		OutboundDelaySeconds:       resp.OutboundDelaySeconds,
		OutboundDelayBlocks:        resp.OutboundDelayBlocks,
		TotalSwapSeconds:           inboundSeconds + resp.OutboundDelaySeconds,
		SlipBasisPoints:            resp.Fees.SlippageBps,
		StreamingSwapBlocks:        resp.StreamingSwapBlocks,
		StreamingSwapSeconds:       resp.StreamingSwapSeconds,
		MaxStreamingQuantity:       resp.MaxStreamingQuantity,
		Expiry:                     resp.Expiry,
		RecommendedMinAmountIn: common.NewCryptoAmount(
			common.NewBaseAmount(common.UintOrZero(resp.RecommendedMinAmountIn), quoteDecimals(params.FromAsset)),
			params.FromAsset),
		Router:             resp.Router,
		RecommendedGasRate: resp.RecommendedGasRate,
		GasRateUnits:       resp.GasRateUnits,
		CanSwap:            resp.Memo != "" && len(errs) == 0,
		Errors:             errs,
	}, nil
}

func rejectedQuote(destination common.Asset, dust common.CryptoAmount, reason string) QuoteSwap {
	zero := common.ZeroCryptoAmount(destination, quoteDecimals(destination))
	return QuoteSwap{
		ExpectedAmount: zero,
		DustThreshold:  dust,
		Fees: QuoteFees{
			Asset:        destination,
			AffiliateFee: zero,
			OutboundFee:  zero,
			LiquidityFee: zero,
			TotalFee:     zero,
		},
		RecommendedMinAmountIn: zero,
		CanSwap:                false,
		Errors:                 []string{fmt.Sprintf("Mayanode request quote: %s", reason)},
	}
}

func dustOf(chain common.Chain, amount uint64, decimals int) common.CryptoAmount {
	return common.NewCryptoAmount(common.NewBaseAmountFromUint64(amount, decimals), chain.GetGasAsset())
}

// dustValues are the smallest inbound amounts Mayachain observes, per chain
var dustValues = map[common.Chain]common.CryptoAmount{
	common.BTCChain:  dustOf(common.BTCChain, 10000, 8),
	common.ETHChain:  dustOf(common.ETHChain, 0, 18),
	common.DASHChain: dustOf(common.DASHChain, 10000, 8),
	common.KUJIChain: dustOf(common.KUJIChain, 0, 6),
	common.THORChain: dustOf(common.THORChain, 0, 8),
	common.MAYAChain: dustOf(common.MAYAChain, 0, 10),
	common.ARBChain:  dustOf(common.ARBChain, 0, 18),
	common.XRDChain:  dustOf(common.XRDChain, 0, 18),
}

// GetDustValues return the dust threshold of every supported chain
func (q *MayachainQuery) GetDustValues() map[string]common.CryptoAmount {
	result := make(map[string]common.CryptoAmount, len(dustValues))
	for chain, dust := range dustValues {
		result[chain.String()] = dust
	}
	return result
}

// GetChainDustValue return the dust threshold of the chain
func (q *MayachainQuery) GetChainDustValue(chain common.Chain) (common.CryptoAmount, error) {
	dust, ok := dustValues[common.Chain(chain.String())]
	if !ok {
		return common.CryptoAmount{}, fmt.Errorf("no dust value known for %s chain: %w", chain, ErrUnknownChain)
	}
	return dust, nil
}

// GetInboundDetails return the inbound details of every chain, MAYA included
func (q *MayachainQuery) GetInboundDetails(ctx context.Context) (map[string]InboundDetail, error) {
	return q.cache.GetInboundDetails(ctx)
}

// GetChainInboundDetails return the inbound details of one chain
func (q *MayachainQuery) GetChainInboundDetails(ctx context.Context, chain common.Chain) (InboundDetail, error) {
	details, err := q.cache.GetInboundDetails(ctx)
	if err != nil {
		return InboundDetail{}, err
	}
	detail, ok := details[chain.String()]
	if !ok {
		return InboundDetail{}, fmt.Errorf("no inbound details known for %s chain: %w", chain, ErrUnknownChain)
	}
	return detail, nil
}

// GetAssetDecimals return the decimals of the asset
func (q *MayachainQuery) GetAssetDecimals(ctx context.Context, asset common.Asset) (int, error) {
	return q.cache.GetDecimalsOfAsset(ctx, asset)
}

// GetAssetDecimalsDetailed return the whole decimals table and whether it came from the fallback
func (q *MayachainQuery) GetAssetDecimalsDetailed(ctx context.Context) (DecimalsResult, error) {
	return q.cache.GetAssetDecimalsDetailed(ctx)
}

// GetPools return the pools keyed by asset
func (q *MayachainQuery) GetPools(ctx context.Context) (map[string]liquidity.LiquidityPool, error) {
	return q.cache.GetPools(ctx)
}

// GetPoolForAsset return the pool backing the asset
func (q *MayachainQuery) GetPoolForAsset(ctx context.Context, asset common.Asset) (liquidity.LiquidityPool, error) {
	return q.cache.GetPoolForAsset(ctx, asset)
}

// GetExchangeRate return how many units of to one unit of from is worth
func (q *MayachainQuery) GetExchangeRate(ctx context.Context, from, to common.Asset) (decimal.Decimal, error) {
	return q.cache.GetExchangeRate(ctx, from, to)
}

// Convert value the input amount in outAsset
func (q *MayachainQuery) Convert(ctx context.Context, input common.CryptoAmount, outAsset common.Asset) (common.CryptoAmount, error) {
	return q.cache.Convert(ctx, input, outAsset)
}

// EstimateSwap work out a swap locally from the cached pools, without asking Mayanode
func (q *MayachainQuery) EstimateSwap(ctx context.Context, input common.CryptoAmount, outAsset common.Asset) (SwapEstimate, error) {
	if input.Asset.Equals(outAsset) {
		return SwapEstimate{}, fmt.Errorf("can not swap %s to itself: %w", outAsset, ErrInvalidQuoteParams)
	}
	var out liquidity.SwapOutput
	switch {
	case input.Asset.IsCacao():
		pool, err := q.cache.GetPoolForAsset(ctx, outAsset)
		if err != nil {
			return SwapEstimate{}, err
		}
		out, err = liquidity.GetSingleSwap(input, pool, false)
		if err != nil {
			return SwapEstimate{}, err
		}
	case outAsset.IsCacao():
		pool, err := q.cache.GetPoolForAsset(ctx, input.Asset)
		if err != nil {
			return SwapEstimate{}, err
		}
		out, err = liquidity.GetSingleSwap(input, pool, true)
		if err != nil {
			return SwapEstimate{}, err
		}
	default:
		fromPool, err := q.cache.GetPoolForAsset(ctx, input.Asset)
		if err != nil {
			return SwapEstimate{}, err
		}
		toPool, err := q.cache.GetPoolForAsset(ctx, outAsset)
		if err != nil {
			return SwapEstimate{}, err
		}
		out, err = liquidity.GetDoubleSwap(input, fromPool, toPool)
		if err != nil {
			return SwapEstimate{}, err
		}
	}
	// pools can't tell synths from the layer one asset
	out.Output.Asset = outAsset
	return SwapEstimate{
		Input:           input,
		Output:          out.Output,
		SwapFee:         out.SwapFee,
		Slip:            out.Slip,
		SlipBasisPoints: out.Slip.Mul(decimal.NewFromInt(maxBasisPoints)).Round(0).IntPart(),
	}, nil
}
