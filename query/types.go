package query

import (
	"fmt"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/shopspring/decimal"

	"gitlab.com/mayachain/mayaquery/common"
)

// InboundDetail is the inbound address of a chain along with its halt flags
type InboundDetail struct {
	Chain          common.Chain `json:"chain"`
	Address        string       `json:"address"`
	Router         string       `json:"router,omitempty"`
	GasRate        sdk.Uint     `json:"gas_rate"`
	GasRateUnits   string       `json:"gas_rate_units"`
	OutboundTxSize sdk.Uint     `json:"outbound_tx_size"`
	OutboundFee    sdk.Uint     `json:"outbound_fee"`
	HaltedChain    bool         `json:"halted_chain"`
	HaltedTrading  bool         `json:"halted_trading"`
	HaltedLP       bool         `json:"halted_lp"`
}

// DecimalsResult is the asset decimals table along with the source it was built from
type DecimalsResult struct {
	Decimals       map[string]int `json:"decimals"`
	FallbackUsed   bool           `json:"fallback_used"`
	FallbackReason string         `json:"fallback_reason,omitempty"`
}

// QuoteSwapParams parameters of a swap quote
type QuoteSwapParams struct {
	FromAsset          common.Asset        `json:"from_asset"`
	DestinationAsset   common.Asset        `json:"destination_asset"`
	Amount             common.CryptoAmount `json:"amount"`
	DestinationAddress string              `json:"destination_address,omitempty"`
	AffiliateAddress   string              `json:"affiliate_address,omitempty"`
	AffiliateBps       int64               `json:"affiliate_bps,omitempty"`
	ToleranceBps       int64               `json:"tolerance_bps,omitempty"`
	StreamingInterval  int64               `json:"streaming_interval,omitempty"`
	StreamingQuantity  int64               `json:"streaming_quantity,omitempty"`
	Height             int64               `json:"height,omitempty"`
}

const maxBasisPoints = 10000

// Validate the params before any request is made
func (p QuoteSwapParams) Validate() error {
	switch {
	case p.FromAsset.IsEmpty():
		return fmt.Errorf("from asset is empty: %w", ErrInvalidQuoteParams)
	case p.DestinationAsset.IsEmpty():
		return fmt.Errorf("destination asset is empty: %w", ErrInvalidQuoteParams)
	case p.FromAsset.Equals(p.DestinationAsset):
		return fmt.Errorf("can not swap %s to itself: %w", p.FromAsset, ErrInvalidQuoteParams)
	case !p.Amount.Asset.Equals(p.FromAsset):
		return fmt.Errorf("amount is in %s, expected %s: %w", p.Amount.Asset, p.FromAsset, ErrInvalidQuoteParams)
	case p.Amount.IsZero():
		return fmt.Errorf("amount is zero: %w", ErrInvalidQuoteParams)
	case p.AffiliateBps < 0 || p.AffiliateBps > maxBasisPoints:
		return fmt.Errorf("affiliate bps %d is out of range: %w", p.AffiliateBps, ErrInvalidQuoteParams)
	case p.ToleranceBps < 0 || p.ToleranceBps > maxBasisPoints:
		return fmt.Errorf("tolerance bps %d is out of range: %w", p.ToleranceBps, ErrInvalidQuoteParams)
	case p.StreamingInterval < 0 || p.StreamingQuantity < 0:
		return fmt.Errorf("streaming parameters can not be negative: %w", ErrInvalidQuoteParams)
	case p.Height < 0:
		return fmt.Errorf("height can not be negative: %w", ErrInvalidQuoteParams)
	}
	if _, err := p.Amount.BaseAmount.Rescale(quoteDecimals(p.FromAsset)); err != nil {
		return fmt.Errorf("amount is too large: %w", ErrInvalidQuoteParams)
	}
	return nil
}

// QuoteFees fees of a swap quote
type QuoteFees struct {
	Asset        common.Asset        `json:"asset"`
	AffiliateFee common.CryptoAmount `json:"affiliate_fee"`
	OutboundFee  common.CryptoAmount `json:"outbound_fee"`
	LiquidityFee common.CryptoAmount `json:"liquidity_fee"`
	TotalFee     common.CryptoAmount `json:"total_fee"`
}

// QuoteSwap is a swap quote, a quote Mayanode rejected has CanSwap false and the reason in Errors
type QuoteSwap struct {
	ToAddress                  string              `json:"to_address"`
	Memo                       string              `json:"memo"`
	ExpectedAmount             common.CryptoAmount `json:"expected_amount"`
	DustThreshold              common.CryptoAmount `json:"dust_threshold"`
	Fees                       QuoteFees           `json:"fees"`
	InboundConfirmationSeconds *int64              `json:"inbound_confirmation_seconds,omitempty"`
	InboundConfirmationBlocks  *int64              `json:"inbound_confirmation_blocks,omitempty"`
	OutboundDelaySeconds       int64               `json:"outbound_delay_seconds"`
	OutboundDelayBlocks        int64               `json:"outbound_delay_blocks"`
	TotalSwapSeconds           int64               `json:"total_swap_seconds"`
	SlipBasisPoints            int64               `json:"slip_basis_points"`
	StreamingSwapBlocks        int64               `json:"streaming_swap_blocks"`
	StreamingSwapSeconds       int64               `json:"streaming_swap_seconds"`
	MaxStreamingQuantity       int64               `json:"max_streaming_quantity"`
	Expiry                     int64               `json:"expiry"`
	RecommendedMinAmountIn     common.CryptoAmount `json:"recommended_min_amount_in"`
	Router                     string              `json:"router,omitempty"`
	RecommendedGasRate         string              `json:"recommended_gas_rate,omitempty"`
	GasRateUnits               string              `json:"gas_rate_units,omitempty"`
	CanSwap                    bool                `json:"can_swap"`
	Errors                     []string            `json:"errors"`
	Warning                    string              `json:"warning"`
}

// SwapEstimate is a swap worked out locally from the cached pools
type SwapEstimate struct {
	Input           common.CryptoAmount `json:"input"`
	Output          common.CryptoAmount `json:"output"`
	SwapFee         common.CryptoAmount `json:"swap_fee"`
	Slip            decimal.Decimal     `json:"slip"`
	SlipBasisPoints int64               `json:"slip_basis_points"`
}

// MAYAName alias of a MAYAName on a chain
type MAYANameAlias struct {
	Chain   string `json:"chain"`
	Address string `json:"address"`
}

// MAYANameDetails details of a registered MAYAName
type MAYANameDetails struct {
	Name              string          `json:"name"`
	Owner             string          `json:"owner"`
	ExpireBlockHeight int64           `json:"expire_block_height"`
	Aliases           []MAYANameAlias `json:"aliases"`
}

func (d *MAYANameDetails) clone() *MAYANameDetails {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Aliases = append([]MAYANameAlias(nil), d.Aliases...)
	return &cp
}

// QuoteMAYANameParams parameters to estimate a MAYAName registration or update
type QuoteMAYANameParams struct {
	Name         string
	Owner        string
	IsUpdate     bool
	Expiry       *time.Time
	Chain        string
	ChainAddress string
}

// QuoteMAYAName is the cost and memo of a MAYAName registration or update
type QuoteMAYAName struct {
	Value common.CryptoAmount `json:"value"`
	Memo  string              `json:"memo"`
}

// SwapStatus is the progress of a swap
type SwapStatus string

const (
	SwapPending SwapStatus = "pending"
	SwapSuccess SwapStatus = "success"
)

// TransactionAction is the inbound or outbound transaction of a swap
type TransactionAction struct {
	Hash    string              `json:"hash"`
	Address string              `json:"address"`
	Amount  common.CryptoAmount `json:"amount"`
}

// Swap is a swap one of the queried addresses took part in, OutboundTx is nil while the swap is pending
type Swap struct {
	Date       time.Time          `json:"date"`
	Status     SwapStatus         `json:"status"`
	FromAsset  common.Asset       `json:"from_asset"`
	ToAsset    common.Asset       `json:"to_asset"`
	InboundTx  TransactionAction  `json:"inbound_tx"`
	OutboundTx *TransactionAction `json:"outbound_tx,omitempty"`
}

// SwapHistory is the swaps of a set of addresses, Count is the number of actions Midgard know of
type SwapHistory struct {
	Count int64  `json:"count"`
	Swaps []Swap `json:"swaps"`
}
