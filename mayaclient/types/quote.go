package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// QuoteSwapRequest are the query parameters of /mayachain/quote/swap, zero values are left out
type QuoteSwapRequest struct {
	FromAsset         string
	ToAsset           string
	Amount            sdk.Uint
	Destination       string
	StreamingInterval int64
	StreamingQuantity int64
	ToleranceBps      int64
	AffiliateBps      int64
	Affiliate         string
	Height            int64
}

// QuoteFees fees of a swap quote, expressed in Asset
type QuoteFees struct {
	Asset       string   `json:"asset"`
	Affiliate   sdk.Uint `json:"affiliate"`
	Outbound    sdk.Uint `json:"outbound"`
	Liquidity   sdk.Uint `json:"liquidity"`
	Total       sdk.Uint `json:"total"`
	SlippageBps int64    `json:"slippage_bps"`
	TotalBps    int64    `json:"total_bps"`
}

// QuoteSwapResponse is the response of /mayachain/quote/swap.
// A rejected quote only carries Error.
type QuoteSwapResponse struct {
	InboundAddress             string    `json:"inbound_address,omitempty"`
	InboundConfirmationBlocks  *int64    `json:"inbound_confirmation_blocks,omitempty"`
	InboundConfirmationSeconds *int64    `json:"inbound_confirmation_seconds,omitempty"`
	OutboundDelayBlocks        int64     `json:"outbound_delay_blocks"`
	OutboundDelaySeconds       int64     `json:"outbound_delay_seconds"`
	Fees                       QuoteFees `json:"fees"`
	Router                     string    `json:"router,omitempty"`
	Expiry                     int64     `json:"expiry"`
	Warning                    string    `json:"warning"`
	Notes                      string    `json:"notes"`
	DustThreshold              sdk.Uint  `json:"dust_threshold"`
	RecommendedMinAmountIn     sdk.Uint  `json:"recommended_min_amount_in"`
	RecommendedGasRate         string    `json:"recommended_gas_rate,omitempty"`
	GasRateUnits               string    `json:"gas_rate_units,omitempty"`
	Memo                       string    `json:"memo,omitempty"`
	ExpectedAmountOut          sdk.Uint  `json:"expected_amount_out"`
	MaxStreamingQuantity       int64     `json:"max_streaming_quantity"`
	StreamingSwapBlocks        int64     `json:"streaming_swap_blocks"`
	StreamingSwapSeconds       int64     `json:"streaming_swap_seconds"`
	TotalSwapSeconds           int64     `json:"total_swap_seconds"`
	Error                      string    `json:"error,omitempty"`
}
