package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// InboundAddress is an entry of /mayachain/inbound_addresses
type InboundAddress struct {
	Chain                string   `json:"chain"`
	PubKey               string   `json:"pub_key"`
	Address              string   `json:"address"`
	Router               string   `json:"router,omitempty"`
	Halted               bool     `json:"halted"`
	GlobalTradingPaused  bool     `json:"global_trading_paused"`
	ChainTradingPaused   bool     `json:"chain_trading_paused"`
	ChainLPActionsPaused bool     `json:"chain_lp_actions_paused"`
	GasRate              sdk.Uint `json:"gas_rate"`
	GasRateUnits         string   `json:"gas_rate_units"`
	OutboundTxSize       sdk.Uint `json:"outbound_tx_size"`
	OutboundFee          sdk.Uint `json:"outbound_fee"`
	DustThreshold        sdk.Uint `json:"dust_threshold"`
}

// MissingFields return the name of the required fields the node left out
func (a InboundAddress) MissingFields() []string {
	var missing []string
	if a.Chain == "" {
		missing = append(missing, "chain")
	}
	if a.Address == "" {
		missing = append(missing, "address")
	}
	if unset(a.GasRate) {
		missing = append(missing, "gas_rate")
	}
	if a.GasRateUnits == "" {
		missing = append(missing, "gas_rate_units")
	}
	if unset(a.OutboundTxSize) {
		missing = append(missing, "outbound_tx_size")
	}
	if unset(a.OutboundFee) {
		missing = append(missing, "outbound_fee")
	}
	return missing
}

// unset is true for a field absent from the response, sdk.Uint is only initialised by unmarshalling a value
func unset(u sdk.Uint) bool {
	return u == (sdk.Uint{})
}
