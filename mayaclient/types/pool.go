package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Pool is an entry of /mayachain/pools
type Pool struct {
	Asset               string   `json:"asset"`
	Status              string   `json:"status"`
	Decimals            int64    `json:"decimals,omitempty"`
	PendingInboundAsset sdk.Uint `json:"pending_inbound_asset"`
	PendingInboundCacao sdk.Uint `json:"pending_inbound_cacao"`
	BalanceAsset        sdk.Uint `json:"balance_asset"`
	BalanceCacao        sdk.Uint `json:"balance_cacao"`
	PoolUnits           sdk.Uint `json:"pool_units"`
	LPUnits             sdk.Uint `json:"LP_units"`
	SynthUnits          sdk.Uint `json:"synth_units"`
	SynthSupply         sdk.Uint `json:"synth_supply"`
	SaversDepth         sdk.Uint `json:"savers_depth"`
	SynthMintPaused     bool     `json:"synth_mint_paused"`
}

// Version is the response of /mayachain/version
type Version struct {
	Current string `json:"current"`
	Next    string `json:"next"`
	Querier string `json:"querier"`
}
