package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gitlab.com/mayachain/mayaquery/common"
	"gitlab.com/mayachain/mayaquery/query"
)

// ParseQuoteSwapParams read the swap quote parameters from the query string.
// amount is a base amount in decimals notation, which default to the Mayachain notation of from_asset.
func ParseQuoteSwapParams(values url.Values) (query.QuoteSwapParams, error) {
	var params query.QuoteSwapParams
	var err error
	params.FromAsset, err = common.NewAsset(values.Get("from_asset"))
	if err != nil {
		return params, fmt.Errorf("fail to parse from_asset: %w", err)
	}
	params.DestinationAsset, err = common.NewAsset(values.Get("to_asset"))
	if err != nil {
		return params, fmt.Errorf("fail to parse to_asset: %w", err)
	}
	decimals := common.DefaultDecimals
	if params.FromAsset.IsCacao() {
		decimals = common.CacaoDecimals
	}
	if raw := values.Get("decimals"); raw != "" {
		decimals, err = strconv.Atoi(raw)
		if err != nil || decimals < 0 {
			return params, fmt.Errorf("invalid decimals %q", raw)
		}
	}
	if values.Get("amount") == "" {
		return params, fmt.Errorf("amount is required")
	}
	amount, err := common.ParseBaseAmount(values.Get("amount"), decimals)
	if err != nil {
		return params, err
	}
	params.Amount = common.NewCryptoAmount(amount, params.FromAsset)
	params.DestinationAddress = values.Get("destination")
	params.AffiliateAddress = values.Get("affiliate")

	for key, target := range map[string]*int64{
		"affiliate_bps":      &params.AffiliateBps,
		"tolerance_bps":      &params.ToleranceBps,
		"streaming_interval": &params.StreamingInterval,
		"streaming_quantity": &params.StreamingQuantity,
		"height":             &params.Height,
	} {
		raw := values.Get(key)
		if raw == "" {
			continue
		}
		*target, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return params, fmt.Errorf("invalid %s %q", key, raw)
		}
	}
	return params, nil
}

// ParseAddresses read the address parameter, repeated or comma separated, skipping empty entries
func ParseAddresses(values url.Values) []string {
	var addresses []string
	for _, raw := range values["address"] {
		for _, address := range strings.Split(raw, ",") {
			if address = strings.TrimSpace(address); address != "" {
				addresses = append(addresses, address)
			}
		}
	}
	return addresses
}
