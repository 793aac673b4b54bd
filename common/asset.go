package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AssetType distinguish the way an asset is held on Mayachain
type AssetType uint8

const (
	AssetNative AssetType = iota
	AssetToken
	AssetSynth
	AssetTrade
)

const (
	nativeDelimiter = "."
	synthDelimiter  = "/"
	tradeDelimiter  = "~"
)

var (
	BTCAsset   = Asset{Chain: BTCChain, Symbol: "BTC", Ticker: "BTC", Type: AssetNative}
	ETHAsset   = Asset{Chain: ETHChain, Symbol: "ETH", Ticker: "ETH", Type: AssetNative}
	DASHAsset  = Asset{Chain: DASHChain, Symbol: "DASH", Ticker: "DASH", Type: AssetNative}
	KUJIAsset  = Asset{Chain: KUJIChain, Symbol: "KUJI", Ticker: "KUJI", Type: AssetNative}
	RuneAsset  = Asset{Chain: THORChain, Symbol: "RUNE", Ticker: "RUNE", Type: AssetNative}
	CacaoAsset = Asset{Chain: MAYAChain, Symbol: "CACAO", Ticker: "CACAO", Type: AssetNative}
	ARBAsset   = Asset{Chain: ARBChain, Symbol: "ETH", Ticker: "ETH", Type: AssetNative}
	XRDAsset   = Asset{Chain: XRDChain, Symbol: "XRD", Ticker: "XRD", Type: AssetNative}
	EmptyAsset = Asset{}
)

// Asset identify a coin on a chain, for example BTC.BTC , ETH.USDT-0XDAC17F958D2EE523A2206206994597C13D831EC7 or BTC/BTC
type Asset struct {
	Chain  Chain     `json:"chain"`
	Symbol Symbol    `json:"symbol"`
	Ticker Ticker    `json:"ticker"`
	Type   AssetType `json:"type"`
}

// NewAsset parse the given string into an Asset
func NewAsset(input string) (Asset, error) {
	var err error
	input = strings.TrimSpace(input)
	asset := Asset{Type: AssetNative}
	delimiter := nativeDelimiter
	switch {
	case strings.Contains(input, tradeDelimiter):
		delimiter = tradeDelimiter
		asset.Type = AssetTrade
	case strings.Contains(input, synthDelimiter):
		delimiter = synthDelimiter
		asset.Type = AssetSynth
	}

	parts := strings.SplitN(input, delimiter, 2)
	if len(parts) != 2 {
		return EmptyAsset, fmt.Errorf("invalid asset %q: missing chain", input)
	}
	asset.Chain, err = NewChain(parts[0])
	if err != nil {
		return EmptyAsset, fmt.Errorf("invalid asset %q: %w", input, err)
	}
	asset.Symbol, err = NewSymbol(parts[1])
	if err != nil {
		return EmptyAsset, fmt.Errorf("invalid asset %q: %w", input, err)
	}
	asset.Ticker, err = NewTicker(strings.Split(parts[1], "-")[0])
	if err != nil {
		return EmptyAsset, fmt.Errorf("invalid asset %q: %w", input, err)
	}
	if asset.Type == AssetNative && strings.Contains(parts[1], "-") {
		asset.Type = AssetToken
	}
	return asset, nil
}

// Equals two assets are equal when chain, symbol and type match
func (a Asset) Equals(a2 Asset) bool {
	return a.Chain.Equals(a2.Chain) && a.Symbol.Equals(a2.Symbol) && a.Type == a2.Type
}

// IsEmpty return true when any of chain, symbol or ticker is empty
func (a Asset) IsEmpty() bool {
	return a.Chain.IsEmpty() || a.Symbol.IsEmpty() || a.Ticker.IsEmpty()
}

func (a Asset) IsSynth() bool { return a.Type == AssetSynth }
func (a Asset) IsTrade() bool { return a.Type == AssetTrade }

// IsCacao return true when the asset is the native settlement asset MAYA.CACAO
func (a Asset) IsCacao() bool {
	return a.Equals(CacaoAsset)
}

// PoolKey is the key of the pool backing this asset, synths and trade assets share the pool of the layer one asset
func (a Asset) PoolKey() string {
	return a.Chain.String() + nativeDelimiter + a.Symbol.String()
}

// String implement fmt.Stringer
func (a Asset) String() string {
	delimiter := nativeDelimiter
	switch a.Type {
	case AssetSynth:
		delimiter = synthDelimiter
	case AssetTrade:
		delimiter = tradeDelimiter
	}
	return a.Chain.String() + delimiter + a.Symbol.String()
}

// MarshalJSON write the asset as its string notation, an empty asset is an empty string
func (a Asset) MarshalJSON() ([]byte, error) {
	if a.IsEmpty() {
		return json.Marshal("")
	}
	return json.Marshal(a.String())
}

// UnmarshalJSON parse an asset from its string notation
func (a *Asset) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*a = EmptyAsset
		return nil
	}
	asset, err := NewAsset(s)
	if err != nil {
		return err
	}
	*a = asset
	return nil
}
