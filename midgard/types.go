package midgard

// PoolDetail is an entry of /v2/pools, every magnitude is a string
type PoolDetail struct {
	AnnualPercentageRate string `json:"annualPercentageRate"`
	Asset                string `json:"asset"`
	AssetDepth           string `json:"assetDepth"`
	AssetPrice           string `json:"assetPrice"`
	AssetPriceUSD        string `json:"assetPriceUSD"`
	LiquidityUnits       string `json:"liquidityUnits"`
	NativeDecimal        string `json:"nativeDecimal"`
	PoolAPY              string `json:"poolAPY"`
	RuneDepth            string `json:"runeDepth"`
	SaversDepth          string `json:"saversDepth"`
	SaversUnits          string `json:"saversUnits"`
	SaversAPR            string `json:"saversAPR"`
	Status               string `json:"status"`
	SynthSupply          string `json:"synthSupply"`
	SynthUnits           string `json:"synthUnits"`
	Units                string `json:"units"`
	Volume24h            string `json:"volume24h"`
}

// MAYANameEntry is an alias of a MAYAName on a chain
type MAYANameEntry struct {
	Chain   string `json:"chain"`
	Address string `json:"address"`
}

// MAYANameDetails is the response of /v2/mayaname/lookup/{name}
type MAYANameDetails struct {
	Owner   string          `json:"owner"`
	Expire  string          `json:"expire"`
	Entries []MAYANameEntry `json:"entries"`
}

// Coin is an amount of an asset, in 1e8 notation for every asset but CACAO
type Coin struct {
	Asset  string `json:"asset"`
	Amount string `json:"amount"`
}

// Transaction is an inbound or outbound leg of an action
type Transaction struct {
	Address string `json:"address"`
	Coins   []Coin `json:"coins"`
	TxID    string `json:"txID"`
	Height  string `json:"height,omitempty"`
}

// SwapMetadata is the swap specific part of an action
type SwapMetadata struct {
	Memo             string `json:"memo"`
	LiquidityFee     string `json:"liquidityFee"`
	SwapSlip         string `json:"swapSlip"`
	SwapTarget       string `json:"swapTarget"`
	AffiliateAddress string `json:"affiliateAddress,omitempty"`
	AffiliateFee     string `json:"affiliateFee,omitempty"`
	IsStreamingSwap  bool   `json:"isStreamingSwap,omitempty"`
}

// ActionMetadata hold the metadata of the action type, only swaps are decoded
type ActionMetadata struct {
	Swap *SwapMetadata `json:"swap,omitempty"`
}

// Action is an entry of /v2/actions, date is in nanoseconds
type Action struct {
	Date     string         `json:"date"`
	Height   string         `json:"height"`
	In       []Transaction  `json:"in"`
	Out      []Transaction  `json:"out"`
	Pools    []string       `json:"pools"`
	Status   string         `json:"status"`
	Type     string         `json:"type"`
	Metadata ActionMetadata `json:"metadata"`
}

// ActionsMeta is the paging information of /v2/actions
type ActionsMeta struct {
	NextPageToken string `json:"nextPageToken,omitempty"`
	PrevPageToken string `json:"prevPageToken,omitempty"`
}

// ActionHistory is the response of /v2/actions
type ActionHistory struct {
	Count   string      `json:"count"`
	Actions []Action    `json:"actions"`
	Meta    ActionsMeta `json:"meta"`
}

// BlockInfo height and timestamp of a processing stage
type BlockInfo struct {
	Height    int64 `json:"height"`
	Timestamp int64 `json:"timestamp"`
}

// Health is the response of /v2/health
type Health struct {
	Database       bool      `json:"database"`
	InSync         bool      `json:"inSync"`
	ScannerHeight  string    `json:"scannerHeight"`
	LastThorNode   BlockInfo `json:"lastThorNode"`
	LastFetched    BlockInfo `json:"lastFetched"`
	LastCommitted  BlockInfo `json:"lastCommitted"`
	LastAggregated BlockInfo `json:"lastAggregated"`
}
