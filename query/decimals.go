package query

import (
	"gitlab.com/mayachain/mayaquery/common"
)

// nativeDecimals are known regardless of the pool list, neither asset has a pool
var nativeDecimals = map[string]int{
	common.CacaoAsset.String(): common.CacaoDecimals,
	common.RuneAsset.String():  common.DefaultDecimals,
}

// fallbackDecimals is served when the node pool list can't be fetched
var fallbackDecimals = map[string]int{
	"ARB.ETH":    18,
	"BTC.BTC":    8,
	"DASH.DASH":  8,
	"ETH.ETH":    18,
	"KUJI.KUJI":  6,
	"KUJI.USK":   6,
	"MAYA.CACAO": 10,
	"MAYA.MAYA":  4,
	"THOR.RUNE":  8,
	"XRD.XRD":    18,

	"ARB.USDC-0XAF88D065E77C8CC2239327C5EDB3A432268E5831":   6,
	"ARB.USDT-0XFD086BC7CD5C481DCC9C85EBE478A1C0B69FCBB9":   6,
	"ARB.WBTC-0X2F2A2543B76A4166549F7AAB2E75BEF0AEFC5B0F":   8,
	"ETH.PEPE-0X6982508145454CE325DDBE47A25D4EC3D2311933":   18,
	"ETH.USDC-0XA0B86991C6218B36C1D19D4A2E9EB0CE3606EB48":   6,
	"ETH.USDT-0XDAC17F958D2EE523A2206206994597C13D831EC7":   6,
	"ETH.WSTETH-0X7F39C581F595B53C5CB19BD0B3F8DA6C935E2CA0": 18,
}

func copyDecimals(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
