package common

import (
	"fmt"
	"strings"
)

var (
	BTCChain   = Chain("BTC")
	ETHChain   = Chain("ETH")
	DASHChain  = Chain("DASH")
	KUJIChain  = Chain("KUJI")
	THORChain  = Chain("THOR")
	MAYAChain  = Chain("MAYA")
	ARBChain   = Chain("ARB")
	XRDChain   = Chain("XRD")
	EmptyChain = Chain("")
)

// Chain is an upper case chain identifier, for example BTC or MAYA
type Chain string

// NewChain create a new Chain
func NewChain(chain string) (Chain, error) {
	if len(chain) < 3 {
		return EmptyChain, fmt.Errorf("chain error: not enough characters")
	}
	if len(chain) > 10 {
		return EmptyChain, fmt.Errorf("chain error: too many characters")
	}
	return Chain(strings.ToUpper(chain)), nil
}

// Equals compare two chain to see whether they represent the same chain
func (c Chain) Equals(c2 Chain) bool {
	return strings.EqualFold(c.String(), c2.String())
}

// IsEmpty is to determinate whether the chain is empty
func (c Chain) IsEmpty() bool {
	return strings.TrimSpace(c.String()) == ""
}

// IsMaya determinate whether it is MAYAChain
func (c Chain) IsMaya() bool {
	return c.Equals(MAYAChain)
}

// String implement fmt.Stringer
func (c Chain) String() string {
	// convert it to upper case again just in case someone created a chain via Chain("maya")
	return strings.ToUpper(string(c))
}

// GetGasAsset chain's base asset
func (c Chain) GetGasAsset() Asset {
	switch {
	case c.Equals(BTCChain):
		return BTCAsset
	case c.Equals(ETHChain):
		return ETHAsset
	case c.Equals(DASHChain):
		return DASHAsset
	case c.Equals(KUJIChain):
		return KUJIAsset
	case c.Equals(THORChain):
		return RuneAsset
	case c.Equals(MAYAChain):
		return CacaoAsset
	case c.Equals(ARBChain):
		return ARBAsset
	case c.Equals(XRDChain):
		return XRDAsset
	default:
		return EmptyAsset
	}
}
