package constants

import (
	"fmt"
	"strings"
)

// MimirKey is the name of a mimir value
type MimirKey string

const (
	HaltChainGlobal      MimirKey = "HALTCHAINGLOBAL"
	HaltTrading          MimirKey = "HALTTRADING"
	PauseLP              MimirKey = "PAUSELP"
	NativeTransactionFee MimirKey = "NATIVETRANSACTIONFEE"
	TNSRegisterFee       MimirKey = "TNSREGISTERFEE"
	TNSFeePerBlock       MimirKey = "TNSFEEPERBLOCK"
)

// HaltChain is the key halting the given chain
func HaltChain(chain string) MimirKey {
	return MimirKey(fmt.Sprintf("HALT%sCHAIN", strings.ToUpper(chain)))
}

// HaltChainTrading is the key halting trading on the given chain
func HaltChainTrading(chain string) MimirKey {
	return MimirKey(fmt.Sprintf("HALT%sTRADING", strings.ToUpper(chain)))
}

// PauseChainLP is the key pausing liquidity actions on the given chain
func PauseChainLP(chain string) MimirKey {
	return MimirKey("PAUSELP" + strings.ToUpper(chain))
}

func (k MimirKey) String() string {
	return string(k)
}

// Mimir is a snapshot of the mimir values
type Mimir map[string]int64

// IsSet return true when the value of the key is non zero
func (m Mimir) IsSet(key MimirKey) bool {
	return m[key.String()] != 0
}

// Get return the value of the key, zero when absent
func (m Mimir) Get(key MimirKey) int64 {
	return m[key.String()]
}
