package common

import (
	"fmt"
	"strings"
)

// Network is the Mayachain environment a client talks to
type Network string

const (
	MainNet  Network = "mainnet"
	StageNet Network = "stagenet"
	TestNet  Network = "testnet"
)

// NewNetwork parse the network name, case insensitive
func NewNetwork(input string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", string(MainNet):
		return MainNet, nil
	case string(StageNet):
		return StageNet, nil
	case string(TestNet):
		return TestNet, nil
	}
	return "", fmt.Errorf("%q is not a valid network", input)
}

func (n Network) String() string {
	return string(n)
}

// DefaultMayanodeHosts return the public Mayanode hosts of the network
func (n Network) DefaultMayanodeHosts() []string {
	switch n {
	case StageNet, TestNet:
		return []string{"stagenet.mayanode.mayachain.info"}
	default:
		return []string{"mayanode.mayachain.info"}
	}
}

// DefaultMidgardHosts return the public Midgard hosts of the network
func (n Network) DefaultMidgardHosts() []string {
	switch n {
	case StageNet, TestNet:
		return []string{"stagenet.midgard.mayachain.info"}
	default:
		return []string{"midgard-maya.liquify.com", "midgard.mayachain.info"}
	}
}
