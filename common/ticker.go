package common

import (
	"fmt"
	"strings"
)

const (
	CacaoTicker = Ticker("CACAO")
	RuneTicker  = Ticker("RUNE")
)

type Ticker string

func NewTicker(ticker string) (Ticker, error) {
	noTicker := Ticker("")
	if len(ticker) < 2 {
		return noTicker, fmt.Errorf("ticker error: not enough characters")
	}
	if len(ticker) > 13 {
		return noTicker, fmt.Errorf("ticker error: too many characters")
	}
	return Ticker(strings.ToUpper(ticker)), nil
}

func (t Ticker) Equals(t2 Ticker) bool {
	return strings.EqualFold(t.String(), t2.String())
}

func (t Ticker) IsEmpty() bool {
	return strings.TrimSpace(t.String()) == ""
}

func (t Ticker) String() string {
	// uppercasing again just incase someone created a ticker via Ticker("cacao")
	return strings.ToUpper(string(t))
}
