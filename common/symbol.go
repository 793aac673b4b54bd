package common

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	CacaoSymbol = Symbol("CACAO")
	RuneSymbol  = Symbol("RUNE")
)

var isSymbol = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`).MatchString

type Symbol string

func NewSymbol(input string) (Symbol, error) {
	if !isSymbol(input) {
		return "", fmt.Errorf("invalid symbol %q", input)
	}
	return Symbol(strings.ToUpper(input)), nil
}

func (s Symbol) Ticker() Ticker {
	parts := strings.Split(s.String(), "-")
	ticker, _ := NewTicker(parts[0])
	return ticker
}

func (s Symbol) Equals(s2 Symbol) bool {
	return strings.EqualFold(s.String(), s2.String())
}

func (s Symbol) IsEmpty() bool {
	return strings.TrimSpace(s.String()) == ""
}

func (s Symbol) String() string {
	// uppercasing again just in case someone created a symbol via Symbol("cacao")
	return strings.ToUpper(string(s))
}
