package common

import (
	. "gopkg.in/check.v1"
)

type SymbolSuite struct{}

var _ = Suite(&SymbolSuite{})

func (s SymbolSuite) TestSymbol(c *C) {
	sym, err := NewSymbol("usdc-0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
	c.Assert(err, IsNil)
	c.Check(sym.IsEmpty(), Equals, false)
	c.Check(sym.String(), Equals, "USDC-0XA0B86991C6218B36C1D19D4A2E9EB0CE3606EB48")
	c.Check(sym.Ticker().Equals(Ticker("USDC")), Equals, true)

	sym, err = NewSymbol("cacao")
	c.Assert(err, IsNil)
	c.Check(sym.Equals(CacaoSymbol), Equals, true)

	_, err = NewSymbol("bad symbol")
	c.Assert(err, NotNil)
}
