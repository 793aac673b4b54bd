package common

import (
	"errors"
	"math/big"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/shopspring/decimal"
	. "gopkg.in/check.v1"
)

type AmountSuite struct{}

var _ = Suite(&AmountSuite{})

func (s *AmountSuite) TestBaseAmount(c *C) {
	amt, err := ParseBaseAmount("205262800", 8)
	c.Assert(err, IsNil)
	c.Check(amt.Decimal, Equals, 8)
	c.Check(amt.AssetAmount().String(), Equals, "2.052628")
	c.Check(amt.IsZero(), Equals, false)
	c.Check(ZeroBaseAmount(10).IsZero(), Equals, true)
	c.Check(amt.Equals(NewBaseAmountFromUint64(205262800, 8)), Equals, true)
	c.Check(amt.Equals(NewBaseAmountFromUint64(205262800, 10)), Equals, false)

	_, err = ParseBaseAmount("abc", 8)
	c.Assert(err, NotNil)

	fromAsset, err := BaseAmountFromAssetAmount(decimal.RequireFromString("2.05262786"), 6)
	c.Assert(err, IsNil)
	c.Check(fromAsset.Amount.Uint64(), Equals, uint64(2052628))
	c.Check(fromAsset.Decimal, Equals, 6)
}

func mustRescale(c *C, amt BaseAmount, decimals int) BaseAmount {
	out, err := amt.Rescale(decimals)
	c.Assert(err, IsNil)
	return out
}

func (s *AmountSuite) TestRescale(c *C) {
	amt := NewBaseAmountFromUint64(2052628, 6)
	wide := mustRescale(c, amt, 8)
	c.Check(wide.Amount.Uint64(), Equals, uint64(205262800))
	c.Check(wide.Decimal, Equals, 8)

	eth := NewBaseAmountFromUint64(1000000000000000000, 18)
	c.Check(mustRescale(c, eth, 8).Amount.Uint64(), Equals, uint64(One))

	// narrowing rounds half up
	c.Check(mustRescale(c, NewBaseAmountFromUint64(1234567895, 10), 8).Amount.Uint64(), Equals, uint64(12345679))
	c.Check(mustRescale(c, NewBaseAmountFromUint64(1234567894, 10), 8).Amount.Uint64(), Equals, uint64(12345679))
	c.Check(mustRescale(c, NewBaseAmountFromUint64(1234567849, 10), 8).Amount.Uint64(), Equals, uint64(12345678))
	c.Check(mustRescale(c, amt, 6).Equals(amt), Equals, true)
	c.Check(NewBaseAmountFromUint64(1234567849, 10).ValueIn(8).String(), Equals, "12345678")
	c.Check(amt.ValueIn(8).String(), Equals, "205262800")
}

func (s *AmountSuite) TestRescaleOverflow(c *C) {
	huge := NewBaseAmount(sdk.NewUintFromBigInt(new(big.Int).Lsh(big.NewInt(1), 250)), 0)
	_, err := huge.Rescale(8)
	c.Assert(err, NotNil)
	c.Check(errors.Is(err, ErrUintOverflow), Equals, true)
	// still usable as a decimal
	c.Check(huge.ValueIn(8).Cmp(huge.Value()), Equals, 1)

	_, err = BaseAmountFromAssetAmount(huge.Value(), 18)
	c.Check(errors.Is(err, ErrUintOverflow), Equals, true)

	_, err = ZeroCryptoAmount(BTCAsset, 18).Plus(NewCryptoAmount(huge, BTCAsset))
	c.Check(errors.Is(err, ErrUintOverflow), Equals, true)
}

func (s *AmountSuite) TestUnsetAmount(c *C) {
	var unset BaseAmount
	c.Check(unset.IsZero(), Equals, true)
	c.Check(unset.Value().IsZero(), Equals, true)
	c.Check(unset.ValueIn(8).IsZero(), Equals, true)
	c.Check(unset.AssetAmount().IsZero(), Equals, true)
	c.Check(unset.Equals(ZeroBaseAmount(0)), Equals, true)
	c.Check(unset.Cmp(NewBaseAmountFromUint64(1, 8)), Equals, -1)
	c.Check(unset.String(), Equals, "0(0)")
	wide, err := unset.Rescale(8)
	c.Assert(err, IsNil)
	c.Check(wide.Equals(ZeroBaseAmount(8)), Equals, true)
	same, err := unset.Rescale(0)
	c.Assert(err, IsNil)
	c.Check(same.Amount.IsZero(), Equals, true)

	btc := CryptoAmount{Asset: BTCAsset}
	c.Check(btc.IsZero(), Equals, true)
	sum, err := btc.Plus(NewCryptoAmount(NewBaseAmountFromUint64(One, 8), BTCAsset))
	c.Assert(err, IsNil)
	c.Check(sum.BaseAmount.Decimal, Equals, 0)
	c.Check(sum.BaseAmount.Amount.Uint64(), Equals, uint64(1))
}

func (s *AmountSuite) TestCmp(c *C) {
	btc := NewBaseAmountFromUint64(One, 8)
	cacao := NewBaseAmountFromUint64(10000000000, 10)
	c.Check(btc.Cmp(cacao), Equals, 0)
	c.Check(btc.Cmp(NewBaseAmountFromUint64(One+1, 8)), Equals, -1)
	// raw magnitude is smaller but the value is larger
	c.Check(NewBaseAmountFromUint64(2, 0).Cmp(NewBaseAmountFromUint64(100, 2)), Equals, 1)
}

func (s *AmountSuite) TestCryptoAmount(c *C) {
	one := NewCryptoAmount(NewBaseAmountFromUint64(One, 8), BTCAsset)
	half := NewCryptoAmount(NewBaseAmountFromUint64(5000000, 7), BTCAsset)
	sum, err := one.Plus(half)
	c.Assert(err, IsNil)
	c.Check(sum.BaseAmount.Amount.Uint64(), Equals, uint64(150000000))
	c.Check(sum.BaseAmount.Decimal, Equals, 8)
	c.Check(sum.AssetAmount().String(), Equals, "1.5")

	_, err = one.Plus(NewCryptoAmount(NewBaseAmountFromUint64(One, 8), ETHAsset))
	c.Assert(err, NotNil)

	c.Check(one.String(), Equals, "1 BTC.BTC")

	zero := ZeroCryptoAmount(CacaoAsset, CacaoDecimals)
	c.Check(zero.IsZero(), Equals, true)
	c.Check(zero.BaseAmount.Decimal, Equals, 10)
}
