package liquidity

import (
	"github.com/shopspring/decimal"
	. "gopkg.in/check.v1"

	"gitlab.com/mayachain/mayaquery/common"
)

type SwapSuite struct{}

var _ = Suite(&SwapSuite{})

func (s *SwapSuite) TestGetSingleSwap(c *C) {
	pool := btcPool(c)
	out, err := GetSingleSwap(common.NewCryptoAmount(common.NewBaseAmountFromUint64(common.One, 8), common.BTCAsset), pool, true)
	c.Assert(err, IsNil)
	c.Check(out.Output.Asset.Equals(common.CacaoAsset), Equals, true)
	c.Check(out.Output.BaseAmount.Decimal, Equals, 10)
	c.Check(out.Output.BaseAmount.Amount.Uint64(), Equals, uint64(108159345966471))
	c.Check(out.SwapFee.BaseAmount.Amount.Uint64(), Equals, uint64(133037325912))
	c.Check(out.Slip.StringFixed(8), Equals, "0.00122850")

	back, err := GetSingleSwap(out.Output, pool, false)
	c.Assert(err, IsNil)
	c.Check(back.Output.Asset.Equals(common.BTCAsset), Equals, true)
	c.Check(back.Output.BaseAmount.Decimal, Equals, 8)
	// two legs of slip and fee lose value
	c.Check(back.Output.BaseAmount.Amount.LT(common.NewBaseAmountFromUint64(common.One, 8).Amount), Equals, true)

	empty, err := NewLiquidityPool(newPoolDetail("BTC.BTC", 0, 0, 0))
	c.Assert(err, IsNil)
	_, err = GetSingleSwap(out.Output, empty, false)
	c.Assert(err, NotNil)
}

func (s *SwapSuite) TestGetDoubleSwap(c *C) {
	btc := btcPool(c)
	busd := busdPool(c)
	out, err := GetDoubleSwap(common.NewCryptoAmount(common.NewBaseAmountFromUint64(common.One, 8), common.BTCAsset), btc, busd)
	c.Assert(err, IsNil)
	c.Check(out.Output.Asset.Equals(busd.Asset), Equals, true)
	c.Check(out.SwapFee.Asset.Equals(common.CacaoAsset), Equals, true)
	c.Check(out.Slip.GreaterThan(decimal.Zero), Equals, true)
	c.Check(out.Output.IsZero(), Equals, false)
}
