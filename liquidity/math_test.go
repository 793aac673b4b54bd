package liquidity

import (
	"errors"

	"github.com/shopspring/decimal"
	. "gopkg.in/check.v1"

	"gitlab.com/mayachain/mayaquery/common"
)

type MathSuite struct{}

var _ = Suite(&MathSuite{})

func cacao(amount uint64, decimals int) common.CryptoAmount {
	return common.NewCryptoAmount(common.NewBaseAmountFromUint64(amount, decimals), common.CacaoAsset)
}

func (s *MathSuite) TestGetLiquidityUnits(c *C) {
	pool := busdPool(c)
	// 2.05262786 BUSD at 6 decimals
	busd, err := common.BaseAmountFromAssetAmount(decimal.RequireFromString("2.05262786"), 6)
	c.Assert(err, IsNil)
	toAdd := LiquidityToAdd{
		Asset: common.NewCryptoAmount(busd, pool.Asset),
		Cacao: cacao(102658114, 10),
	}
	units, err := GetLiquidityUnits(toAdd, pool)
	c.Assert(err, IsNil)
	c.Check(units.Round(0).IntPart(), Equals, int64(27826794), Commentf("%s", units))

	// single sided add needs no special case
	toAdd.Cacao = cacao(0, 10)
	units, err = GetLiquidityUnits(toAdd, pool)
	c.Assert(err, IsNil)
	c.Check(units.IsPositive(), Equals, true)

	empty, err := NewLiquidityPool(newPoolDetail("BTC.BTC", 0, 0, 10))
	c.Assert(err, IsNil)
	_, err = GetLiquidityUnits(toAdd, empty)
	c.Assert(errors.Is(err, ErrZeroBalance), Equals, true)
}

func (s *MathSuite) TestGetPoolShare(c *C) {
	pool := busdPool(c)
	share, err := GetPoolShare(UnitData{
		LiquidityUnits: decimal.NewFromInt(27826793),
		TotalUnits:     decimal.NewFromInt(117576764000000),
	}, pool)
	c.Assert(err, IsNil)
	c.Check(share.AssetShare.Asset.Equals(pool.Asset), Equals, true)
	c.Check(share.AssetShare.BaseAmount.Amount.Uint64(), Equals, uint64(185240898))
	c.Check(share.AssetShare.BaseAmount.Decimal, Equals, 8)
	c.Check(share.CacaoShare.Asset.Equals(common.CacaoAsset), Equals, true)
	c.Check(share.CacaoShare.BaseAmount.Amount.Uint64(), Equals, uint64(115098630))
	c.Check(share.CacaoShare.BaseAmount.Decimal, Equals, 10)

	total := pool.LiquidityUnits()
	full, err := GetPoolShare(UnitData{LiquidityUnits: total, TotalUnits: total}, pool)
	c.Assert(err, IsNil)
	c.Check(full.AssetShare.BaseAmount.Equals(pool.AssetBalance), Equals, true)
	c.Check(full.CacaoShare.BaseAmount.Equals(pool.CacaoBalance), Equals, true)

	none, err := GetPoolShare(UnitData{LiquidityUnits: decimal.Zero, TotalUnits: total}, pool)
	c.Assert(err, IsNil)
	c.Check(none.AssetShare.IsZero(), Equals, true)
	c.Check(none.CacaoShare.IsZero(), Equals, true)

	_, err = GetPoolShare(UnitData{LiquidityUnits: total, TotalUnits: decimal.Zero}, pool)
	c.Assert(errors.Is(err, ErrZeroUnits), Equals, true)
}

func (s *MathSuite) TestGetPoolOwnership(c *C) {
	busd := mustAsset(c, "BNB.BUSD-BD1")
	empty, err := NewLiquidityPool(newPoolDetail("BNB.BUSD-BD1", 0, 0, 10))
	c.Assert(err, IsNil)
	toAdd := LiquidityToAdd{
		Asset: common.NewCryptoAmount(common.NewBaseAmountFromUint64(50*common.One, 8), busd),
		Cacao: cacao(50*common.One, 8),
	}
	ownership, err := GetPoolOwnership(toAdd, empty)
	c.Assert(err, IsNil)
	c.Check(ownership.Equal(decimal.RequireFromString("0.5")), Equals, true, Commentf("%s", ownership))

	ownership, err = GetPoolOwnership(toAdd, busdPool(c))
	c.Assert(err, IsNil)
	c.Check(ownership.Round(10).String(), Equals, "0.0005164565")

	unowned, err := NewLiquidityPool(newPoolDetail("BNB.BUSD-BD1", 0, 0, 0))
	c.Assert(err, IsNil)
	ownership, err = GetPoolOwnership(toAdd, unowned)
	c.Assert(err, IsNil)
	c.Check(ownership.Equal(decimal.NewFromInt(1)), Equals, true)
	ownership, err = GetPoolOwnership(LiquidityToAdd{
		Asset: common.ZeroCryptoAmount(busd, 8),
		Cacao: cacao(0, 10),
	}, unowned)
	c.Assert(err, IsNil)
	c.Check(ownership.IsZero(), Equals, true)
}

func (s *MathSuite) TestGetSlipOnLiquidity(c *C) {
	pool := btcPool(c)
	slip, err := GetSlipOnLiquidity(LiquidityToAdd{
		Asset: common.NewCryptoAmount(common.NewBaseAmountFromUint64(100*common.One, 8), common.BTCAsset),
		Cacao: cacao(0, 10),
	}, pool)
	c.Assert(err, IsNil)
	c.Check(slip.Mul(decimal.NewFromInt(100)).Round(1).String(), Equals, "12.3")

	slip, err = GetSlipOnLiquidity(LiquidityToAdd{
		Asset: common.ZeroCryptoAmount(common.BTCAsset, 8),
		Cacao: cacao(9177*10000000000, 10),
	}, pool)
	c.Assert(err, IsNil)
	c.Check(slip.Mul(decimal.NewFromInt(100)).Round(3).String(), Equals, "0.104")

	// the same cacao amount in another notation gives the same slip
	other, err := GetSlipOnLiquidity(LiquidityToAdd{
		Asset: common.ZeroCryptoAmount(common.BTCAsset, 8),
		Cacao: cacao(9177*common.One, 8),
	}, pool)
	c.Assert(err, IsNil)
	c.Check(other.Equal(slip), Equals, true)

	empty, err := NewLiquidityPool(newPoolDetail("BTC.BTC", 0, 0, 0))
	c.Assert(err, IsNil)
	_, err = GetSlipOnLiquidity(LiquidityToAdd{Asset: common.ZeroCryptoAmount(common.BTCAsset, 8), Cacao: cacao(0, 10)}, empty)
	c.Assert(err, NotNil)
}

func (s *MathSuite) TestUnsetSide(c *C) {
	pool := btcPool(c)
	btcOnly := LiquidityToAdd{
		Asset: common.NewCryptoAmount(common.NewBaseAmountFromUint64(100*common.One, 8), common.BTCAsset),
	}
	zeroCacao := btcOnly
	zeroCacao.Cacao = cacao(0, 10)

	slip, err := GetSlipOnLiquidity(btcOnly, pool)
	c.Assert(err, IsNil)
	c.Check(slip.Mul(decimal.NewFromInt(100)).Round(1).String(), Equals, "12.3")

	units, err := GetLiquidityUnits(btcOnly, pool)
	c.Assert(err, IsNil)
	expectedUnits, err := GetLiquidityUnits(zeroCacao, pool)
	c.Assert(err, IsNil)
	c.Check(units.Equal(expectedUnits), Equals, true)

	ownership, err := GetPoolOwnership(btcOnly, pool)
	c.Assert(err, IsNil)
	expectedOwnership, err := GetPoolOwnership(zeroCacao, pool)
	c.Assert(err, IsNil)
	c.Check(ownership.Equal(expectedOwnership), Equals, true)
	c.Check(ownership.IsPositive(), Equals, true)

	// cacao only, the asset side is unset
	slip, err = GetSlipOnLiquidity(LiquidityToAdd{Cacao: cacao(9177*10000000000, 10)}, pool)
	c.Assert(err, IsNil)
	c.Check(slip.Mul(decimal.NewFromInt(100)).Round(3).String(), Equals, "0.104")
}

func (s *MathSuite) TestSlipMonotonic(c *C) {
	pool := btcPool(c)
	previous := decimal.Zero
	for btc := uint64(0); btc <= 2000; btc += 25 {
		slip, err := GetSlipOnLiquidity(LiquidityToAdd{
			Asset: common.NewCryptoAmount(common.NewBaseAmountFromUint64(btc*common.One, 8), common.BTCAsset),
			Cacao: cacao(0, 10),
		}, pool)
		c.Assert(err, IsNil)
		c.Check(slip.GreaterThanOrEqual(previous), Equals, true, Commentf("%d BTC", btc))
		previous = slip
	}
}

func (s *MathSuite) TestLiquidityProtectionSymmetrical(c *C) {
	deposit := PositionDepositValue{
		Asset: common.NewBaseAmountFromUint64(common.One, 8),
		Cacao: common.NewBaseAmountFromUint64(4000*common.One, 8),
	}
	share := PoolShareDetail{
		AssetShare: common.NewCryptoAmount(common.NewBaseAmountFromUint64(88888900, 8), common.BTCAsset),
		CacaoShare: cacao(444444400000, 8),
	}
	block := Block{Current: 25744, LastAdded: 25600, FullProtection: 144}
	ilp, err := GetLiquidityProtectionData(deposit, share, block)
	c.Assert(err, IsNil)
	c.Check(ilp.ILProtection.Asset.Equals(common.CacaoAsset), Equals, true)
	c.Check(ilp.ILProtection.BaseAmount.Decimal, Equals, 8)
	c.Check(ilp.ILProtection.AssetAmount().String(), Equals, "111.110875")
	c.Check(ilp.TotalDays, Equals, "100.00")

	// half way there
	block.Current = 25672
	ilp, err = GetLiquidityProtectionData(deposit, share, block)
	c.Assert(err, IsNil)
	c.Check(ilp.ILProtection.BaseAmount.Amount.Uint64(), Equals, uint64(5555543750))
	c.Check(ilp.TotalDays, Equals, "50.00")

	// progress is capped
	block.Current = 99999
	ilp, err = GetLiquidityProtectionData(deposit, share, block)
	c.Assert(err, IsNil)
	c.Check(ilp.ILProtection.AssetAmount().String(), Equals, "111.110875")
	c.Check(ilp.TotalDays, Equals, "100.00")
}

func (s *MathSuite) TestLiquidityProtectionAsymmetrical(c *C) {
	deposit := PositionDepositValue{
		Asset: common.NewBaseAmountFromUint64(common.One, 8),
		Cacao: common.ZeroBaseAmount(8),
	}
	share := PoolShareDetail{
		AssetShare: common.NewCryptoAmount(common.NewBaseAmountFromUint64(49999900, 8), common.BTCAsset),
		CacaoShare: cacao(600088000000, 8),
	}
	ilp, err := GetLiquidityProtectionData(deposit, share, Block{Current: 25744, LastAdded: 25600, FullProtection: 144})
	c.Assert(err, IsNil)
	c.Check(ilp.ILProtection.AssetAmount().String(), Equals, "0.02400357")
	c.Check(ilp.TotalDays, Equals, "100.00")
}

func (s *MathSuite) TestLiquidityProtectionFloor(c *C) {
	deposit := PositionDepositValue{
		Asset: common.NewBaseAmountFromUint64(common.One, 8),
		Cacao: common.NewBaseAmountFromUint64(4000*common.One, 8),
	}
	// the position gained value
	share := PoolShareDetail{
		AssetShare: common.NewCryptoAmount(common.NewBaseAmountFromUint64(common.One, 8), common.BTCAsset),
		CacaoShare: cacao(5000*common.One, 8),
	}
	for _, block := range []Block{
		{Current: 25744, LastAdded: 25600, FullProtection: 144},
		{Current: 25610, LastAdded: 25600, FullProtection: 144},
		{Current: 25600, LastAdded: 25700, FullProtection: 144},
	} {
		ilp, err := GetLiquidityProtectionData(deposit, share, block)
		c.Assert(err, IsNil)
		c.Check(ilp.ILProtection.IsZero(), Equals, true)
	}

	_, err := GetLiquidityProtectionData(deposit, share, Block{Current: 1, LastAdded: 0, FullProtection: 0})
	c.Assert(errors.Is(err, ErrInvalidBlock), Equals, true)

	share.AssetShare = common.ZeroCryptoAmount(common.BTCAsset, 8)
	_, err = GetLiquidityProtectionData(deposit, share, Block{Current: 1, LastAdded: 0, FullProtection: 10})
	c.Assert(errors.Is(err, ErrZeroBalance), Equals, true)
}
