package common

import (
	. "gopkg.in/check.v1"
)

type NetworkSuite struct{}

var _ = Suite(&NetworkSuite{})

func (s NetworkSuite) TestNewNetwork(c *C) {
	n, err := NewNetwork("")
	c.Assert(err, IsNil)
	c.Check(n, Equals, MainNet)
	n, err = NewNetwork("StageNet")
	c.Assert(err, IsNil)
	c.Check(n, Equals, StageNet)
	n, err = NewNetwork("testnet")
	c.Assert(err, IsNil)
	c.Check(n.String(), Equals, "testnet")
	_, err = NewNetwork("mocknet")
	c.Assert(err, NotNil)

	c.Check(MainNet.DefaultMayanodeHosts(), DeepEquals, []string{"mayanode.mayachain.info"})
	c.Check(MainNet.DefaultMidgardHosts(), HasLen, 2)
	c.Check(StageNet.DefaultMidgardHosts(), DeepEquals, []string{"stagenet.midgard.mayachain.info"})
}
