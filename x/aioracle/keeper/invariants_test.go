package keeper_test

import (
	"github.com/paw-chain/aioracle/x/aioracle/keeper"
)

func (s *KeeperTestSuite) seedLedger() {
	s.mustCreateRequest("price")
	s.mustCreateRequest("price")
	_, err := s.registerRoot(1, testRoot("1"))
	s.Require().NoError(err)
	s.requireInvariants()
}

func (s *KeeperTestSuite) TestCheckpointBoundInvariant() {
	s.seedLedger()
	s.keeper.SetCheckpointUnsafe(s.ctx, 1)

	msg, broken := keeper.CheckpointBoundInvariant(*s.keeper)(s.ctx)
	s.Require().True(broken)
	s.Require().Contains(msg, "checkpoint 1, expected 2")
}

func (s *KeeperTestSuite) TestIndexConsistencyInvariant() {
	s.seedLedger()
	s.keeper.DeleteServiceIndexUnsafe(s.ctx, "price", 2)

	msg, broken := keeper.IndexConsistencyInvariant(*s.keeper)(s.ctx)
	s.Require().True(broken)
	s.Require().Contains(msg, "stage 2 missing from service index")
}

func (s *KeeperTestSuite) TestIndexConsistencyInvariantReportsUndecodableRequest() {
	s.seedLedger()
	s.keeper.SetRawRequestUnsafe(s.ctx, 2, []byte{0xff, 0x00})

	msg, broken := keeper.IndexConsistencyInvariant(*s.keeper)(s.ctx)
	s.Require().True(broken)
	s.Require().Contains(msg, "iterate requests")
}

func (s *KeeperTestSuite) TestExecutorCountInvariant() {
	s.keeper.SetExecutorCountUnsafe(s.ctx, 1, 5)

	msg, broken := keeper.ExecutorCountInvariant(*s.keeper)(s.ctx)
	s.Require().True(broken)
	s.Require().Contains(msg, "set 1: count 5, members 4")
}

func (s *KeeperTestSuite) TestProtocolFeeSolvencyInvariant() {
	s.seedLedger()
	s.Require().NoError(s.keeper.SetProtocolFeesUnsafe(s.ctx, denom, 1_000))

	_, broken := keeper.ProtocolFeeSolvencyInvariant(*s.keeper)(s.ctx)
	s.Require().True(broken)

	_, broken = keeper.AllInvariants(*s.keeper)(s.ctx)
	s.Require().True(broken)
}

func (s *KeeperTestSuite) TestProtocolFeeSolvencyCountsEscrow() {
	s.seedLedger()
	s.Require().NoError(s.keeper.SetRequestEscrowUnsafe(s.ctx, 2, orai(5)))

	msg, broken := keeper.ProtocolFeeSolvencyInvariant(*s.keeper)(s.ctx)
	s.Require().True(broken)
	s.Require().Contains(msg, "fees and escrow")
}

func (s *KeeperTestSuite) TestStageDensityInvariant() {
	s.seedLedger()
	_, broken := keeper.StageDensityInvariant(*s.keeper)(s.ctx)
	s.Require().False(broken)
}
