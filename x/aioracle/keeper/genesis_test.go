package keeper_test

import (
	sdkmath "cosmossdk.io/math"

	keepertest "github.com/paw-chain/aioracle/testutil/keeper"
	"github.com/paw-chain/aioracle/x/aioracle/types"
)

func (s *KeeperTestSuite) TestGenesisRoundTrip() {
	s.setContractFee(1)
	for i := 0; i < 3; i++ {
		_, err := s.createRequest("price", 1, orai(5))
		s.Require().NoError(err)
	}
	leaves, tree := s.reportLeaves(s.executors, s.serviceRewards()...)
	_, err := s.registerRoot(1, tree.RootHex())
	s.Require().NoError(err)
	_, err = s.registerRoot(3, testRoot("3"))
	s.Require().NoError(err)
	proof, err := tree.Proof(0)
	s.Require().NoError(err)
	_, err = s.claim(s.client, 1, leaves[0], proof)
	s.Require().NoError(err)
	_, err = s.msgServer.UpdateConfig(s.ctx, (&types.MsgUpdateConfig{Sender: s.owner.String()}).WithExecutors(s.executors[:2]))
	s.Require().NoError(err)

	exported, err := s.keeper.ExportGenesis(s.ctx)
	s.Require().NoError(err)
	s.Require().NoError(exported.Validate())
	s.Require().Len(exported.ExecutorSets, 2)
	s.Require().Len(exported.Requests, 3)
	s.Require().Equal(uint64(2), exported.Checkpoint)
	s.Require().Len(exported.Claims, 1)
	s.Require().Equal(s.executors[0], exported.Claims[0].Executor)
	s.Require().True(exported.Requests[0].Escrow.IsZero())
	s.Require().Equal(orai(4), exported.Requests[1].Escrow)
	s.Require().Equal(orai(3), exported.ProtocolFees)

	// amino JSON is the genesis file format
	var decoded types.GenesisState
	s.Require().NoError(types.ModuleCdc.UnmarshalJSON(types.ModuleCdc.MustMarshalJSON(exported), &decoded))

	f := keepertest.AIOracleKeeper(s.T())
	s.Require().NoError(f.Keeper.InitGenesis(f.Ctx, decoded))
	reexported, err := f.Keeper.ExportGenesis(f.Ctx)
	s.Require().NoError(err)
	s.Require().Equal(exported, reexported)

	s.Require().True(f.Keeper.IsClaimed(f.Ctx, s.executors[0], 1))
	s.Require().Equal(uint64(2), f.Keeper.GetExecutorNonce(f.Ctx))
	byRoot, err := f.Keeper.GetRequestsByMerkleRoot(f.Ctx, testRoot("3"), types.PageRequest{})
	s.Require().NoError(err)
	s.Require().Equal([]uint64{3}, stagesOf(byRoot))
	fees, err := f.Keeper.GetProtocolFees(f.Ctx, denom)
	s.Require().NoError(err)
	s.Require().Equal(sdkmath.NewInt(3), fees)
}

func (s *KeeperTestSuite) TestInitGenesisRejectsInvalidState() {
	f := keepertest.AIOracleKeeper(s.T())
	s.Require().Error(f.Keeper.InitGenesis(f.Ctx, *types.DefaultGenesis()))

	cfg := types.DefaultConfig()
	cfg.Owner = s.owner.String()
	cfg.ServiceAddr = s.owner.String()
	gs := types.NewGenesisState(cfg, s.executors)
	gs.Checkpoint = 1
	s.Require().Error(f.Keeper.InitGenesis(f.Ctx, *gs))
}
