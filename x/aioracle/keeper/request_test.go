package keeper_test

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/aioracle/x/aioracle/types"
)

func (s *KeeperTestSuite) TestCreateRequest() {
	s.freshEvents()
	stage, err := s.createRequest("price", 1, orai(5))
	s.Require().NoError(err)
	s.Require().Equal(uint64(1), stage)
	s.Require().True(s.hasEvent(types.EventTypeCreateRequest))

	stage = s.mustCreateRequest("price")
	s.Require().Equal(uint64(2), stage)

	info := s.keeper.GetStageInfo(s.ctx)
	s.Require().Equal(uint64(1), info.Checkpoint)
	s.Require().Equal(uint64(2), info.LatestStage)

	req, err := s.keeper.GetRequest(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().Equal("price", req.Service)
	s.Require().Equal(uint64(1), req.Threshold)
	s.Require().Equal(uint64(1), req.ExecutorsNonce)
	s.Require().Equal(s.client.String(), req.Requester)
	s.Require().False(req.IsResolved())
	s.Require().Len(req.Rewards, 3)

	s.Require().Equal(sdkmath.NewInt(9), s.f.Balance(s.keeper.GetModuleAddress(), denom))
	s.requireInvariants()
}

func (s *KeeperTestSuite) TestCreateRequestThreshold() {
	// 4 executors allow at most floor(2*4/3) = 2
	_, err := s.createRequest("price", 3, orai(12))
	s.Require().ErrorIs(err, types.ErrInvalidThreshold)

	stage, err := s.createRequest("price", 2, orai(8))
	s.Require().NoError(err)
	s.Require().Equal(uint64(1), stage)

	_, err = s.msgServer.CreateRequest(s.ctx, types.NewMsgCreateRequest(s.client.String(), "price", 0, "", orai(8)))
	s.Require().ErrorIs(err, types.ErrInvalidThreshold)
}

func (s *KeeperTestSuite) TestCreateRequestNoExecutors() {
	_, err := s.msgServer.UpdateConfig(s.ctx, (&types.MsgUpdateConfig{Sender: s.owner.String()}).WithExecutors(nil))
	s.Require().NoError(err)

	_, err = s.createRequest("price", 1, orai(4))
	s.Require().ErrorIs(err, types.ErrInvalidThreshold)
}

func (s *KeeperTestSuite) TestCreateRequestFees() {
	s.setContractFee(1)

	// contract fee 1 + rewards (1+2+1) x threshold 1
	_, err := s.createRequest("price", 1, orai(4))
	s.Require().ErrorIs(err, types.ErrInsufficientFunds)

	_, err = s.createRequest("price", 1, sdk.NewCoins(sdk.NewInt64Coin("atom", 100)))
	s.Require().ErrorIs(err, types.ErrInvalidDenomAmount)

	stage, err := s.createRequest("price", 1, orai(5))
	s.Require().NoError(err)
	s.Require().Equal(uint64(1), stage)

	fees, err := s.keeper.GetAllProtocolFees(s.ctx)
	s.Require().NoError(err)
	s.Require().Equal(orai(1), fees)

	// threshold 2 doubles the reward part only
	_, err = s.createRequest("price", 2, orai(8))
	s.Require().ErrorIs(err, types.ErrInsufficientFunds)
	_, err = s.createRequest("price", 2, orai(9))
	s.Require().NoError(err)
	s.requireInvariants()
}

func (s *KeeperTestSuite) TestCreateRequestUnknownService() {
	_, err := s.createRequest("weather", 1, orai(4))
	s.Require().ErrorIs(err, types.ErrNotFound)

	s.f.Bridge.SetService("empty", types.ServiceContracts{})
	_, err = s.createRequest("empty", 1, orai(4))
	s.Require().ErrorIs(err, types.ErrServiceContractsMissing)

	s.Require().Equal(uint64(0), s.keeper.GetLatestStage(s.ctx))
}

func (s *KeeperTestSuite) TestCreateRequestInsufficientBalance() {
	poor := testAddr("poor_client")
	_, err := s.msgServer.CreateRequest(s.ctx, types.NewMsgCreateRequest(poor.String(), "price", 1, "", orai(4)))
	s.Require().ErrorIs(err, types.ErrInsufficientFunds)
	s.Require().Equal(uint64(0), s.keeper.GetLatestStage(s.ctx))
}

func (s *KeeperTestSuite) TestCreateRequestPendingCap() {
	maxReq := uint64(3)
	_, err := s.msgServer.UpdateConfig(s.ctx, &types.MsgUpdateConfig{Sender: s.owner.String(), NewMaxReqThreshold: &maxReq})
	s.Require().NoError(err)

	for i := 0; i < 3; i++ {
		s.mustCreateRequest("price")
	}
	_, err = s.createRequest("price", 1, orai(4))
	s.Require().ErrorIs(err, types.ErrTooManyPendingRequests)
	s.Require().Equal(uint64(3), s.keeper.PendingStages(s.ctx))

	// resolving the checkpoint stage frees one slot
	_, err = s.registerRoot(1, testRoot("1"))
	s.Require().NoError(err)
	s.Require().Equal(uint64(2), s.keeper.PendingStages(s.ctx))
	s.mustCreateRequest("price")

	_, err = s.createRequest("price", 1, orai(4))
	s.Require().ErrorIs(err, types.ErrTooManyPendingRequests)

	// zero disables the cap
	zero := uint64(0)
	_, err = s.msgServer.UpdateConfig(s.ctx, &types.MsgUpdateConfig{Sender: s.owner.String(), NewMaxReqThreshold: &zero})
	s.Require().NoError(err)
	s.mustCreateRequest("price")
}

func (s *KeeperTestSuite) TestCheckpointLaggingEvent() {
	threshold := uint64(2)
	_, err := s.msgServer.UpdateConfig(s.ctx, &types.MsgUpdateConfig{Sender: s.owner.String(), NewCheckpoint: &threshold})
	s.Require().NoError(err)

	for i := 0; i < 2; i++ {
		s.freshEvents()
		s.mustCreateRequest("price")
		s.Require().False(s.hasEvent(types.EventTypeCheckpointLagging))
	}
	s.freshEvents()
	s.mustCreateRequest("price")
	s.Require().True(s.hasEvent(types.EventTypeCheckpointLagging))
}

func (s *KeeperTestSuite) TestServiceFeesAndContracts() {
	fees, err := s.keeper.GetServiceFees(s.ctx, "price")
	s.Require().NoError(err)
	s.Require().Len(fees, 3)
	s.Require().Equal(s.recipients[1].String(), fees[1].Recipient)
	s.Require().Equal(sdkmath.NewInt(2), fees[1].Amount)

	stage := s.mustCreateRequest("price")
	contracts, err := s.keeper.GetServiceContracts(s.ctx, stage)
	s.Require().NoError(err)
	s.Require().Equal([]string{"price_dsource"}, contracts.DataSources)
	s.Require().Equal("price_oscript", contracts.OScript)

	_, err = s.keeper.GetServiceContracts(s.ctx, 42)
	s.Require().ErrorIs(err, types.ErrNotFound)
}
