package keeper_test

import (
	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/aioracle/pkg/merkle"
	"github.com/paw-chain/aioracle/x/aioracle/types"
)

func (s *KeeperTestSuite) serviceRewards() []types.Reward {
	return []types.Reward{
		types.NewReward(s.recipients[0].String(), denom, sdkmath.NewInt(1)),
		types.NewReward(s.recipients[1].String(), denom, sdkmath.NewInt(2)),
		types.NewReward(s.recipients[2].String(), denom, sdkmath.NewInt(1)),
	}
}

func (s *KeeperTestSuite) claim(claimant sdk.AccAddress, stage uint64, leaf []byte, proof [][]byte) ([]types.Payout, error) {
	resp, err := s.msgServer.ClaimReward(s.ctx, types.NewMsgClaimReward(claimant.String(), stage, leaf, merkle.EncodeProof(proof)))
	if err != nil {
		return nil, err
	}
	return resp.Payouts, nil
}

func (s *KeeperTestSuite) TestClaimReward() {
	stage, err := s.createRequest("price", 2, orai(8))
	s.Require().NoError(err)

	leaves, tree := s.reportLeaves(s.executors, s.serviceRewards()...)
	proof, err := tree.Proof(0)
	s.Require().NoError(err)

	_, err = s.claim(s.client, stage, leaves[0], proof)
	s.Require().ErrorIs(err, types.ErrNoMerkleRoot)

	_, err = s.registerRoot(stage, tree.RootHex())
	s.Require().NoError(err)

	s.freshEvents()
	payouts, err := s.claim(s.client, stage, leaves[0], proof)
	s.Require().NoError(err)
	s.Require().Len(payouts, 3)
	s.Require().Equal(s.recipients[1].String(), payouts[1].Recipient)
	s.Require().Equal(orai(2), payouts[1].Amount)
	s.Require().True(s.hasEvent(types.EventTypeClaimReward))
	s.Require().True(s.hasEvent(types.EventTypePayout))

	s.Require().Equal(sdkmath.NewInt(1), s.f.Balance(s.recipients[0], denom))
	s.Require().Equal(sdkmath.NewInt(2), s.f.Balance(s.recipients[1], denom))
	s.Require().Equal(sdkmath.NewInt(1), s.f.Balance(s.recipients[2], denom))
	s.Require().True(s.keeper.IsClaimed(s.ctx, s.executors[0], stage))

	_, err = s.claim(s.client, stage, leaves[0], proof)
	s.Require().ErrorIs(err, types.ErrAlreadyClaimed)

	// another executor's report settles separately
	proof, err = tree.Proof(3)
	s.Require().NoError(err)
	_, err = s.claim(s.recipients[0], stage, leaves[3], proof)
	s.Require().NoError(err)
	s.Require().Equal(sdkmath.NewInt(2), s.f.Balance(s.recipients[0], denom))
	s.Require().True(s.f.Balance(s.keeper.GetModuleAddress(), denom).IsZero())
	s.requireInvariants()
}

func (s *KeeperTestSuite) TestClaimRewardProofFailures() {
	stage := s.mustCreateRequest("price")
	leaves, tree := s.reportLeaves(s.executors, s.serviceRewards()...)
	_, err := s.registerRoot(stage, tree.RootHex())
	s.Require().NoError(err)

	proof, err := tree.Proof(1)
	s.Require().NoError(err)

	forged := append([]byte(nil), leaves[1]...)
	forged[len(forged)-2] ^= 0x01
	_, err = s.claim(s.client, stage, forged, proof)
	s.Require().ErrorIs(err, types.ErrProofVerificationFailed)

	_, err = s.claim(s.client, stage, leaves[1], proof[1:])
	s.Require().ErrorIs(err, types.ErrProofVerificationFailed)

	_, err = s.msgServer.ClaimReward(s.ctx, types.NewMsgClaimReward(s.client.String(), stage, leaves[1], []string{"zz"}))
	s.Require().ErrorIs(err, types.ErrInvalidProof)

	_, err = s.claim(s.client, 42, leaves[1], proof)
	s.Require().ErrorIs(err, types.ErrNotFound)

	s.Require().False(s.keeper.IsClaimed(s.ctx, s.executors[1], stage))
}

func (s *KeeperTestSuite) TestClaimRewardReplayBySecondSender() {
	stage := s.mustCreateRequest("price")
	other := s.mustCreateRequest("price")
	leaves, tree := s.reportLeaves(s.executors, s.serviceRewards()...)
	_, err := s.registerRoot(stage, tree.RootHex())
	s.Require().NoError(err)

	proof, err := tree.Proof(0)
	s.Require().NoError(err)
	_, err = s.claim(s.client, stage, leaves[0], proof)
	s.Require().NoError(err)

	s.freshEvents()
	_, err = s.claim(s.owner, stage, leaves[0], proof)
	s.Require().ErrorIs(err, types.ErrAlreadyClaimed)
	s.Require().Empty(s.ctx.EventManager().Events())

	s.Require().Equal(sdkmath.NewInt(2), s.f.Balance(s.recipients[1], denom))
	s.Require().Equal(sdkmath.NewInt(4), s.f.Balance(s.keeper.GetModuleAddress(), denom))
	req, err := s.keeper.GetRequest(s.ctx, other)
	s.Require().NoError(err)
	s.Require().Equal(orai(4), req.Escrow)
	s.requireInvariants()
}

func (s *KeeperTestSuite) TestClaimRewardBoundedByStageEscrow() {
	stage := s.mustCreateRequest("price")
	other := s.mustCreateRequest("price")
	leaves, tree := s.reportLeaves(s.executors[:2], s.serviceRewards()...)
	_, err := s.registerRoot(stage, tree.RootHex())
	s.Require().NoError(err)

	proof, err := tree.Proof(0)
	s.Require().NoError(err)
	_, err = s.claim(s.client, stage, leaves[0], proof)
	s.Require().NoError(err)

	req, err := s.keeper.GetRequest(s.ctx, stage)
	s.Require().NoError(err)
	s.Require().True(req.Escrow.IsZero())

	// the module still holds the other stage's escrow, which stays out of reach
	proof, err = tree.Proof(1)
	s.Require().NoError(err)
	_, err = s.claim(s.client, stage, leaves[1], proof)
	s.Require().ErrorIs(err, types.ErrInsufficientFunds)
	s.Require().False(s.keeper.IsClaimed(s.ctx, s.executors[1], stage))

	req, err = s.keeper.GetRequest(s.ctx, other)
	s.Require().NoError(err)
	s.Require().Equal(orai(4), req.Escrow)
	s.Require().Equal(sdkmath.NewInt(4), s.f.Balance(s.keeper.GetModuleAddress(), denom))
	s.requireInvariants()
}

func (s *KeeperTestSuite) TestClaimRewardRequiresExecutor() {
	stage := s.mustCreateRequest("price")
	outsider := secp256k1.GenPrivKey().PubKey().Bytes()
	leaves, tree := s.reportLeaves([][]byte{s.executors[0], outsider}, s.serviceRewards()...)
	_, err := s.registerRoot(stage, tree.RootHex())
	s.Require().NoError(err)

	proof, err := tree.Proof(1)
	s.Require().NoError(err)
	_, err = s.claim(s.client, stage, leaves[1], proof)
	s.Require().ErrorIs(err, types.ErrUnauthorized)

	// the stage stays bound to the set it was created under
	_, err = s.msgServer.UpdateConfig(s.ctx, (&types.MsgUpdateConfig{Sender: s.owner.String()}).WithExecutors([][]byte{outsider}))
	s.Require().NoError(err)
	_, err = s.claim(s.client, stage, leaves[1], proof)
	s.Require().ErrorIs(err, types.ErrUnauthorized)

	proof, err = tree.Proof(0)
	s.Require().NoError(err)
	_, err = s.claim(s.client, stage, leaves[0], proof)
	s.Require().NoError(err)

	byOldSet, err := s.keeper.GetRequestsByExecutorsKey(s.ctx, 1, types.PageRequest{})
	s.Require().NoError(err)
	s.Require().Equal([]uint64{stage}, stagesOf(byOldSet))
}

func (s *KeeperTestSuite) TestClaimRewardInvalidReport() {
	stage := s.mustCreateRequest("price")
	bad := types.NewReward(s.recipients[0].String(), denom, sdkmath.NewInt(-1))
	leaves, tree := s.reportLeaves(s.executors[:1], bad)
	_, err := s.registerRoot(stage, tree.RootHex())
	s.Require().NoError(err)

	_, err = s.claim(s.client, stage, leaves[0], nil)
	s.Require().ErrorIs(err, types.ErrInvalidReport)
}

func (s *KeeperTestSuite) TestFailedClaimLeavesNoState() {
	stage := s.mustCreateRequest("price")
	greedy := types.NewReward(s.recipients[0].String(), denom, sdkmath.NewInt(1_000))
	leaves, tree := s.reportLeaves(s.executors[:1], append(s.serviceRewards(), greedy)...)
	_, err := s.registerRoot(stage, tree.RootHex())
	s.Require().NoError(err)

	s.freshEvents()
	_, err = s.claim(s.client, stage, leaves[0], nil)
	s.Require().ErrorIs(err, types.ErrInsufficientFunds)

	s.Require().False(s.keeper.IsClaimed(s.ctx, s.executors[0], stage))
	req, err := s.keeper.GetRequest(s.ctx, stage)
	s.Require().NoError(err)
	s.Require().Equal(orai(4), req.Escrow)
	for _, r := range s.recipients {
		s.Require().True(s.f.Balance(r, denom).IsZero())
	}
	s.Require().Equal(sdkmath.NewInt(4), s.f.Balance(s.keeper.GetModuleAddress(), denom))
	s.Require().Empty(s.ctx.EventManager().Events())
}

func (s *KeeperTestSuite) TestVerifyData() {
	stage := s.mustCreateRequest("price")
	leaves, tree := s.reportLeaves(s.executors, s.serviceRewards()...)

	_, err := s.keeper.VerifyData(s.ctx, stage, leaves[2], nil)
	s.Require().ErrorIs(err, types.ErrNoMerkleRoot)

	_, err = s.registerRoot(stage, tree.RootHex())
	s.Require().NoError(err)

	proof, err := tree.Proof(2)
	s.Require().NoError(err)
	ok, err := s.keeper.VerifyData(s.ctx, stage, leaves[2], merkle.EncodeProof(proof))
	s.Require().NoError(err)
	s.Require().True(ok)

	ok, err = s.keeper.VerifyData(s.ctx, stage, leaves[1], merkle.EncodeProof(proof))
	s.Require().NoError(err)
	s.Require().False(ok)

	_, err = s.keeper.VerifyData(s.ctx, stage, leaves[2], []string{"00"})
	s.Require().ErrorIs(err, types.ErrInvalidProof)
}

func (s *KeeperTestSuite) TestWithdrawFunds() {
	s.setContractFee(1)
	_, err := s.createRequest("price", 1, orai(5))
	s.Require().NoError(err)
	_, err = s.createRequest("price", 1, orai(5))
	s.Require().NoError(err)

	fees, err := s.keeper.GetProtocolFees(s.ctx, denom)
	s.Require().NoError(err)
	s.Require().Equal(sdkmath.NewInt(2), fees)

	_, err = s.msgServer.WithdrawFunds(s.ctx, types.NewMsgWithdrawFunds(s.client.String(), denom, sdkmath.NewInt(1)))
	s.Require().ErrorIs(err, types.ErrUnauthorized)

	// escrowed rewards are out of reach
	_, err = s.msgServer.WithdrawFunds(s.ctx, types.NewMsgWithdrawFunds(s.owner.String(), denom, sdkmath.NewInt(3)))
	s.Require().ErrorIs(err, types.ErrInsufficientFunds)

	_, err = s.msgServer.WithdrawFunds(s.ctx, types.NewMsgWithdrawFunds(s.owner.String(), denom, sdkmath.NewInt(2)))
	s.Require().NoError(err)
	s.Require().Equal(sdkmath.NewInt(2), s.f.Balance(s.owner, denom))
	s.Require().Equal(sdkmath.NewInt(8), s.f.Balance(s.keeper.GetModuleAddress(), denom))

	all, err := s.keeper.GetAllProtocolFees(s.ctx)
	s.Require().NoError(err)
	s.Require().True(all.IsZero())
	s.requireInvariants()
}
