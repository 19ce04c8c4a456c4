package keeper_test

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/paw-chain/aioracle/pkg/merkle"
	"github.com/paw-chain/aioracle/x/aioracle/types"
)

func (s *KeeperTestSuite) requireCode(err error, code codes.Code) {
	s.Require().Error(err)
	st, ok := status.FromError(err)
	s.Require().True(ok, "not a status error: %v", err)
	s.Require().Equal(code, st.Code(), st.Message())
}

func (s *KeeperTestSuite) TestQueryConfigAndStageInfo() {
	cfgResp, err := s.queryServer.Config(s.ctx, &types.QueryConfigRequest{})
	s.Require().NoError(err)
	s.Require().Equal(s.owner.String(), cfgResp.Config.Owner)

	s.mustCreateRequest("price")
	infoResp, err := s.queryServer.StageInfo(s.ctx, &types.QueryStageInfoRequest{})
	s.Require().NoError(err)
	s.Require().Equal(types.StageInfo{LatestStage: 1, Checkpoint: 1}, infoResp.StageInfo)

	_, err = s.queryServer.Config(s.ctx, nil)
	s.requireCode(err, codes.InvalidArgument)
	_, err = s.queryServer.StageInfo(s.ctx, nil)
	s.requireCode(err, codes.InvalidArgument)
}

func (s *KeeperTestSuite) TestQueryRequests() {
	s.seedIndexedStages()

	reqResp, err := s.queryServer.Request(s.ctx, &types.QueryRequestRequest{Stage: 3})
	s.Require().NoError(err)
	s.Require().Equal("price3", reqResp.Request.Service)

	_, err = s.queryServer.Request(s.ctx, &types.QueryRequestRequest{Stage: 30})
	s.requireCode(err, codes.NotFound)

	listResp, err := s.queryServer.GetRequests(s.ctx, &types.QueryGetRequestsRequest{
		Pagination: types.PageRequest{Limit: 2, Order: types.OrderDescending},
	})
	s.Require().NoError(err)
	s.Require().Equal([]uint64{9, 8}, stagesOf(listResp.Requests))

	_, err = s.queryServer.GetRequests(s.ctx, &types.QueryGetRequestsRequest{Pagination: types.PageRequest{Order: 7}})
	s.requireCode(err, codes.InvalidArgument)

	svcResp, err := s.queryServer.GetRequestsByService(s.ctx, &types.QueryGetRequestsByServiceRequest{Service: "price8"})
	s.Require().NoError(err)
	s.Require().Equal([]uint64{8, 9}, stagesOf(svcResp.Requests))

	_, err = s.queryServer.GetRequestsByService(s.ctx, &types.QueryGetRequestsByServiceRequest{})
	s.requireCode(err, codes.InvalidArgument)

	rootResp, err := s.queryServer.GetRequestsByMerkleRoot(s.ctx, &types.QueryGetRequestsByMerkleRootRequest{
		MerkleRoot: "2C624232CDD221771294DFBB310ACA000A0DF6AC8B66B696D90EF06FDEFB64A3",
	})
	s.Require().NoError(err)
	s.Require().Equal([]uint64{8, 9}, stagesOf(rootResp.Requests))

	_, err = s.queryServer.GetRequestsByMerkleRoot(s.ctx, &types.QueryGetRequestsByMerkleRootRequest{MerkleRoot: "xyz"})
	s.requireCode(err, codes.InvalidArgument)

	execResp, err := s.queryServer.GetRequestsByExecutorsKey(s.ctx, &types.QueryGetRequestsByExecutorsKeyRequest{
		ExecutorsKey: 1,
		Pagination:   types.PageRequest{Offset: 5, Limit: 10},
	})
	s.Require().NoError(err)
	s.Require().Len(execResp.Requests, 4)
	s.Require().Equal(uint64(9), execResp.Requests[3].Stage)

	_, err = s.queryServer.GetRequestsByExecutorsKey(s.ctx, nil)
	s.requireCode(err, codes.InvalidArgument)
}

func (s *KeeperTestSuite) TestQueryExecutors() {
	two := uint64(2)
	resp, err := s.queryServer.GetExecutors(s.ctx, &types.QueryGetExecutorsRequest{Nonce: 1, End: &two})
	s.Require().NoError(err)
	s.Require().Equal(decodeExecutors(s.T(), genesisExecutors[3], genesisExecutors[1]), resp.Executors)

	_, err = s.queryServer.GetExecutors(s.ctx, &types.QueryGetExecutorsRequest{Nonce: 1, Order: 3})
	s.requireCode(err, codes.InvalidArgument)
}

func (s *KeeperTestSuite) TestQueryVerifyData() {
	stage := s.mustCreateRequest("price")

	_, err := s.queryServer.VerifyData(s.ctx, &types.QueryVerifyDataRequest{Stage: stage, Data: []byte("x")})
	s.requireCode(err, codes.FailedPrecondition)

	leaves, tree := s.reportLeaves(s.executors, s.serviceRewards()...)
	_, err = s.registerRoot(stage, tree.RootHex())
	s.Require().NoError(err)
	proof, err := tree.Proof(0)
	s.Require().NoError(err)

	resp, err := s.queryServer.VerifyData(s.ctx, &types.QueryVerifyDataRequest{
		Stage: stage,
		Data:  leaves[0],
		Proof: merkle.EncodeProof(proof),
	})
	s.Require().NoError(err)
	s.Require().True(resp.Verified)

	_, err = s.queryServer.VerifyData(s.ctx, &types.QueryVerifyDataRequest{Stage: stage, Data: leaves[0], Proof: []string{"nothex"}})
	s.requireCode(err, codes.InvalidArgument)

	_, err = s.queryServer.VerifyData(s.ctx, &types.QueryVerifyDataRequest{Stage: 99, Data: leaves[0]})
	s.requireCode(err, codes.NotFound)
}

func (s *KeeperTestSuite) TestQueryServiceFeesAndContracts() {
	feesResp, err := s.queryServer.GetServiceFees(s.ctx, &types.QueryGetServiceFeesRequest{Service: "price"})
	s.Require().NoError(err)
	s.Require().Len(feesResp.Fees, 3)

	_, err = s.queryServer.GetServiceFees(s.ctx, &types.QueryGetServiceFeesRequest{Service: "unknown"})
	s.requireCode(err, codes.NotFound)
	_, err = s.queryServer.GetServiceFees(s.ctx, &types.QueryGetServiceFeesRequest{})
	s.requireCode(err, codes.InvalidArgument)

	stage := s.mustCreateRequest("price")
	contractsResp, err := s.queryServer.GetServiceContracts(s.ctx, &types.QueryGetServiceContractsRequest{Stage: stage})
	s.Require().NoError(err)
	s.Require().Equal("price_oscript", contractsResp.Contracts.OScript)

	_, err = s.queryServer.GetServiceContracts(s.ctx, &types.QueryGetServiceContractsRequest{Stage: 5})
	s.requireCode(err, codes.NotFound)
}

func (s *KeeperTestSuite) TestQueryProtocolFees() {
	s.setContractFee(1)
	_, err := s.createRequest("price", 1, orai(5))
	s.Require().NoError(err)

	resp, err := s.queryServer.ProtocolFees(s.ctx, &types.QueryProtocolFeesRequest{})
	s.Require().NoError(err)
	s.Require().Equal(orai(1), resp.Fees)
}
