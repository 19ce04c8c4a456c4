package keeper

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/paw-chain/aioracle/x/aioracle/types"
)

type queryServer struct {
	Keeper
}

// NewQueryServerImpl returns an implementation of the QueryServer interface
func NewQueryServerImpl(keeper Keeper) types.QueryServer {
	return &queryServer{Keeper: keeper}
}

var _ types.QueryServer = queryServer{}

// toStatus maps module errors onto gRPC codes.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, types.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, types.ErrNoMerkleRoot):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, types.ErrInvalidProof), errors.Is(err, types.ErrInvalidRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func validatePage(page types.PageRequest) error {
	if err := page.Order.Validate(); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

// Config queries the singleton config
func (qs queryServer) Config(goCtx context.Context, req *types.QueryConfigRequest) (*types.QueryConfigResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	cfg, err := qs.GetConfig(goCtx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &types.QueryConfigResponse{Config: cfg}, nil
}

// StageInfo queries the ledger head and checkpoint
func (qs queryServer) StageInfo(goCtx context.Context, req *types.QueryStageInfoRequest) (*types.QueryStageInfoResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}
	return &types.QueryStageInfoResponse{StageInfo: qs.GetStageInfo(goCtx)}, nil
}

// Request queries one stage
func (qs queryServer) Request(goCtx context.Context, req *types.QueryRequestRequest) (*types.QueryRequestResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	request, err := qs.GetRequest(goCtx, req.Stage)
	if err != nil {
		return nil, toStatus(err)
	}
	return &types.QueryRequestResponse{Request: request}, nil
}

// GetRequests pages through the ledger
func (qs queryServer) GetRequests(goCtx context.Context, req *types.QueryGetRequestsRequest) (*types.QueryRequestsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}
	if err := validatePage(req.Pagination); err != nil {
		return nil, err
	}

	requests, err := qs.Keeper.GetRequests(goCtx, req.Pagination)
	if err != nil {
		return nil, toStatus(err)
	}
	return &types.QueryRequestsResponse{Requests: requests}, nil
}

// GetRequestsByService pages through the requests of one service
func (qs queryServer) GetRequestsByService(goCtx context.Context, req *types.QueryGetRequestsByServiceRequest) (*types.QueryRequestsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}
	if req.Service == "" {
		return nil, status.Error(codes.InvalidArgument, "service cannot be empty")
	}
	if len(req.Service) > types.MaxKeySegmentLength {
		return nil, status.Error(codes.InvalidArgument, "service name too long")
	}
	if err := validatePage(req.Pagination); err != nil {
		return nil, err
	}

	requests, err := qs.Keeper.GetRequestsByService(goCtx, req.Service, req.Pagination)
	if err != nil {
		return nil, toStatus(err)
	}
	return &types.QueryRequestsResponse{Requests: requests}, nil
}

// GetRequestsByMerkleRoot pages through the stages resolved with one root
func (qs queryServer) GetRequestsByMerkleRoot(goCtx context.Context, req *types.QueryGetRequestsByMerkleRootRequest) (*types.QueryRequestsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}
	root, err := types.NormalizeMerkleRoot(req.MerkleRoot)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := validatePage(req.Pagination); err != nil {
		return nil, err
	}

	requests, err := qs.Keeper.GetRequestsByMerkleRoot(goCtx, root, req.Pagination)
	if err != nil {
		return nil, toStatus(err)
	}
	return &types.QueryRequestsResponse{Requests: requests}, nil
}

// GetRequestsByExecutorsKey pages through the requests of one registry version
func (qs queryServer) GetRequestsByExecutorsKey(goCtx context.Context, req *types.QueryGetRequestsByExecutorsKeyRequest) (*types.QueryRequestsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}
	if err := validatePage(req.Pagination); err != nil {
		return nil, err
	}

	requests, err := qs.Keeper.GetRequestsByExecutorsKey(goCtx, req.ExecutorsKey, req.Pagination)
	if err != nil {
		return nil, toStatus(err)
	}
	return &types.QueryRequestsResponse{Requests: requests}, nil
}

// GetExecutors pages through one registry version
func (qs queryServer) GetExecutors(goCtx context.Context, req *types.QueryGetExecutorsRequest) (*types.QueryGetExecutorsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}
	if err := req.Order.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	executors := qs.Keeper.GetExecutors(goCtx, req.Nonce, req.Start, req.End, req.Order)
	return &types.QueryGetExecutorsResponse{Executors: executors}, nil
}

// VerifyData checks a leaf against the root of a stage
func (qs queryServer) VerifyData(goCtx context.Context, req *types.QueryVerifyDataRequest) (*types.QueryVerifyDataResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	verified, err := qs.Keeper.VerifyData(goCtx, req.Stage, req.Data, req.Proof)
	if err != nil {
		return nil, toStatus(err)
	}
	return &types.QueryVerifyDataResponse{Verified: verified}, nil
}

// GetServiceFees quotes the reward schedule of a service
func (qs queryServer) GetServiceFees(goCtx context.Context, req *types.QueryGetServiceFeesRequest) (*types.QueryGetServiceFeesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}
	if req.Service == "" {
		return nil, status.Error(codes.InvalidArgument, "service cannot be empty")
	}

	fees, err := qs.Keeper.GetServiceFees(goCtx, req.Service)
	if err != nil {
		return nil, toStatus(err)
	}
	return &types.QueryGetServiceFeesResponse{Fees: fees}, nil
}

// GetServiceContracts resolves the contracts behind the service of a stage
func (qs queryServer) GetServiceContracts(goCtx context.Context, req *types.QueryGetServiceContractsRequest) (*types.QueryGetServiceContractsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	contracts, err := qs.Keeper.GetServiceContracts(goCtx, req.Stage)
	if err != nil {
		return nil, toStatus(err)
	}
	return &types.QueryGetServiceContractsResponse{Contracts: contracts}, nil
}

// ProtocolFees queries the accumulated contract fees
func (qs queryServer) ProtocolFees(goCtx context.Context, req *types.QueryProtocolFeesRequest) (*types.QueryProtocolFeesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	fees, err := qs.GetAllProtocolFees(goCtx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &types.QueryProtocolFeesResponse{Fees: fees}, nil
}
