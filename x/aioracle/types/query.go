package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// QueryServer is the read-only surface of the coordinator.
type QueryServer interface {
	Config(context.Context, *QueryConfigRequest) (*QueryConfigResponse, error)
	StageInfo(context.Context, *QueryStageInfoRequest) (*QueryStageInfoResponse, error)
	Request(context.Context, *QueryRequestRequest) (*QueryRequestResponse, error)
	GetRequests(context.Context, *QueryGetRequestsRequest) (*QueryRequestsResponse, error)
	GetRequestsByService(context.Context, *QueryGetRequestsByServiceRequest) (*QueryRequestsResponse, error)
	GetRequestsByMerkleRoot(context.Context, *QueryGetRequestsByMerkleRootRequest) (*QueryRequestsResponse, error)
	GetRequestsByExecutorsKey(context.Context, *QueryGetRequestsByExecutorsKeyRequest) (*QueryRequestsResponse, error)
	GetExecutors(context.Context, *QueryGetExecutorsRequest) (*QueryGetExecutorsResponse, error)
	VerifyData(context.Context, *QueryVerifyDataRequest) (*QueryVerifyDataResponse, error)
	GetServiceFees(context.Context, *QueryGetServiceFeesRequest) (*QueryGetServiceFeesResponse, error)
	GetServiceContracts(context.Context, *QueryGetServiceContractsRequest) (*QueryGetServiceContractsResponse, error)
	ProtocolFees(context.Context, *QueryProtocolFeesRequest) (*QueryProtocolFeesResponse, error)
}

// PageRequest paginates ledger and index reads. Offset is an exclusive stage
// cursor: ascending reads return stages above it, descending reads stages
// below it. Zero means unbounded.
type PageRequest struct {
	Offset uint64 `json:"offset,omitempty"`
	Limit  uint64 `json:"limit,omitempty"`
	Order  Order  `json:"order,omitempty"`
}

type QueryConfigRequest struct{}

type QueryConfigResponse struct {
	Config Config `json:"config"`
}

type QueryStageInfoRequest struct{}

type QueryStageInfoResponse struct {
	StageInfo StageInfo `json:"stage_info"`
}

type QueryRequestRequest struct {
	Stage uint64 `json:"stage"`
}

type QueryRequestResponse struct {
	Request Request `json:"request"`
}

type QueryGetRequestsRequest struct {
	Pagination PageRequest `json:"pagination"`
}

type QueryGetRequestsByServiceRequest struct {
	Service    string      `json:"service"`
	Pagination PageRequest `json:"pagination"`
}

type QueryGetRequestsByMerkleRootRequest struct {
	MerkleRoot string      `json:"merkle_root"`
	Pagination PageRequest `json:"pagination"`
}

type QueryGetRequestsByExecutorsKeyRequest struct {
	ExecutorsKey uint64      `json:"executors_key"`
	Pagination   PageRequest `json:"pagination"`
}

// QueryRequestsResponse is shared by every paginated request read.
type QueryRequestsResponse struct {
	Requests []Request `json:"requests"`
}

// QueryGetExecutorsRequest pages through one registry version. Start and End
// are zero-based offsets into the ordered member list.
type QueryGetExecutorsRequest struct {
	Nonce uint64  `json:"nonce"`
	Start *uint64 `json:"start,omitempty"`
	End   *uint64 `json:"end,omitempty"`
	Order Order   `json:"order,omitempty"`
}

type QueryGetExecutorsResponse struct {
	Executors [][]byte `json:"executors"`
}

type QueryVerifyDataRequest struct {
	Stage uint64   `json:"stage"`
	Data  []byte   `json:"data"`
	Proof []string `json:"proof,omitempty"`
}

type QueryVerifyDataResponse struct {
	Verified bool `json:"verified"`
}

type QueryGetServiceFeesRequest struct {
	Service string `json:"service"`
}

type QueryGetServiceFeesResponse struct {
	Fees []Reward `json:"fees"`
}

type QueryGetServiceContractsRequest struct {
	Stage uint64 `json:"stage"`
}

type QueryGetServiceContractsResponse struct {
	Contracts ServiceContracts `json:"contracts"`
}

type QueryProtocolFeesRequest struct{}

type QueryProtocolFeesResponse struct {
	Fees sdk.Coins `json:"fees"`
}
