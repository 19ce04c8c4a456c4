package keeper

import (
	"context"
	"time"

	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/hashicorp/go-metrics"

	"github.com/paw-chain/aioracle/x/aioracle/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the MsgServer interface
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// atomically runs fn on a cached context and writes it back only when fn
// succeeds, so a rejected command leaves neither state nor events behind.
func (ms msgServer) atomically(goCtx context.Context, command string, fn func(ctx sdk.Context) error) error {
	start := time.Now()
	defer func() {
		telemetry.MeasureSince(start, types.ModuleName, command)
		ms.metrics.CommandLatency.WithLabelValues(command).Observe(time.Since(start).Seconds())
	}()

	sdkCtx := sdk.UnwrapSDKContext(goCtx)
	cacheCtx, writeFn := sdkCtx.CacheContext()
	if err := fn(cacheCtx); err != nil {
		telemetry.IncrCounterWithLabels(
			[]string{types.ModuleName, "command", "failed"},
			1,
			[]metrics.Label{
				telemetry.NewLabel("command", command),
			},
		)
		ms.metrics.CommandFailures.WithLabelValues(command).Inc()
		ms.Logger(sdkCtx).Debug("command rejected", "command", command, "error", err)
		return err
	}
	writeFn()
	return nil
}

// CreateRequest handles new data requests
func (ms msgServer) CreateRequest(goCtx context.Context, msg *types.MsgCreateRequest) (*types.MsgCreateRequestResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	var stage uint64
	err := ms.atomically(goCtx, types.TypeMsgCreateRequest, func(ctx sdk.Context) error {
		var err error
		stage, err = ms.Keeper.CreateRequest(ctx, msg)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgCreateRequestResponse{Stage: stage}, nil
}

// RegisterMerkleRoot handles stage resolution by the owner
func (ms msgServer) RegisterMerkleRoot(goCtx context.Context, msg *types.MsgRegisterMerkleRoot) (*types.MsgRegisterMerkleRootResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	var checkpoint uint64
	err := ms.atomically(goCtx, types.TypeMsgRegisterMerkleRoot, func(ctx sdk.Context) error {
		var err error
		checkpoint, err = ms.Keeper.RegisterMerkleRoot(ctx, msg.Sender, msg.Stage, msg.MerkleRoot)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgRegisterMerkleRootResponse{Checkpoint: checkpoint}, nil
}

// ClaimReward handles report settlement
func (ms msgServer) ClaimReward(goCtx context.Context, msg *types.MsgClaimReward) (*types.MsgClaimRewardResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	var payouts []types.Payout
	err := ms.atomically(goCtx, types.TypeMsgClaimReward, func(ctx sdk.Context) error {
		var err error
		payouts, err = ms.Keeper.ClaimReward(ctx, msg.Sender, msg.Stage, msg.Report, msg.Proof)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgClaimRewardResponse{Payouts: payouts}, nil
}

// UpdateConfig handles owner config changes and executor rotation
func (ms msgServer) UpdateConfig(goCtx context.Context, msg *types.MsgUpdateConfig) (*types.MsgUpdateConfigResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	err := ms.atomically(goCtx, types.TypeMsgUpdateConfig, func(ctx sdk.Context) error {
		return ms.Keeper.UpdateConfig(ctx, msg)
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgUpdateConfigResponse{}, nil
}

// WithdrawFunds handles protocol fee withdrawals by the owner
func (ms msgServer) WithdrawFunds(goCtx context.Context, msg *types.MsgWithdrawFunds) (*types.MsgWithdrawFundsResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	err := ms.atomically(goCtx, types.TypeMsgWithdrawFunds, func(ctx sdk.Context) error {
		return ms.Keeper.WithdrawFunds(ctx, msg.Sender, msg.Denom, msg.Amount)
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgWithdrawFundsResponse{}, nil
}
