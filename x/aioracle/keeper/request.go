package keeper

import (
	"context"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/aioracle/x/aioracle/types"
)

// GetLatestStage returns the highest allocated stage, 0 on an empty ledger.
func (k Keeper) GetLatestStage(ctx context.Context) uint64 {
	return k.getUint64(ctx, types.LatestStageKey)
}

// GetCheckpoint returns the checkpoint watermark, 0 on an empty ledger.
func (k Keeper) GetCheckpoint(ctx context.Context) uint64 {
	return k.getUint64(ctx, types.CheckpointKey)
}

// GetStageInfo returns the ledger head and the checkpoint.
func (k Keeper) GetStageInfo(ctx context.Context) types.StageInfo {
	return types.StageInfo{
		LatestStage: k.GetLatestStage(ctx),
		Checkpoint:  k.GetCheckpoint(ctx),
	}
}

// GetRequest loads the request of stage.
func (k Keeper) GetRequest(ctx context.Context, stage uint64) (types.Request, error) {
	bz := k.getStore(ctx).Get(types.GetRequestKey(stage))
	if bz == nil {
		return types.Request{}, types.ErrNotFound.Wrapf("request for stage %d", stage)
	}

	var req types.Request
	if err := k.cdc.Unmarshal(bz, &req); err != nil {
		return types.Request{}, types.ErrStateCorruption.Wrapf("decode request %d: %s", stage, err)
	}
	return req, nil
}

// HasRequest reports whether stage has been allocated.
func (k Keeper) HasRequest(ctx context.Context, stage uint64) bool {
	return k.getStore(ctx).Has(types.GetRequestKey(stage))
}

// GetStageRoot returns the registered merkle root of stage, if any.
func (k Keeper) GetStageRoot(ctx context.Context, stage uint64) (string, bool) {
	req, err := k.GetRequest(ctx, stage)
	if err != nil || !req.IsResolved() {
		return "", false
	}
	return req.MerkleRoot, true
}

func (k Keeper) setRequest(ctx context.Context, req types.Request) error {
	bz, err := k.cdc.Marshal(&req)
	if err != nil {
		return types.ErrStateCorruption.Wrapf("encode request %d: %s", req.Stage, err)
	}
	k.getStore(ctx).Set(types.GetRequestKey(req.Stage), bz)
	return nil
}

// appendRequest allocates the next stage for req, persists it with its
// service and executor-version index entries and moves the ledger head. A
// checkpoint resting on a resolved head steps onto the new stage.
func (k Keeper) appendRequest(ctx context.Context, req types.Request) (uint64, error) {
	latest := k.GetLatestStage(ctx)
	if latest == ^uint64(0) {
		return 0, types.ErrStateCorruption.Wrap("stage counter exhausted")
	}
	req.Stage = latest + 1
	if err := k.setRequest(ctx, req); err != nil {
		return 0, err
	}
	k.indexRequestByService(ctx, req.Service, req.Stage)
	k.indexRequestByExecutorNonce(ctx, req.ExecutorsNonce, req.Stage)
	k.setUint64(ctx, types.LatestStageKey, req.Stage)

	if k.GetCheckpoint(ctx) == 0 {
		k.setUint64(ctx, types.CheckpointKey, 1)
		return req.Stage, nil
	}
	prev, next, err := k.advanceCheckpoint(ctx)
	if err != nil {
		return 0, err
	}
	if next != prev {
		k.metrics.CheckpointAdvances.Inc()
		k.Logger(ctx).Debug("checkpoint advanced", "from", prev, "to", next)
	}
	return req.Stage, nil
}

// CreateRequest admits a new data request from msg.Sender: it resolves the
// service through the provider bridge, enforces the threshold bound and the
// pending-window cap, escrows the attached funds and appends the stage.
func (k Keeper) CreateRequest(ctx context.Context, msg *types.MsgCreateRequest) (uint64, error) {
	sender, err := sdk.AccAddressFromBech32(msg.Sender)
	if err != nil {
		return 0, types.ErrInvalidRequest.Wrapf("invalid sender address: %s", err)
	}
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return 0, err
	}

	contracts, err := k.bridge.ResolveServiceContracts(ctx, msg.Service)
	if err != nil {
		return 0, types.ErrNotFound.Wrapf("service %q: %s", msg.Service, err)
	}
	if len(contracts.DataSources) == 0 && contracts.OScript == "" {
		return 0, types.ErrServiceContractsMissing.Wrapf("service %q", msg.Service)
	}
	fees, err := k.bridge.GetServiceFees(ctx, msg.Service)
	if err != nil {
		return 0, types.ErrNotFound.Wrapf("fees of service %q: %s", msg.Service, err)
	}
	rewards := types.RewardsFromServiceFees(fees)

	nonce := k.GetExecutorNonce(ctx)
	executorCount := k.GetExecutorCount(ctx, nonce)
	maxThreshold := 2 * executorCount / 3
	if msg.Threshold == 0 || msg.Threshold > maxThreshold {
		return 0, types.ErrInvalidThreshold.Wrapf(
			"threshold %d outside [1, %d] for %d executors", msg.Threshold, maxThreshold, executorCount)
	}

	pending := k.PendingStages(ctx)
	if cfg.MaxReqThreshold > 0 && pending+1 > cfg.MaxReqThreshold {
		return 0, types.ErrTooManyPendingRequests.Wrapf(
			"%d stages pending, cap is %d", pending, cfg.MaxReqThreshold)
	}

	rewardFunds, err := types.SplitContractFee(msg.Funds, cfg.ContractFee)
	if err != nil {
		return 0, err
	}
	if err := types.ValidateRequestFees(rewardFunds, rewards, msg.Threshold); err != nil {
		return 0, err
	}
	if err := k.escrowRequestFunds(ctx, sender, msg.Funds, cfg.ContractFee); err != nil {
		return 0, err
	}

	stage, err := k.appendRequest(ctx, types.Request{
		Threshold:      msg.Threshold,
		Service:        msg.Service,
		Input:          msg.Input,
		Rewards:        rewards,
		ExecutorsNonce: nonce,
		Requester:      msg.Sender,
		Escrow:         rewardFunds,
	})
	if err != nil {
		return 0, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCreateRequest,
			sdk.NewAttribute(types.AttributeKeyStage, strconv.FormatUint(stage, 10)),
			sdk.NewAttribute(types.AttributeKeyService, msg.Service),
			sdk.NewAttribute(types.AttributeKeyThreshold, strconv.FormatUint(msg.Threshold, 10)),
			sdk.NewAttribute(types.AttributeKeyRequester, msg.Sender),
			sdk.NewAttribute(types.AttributeKeyFunds, msg.Funds.String()),
		),
	)

	pending++
	if pending > cfg.CheckpointThreshold {
		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeCheckpointLagging,
				sdk.NewAttribute(types.AttributeKeyCheckpoint, strconv.FormatUint(k.GetCheckpoint(ctx), 10)),
				sdk.NewAttribute(types.AttributeKeyLatestStage, strconv.FormatUint(stage, 10)),
				sdk.NewAttribute(types.AttributeKeyPending, strconv.FormatUint(pending, 10)),
			),
		)
		k.metrics.CheckpointLagging.Inc()
		k.Logger(ctx).Debug("checkpoint lagging", "pending", pending, "threshold", cfg.CheckpointThreshold)
	}

	k.metrics.RequestsCreated.WithLabelValues(msg.Service).Inc()
	k.metrics.LatestStage.Set(float64(stage))
	k.metrics.PendingStages.Set(float64(pending))
	k.Logger(ctx).Info("request created",
		"stage", stage,
		"service", msg.Service,
		"threshold", msg.Threshold,
		"executors_nonce", nonce,
	)
	return stage, nil
}

// GetServiceContracts resolves the contracts behind the service of stage.
func (k Keeper) GetServiceContracts(ctx context.Context, stage uint64) (types.ServiceContracts, error) {
	req, err := k.GetRequest(ctx, stage)
	if err != nil {
		return types.ServiceContracts{}, err
	}
	contracts, err := k.bridge.ResolveServiceContracts(ctx, req.Service)
	if err != nil {
		return types.ServiceContracts{}, types.ErrNotFound.Wrapf("service %q: %s", req.Service, err)
	}
	return contracts, nil
}

// GetServiceFees returns the reward schedule the bridge quotes for service.
func (k Keeper) GetServiceFees(ctx context.Context, service string) ([]types.Reward, error) {
	fees, err := k.bridge.GetServiceFees(ctx, service)
	if err != nil {
		return nil, types.ErrNotFound.Wrapf("fees of service %q: %s", service, err)
	}
	return types.RewardsFromServiceFees(fees), nil
}

// IterateRequests walks the ledger in stage order.
func (k Keeper) IterateRequests(ctx context.Context, cb func(req types.Request) (stop bool)) error {
	latest := k.GetLatestStage(ctx)
	for stage := uint64(1); stage <= latest; stage++ {
		req, err := k.GetRequest(ctx, stage)
		if err != nil {
			return err
		}
		if cb(req) {
			break
		}
	}
	return nil
}
