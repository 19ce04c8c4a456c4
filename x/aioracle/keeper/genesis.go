package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/aioracle/x/aioracle/types"
)

// InitGenesis initializes the coordinator state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, data types.GenesisState) error {
	if err := data.Validate(); err != nil {
		return fmt.Errorf("invalid genesis: %w", err)
	}

	if err := k.SetConfig(ctx, data.Config); err != nil {
		return fmt.Errorf("failed to set config: %w", err)
	}

	// Registry versions
	for _, set := range data.ExecutorSets {
		if err := k.setExecutorSet(ctx, set.Nonce, set.Executors); err != nil {
			return fmt.Errorf("failed to set executor set %d: %w", set.Nonce, err)
		}
	}
	k.setUint64(ctx, types.ExecutorNonceKey, uint64(len(data.ExecutorSets)))

	// Ledger and indexes
	for _, req := range data.Requests {
		if err := k.setRequest(ctx, req); err != nil {
			return fmt.Errorf("failed to set request %d: %w", req.Stage, err)
		}
		k.indexRequestByService(ctx, req.Service, req.Stage)
		k.indexRequestByExecutorNonce(ctx, req.ExecutorsNonce, req.Stage)
		if req.IsResolved() {
			k.indexRequestByMerkleRoot(ctx, req.MerkleRoot, req.Stage)
		}
	}
	k.setUint64(ctx, types.LatestStageKey, uint64(len(data.Requests)))
	k.setUint64(ctx, types.CheckpointKey, data.Checkpoint)

	for _, claim := range data.Claims {
		k.setClaimed(ctx, claim.Executor, claim.Stage)
	}
	for _, fee := range data.ProtocolFees {
		if err := k.setProtocolFees(ctx, fee.Denom, fee.Amount); err != nil {
			return fmt.Errorf("failed to set protocol fees %s: %w", fee.Denom, err)
		}
	}

	sets := len(data.ExecutorSets)
	k.metrics.ExecutorCount.Set(float64(len(data.ExecutorSets[sets-1].Executors)))
	k.metrics.LatestStage.Set(float64(len(data.Requests)))
	k.metrics.Checkpoint.Set(float64(data.Checkpoint))

	k.Logger(ctx).Info("AI oracle genesis initialized",
		"owner", data.Config.Owner,
		"executor_sets", sets,
		"requests", len(data.Requests),
	)
	return nil
}

// ExportGenesis exports the coordinator state to a genesis state
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	requests := []types.Request{}
	if err := k.IterateRequests(ctx, func(req types.Request) bool {
		requests = append(requests, req)
		return false
	}); err != nil {
		return nil, fmt.Errorf("failed to get requests: %w", err)
	}

	claims := []types.ClaimRecord{}
	k.IterateClaims(ctx, func(claim types.ClaimRecord) bool {
		claims = append(claims, claim)
		return false
	})

	fees, err := k.GetAllProtocolFees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get protocol fees: %w", err)
	}
	if fees == nil {
		fees = sdk.NewCoins()
	}

	return &types.GenesisState{
		Config:       cfg,
		ExecutorSets: k.GetExecutorSets(ctx),
		Requests:     requests,
		Checkpoint:   k.GetCheckpoint(ctx),
		Claims:       claims,
		ProtocolFees: fees,
	}, nil
}
