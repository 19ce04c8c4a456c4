package keeper

// This file exports private keeper methods for testing purposes.

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/aioracle/x/aioracle/types"
)

// Exported for testing: overwrite the checkpoint watermark
func (k Keeper) SetCheckpointUnsafe(ctx context.Context, cp uint64) {
	k.setUint64(ctx, types.CheckpointKey, cp)
}

// Exported for testing: drop a service index entry
func (k Keeper) DeleteServiceIndexUnsafe(ctx context.Context, service string, stage uint64) {
	k.getStore(ctx).Delete(types.GetRequestByServiceKey(service, stage))
}

// Exported for testing: overwrite an executor set count
func (k Keeper) SetExecutorCountUnsafe(ctx context.Context, nonce, count uint64) {
	k.setUint64(ctx, types.GetExecutorCountKey(nonce), count)
}

// Exported for testing: credit the protocol fee pool without escrow
func (k Keeper) SetProtocolFeesUnsafe(ctx context.Context, denom string, amount int64) error {
	return k.setProtocolFees(ctx, denom, sdkmath.NewInt(amount))
}

// Exported for testing: overwrite a stored request with raw bytes
func (k Keeper) SetRawRequestUnsafe(ctx context.Context, stage uint64, bz []byte) {
	k.getStore(ctx).Set(types.GetRequestKey(stage), bz)
}

// Exported for testing: overwrite the remaining escrow of a stage
func (k Keeper) SetRequestEscrowUnsafe(ctx context.Context, stage uint64, escrow sdk.Coins) error {
	req, err := k.GetRequest(ctx, stage)
	if err != nil {
		return err
	}
	req.Escrow = escrow
	return k.setRequest(ctx, req)
}

// Exported for testing: payout grouping
func BuildPayouts(rewards []types.Reward) ([]types.Payout, error) {
	return buildPayouts(rewards)
}
