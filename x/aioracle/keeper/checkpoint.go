package keeper

import (
	"context"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/aioracle/x/aioracle/types"
)

// PendingStages counts the stages from the checkpoint to the ledger head that
// the watermark does not yet cover. The checkpoint stage itself only counts
// while it is unresolved.
func (k Keeper) PendingStages(ctx context.Context) uint64 {
	latest := k.GetLatestStage(ctx)
	cp := k.GetCheckpoint(ctx)
	if latest == 0 || cp == 0 {
		return 0
	}
	pending := latest - cp
	if req, err := k.GetRequest(ctx, cp); err == nil && !req.IsResolved() {
		pending++
	}
	return pending
}

// RegisterMerkleRoot resolves stage with root on behalf of the owner and
// advances the checkpoint. It returns the checkpoint after the advance.
func (k Keeper) RegisterMerkleRoot(ctx context.Context, sender string, stage uint64, root string) (uint64, error) {
	if _, err := k.assertOwner(ctx, sender); err != nil {
		return 0, err
	}
	normalized, err := types.NormalizeMerkleRoot(root)
	if err != nil {
		return 0, err
	}
	req, err := k.GetRequest(ctx, stage)
	if err != nil {
		return 0, err
	}
	if req.IsResolved() {
		return 0, types.ErrAlreadyResolved.Wrapf("stage %d has root %s", stage, req.MerkleRoot)
	}

	req.MerkleRoot = normalized
	if err := k.setRequest(ctx, req); err != nil {
		return 0, err
	}
	k.indexRequestByMerkleRoot(ctx, normalized, stage)

	prev, checkpoint, err := k.advanceCheckpoint(ctx)
	if err != nil {
		return 0, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRegisterMerkleRoot,
			sdk.NewAttribute(types.AttributeKeyStage, strconv.FormatUint(stage, 10)),
			sdk.NewAttribute(types.AttributeKeyMerkleRoot, normalized),
			sdk.NewAttribute(types.AttributeKeyCheckpoint, strconv.FormatUint(checkpoint, 10)),
		),
	)
	if checkpoint != prev {
		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeCheckpointAdvanced,
				sdk.NewAttribute(types.AttributeKeyPrevCheckpoint, strconv.FormatUint(prev, 10)),
				sdk.NewAttribute(types.AttributeKeyCheckpoint, strconv.FormatUint(checkpoint, 10)),
			),
		)
		k.metrics.CheckpointAdvances.Inc()
		k.Logger(ctx).Debug("checkpoint advanced", "from", prev, "to", checkpoint)
	}

	k.metrics.RootsRegistered.Inc()
	k.metrics.Checkpoint.Set(float64(checkpoint))
	k.metrics.PendingStages.Set(float64(k.PendingStages(ctx)))
	k.Logger(ctx).Info("merkle root registered", "stage", stage, "root", normalized, "checkpoint", checkpoint)
	return checkpoint, nil
}

// advanceCheckpoint moves the watermark across every resolved stage that has
// a successor. It never passes an unresolved stage and rests on the ledger
// head once everything is resolved.
func (k Keeper) advanceCheckpoint(ctx context.Context) (prev, next uint64, err error) {
	prev = k.GetCheckpoint(ctx)
	cp := prev
	for {
		req, err := k.GetRequest(ctx, cp)
		if err != nil {
			return 0, 0, err
		}
		if !req.IsResolved() || !k.HasRequest(ctx, cp+1) {
			break
		}
		cp++
	}
	if cp != prev {
		k.setUint64(ctx, types.CheckpointKey, cp)
	}
	return prev, cp, nil
}
