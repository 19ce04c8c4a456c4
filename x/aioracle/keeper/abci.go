package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/aioracle/x/aioracle/types"
	"github.com/paw-chain/aioracle/x/shared/abci"
)

// EndBlocker refreshes the ledger gauges and reports a pending window that
// has reached the admission cap. It never returns an error.
func (k Keeper) EndBlocker(ctx context.Context) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	reporter := abci.NewReporter(types.ModuleName)

	cfg, err := k.GetConfig(ctx)
	if reporter.Check(sdkCtx, "load_config", abci.SeverityCritical, err) {
		return nil
	}

	pending := k.PendingStages(ctx)
	k.metrics.LatestStage.Set(float64(k.GetLatestStage(ctx)))
	k.metrics.Checkpoint.Set(float64(k.GetCheckpoint(ctx)))
	k.metrics.PendingStages.Set(float64(pending))
	k.metrics.ExecutorCount.Set(float64(k.GetExecutorCount(ctx, k.GetExecutorNonce(ctx))))

	switch {
	case cfg.MaxReqThreshold > 0 && pending >= cfg.MaxReqThreshold:
		reporter.Report(sdkCtx, "pending_window", abci.SeverityHigh,
			types.ErrTooManyPendingRequests.Wrapf("%d stages pending, cap is %d", pending, cfg.MaxReqThreshold))
	case pending > cfg.CheckpointThreshold:
		reporter.Report(sdkCtx, "pending_window", abci.SeverityLow,
			types.ErrTooManyPendingRequests.Wrapf("%d stages pending, checkpoint threshold is %d", pending, cfg.CheckpointThreshold))
	}
	return nil
}
