package keeper

import (
	"context"
	"fmt"
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/aioracle/x/aioracle/types"
	sharedkeeper "github.com/paw-chain/aioracle/x/shared/keeper"
)

// GetConfig returns the singleton config
func (k Keeper) GetConfig(ctx context.Context) (types.Config, error) {
	bz := k.getStore(ctx).Get(types.ConfigKey)
	if bz == nil {
		return types.Config{}, types.ErrNotFound.Wrap("config not initialized")
	}

	var cfg types.Config
	if err := k.cdc.Unmarshal(bz, &cfg); err != nil {
		return types.Config{}, types.ErrStateCorruption.Wrapf("decode config: %s", err)
	}
	return cfg, nil
}

// SetConfig validates and stores the config
func (k Keeper) SetConfig(ctx context.Context, cfg types.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	bz, err := k.cdc.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	k.getStore(ctx).Set(types.ConfigKey, bz)
	return nil
}

// assertOwner returns ErrUnauthorized unless sender is the configured owner.
func (k Keeper) assertOwner(ctx context.Context, sender string) (types.Config, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return types.Config{}, err
	}
	if err := sharedkeeper.ValidateOwner(cfg.Owner, sender); err != nil {
		return types.Config{}, types.ErrUnauthorized.Wrap(err.Error())
	}
	return cfg, nil
}

// UpdateConfig applies a partial config update on behalf of the owner. Unset
// fields keep their value. Rotating executors writes a new registry version
// and leaves earlier versions untouched.
func (k Keeper) UpdateConfig(ctx context.Context, msg *types.MsgUpdateConfig) error {
	cfg, err := k.assertOwner(ctx, msg.Sender)
	if err != nil {
		return err
	}

	if msg.NewOwner != "" {
		cfg.Owner = msg.NewOwner
	}
	if msg.NewServiceAddr != "" {
		cfg.ServiceAddr = msg.NewServiceAddr
	}
	if msg.NewContractFee != nil {
		cfg.ContractFee = *msg.NewContractFee
	}
	if msg.NewCheckpoint != nil {
		cfg.CheckpointThreshold = *msg.NewCheckpoint
	}
	if msg.NewMaxReqThreshold != nil {
		cfg.MaxReqThreshold = *msg.NewMaxReqThreshold
	}
	if err := k.SetConfig(ctx, cfg); err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if msg.ReplacesExecutors() {
		nonce, err := k.RotateExecutors(ctx, msg.NewExecutors)
		if err != nil {
			return err
		}
		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeExecutorsRotated,
				sdk.NewAttribute(types.AttributeKeyNonce, strconv.FormatUint(nonce, 10)),
				sdk.NewAttribute(types.AttributeKeyExecutorCount, strconv.Itoa(len(msg.NewExecutors))),
			),
		)
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeUpdateConfig,
			sdk.NewAttribute(types.AttributeKeyOwner, cfg.Owner),
		),
	)

	k.Logger(ctx).Info("config updated",
		"owner", cfg.Owner,
		"service_addr", cfg.ServiceAddr,
		"contract_fee", cfg.ContractFee.String(),
		"checkpoint_threshold", cfg.CheckpointThreshold,
		"max_req_threshold", cfg.MaxReqThreshold,
	)
	return nil
}
