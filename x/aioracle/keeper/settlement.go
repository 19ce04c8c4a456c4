package keeper

import (
	"context"
	"encoding/hex"
	"strconv"

	sdkmath "cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/aioracle/x/aioracle/types"
)

var claimFlag = []byte{0x01}

// escrowRequestFunds moves the attached funds into the module account and
// credits the contract fee to the protocol fee pool. The remainder stays in
// escrow for reward claims.
func (k Keeper) escrowRequestFunds(ctx context.Context, sender sdk.AccAddress, funds sdk.Coins, fee sdk.Coin) error {
	if funds.IsZero() {
		return nil
	}
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, sender, types.ModuleName, funds); err != nil {
		return types.ErrInsufficientFunds.Wrapf("escrow %s from %s: %s", funds, sender, err)
	}
	if fee.Amount.IsNil() || !fee.IsPositive() {
		return nil
	}
	if err := k.addProtocolFee(ctx, fee); err != nil {
		return err
	}
	k.metrics.ContractFeesPaid.WithLabelValues(fee.Denom).Inc()
	return nil
}

// GetProtocolFees returns the accumulated contract fees of denom.
func (k Keeper) GetProtocolFees(ctx context.Context, denom string) (sdkmath.Int, error) {
	bz := k.getStore(ctx).Get(types.GetProtocolFeeKey(denom))
	if bz == nil {
		return sdkmath.ZeroInt(), nil
	}
	var amount sdkmath.Int
	if err := amount.Unmarshal(bz); err != nil {
		return sdkmath.Int{}, types.ErrStateCorruption.Wrapf("decode protocol fee %s: %s", denom, err)
	}
	return amount, nil
}

// GetAllProtocolFees returns the whole protocol fee pool.
func (k Keeper) GetAllProtocolFees(ctx context.Context) (sdk.Coins, error) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.ProtocolFeeKeyPrefix)
	defer iterator.Close()

	coins := sdk.NewCoins()
	for ; iterator.Valid(); iterator.Next() {
		denom := string(iterator.Key()[len(types.ProtocolFeeKeyPrefix):])
		var amount sdkmath.Int
		if err := amount.Unmarshal(iterator.Value()); err != nil {
			return nil, types.ErrStateCorruption.Wrapf("decode protocol fee %s: %s", denom, err)
		}
		coins = coins.Add(sdk.NewCoin(denom, amount))
	}
	return coins, nil
}

func (k Keeper) setProtocolFees(ctx context.Context, denom string, amount sdkmath.Int) error {
	store := k.getStore(ctx)
	if amount.IsZero() {
		store.Delete(types.GetProtocolFeeKey(denom))
		return nil
	}
	bz, err := amount.Marshal()
	if err != nil {
		return types.ErrStateCorruption.Wrapf("encode protocol fee %s: %s", denom, err)
	}
	store.Set(types.GetProtocolFeeKey(denom), bz)
	return nil
}

func (k Keeper) addProtocolFee(ctx context.Context, fee sdk.Coin) error {
	current, err := k.GetProtocolFees(ctx, fee.Denom)
	if err != nil {
		return err
	}
	next, err := current.SafeAdd(fee.Amount)
	if err != nil {
		return types.ErrAmountOverflow.Wrapf("protocol fee pool %s: %s", fee.Denom, err)
	}
	return k.setProtocolFees(ctx, fee.Denom, next)
}

// IsClaimed reports whether the report of executor on stage was settled.
func (k Keeper) IsClaimed(ctx context.Context, executor []byte, stage uint64) bool {
	return k.getStore(ctx).Has(types.GetClaimKey(executor, stage))
}

func (k Keeper) setClaimed(ctx context.Context, executor []byte, stage uint64) {
	k.getStore(ctx).Set(types.GetClaimKey(executor, stage), claimFlag)
}

// IterateClaims walks every consumed claim.
func (k Keeper) IterateClaims(ctx context.Context, cb func(claim types.ClaimRecord) (stop bool)) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.ClaimKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		key := iterator.Key()[len(types.ClaimKeyPrefix):]
		n := int(key[0])
		claim := types.ClaimRecord{
			Executor: append([]byte(nil), key[1:1+n]...),
			Stage:    types.BytesToUint64(key[1+n:]),
		}
		if cb(claim) {
			break
		}
	}
}

// decodeReport parses a committed report leaf.
func (k Keeper) decodeReport(bz []byte) (types.Report, error) {
	var report types.Report
	if err := k.cdc.UnmarshalJSON(bz, &report); err != nil {
		return types.Report{}, types.ErrInvalidReport.Wrapf("decode report: %s", err)
	}
	if err := report.Validate(); err != nil {
		return types.Report{}, err
	}
	return report, nil
}

// buildPayouts groups rewards by recipient in first-seen order and sums each
// denom with overflow checks.
func buildPayouts(rewards []types.Reward) ([]types.Payout, error) {
	order := make([]string, 0)
	totals := make(map[string]map[string]sdkmath.Int)
	for _, r := range rewards {
		byDenom, seen := totals[r.Recipient]
		if !seen {
			order = append(order, r.Recipient)
			byDenom = make(map[string]sdkmath.Int)
			totals[r.Recipient] = byDenom
		}
		sum, ok := byDenom[r.Denom]
		if !ok {
			sum = sdkmath.ZeroInt()
		}
		next, err := sum.SafeAdd(r.Amount)
		if err != nil {
			return nil, types.ErrAmountOverflow.Wrapf("payout of %s to %s: %s", r.Denom, r.Recipient, err)
		}
		byDenom[r.Denom] = next
	}

	payouts := make([]types.Payout, 0, len(order))
	for _, recipient := range order {
		coins := make(sdk.Coins, 0, len(totals[recipient]))
		for denom, amount := range totals[recipient] {
			coins = append(coins, sdk.NewCoin(denom, amount))
		}
		payouts = append(payouts, types.Payout{Recipient: recipient, Amount: sdk.NewCoins(coins...)})
	}
	return payouts, nil
}

// ClaimReward settles one committed report of stage on behalf of claimant.
// The report must fold to the registered root through proof and its executor
// must belong to the registry version the request was created under. Each
// (executor, stage) pair settles once no matter who submits it, and the
// payouts of a stage never exceed its remaining escrow.
func (k Keeper) ClaimReward(ctx context.Context, claimant string, stage uint64, report []byte, proof []string) ([]types.Payout, error) {
	req, err := k.GetRequest(ctx, stage)
	if err != nil {
		return nil, err
	}
	if !req.IsResolved() {
		return nil, types.ErrNoMerkleRoot.Wrapf("stage %d", stage)
	}
	verified, err := k.verifyLeaf(req, report, proof)
	if err != nil {
		return nil, err
	}
	if !verified {
		k.metrics.ProofFailures.Inc()
		return nil, types.ErrProofVerificationFailed.Wrapf("stage %d root %s", stage, req.MerkleRoot)
	}

	decoded, err := k.decodeReport(report)
	if err != nil {
		return nil, err
	}
	if !k.IsExecutor(ctx, req.ExecutorsNonce, decoded.Executor) {
		return nil, types.ErrUnauthorized.Wrapf(
			"executor %X is not in executor set %d", decoded.Executor, req.ExecutorsNonce)
	}
	if k.IsClaimed(ctx, decoded.Executor, stage) {
		return nil, types.ErrAlreadyClaimed.Wrapf("report of %X on stage %d", decoded.Executor, stage)
	}

	payouts, err := buildPayouts(decoded.Rewards)
	if err != nil {
		return nil, err
	}
	total := sdk.NewCoins()
	for _, p := range payouts {
		total = total.Add(p.Amount...)
	}
	if !req.Escrow.IsAllGTE(total) {
		return nil, types.ErrInsufficientFunds.Wrapf("stage %d escrow %s cannot cover %s", stage, req.Escrow, total)
	}
	req.Escrow = req.Escrow.Sub(total...)
	if err := k.setRequest(ctx, req); err != nil {
		return nil, err
	}

	k.setClaimed(ctx, decoded.Executor, stage)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	for _, p := range payouts {
		recipient, err := sdk.AccAddressFromBech32(p.Recipient)
		if err != nil {
			return nil, types.ErrInvalidReport.Wrapf("invalid recipient %q: %s", p.Recipient, err)
		}
		if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, recipient, p.Amount); err != nil {
			return nil, types.ErrInsufficientFunds.Wrapf("pay %s to %s: %s", p.Amount, p.Recipient, err)
		}
		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypePayout,
				sdk.NewAttribute(types.AttributeKeyStage, strconv.FormatUint(stage, 10)),
				sdk.NewAttribute(types.AttributeKeyRecipient, p.Recipient),
				sdk.NewAttribute(types.AttributeKeyAmount, p.Amount.String()),
			),
		)
		for _, c := range p.Amount {
			k.metrics.PayoutsTotal.WithLabelValues(c.Denom).Inc()
		}
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeClaimReward,
			sdk.NewAttribute(types.AttributeKeyStage, strconv.FormatUint(stage, 10)),
			sdk.NewAttribute(types.AttributeKeyClaimant, claimant),
			sdk.NewAttribute(types.AttributeKeyExecutor, hex.EncodeToString(decoded.Executor)),
		),
	)
	k.metrics.ClaimsSettled.Inc()
	k.Logger(ctx).Info("reward claimed", "stage", stage, "claimant", claimant, "payouts", len(payouts))
	return payouts, nil
}

// WithdrawFunds pays amount of denom from the protocol fee pool to the owner.
// Reward escrow is never touched.
func (k Keeper) WithdrawFunds(ctx context.Context, sender, denom string, amount sdkmath.Int) error {
	cfg, err := k.assertOwner(ctx, sender)
	if err != nil {
		return err
	}
	available, err := k.GetProtocolFees(ctx, denom)
	if err != nil {
		return err
	}
	if amount.GT(available) {
		return types.ErrInsufficientFunds.Wrapf("requested %s%s, protocol fees hold %s%s", amount, denom, available, denom)
	}
	if err := k.setProtocolFees(ctx, denom, available.Sub(amount)); err != nil {
		return err
	}

	owner, err := sdk.AccAddressFromBech32(cfg.Owner)
	if err != nil {
		return types.ErrInvalidConfig.Wrapf("owner address: %s", err)
	}
	coins := sdk.NewCoins(sdk.NewCoin(denom, amount))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, owner, coins); err != nil {
		return types.ErrInsufficientFunds.Wrapf("withdraw %s: %s", coins, err)
	}

	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeWithdrawFunds,
			sdk.NewAttribute(types.AttributeKeyOwner, cfg.Owner),
			sdk.NewAttribute(types.AttributeKeyAmount, coins.String()),
		),
	)
	k.metrics.FundsWithdrawn.WithLabelValues(denom).Inc()
	k.Logger(ctx).Info("protocol fees withdrawn", "owner", cfg.Owner, "amount", coins.String())
	return nil
}
