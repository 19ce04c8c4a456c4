package types

import (
	"sort"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RequiredRewardFunds groups rewards by denom, sums each group and scales the
// sum by threshold: every one of the threshold executors is paid the full
// schedule. The result is sorted and contains only positive amounts.
func RequiredRewardFunds(rewards []Reward, threshold uint64) (sdk.Coins, error) {
	totals := make(map[string]sdkmath.Int)
	for _, r := range rewards {
		if r.Amount.IsNil() {
			continue
		}
		if r.Amount.IsNegative() {
			return nil, ErrInvalidRequest.Wrapf("negative reward amount for denom %s", r.Denom)
		}
		sum, ok := totals[r.Denom]
		if !ok {
			sum = sdkmath.ZeroInt()
		}
		next, err := sum.SafeAdd(r.Amount)
		if err != nil {
			return nil, ErrAmountOverflow.Wrapf("summing rewards for %s: %s", r.Denom, err)
		}
		totals[r.Denom] = next
	}

	denoms := make([]string, 0, len(totals))
	for denom := range totals {
		denoms = append(denoms, denom)
	}
	sort.Strings(denoms)

	scale := sdkmath.NewIntFromUint64(threshold)
	required := make(sdk.Coins, 0, len(denoms))
	for _, denom := range denoms {
		amount, err := totals[denom].SafeMul(scale)
		if err != nil {
			return nil, ErrAmountOverflow.Wrapf("scaling rewards for %s by %d: %s", denom, threshold, err)
		}
		if amount.IsPositive() {
			required = append(required, sdk.Coin{Denom: denom, Amount: amount})
		}
	}
	return required, nil
}

// VerifyRequestFees reports whether sentFunds covers rewards x threshold for
// every denom with a positive requirement. Denoms absent from rewards are
// ignored and an empty schedule is always covered.
func VerifyRequestFees(sentFunds sdk.Coins, rewards []Reward, threshold uint64) bool {
	return ValidateRequestFees(sentFunds, rewards, threshold) == nil
}

// ValidateRequestFees is VerifyRequestFees with the reason for a shortfall:
// ErrInvalidDenomAmount when a denom is missing, ErrInsufficientFunds when it
// is present but too small.
func ValidateRequestFees(sentFunds sdk.Coins, rewards []Reward, threshold uint64) error {
	required, err := RequiredRewardFunds(rewards, threshold)
	if err != nil {
		return err
	}
	return CoverFunds(sentFunds, required)
}

// CoverFunds checks that sent holds at least every coin in required.
func CoverFunds(sent sdk.Coins, required sdk.Coins) error {
	for _, need := range required {
		found, have := sent.Find(need.Denom)
		if !found {
			return ErrInvalidDenomAmount.Wrapf("missing %s, required %s", need.Denom, need)
		}
		if have.Amount.LT(need.Amount) {
			return ErrInsufficientFunds.Wrapf("sent %s, required %s", have, need)
		}
	}
	return nil
}

// SplitContractFee removes the contract fee from sent and returns the rest,
// which must then cover the reward schedule.
func SplitContractFee(sent sdk.Coins, fee sdk.Coin) (sdk.Coins, error) {
	if fee.Amount.IsNil() || fee.IsZero() {
		return sent, nil
	}
	if err := CoverFunds(sent, sdk.NewCoins(fee)); err != nil {
		return nil, err
	}
	return sent.Sub(fee), nil
}
