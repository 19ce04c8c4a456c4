package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// DefaultCheckpointThreshold is the pending window above which a
	// checkpoint_lagging event is emitted.
	DefaultCheckpointThreshold uint64 = 5

	// DefaultMaxReqThreshold caps the number of unresolved stages ahead of the
	// checkpoint. Zero disables the cap.
	DefaultMaxReqThreshold uint64 = 1000

	// DefaultFeeDenom is the denom used by DefaultConfig for the contract fee.
	DefaultFeeDenom = "orai"
)

// Config is the singleton configuration of the coordinator.
type Config struct {
	Owner               string   `json:"owner"`
	ServiceAddr         string   `json:"service_addr"`
	ContractFee         sdk.Coin `json:"contract_fee"`
	CheckpointThreshold uint64   `json:"checkpoint_threshold"`
	MaxReqThreshold     uint64   `json:"max_req_threshold"`
}

// DefaultConfig returns a config with no owner; genesis must set one.
func DefaultConfig() Config {
	return Config{
		ContractFee:         sdk.NewCoin(DefaultFeeDenom, sdkmath.ZeroInt()),
		CheckpointThreshold: DefaultCheckpointThreshold,
		MaxReqThreshold:     DefaultMaxReqThreshold,
	}
}

// Validate checks the addresses and the fee coin.
func (c Config) Validate() error {
	if _, err := sdk.AccAddressFromBech32(c.Owner); err != nil {
		return ErrInvalidConfig.Wrapf("invalid owner address: %s", err)
	}
	if _, err := sdk.AccAddressFromBech32(c.ServiceAddr); err != nil {
		return ErrInvalidConfig.Wrapf("invalid service address: %s", err)
	}
	if err := ValidateFee(c.ContractFee); err != nil {
		return err
	}
	return nil
}

// ValidateFee accepts a zero fee but requires a valid denom.
func ValidateFee(fee sdk.Coin) error {
	if err := sdk.ValidateDenom(fee.Denom); err != nil {
		return ErrInvalidConfig.Wrapf("invalid contract fee denom: %s", err)
	}
	if fee.Amount.IsNil() || fee.Amount.IsNegative() {
		return ErrInvalidConfig.Wrap("contract fee amount must be non-negative")
	}
	return nil
}

// String implements fmt.Stringer.
func (c Config) String() string {
	return fmt.Sprintf("owner=%s service_addr=%s contract_fee=%s checkpoint_threshold=%d max_req_threshold=%d",
		c.Owner, c.ServiceAddr, c.ContractFee, c.CheckpointThreshold, c.MaxReqThreshold)
}
