// Package keeper provides shared keeper interfaces and utilities for cross-module communication.
package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// ValidateOwner checks that sender is the configured owner. Addresses are
// compared as decoded bytes.
// An unset owner never matches.
//
// Usage example:
//
//	if err := keeper.ValidateOwner(cfg.Owner, msg.Sender); err != nil {
//	    return nil, err
//	}
func ValidateOwner(owner, sender string) error {
	if owner == "" {
		return sdkerrors.ErrUnauthorized.Wrap("no owner configured")
	}
	ownerAddr, err := sdk.AccAddressFromBech32(owner)
	if err != nil {
		return sdkerrors.ErrUnauthorized.Wrapf("invalid owner address: %s", err)
	}
	senderAddr, err := sdk.AccAddressFromBech32(sender)
	if err != nil {
		return sdkerrors.ErrUnauthorized.Wrapf("invalid sender address: %s", err)
	}
	if !ownerAddr.Equals(senderAddr) {
		return sdkerrors.ErrUnauthorized.Wrapf(
			"invalid owner; expected %s, got %s",
			owner,
			sender,
		)
	}
	return nil
}
