package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	sharedkeeper "github.com/paw-chain/aioracle/x/shared/keeper"
)

// BankKeeper defines the bank methods the settlement engine needs. Transfers
// run inside the same transition as the state change they settle.
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	GetAllBalances(ctx context.Context, addr sdk.AccAddress) sdk.Coins
}

// ProviderBridge resolves which contracts back a service and what it costs.
type ProviderBridge = sharedkeeper.ProviderBridgeV1

// ServiceContracts is what the provider bridge resolves for a service.
type ServiceContracts = sharedkeeper.ServiceContracts
