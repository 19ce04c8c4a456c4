package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/core/store"
	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/paw-chain/aioracle/x/aioracle/types"
	sharedkeeper "github.com/paw-chain/aioracle/x/shared/keeper"
)

// Keeper maintains the state of the AI oracle coordinator
type Keeper struct {
	cdc          *codec.LegacyAmino
	storeService store.KVStoreService
	bankKeeper   types.BankKeeper
	bridge       types.ProviderBridge

	metrics *AIOracleMetrics
}

var (
	_ sharedkeeper.AIOracleKeeperV1         = Keeper{}
	_ sharedkeeper.AIOracleKeeperV1Extended = Keeper{}
)

// NewKeeper creates a new AI oracle Keeper instance
func NewKeeper(
	cdc *codec.LegacyAmino,
	storeService store.KVStoreService,
	bankKeeper types.BankKeeper,
	bridge types.ProviderBridge,
) *Keeper {
	return &Keeper{
		cdc:          cdc,
		storeService: storeService,
		bankKeeper:   bankKeeper,
		bridge:       bridge,
		metrics:      NewAIOracleMetrics(),
	}
}

// Logger returns a module-specific logger
func (k Keeper) Logger(ctx context.Context) log.Logger {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// getStore returns the KVStore for the aioracle module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	return runtime.KVStoreAdapter(k.storeService.OpenKVStore(ctx))
}

// GetModuleAddress returns the account that escrows request funds
func (k Keeper) GetModuleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(types.ModuleName)
}

// ProviderBridge returns the configured provider bridge
func (k Keeper) ProviderBridge() types.ProviderBridge {
	return k.bridge
}

func (k Keeper) getUint64(ctx context.Context, key []byte) uint64 {
	return types.BytesToUint64(k.getStore(ctx).Get(key))
}

func (k Keeper) setUint64(ctx context.Context, key []byte, v uint64) {
	k.getStore(ctx).Set(key, types.Uint64ToBytes(v))
}
