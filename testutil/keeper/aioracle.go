package keeper

import (
	"context"
	"fmt"
	"testing"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdkstd "github.com/cosmos/cosmos-sdk/std"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktestutil "github.com/cosmos/cosmos-sdk/x/bank/testutil"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	minttypes "github.com/cosmos/cosmos-sdk/x/mint/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/aioracle/x/aioracle/keeper"
	"github.com/paw-chain/aioracle/x/aioracle/types"
	sharedkeeper "github.com/paw-chain/aioracle/x/shared/keeper"
)

// MockProviderBridge is an in-memory provider bridge. Unknown services fail
// to resolve.
type MockProviderBridge struct {
	contracts map[string]types.ServiceContracts
	fees      map[string][]sharedkeeper.ServiceFee
}

var _ types.ProviderBridge = (*MockProviderBridge)(nil)

// NewMockProviderBridge returns a bridge with no services.
func NewMockProviderBridge() *MockProviderBridge {
	return &MockProviderBridge{
		contracts: make(map[string]types.ServiceContracts),
		fees:      make(map[string][]sharedkeeper.ServiceFee),
	}
}

// SetService registers service with its contracts and reward schedule.
func (b *MockProviderBridge) SetService(service string, contracts types.ServiceContracts, fees ...sharedkeeper.ServiceFee) {
	b.contracts[service] = contracts
	b.fees[service] = fees
}

// ResolveServiceContracts implements types.ProviderBridge.
func (b *MockProviderBridge) ResolveServiceContracts(_ context.Context, service string) (types.ServiceContracts, error) {
	contracts, ok := b.contracts[service]
	if !ok {
		return types.ServiceContracts{}, fmt.Errorf("service %q not registered", service)
	}
	return contracts, nil
}

// GetServiceFees implements types.ProviderBridge.
func (b *MockProviderBridge) GetServiceFees(_ context.Context, service string) ([]sharedkeeper.ServiceFee, error) {
	fees, ok := b.fees[service]
	if !ok {
		return nil, fmt.Errorf("service %q not registered", service)
	}
	return fees, nil
}

// AIOracleFixture bundles the keeper under test with the real bank keeper
// that moves its funds.
type AIOracleFixture struct {
	Keeper        *keeper.Keeper
	Ctx           sdk.Context
	BankKeeper    bankkeeper.BaseKeeper
	AccountKeeper authkeeper.AccountKeeper
	Bridge        *MockProviderBridge
}

// AIOracleKeeper creates a test keeper for the AI oracle module backed by an
// in-memory multistore, real auth and bank keepers and a mock provider bridge.
func AIOracleKeeper(t testing.TB) *AIOracleFixture {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	authStoreKey := storetypes.NewKVStoreKey(authtypes.StoreKey)
	bankStoreKey := storetypes.NewKVStoreKey(banktypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(authStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(bankStoreKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	registry := codectypes.NewInterfaceRegistry()
	sdkstd.RegisterInterfaces(registry)
	authtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	cdc := codec.NewProtoCodec(registry)
	authority := authtypes.NewModuleAddress(govtypes.ModuleName)

	maccPerms := map[string][]string{
		minttypes.ModuleName: {authtypes.Minter},
		types.ModuleName:     nil,
	}

	accountKeeper := authkeeper.NewAccountKeeper(
		cdc,
		runtime.NewKVStoreService(authStoreKey),
		authtypes.ProtoBaseAccount,
		maccPerms,
		address.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix()),
		sdk.GetConfig().GetBech32AccountAddrPrefix(),
		authority.String(),
	)

	bankKeeper := bankkeeper.NewBaseKeeper(
		cdc,
		runtime.NewKVStoreService(bankStoreKey),
		accountKeeper,
		map[string]bool{},
		authority.String(),
		log.NewNopLogger(),
	)

	bridge := NewMockProviderBridge()
	k := keeper.NewKeeper(
		types.ModuleCdc,
		runtime.NewKVStoreService(storeKey),
		bankKeeper,
		bridge,
	)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger())

	return &AIOracleFixture{
		Keeper:        k,
		Ctx:           ctx,
		BankKeeper:    bankKeeper,
		AccountKeeper: accountKeeper,
		Bridge:        bridge,
	}
}

// FundAccount mints coins into addr.
func (f *AIOracleFixture) FundAccount(t testing.TB, addr sdk.AccAddress, coins sdk.Coins) {
	require.NoError(t, banktestutil.FundAccount(f.Ctx, f.BankKeeper, addr, coins))
}

// Balance returns the denom balance of addr.
func (f *AIOracleFixture) Balance(addr sdk.AccAddress, denom string) sdkmath.Int {
	return f.BankKeeper.GetBalance(f.Ctx, addr, denom).Amount
}

// InitGenesis seeds a config owned by owner with a zero contract fee and
// executors as registry version 1.
func (f *AIOracleFixture) InitGenesis(t testing.TB, owner sdk.AccAddress, executors [][]byte) types.Config {
	cfg := types.DefaultConfig()
	cfg.Owner = owner.String()
	cfg.ServiceAddr = owner.String()
	require.NoError(t, f.Keeper.InitGenesis(f.Ctx, *types.NewGenesisState(cfg, executors)))
	return cfg
}
