package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"
)

// =============================================================================
// Provider Bridge Interfaces (Versioned)
// =============================================================================

// ProviderBridgeV1 resolves the contracts and fee schedule that back a service.
// Version 1.0 - Initial release for testnet
type ProviderBridgeV1 interface {
	// ResolveServiceContracts returns the data sources, test cases and oscript
	// registered for service.
	ResolveServiceContracts(ctx context.Context, service string) (ServiceContracts, error)

	// GetServiceFees returns the per-executor reward schedule of service.
	GetServiceFees(ctx context.Context, service string) ([]ServiceFee, error)
}

// ServiceContracts holds the contract set returned by provider queries.
type ServiceContracts struct {
	DataSources []string `json:"dsources"`
	TestCases   []string `json:"tcases"`
	OScript     string   `json:"oscript"`
}

// ServiceFee holds one entry of a service reward schedule.
type ServiceFee struct {
	Recipient string
	Denom     string
	Amount    sdkmath.Int
}

// =============================================================================
// AI Oracle Keeper Interfaces (Versioned)
// =============================================================================

// AIOracleKeeperV1 defines the minimal coordinator interface for cross-module use.
// Version 1.0 - Initial release for testnet
type AIOracleKeeperV1 interface {
	// GetCheckpoint returns the first stage that may still be unresolved.
	GetCheckpoint(ctx context.Context) uint64

	// GetLatestStage returns the highest allocated stage.
	GetLatestStage(ctx context.Context) uint64
}

// AIOracleKeeperV1Extended extends V1 with stage lookups.
type AIOracleKeeperV1Extended interface {
	AIOracleKeeperV1

	// GetStageRoot returns the registered merkle root of stage, if any.
	GetStageRoot(ctx context.Context, stage uint64) (string, bool)
}

// =============================================================================
// Version Constants
// =============================================================================

const (
	// ProviderBridgeVersion is the current provider bridge interface version.
	ProviderBridgeVersion = "v1.0.0"

	// AIOracleKeeperVersion is the current coordinator keeper interface version.
	AIOracleKeeperVersion = "v1.0.0"
)

/*
API Versioning Guidelines:

1. MINOR VERSION BUMP (v1.0 -> v1.1):
   - Add new methods to Extended interfaces
   - Never remove or change existing method signatures

2. MAJOR VERSION BUMP (v1 -> v2):
   - Create new interface (e.g., ProviderBridgeV2)
   - Old interfaces remain for backwards compatibility

3. ADAPTER PATTERN:
   - If a keeper doesn't match an interface exactly, create an adapter
   - Adapters live in the module using the interface
*/
