package keeper

import (
	"fmt"

	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/aioracle/x/aioracle/types"
)

// RegisterInvariants registers all AI oracle module invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "executor-count",
		ExecutorCountInvariant(k))
	ir.RegisterRoute(types.ModuleName, "stage-density",
		StageDensityInvariant(k))
	ir.RegisterRoute(types.ModuleName, "checkpoint-bound",
		CheckpointBoundInvariant(k))
	ir.RegisterRoute(types.ModuleName, "index-consistency",
		IndexConsistencyInvariant(k))
	ir.RegisterRoute(types.ModuleName, "protocol-fee-solvency",
		ProtocolFeeSolvencyInvariant(k))
}

// AllInvariants runs all invariants of the AI oracle module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		for _, inv := range []sdk.Invariant{
			ExecutorCountInvariant(k),
			StageDensityInvariant(k),
			CheckpointBoundInvariant(k),
			IndexConsistencyInvariant(k),
			ProtocolFeeSolvencyInvariant(k),
		} {
			if res, stop := inv(ctx); stop {
				return res, stop
			}
		}
		return "", false
	}
}

// ExecutorCountInvariant checks that every registry version stores as many
// members as its recorded count.
func ExecutorCountInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var issues []string
		latest := k.GetExecutorNonce(ctx)
		for nonce := uint64(1); nonce <= latest; nonce++ {
			var members uint64
			k.IterateExecutors(ctx, nonce, false, func([]byte) bool {
				members++
				return false
			})
			if count := k.GetExecutorCount(ctx, nonce); count != members {
				issues = append(issues, fmt.Sprintf("set %d: count %d, members %d", nonce, count, members))
			}
		}
		return report("executor-count", issues)
	}
}

// StageDensityInvariant checks that stages 1..latest all exist and nothing
// is stored past the head.
func StageDensityInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var issues []string
		latest := k.GetLatestStage(ctx)
		store := prefix.NewStore(k.getStore(ctx), types.RequestKeyPrefix)
		iterator := store.Iterator(nil, nil)
		defer iterator.Close()

		expected := uint64(1)
		for ; iterator.Valid(); iterator.Next() {
			stage := types.BytesToUint64(iterator.Key())
			if stage != expected {
				issues = append(issues, fmt.Sprintf("expected stage %d, found %d", expected, stage))
				break
			}
			expected++
		}
		if expected-1 != latest && len(issues) == 0 {
			issues = append(issues, fmt.Sprintf("latest stage %d but %d requests stored", latest, expected-1))
		}
		return report("stage-density", issues)
	}
}

// CheckpointBoundInvariant checks checkpoint == min(1 + resolved prefix, latest).
func CheckpointBoundInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var issues []string
		latest := k.GetLatestStage(ctx)
		cp := k.GetCheckpoint(ctx)

		switch {
		case latest == 0:
			if cp != 0 {
				issues = append(issues, fmt.Sprintf("checkpoint %d on empty ledger", cp))
			}
		default:
			expected := uint64(1)
			for expected < latest {
				req, err := k.GetRequest(ctx, expected)
				if err != nil || !req.IsResolved() {
					break
				}
				expected++
			}
			if cp != expected {
				issues = append(issues, fmt.Sprintf("checkpoint %d, expected %d", cp, expected))
			}
		}
		return report("checkpoint-bound", issues)
	}
}

// IndexConsistencyInvariant checks that every request is reachable through
// each of its index entries and that no index entry dangles.
func IndexConsistencyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var issues []string
		store := k.getStore(ctx)
		indexed := 0

		err := k.IterateRequests(ctx, func(req types.Request) bool {
			if !store.Has(types.GetRequestByServiceKey(req.Service, req.Stage)) {
				issues = append(issues, fmt.Sprintf("stage %d missing from service index", req.Stage))
			}
			if !store.Has(types.GetRequestByExecutorNonceKey(req.ExecutorsNonce, req.Stage)) {
				issues = append(issues, fmt.Sprintf("stage %d missing from executor index", req.Stage))
			}
			indexed += 2
			if req.IsResolved() {
				if !store.Has(types.GetRequestByMerkleRootKey(req.MerkleRoot, req.Stage)) {
					issues = append(issues, fmt.Sprintf("stage %d missing from root index", req.Stage))
				}
				indexed++
			}
			return false
		})
		if err != nil {
			issues = append(issues, fmt.Sprintf("iterate requests: %s", err))
		}

		entries := 0
		for _, p := range [][]byte{
			types.RequestByServiceKeyPrefix,
			types.RequestByMerkleRootKeyPrefix,
			types.RequestByExecutorNonceKeyPrefix,
		} {
			iterator := storetypes.KVStorePrefixIterator(store, p)
			for ; iterator.Valid(); iterator.Next() {
				entries++
			}
			iterator.Close()
		}
		if entries != indexed {
			issues = append(issues, fmt.Sprintf("%d index entries for %d indexed values", entries, indexed))
		}
		return report("index-consistency", issues)
	}
}

// ProtocolFeeSolvencyInvariant checks that the module account holds at least
// the accumulated protocol fees plus the remaining escrow of every stage.
func ProtocolFeeSolvencyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var issues []string
		owed, err := k.GetAllProtocolFees(ctx)
		if err != nil {
			issues = append(issues, err.Error())
			return report("protocol-fee-solvency", issues)
		}
		if err := k.IterateRequests(ctx, func(req types.Request) bool {
			owed = owed.Add(req.Escrow...)
			return false
		}); err != nil {
			issues = append(issues, fmt.Sprintf("iterate requests: %s", err))
			return report("protocol-fee-solvency", issues)
		}
		balance := k.bankKeeper.GetAllBalances(ctx, k.GetModuleAddress())
		if !balance.IsAllGTE(owed) {
			issues = append(issues, fmt.Sprintf("module holds %s, owes %s in fees and escrow", balance, owed))
		}
		return report("protocol-fee-solvency", issues)
	}
}

func report(route string, issues []string) (string, bool) {
	broken := len(issues) > 0
	msg := fmt.Sprintf("%d issues found", len(issues))
	for _, issue := range issues {
		msg += "\n\t" + issue
	}
	return sdk.FormatInvariant(types.ModuleName, route, msg), broken
}
