package keeper

import (
	"context"

	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"

	"github.com/paw-chain/aioracle/x/aioracle/types"
)

const (
	// DefaultPageLimit is used when a paginated read leaves the limit unset.
	DefaultPageLimit uint64 = 20
	// MaxPageLimit caps every paginated read.
	MaxPageLimit uint64 = 100
)

// Index entries store an empty value, the stage lives in the key suffix.
var indexValue = []byte{}

func (k Keeper) indexRequestByService(ctx context.Context, service string, stage uint64) {
	k.getStore(ctx).Set(types.GetRequestByServiceKey(service, stage), indexValue)
}

func (k Keeper) indexRequestByMerkleRoot(ctx context.Context, root string, stage uint64) {
	k.getStore(ctx).Set(types.GetRequestByMerkleRootKey(root, stage), indexValue)
}

func (k Keeper) indexRequestByExecutorNonce(ctx context.Context, nonce, stage uint64) {
	k.getStore(ctx).Set(types.GetRequestByExecutorNonceKey(nonce, stage), indexValue)
}

// sanitizePage enforces the default and maximum page size.
func sanitizePage(page types.PageRequest) types.PageRequest {
	if page.Limit == 0 {
		page.Limit = DefaultPageLimit
	}
	if page.Limit > MaxPageLimit {
		page.Limit = MaxPageLimit
	}
	return page
}

// scanStages walks a store whose keys start with a big-endian stage and returns
// up to page.Limit stages strictly after (ascending) or before (descending)
// page.Offset. A zero offset starts at the matching end of the range.
func scanStages(store storetypes.KVStore, page types.PageRequest) []uint64 {
	page = sanitizePage(page)

	var start, end []byte
	if page.Offset > 0 {
		if page.Order.IsDescending() {
			end = types.Uint64ToBytes(page.Offset)
		} else {
			if page.Offset == ^uint64(0) {
				return []uint64{}
			}
			start = types.Uint64ToBytes(page.Offset + 1)
		}
	}

	var iterator storetypes.Iterator
	if page.Order.IsDescending() {
		iterator = store.ReverseIterator(start, end)
	} else {
		iterator = store.Iterator(start, end)
	}
	defer iterator.Close()

	stages := make([]uint64, 0, page.Limit)
	for ; iterator.Valid() && uint64(len(stages)) < page.Limit; iterator.Next() {
		stages = append(stages, types.BytesToUint64(iterator.Key()))
	}
	return stages
}

func (k Keeper) loadRequests(ctx context.Context, stages []uint64) ([]types.Request, error) {
	requests := make([]types.Request, 0, len(stages))
	for _, stage := range stages {
		req, err := k.GetRequest(ctx, stage)
		if err != nil {
			return nil, types.ErrStateCorruption.Wrapf("index points at stage %d: %s", stage, err)
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// GetRequests pages through the primary ledger.
func (k Keeper) GetRequests(ctx context.Context, page types.PageRequest) ([]types.Request, error) {
	store := prefix.NewStore(k.getStore(ctx), types.RequestKeyPrefix)
	return k.loadRequests(ctx, scanStages(store, page))
}

// GetRequestsByService pages through the requests of service.
func (k Keeper) GetRequestsByService(ctx context.Context, service string, page types.PageRequest) ([]types.Request, error) {
	store := prefix.NewStore(k.getStore(ctx), types.GetRequestsByServiceKey(service))
	return k.loadRequests(ctx, scanStages(store, page))
}

// GetRequestsByMerkleRoot pages through the stages resolved with root.
func (k Keeper) GetRequestsByMerkleRoot(ctx context.Context, root string, page types.PageRequest) ([]types.Request, error) {
	store := prefix.NewStore(k.getStore(ctx), types.GetRequestsByMerkleRootKey(root))
	return k.loadRequests(ctx, scanStages(store, page))
}

// GetRequestsByExecutorsKey pages through the requests created under registry version nonce.
func (k Keeper) GetRequestsByExecutorsKey(ctx context.Context, nonce uint64, page types.PageRequest) ([]types.Request, error) {
	store := prefix.NewStore(k.getStore(ctx), types.GetRequestsByExecutorNonceKey(nonce))
	return k.loadRequests(ctx, scanStages(store, page))
}
