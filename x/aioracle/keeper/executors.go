package keeper

import (
	"context"

	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"

	"github.com/paw-chain/aioracle/x/aioracle/types"
)

// maxExecutorsPage is the default span of a GetExecutors read.
const maxExecutorsPage = 100

var executorFlag = []byte{0x01}

// GetExecutorNonce returns the active registry version, 0 before genesis.
func (k Keeper) GetExecutorNonce(ctx context.Context) uint64 {
	return k.getUint64(ctx, types.ExecutorNonceKey)
}

// GetExecutorCount returns the member count of registry version nonce.
func (k Keeper) GetExecutorCount(ctx context.Context, nonce uint64) uint64 {
	return k.getUint64(ctx, types.GetExecutorCountKey(nonce))
}

// IsExecutor reports whether pubkey belongs to registry version nonce.
func (k Keeper) IsExecutor(ctx context.Context, nonce uint64, pubkey []byte) bool {
	return k.getStore(ctx).Has(types.GetExecutorKey(nonce, pubkey))
}

// RotateExecutors writes executors as registry version nonce+1 and activates it.
func (k Keeper) RotateExecutors(ctx context.Context, executors [][]byte) (uint64, error) {
	nonce := k.GetExecutorNonce(ctx) + 1
	if err := k.setExecutorSet(ctx, nonce, executors); err != nil {
		return 0, err
	}
	k.setUint64(ctx, types.ExecutorNonceKey, nonce)

	k.metrics.ExecutorRotations.Inc()
	k.metrics.ExecutorCount.Set(float64(len(executors)))
	k.Logger(ctx).Info("executor set rotated", "nonce", nonce, "executors", len(executors))
	return nonce, nil
}

// setExecutorSet stores one registry version. Versions are write-once.
func (k Keeper) setExecutorSet(ctx context.Context, nonce uint64, executors [][]byte) error {
	if err := types.ValidateExecutors(executors); err != nil {
		return err
	}
	store := k.getStore(ctx)
	if store.Has(types.GetExecutorCountKey(nonce)) {
		return types.ErrStateCorruption.Wrapf("executor set %d already written", nonce)
	}
	for _, pk := range executors {
		store.Set(types.GetExecutorKey(nonce, pk), executorFlag)
	}
	store.Set(types.GetExecutorCountKey(nonce), types.Uint64ToBytes(uint64(len(executors))))
	return nil
}

// IterateExecutors walks registry version nonce in pubkey byte order.
func (k Keeper) IterateExecutors(ctx context.Context, nonce uint64, reverse bool, cb func(pubkey []byte) (stop bool)) {
	executorStore := prefix.NewStore(k.getStore(ctx), types.GetExecutorsByNonceKey(nonce))

	var iterator storetypes.Iterator
	if reverse {
		iterator = executorStore.ReverseIterator(nil, nil)
	} else {
		iterator = executorStore.Iterator(nil, nil)
	}
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		pk := append([]byte(nil), iterator.Key()...)
		if cb(pk) {
			break
		}
	}
}

// GetExecutors returns members [start, end) of registry version nonce in the
// requested order. start defaults to 0 and end to start+100.
func (k Keeper) GetExecutors(ctx context.Context, nonce uint64, start, end *uint64, order types.Order) [][]byte {
	from := uint64(0)
	if start != nil {
		from = *start
	}
	to := from + maxExecutorsPage
	if to < from {
		to = ^uint64(0)
	}
	if end != nil {
		to = *end
	}
	if from >= to {
		return [][]byte{}
	}

	executors := make([][]byte, 0)
	var idx uint64
	k.IterateExecutors(ctx, nonce, order.IsDescending(), func(pk []byte) bool {
		if idx >= to {
			return true
		}
		if idx >= from {
			executors = append(executors, pk)
		}
		idx++
		return false
	})
	return executors
}

// GetExecutorSets returns every registry version, oldest first.
func (k Keeper) GetExecutorSets(ctx context.Context) []types.ExecutorSet {
	latest := k.GetExecutorNonce(ctx)
	sets := make([]types.ExecutorSet, 0, latest)
	for nonce := uint64(1); nonce <= latest; nonce++ {
		set := types.ExecutorSet{Nonce: nonce, Executors: [][]byte{}}
		k.IterateExecutors(ctx, nonce, false, func(pk []byte) bool {
			set.Executors = append(set.Executors, pk)
			return false
		})
		sets = append(sets, set)
	}
	return sets
}
