package types

import (
	"encoding/binary"
)

// MaxKeySegmentLength bounds the variable-length segments (service names,
// merkle roots, claimant addresses) embedded in store keys. Each segment is
// stored behind a single length byte.
const MaxKeySegmentLength = 255

var (
	// ModuleNamespace is the namespace byte for the AI oracle module (0x0A)
	// All store keys are prefixed with this byte to prevent collisions with other modules
	ModuleNamespace = byte(0x0A)

	// ConfigKey is the key for the singleton contract configuration
	ConfigKey = []byte{0x0A, 0x01}

	// LatestStageKey stores the highest allocated stage number
	LatestStageKey = []byte{0x0A, 0x02}

	// CheckpointKey stores the checkpoint watermark
	CheckpointKey = []byte{0x0A, 0x03}

	// ExecutorNonceKey stores the active executor registry version
	ExecutorNonceKey = []byte{0x0A, 0x04}

	// ExecutorCountKeyPrefix is the prefix for per-version executor counts
	ExecutorCountKeyPrefix = []byte{0x0A, 0x05}

	// ExecutorKeyPrefix is the prefix for executor membership flags (nonce | pubkey)
	ExecutorKeyPrefix = []byte{0x0A, 0x06}

	// ClaimKeyPrefix is the prefix for consumed claims (executor pubkey | stage)
	ClaimKeyPrefix = []byte{0x0A, 0x07}

	// RequestKeyPrefix is the prefix for the primary request ledger (stage)
	RequestKeyPrefix = []byte{0x0A, 0x08}

	// RequestByServiceKeyPrefix indexes requests by service name (service | stage)
	RequestByServiceKeyPrefix = []byte{0x0A, 0x09}

	// RequestByMerkleRootKeyPrefix indexes requests by merkle root (root | stage)
	RequestByMerkleRootKeyPrefix = []byte{0x0A, 0x0A}

	// RequestByExecutorNonceKeyPrefix indexes requests by registry version (nonce | stage)
	RequestByExecutorNonceKeyPrefix = []byte{0x0A, 0x0B}

	// ProtocolFeeKeyPrefix is the prefix for accumulated contract fees per denom
	ProtocolFeeKeyPrefix = []byte{0x0A, 0x0C}
)

// Uint64ToBytes encodes v big-endian so that byte order matches numeric order.
func Uint64ToBytes(v uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, v)
	return bz
}

// BytesToUint64 decodes a big-endian uint64. Short input decodes to 0.
func BytesToUint64(bz []byte) uint64 {
	if len(bz) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

// lengthPrefixed returns len(bz) | bz. Callers validate the 255 byte bound.
func lengthPrefixed(bz []byte) []byte {
	out := make([]byte, 0, len(bz)+1)
	out = append(out, byte(len(bz)))
	return append(out, bz...)
}

func joinKey(parts ...[]byte) []byte {
	size := 0
	for _, p := range parts {
		size += len(p)
	}
	key := make([]byte, 0, size)
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}

// GetExecutorCountKey returns the store key for the member count of a registry version
func GetExecutorCountKey(nonce uint64) []byte {
	return joinKey(ExecutorCountKeyPrefix, Uint64ToBytes(nonce))
}

// GetExecutorsByNonceKey returns the prefix for all members of a registry version
func GetExecutorsByNonceKey(nonce uint64) []byte {
	return joinKey(ExecutorKeyPrefix, Uint64ToBytes(nonce))
}

// GetExecutorKey returns the membership key of pubkey in registry version nonce
func GetExecutorKey(nonce uint64, pubkey []byte) []byte {
	return joinKey(GetExecutorsByNonceKey(nonce), pubkey)
}

// GetClaimKey returns the store key marking that the report of executor on
// stage has been settled
func GetClaimKey(executor []byte, stage uint64) []byte {
	return joinKey(ClaimKeyPrefix, lengthPrefixed(executor), Uint64ToBytes(stage))
}

// GetRequestKey returns the primary ledger key for stage
func GetRequestKey(stage uint64) []byte {
	return joinKey(RequestKeyPrefix, Uint64ToBytes(stage))
}

// GetRequestsByServiceKey returns the index prefix for all requests of a service
func GetRequestsByServiceKey(service string) []byte {
	return joinKey(RequestByServiceKeyPrefix, lengthPrefixed([]byte(service)))
}

// GetRequestByServiceKey returns the service index entry for stage
func GetRequestByServiceKey(service string, stage uint64) []byte {
	return joinKey(GetRequestsByServiceKey(service), Uint64ToBytes(stage))
}

// GetRequestsByMerkleRootKey returns the index prefix for all requests sharing a root
func GetRequestsByMerkleRootKey(root string) []byte {
	return joinKey(RequestByMerkleRootKeyPrefix, lengthPrefixed([]byte(root)))
}

// GetRequestByMerkleRootKey returns the merkle root index entry for stage
func GetRequestByMerkleRootKey(root string, stage uint64) []byte {
	return joinKey(GetRequestsByMerkleRootKey(root), Uint64ToBytes(stage))
}

// GetRequestsByExecutorNonceKey returns the index prefix for requests handled by a registry version
func GetRequestsByExecutorNonceKey(nonce uint64) []byte {
	return joinKey(RequestByExecutorNonceKeyPrefix, Uint64ToBytes(nonce))
}

// GetRequestByExecutorNonceKey returns the executor nonce index entry for stage
func GetRequestByExecutorNonceKey(nonce, stage uint64) []byte {
	return joinKey(GetRequestsByExecutorNonceKey(nonce), Uint64ToBytes(stage))
}

// GetProtocolFeeKey returns the store key for the accumulated contract fees of denom
func GetProtocolFeeKey(denom string) []byte {
	return joinKey(ProtocolFeeKeyPrefix, []byte(denom))
}
