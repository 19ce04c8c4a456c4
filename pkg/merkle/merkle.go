// Package merkle implements the sorted-pair SHA-256 merkle tree used to commit
// executor reports. Leaves are hashed once, and each fold hashes the smaller of
// the two children first, so proofs carry no left/right position bits.
package merkle

import (
	"bytes"
	"encoding/hex"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/cometbft/cometbft/crypto/tmhash"
)

const codespace = "merkle"

var (
	ErrMalformedProof = errorsmod.Register(codespace, 2, "malformed merkle proof")
	ErrEmptyTree      = errorsmod.Register(codespace, 3, "merkle tree has no leaves")
	ErrLeafIndex      = errorsmod.Register(codespace, 4, "leaf index out of range")
)

// LeafHash returns the hash of a raw leaf.
func LeafHash(leaf []byte) []byte {
	return tmhash.Sum(leaf)
}

// HashPair folds two child hashes in canonical order.
func HashPair(a, b []byte) []byte {
	buf := make([]byte, 0, len(a)+len(b))
	if bytes.Compare(a, b) <= 0 {
		buf = append(append(buf, a...), b...)
	} else {
		buf = append(append(buf, b...), a...)
	}
	return tmhash.Sum(buf)
}

// ComputeRoot folds leaf through proof and returns the resulting root.
func ComputeRoot(leaf []byte, proof [][]byte) []byte {
	h := LeafHash(leaf)
	for _, sibling := range proof {
		h = HashPair(h, sibling)
	}
	return h
}

// Verify reports whether leaf is committed under root. An empty proof means
// the leaf hash itself must be the root.
func Verify(root, leaf []byte, proof [][]byte) bool {
	for _, sibling := range proof {
		if len(sibling) != tmhash.Size {
			return false
		}
	}
	return bytes.Equal(ComputeRoot(leaf, proof), root)
}

// VerifyHex is Verify over hex encoded root and siblings. The root comparison
// is case-insensitive. A sibling that is not a 32 byte hex hash is an error.
func VerifyHex(rootHex string, leaf []byte, proofHex []string) (bool, error) {
	root, err := hex.DecodeString(strings.TrimSpace(rootHex))
	if err != nil {
		return false, ErrMalformedProof.Wrapf("root is not hex: %s", err)
	}
	proof, err := DecodeProof(proofHex)
	if err != nil {
		return false, err
	}
	return Verify(root, leaf, proof), nil
}

// DecodeProof decodes hex siblings, requiring each to be a full hash.
func DecodeProof(proofHex []string) ([][]byte, error) {
	proof := make([][]byte, len(proofHex))
	for i, p := range proofHex {
		bz, err := hex.DecodeString(p)
		if err != nil {
			return nil, ErrMalformedProof.Wrapf("sibling %d is not hex: %s", i, err)
		}
		if len(bz) != tmhash.Size {
			return nil, ErrMalformedProof.Wrapf("sibling %d has %d bytes, expected %d", i, len(bz), tmhash.Size)
		}
		proof[i] = bz
	}
	return proof, nil
}

// EncodeProof hex encodes siblings for transport.
func EncodeProof(proof [][]byte) []string {
	out := make([]string, len(proof))
	for i, p := range proof {
		out[i] = hex.EncodeToString(p)
	}
	return out
}

// Tree is a fully materialised tree built off-chain to hand out proofs.
// levels[0] holds the leaf hashes and the last level holds the root.
type Tree struct {
	levels [][][]byte
}

// NewTree builds a tree over leaves in the given order. An odd node at the end
// of a level is promoted to the next level unchanged.
func NewTree(leaves [][]byte) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyTree
	}
	level := make([][]byte, len(leaves))
	for i, leaf := range leaves {
		level[i] = LeafHash(leaf)
	}
	levels := [][][]byte{level}
	for len(level) > 1 {
		next := make([][]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}
			next = append(next, HashPair(level[i], level[i+1]))
		}
		levels = append(levels, next)
		level = next
	}
	return &Tree{levels: levels}, nil
}

// Root returns the tree root.
func (t *Tree) Root() []byte {
	return t.levels[len(t.levels)-1][0]
}

// RootHex returns the lowercase hex root.
func (t *Tree) RootHex() string {
	return hex.EncodeToString(t.Root())
}

// Proof returns the siblings of leaf index from the bottom up.
func (t *Tree) Proof(index int) ([][]byte, error) {
	if index < 0 || index >= len(t.levels[0]) {
		return nil, ErrLeafIndex.Wrapf("index %d, leaves %d", index, len(t.levels[0]))
	}
	var proof [][]byte
	for _, level := range t.levels[:len(t.levels)-1] {
		sibling := index ^ 1
		if sibling < len(level) {
			proof = append(proof, level[sibling])
		}
		index /= 2
	}
	return proof, nil
}
