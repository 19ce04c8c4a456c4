package keeper

import (
	"context"

	"github.com/paw-chain/aioracle/pkg/merkle"
	"github.com/paw-chain/aioracle/x/aioracle/types"
)

// verifyLeaf folds leaf through proof and compares it with the root of req.
// A malformed sibling is reported as ErrInvalidProof.
func (k Keeper) verifyLeaf(req types.Request, leaf []byte, proof []string) (bool, error) {
	if err := types.ValidateProof(proof); err != nil {
		return false, err
	}
	ok, err := merkle.VerifyHex(req.MerkleRoot, leaf, proof)
	if err != nil {
		return false, types.ErrInvalidProof.Wrap(err.Error())
	}
	return ok, nil
}

// VerifyData reports whether data is a committed leaf of stage.
func (k Keeper) VerifyData(ctx context.Context, stage uint64, data []byte, proof []string) (bool, error) {
	req, err := k.GetRequest(ctx, stage)
	if err != nil {
		return false, err
	}
	if !req.IsResolved() {
		return false, types.ErrNoMerkleRoot.Wrapf("stage %d", stage)
	}
	return k.verifyLeaf(req, data, proof)
}
