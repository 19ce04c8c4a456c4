package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ExecutorSet is one version of the executor registry.
type ExecutorSet struct {
	Nonce     uint64   `json:"nonce"`
	Executors [][]byte `json:"executors"`
}

// ClaimRecord marks a settled report. A report is identified by the executor
// that produced it, whoever submits the claim.
type ClaimRecord struct {
	Executor []byte `json:"executor"`
	Stage    uint64 `json:"stage"`
}

// GenesisState is the complete exported state of the coordinator.
type GenesisState struct {
	Config       Config        `json:"config"`
	ExecutorSets []ExecutorSet `json:"executor_sets"`
	Requests     []Request     `json:"requests"`
	Checkpoint   uint64        `json:"checkpoint"`
	Claims       []ClaimRecord `json:"claims"`
	ProtocolFees sdk.Coins     `json:"protocol_fees"`
}

// NewGenesisState seeds version 1 of the executor registry with executors.
func NewGenesisState(config Config, executors [][]byte) *GenesisState {
	return &GenesisState{
		Config:       config,
		ExecutorSets: []ExecutorSet{{Nonce: 1, Executors: executors}},
		Requests:     []Request{},
		Claims:       []ClaimRecord{},
		ProtocolFees: sdk.NewCoins(),
	}
}

// DefaultGenesis returns the default genesis state. Its config has no owner,
// so chains must fill in owner and service address before it validates.
func DefaultGenesis() *GenesisState {
	return NewGenesisState(DefaultConfig(), [][]byte{})
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if err := gs.Config.Validate(); err != nil {
		return err
	}
	if len(gs.ExecutorSets) == 0 {
		return ErrInvalidConfig.Wrap("genesis must seed at least one executor set")
	}
	for i, set := range gs.ExecutorSets {
		if set.Nonce != uint64(i+1) {
			return ErrInvalidConfig.Wrapf("executor set %d has nonce %d, expected %d", i, set.Nonce, i+1)
		}
		if err := ValidateExecutors(set.Executors); err != nil {
			return fmt.Errorf("executor set %d: %w", set.Nonce, err)
		}
	}

	latest := uint64(len(gs.Requests))
	activeNonce := uint64(len(gs.ExecutorSets))
	for i, req := range gs.Requests {
		if req.Stage != uint64(i+1) {
			return ErrStateCorruption.Wrapf("request %d has stage %d, stages must be dense from 1", i, req.Stage)
		}
		if req.Threshold == 0 {
			return ErrInvalidThreshold.Wrapf("stage %d has zero threshold", req.Stage)
		}
		if err := validateKeySegment("service", req.Service); err != nil {
			return fmt.Errorf("stage %d: %w", req.Stage, err)
		}
		if req.ExecutorsNonce == 0 || req.ExecutorsNonce > activeNonce {
			return ErrStateCorruption.Wrapf("stage %d references unknown executor set %d", req.Stage, req.ExecutorsNonce)
		}
		if !req.Escrow.IsValid() {
			return ErrStateCorruption.Wrapf("stage %d has invalid escrow %s", req.Stage, req.Escrow)
		}
		if req.IsResolved() {
			root, err := NormalizeMerkleRoot(req.MerkleRoot)
			if err != nil {
				return fmt.Errorf("stage %d: %w", req.Stage, err)
			}
			if root != req.MerkleRoot {
				return ErrInvalidMerkleRoot.Wrapf("stage %d root must be lowercase", req.Stage)
			}
		}
	}

	switch {
	case latest == 0 && gs.Checkpoint != 0:
		return ErrStateCorruption.Wrapf("checkpoint %d without requests", gs.Checkpoint)
	case latest > 0 && (gs.Checkpoint == 0 || gs.Checkpoint > latest):
		return ErrStateCorruption.Wrapf("checkpoint %d outside [1, %d]", gs.Checkpoint, latest)
	}
	for cp := uint64(1); cp < gs.Checkpoint; cp++ {
		if !gs.Requests[cp-1].IsResolved() {
			return ErrStateCorruption.Wrapf("checkpoint %d passes unresolved stage %d", gs.Checkpoint, cp)
		}
	}

	type claimID struct {
		executor string
		stage    uint64
	}
	seen := make(map[claimID]struct{}, len(gs.Claims))
	for _, c := range gs.Claims {
		if err := ValidateExecutors([][]byte{c.Executor}); err != nil {
			return fmt.Errorf("claim on stage %d: %w", c.Stage, err)
		}
		if c.Stage == 0 || c.Stage > latest {
			return ErrStateCorruption.Wrapf("claim for unknown stage %d", c.Stage)
		}
		if !gs.Requests[c.Stage-1].IsResolved() {
			return ErrStateCorruption.Wrapf("claim for unresolved stage %d", c.Stage)
		}
		id := claimID{executor: string(c.Executor), stage: c.Stage}
		if _, dup := seen[id]; dup {
			return ErrStateCorruption.Wrapf("duplicate claim %X/%d", c.Executor, c.Stage)
		}
		seen[id] = struct{}{}
	}

	if !gs.ProtocolFees.IsValid() {
		return ErrInvalidConfig.Wrapf("invalid protocol fees %s", gs.ProtocolFees)
	}
	return nil
}
