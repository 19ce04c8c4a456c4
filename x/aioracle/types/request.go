package types

import (
	"encoding/hex"
	"strings"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	sharedkeeper "github.com/paw-chain/aioracle/x/shared/keeper"
)

// Reward is one payout entry: amount of denom owed to recipient.
type Reward struct {
	Recipient string      `json:"recipient"`
	Denom     string      `json:"denom"`
	Amount    sdkmath.Int `json:"amount"`
}

// NewReward creates a new Reward instance
func NewReward(recipient, denom string, amount sdkmath.Int) Reward {
	return Reward{Recipient: recipient, Denom: denom, Amount: amount}
}

// Validate checks the recipient address, denom and amount.
func (r Reward) Validate() error {
	if _, err := sdk.AccAddressFromBech32(r.Recipient); err != nil {
		return ErrInvalidReport.Wrapf("invalid reward recipient %q: %s", r.Recipient, err)
	}
	if err := sdk.ValidateDenom(r.Denom); err != nil {
		return ErrInvalidReport.Wrapf("invalid reward denom: %s", err)
	}
	if r.Amount.IsNil() || !r.Amount.IsPositive() {
		return ErrInvalidReport.Wrapf("reward amount for %s must be positive", r.Recipient)
	}
	return nil
}

// Request is one stage of the commit log. Escrow is what is left of the
// reward funds attached at creation; claims on the stage draw from it only.
type Request struct {
	Stage          uint64    `json:"stage"`
	MerkleRoot     string    `json:"merkle_root"`
	Threshold      uint64    `json:"threshold"`
	Service        string    `json:"service"`
	Input          string    `json:"input,omitempty"`
	Rewards        []Reward  `json:"rewards"`
	ExecutorsNonce uint64    `json:"executors_nonce"`
	Requester      string    `json:"requester"`
	Escrow         sdk.Coins `json:"escrow"`
}

// RewardsFromServiceFees converts a bridge fee schedule into request rewards.
func RewardsFromServiceFees(fees []sharedkeeper.ServiceFee) []Reward {
	rewards := make([]Reward, 0, len(fees))
	for _, f := range fees {
		rewards = append(rewards, NewReward(f.Recipient, f.Denom, f.Amount))
	}
	return rewards
}

// IsResolved reports whether a merkle root has been registered for the stage.
func (r Request) IsResolved() bool {
	return r.MerkleRoot != ""
}

// StageInfo summarises the ledger head and the checkpoint watermark.
type StageInfo struct {
	LatestStage uint64 `json:"latest_stage"`
	Checkpoint  uint64 `json:"checkpoint"`
}

// Report is the executor result committed as a leaf of the stage merkle tree.
// The raw JSON bytes are hashed as the leaf, the decoded rewards are paid out.
type Report struct {
	Executor []byte   `json:"executor"`
	Data     string   `json:"data"`
	Rewards  []Reward `json:"rewards"`
}

// Payout is a settlement instruction executed against the bank module.
type Payout struct {
	Recipient string    `json:"recipient"`
	Amount    sdk.Coins `json:"amount"`
}

// NormalizeMerkleRoot lowercases root and checks it is a hex encoded SHA-256 digest.
func NormalizeMerkleRoot(root string) (string, error) {
	root = strings.ToLower(strings.TrimSpace(root))
	bz, err := hex.DecodeString(root)
	if err != nil {
		return "", ErrInvalidMerkleRoot.Wrapf("not hex: %s", err)
	}
	if len(bz) != 32 {
		return "", ErrInvalidMerkleRoot.Wrapf("expected 32 bytes, got %d", len(bz))
	}
	return root, nil
}

// Validate checks the executor key length and every reward entry.
func (r Report) Validate() error {
	if len(r.Executor) == 0 {
		return ErrInvalidReport.Wrap("report has no executor")
	}
	for _, reward := range r.Rewards {
		if err := reward.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Leaf returns the canonical leaf bytes of r: its amino JSON encoding.
// Claims must submit exactly these bytes.
func (r Report) Leaf() ([]byte, error) {
	bz, err := ModuleCdc.MarshalJSON(r)
	if err != nil {
		return nil, ErrInvalidReport.Wrapf("encode report: %s", err)
	}
	return bz, nil
}
