package types

import (
	"context"
	"encoding/hex"

	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message type names
const (
	TypeMsgCreateRequest      = "create_request"
	TypeMsgRegisterMerkleRoot = "register_merkle_root"
	TypeMsgClaimReward        = "claim_reward"
	TypeMsgUpdateConfig       = "update_config"
	TypeMsgWithdrawFunds      = "withdraw_funds"
)

// MsgServer is the command surface of the coordinator. Every method is one
// state transition that either fully applies or leaves no trace.
type MsgServer interface {
	CreateRequest(context.Context, *MsgCreateRequest) (*MsgCreateRequestResponse, error)
	RegisterMerkleRoot(context.Context, *MsgRegisterMerkleRoot) (*MsgRegisterMerkleRootResponse, error)
	ClaimReward(context.Context, *MsgClaimReward) (*MsgClaimRewardResponse, error)
	UpdateConfig(context.Context, *MsgUpdateConfig) (*MsgUpdateConfigResponse, error)
	WithdrawFunds(context.Context, *MsgWithdrawFunds) (*MsgWithdrawFundsResponse, error)
}

// MsgCreateRequest submits a new data request. Funds are escrowed from Sender.
type MsgCreateRequest struct {
	Sender    string    `json:"sender"`
	Service   string    `json:"service"`
	Threshold uint64    `json:"threshold"`
	Input     string    `json:"input,omitempty"`
	Funds     sdk.Coins `json:"funds"`
}

// MsgCreateRequestResponse carries the allocated stage.
type MsgCreateRequestResponse struct {
	Stage uint64 `json:"stage"`
}

// NewMsgCreateRequest creates a new MsgCreateRequest instance
func NewMsgCreateRequest(sender, service string, threshold uint64, input string, funds sdk.Coins) *MsgCreateRequest {
	return &MsgCreateRequest{
		Sender:    sender,
		Service:   service,
		Threshold: threshold,
		Input:     input,
		Funds:     funds,
	}
}

// Route returns the module route
func (msg *MsgCreateRequest) Route() string { return RouterKey }

// Type returns the message type
func (msg *MsgCreateRequest) Type() string { return TypeMsgCreateRequest }

// ValidateBasic performs stateless validation
func (msg *MsgCreateRequest) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return ErrInvalidRequest.Wrapf("invalid sender address: %s", err)
	}
	if err := validateKeySegment("service", msg.Service); err != nil {
		return err
	}
	if msg.Threshold == 0 {
		return ErrInvalidThreshold.Wrap("threshold must be positive")
	}
	if !msg.Funds.IsValid() {
		return ErrInvalidRequest.Wrapf("invalid funds %s", msg.Funds)
	}
	return nil
}

// MsgRegisterMerkleRoot resolves a stage. Owner only.
type MsgRegisterMerkleRoot struct {
	Sender     string `json:"sender"`
	Stage      uint64 `json:"stage"`
	MerkleRoot string `json:"merkle_root"`
}

// MsgRegisterMerkleRootResponse reports the checkpoint after registration.
type MsgRegisterMerkleRootResponse struct {
	Checkpoint uint64 `json:"checkpoint"`
}

// NewMsgRegisterMerkleRoot creates a new MsgRegisterMerkleRoot instance
func NewMsgRegisterMerkleRoot(sender string, stage uint64, root string) *MsgRegisterMerkleRoot {
	return &MsgRegisterMerkleRoot{Sender: sender, Stage: stage, MerkleRoot: root}
}

// Route returns the module route
func (msg *MsgRegisterMerkleRoot) Route() string { return RouterKey }

// Type returns the message type
func (msg *MsgRegisterMerkleRoot) Type() string { return TypeMsgRegisterMerkleRoot }

// ValidateBasic performs stateless validation
func (msg *MsgRegisterMerkleRoot) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return ErrInvalidRequest.Wrapf("invalid sender address: %s", err)
	}
	if msg.Stage == 0 {
		return ErrInvalidRequest.Wrap("stage numbers start at 1")
	}
	if _, err := NormalizeMerkleRoot(msg.MerkleRoot); err != nil {
		return err
	}
	return nil
}

// MsgClaimReward settles one report of a resolved stage.
type MsgClaimReward struct {
	Sender string   `json:"sender"`
	Stage  uint64   `json:"stage"`
	Report []byte   `json:"report"`
	Proof  []string `json:"proof,omitempty"`
}

// MsgClaimRewardResponse lists the transfers executed for the claim.
type MsgClaimRewardResponse struct {
	Payouts []Payout `json:"payouts"`
}

// NewMsgClaimReward creates a new MsgClaimReward instance
func NewMsgClaimReward(sender string, stage uint64, report []byte, proof []string) *MsgClaimReward {
	return &MsgClaimReward{Sender: sender, Stage: stage, Report: report, Proof: proof}
}

// Route returns the module route
func (msg *MsgClaimReward) Route() string { return RouterKey }

// Type returns the message type
func (msg *MsgClaimReward) Type() string { return TypeMsgClaimReward }

// ValidateBasic performs stateless validation
func (msg *MsgClaimReward) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return ErrInvalidRequest.Wrapf("invalid sender address: %s", err)
	}
	if len(msg.Sender) > MaxKeySegmentLength {
		return ErrInvalidRequest.Wrap("sender address too long")
	}
	if msg.Stage == 0 {
		return ErrInvalidRequest.Wrap("stage numbers start at 1")
	}
	if len(msg.Report) == 0 {
		return ErrInvalidReport.Wrap("report cannot be empty")
	}
	return ValidateProof(msg.Proof)
}

// MsgUpdateConfig partially updates the config. Empty fields are left
// unchanged. The executor set is replaced when NewExecutors is non-empty or
// RotateExecutors is set, which also allows rotating to an empty committee.
type MsgUpdateConfig struct {
	Sender             string    `json:"sender"`
	NewOwner           string    `json:"new_owner,omitempty"`
	NewContractFee     *sdk.Coin `json:"new_contract_fee,omitempty"`
	NewServiceAddr     string    `json:"new_service_addr,omitempty"`
	NewExecutors       [][]byte  `json:"new_executors,omitempty"`
	RotateExecutors    bool      `json:"rotate_executors,omitempty"`
	NewCheckpoint      *uint64   `json:"new_checkpoint,omitempty"`
	NewMaxReqThreshold *uint64   `json:"new_max_req_threshold,omitempty"`
}

// MsgUpdateConfigResponse defines the response for MsgUpdateConfig
type MsgUpdateConfigResponse struct{}

// Route returns the module route
func (msg *MsgUpdateConfig) Route() string { return RouterKey }

// Type returns the message type
func (msg *MsgUpdateConfig) Type() string { return TypeMsgUpdateConfig }

// WithExecutors marks the message as replacing the executor set.
func (msg *MsgUpdateConfig) WithExecutors(executors [][]byte) *MsgUpdateConfig {
	msg.NewExecutors = executors
	msg.RotateExecutors = true
	return msg
}

// ReplacesExecutors reports whether the message rotates the executor registry.
func (msg *MsgUpdateConfig) ReplacesExecutors() bool {
	return msg.RotateExecutors || len(msg.NewExecutors) > 0
}

// ValidateBasic performs stateless validation
func (msg *MsgUpdateConfig) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return ErrInvalidRequest.Wrapf("invalid sender address: %s", err)
	}
	if msg.NewOwner != "" {
		if _, err := sdk.AccAddressFromBech32(msg.NewOwner); err != nil {
			return ErrInvalidConfig.Wrapf("invalid new owner address: %s", err)
		}
	}
	if msg.NewServiceAddr != "" {
		if _, err := sdk.AccAddressFromBech32(msg.NewServiceAddr); err != nil {
			return ErrInvalidConfig.Wrapf("invalid new service address: %s", err)
		}
	}
	if msg.NewContractFee != nil {
		if err := ValidateFee(*msg.NewContractFee); err != nil {
			return err
		}
	}
	if msg.ReplacesExecutors() {
		if err := ValidateExecutors(msg.NewExecutors); err != nil {
			return err
		}
	}
	return nil
}

// MsgWithdrawFunds sweeps accumulated contract fees to the owner.
type MsgWithdrawFunds struct {
	Sender string      `json:"sender"`
	Denom  string      `json:"denom"`
	Amount sdkmath.Int `json:"amount"`
}

// MsgWithdrawFundsResponse defines the response for MsgWithdrawFunds
type MsgWithdrawFundsResponse struct{}

// NewMsgWithdrawFunds creates a new MsgWithdrawFunds instance
func NewMsgWithdrawFunds(sender, denom string, amount sdkmath.Int) *MsgWithdrawFunds {
	return &MsgWithdrawFunds{Sender: sender, Denom: denom, Amount: amount}
}

// Route returns the module route
func (msg *MsgWithdrawFunds) Route() string { return RouterKey }

// Type returns the message type
func (msg *MsgWithdrawFunds) Type() string { return TypeMsgWithdrawFunds }

// ValidateBasic performs stateless validation
func (msg *MsgWithdrawFunds) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Sender); err != nil {
		return ErrInvalidRequest.Wrapf("invalid sender address: %s", err)
	}
	if err := sdk.ValidateDenom(msg.Denom); err != nil {
		return ErrInvalidRequest.Wrapf("invalid denom: %s", err)
	}
	if msg.Amount.IsNil() || !msg.Amount.IsPositive() {
		return ErrInvalidRequest.Wrap("withdraw amount must be positive")
	}
	return nil
}

// ValidateExecutors requires compressed secp256k1 keys without duplicates.
func ValidateExecutors(executors [][]byte) error {
	seen := make(map[string]struct{}, len(executors))
	for i, pk := range executors {
		if len(pk) != secp256k1.PubKeySize {
			return ErrInvalidExecutor.Wrapf("executor %d: expected %d byte pubkey, got %d", i, secp256k1.PubKeySize, len(pk))
		}
		if pk[0] != 0x02 && pk[0] != 0x03 {
			return ErrInvalidExecutor.Wrapf("executor %d: not a compressed public key", i)
		}
		if _, dup := seen[string(pk)]; dup {
			return ErrInvalidExecutor.Wrapf("executor %X listed twice", pk)
		}
		seen[string(pk)] = struct{}{}
	}
	return nil
}

// ValidateProof requires every element to be a hex encoded 32 byte hash.
func ValidateProof(proof []string) error {
	for i, p := range proof {
		bz, err := hex.DecodeString(p)
		if err != nil {
			return ErrInvalidProof.Wrapf("proof[%d] is not hex: %s", i, err)
		}
		if len(bz) != 32 {
			return ErrInvalidProof.Wrapf("proof[%d] has %d bytes, expected 32", i, len(bz))
		}
	}
	return nil
}

func validateKeySegment(field, value string) error {
	if value == "" {
		return ErrInvalidRequest.Wrapf("%s cannot be empty", field)
	}
	if len(value) > MaxKeySegmentLength {
		return ErrInvalidRequest.Wrapf("%s exceeds %d bytes", field, MaxKeySegmentLength)
	}
	return nil
}
