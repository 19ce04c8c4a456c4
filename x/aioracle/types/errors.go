package types

import (
	"errors"

	sdkerrors "cosmossdk.io/errors"
)

// AI oracle module sentinel errors
var (
	// Authorization errors
	ErrUnauthorized = sdkerrors.Register(ModuleName, 2, "unauthorized")

	// Request admission errors
	ErrInvalidThreshold        = sdkerrors.Register(ModuleName, 3, "invalid threshold")
	ErrInsufficientFunds       = sdkerrors.Register(ModuleName, 4, "insufficient funds")
	ErrInvalidDenomAmount      = sdkerrors.Register(ModuleName, 5, "invalid denom amount")
	ErrTooManyPendingRequests  = sdkerrors.Register(ModuleName, 6, "too many pending requests")
	ErrAmountOverflow          = sdkerrors.Register(ModuleName, 7, "amount overflow")
	ErrInvalidRequest          = sdkerrors.Register(ModuleName, 8, "invalid request")
	ErrServiceContractsMissing = sdkerrors.Register(ModuleName, 9, "service contracts missing")

	// Stage resolution errors
	ErrAlreadyResolved   = sdkerrors.Register(ModuleName, 10, "merkle root already registered")
	ErrInvalidMerkleRoot = sdkerrors.Register(ModuleName, 11, "invalid merkle root")
	ErrNotFound          = sdkerrors.Register(ModuleName, 12, "not found")

	// Settlement errors
	ErrNoMerkleRoot            = sdkerrors.Register(ModuleName, 20, "no merkle root found for this request")
	ErrProofVerificationFailed = sdkerrors.Register(ModuleName, 21, "proof verification failed")
	ErrAlreadyClaimed          = sdkerrors.Register(ModuleName, 22, "reward already claimed")
	ErrInvalidProof            = sdkerrors.Register(ModuleName, 23, "invalid proof")
	ErrInvalidReport           = sdkerrors.Register(ModuleName, 24, "invalid report")

	// Config and registry errors
	ErrInvalidConfig   = sdkerrors.Register(ModuleName, 30, "invalid config")
	ErrInvalidExecutor = sdkerrors.Register(ModuleName, 31, "invalid executor")

	// State errors
	ErrStateCorruption = sdkerrors.Register(ModuleName, 40, "state corruption detected")
)

// ErrorWithRecovery wraps an error with recovery suggestions
type ErrorWithRecovery struct {
	Err      error
	Recovery string
}

func (e *ErrorWithRecovery) Error() string {
	return e.Err.Error()
}

func (e *ErrorWithRecovery) Unwrap() error {
	return e.Err
}

// RecoverySuggestions provides actionable recovery steps for each error type
var RecoverySuggestions = map[error]string{
	ErrUnauthorized: "Only the configured owner may run this command. Query the config to find the current owner. Claims additionally require the report executor to belong to the request's committee.",

	ErrInvalidThreshold:        "Threshold must be at least 1 and at most floor(2 * executors / 3). Query the active executor set and lower the threshold.",
	ErrInsufficientFunds:       "Attached funds do not cover the contract fee plus rewards x threshold. Query get_service_fees and attach the full amount per denomination.",
	ErrInvalidDenomAmount:      "A denomination required by the contract fee or the reward schedule is missing from the attached funds. Attach every required denomination.",
	ErrTooManyPendingRequests:  "Too many unresolved stages are queued ahead of the checkpoint. Wait for pending stages to be resolved and resubmit.",
	ErrAmountOverflow:          "Reward amount multiplied by threshold overflows. Use a smaller threshold or smaller rewards.",
	ErrInvalidRequest:          "Request parameters are malformed. Check service name length, pagination order and addresses.",
	ErrServiceContractsMissing: "The provider bridge has no contracts for this service. Register the service with the provider before requesting it.",

	ErrAlreadyResolved:   "The stage already has a merkle root. Roots are immutable once registered.",
	ErrInvalidMerkleRoot: "Merkle root must be a 32 byte SHA-256 digest encoded as 64 hex characters.",
	ErrNotFound:          "The requested stage, service or record does not exist. Query stage_info for the latest stage.",

	ErrNoMerkleRoot:            "The stage has not been resolved yet. Wait for the owner to register the merkle root and retry the claim.",
	ErrProofVerificationFailed: "The report and proof do not fold to the registered root. Rebuild the proof from the committed report set and verify it with verify_data first.",
	ErrAlreadyClaimed:          "This account already claimed the stage. Each (claimant, stage) pair settles at most once.",
	ErrInvalidProof:            "Every proof element must be a 32 byte hash encoded as 64 hex characters.",
	ErrInvalidReport:           "The report could not be decoded into payouts. Reports are JSON objects with executor, data and rewards fields.",

	ErrInvalidConfig:   "Config values are invalid. Owner and service address must be valid bech32 addresses and the contract fee a valid coin.",
	ErrInvalidExecutor: "Executors are identified by 33 byte compressed secp256k1 public keys without duplicates.",

	ErrStateCorruption: "CRITICAL: AI oracle state is inconsistent. Run the module invariants and halt request admission until resolved.",
}

// WrapWithRecovery wraps an error with recovery suggestion
func WrapWithRecovery(err error, msg string, args ...interface{}) error {
	wrapped := sdkerrors.Wrapf(err, msg, args...)

	if suggestion, ok := RecoverySuggestions[err]; ok {
		return &ErrorWithRecovery{
			Err:      wrapped,
			Recovery: suggestion,
		}
	}

	return wrapped
}

// GetRecoverySuggestion returns the recovery suggestion for an error
func GetRecoverySuggestion(err error) string {
	for _, sentinel := range []error{
		ErrUnauthorized, ErrInvalidThreshold, ErrInsufficientFunds, ErrInvalidDenomAmount,
		ErrTooManyPendingRequests, ErrAmountOverflow, ErrInvalidRequest, ErrServiceContractsMissing,
		ErrAlreadyResolved, ErrInvalidMerkleRoot, ErrNotFound, ErrNoMerkleRoot,
		ErrProofVerificationFailed, ErrAlreadyClaimed, ErrInvalidProof, ErrInvalidReport,
		ErrInvalidConfig, ErrInvalidExecutor, ErrStateCorruption,
	} {
		if errors.Is(err, sentinel) {
			return RecoverySuggestions[sentinel]
		}
	}

	return "No recovery suggestion available. Check error message for details. Query config and stage_info."
}
