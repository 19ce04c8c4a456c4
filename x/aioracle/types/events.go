package types

// Event types for the AI oracle module
// All event types use lowercase with underscore separator (module_action format)
const (
	EventTypeCreateRequest      = "aioracle_create_request"
	EventTypeRegisterMerkleRoot = "aioracle_register_merkle_root"
	EventTypeCheckpointAdvanced = "aioracle_checkpoint_advanced"
	EventTypeCheckpointLagging  = "aioracle_checkpoint_lagging"
	EventTypeClaimReward        = "aioracle_claim_reward"
	EventTypePayout             = "aioracle_payout"
	EventTypeUpdateConfig       = "aioracle_update_config"
	EventTypeExecutorsRotated   = "aioracle_executors_rotated"
	EventTypeWithdrawFunds      = "aioracle_withdraw_funds"
)

// Event attribute keys for the AI oracle module
const (
	AttributeKeyStage          = "stage"
	AttributeKeyService        = "service"
	AttributeKeyThreshold      = "threshold"
	AttributeKeyRequester      = "requester"
	AttributeKeyFunds          = "funds"
	AttributeKeyMerkleRoot     = "merkle_root"
	AttributeKeyCheckpoint     = "checkpoint"
	AttributeKeyPrevCheckpoint = "previous_checkpoint"
	AttributeKeyLatestStage    = "latest_stage"
	AttributeKeyPending        = "pending"
	AttributeKeyClaimant       = "claimant"
	AttributeKeyExecutor       = "executor"
	AttributeKeyRecipient      = "recipient"
	AttributeKeyAmount         = "amount"
	AttributeKeyOwner          = "owner"
	AttributeKeyNonce          = "nonce"
	AttributeKeyExecutorCount  = "executor_count"
)
