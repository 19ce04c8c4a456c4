/*
Package keeper implements the AI oracle coordinator.

The coordinator keeps an append-only ledger of data requests. Each request
gets the next stage number, escrows the rewards its service quotes, and
records which executor set version was active. Executors do the work off
chain. The owner then commits their reports as the leaves of a merkle tree
and registers the root for the stage. Any participant can afterwards claim
the payout of a committed report by proving it against that root. A report
is identified by its executor, so it settles once per (executor, stage)
whoever submits it, and a stage pays out no more than it escrowed.

State layout (namespace 0x0A):

	0x01                        config
	0x02                        latest stage
	0x03                        checkpoint
	0x04                        active executor set version
	0x05 | nonce                member count of a version
	0x06 | nonce | pubkey       membership flag
	0x07 | len | executor | stg settled report
	0x08 | stage                request
	0x09 | len | service | stg  service index
	0x0A | len | root | stage   merkle root index
	0x0B | nonce | stage        executor version index
	0x0C | denom                protocol fee pool

The checkpoint is the lowest stage that may still be unresolved. It moves
forward across resolved stages on every registration and rests on the newest
stage once all stages are resolved. Appending a stage behind a resolved head
moves it onto the new stage. The distance between the checkpoint and
the newest stage is the pending window: crossing the checkpoint threshold
emits a lagging event, crossing the request cap rejects new requests.

Every command runs on a cached context and is written back only on success.
*/
package keeper
