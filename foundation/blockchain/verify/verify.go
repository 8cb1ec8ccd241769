// Package verify provides the predicates that decide whether transactions,
// blocks and chains are well formed and economically consistent. Every check
// comes in two forms: a Check function describing the first problem found and
// a boolean function for callers that only need the answer. Nothing is ever
// mutated.
package verify

import (
	"errors"
	"fmt"

	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/balance"
	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/database"
	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/signature"
)

// Set of error kinds the checks wrap.
var (
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidBlock       = errors.New("invalid block")
	ErrInvalidChain       = errors.New("invalid chain")
)

// =============================================================================

// Transaction reports whether the transaction is valid.
func Transaction(v signature.Verifier, tx database.Tx) bool {
	return CheckTransaction(v, tx) == nil
}

// CheckTransaction rejects transactions with negative amounts, a source that
// doesn't match the kind, or a signature that doesn't match the payload.
func CheckTransaction(v signature.Verifier, tx database.Tx) error {
	if tx.Amount < 0 {
		return fmt.Errorf("%w: negative amount %d", ErrInvalidTransaction, tx.Amount)
	}

	switch tx.Kind {
	case database.TxTransfer:
		if tx.Source == "" {
			return fmt.Errorf("%w: transfer has no source", ErrInvalidTransaction)
		}
	case database.TxReward:
		if tx.Source != "" {
			return fmt.Errorf("%w: reward has a source", ErrInvalidTransaction)
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidTransaction, tx.Kind)
	}

	if !v.Verify(tx.SignerKey(), tx.Payload(), tx.Signature) {
		return fmt.Errorf("%w: signature does not match", ErrInvalidTransaction)
	}

	return nil
}

// =============================================================================

// Block reports whether the block is valid.
func Block(v signature.Verifier, b database.Block) bool {
	return CheckBlock(v, b) == nil
}

// CheckBlock rejects blocks holding an invalid transaction or whose stored
// hash doesn't match the hash of its contents.
func CheckBlock(v signature.Verifier, b database.Block) error {
	for i, tx := range b.Transactions {
		if err := CheckTransaction(v, tx); err != nil {
			return fmt.Errorf("%w: tx[%d]: %w", ErrInvalidBlock, i, err)
		}
	}

	if !b.IsSealed() {
		return fmt.Errorf("%w: block is not sealed", ErrInvalidBlock)
	}

	if hash := b.CalculateHash(); hash != b.Hash {
		return fmt.Errorf("%w: hash does not match contents, got %s, exp %s", ErrInvalidBlock, b.Hash, hash)
	}

	return nil
}

// =============================================================================

// Chain reports whether the chain is valid.
func Chain(v signature.Verifier, c *database.Chain) bool {
	return CheckChain(v, c) == nil
}

// CheckChain rejects chains without a proper genesis block, with a block not
// linked to the block before it, or holding an invalid block.
func CheckChain(v signature.Verifier, c *database.Chain) error {
	return checkBlocks(v, c.Blocks())
}

// MineableChain reports whether the mining chain is valid.
func MineableChain(v signature.Verifier, c *database.Chain) bool {
	return CheckMineableChain(v, c) == nil
}

// CheckMineableChain performs every CheckChain check and then rejects chains
// with a block hash that doesn't solve the difficulty, a block with more than
// one reward, a reward that isn't the policy reward, or a transfer that takes
// its source below zero.
func CheckMineableChain(v signature.Verifier, c *database.Chain) error {
	policy := c.Policy()
	blocks := c.Blocks()

	if err := checkBlocks(v, blocks); err != nil {
		return err
	}

	for i, b := range blocks {

		// The genesis block is the only block that is not mined.
		if i > 0 && !database.IsHashSolved(policy.Difficulty, b.Hash) {
			return fmt.Errorf("%w: blk[%d]: hash %s does not solve difficulty %d", ErrInvalidChain, i, b.Hash, policy.Difficulty)
		}

		var rewards int
		for j, tx := range b.Transactions {
			if !tx.IsReward() {
				continue
			}

			rewards++
			if rewards > 1 {
				return fmt.Errorf("%w: blk[%d]: tx[%d]: more than one reward", ErrInvalidChain, i, j)
			}

			if tx.Amount != policy.Reward {
				return fmt.Errorf("%w: blk[%d]: tx[%d]: reward %d, exp %d", ErrInvalidChain, i, j, tx.Amount, policy.Reward)
			}
		}
	}

	fn := func(blockIdx int, txIdx int, tx database.Tx, sheet *balance.Sheet, err error) error {
		if err != nil {
			return fmt.Errorf("%w: blk[%d]: tx[%d]: %w", ErrInvalidChain, blockIdx, txIdx, err)
		}
		return nil
	}

	return balance.Walk(blocks, fn)
}

// checkBlocks performs the structural checks shared by every chain.
func checkBlocks(v signature.Verifier, blocks []database.Block) error {
	if len(blocks) == 0 {
		return fmt.Errorf("%w: missing genesis block", ErrInvalidChain)
	}

	if blocks[0].PrevHash != "" {
		return fmt.Errorf("%w: genesis block has a previous hash", ErrInvalidChain)
	}

	for i, b := range blocks {
		if i > 0 {
			if b.PrevHash == "" {
				return fmt.Errorf("%w: blk[%d]: missing previous hash", ErrInvalidChain, i)
			}

			if b.PrevHash != blocks[i-1].Hash {
				return fmt.Errorf("%w: blk[%d]: previous hash doesn't match previous block, got %s, exp %s", ErrInvalidChain, i, b.PrevHash, blocks[i-1].Hash)
			}
		}

		if err := CheckBlock(v, b); err != nil {
			return fmt.Errorf("%w: blk[%d]: %w", ErrInvalidChain, i, err)
		}
	}

	return nil
}
