// Package database maintains the in memory blockchain: transactions, blocks,
// the chain that links them and the proof of work that extends it.
package database

import (
	"errors"
	"fmt"
)

// ErrMustMine is returned when a block is added directly to a chain that
// can only be extended by mining.
var ErrMustMine = fmt.Errorf("must mine to add blocks to this blockchain: %w", errors.ErrUnsupported)

// ErrNotMineable is returned when mining is attempted on a chain that was
// not constructed with a mining policy.
var ErrNotMineable = fmt.Errorf("chain does not have mining enabled: %w", errors.ErrUnsupported)

// =============================================================================

// Policy represents the chain wide parameters.
type Policy struct {
	Difficulty uint  `json:"difficulty"` // Number of leading hex 0's a block hash needs.
	Reward     int64 `json:"reward"`     // Amount minted to the miner of each block.
	Mining     bool  `json:"mining"`     // Blocks can only be added by mining.
}

// MiningPolicy constructs a policy for a chain extended by proof of work.
func MiningPolicy(difficulty uint, reward int64) Policy {
	return Policy{
		Difficulty: difficulty,
		Reward:     reward,
		Mining:     true,
	}
}

// PlainPolicy constructs a policy for a chain blocks are added to directly.
func PlainPolicy() Policy {
	return Policy{}
}

// Validate checks the policy can be satisfied.
func (p Policy) Validate() error {
	if p.Difficulty > maxDifficulty {
		return fmt.Errorf("difficulty %d is larger than the hash length %d", p.Difficulty, maxDifficulty)
	}

	if p.Reward < 0 {
		return fmt.Errorf("reward %d can't be negative", p.Reward)
	}

	return nil
}

// =============================================================================

// Chain manages the blocks of the blockchain and the transactions waiting to
// be mined. A Chain is not safe for concurrent use, a single writer is
// expected to own it.
type Chain struct {
	policy  Policy
	blocks  []Block
	pending []Tx
}

// New constructs a chain holding only the genesis block.
func New(policy Policy) (*Chain, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}

	c := Chain{
		policy: policy,
		blocks: []Block{Genesis()},
	}

	return &c, nil
}

// Load constructs a chain from blocks that were captured from another chain.
// Nothing is validated, use the verify package to audit the result.
func Load(policy Policy, blocks []Block) *Chain {
	c := Chain{
		policy: policy,
		blocks: make([]Block, len(blocks)),
	}

	for i, b := range blocks {
		c.blocks[i] = b.clone()
	}

	return &c
}

// Policy returns the chain parameters.
func (c *Chain) Policy() Policy {
	return c.policy
}

// Len returns the number of blocks including genesis.
func (c *Chain) Len() int {
	return len(c.blocks)
}

// Block returns a copy of the block at the specified index.
func (c *Chain) Block(i int) (Block, bool) {
	if i < 0 || i >= len(c.blocks) {
		return Block{}, false
	}
	return c.blocks[i].clone(), true
}

// Head returns a copy of the latest block.
func (c *Chain) Head() Block {
	if len(c.blocks) == 0 {
		return Block{}
	}
	return c.blocks[len(c.blocks)-1].clone()
}

// Blocks returns a copy of every block in chain order.
func (c *Chain) Blocks() []Block {
	blocks := make([]Block, len(c.blocks))
	for i, b := range c.blocks {
		blocks[i] = b.clone()
	}
	return blocks
}

// Pending returns a copy of the transactions waiting to be mined.
func (c *Chain) Pending() []Tx {
	return copyTrans(c.pending)
}

// AddTransaction stores the transaction until it can be mined.
func (c *Chain) AddTransaction(tx Tx) {
	c.pending = append(c.pending, tx)
}

// AddBlock links and seals a block of transactions onto a plain chain.
// Chains with mining enabled always reject this call with ErrMustMine.
func (c *Chain) AddBlock(trans []Tx) (Block, error) {
	if c.policy.Mining {
		return Block{}, ErrMustMine
	}

	b := NewBlock(trans, c.Head().Hash)
	b.Seal(0)
	c.blocks = append(c.blocks, b)

	return b.clone(), nil
}

// commit appends a sealed block and drops the first n pending transactions,
// which are the ones the block was built from.
func (c *Chain) commit(b Block, n int) {
	c.blocks = append(c.blocks, b.clone())

	if n >= len(c.pending) {
		c.pending = nil
		return
	}
	c.pending = copyTrans(c.pending[n:])
}
