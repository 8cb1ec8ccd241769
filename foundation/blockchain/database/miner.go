package database

import (
	"errors"
	"fmt"

	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/signature"
)

// Set of errors returned when committing a mining job.
var (
	ErrNotSolved = errors.New("block has not been solved")
	ErrStaleJob  = errors.New("chain head changed while mining")
)

// firstNonce is where every search begins. Nonces are then tried in order
// so any search can be resumed from where it stopped.
const firstNonce = 1

// searchBatch is the number of nonces Mine tries per call to Work.
const searchBatch = 10_000

// =============================================================================

// Miner performs the proof of work that extends a mining chain.
type Miner struct {
	signer signature.Signer
}

// NewMiner constructs a miner that signs reward transactions with the
// specified signer.
func NewMiner(signer signature.Signer) *Miner {
	return &Miner{signer: signer}
}

// Mine mints the reward for the owner of the private key, bundles it after
// the pending transactions, searches for a nonce that solves the difficulty
// and appends the block. The search has no upper bound and can't be
// cancelled, callers that need one should drive a Job themselves.
func (m *Miner) Mine(c *Chain, privateKey string) (Block, error) {
	job, err := m.NewJob(c, privateKey)
	if err != nil {
		return Block{}, err
	}

	for !job.Work(searchBatch) {
	}

	return job.Commit()
}

// NewJob constructs the candidate block for the next mining operation
// without searching for a nonce.
func (m *Miner) NewJob(c *Chain, privateKey string) (*Job, error) {
	if !c.policy.Mining {
		return nil, ErrNotMineable
	}

	rewardTx, err := NewRewardTx(m.signer, privateKey, c.policy.Reward)
	if err != nil {
		return nil, fmt.Errorf("constructing reward: %w", err)
	}

	// The reward goes last since order is part of the hash.
	trans := append(c.Pending(), rewardTx)

	job := Job{
		chain:      c,
		block:      NewBlock(trans, c.Head().Hash),
		difficulty: c.policy.Difficulty,
		included:   len(trans) - 1,
		next:       firstNonce,
	}

	return &job, nil
}

// =============================================================================

// Job is a resumable proof of work search for one candidate block. A job is
// owned by a single goroutine. Work does not touch the chain, so it can run
// while other goroutines hold the chain, but Commit must be serialized with
// every other chain write.
type Job struct {
	chain      *Chain
	block      Block
	difficulty uint
	included   int
	next       uint64
	attempts   uint64
	solved     bool
}

// Work tries the next set of nonces in order and reports whether the block
// has been solved.
func (j *Job) Work(trials uint64) bool {
	for i := uint64(0); i < trials && !j.solved; i++ {
		hash := j.block.Seal(j.next)
		j.attempts++
		j.next++

		if IsHashSolved(j.difficulty, hash) {
			j.solved = true
		}
	}

	return j.solved
}

// Solved reports whether a nonce has been found.
func (j *Job) Solved() bool {
	return j.solved
}

// Attempts returns the number of nonces tried so far.
func (j *Job) Attempts() uint64 {
	return j.attempts
}

// Block returns a copy of the candidate block in its current state.
func (j *Job) Block() Block {
	return j.block.clone()
}

// Commit appends the solved block to the chain and removes the transactions
// it carries from the pending queue.
func (j *Job) Commit() (Block, error) {
	if !j.solved {
		return Block{}, ErrNotSolved
	}

	if j.chain.Head().Hash != j.block.PrevHash {
		return Block{}, ErrStaleJob
	}

	j.chain.commit(j.block, j.included)

	return j.block.clone(), nil
}
