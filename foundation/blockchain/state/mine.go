package state

import (
	"context"

	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/database"
)

// miningBatch is the number of nonces tried between checks of the context.
const miningBatch = 50_000

// =============================================================================

// MineNewBlock attempts to create a new block with a proper hash that can become
// the next block in the chain. The pending transactions are bundled with the
// reward for the node's miner key. The search can be cancelled through the
// context between batches of nonces.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.evHandler("state: MineNewBlock: MINING: started")
	defer s.evHandler("state: MineNewBlock: MINING: completed")

	s.mu.RLock()
	job, err := s.miner.NewJob(s.chain, s.minerKey)
	s.mu.RUnlock()

	if err != nil {
		return database.Block{}, err
	}

	for _, tx := range job.Block().Transactions {
		s.evHandler("state: MineNewBlock: MINING: tx[%s]", tx)
	}

	// The job works on its own copy of the block so the chain stays
	// available to readers and submitters until the commit.
	for !job.Work(miningBatch) {
		if ctx.Err() != nil {
			s.evHandler("state: MineNewBlock: MINING: CANCELLED: attempts[%d]", job.Attempts())
			return database.Block{}, ctx.Err()
		}
		s.evHandler("state: MineNewBlock: MINING: attempts[%d]", job.Attempts())
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	s.mu.Lock()
	block, err := job.Commit()
	s.mu.Unlock()

	if err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: MineNewBlock: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: attempts[%d]", block.PrevHash, block.Hash, job.Attempts())

	return block, nil
}
