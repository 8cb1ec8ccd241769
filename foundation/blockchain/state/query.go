package state

import (
	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/balance"
	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/database"
	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/verify"
)

// RetrievePolicy returns the chain parameters.
func (s *State) RetrievePolicy() database.Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.chain.Policy()
}

// RetrieveMinerAccount returns the public key credited with block rewards.
func (s *State) RetrieveMinerAccount() string {
	return s.minerID
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.chain.Head()
}

// RetrieveBlocks returns a copy of every block in the chain.
func (s *State) RetrieveBlocks() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.chain.Blocks()
}

// RetrievePending returns a copy of the pending transactions.
func (s *State) RetrievePending() []database.Tx {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.chain.Pending()
}

// QueryPendingLength returns the number of transactions waiting to be mined.
func (s *State) QueryPendingLength() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.chain.Pending())
}

// QueryBalance returns the balance for the public key as of the latest block.
func (s *State) QueryBalance(publicKey string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return balance.Of(s.chain, publicKey)
}

// QueryBalances returns the balance of every public key seen on the chain.
func (s *State) QueryBalances() map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return balance.Replay(s.chain.Blocks()).Copy()
}

// QueryBlocksByAccount returns the blocks holding a transaction where the
// public key is the source or the recipient. An empty key returns all blocks.
func (s *State) QueryBlocksByAccount(publicKey string) []database.Block {
	blocks := s.RetrieveBlocks()
	if publicKey == "" {
		return blocks
	}

	var out []database.Block
	for _, block := range blocks {
		for _, tx := range block.Transactions {
			if tx.Source == publicKey || tx.Recipient == publicKey {
				out = append(out, block)
				break
			}
		}
	}

	return out
}

// Audit runs the validation a chain of this policy calls for and returns the
// first problem found.
func (s *State) Audit() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.chain.Policy().Mining {
		return verify.CheckMineableChain(s.signer, s.chain)
	}
	return verify.CheckChain(s.signer, s.chain)
}
