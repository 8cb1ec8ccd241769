// Package state is the core API for the ledger node. It owns a single chain
// and serializes every read and write against it.
package state

import (
	"errors"
	"fmt"
	"sync"

	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/balance"
	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/database"
	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/signature"
	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/verify"
)

// EventHandler defines a function that is called when events
// occur in the processing of transactions and blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for background mining.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
}

// =============================================================================

// Config represents the configuration required to start the node.
type Config struct {
	Policy    database.Policy
	Signer    signature.Signer
	MinerKey  string // Private key credited with the block rewards.
	AutoMine  bool   // Signal the worker to mine when a transaction arrives.
	EvHandler EventHandler
}

// State manages the blockchain for the node.
type State struct {
	mu sync.RWMutex

	signer    signature.Signer
	minerKey  string
	minerID   string
	autoMine  bool
	evHandler EventHandler

	chain *database.Chain
	miner *database.Miner

	Worker Worker
}

// New constructs the node state with a chain holding only the genesis block.
func New(cfg Config) (*State, error) {
	if cfg.Signer == nil {
		return nil, errors.New("a signer is required")
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	minerID, err := cfg.Signer.PublicKey(cfg.MinerKey)
	if err != nil {
		return nil, fmt.Errorf("deriving miner account: %w", err)
	}

	chain, err := database.New(cfg.Policy)
	if err != nil {
		return nil, err
	}

	state := State{
		signer:    cfg.Signer,
		minerKey:  cfg.MinerKey,
		minerID:   minerID,
		autoMine:  cfg.AutoMine,
		evHandler: ev,
		chain:     chain,
		miner:     database.NewMiner(cfg.Signer),
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// SubmitTransaction validates the transaction and adds it to the pending
// queue so it can be mined into the next block.
func (s *State) SubmitTransaction(tx database.Tx) error {
	if err := verify.CheckTransaction(s.signer, tx); err != nil {
		return err
	}

	if tx.IsReward() {
		return fmt.Errorf("%w: rewards are only minted by mining", verify.ErrInvalidTransaction)
	}

	s.mu.Lock()
	{
		// The source must be able to cover the transaction once everything
		// already pending has been applied, or the next block would leave
		// the chain invalid.
		sheet := balance.Replay(s.chain.Blocks())
		for _, ptx := range s.chain.Pending() {
			sheet.ApplyTransaction(ptx)
		}

		if err := sheet.ApplyTransaction(tx); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("%w: %w", verify.ErrInvalidTransaction, err)
		}

		s.chain.AddTransaction(tx)
	}
	s.mu.Unlock()

	s.evHandler("state: SubmitTransaction: tx[%s] added to pending", tx)

	if s.autoMine && s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return nil
}

// AddBlock attempts to add a block without mining it. This can only succeed
// on a chain without mining enabled.
func (s *State) AddBlock(trans []database.Tx) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	block, err := s.chain.AddBlock(trans)
	if err != nil {
		s.evHandler("state: AddBlock: rejected: %s", err)
		return database.Block{}, err
	}

	return block, nil
}
