// Package balance derives account balances by replaying the transactions
// recorded on the chain. Balances are never stored on the chain itself.
package balance

import (
	"errors"
	"fmt"
	"sync"

	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/database"
)

// ErrInsufficientFunds is returned when a transfer takes an account below zero.
var ErrInsufficientFunds = errors.New("insufficient funds")

// =============================================================================

// Sheet represents the running balance of every public key seen so far.
type Sheet struct {
	sheet map[string]int64
	mu    sync.RWMutex
}

// NewSheet constructs an empty balance sheet.
func NewSheet() *Sheet {
	return &Sheet{
		sheet: make(map[string]int64),
	}
}

// Balance returns the current balance for the public key. Keys that were
// never seen have a balance of zero.
func (bs *Sheet) Balance(publicKey string) int64 {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	return bs.sheet[publicKey]
}

// Copy makes a copy of the current balance sheet but returns the raw data.
func (bs *Sheet) Copy() map[string]int64 {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	sheet := make(map[string]int64, len(bs.sheet))
	for publicKey, value := range bs.sheet {
		sheet[publicKey] = value
	}
	return sheet
}

// ApplyTransaction performs the accounting for a transaction. A reward only
// credits the recipient. A transfer debits the source and credits the
// recipient. The change is always applied, but if the debit leaves the
// source below zero ErrInsufficientFunds is returned.
func (bs *Sheet) ApplyTransaction(tx database.Tx) error {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	if tx.IsReward() {
		bs.sheet[tx.Recipient] += tx.Amount
		return nil
	}

	bs.sheet[tx.Source] -= tx.Amount
	bs.sheet[tx.Recipient] += tx.Amount

	if bal := bs.sheet[tx.Source]; bal < 0 {
		return fmt.Errorf("%w: %s has a balance of %d", ErrInsufficientFunds, tx.Source, bal)
	}

	return nil
}

// =============================================================================

// WalkFunc is called for every transaction in chain order after it has been
// applied to the sheet. The err is the result of applying the transaction.
// Returning a non-nil error stops the walk.
type WalkFunc func(blockIdx int, txIdx int, tx database.Tx, sheet *Sheet, err error) error

// Walk replays the transactions of the blocks in order.
func Walk(blocks []database.Block, fn WalkFunc) error {
	sheet := NewSheet()

	for i, block := range blocks {
		for j, tx := range block.Transactions {
			applyErr := sheet.ApplyTransaction(tx)
			if err := fn(i, j, tx, sheet, applyErr); err != nil {
				return err
			}
		}
	}

	return nil
}

// Replay returns the balance sheet after every transaction has been applied.
// Insufficient funds do not stop the replay.
func Replay(blocks []database.Block) *Sheet {
	sheet := NewSheet()

	for _, block := range blocks {
		for _, tx := range block.Transactions {
			sheet.ApplyTransaction(tx)
		}
	}

	return sheet
}

// Of returns the balance for the public key across the whole chain.
func Of(c *database.Chain, publicKey string) int64 {
	return Replay(c.Blocks()).Balance(publicKey)
}
