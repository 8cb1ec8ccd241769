package verify

import (
	"strconv"

	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/database"
)

// Tamper returns a copy of the chain that has been broken so it no longer
// passes validation. The latest block's previous hash has a bit flipped. A
// chain holding only the genesis block gets a transaction slipped into it.
// The original chain is left untouched.
func Tamper(c *database.Chain) *database.Chain {
	blocks := c.Blocks()

	switch n := len(blocks); {
	case n == 0:
		blocks = []database.Block{{PrevHash: "tampered"}}

	case n == 1:
		tx := database.Tx{Kind: database.TxReward, Recipient: "tampered", Amount: c.Policy().Reward}
		blocks[0].Transactions = append(blocks[0].Transactions, tx)

	default:
		blocks[n-1].PrevHash = flipBit(blocks[n-1].PrevHash)
	}

	return database.Load(c.Policy(), blocks)
}

// flipBit toggles the lowest bit of the first hex digit of the hash.
func flipBit(hash string) string {
	if hash == "" {
		return "1"
	}

	d, err := strconv.ParseUint(hash[:1], 16, 8)
	if err != nil {
		return "0" + hash[1:]
	}

	return strconv.FormatUint(d^1, 16) + hash[1:]
}
