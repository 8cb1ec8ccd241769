package database

import (
	"encoding/json"
	"strconv"

	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/signature"
)

// maxDifficulty is the length of a hex-encoded SHA-256 hash.
const maxDifficulty = 64

// =============================================================================

// Block represents a group of transactions linked to the block before it.
// A block with an empty hash has not been sealed yet.
type Block struct {
	Transactions []Tx   `json:"transactions"`
	PrevHash     string `json:"prev_hash"` // Empty only for the genesis block.
	Hash         string `json:"hash"`
	Nonce        uint64 `json:"nonce"`
}

// NewBlock constructs an unsealed block linked to the specified previous hash.
func NewBlock(trans []Tx, prevHash string) Block {
	return Block{
		Transactions: copyTrans(trans),
		PrevHash:     prevHash,
	}
}

// Genesis constructs the first block of every chain.
func Genesis() Block {
	b := NewBlock(nil, "")
	b.Seal(0)

	return b
}

// Seal sets the nonce and the hash that results from it. It can be called
// any number of times. Pointer semantics are being used since the block is
// updated in place.
func (b *Block) Seal(nonce uint64) string {
	b.Nonce = nonce
	b.Hash = ComputeHash(nonce, b.PrevHash, b.Transactions)

	return b.Hash
}

// CalculateHash returns the hash the block should have for its current
// nonce, previous hash and transactions.
func (b Block) CalculateHash() string {
	return ComputeHash(b.Nonce, b.PrevHash, b.Transactions)
}

// IsSealed reports whether the block has been given a hash.
func (b Block) IsSealed() bool {
	return b.Hash != ""
}

// String implements the fmt.Stringer interface for logging.
func (b Block) String() string {
	if !b.IsSealed() {
		return "unsealed"
	}
	return b.Hash
}

// clone returns a copy of the block that shares no memory with the original.
func (b Block) clone() Block {
	b.Transactions = copyTrans(b.Transactions)
	return b
}

// =============================================================================

// ComputeHash returns the SHA-256 digest of the nonce, the previous hash and
// the serialized transactions, in that order.
func ComputeHash(nonce uint64, prevHash string, trans []Tx) string {
	data := strconv.FormatUint(nonce, 10) + prevHash + serialize(trans)
	return signature.Hash([]byte(data))
}

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of 0's.
func IsHashSolved(difficulty uint, hash string) bool {
	if len(hash) != maxDifficulty || difficulty > maxDifficulty {
		return false
	}

	for i := range difficulty {
		if hash[i] != '0' {
			return false
		}
	}

	return true
}

// serialize produces the stable textual form of the transactions that is
// fed into the block hash. Order matters.
func serialize(trans []Tx) string {
	if trans == nil {
		trans = []Tx{}
	}

	// An unknown kind is the only marshal failure and it must still hash
	// to something reproducible.
	data, err := json.Marshal(trans)
	if err != nil {
		return "invalid:" + err.Error()
	}

	return string(data)
}

// copyTrans returns an independent copy of the transactions.
func copyTrans(trans []Tx) []Tx {
	if len(trans) == 0 {
		return []Tx{}
	}

	cpy := make([]Tx, len(trans))
	copy(cpy, trans)

	return cpy
}
