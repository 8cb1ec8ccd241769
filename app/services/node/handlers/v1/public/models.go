package public

import (
	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/database"
	"github.com/brycechampaign/education-cryptomoji/foundation/nameservice"
)

// submitTx is the signed transfer a wallet submits to the node.
type submitTx struct {
	Source    string `json:"source" validate:"required,hexadecimal,len=66"`
	Recipient string `json:"recipient" validate:"required,hexadecimal,len=66"`
	Amount    int64  `json:"amount" validate:"gte=0"`
	Signature string `json:"signature" validate:"required,hexadecimal,len=128"`
}

func (stx submitTx) toTx() database.Tx {
	return database.Tx{
		Kind:      database.TxTransfer,
		Source:    stx.Source,
		Recipient: stx.Recipient,
		Amount:    stx.Amount,
		Signature: stx.Signature,
	}
}

// addBlock is the set of transactions a client asks to be added directly.
type addBlock struct {
	Transactions []database.Tx `json:"transactions"`
}

// =============================================================================

type tx struct {
	Kind          string `json:"kind"`
	Source        string `json:"source,omitempty"`
	SourceName    string `json:"source_name,omitempty"`
	Recipient     string `json:"recipient"`
	RecipientName string `json:"recipient_name"`
	Amount        int64  `json:"amount"`
	Signature     string `json:"signature"`
}

func toTx(ns *nameservice.NameService, dbTx database.Tx) tx {
	t := tx{
		Kind:          dbTx.Kind.String(),
		Source:        dbTx.Source,
		Recipient:     dbTx.Recipient,
		RecipientName: ns.Lookup(dbTx.Recipient),
		Amount:        dbTx.Amount,
		Signature:     dbTx.Signature,
	}

	if dbTx.Source != "" {
		t.SourceName = ns.Lookup(dbTx.Source)
	}

	return t
}

func toTxs(ns *nameservice.NameService, dbTrans []database.Tx) []tx {
	trans := make([]tx, len(dbTrans))
	for i, dbTx := range dbTrans {
		trans[i] = toTx(ns, dbTx)
	}
	return trans
}

type block struct {
	Hash         string `json:"hash"`
	PrevHash     string `json:"prev_hash"`
	Nonce        uint64 `json:"nonce"`
	Transactions []tx   `json:"transactions"`
}

func toBlock(ns *nameservice.NameService, dbBlock database.Block) block {
	return block{
		Hash:         dbBlock.Hash,
		PrevHash:     dbBlock.PrevHash,
		Nonce:        dbBlock.Nonce,
		Transactions: toTxs(ns, dbBlock.Transactions),
	}
}

func toBlocks(ns *nameservice.NameService, dbBlocks []database.Block) []block {
	blocks := make([]block, len(dbBlocks))
	for i, dbBlock := range dbBlocks {
		blocks[i] = toBlock(ns, dbBlock)
	}
	return blocks
}

type info struct {
	Account string `json:"account"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

type actInfo struct {
	LatestBlock string `json:"latest_block"`
	Pending     int    `json:"pending"`
	Accounts    []info `json:"accounts"`
}

type audit struct {
	Valid  bool   `json:"valid"`
	Blocks int    `json:"blocks"`
	Error  string `json:"error,omitempty"`
}
