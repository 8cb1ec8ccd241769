package database

import (
	"fmt"
	"strconv"

	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/signature"
)

// TxKind identifies what a transaction does to the balances it touches.
type TxKind uint8

// Set of transaction kinds.
const (
	TxTransfer TxKind = iota // Moves value from the source to the recipient.
	TxReward                 // Mints the block reward to the recipient.
)

// String implements the fmt.Stringer interface.
func (k TxKind) String() string {
	switch k {
	case TxTransfer:
		return "transfer"
	case TxReward:
		return "reward"
	}
	return "unknown"
}

// MarshalText implements the encoding.TextMarshaler interface.
func (k TxKind) MarshalText() ([]byte, error) {
	switch k {
	case TxTransfer, TxReward:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("unknown transaction kind %d", k)
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (k *TxKind) UnmarshalText(data []byte) error {
	switch string(data) {
	case "transfer":
		*k = TxTransfer
	case "reward":
		*k = TxReward
	default:
		return fmt.Errorf("unknown transaction kind %q", data)
	}
	return nil
}

// =============================================================================

// Tx is a signed record of value moving between two public keys, or of a
// reward being minted to the recipient.
type Tx struct {
	Kind      TxKind `json:"kind"`
	Source    string `json:"source,omitempty"` // Empty for a reward.
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
	Signature string `json:"signature"`
}

// NewTx constructs and signs a transaction. When no recipient is provided the
// transaction is a reward paid to the owner of the private key. Nothing about
// the transaction is validated here, that is the job of the verify package.
func NewTx(signer signature.Signer, privateKey string, recipient string, amount int64) (Tx, error) {
	if recipient == "" {
		return NewRewardTx(signer, privateKey, amount)
	}
	return NewTransferTx(signer, privateKey, recipient, amount)
}

// NewTransferTx constructs a transaction sending value from the owner of the
// private key to the recipient.
func NewTransferTx(signer signature.Signer, privateKey string, recipient string, amount int64) (Tx, error) {
	source, err := signer.PublicKey(privateKey)
	if err != nil {
		return Tx{}, fmt.Errorf("deriving source: %w", err)
	}

	tx := Tx{
		Kind:      TxTransfer,
		Source:    source,
		Recipient: recipient,
		Amount:    amount,
	}

	return tx.sign(signer, privateKey)
}

// NewRewardTx constructs a transaction minting the amount to the owner of the
// private key.
func NewRewardTx(signer signature.Signer, privateKey string, amount int64) (Tx, error) {
	recipient, err := signer.PublicKey(privateKey)
	if err != nil {
		return Tx{}, fmt.Errorf("deriving recipient: %w", err)
	}

	tx := Tx{
		Kind:      TxReward,
		Recipient: recipient,
		Amount:    amount,
	}

	return tx.sign(signer, privateKey)
}

// IsReward reports whether the transaction mints new value.
func (tx Tx) IsReward() bool {
	return tx.Kind == TxReward
}

// SignerKey returns the public key the signature must verify against.
func (tx Tx) SignerKey() string {
	if tx.IsReward() {
		return tx.Recipient
	}
	return tx.Source
}

// Payload returns the message that is signed: source, recipient and amount
// concatenated in that order.
func (tx Tx) Payload() string {
	return tx.Source + tx.Recipient + strconv.FormatInt(tx.Amount, 10)
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	if tx.IsReward() {
		return fmt.Sprintf("reward:%s:%d", short(tx.Recipient), tx.Amount)
	}
	return fmt.Sprintf("%s->%s:%d", short(tx.Source), short(tx.Recipient), tx.Amount)
}

// sign attaches the signature for the current payload.
func (tx Tx) sign(signer signature.Signer, privateKey string) (Tx, error) {
	sig, err := signer.Sign(privateKey, tx.Payload())
	if err != nil {
		return Tx{}, fmt.Errorf("signing transaction: %w", err)
	}
	tx.Signature = sig

	return tx, nil
}

// short trims a key down for log output.
func short(key string) string {
	if len(key) <= 10 {
		return key
	}
	return key[:10]
}
