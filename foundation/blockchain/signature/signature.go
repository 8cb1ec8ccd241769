// Package signature provides the signing capability the ledger relies on and
// the digest used for block hashes.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// Verifier represents the behavior required to check a signature produced
// by a Signer.
type Verifier interface {
	Verify(publicKey string, message string, sig string) bool
}

// Signer represents the behavior required to derive public keys and sign
// messages. Keys and signatures are hex-encoded strings.
type Signer interface {
	Verifier
	PublicKey(privateKey string) (string, error)
	Sign(privateKey string, message string) (string, error)
}

// =============================================================================

// Hash returns the lowercase hex-encoded SHA-256 digest of the data.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// =============================================================================

// ECDSA implements the Signer interface with secp256k1 keys.
type ECDSA struct{}

// PublicKey returns the compressed public key for the specified private key.
func (ECDSA) PublicKey(privateKey string) (string, error) {
	pk, err := toECDSA(privateKey)
	if err != nil {
		return "", err
	}

	return encodePublicKey(&pk.PublicKey), nil
}

// Sign uses the specified private key to sign the message. The signature
// is returned in the 64 byte [R|S] format.
func (ECDSA) Sign(privateKey string, message string) (string, error) {
	pk, err := toECDSA(privateKey)
	if err != nil {
		return "", err
	}

	sig, err := crypto.Sign(stamp(message), pk)
	if err != nil {
		return "", err
	}

	// The recovery id is not needed since the public key travels with
	// the message being verified.
	return hex.EncodeToString(sig[:crypto.RecoveryIDOffset]), nil
}

// Verify checks the signature was produced over the message by the private
// key belonging to the specified public key.
func (ECDSA) Verify(publicKey string, message string, sig string) bool {
	pub, err := decode(publicKey)
	if err != nil {
		return false
	}

	rs, err := decode(sig)
	if err != nil || len(rs) != crypto.RecoveryIDOffset {
		return false
	}

	return crypto.VerifySignature(pub, stamp(message), rs)
}

// =============================================================================

// GenerateKey produces a new private key.
func GenerateKey() (string, error) {
	pk, err := crypto.GenerateKey()
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(crypto.FromECDSA(pk)), nil
}

// LoadPrivateKey reads a private key from an .ecdsa key file.
func LoadPrivateKey(path string) (string, error) {
	pk, err := crypto.LoadECDSA(path)
	if err != nil {
		return "", fmt.Errorf("loading key %q: %w", path, err)
	}

	return hex.EncodeToString(crypto.FromECDSA(pk)), nil
}

// SavePrivateKey writes the private key to the specified key file.
func SavePrivateKey(path string, privateKey string) error {
	pk, err := toECDSA(privateKey)
	if err != nil {
		return err
	}

	return crypto.SaveECDSA(path, pk)
}

// =============================================================================

// stamp returns a hash of 32 bytes that represents the message with the
// cryptomoji stamp embedded into the final hash.
func stamp(message string) []byte {
	msgHash := crypto.Keccak256([]byte(message))

	// This stamp is used so signatures we produce are always unique
	// to this ledger.
	stamp := []byte("\x19Cryptomoji Signed Message:\n32")

	return crypto.Keccak256(stamp, msgHash)
}

// toECDSA converts a hex-encoded private key into its ecdsa form.
func toECDSA(privateKey string) (*ecdsa.PrivateKey, error) {
	if privateKey == "" {
		return nil, errors.New("missing private key")
	}

	pk, err := crypto.HexToECDSA(strings.TrimPrefix(privateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return pk, nil
}

// encodePublicKey returns the hex form of the compressed public key.
func encodePublicKey(pub *ecdsa.PublicKey) string {
	return hex.EncodeToString(crypto.CompressPubkey(pub))
}

// decode converts a hex string with an optional 0x prefix into bytes.
func decode(s string) ([]byte, error) {
	if s == "" {
		return nil, errors.New("empty value")
	}

	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}
