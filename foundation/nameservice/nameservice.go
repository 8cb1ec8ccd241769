// Package nameservice reads the key files in the accounts folder and creates
// a name lookup for the public keys they belong to.
package nameservice

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/signature"
)

// keyExtension is the extension of the private key files.
const keyExtension = ".ecdsa"

// NameService maintains a map of public keys for name lookup.
type NameService struct {
	accounts map[string]string
}

// New constructs a name service with the accounts found in the root folder.
// The name of an account is its key file name without the extension.
func New(root string, signer signature.Signer) (*NameService, error) {
	ns := NameService{
		accounts: make(map[string]string),
	}

	fn := func(fileName string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if d.IsDir() || filepath.Ext(fileName) != keyExtension {
			return nil
		}

		privateKey, err := signature.LoadPrivateKey(fileName)
		if err != nil {
			return err
		}

		publicKey, err := signer.PublicKey(privateKey)
		if err != nil {
			return fmt.Errorf("deriving public key for %q: %w", fileName, err)
		}

		ns.accounts[publicKey] = strings.TrimSuffix(filepath.Base(fileName), keyExtension)

		return nil
	}

	if err := filepath.WalkDir(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified public key, or the key itself
// when no name is known.
func (ns *NameService) Lookup(publicKey string) string {
	name, exists := ns.accounts[publicKey]
	if !exists {
		return publicKey
	}
	return name
}

// Copy returns a copy of the map of public keys and names.
func (ns *NameService) Copy() map[string]string {
	cpy := make(map[string]string, len(ns.accounts))
	for publicKey, name := range ns.accounts {
		cpy[publicKey] = name
	}
	return cpy
}
