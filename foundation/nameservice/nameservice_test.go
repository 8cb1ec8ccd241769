package nameservice_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/signature"
	"github.com/brycechampaign/education-cryptomoji/foundation/nameservice"
)

func Test_Lookup(t *testing.T) {
	var signer signature.ECDSA
	root := t.TempDir()

	key, err := signature.GenerateKey()
	if err != nil {
		t.Fatalf("Should be able to generate a key: %s", err)
	}

	if err := signature.SavePrivateKey(filepath.Join(root, "kennedy.ecdsa"), key); err != nil {
		t.Fatalf("Should be able to save the key: %s", err)
	}

	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0600); err != nil {
		t.Fatalf("Should be able to write a file: %s", err)
	}

	ns, err := nameservice.New(root, signer)
	if err != nil {
		t.Fatalf("Should be able to construct the name service: %s", err)
	}

	pub, err := signer.PublicKey(key)
	if err != nil {
		t.Fatalf("Should be able to derive a public key: %s", err)
	}

	if name := ns.Lookup(pub); name != "kennedy" {
		t.Fatalf("Should find the name for the key, got %q.", name)
	}

	if name := ns.Lookup("unknown"); name != "unknown" {
		t.Fatalf("Should get the key back when it has no name, got %q.", name)
	}

	if len(ns.Copy()) != 1 {
		t.Fatalf("Should only load key files.")
	}
}
