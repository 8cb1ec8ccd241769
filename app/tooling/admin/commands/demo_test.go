package commands_test

import (
	"path/filepath"
	"testing"

	"github.com/brycechampaign/education-cryptomoji/app/tooling/admin/commands"
	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/signature"
	"go.uber.org/zap"
)

func newDemo(t *testing.T, keys int) commands.Demo {
	dir := t.TempDir()

	for i := range keys {
		key, err := signature.GenerateKey()
		if err != nil {
			t.Fatalf("Should be able to generate a key: %s", err)
		}

		path := filepath.Join(dir, string(rune('a'+i))+".ecdsa")
		if err := signature.SavePrivateKey(path, key); err != nil {
			t.Fatalf("Should be able to save a key: %s", err)
		}
	}

	return commands.Demo{
		Accounts:   dir,
		Difficulty: 1,
		Reward:     10,
		Blocks:     3,
	}
}

func Test_Commands(t *testing.T) {
	log := zap.NewNop().Sugar()

	if err := commands.RunDemo(log, newDemo(t, 2)); err != nil {
		t.Fatalf("Should be able to run the demo: %s", err)
	}

	if err := commands.RunTamper(log, newDemo(t, 2)); err != nil {
		t.Fatalf("Should catch the tampered chain: %s", err)
	}

	if err := commands.RunDemo(log, newDemo(t, 1)); err == nil {
		t.Fatalf("Should need at least two accounts.")
	}
}
