package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/database"
	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/verify"
)

func run(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func Test_GenerateAndSend(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "generate", "-p", dir, "-a", "kennedy")
	if err != nil {
		t.Fatalf("Should be able to generate a key: %s", err)
	}
	publicKey := strings.TrimSpace(out)

	if _, err := run(t, "generate", "-p", dir, "-a", "kennedy"); err == nil {
		t.Fatalf("Should refuse to overwrite a key file.")
	}

	out, err = run(t, "account", "-p", dir, "-a", "kennedy.ecdsa")
	if err != nil || strings.TrimSpace(out) != publicKey {
		t.Fatalf("Should print the same public key: %v %q", err, out)
	}

	var got database.Tx
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/tx/submit" {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	recipient := "029c1b1bd9fa6fb0347b2e2f6838dfb4d8ea4ae05d46d1bce90e141951dd8d5c89"
	if _, err := run(t, "send", "-p", dir, "-a", "kennedy", "-u", srv.URL, "-t", recipient, "-v", "7"); err != nil {
		t.Fatalf("Should be able to send: %s", err)
	}

	if got.Source != publicKey || got.Recipient != recipient || got.Amount != 7 {
		t.Fatalf("Should submit the transfer, got %+v.", got)
	}

	if !verify.Transaction(signer, got) {
		t.Fatalf("Should submit a transfer that verifies.")
	}
}

func Test_NodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMethodNotAllowed)
		w.Write([]byte(`{"error":"chain does not have mining enabled"}`))
	}))
	defer srv.Close()

	_, err := run(t, "mine", "-u", srv.URL, "-p", filepath.Join(t.TempDir(), "none"))
	if err == nil || !strings.Contains(err.Error(), "mining enabled") {
		t.Fatalf("Should surface the node error: %v", err)
	}
}
