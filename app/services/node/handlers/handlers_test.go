package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/brycechampaign/education-cryptomoji/app/services/node/handlers"
	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/database"
	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/signature"
	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/state"
	"github.com/brycechampaign/education-cryptomoji/foundation/events"
	"github.com/brycechampaign/education-cryptomoji/foundation/nameservice"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	minerKey = "8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0"
	aliceKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
)

type env struct {
	mux   http.Handler
	state *state.State
	miner string
	alice string
}

func newEnv(t *testing.T) env {
	var signer signature.ECDSA

	st, err := state.New(state.Config{
		Policy:   database.MiningPolicy(1, 10),
		Signer:   signer,
		MinerKey: minerKey,
	})
	if err != nil {
		t.Fatalf("Should be able to construct the state: %s", err)
	}

	ns, err := nameservice.New(t.TempDir(), signer)
	if err != nil {
		t.Fatalf("Should be able to construct the name service: %s", err)
	}

	miner, _ := signer.PublicKey(minerKey)
	alice, _ := signer.PublicKey(aliceKey)

	mux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		State:    st,
		NS:       ns,
		Evts:     events.New(),
	})

	return env{mux: mux, state: st, miner: miner, alice: alice}
}

func (e env) do(t *testing.T, method string, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Should be able to encode the body: %s", err)
		}
	}

	r := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, r)

	return w
}

func Test_Ledger(t *testing.T) {
	e := newEnv(t)

	t.Log("Given the need to work with the ledger over http.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen adding a block without mining.", testID)
		{
			w := e.do(t, http.MethodPost, "/v1/blocks/add", nil)
			if w.Code != http.StatusMethodNotAllowed {
				t.Fatalf("\t%s\tTest %d:\tShould receive a 405 status code : %d", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould receive a 405 status code.", success, testID)

			if !strings.Contains(w.Body.String(), "must mine to add blocks") {
				t.Fatalf("\t%s\tTest %d:\tShould be told to mine : %s", failed, testID, w.Body.String())
			}
			t.Logf("\t%s\tTest %d:\tShould be told to mine.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen mining a block.", testID)
		{
			w := e.do(t, http.MethodPost, "/v1/blocks/mine", nil)
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest %d:\tShould receive a 200 status code : %d %s", failed, testID, w.Code, w.Body.String())
			}
			t.Logf("\t%s\tTest %d:\tShould receive a 200 status code.", success, testID)

			var blk struct {
				Hash string `json:"hash"`
			}
			if err := json.NewDecoder(w.Body).Decode(&blk); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould decode the block : %s", failed, testID, err)
			}
			if !database.IsHashSolved(1, blk.Hash) {
				t.Fatalf("\t%s\tTest %d:\tShould get a solved hash : %s", failed, testID, blk.Hash)
			}
			t.Logf("\t%s\tTest %d:\tShould get a solved hash.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen submitting a signed transfer.", testID)
		{
			var signer signature.ECDSA
			tx, err := database.NewTransferTx(signer, minerKey, e.alice, 4)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to sign : %s", failed, testID, err)
			}

			body := map[string]any{
				"source":    tx.Source,
				"recipient": tx.Recipient,
				"amount":    tx.Amount,
				"signature": tx.Signature,
			}
			w := e.do(t, http.MethodPost, "/v1/tx/submit", body)
			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest %d:\tShould receive a 200 status code : %d %s", failed, testID, w.Code, w.Body.String())
			}
			t.Logf("\t%s\tTest %d:\tShould receive a 200 status code.", success, testID)

			w = e.do(t, http.MethodGet, "/v1/tx/pending/list/"+e.alice, nil)
			var pending []map[string]any
			if err := json.NewDecoder(w.Body).Decode(&pending); err != nil || len(pending) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould list one pending transaction : %v %d", failed, testID, err, len(pending))
			}
			t.Logf("\t%s\tTest %d:\tShould list one pending transaction.", success, testID)

			body["amount"] = 5
			w = e.do(t, http.MethodPost, "/v1/tx/submit", body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest %d:\tShould reject a tampered amount : %d", failed, testID, w.Code)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a tampered amount.", success, testID)

			body["recipient"] = "nope"
			w = e.do(t, http.MethodPost, "/v1/tx/submit", body)
			if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "recipient") {
				t.Fatalf("\t%s\tTest %d:\tShould get a field error : %d %s", failed, testID, w.Code, w.Body.String())
			}
			t.Logf("\t%s\tTest %d:\tShould get a field error.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen mining the transfer and checking balances.", testID)
		{
			if w := e.do(t, http.MethodPost, "/v1/blocks/mine", nil); w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest %d:\tShould mine the transfer : %d", failed, testID, w.Code)
			}

			w := e.do(t, http.MethodGet, "/v1/accounts/list", nil)
			var ai struct {
				Pending  int `json:"pending"`
				Accounts []struct {
					Account string `json:"account"`
					Balance int64  `json:"balance"`
				} `json:"accounts"`
			}
			if err := json.NewDecoder(w.Body).Decode(&ai); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould decode the accounts : %s", failed, testID, err)
			}

			got := make(map[string]int64)
			for _, act := range ai.Accounts {
				got[act.Account] = act.Balance
			}
			if got[e.miner] != 16 || got[e.alice] != 4 || ai.Pending != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould get the right balances : %v pending %d", failed, testID, got, ai.Pending)
			}
			t.Logf("\t%s\tTest %d:\tShould get the right balances.", success, testID)

			w = e.do(t, http.MethodGet, "/v1/blocks/list/"+e.alice, nil)
			var blocks []map[string]any
			if err := json.NewDecoder(w.Body).Decode(&blocks); err != nil || len(blocks) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould find one block for alice : %v %d", failed, testID, err, len(blocks))
			}
			t.Logf("\t%s\tTest %d:\tShould find one block for alice.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen validating the chain.", testID)
		{
			w := e.do(t, http.MethodGet, "/v1/chain/validate", nil)
			var resp struct {
				Valid  bool `json:"valid"`
				Blocks int  `json:"blocks"`
			}
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil || !resp.Valid || resp.Blocks != 3 {
				t.Fatalf("\t%s\tTest %d:\tShould get a valid chain of 3 blocks : %v %+v", failed, testID, err, resp)
			}
			t.Logf("\t%s\tTest %d:\tShould get a valid chain of 3 blocks.", success, testID)
		}
	}
}

func Test_Genesis(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/v1/genesis", nil)

	var policy database.Policy
	if err := json.NewDecoder(w.Body).Decode(&policy); err != nil {
		t.Fatalf("Should decode the policy: %s", err)
	}

	if policy != database.MiningPolicy(1, 10) {
		t.Fatalf("Should get the node policy, got %+v.", policy)
	}
}
