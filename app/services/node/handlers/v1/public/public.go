// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/brycechampaign/education-cryptomoji/business/sys/validate"
	"github.com/brycechampaign/education-cryptomoji/business/web/errs"
	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/state"
	"github.com/brycechampaign/education-cryptomoji/foundation/events"
	"github.com/brycechampaign/education-cryptomoji/foundation/nameservice"
	"github.com/brycechampaign/education-cryptomoji/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Need this to handle CORS on the websocket.
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	// This upgrades the HTTP connection to a websocket connection.
	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// The trace id of the request identifies the subscription.
	ch, err := h.Evts.Acquire(v.TraceID)
	if err != nil {
		return nil
	}
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:

			// If the channel is closed, release the websocket.
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the chain policy the node was started with.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrievePolicy(), http.StatusOK)
}

// SubmitTransaction adds a signed transfer to the pending queue.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var stx submitTx
	if err := web.Decode(r, &stx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if err := validate.Check(stx); err != nil {
		return err
	}

	tx := stx.toTx()

	h.Log.Infow("add tran", "traceid", v.TraceID, "tx", tx)
	if err := h.State.SubmitTransaction(tx); err != nil {
		return errs.FromLedger(err)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "transaction added to pending",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// AddBlock attempts to append a block without mining it. Nodes run mining
// chains so this answers with the unsupported operation error.
func (h Handlers) AddBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var ab addBlock
	if r.ContentLength != 0 {
		if err := web.Decode(r, &ab); err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
	}

	dbBlock, err := h.State.AddBlock(ab.Transactions)
	if err != nil {
		return errs.FromLedger(err)
	}

	return web.Respond(ctx, w, toBlock(h.NS, dbBlock), http.StatusOK)
}

// MineBlock mines the pending transactions into a new block with the node's
// miner key. The search stops if the client goes away.
func (h Handlers) MineBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	dbBlock, err := h.State.MineNewBlock(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return errs.NewTrusted(err, http.StatusRequestTimeout)
		}
		return errs.FromLedger(err)
	}

	return web.Respond(ctx, w, toBlock(h.NS, dbBlock), http.StatusOK)
}

// Pending returns the transactions waiting to be mined.
func (h Handlers) Pending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := web.Param(r, "account")

	trans := []tx{}
	for _, dbTx := range h.State.RetrievePending() {
		if account != "" && account != dbTx.Source && account != dbTx.Recipient {
			continue
		}
		trans = append(trans, toTx(h.NS, dbTx))
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Accounts returns the current balances for all accounts, or the one
// requested.
func (h Handlers) Accounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := web.Param(r, "account")

	var balances map[string]int64
	switch account {
	case "":
		balances = h.State.QueryBalances()

	default:
		balances = map[string]int64{
			account: h.State.QueryBalance(account),
		}
	}

	acts := make([]info, 0, len(balances))
	for account, bal := range balances {
		act := info{
			Account: account,
			Name:    h.NS.Lookup(account),
			Balance: bal,
		}
		acts = append(acts, act)
	}

	sort.Slice(acts, func(i, j int) bool {
		return acts[i].Account < acts[j].Account
	})

	ai := actInfo{
		LatestBlock: h.State.RetrieveLatestBlock().Hash,
		Pending:     h.State.QueryPendingLength(),
		Accounts:    acts,
	}

	return web.Respond(ctx, w, ai, http.StatusOK)
}

// BlocksByAccount returns all the blocks, or only the ones that carry a
// transaction for the requested account.
func (h Handlers) BlocksByAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := web.Param(r, "account")

	dbBlocks := h.State.QueryBlocksByAccount(account)

	if len(dbBlocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, toBlocks(h.NS, dbBlocks), http.StatusOK)
}

// Validate audits the whole chain and reports the first problem found.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := audit{
		Valid:  true,
		Blocks: len(h.State.RetrieveBlocks()),
	}

	if err := h.State.Audit(); err != nil {
		resp.Valid = false
		resp.Error = err.Error()
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
