// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/brycechampaign/education-cryptomoji/app/services/node/handlers/v1/public"
	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/state"
	"github.com/brycechampaign/education-cryptomoji/foundation/events"
	"github.com/brycechampaign/education-cryptomoji/foundation/nameservice"
	"github.com/brycechampaign/education-cryptomoji/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		NS:    cfg.NS,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/accounts/list", pbl.Accounts)
	app.Handle(http.MethodGet, version, "/accounts/list/:account", pbl.Accounts)
	app.Handle(http.MethodGet, version, "/blocks/list", pbl.BlocksByAccount)
	app.Handle(http.MethodGet, version, "/blocks/list/:account", pbl.BlocksByAccount)
	app.Handle(http.MethodPost, version, "/blocks/add", pbl.AddBlock)
	app.Handle(http.MethodPost, version, "/blocks/mine", pbl.MineBlock)
	app.Handle(http.MethodGet, version, "/tx/pending/list", pbl.Pending)
	app.Handle(http.MethodGet, version, "/tx/pending/list/:account", pbl.Pending)
	app.Handle(http.MethodPost, version, "/tx/submit", pbl.SubmitTransaction)
	app.Handle(http.MethodGet, version, "/chain/validate", pbl.Validate)
}
