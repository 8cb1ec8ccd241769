package web_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/brycechampaign/education-cryptomoji/foundation/web"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Handle(t *testing.T) {
	t.Log("Given the need to route requests through the app.")
	{
		shutdown := make(chan os.Signal, 1)

		var order []string
		mark := func(name string) web.Middleware {
			return func(handler web.Handler) web.Handler {
				return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
					order = append(order, name)
					return handler(ctx, w, r)
				}
			}
		}

		app := web.NewApp(shutdown, mark("app"))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			v, err := web.GetValues(ctx)
			if err != nil {
				return err
			}
			if v.TraceID == "" {
				return errors.New("missing trace id")
			}

			resp := struct {
				Account string `json:"account"`
			}{
				Account: web.Param(r, "account"),
			}
			return web.Respond(ctx, w, resp, http.StatusOK)
		}
		app.Handle(http.MethodGet, "v1", "/accounts/:account", h, mark("route"))

		t.Logf("\tTest 0:\tWhen handling a request with a path parameter.")
		{
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/v1/accounts/kennedy", nil)
			app.ServeHTTP(w, r)

			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould receive a 200 status code : %d", failed, w.Code)
			}
			t.Logf("\t%s\tTest 0:\tShould receive a 200 status code.", success)

			if !strings.Contains(w.Body.String(), `"account":"kennedy"`) {
				t.Fatalf("\t%s\tTest 0:\tShould get the parameter back : %s", failed, w.Body.String())
			}
			t.Logf("\t%s\tTest 0:\tShould get the parameter back.", success)

			if strings.Join(order, ",") != "app,route" {
				t.Fatalf("\t%s\tTest 0:\tShould run app middleware first : %v", failed, order)
			}
			t.Logf("\t%s\tTest 0:\tShould run app middleware first.", success)
		}

		t.Logf("\tTest 1:\tWhen a handler returns an error nothing handles.")
		{
			app.Handle(http.MethodGet, "", "/broken", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return web.NewShutdownError("integrity issue")
			})

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/broken", nil)
			app.ServeHTTP(w, r)

			select {
			case <-shutdown:
				t.Logf("\t%s\tTest 1:\tShould signal a shutdown.", success)
			default:
				t.Fatalf("\t%s\tTest 1:\tShould signal a shutdown.", failed)
			}
		}
	}
}

func Test_Decode(t *testing.T) {
	var v struct {
		Amount int64 `json:"amount"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":5}`))
	if err := web.Decode(r, &v); err != nil || v.Amount != 5 {
		t.Fatalf("Should decode the payload: %v %d", err, v.Amount)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":5,"tip":1}`))
	if err := web.Decode(r, &v); err == nil {
		t.Fatalf("Should reject unknown fields.")
	}
}

func Test_IsShutdown(t *testing.T) {
	err := web.NewShutdownError("stop")
	if !web.IsShutdown(err) {
		t.Fatalf("Should identify a shutdown error.")
	}

	if web.IsShutdown(errors.New("stop")) {
		t.Fatalf("Should not identify a plain error.")
	}
}
