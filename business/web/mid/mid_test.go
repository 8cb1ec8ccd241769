package mid_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/brycechampaign/education-cryptomoji/business/sys/validate"
	"github.com/brycechampaign/education-cryptomoji/business/web/errs"
	"github.com/brycechampaign/education-cryptomoji/business/web/mid"
	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/database"
	"github.com/brycechampaign/education-cryptomoji/foundation/web"
	"go.uber.org/zap"
)

func Test_Errors(t *testing.T) {
	log := zap.NewNop().Sugar()
	app := web.NewApp(make(chan os.Signal, 1), mid.Logger(log), mid.Errors(log), mid.Metrics(), mid.Cors("*"), mid.Panics())

	app.Handle(http.MethodPost, "v1", "/mine", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return errs.FromLedger(database.ErrMustMine)
	})
	app.Handle(http.MethodPost, "v1", "/fields", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return validate.FieldErrors{{Field: "amount", Error: "amount is required"}}
	})
	app.Handle(http.MethodGet, "v1", "/panic", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		panic("boom")
	})

	tt := []struct {
		name   string
		method string
		path   string
		status int
		field  string
	}{
		{"trusted", http.MethodPost, "/v1/mine", http.StatusMethodNotAllowed, ""},
		{"fields", http.MethodPost, "/v1/fields", http.StatusBadRequest, "amount"},
		{"panic", http.MethodGet, "/v1/panic", http.StatusInternalServerError, ""},
	}

	for _, tst := range tt {
		t.Run(tst.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(tst.method, tst.path, nil))

			if w.Code != tst.status {
				t.Fatalf("Should get status %d, got %d.", tst.status, w.Code)
			}

			if w.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Fatalf("Should set the CORS headers.")
			}

			var resp errs.Response
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Should decode the error response: %s", err)
			}

			if resp.Error == "" {
				t.Fatalf("Should get an error message.")
			}

			if tst.field != "" {
				if _, exists := resp.Fields[tst.field]; !exists {
					t.Fatalf("Should get the field error for %q: %v", tst.field, resp.Fields)
				}
			}
		})
	}
}
