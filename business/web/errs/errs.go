// Package errs provides the error types the web layer uses to answer
// failed requests.
package errs

import (
	"errors"
	"net/http"

	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/balance"
	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/database"
	"github.com/brycechampaign/education-cryptomoji/foundation/blockchain/verify"
)

// Response is the form used for API responses from failures in the API.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted is used to pass an error during the request through the
// application with web specific context. The message of a trusted error is
// safe to show the client.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted wraps a provided error with an HTTP status code. This
// function should be used when handlers encounter expected errors.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Error implements the error interface. It uses the default message of the
// wrapped error. This is what will be shown in the services' logs.
func (te *Trusted) Error() string {
	return te.Err.Error()
}

// Unwrap returns the wrapped error.
func (te *Trusted) Unwrap() error {
	return te.Err
}

// IsTrusted checks if an error of type Trusted exists.
func IsTrusted(err error) bool {
	var te *Trusted
	return errors.As(err, &te)
}

// GetTrusted returns a copy of the Trusted pointer.
func GetTrusted(err error) *Trusted {
	var te *Trusted
	if !errors.As(err, &te) {
		return nil
	}
	return te
}

// =============================================================================

// FromLedger marks the errors the ledger returns for bad input or disallowed
// operations as trusted with the status that describes them. Any other error
// is returned as is.
func FromLedger(err error) error {
	if err == nil || IsTrusted(err) {
		return err
	}

	switch {
	case errors.Is(err, errors.ErrUnsupported):
		return NewTrusted(err, http.StatusMethodNotAllowed)

	case errors.Is(err, verify.ErrInvalidTransaction),
		errors.Is(err, verify.ErrInvalidBlock),
		errors.Is(err, balance.ErrInsufficientFunds):
		return NewTrusted(err, http.StatusBadRequest)

	case errors.Is(err, database.ErrStaleJob):
		return NewTrusted(err, http.StatusConflict)
	}

	return err
}
