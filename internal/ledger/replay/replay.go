// Package replay rejects stale and replayed requests.
//
// Callers date their request with the X-Ledger-Datetime header and attach a
// unique X-Ledger-Nonce. The validator rejects timestamps outside the
// configured window and nonces it has already seen inside that window.
package replay

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/verdigris-systems/ledgerd/pkg/cryptox"
)

// Error is a validation failure carrying the status code and message the
// HTTP layer must surface verbatim.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("replay: %d: %s", e.Status, e.Message)
}

// NonceCache remembers nonce fingerprints for the freshness window.
// Remember returns false when the value was already present.
type NonceCache interface {
	Remember(ctx context.Context, nonce string, ttl time.Duration) (bool, error)
}

// Validator checks request freshness against a time window and a nonce
// cache.
type Validator struct {
	window time.Duration
	cache  NonceCache

	// now is replaceable for tests
	now func() time.Time
}

// NewValidator creates a freshness validator. A zero window disables
// checking entirely: Validate always passes.
func NewValidator(window time.Duration, cache NonceCache) *Validator {
	return &Validator{
		window: window,
		cache:  cache,
		now:    time.Now,
	}
}

// Validate checks the freshness headers of the request. It returns a typed
// *Error on rejection so the handler can map status and message directly.
func (v *Validator) Validate(ctx context.Context, datetime, nonce string) error {
	if v.window <= 0 {
		return nil
	}

	if datetime == "" || nonce == "" {
		return &Error{
			Status:  http.StatusNotAcceptable,
			Message: "Request datetime or nonce missing",
		}
	}

	ts, err := time.Parse(time.RFC3339, datetime)
	if err != nil {
		return &Error{
			Status:  http.StatusNotAcceptable,
			Message: "Request datetime invalid",
		}
	}

	now := v.now().UTC()
	skew := now.Sub(ts.UTC())
	if skew < 0 {
		skew = -skew
	}
	if skew > v.window {
		return &Error{
			Status:  http.StatusNotAcceptable,
			Message: "Request datetime outside the acceptance window",
		}
	}

	// Keep the nonce for twice the window so a replay right at the window
	// edge still hits the cache. The cache stores a fingerprint, not the
	// caller's nonce text.
	fresh, err := v.cache.Remember(ctx, cryptox.FingerprintToken(nonce), 2*v.window)
	if err != nil {
		return &Error{
			Status:  http.StatusInternalServerError,
			Message: "Nonce cache unavailable",
		}
	}
	if !fresh {
		return &Error{
			Status:  http.StatusNotAcceptable,
			Message: "Request nonce already seen",
		}
	}

	return nil
}
