package replay

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/verdigris-systems/ledgerd/pkg/cryptox"
)

func newTestValidator(t *testing.T, window time.Duration, at time.Time) *Validator {
	t.Helper()

	cache := NewMemoryCache()
	cache.now = func() time.Time { return at }

	v := NewValidator(window, cache)
	v.now = func() time.Time { return at }
	return v
}

func TestValidatorAcceptsFreshRequest(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := newTestValidator(t, 5*time.Minute, now)

	err := v.Validate(context.Background(), now.Format(time.RFC3339), "nonce-1")
	require.NoError(t, err)
}

func TestValidatorRejectsMissingHeaders(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := newTestValidator(t, 5*time.Minute, now)

	var rErr *Error

	err := v.Validate(context.Background(), "", "nonce-1")
	require.ErrorAs(t, err, &rErr)
	require.Equal(t, http.StatusNotAcceptable, rErr.Status)
	require.Equal(t, "Request datetime or nonce missing", rErr.Message)

	err = v.Validate(context.Background(), now.Format(time.RFC3339), "")
	require.ErrorAs(t, err, &rErr)
	require.Equal(t, http.StatusNotAcceptable, rErr.Status)
}

func TestValidatorRejectsInvalidDatetime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := newTestValidator(t, 5*time.Minute, now)

	var rErr *Error
	err := v.Validate(context.Background(), "yesterday", "nonce-1")
	require.ErrorAs(t, err, &rErr)
	require.Equal(t, http.StatusNotAcceptable, rErr.Status)
	require.Equal(t, "Request datetime invalid", rErr.Message)
}

func TestValidatorRejectsStaleRequest(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := newTestValidator(t, 5*time.Minute, now)

	stale := now.Add(-10 * time.Minute)

	var rErr *Error
	err := v.Validate(context.Background(), stale.Format(time.RFC3339), "nonce-1")
	require.ErrorAs(t, err, &rErr)
	require.Equal(t, http.StatusNotAcceptable, rErr.Status)
	require.Equal(t, "Request datetime outside the acceptance window", rErr.Message)
}

func TestValidatorRejectsFutureRequest(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := newTestValidator(t, 5*time.Minute, now)

	future := now.Add(10 * time.Minute)

	var rErr *Error
	err := v.Validate(context.Background(), future.Format(time.RFC3339), "nonce-1")
	require.ErrorAs(t, err, &rErr)
	require.Equal(t, http.StatusNotAcceptable, rErr.Status)
}

func TestValidatorRejectsReplayedNonce(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	v := newTestValidator(t, 5*time.Minute, now)

	datetime := now.Format(time.RFC3339)

	require.NoError(t, v.Validate(context.Background(), datetime, "nonce-1"))

	var rErr *Error
	err := v.Validate(context.Background(), datetime, "nonce-1")
	require.ErrorAs(t, err, &rErr)
	require.Equal(t, http.StatusNotAcceptable, rErr.Status)
	require.Equal(t, "Request nonce already seen", rErr.Message)

	// A different nonce at the same instant is fine
	require.NoError(t, v.Validate(context.Background(), datetime, "nonce-2"))
}

func TestValidatorStoresNonceFingerprints(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cache := NewMemoryCache()
	cache.now = func() time.Time { return now }

	v := NewValidator(5*time.Minute, cache)
	v.now = func() time.Time { return now }

	require.NoError(t, v.Validate(context.Background(), now.Format(time.RFC3339), "nonce-1"))

	// The cache holds the fingerprint, never the caller's nonce text.
	fresh, err := cache.Remember(context.Background(), cryptox.FingerprintToken("nonce-1"), time.Minute)
	require.NoError(t, err)
	require.False(t, fresh)

	fresh, err = cache.Remember(context.Background(), "nonce-1", time.Minute)
	require.NoError(t, err)
	require.True(t, fresh)
}

func TestValidatorDisabledWindowPassesEverything(t *testing.T) {
	v := NewValidator(0, NewMemoryCache())

	require.NoError(t, v.Validate(context.Background(), "", ""))
	require.NoError(t, v.Validate(context.Background(), "garbage", "nonce"))
}

func TestMemoryCacheExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cache := NewMemoryCache()
	cache.now = func() time.Time { return now }

	fresh, err := cache.Remember(context.Background(), "n1", time.Minute)
	require.NoError(t, err)
	require.True(t, fresh)

	// Still inside the TTL
	fresh, err = cache.Remember(context.Background(), "n1", time.Minute)
	require.NoError(t, err)
	require.False(t, fresh)

	// After expiry the nonce is usable again
	cache.now = func() time.Time { return now.Add(2 * time.Minute) }
	fresh, err = cache.Remember(context.Background(), "n1", time.Minute)
	require.NoError(t, err)
	require.True(t, fresh)
}
