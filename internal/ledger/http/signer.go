package http

import (
	"crypto/ed25519"
	"encoding/json"
	"net/http"
	"time"

	"github.com/verdigris-systems/ledgerd/pkg/cryptox"
	"github.com/verdigris-systems/ledgerd/pkg/httpx"
	"github.com/verdigris-systems/ledgerd/pkg/ledgersdk"
)

// ResponseSigner writes JSON responses whose body carries a detached
// Ed25519 signature in the response headers, so callers can authenticate
// the reply independently of transport security.
type ResponseSigner struct {
	Key ed25519.PrivateKey

	// Now is replaceable for tests.
	Now func() time.Time
}

// NewResponseSigner creates a signer around the server's long-term key.
func NewResponseSigner(key ed25519.PrivateKey) *ResponseSigner {
	return &ResponseSigner{Key: key, Now: time.Now}
}

// Datetime returns the RFC3339 timestamp stamped into envelopes.
func (s *ResponseSigner) Datetime() string {
	return s.Now().UTC().Format(time.RFC3339)
}

// PublicKey returns the base64url server public key delivered alongside
// signatures.
func (s *ResponseSigner) PublicKey() string {
	return cryptox.EncodePublicKey(s.Key.Public().(ed25519.PublicKey))
}

// WriteSigned writes v as JSON with the detached body signature in
// X-Ledger-Signature and the server public key in X-Ledger-Key. Existing
// headers are preserved.
func (s *ResponseSigner) WriteSigned(w http.ResponseWriter, code int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(ledgersdk.HeaderSignature, cryptox.SignDetached(s.Key, body))
	w.Header().Set(ledgersdk.HeaderKey, s.PublicKey())
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
