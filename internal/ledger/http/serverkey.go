package http

import (
	"net/http"

	"github.com/verdigris-systems/ledgerd/pkg/httpx"
	"github.com/verdigris-systems/ledgerd/pkg/ledgersdk"
)

// ServerKeyHandler handles GET /v1/server-key
//
//	@Summary		Server Public Key
//	@Description	Returns the base64url Ed25519 public key used for signed responses, chain entries and counter-signatures.
//	@Tags			Ledger
//	@Produce		json
//	@Success		200	{object}	ledgersdk.ServerKeyResponse	"public-key, algorithm"
//	@Router			/v1/server-key [get].
func ServerKeyHandler(signer *ResponseSigner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, ledgersdk.ServerKeyResponse{
			PublicKey: signer.PublicKey(),
			Algorithm: "Ed25519",
		})
	}
}
