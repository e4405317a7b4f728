package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/verdigris-systems/ledgerd/internal/ledger/service"
	"github.com/verdigris-systems/ledgerd/pkg/httpx"
	"github.com/verdigris-systems/ledgerd/pkg/ledgersdk"
	"github.com/verdigris-systems/ledgerd/pkg/slogx"
)

// CrossSignHandler serves counter-sign requests from peer ledgers.
type CrossSignHandler struct {
	CrossSign *service.CrossSignService
}

// ServeHTTP handles POST /v1/cross-sign
//
//	@Summary		Counter-Sign a Peer Tip
//	@Description	Signs the presented chain tip hash wrapped in a dated counter-sign envelope.
//	@Description	The signature is detached and verifies against the returned public key.
//	@Tags			Ledger
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ledgersdk.CrossSignRequest	true	"tip to counter-sign"
//	@Success		200		{object}	ledgersdk.CrossSignResponse	"payload, signature, public-key"
//	@Failure		406		{object}	ledgersdk.ErrorResponse		"malformed or empty body"
//	@Failure		500		{object}	ledgersdk.ErrorResponse		"unexpected condition"
//	@Router			/v1/cross-sign [post].
func (h *CrossSignHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req ledgersdk.CrossSignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusNotAcceptable, msgBadBody)
		return
	}
	if strings.TrimSpace(req.TipHash) == "" {
		writeError(w, http.StatusNotAcceptable, "POST body missing tip-hash field")
		return
	}

	resp, err := h.CrossSign.CounterSign(ctx, req)
	if err != nil {
		log.Error("counter-sign failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
