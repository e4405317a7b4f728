package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/verdigris-systems/ledgerd/internal/ledger/metrics"
	"github.com/verdigris-systems/ledgerd/internal/ledger/replay"
	"github.com/verdigris-systems/ledgerd/internal/ledger/service"
	"github.com/verdigris-systems/ledgerd/pkg/cryptox"
	"github.com/verdigris-systems/ledgerd/pkg/httpx"
	"github.com/verdigris-systems/ledgerd/pkg/ledgersdk"
	"github.com/verdigris-systems/ledgerd/pkg/slogx"
)

// RegisterHandler runs the registration pipeline: authorization gate,
// request validation, identity issuance, optional chain publication, signed
// response.
type RegisterHandler struct {
	Registration *service.RegistrationService
	Publisher    *service.ChainPublisher
	CrossSign    *service.CrossSignService
	Replay       *replay.Validator
	Signer       *ResponseSigner
	Metrics      *metrics.Metrics

	// PublishNewClients controls whether successful registrations are also
	// appended to the hash chain.
	PublishNewClients bool
}

// ServeHTTP handles POST /v1/clients
//
//	@Summary		Register Client
//	@Description	Registers a new client public key and allocates a globally unique client identifier.
//	@Description	When publication is enabled the registration is also appended to the signed hash chain.
//	@Description	The response body is signed; verify it against X-Ledger-Signature and X-Ledger-Key.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Authorization	header		string								true	"Bearer token with the admin scope"
//	@Param			request			body		ledgersdk.RegisterClientRequest		true	"Client registration request"
//	@Success		200				{object}	ledgersdk.RegisterClientResponse	"signed envelope with client-id and optional publish receipt"
//	@Failure		401				{object}	ledgersdk.ErrorResponse				"unauthenticated"
//	@Failure		403				{object}	ledgersdk.ErrorResponse				"unprivileged"
//	@Failure		406				{object}	ledgersdk.ErrorResponse				"malformed or empty body"
//	@Failure		500				{object}	ledgersdk.ErrorResponse				"unexpected condition"
//	@Router			/v1/clients [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	started := time.Now()

	status, resp := h.register(w, r)

	h.Metrics.IncrementRegistration(strconv.Itoa(status))
	h.Metrics.ObserveRegisterLatency(time.Since(started))

	if status != http.StatusOK {
		return // error already written
	}

	log.Info("client registered", "client_id", resp.Results.ClientID,
		"published", resp.Results.Publish != nil)
	h.Signer.WriteSigned(w, http.StatusOK, resp)
}

// register runs the pipeline stages. On failure it writes the error
// envelope itself and returns the status; on success the caller writes the
// signed envelope.
func (h *RegisterHandler) register(w http.ResponseWriter, r *http.Request) (int, *ledgersdk.RegisterClientResponse) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// Authorization gate. Attributes missing entirely means the handler is
	// mounted without the authn middleware: an integration fault, not a
	// caller fault.
	auth, ok := httpx.AuthFromContext(ctx)
	if !ok {
		log.Error("authentication attributes missing from request context")
		writeError(w, http.StatusInternalServerError, msgServerError)
		return http.StatusInternalServerError, nil
	}
	if !auth.Authenticated {
		writeError(w, http.StatusUnauthorized, msgUnauthenticated)
		return http.StatusUnauthorized, nil
	}
	if !auth.Administrator {
		writeError(w, http.StatusForbidden, msgUnprivileged)
		return http.StatusForbidden, nil
	}

	// Freshness check before touching the body.
	if err := h.Replay.Validate(ctx,
		r.Header.Get(ledgersdk.HeaderDatetime),
		r.Header.Get(ledgersdk.HeaderNonce),
	); err != nil {
		var rErr *replay.Error
		if errors.As(err, &rErr) {
			writeError(w, rErr.Status, rErr.Message)
			return rErr.Status, nil
		}
		writeError(w, http.StatusInternalServerError, msgServerError)
		return http.StatusInternalServerError, nil
	}

	var req ledgersdk.RegisterClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusNotAcceptable, msgBadBody)
		return http.StatusNotAcceptable, nil
	}
	if strings.TrimSpace(req.PublicKey) == "" {
		writeError(w, http.StatusNotAcceptable, msgMissingKey)
		return http.StatusNotAcceptable, nil
	}

	// Construct the verification key from the submitted text. A malformed
	// key surfaces as 500 with the underlying message; a client error in
	// substance, but the 500 is the service's documented behaviour.
	if _, err := cryptox.ParseEd25519PublicKey(req.PublicKey); err != nil {
		log.Warn("submitted public key rejected", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return http.StatusInternalServerError, nil
	}

	client, err := h.Registration.RegisterClient(ctx, req.PublicKey, req.Comment)
	if err != nil {
		log.Error("registration failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgServerError)
		return http.StatusInternalServerError, nil
	}

	results := ledgersdk.RegisterResults{ClientID: client.ID}

	if h.PublishNewClients {
		entry, err := h.Publisher.PublishRegistration(ctx, client.ID, client.PublicKey)
		if err != nil {
			log.Error("chain publication failed", "error", err, "client_id", client.ID)
			writeError(w, http.StatusInternalServerError, msgServerError)
			return http.StatusInternalServerError, nil
		}

		results.Publish = &ledgersdk.PublishReceipt{
			EntryIndex:   entry.Index,
			EntryHash:    entry.Hash,
			PreviousHash: entry.PrevHash,
			Signature:    entry.Signature,
			PublicKey:    entry.SignerKey,
		}

		// Publication may make a cross-sign cycle due; the scheduler
		// decides.
		h.CrossSign.MaybeCrossSign(ctx)
	}

	return http.StatusOK, &ledgersdk.RegisterClientResponse{
		Version:  ledgersdk.EnvelopeVersion,
		Datetime: h.Signer.Datetime(),
		Status:   "OK",
		Results:  results,
	}
}
