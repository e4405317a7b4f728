package http

import (
	"net/http"
	"time"

	"github.com/verdigris-systems/ledgerd/internal/ledger/service"
	"github.com/verdigris-systems/ledgerd/pkg/httpx"
	"github.com/verdigris-systems/ledgerd/pkg/ledgersdk"
	"github.com/verdigris-systems/ledgerd/pkg/slogx"
)

// ClientsHandler serves the read side of the client registry.
type ClientsHandler struct {
	Registration *service.RegistrationService
}

// HandleList handles GET /v1/clients
//
//	@Summary		List Clients
//	@Description	Returns all registered clients, newest first.
//	@Tags			Clients
//	@Produce		json
//	@Security		BearerAuth
//	@Param			Authorization	header		string							true	"Bearer token with the read scope"
//	@Success		200				{object}	ledgersdk.ClientListResponse	"clients"
//	@Failure		401				{object}	ledgersdk.ErrorResponse			"unauthenticated"
//	@Failure		403				{object}	ledgersdk.ErrorResponse			"insufficient scope"
//	@Failure		500				{object}	ledgersdk.ErrorResponse			"unexpected condition"
//	@Router			/v1/clients [get].
func (h *ClientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	clients, err := h.Registration.ListClients(ctx)
	if err != nil {
		log.Error("failed to list clients", "error", err)
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	resp := ledgersdk.ClientListResponse{
		Clients: make([]ledgersdk.ClientInfo, 0, len(clients)),
	}
	for _, c := range clients {
		resp.Clients = append(resp.Clients, ledgersdk.ClientInfo{
			ID:        c.ID,
			PublicKey: c.PublicKey,
			Comment:   c.Comment,
			IsAdmin:   c.IsAdmin,
			CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
