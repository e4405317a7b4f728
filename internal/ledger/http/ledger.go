package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/verdigris-systems/ledgerd/internal/ledger/service"
	"github.com/verdigris-systems/ledgerd/pkg/httpx"
	"github.com/verdigris-systems/ledgerd/pkg/ledgersdk"
	"github.com/verdigris-systems/ledgerd/pkg/slogx"
)

// defaultLedgerPageSize caps GET /v1/ledger when no limit is given.
const defaultLedgerPageSize = 100

// LedgerHandler serves the hash chain read endpoints.
type LedgerHandler struct {
	Publisher *service.ChainPublisher
}

// HandleList handles GET /v1/ledger
//
//	@Summary		List Ledger Entries
//	@Description	Returns the newest chain entries, newest first. Use limit to page (default 100).
//	@Tags			Ledger
//	@Produce		json
//	@Param			limit	query		int								false	"maximum entries to return"
//	@Success		200		{object}	ledgersdk.LedgerListResponse	"entries, count"
//	@Failure		500		{object}	ledgersdk.ErrorResponse			"unexpected condition"
//	@Router			/v1/ledger [get].
func (h *LedgerHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	limit := int64(defaultLedgerPageSize)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusNotAcceptable, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	entries, err := h.Publisher.ListEntries(ctx, limit)
	if err != nil {
		log.Error("failed to list ledger entries", "error", err)
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	_, count, err := h.Publisher.Tip(ctx)
	if err != nil {
		log.Error("failed to read chain tip", "error", err)
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	resp := ledgersdk.LedgerListResponse{
		Entries: make([]ledgersdk.EntryInfo, 0, len(entries)),
		Count:   count,
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, ledgersdk.EntryInfo{
			ID:           e.ID,
			Index:        e.Index,
			PreviousHash: e.PrevHash,
			Hash:         e.Hash,
			Payload:      e.Payload,
			Signature:    e.Signature,
			SignerKey:    e.SignerKey,
			CreatedAt:    e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleTip handles GET /v1/ledger/tip
//
//	@Summary		Chain Tip
//	@Description	Returns the newest entry's index and hash plus the chain length. An empty hash means the chain has no entries.
//	@Tags			Ledger
//	@Produce		json
//	@Success		200	{object}	ledgersdk.TipResponse	"index, hash, count"
//	@Failure		500	{object}	ledgersdk.ErrorResponse	"unexpected condition"
//	@Router			/v1/ledger/tip [get].
func (h *LedgerHandler) HandleTip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	tip, count, err := h.Publisher.Tip(ctx)
	if err != nil {
		log.Error("failed to read chain tip", "error", err)
		writeError(w, http.StatusInternalServerError, msgServerError)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ledgersdk.TipResponse{
		Index: tip.Index,
		Hash:  tip.Hash,
		Count: count,
	})
}
