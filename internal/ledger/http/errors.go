package http

import (
	"net/http"
	"time"

	"github.com/verdigris-systems/ledgerd/pkg/httpx"
	"github.com/verdigris-systems/ledgerd/pkg/ledgersdk"
)

// writeError writes the error envelope every non-2xx response carries.
func writeError(w http.ResponseWriter, code int, message string) {
	httpx.WriteJSON(w, code, ledgersdk.ErrorResponse{
		Version:  ledgersdk.EnvelopeVersion,
		Datetime: time.Now().UTC().Format(time.RFC3339),
		Status:   "ERROR",
		Message:  message,
	})
}

// Messages of the registration pipeline's status mapping. The texts are
// part of the wire contract.
const (
	msgUnauthenticated = "Unauthenticated request"
	msgUnprivileged    = "Unprivileged request"
	msgBadBody         = "POST body empty or invalid"
	msgMissingKey      = "POST body missing publickey field"
	msgServerError     = "Unexpected server error"
)
