package ledgersdk

// EnvelopeVersion is the version string carried by every signed response
// envelope.
const EnvelopeVersion = "1.0"

// Response signature headers. The body of a signed response verifies
// against the key in HeaderKey using the detached signature in
// HeaderSignature.
const (
	HeaderSignature = "X-Ledger-Signature"
	HeaderKey       = "X-Ledger-Key"
	HeaderDatetime  = "X-Ledger-Datetime"
	HeaderNonce     = "X-Ledger-Nonce"
)

// RegisterClientRequest is the POST /v1/clients body.
type RegisterClientRequest struct {
	// PublicKey is the base64url-encoded raw Ed25519 public key of the
	// client being registered.
	PublicKey string `json:"publickey"`

	// Comment is an optional free-text note stored with the client.
	Comment string `json:"comment,omitempty"`
}

// PublishReceipt is the linkage metadata returned when a registration was
// also published to the hash chain.
type PublishReceipt struct {
	EntryIndex   int64  `json:"entry-index"`
	EntryHash    string `json:"entry-hash"`
	PreviousHash string `json:"previous-hash"`
	Signature    string `json:"signature"`
	PublicKey    string `json:"public-key"`
}

// RegisterResults is the results object of a successful registration.
type RegisterResults struct {
	ClientID string          `json:"client-id"`
	Publish  *PublishReceipt `json:"publish,omitempty"`
}

// RegisterClientResponse is the signed success envelope for POST /v1/clients.
type RegisterClientResponse struct {
	Version  string          `json:"version"`
	Datetime string          `json:"datetime"`
	Status   string          `json:"status"`
	Results  RegisterResults `json:"results"`
}

// ErrorResponse is the envelope for every non-2xx response.
type ErrorResponse struct {
	Version  string `json:"version"`
	Datetime string `json:"datetime"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

// ClientInfo is one element of the GET /v1/clients listing.
type ClientInfo struct {
	ID        string `json:"id"`
	PublicKey string `json:"publickey"`
	Comment   string `json:"comment,omitempty"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at"`
}

// ClientListResponse is the GET /v1/clients body.
type ClientListResponse struct {
	Clients []ClientInfo `json:"clients"`
}

// EntryInfo is one hash-chain entry as served by the read endpoints.
type EntryInfo struct {
	ID           string `json:"id"`
	Index        int64  `json:"index"`
	PreviousHash string `json:"previous-hash"`
	Hash         string `json:"hash"`
	Payload      string `json:"payload"`
	Signature    string `json:"signature"`
	SignerKey    string `json:"signer-key"`
	CreatedAt    string `json:"created_at"`
}

// LedgerListResponse is the GET /v1/ledger body, newest entries first.
type LedgerListResponse struct {
	Entries []EntryInfo `json:"entries"`
	Count   int64       `json:"count"`
}

// TipResponse is the GET /v1/ledger/tip body. Empty hash means the chain
// has no entries yet.
type TipResponse struct {
	Index int64  `json:"index"`
	Hash  string `json:"hash"`
	Count int64  `json:"count"`
}

// CrossSignRequest asks a peer to counter-sign our current chain tip.
type CrossSignRequest struct {
	TipHash  string `json:"tip-hash"`
	TipIndex int64  `json:"tip-index"`
	Origin   string `json:"origin,omitempty"`
}

// CrossSignResponse carries the peer's dated counter-sign envelope: the
// signature is a detached Ed25519 signature over Payload, verifiable
// against PublicKey.
type CrossSignResponse struct {
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
	PublicKey string `json:"public-key"`
	Datetime  string `json:"datetime"`
}

// ServerKeyResponse is the GET /v1/server-key body.
type ServerKeyResponse struct {
	PublicKey string `json:"public-key"`
	Algorithm string `json:"algorithm"`
}

// HealthChecks reports the state of the service's critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// HealthResponse is the GET /livez and /readyz body.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
