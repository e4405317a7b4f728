package domain

import "time"

// CrossSign is a peer ledger's counter-signature over our chain tip,
// attesting to its state at a point in time.
type CrossSign struct {
	ID        string // ULID
	TipHash   string // the entry hash the peer signed
	PeerURL   string
	PeerKey   string // base64url Ed25519 public key of the peer
	Signature string // base64url detached signature over the counter-sign envelope
	CreatedAt time.Time
}
