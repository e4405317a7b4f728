package domain

import "time"

// Entry is one link of the append-only hash chain. Hash covers PrevHash,
// Payload and Signature, so tampering with any earlier entry is detectable.
type Entry struct {
	ID        string // ULID
	Index     int64  // dense, starts at 0
	PrevHash  string // empty for the genesis entry
	Hash      string
	Payload   string // canonically serialized message
	Signature string // detached Ed25519 signature over Payload, base64url
	SignerKey string // base64url Ed25519 public key of the signer
	CreatedAt time.Time
}
