package domain

import "time"

// Client is a registered, non-privileged ledger participant. Records are
// created exactly once at registration and never mutated or deleted by the
// registration flow.
type Client struct {
	ID         string // base64url of 24 random bytes, globally unique
	PublicKey  string // base64url Ed25519 verification key as submitted
	Comment    string
	IsAdmin    bool
	CreatedAt  time.Time
	ModifiedAt time.Time
}
