// Package chain implements the hash linkage of the append-only ledger.
//
// Each entry commits to its predecessor: the entry hash covers the previous
// entry's hash, the payload, and the payload's detached signature. Altering
// any historical entry therefore breaks every hash after it.
package chain

import (
	"crypto/sha256"
	"encoding/base64"
)

// EntryHash computes the hash that links an entry into the chain:
// base64url(SHA-256(prevHash LF payload LF signature)). The genesis entry
// uses an empty prevHash.
func EntryHash(prevHash, payload, signature string) string {
	h := sha256.New()
	h.Write([]byte(prevHash))
	h.Write([]byte{'\n'})
	h.Write([]byte(payload))
	h.Write([]byte{'\n'})
	h.Write([]byte(signature))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
