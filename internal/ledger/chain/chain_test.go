package chain_test

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/verdigris-systems/ledgerd/internal/ledger/chain"
)

func TestEntryHash(t *testing.T) {
	t.Run("matches manual construction", func(t *testing.T) {
		sum := sha256.Sum256([]byte("prev\npayload\nsig"))
		want := base64.RawURLEncoding.EncodeToString(sum[:])

		require.Equal(t, want, chain.EntryHash("prev", "payload", "sig"))
	})

	t.Run("genesis uses empty prev hash", func(t *testing.T) {
		sum := sha256.Sum256([]byte("\npayload\nsig"))
		want := base64.RawURLEncoding.EncodeToString(sum[:])

		require.Equal(t, want, chain.EntryHash("", "payload", "sig"))
	})

	t.Run("any component changes the hash", func(t *testing.T) {
		base := chain.EntryHash("prev", "payload", "sig")

		require.NotEqual(t, base, chain.EntryHash("prev2", "payload", "sig"))
		require.NotEqual(t, base, chain.EntryHash("prev", "payload2", "sig"))
		require.NotEqual(t, base, chain.EntryHash("prev", "payload", "sig2"))
	})

	t.Run("components do not bleed across the separator", func(t *testing.T) {
		// "ab" + "c" must hash differently from "a" + "bc"
		require.NotEqual(t,
			chain.EntryHash("ab", "c", "sig"),
			chain.EntryHash("a", "bc", "sig"),
		)
	})

	t.Run("hash is url-safe base64 without padding", func(t *testing.T) {
		h := chain.EntryHash("prev", "payload", "sig")
		require.Len(t, h, 43) // 32 bytes -> 43 base64url chars
		require.NotContains(t, h, "=")
		require.NotContains(t, h, "+")
		require.NotContains(t, h, "/")
	})
}
