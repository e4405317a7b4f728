package cryptox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	t.Run("encoded lengths", func(t *testing.T) {
		cases := map[int]int{
			TokenSize128: 22,
			TokenSize192: 32,
			TokenSize256: 43,
		}
		for size, want := range cases {
			token, err := GenerateToken(size)
			require.NoError(t, err)
			require.Len(t, token, want)
		}
	})

	t.Run("rejects non-positive size", func(t *testing.T) {
		_, err := GenerateToken(0)
		require.Error(t, err)
	})

	t.Run("tokens are unique", func(t *testing.T) {
		seen := make(map[string]struct{})
		for range 100 {
			token, err := GenerateToken(TokenSize192)
			require.NoError(t, err)
			_, dup := seen[token]
			require.False(t, dup)
			seen[token] = struct{}{}
		}
	})
}

func TestGenerateTokenFromDeterministicSource(t *testing.T) {
	t.Parallel()

	src := bytes.Repeat([]byte{0xAB}, TokenSize192)

	a, err := GenerateTokenFrom(bytes.NewReader(src), TokenSize192)
	require.NoError(t, err)
	b, err := GenerateTokenFrom(bytes.NewReader(src), TokenSize192)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestFingerprintToken(t *testing.T) {
	t.Parallel()

	fp := FingerprintToken("nonce-1")
	require.Len(t, fp, 43)
	require.Equal(t, fp, FingerprintToken("nonce-1"))
	require.NotEqual(t, fp, FingerprintToken("nonce-2"))
}
