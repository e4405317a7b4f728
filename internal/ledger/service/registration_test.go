package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/verdigris-systems/ledgerd/internal/ledger/store"
	"github.com/verdigris-systems/ledgerd/internal/ledger/store/drivers/sqlite"
	"github.com/verdigris-systems/ledgerd/pkg/cryptox"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestRegisterClientPersistsRecord(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	svc := NewRegistrationService(s)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	client, err := svc.RegisterClient(ctx, "pubkey-text", "first client")
	require.NoError(t, err)
	require.Len(t, client.ID, 32) // 24 bytes base64url
	require.Equal(t, "pubkey-text", client.PublicKey)
	require.Equal(t, "first client", client.Comment)
	require.False(t, client.IsAdmin)
	require.Equal(t, now, client.CreatedAt)
	require.Equal(t, now, client.ModifiedAt)

	stored, err := s.Clients().GetClientByID(ctx, client.ID)
	require.NoError(t, err)
	require.Equal(t, client.ID, stored.ID)
	require.Equal(t, "pubkey-text", stored.PublicKey)
	require.False(t, stored.IsAdmin)
}

func TestRegisterClientRetriesOnCollision(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	svc := NewRegistrationService(s)

	// First registration takes a known identifier.
	ids := []string{"collide-id", "collide-id", "fresh-id"}
	svc.NewID = func() (string, error) {
		id := ids[0]
		if len(ids) > 1 {
			ids = ids[1:]
		}
		return id, nil
	}

	first, err := svc.RegisterClient(ctx, "key-1", "")
	require.NoError(t, err)
	require.Equal(t, "collide-id", first.ID)

	// Second registration hits the taken identifier and retries.
	second, err := svc.RegisterClient(ctx, "key-2", "")
	require.NoError(t, err)
	require.Equal(t, "fresh-id", second.ID)

	count, err := s.Clients().CountClients(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}

func TestRegisterClientExhaustsRetries(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	svc := NewRegistrationService(s)
	svc.NewID = func() (string, error) { return "always-the-same", nil }

	_, err := svc.RegisterClient(ctx, "key-1", "")
	require.NoError(t, err)

	calls := 0
	svc.NewID = func() (string, error) {
		calls++
		return "always-the-same", nil
	}

	_, err = svc.RegisterClient(ctx, "key-2", "")
	require.ErrorIs(t, err, ErrIDExhausted)
	require.Equal(t, maxIDAttempts, calls)

	// The failed registration left no extra row behind.
	count, err := s.Clients().CountClients(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestRegisterClientConcurrentIdentifiersAreUnique(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	svc := NewRegistrationService(s)

	const n = 16

	var wg sync.WaitGroup
	idCh := make(chan string, n)
	errCh := make(chan error, n)

	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := svc.RegisterClient(ctx, "concurrent-key", "")
			if err != nil {
				errCh <- err
				return
			}
			idCh <- c.ID
		}()
	}
	wg.Wait()
	close(idCh)
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	seen := make(map[string]bool)
	for id := range idCh {
		require.False(t, seen[id], "identifier %q allocated twice", id)
		seen[id] = true
	}
	require.Len(t, seen, n)

	count, err := s.Clients().CountClients(ctx)
	require.NoError(t, err)
	require.EqualValues(t, n, count)
}

func TestRegisterClientGenerateIDFailure(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	svc := NewRegistrationService(s)
	svc.NewID = func() (string, error) { return "", errors.New("entropy exhausted") }

	_, err := svc.RegisterClient(ctx, "key", "")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrIDExhausted)
}

func TestDefaultIdentifierShape(t *testing.T) {
	id, err := cryptox.GenerateToken(cryptox.TokenSize192)
	require.NoError(t, err)
	require.Len(t, id, 32)
}
