//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/verdigris-systems/ledgerd/internal/ledger/domain"
	"github.com/verdigris-systems/ledgerd/internal/ledger/store"
)

// newTestStore starts a throwaway postgres container and returns a migrated
// store against it. Run with: go test -tags integration ./...
func newTestStore(t *testing.T) *Store {
	t.Helper()

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("ledger"),
		tcpostgres.WithUsername("ledger"),
		tcpostgres.WithPassword("ledger"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func testClient(id string) domain.Client {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return domain.Client{
		ID:         id,
		PublicKey:  "pk-" + id,
		Comment:    "comment",
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

func testEntry(id string, index int64, prev string) domain.Entry {
	return domain.Entry{
		ID:        id,
		Index:     index,
		PrevHash:  prev,
		Hash:      "hash-" + id,
		Payload:   `{"k":"v"}`,
		Signature: "sig-" + id,
		SignerKey: "signer-key",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPostgresStore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t.Run("clients round trip", func(t *testing.T) {
		require.NoError(t, s.Clients().CreateClient(ctx, testClient("client-a")))

		got, err := s.Clients().GetClientByID(ctx, "client-a")
		require.NoError(t, err)
		require.Equal(t, "pk-client-a", got.PublicKey)

		_, err = s.Clients().GetClientByID(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)

		err = s.Clients().CreateClient(ctx, testClient("client-a"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("entries enforce unique index", func(t *testing.T) {
		require.NoError(t, s.Entries().CreateEntry(ctx, testEntry("e0", 0, "")))
		require.NoError(t, s.Entries().CreateEntry(ctx, testEntry("e1", 1, "hash-e0")))

		err := s.Entries().CreateEntry(ctx, testEntry("e1-dup", 1, "hash-e0"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		tip, err := s.Entries().GetTip(ctx)
		require.NoError(t, err)
		require.EqualValues(t, 1, tip.Index)

		entries, err := s.Entries().ListEntries(ctx, 1)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.EqualValues(t, 1, entries[0].Index)
	})

	t.Run("cross signs ordering", func(t *testing.T) {
		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, s.CrossSigns().CreateCrossSign(ctx, domain.CrossSign{
			ID: "01HZX0000000000000000000A0", TipHash: "tip-1",
			PeerURL: "https://peer-1.example.com", PeerKey: "pk-1",
			Signature: "sig-1", CreatedAt: base,
		}))
		require.NoError(t, s.CrossSigns().CreateCrossSign(ctx, domain.CrossSign{
			ID: "01HZX0000000000000000000B0", TipHash: "tip-2",
			PeerURL: "https://peer-2.example.com", PeerKey: "pk-2",
			Signature: "sig-2", CreatedAt: base.Add(time.Minute),
		}))

		latest, err := s.CrossSigns().LatestCrossSign(ctx)
		require.NoError(t, err)
		require.Equal(t, "tip-2", latest.TipHash)
	})

	t.Run("transaction rollback", func(t *testing.T) {
		sentinel := context.Canceled
		err := s.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Clients().CreateClient(ctx, testClient("doomed")); err != nil {
				return err
			}
			return sentinel
		})
		require.ErrorIs(t, err, sentinel)

		_, err = s.Clients().GetClientByID(ctx, "doomed")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
