package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/verdigris-systems/ledgerd/internal/ledger/domain"
	"github.com/verdigris-systems/ledgerd/internal/ledger/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
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

func TestClientsRepo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t.Run("create and get", func(t *testing.T) {
		require.NoError(t, s.Clients().CreateClient(ctx, testClient("client-a")))

		got, err := s.Clients().GetClientByID(ctx, "client-a")
		require.NoError(t, err)
		require.Equal(t, "pk-client-a", got.PublicKey)
		require.False(t, got.IsAdmin)
	})

	t.Run("missing id maps to ErrNotFound", func(t *testing.T) {
		_, err := s.Clients().GetClientByID(ctx, "nope")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate id maps to ErrAlreadyExists", func(t *testing.T) {
		err := s.Clients().CreateClient(ctx, testClient("client-a"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("list is newest first", func(t *testing.T) {
		later := testClient("client-b")
		later.CreatedAt = later.CreatedAt.Add(time.Hour)
		require.NoError(t, s.Clients().CreateClient(ctx, later))

		clients, err := s.Clients().ListClients(ctx)
		require.NoError(t, err)
		require.Len(t, clients, 2)
		require.Equal(t, "client-b", clients[0].ID)
		require.Equal(t, "client-a", clients[1].ID)

		count, err := s.Clients().CountClients(ctx)
		require.NoError(t, err)
		require.EqualValues(t, 2, count)
	})
}

func TestEntriesRepo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	t.Run("empty chain has no tip", func(t *testing.T) {
		_, err := s.Entries().GetTip(ctx)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("tip follows the highest index", func(t *testing.T) {
		require.NoError(t, s.Entries().CreateEntry(ctx, testEntry("e0", 0, "")))
		require.NoError(t, s.Entries().CreateEntry(ctx, testEntry("e1", 1, "hash-e0")))

		tip, err := s.Entries().GetTip(ctx)
		require.NoError(t, err)
		require.EqualValues(t, 1, tip.Index)
		require.Equal(t, "hash-e0", tip.PrevHash)
	})

	t.Run("duplicate index maps to ErrAlreadyExists", func(t *testing.T) {
		err := s.Entries().CreateEntry(ctx, testEntry("e1-again", 1, "hash-e0"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("list orders by index descending and respects limit", func(t *testing.T) {
		require.NoError(t, s.Entries().CreateEntry(ctx, testEntry("e2", 2, "hash-e1")))

		entries, err := s.Entries().ListEntries(ctx, 2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		require.EqualValues(t, 2, entries[0].Index)
		require.EqualValues(t, 1, entries[1].Index)

		all, err := s.Entries().ListEntries(ctx, 0) // no cap
		require.NoError(t, err)
		require.Len(t, all, 3)

		count, err := s.Entries().CountEntries(ctx)
		require.NoError(t, err)
		require.EqualValues(t, 3, count)
	})
}

func TestCrossSignsRepo(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	first := domain.CrossSign{
		ID: "01HZX0000000000000000000A0", TipHash: "tip-1",
		PeerURL: "https://peer-1.example.com", PeerKey: "pk-1",
		Signature: "sig-1", CreatedAt: base,
	}
	second := domain.CrossSign{
		ID: "01HZX0000000000000000000B0", TipHash: "tip-2",
		PeerURL: "https://peer-2.example.com", PeerKey: "pk-2",
		Signature: "sig-2", CreatedAt: base.Add(time.Minute),
	}

	require.NoError(t, s.CrossSigns().CreateCrossSign(ctx, first))
	require.NoError(t, s.CrossSigns().CreateCrossSign(ctx, second))

	latest, err := s.CrossSigns().LatestCrossSign(ctx)
	require.NoError(t, err)
	require.Equal(t, "tip-2", latest.TipHash)

	all, err := s.CrossSigns().ListCrossSigns(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "tip-2", all[0].TipHash)
	require.Equal(t, "tip-1", all[1].TipHash)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

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

	// A clean run commits.
	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Clients().CreateClient(ctx, testClient("kept"))
	}))

	got, err := s.Clients().GetClientByID(ctx, "kept")
	require.NoError(t, err)
	require.Equal(t, "kept", got.ID)
}
