package store

import (
	"context"
	"errors"

	"github.com/verdigris-systems/ledgerd/internal/ledger/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable.
type Store interface {
	Clients() Clients
	Entries() Entries
	CrossSigns() CrossSigns

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. No partially
	// written row survives a failed commit.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Clients interface {
	// GetClientByID returns a client by its opaque identifier.
	GetClientByID(ctx context.Context, id string) (domain.Client, error)

	// ListClients returns all clients ordered by creation date (newest first).
	ListClients(ctx context.Context) ([]domain.Client, error)

	// CreateClient inserts a new client. A duplicate identifier returns
	// ErrAlreadyExists (backed by the unique constraint on the id column).
	CreateClient(ctx context.Context, c domain.Client) error

	// CountClients returns the number of registered clients.
	CountClients(ctx context.Context) (int64, error)
}

type Entries interface {
	// GetTip returns the newest chain entry, or ErrNotFound on an empty chain.
	GetTip(ctx context.Context) (domain.Entry, error)

	// CreateEntry appends a new entry. Index and hash linkage are computed
	// by the caller under the chain writer lock.
	CreateEntry(ctx context.Context, e domain.Entry) error

	// ListEntries returns entries ordered by index descending, at most limit
	// rows (limit <= 0 means no cap).
	ListEntries(ctx context.Context, limit int64) ([]domain.Entry, error)

	// CountEntries returns the chain length.
	CountEntries(ctx context.Context) (int64, error)
}

type CrossSigns interface {
	// CreateCrossSign stores a peer attestation of the chain tip.
	CreateCrossSign(ctx context.Context, cs domain.CrossSign) error

	// LatestCrossSign returns the most recent attestation, or ErrNotFound.
	LatestCrossSign(ctx context.Context) (domain.CrossSign, error)

	// ListCrossSigns returns attestations ordered by creation date (newest first).
	ListCrossSigns(ctx context.Context) ([]domain.CrossSign, error)
}
