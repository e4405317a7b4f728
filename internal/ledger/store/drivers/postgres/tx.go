package postgres

import (
	"context"
	"database/sql"

	"github.com/verdigris-systems/ledgerd/internal/ledger/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Clients() store.Clients       { return &clientsRepo{q: t.tx} }
func (t *txStore) Entries() store.Entries       { return &entriesRepo{q: t.tx} }
func (t *txStore) CrossSigns() store.CrossSigns { return &crossSignsRepo{q: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil }
