package sqlite

import (
	"context"

	"github.com/verdigris-systems/ledgerd/internal/ledger/domain"
)

type entriesRepo struct {
	q querier
}

const entryColumns = `id, idx, prev_hash, hash, payload, signature, signer_key, created_at`

func (r *entriesRepo) GetTip(ctx context.Context) (domain.Entry, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries ORDER BY idx DESC LIMIT 1`)
	return scanEntry(row)
}

func (r *entriesRepo) CreateEntry(ctx context.Context, e domain.Entry) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO entries (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Index, e.PrevHash, e.Hash, e.Payload, e.Signature, e.SignerKey, e.CreatedAt.UTC())
	return mapConstraint(err)
}

func (r *entriesRepo) ListEntries(ctx context.Context, limit int64) ([]domain.Entry, error) {
	if limit <= 0 {
		limit = -1 // sqlite: negative LIMIT means no cap
	}
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries ORDER BY idx DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.ID, &e.Index, &e.PrevHash, &e.Hash, &e.Payload,
			&e.Signature, &e.SignerKey, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *entriesRepo) CountEntries(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (domain.Entry, error) {
	var e domain.Entry
	err := row.Scan(&e.ID, &e.Index, &e.PrevHash, &e.Hash, &e.Payload,
		&e.Signature, &e.SignerKey, &e.CreatedAt)
	if err != nil {
		return domain.Entry{}, mapNotFound(err)
	}
	return e, nil
}
