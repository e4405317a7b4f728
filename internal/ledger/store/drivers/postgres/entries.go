package postgres

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

	var e domain.Entry
	err := row.Scan(&e.ID, &e.Index, &e.PrevHash, &e.Hash, &e.Payload,
		&e.Signature, &e.SignerKey, &e.CreatedAt)
	if err != nil {
		return domain.Entry{}, mapNotFound(err)
	}
	return e, nil
}

func (r *entriesRepo) CreateEntry(ctx context.Context, e domain.Entry) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO entries (`+entryColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.Index, e.PrevHash, e.Hash, e.Payload, e.Signature, e.SignerKey, e.CreatedAt.UTC())
	return mapConstraint(err)
}

func (r *entriesRepo) ListEntries(ctx context.Context, limit int64) ([]domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries ORDER BY idx DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
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
