package postgres

import (
	"context"

	"github.com/verdigris-systems/ledgerd/internal/ledger/domain"
)

type clientsRepo struct {
	q querier
}

const clientColumns = `id, public_key, comment, is_admin, created_at, modified_at`

func (r *clientsRepo) GetClientByID(ctx context.Context, id string) (domain.Client, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)

	var c domain.Client
	err := row.Scan(&c.ID, &c.PublicKey, &c.Comment, &c.IsAdmin, &c.CreatedAt, &c.ModifiedAt)
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	return c, nil
}

func (r *clientsRepo) ListClients(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.PublicKey, &c.Comment, &c.IsAdmin, &c.CreatedAt, &c.ModifiedAt); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *clientsRepo) CreateClient(ctx context.Context, c domain.Client) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO clients (`+clientColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.PublicKey, c.Comment, c.IsAdmin, c.CreatedAt.UTC(), c.ModifiedAt.UTC())
	return mapConstraint(err)
}

func (r *clientsRepo) CountClients(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&n)
	return n, err
}
