package postgres

import (
	"context"

	"github.com/verdigris-systems/ledgerd/internal/ledger/domain"
)

type crossSignsRepo struct {
	q querier
}

const crossSignColumns = `id, tip_hash, peer_url, peer_key, signature, created_at`

func (r *crossSignsRepo) CreateCrossSign(ctx context.Context, cs domain.CrossSign) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO cross_signs (`+crossSignColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		cs.ID, cs.TipHash, cs.PeerURL, cs.PeerKey, cs.Signature, cs.CreatedAt.UTC())
	return mapConstraint(err)
}

func (r *crossSignsRepo) LatestCrossSign(ctx context.Context) (domain.CrossSign, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+crossSignColumns+` FROM cross_signs ORDER BY created_at DESC, id DESC LIMIT 1`)

	var cs domain.CrossSign
	err := row.Scan(&cs.ID, &cs.TipHash, &cs.PeerURL, &cs.PeerKey, &cs.Signature, &cs.CreatedAt)
	if err != nil {
		return domain.CrossSign{}, mapNotFound(err)
	}
	return cs, nil
}

func (r *crossSignsRepo) ListCrossSigns(ctx context.Context) ([]domain.CrossSign, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+crossSignColumns+` FROM cross_signs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var signs []domain.CrossSign
	for rows.Next() {
		var cs domain.CrossSign
		if err := rows.Scan(&cs.ID, &cs.TipHash, &cs.PeerURL, &cs.PeerKey, &cs.Signature, &cs.CreatedAt); err != nil {
			return nil, err
		}
		signs = append(signs, cs)
	}
	return signs, rows.Err()
}
