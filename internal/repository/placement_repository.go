package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ajay-verma30/Neil-admin-sub000/internal/domain"
)

// PlacementRepository defines persistence access for logo placements.
type PlacementRepository interface {
	Upsert(ctx context.Context, placement *domain.Placement) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Placement, error)
	ListByVariant(ctx context.Context, variantID string) ([]*domain.Placement, error)
}

type placementRepository struct {
	pool *pgxpool.Pool
}

// NewPlacementRepository returns a Postgres-backed implementation.
func NewPlacementRepository(pool *pgxpool.Pool) PlacementRepository {
	return &placementRepository{pool: pool}
}

func (r *placementRepository) Upsert(ctx context.Context, p *domain.Placement) error {
	const query = `
        INSERT INTO placements (id, variant_id, logo_id, logo_variant_id, label, side,
            x_percent, y_percent, width_percent, height_percent, z_index, organization_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        ON CONFLICT (id) DO UPDATE SET
            label = EXCLUDED.label,
            side = EXCLUDED.side,
            x_percent = EXCLUDED.x_percent,
            y_percent = EXCLUDED.y_percent,
            width_percent = EXCLUDED.width_percent,
            height_percent = EXCLUDED.height_percent,
            z_index = EXCLUDED.z_index,
            updated_at = NOW()
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		p.ID,
		p.VariantID,
		p.LogoID,
		p.LogoVariantID,
		p.Label,
		p.Side,
		p.XPercent,
		p.YPercent,
		p.WidthPercent,
		p.HeightPercent,
		p.ZIndex,
		p.OrganizationID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *placementRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM placements WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *placementRepository) GetByID(ctx context.Context, id string) (*domain.Placement, error) {
	const query = `
        SELECT id, variant_id, logo_id, logo_variant_id, label, side,
               x_percent, y_percent, width_percent, height_percent, z_index,
               organization_id, created_at, updated_at
        FROM placements WHERE id=$1`

	return scanPlacement(r.pool.QueryRow(ctx, query, id))
}

func (r *placementRepository) ListByVariant(ctx context.Context, variantID string) ([]*domain.Placement, error) {
	const query = `
        SELECT id, variant_id, logo_id, logo_variant_id, label, side,
               x_percent, y_percent, width_percent, height_percent, z_index,
               organization_id, created_at, updated_at
        FROM placements WHERE variant_id=$1
        ORDER BY z_index ASC, created_at ASC`

	rows, err := r.pool.Query(ctx, query, variantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var placements []*domain.Placement
	for rows.Next() {
		p, err := scanPlacement(rows)
		if err != nil {
			return nil, err
		}
		placements = append(placements, p)
	}
	return placements, rows.Err()
}

func scanPlacement(row pgx.Row) (*domain.Placement, error) {
	var p domain.Placement
	if err := row.Scan(
		&p.ID,
		&p.VariantID,
		&p.LogoID,
		&p.LogoVariantID,
		&p.Label,
		&p.Side,
		&p.XPercent,
		&p.YPercent,
		&p.WidthPercent,
		&p.HeightPercent,
		&p.ZIndex,
		&p.OrganizationID,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
