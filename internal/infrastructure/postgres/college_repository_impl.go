package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/campus-connect/internal/domain/entity"
	"github.com/oksasatya/campus-connect/internal/domain/repository"
)

type CollegeRepository struct {
	pool *pgxpool.Pool
}

func NewCollegeRepository(pool *pgxpool.Pool) *CollegeRepository {
	return &CollegeRepository{pool: pool}
}

func (r *CollegeRepository) GetByID(ctx context.Context, id string) (*entity.College, error) {
	c := &entity.College{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email_domain, is_approved, created_at, updated_at
		FROM colleges
		WHERE id = $1
	`, id)
	if err := row.Scan(&c.ID, &c.Name, &c.EmailDomain, &c.IsApproved, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *CollegeRepository) ListApproved(ctx context.Context) ([]entity.College, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email_domain, is_approved, created_at, updated_at
		FROM colleges
		WHERE is_approved
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.College, 0)
	for rows.Next() {
		var c entity.College
		if err := rows.Scan(&c.ID, &c.Name, &c.EmailDomain, &c.IsApproved, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ repository.CollegeRepository = (*CollegeRepository)(nil)
