package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/campus-connect/internal/domain/entity"
	"github.com/oksasatya/campus-connect/internal/domain/repository"
)

const accountColumns = `
	u.id, u.name, u.username, u.email, u.password_hash, u.college_id,
	u.bio, u.interests, u.photos,
	u.preferred_age_min, u.preferred_age_max, u.preferred_distance, u.preferred_gender,
	u.is_admin, u.is_onboarded, u.created_at, u.updated_at,
	c.id, c.name`

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func scanAccount(row pgx.Row) (*entity.Account, error) {
	a := &entity.Account{College: &entity.College{}}
	var gender string
	err := row.Scan(
		&a.ID, &a.Name, &a.Username, &a.Email, &a.PasswordHash, &a.CollegeID,
		&a.Bio, &a.Interests, &a.Photos,
		&a.Preferences.AgeMin, &a.Preferences.AgeMax, &a.Preferences.Distance, &gender,
		&a.IsAdmin, &a.IsOnboarded, &a.CreatedAt, &a.UpdatedAt,
		&a.College.ID, &a.College.Name,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	a.Preferences.Gender = entity.Gender(gender)
	return a, nil
}

func (r *AccountRepository) findOne(ctx context.Context, where string, arg any) (*entity.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM users u
		JOIN colleges c ON c.id = u.college_id
		WHERE `+where, arg)
	return scanAccount(row)
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*entity.Account, error) {
	return r.findOne(ctx, "lower(u.username) = lower($1)", username)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.findOne(ctx, "u.email = $1", email)
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return r.findOne(ctx, "u.id = $1", id)
}

func (r *AccountRepository) Create(ctx context.Context, a *entity.Account) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, username, email, password_hash, college_id, is_admin, is_onboarded)
		VALUES ($1, $2, $3, $4, $5, FALSE, FALSE)
		RETURNING id, created_at, updated_at
	`, a.Name, a.Username, a.Email, a.PasswordHash, a.CollegeID)

	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrUniqueViolation
		}
		return err
	}
	a.IsAdmin = false
	a.IsOnboarded = false
	return nil
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, id, bio string, interests, photos []string) (*entity.Account, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET bio = $1, interests = $2, photos = $3, updated_at = now()
		WHERE id = $4
	`, bio, interests, photos, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected() == 0 {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *AccountRepository) UpdatePreferences(ctx context.Context, id string, p entity.Preferences) (*entity.Account, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET preferred_age_min = $1, preferred_age_max = $2, preferred_distance = $3,
		    preferred_gender = $4, is_onboarded = TRUE, updated_at = now()
		WHERE id = $5
	`, p.AgeMin, p.AgeMax, p.Distance, string(p.Gender), id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected() == 0 {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
