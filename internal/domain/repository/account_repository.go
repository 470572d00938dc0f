package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/campus-connect/internal/domain/entity"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUniqueViolation = errors.New("unique constraint violation")
)

// AccountRepository defines the persistence operations for accounts.
// Create must return ErrUniqueViolation when the store rejects a duplicate
// username or email, even if the caller's pre-check passed.
type AccountRepository interface {
	FindByUsername(ctx context.Context, username string) (*entity.Account, error)
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	Create(ctx context.Context, a *entity.Account) error
	UpdateProfile(ctx context.Context, id, bio string, interests, photos []string) (*entity.Account, error)
	UpdatePreferences(ctx context.Context, id string, p entity.Preferences) (*entity.Account, error)
}

// CollegeRepository is read-only from this service's point of view.
type CollegeRepository interface {
	GetByID(ctx context.Context, id string) (*entity.College, error)
	ListApproved(ctx context.Context) ([]entity.College, error)
}
