package ports

import (
	"context"

	"github.com/splitdeck/splitdeck/internal/domain"
)

// UserRepository provides access to experiment owners. Read methods
// return nil without an error when no row matches.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
