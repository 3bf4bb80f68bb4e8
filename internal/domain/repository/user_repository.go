package repository

import (
	"context"
	"errors"

	"github.com/placora/places-api/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when a user with the email already exists.
	ErrDuplicateEmail = errors.New("email already taken")
)

// UserRepository defines the interface for user-related database operations.
// AddPlace and RemovePlace maintain the user's owned-place reference set;
// they are meant to run inside the same transaction as the matching place
// write (see UnitOfWork).
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	AddPlace(ctx context.Context, userID, placeID string) error
	RemovePlace(ctx context.Context, userID, placeID string) error
}
