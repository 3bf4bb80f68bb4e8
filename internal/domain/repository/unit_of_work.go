package repository

import "context"

// UnitOfWork is the transaction boundary for operations that must touch
// a place and its owner's reference set together. fn receives repositories
// bound to one transaction; the transaction commits when fn returns nil
// and rolls back when fn returns an error or panics.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(users UserRepository, places PlaceRepository) error) error
}
