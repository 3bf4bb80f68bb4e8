package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/placora/places-api/internal/domain/entity"
	"github.com/placora/places-api/internal/domain/repository"
)

type PlaceRepository struct {
	db DB
}

func NewPlaceRepository(db DB) *PlaceRepository {
	return &PlaceRepository{db: db}
}

func (r *PlaceRepository) Create(ctx context.Context, p *entity.Place) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO places (title, description, address, image_url, creator_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, p.Title, p.Description, p.Address, p.ImageURL, p.CreatorID)

	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *PlaceRepository) GetByID(ctx context.Context, id string) (*entity.Place, error) {
	p := &entity.Place{}

	row := r.db.QueryRow(ctx, `
		SELECT id, title, description, address, image_url, creator_id, created_at, updated_at
		FROM places
		WHERE id = $1
	`, id)

	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Address, &p.ImageURL,
		&p.CreatorID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return p, nil
}

// ListByCreator reads through the user_places reference table rather than
// the creator_id column so that reads observe the same set the lifecycle
// operations maintain.
func (r *PlaceRepository) ListByCreator(ctx context.Context, userID string) ([]entity.Place, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.title, p.description, p.address, p.image_url, p.creator_id, p.created_at, p.updated_at
		FROM places p
		JOIN user_places up ON up.place_id = p.id
		WHERE up.user_id = $1
		ORDER BY up.added_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	places := make([]entity.Place, 0)
	for rows.Next() {
		var p entity.Place
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Address, &p.ImageURL,
			&p.CreatorID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		places = append(places, p)
	}
	return places, rows.Err()
}

func (r *PlaceRepository) Update(ctx context.Context, p *entity.Place) error {
	p.UpdatedAt = time.Now()

	res, err := r.db.Exec(ctx, `
		UPDATE places
		SET title = $1, description = $2, address = $3, image_url = $4, updated_at = $5
		WHERE id = $6
	`, p.Title, p.Description, p.Address, p.ImageURL, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PlaceRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `
		DELETE FROM places
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.PlaceRepository = (*PlaceRepository)(nil)
