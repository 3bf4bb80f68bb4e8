package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/placora/places-api/internal/domain/entity"
	"github.com/placora/places-api/internal/domain/repository"
)

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Password)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}
	if u.PlaceIDs == nil {
		u.PlaceIDs = []string{}
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u := &entity.User{}

	row := r.db.QueryRow(ctx, `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)

	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	ids, err := r.placeIDs(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.PlaceIDs = ids
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u := &entity.User{}

	row := r.db.QueryRow(ctx, `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)

	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	ids, err := r.placeIDs(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.PlaceIDs = ids
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]entity.User, 0)
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		u.PlaceIDs = []string{}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs, err := r.db.Query(ctx, `
		SELECT user_id, place_id
		FROM user_places
		ORDER BY added_at
	`)
	if err != nil {
		return nil, err
	}
	defer refs.Close()

	byUser := make(map[string][]string)
	for refs.Next() {
		var uid, pid string
		if err := refs.Scan(&uid, &pid); err != nil {
			return nil, err
		}
		byUser[uid] = append(byUser[uid], pid)
	}
	if err := refs.Err(); err != nil {
		return nil, err
	}

	for i := range users {
		if ids, ok := byUser[users[i].ID]; ok {
			users[i].PlaceIDs = ids
		}
	}
	return users, nil
}

func (r *UserRepository) AddPlace(ctx context.Context, userID, placeID string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO user_places (user_id, place_id)
		VALUES ($1, $2)
	`, userID, placeID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *UserRepository) RemovePlace(ctx context.Context, userID, placeID string) error {
	res, err := r.db.Exec(ctx, `
		DELETE FROM user_places
		WHERE user_id = $1 AND place_id = $2
	`, userID, placeID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) placeIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT place_id
		FROM user_places
		WHERE user_id = $1
		ORDER BY added_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var _ repository.UserRepository = (*UserRepository)(nil)
