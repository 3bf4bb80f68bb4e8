// Package mocks provides in-memory repository implementations for tests.
package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/placora/places-api/internal/domain/entity"
	repo "github.com/placora/places-api/internal/domain/repository"
)

// Store is an in-memory stand-in for the postgres layer. One Store backs
// both repositories plus the unit of work, so tests can observe the
// cross-record effects of place create and delete.
type Store struct {
	mu     sync.Mutex
	users  map[string]*entity.User
	places map[string]*entity.Place

	// failure injection
	FailUserCreate    error
	FailPlaceCreate   error
	FailPlaceDelete   error
	FailAddPlace      error
	FailRemovePlace   error
	FailGetUserByMail error
}

func NewStore() *Store {
	return &Store{
		users:  make(map[string]*entity.User),
		places: make(map[string]*entity.Place),
	}
}

// SeedUser inserts a user directly, bypassing failure injection.
func (s *Store) SeedUser(u *entity.User) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.PlaceIDs == nil {
		u.PlaceIDs = []string{}
	}
	s.users[u.ID] = u
	return u
}

// SeedPlace inserts a place and links it to its creator's reference set.
func (s *Store) SeedPlace(p *entity.Place) *entity.Place {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.places[p.ID] = p
	if u, ok := s.users[p.CreatorID]; ok {
		u.PlaceIDs = append(u.PlaceIDs, p.ID)
	}
	return p
}

// User returns a stored user by id, or nil.
func (s *Store) User(id string) *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

// Place returns a stored place by id, or nil.
func (s *Store) Place(id string) *entity.Place {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.places[id]
}

// UserRepo implements repository.UserRepository on the shared Store.
type UserRepo struct{ S *Store }

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if r.S.FailUserCreate != nil {
		return r.S.FailUserCreate
	}
	for _, existing := range r.S.users {
		if existing.Email == u.Email {
			return repo.ErrDuplicateEmail
		}
	}
	u.ID = uuid.NewString()
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	if u.PlaceIDs == nil {
		u.PlaceIDs = []string{}
	}
	cp := *u
	r.S.users[u.ID] = &cp
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	u, ok := r.S.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if r.S.FailGetUserByMail != nil {
		return nil, r.S.FailGetUserByMail
	}
	for _, u := range r.S.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *UserRepo) List(ctx context.Context) ([]entity.User, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	out := make([]entity.User, 0, len(r.S.users))
	for _, u := range r.S.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *UserRepo) AddPlace(ctx context.Context, userID, placeID string) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if r.S.FailAddPlace != nil {
		return r.S.FailAddPlace
	}
	u, ok := r.S.users[userID]
	if !ok {
		return repo.ErrNotFound
	}
	u.PlaceIDs = append(u.PlaceIDs, placeID)
	return nil
}

func (r *UserRepo) RemovePlace(ctx context.Context, userID, placeID string) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if r.S.FailRemovePlace != nil {
		return r.S.FailRemovePlace
	}
	u, ok := r.S.users[userID]
	if !ok {
		return repo.ErrNotFound
	}
	for i, id := range u.PlaceIDs {
		if id == placeID {
			u.PlaceIDs = append(u.PlaceIDs[:i], u.PlaceIDs[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

// PlaceRepo implements repository.PlaceRepository on the shared Store.
type PlaceRepo struct{ S *Store }

func (r *PlaceRepo) Create(ctx context.Context, p *entity.Place) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if r.S.FailPlaceCreate != nil {
		return r.S.FailPlaceCreate
	}
	if _, ok := r.S.users[p.CreatorID]; !ok {
		return repo.ErrNotFound
	}
	p.ID = uuid.NewString()
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	cp := *p
	r.S.places[p.ID] = &cp
	return nil
}

func (r *PlaceRepo) GetByID(ctx context.Context, id string) (*entity.Place, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	p, ok := r.S.places[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *PlaceRepo) ListByCreator(ctx context.Context, userID string) ([]entity.Place, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	out := []entity.Place{}
	u, ok := r.S.users[userID]
	if !ok {
		return out, nil
	}
	for _, pid := range u.PlaceIDs {
		if p, ok := r.S.places[pid]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *PlaceRepo) Update(ctx context.Context, p *entity.Place) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	stored, ok := r.S.places[p.ID]
	if !ok {
		return repo.ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	*stored = *p
	return nil
}

func (r *PlaceRepo) Delete(ctx context.Context, id string) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if r.S.FailPlaceDelete != nil {
		return r.S.FailPlaceDelete
	}
	if _, ok := r.S.places[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.S.places, id)
	return nil
}

// UoW implements repository.UnitOfWork without real transactions. It
// snapshots the store before fn runs and restores the snapshot when fn
// fails, which mimics the rollback the postgres TxManager performs.
type UoW struct{ S *Store }

func (u *UoW) WithinTx(ctx context.Context, fn func(users repo.UserRepository, places repo.PlaceRepository) error) error {
	usersSnap, placesSnap := u.snapshot()
	err := fn(&UserRepo{S: u.S}, &PlaceRepo{S: u.S})
	if err != nil {
		u.restore(usersSnap, placesSnap)
	}
	return err
}

func (u *UoW) snapshot() (map[string]entity.User, map[string]entity.Place) {
	u.S.mu.Lock()
	defer u.S.mu.Unlock()
	users := make(map[string]entity.User, len(u.S.users))
	for id, usr := range u.S.users {
		cp := *usr
		cp.PlaceIDs = append([]string(nil), usr.PlaceIDs...)
		users[id] = cp
	}
	places := make(map[string]entity.Place, len(u.S.places))
	for id, p := range u.S.places {
		places[id] = *p
	}
	return users, places
}

func (u *UoW) restore(users map[string]entity.User, places map[string]entity.Place) {
	u.S.mu.Lock()
	defer u.S.mu.Unlock()
	u.S.users = make(map[string]*entity.User, len(users))
	for id, usr := range users {
		cp := usr
		u.S.users[id] = &cp
	}
	u.S.places = make(map[string]*entity.Place, len(places))
	for id, p := range places {
		cp := p
		u.S.places[id] = &cp
	}
}
