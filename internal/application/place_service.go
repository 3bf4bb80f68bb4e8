package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/placora/places-api/internal/domain/entity"
	repo "github.com/placora/places-api/internal/domain/repository"
	"github.com/placora/places-api/pkg/helpers"
)

// PlaceService implements the place lifecycle. Create and Delete touch
// two records (the place row and the owner's reference set) and run them
// through the UnitOfWork so the pair commits or rolls back together.
type PlaceService struct {
	UoW           repo.UnitOfWork
	Places        repo.PlaceRepository
	Redis         *redis.Client
	CacheTTL      time.Duration
	ES            *elasticsearch.Client
	ESPlacesIndex string
	GCS           *storage.Client
	GCSBucket     string
	Logger        *logrus.Logger
}

func NewPlaceService(uow repo.UnitOfWork, places repo.PlaceRepository,
	rdb *redis.Client, cacheTTL time.Duration, es *elasticsearch.Client, esIndex string,
	gcs *storage.Client, gcsBucket string, logger *logrus.Logger) *PlaceService {
	return &PlaceService{
		UoW:           uow,
		Places:        places,
		Redis:         rdb,
		CacheTTL:      cacheTTL,
		ES:            es,
		ESPlacesIndex: esIndex,
		GCS:           gcs,
		GCSBucket:     gcsBucket,
		Logger:        logger,
	}
}

type CreatePlaceInput struct {
	Title       string
	Description string
	Address     string
}

type UpdatePlaceInput struct {
	Title       string
	Description string
	Address     string
}

func placeCacheKey(id string) string { return "place:" + id }

// Create inserts the place and appends its id to the creator's
// owned-place set in one transaction.
func (s *PlaceService) Create(ctx context.Context, creatorID string, in CreatePlaceInput) (*entity.Place, error) {
	p := &entity.Place{
		Title:       in.Title,
		Description: in.Description,
		Address:     in.Address,
		CreatorID:   creatorID,
	}

	err := s.UoW.WithinTx(ctx, func(users repo.UserRepository, places repo.PlaceRepository) error {
		if err := places.Create(ctx, p); err != nil {
			return err
		}
		return users.AddPlace(ctx, creatorID, p.ID)
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NotFound("could not find user for provided id")
		}
		return nil, Internal("creating place failed, please try again", err)
	}

	s.indexPlace(ctx, p)
	return p, nil
}

// Update patches title/description/address; only the creator may edit.
func (s *PlaceService) Update(ctx context.Context, callerID, placeID string, in UpdatePlaceInput) (*entity.Place, error) {
	p, err := s.Places.GetByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NotFound("could not find a place for the provided id")
		}
		return nil, Internal("updating place failed, please try again", err)
	}
	if p.CreatorID != callerID {
		return nil, Unauthorized("you are not allowed to edit this place")
	}

	p.Title = in.Title
	p.Description = in.Description
	if in.Address != "" {
		p.Address = in.Address
	}
	if err := s.Places.Update(ctx, p); err != nil {
		return nil, Internal("updating place failed, please try again", err)
	}

	s.invalidateCache(ctx, placeID)
	s.indexPlace(ctx, p)
	return p, nil
}

// Delete removes the place and its reference in the creator's owned-place
// set in one transaction; only the creator may delete.
func (s *PlaceService) Delete(ctx context.Context, callerID, placeID string) error {
	p, err := s.Places.GetByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound("could not find a place for the provided id")
		}
		return Internal("deleting place failed, please try again", err)
	}
	if p.CreatorID != callerID {
		return Unauthorized("you are not allowed to delete this place")
	}

	err = s.UoW.WithinTx(ctx, func(users repo.UserRepository, places repo.PlaceRepository) error {
		if err := places.Delete(ctx, placeID); err != nil {
			return err
		}
		return users.RemovePlace(ctx, p.CreatorID, placeID)
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound("could not find a place for the provided id")
		}
		return Internal("deleting place failed, please try again", err)
	}

	s.invalidateCache(ctx, placeID)
	s.deleteFromIndex(ctx, placeID)
	return nil
}

// GetByID reads through the redis cache.
func (s *PlaceService) GetByID(ctx context.Context, placeID string) (*entity.Place, error) {
	if s.Redis != nil {
		var cached entity.Place
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, placeCacheKey(placeID), &cached); err == nil && ok {
			return &cached, nil
		}
	}

	p, err := s.Places.GetByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NotFound("could not find a place for the provided id")
		}
		return nil, Internal("fetching place failed, please try again later", err)
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, placeCacheKey(p.ID), p, s.CacheTTL); err != nil {
			s.Logger.WithError(err).WithField("place_id", p.ID).Warn("cache place failed")
		}
	}
	return p, nil
}

// ListByUser returns the places owned by the user. An empty set fails
// with 404; a user without places is indistinguishable from a missing
// user, which existing clients depend on.
func (s *PlaceService) ListByUser(ctx context.Context, userID string) ([]entity.Place, error) {
	places, err := s.Places.ListByCreator(ctx, userID)
	if err != nil {
		return nil, Internal("fetching places failed, please try again later", err)
	}
	if len(places) == 0 {
		return nil, NotFound("could not find places for the provided user id")
	}
	return places, nil
}

// UploadImage stores a place photo in GCS and records its public URL;
// only the creator may attach images.
func (s *PlaceService) UploadImage(ctx context.Context, callerID, placeID string, r io.Reader, filename, contentType string) (*entity.Place, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, Internal("image upload unavailable", errors.New("gcs not configured"))
	}

	p, err := s.Places.GetByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NotFound("could not find a place for the provided id")
		}
		return nil, Internal("uploading image failed, please try again", err)
	}
	if p.CreatorID != callerID {
		return nil, Unauthorized("you are not allowed to edit this place")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("places", placeID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return nil, Internal("uploading image failed, please try again", err)
	}

	p.ImageURL = url
	if err := s.Places.Update(ctx, p); err != nil {
		return nil, Internal("uploading image failed, please try again", err)
	}

	s.invalidateCache(ctx, placeID)
	s.indexPlace(ctx, p)
	return p, nil
}

// Search performs a multi_match query on title, description and address.
func (s *PlaceService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESPlacesIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "description", "address"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESPlacesIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, Internal("searching places failed, please try again later", err)
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, Internal("searching places failed, please try again later", err)
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *PlaceService) invalidateCache(ctx context.Context, placeID string) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, placeCacheKey(placeID)); err != nil {
		s.Logger.WithError(err).WithField("place_id", placeID).Warn("invalidate place cache failed")
	}
}

func (s *PlaceService) indexPlace(ctx context.Context, p *entity.Place) {
	if s.ES == nil || s.ESPlacesIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          p.ID,
		"title":       p.Title,
		"description": p.Description,
		"address":     p.Address,
		"image_url":   p.ImageURL,
		"creator":     p.CreatorID,
		"created_at":  p.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  p.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESPlacesIndex, DocumentID: p.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("place_id", p.ID).Warn("es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("place_id", p.ID).Warn("es index response error")
	}
}

func (s *PlaceService) deleteFromIndex(ctx context.Context, placeID string) {
	if s.ES == nil || s.ESPlacesIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESPlacesIndex, DocumentID: placeID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("place_id", placeID).Warn("es delete failed")
		return
	}
	_ = res.Body.Close()
}
