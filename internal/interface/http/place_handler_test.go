package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placora/places-api/internal/application"
	"github.com/placora/places-api/internal/domain/entity"
	"github.com/placora/places-api/internal/interface/middleware"
	"github.com/placora/places-api/internal/mocks"
	"github.com/placora/places-api/pkg/helpers"
)

func newPlaceTestRouter(store *mocks.Store) (*gin.Engine, *helpers.JWTManager) {
	testSetup()
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	svc := application.NewPlaceService(
		&mocks.UoW{S: store},
		&mocks.PlaceRepo{S: store},
		nil, time.Minute,
		nil, "",
		nil, "",
		testLogger(),
	)
	h := NewPlaceHandler(svc, testLogger())

	r := gin.New()
	api := r.Group("/api")
	api.GET("/places/user/:uid", h.ListByUser)
	api.GET("/places/:pid", h.GetByID)
	auth := api.Group("/places")
	auth.Use(middleware.Auth(jwt))
	auth.POST("", h.Create)
	auth.PATCH("/:pid", h.Update)
	auth.DELETE("/:pid", h.Delete)
	return r, jwt
}

func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestCreatePlaceEndpoint(t *testing.T) {
	store := mocks.NewStore()
	owner := store.SeedUser(&entity.User{Name: "Alice", Email: "alice@example.com"})
	r, jwt := newPlaceTestRouter(store)
	token, _, err := jwt.Issue(owner.ID, owner.Email)
	require.NoError(t, err)

	w := doJSON(r, http.MethodPost, "/api/places", token, gin.H{
		"title":       "Empire State Building",
		"description": "Famous skyscraper",
		"address":     "20 W 34th St, New York",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Place struct {
			ID      string `json:"id"`
			Title   string `json:"title"`
			Creator string `json:"creator"`
		} `json:"place"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Place.ID)
	assert.Equal(t, owner.ID, body.Place.Creator)
	assert.Contains(t, store.User(owner.ID).PlaceIDs, body.Place.ID)
}

func TestCreatePlaceEndpointRequiresAuth(t *testing.T) {
	r, _ := newPlaceTestRouter(mocks.NewStore())

	w := doJSON(r, http.MethodPost, "/api/places", "", gin.H{
		"title": "T", "description": "Long enough", "address": "A",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"authentication failed"}`, w.Body.String())
}

func TestCreatePlaceEndpointValidation(t *testing.T) {
	store := mocks.NewStore()
	owner := store.SeedUser(&entity.User{Name: "Alice", Email: "alice@example.com"})
	r, jwt := newPlaceTestRouter(store)
	token, _, err := jwt.Issue(owner.ID, owner.Email)
	require.NoError(t, err)

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing title", gin.H{"description": "Long enough", "address": "A"}},
		{"short description", gin.H{"title": "T", "description": "1234", "address": "A"}},
		{"missing address", gin.H{"title": "T", "description": "Long enough"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/places", token, tc.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.JSONEq(t, `{"message":"invalid inputs passed, please check your data"}`, w.Body.String())
		})
	}
}

func TestUpdatePlaceEndpointForbiddenForNonCreator(t *testing.T) {
	store := mocks.NewStore()
	owner := store.SeedUser(&entity.User{Name: "Alice", Email: "alice@example.com"})
	intruder := store.SeedUser(&entity.User{Name: "Bob", Email: "bob@example.com"})
	p := store.SeedPlace(&entity.Place{Title: "T", Description: "Long enough", Address: "A", CreatorID: owner.ID})
	r, jwt := newPlaceTestRouter(store)
	token, _, err := jwt.Issue(intruder.ID, intruder.Email)
	require.NoError(t, err)

	w := doJSON(r, http.MethodPatch, "/api/places/"+p.ID, token, gin.H{
		"title": "Hijacked", "description": "Long enough",
	})
	// non-creator access fails with 401, matching the login failure status
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"you are not allowed to edit this place"}`, w.Body.String())
}

func TestDeletePlaceEndpoint(t *testing.T) {
	store := mocks.NewStore()
	owner := store.SeedUser(&entity.User{Name: "Alice", Email: "alice@example.com"})
	p := store.SeedPlace(&entity.Place{Title: "T", Description: "Long enough", Address: "A", CreatorID: owner.ID})
	r, jwt := newPlaceTestRouter(store)
	token, _, err := jwt.Issue(owner.ID, owner.Email)
	require.NoError(t, err)

	w := doJSON(r, http.MethodDelete, "/api/places/"+p.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"deleted place"}`, w.Body.String())
	assert.Nil(t, store.Place(p.ID))
	assert.Empty(t, store.User(owner.ID).PlaceIDs)
}

func TestGetPlaceEndpoint(t *testing.T) {
	store := mocks.NewStore()
	owner := store.SeedUser(&entity.User{Name: "Alice", Email: "alice@example.com"})
	p := store.SeedPlace(&entity.Place{Title: "T", Description: "Long enough", Address: "A", CreatorID: owner.ID})
	r, _ := newPlaceTestRouter(store)

	w := doJSON(r, http.MethodGet, "/api/places/"+p.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), p.ID)

	w = doJSON(r, http.MethodGet, "/api/places/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"could not find a place for the provided id"}`, w.Body.String())
}

func TestListPlacesByUserEndpoint(t *testing.T) {
	store := mocks.NewStore()
	owner := store.SeedUser(&entity.User{Name: "Alice", Email: "alice@example.com"})
	p := store.SeedPlace(&entity.Place{Title: "T", Description: "Long enough", Address: "A", CreatorID: owner.ID})
	r, _ := newPlaceTestRouter(store)

	w := doJSON(r, http.MethodGet, "/api/places/user/"+owner.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), p.ID)
}

func TestListPlacesByUserEndpointEmptyIs404(t *testing.T) {
	store := mocks.NewStore()
	owner := store.SeedUser(&entity.User{Name: "Alice", Email: "alice@example.com"})
	r, _ := newPlaceTestRouter(store)

	w := doJSON(r, http.MethodGet, "/api/places/user/"+owner.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"could not find places for the provided user id"}`, w.Body.String())
}
