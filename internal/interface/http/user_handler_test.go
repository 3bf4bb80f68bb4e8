package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placora/places-api/internal/application"
	"github.com/placora/places-api/internal/mocks"
	"github.com/placora/places-api/pkg/helpers"
	"github.com/placora/places-api/pkg/validation"
)

var validationOnce sync.Once

func testSetup() {
	gin.SetMode(gin.TestMode)
	validationOnce.Do(validation.Init)
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newUserTestRouter(store *mocks.Store) (*gin.Engine, *application.UserService) {
	testSetup()
	svc := application.NewUserService(
		&mocks.UserRepo{S: store},
		helpers.NewJWTManager("test-secret", time.Hour),
		nil,
		testLogger(),
		false,
	)
	h := NewUserHandler(svc, testLogger())

	r := gin.New()
	api := r.Group("/api")
	api.POST("/users/signup", h.Signup)
	api.POST("/users/login", h.Login)
	api.GET("/users", h.List)
	return r, svc
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSignupEndpoint(t *testing.T) {
	r, _ := newUserTestRouter(mocks.NewStore())

	w := postJSON(r, "/api/users/signup", gin.H{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		User struct {
			ID     string   `json:"id"`
			Name   string   `json:"name"`
			Email  string   `json:"email"`
			Places []string `json:"places"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.User.ID)
	assert.Equal(t, "Alice", body.User.Name)
	assert.Equal(t, "alice@example.com", body.User.Email)
	assert.NotNil(t, body.User.Places)
	assert.Empty(t, body.User.Places)

	// the password hash never appears in the response
	assert.NotContains(t, w.Body.String(), "password")
}

func TestSignupEndpointValidation(t *testing.T) {
	r, _ := newUserTestRouter(mocks.NewStore())

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing name", gin.H{"email": "a@b.com", "password": "password123"}},
		{"bad email", gin.H{"name": "A", "email": "not-an-email", "password": "password123"}},
		{"short password", gin.H{"name": "A", "email": "a@b.com", "password": "12345"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(r, "/api/users/signup", tc.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.JSONEq(t, `{"message":"invalid inputs passed, please check your data"}`, w.Body.String())
		})
	}
}

func TestSignupEndpointDuplicateEmail(t *testing.T) {
	r, _ := newUserTestRouter(mocks.NewStore())

	payload := gin.H{"name": "Alice", "email": "alice@example.com", "password": "password123"}
	require.Equal(t, http.StatusCreated, postJSON(r, "/api/users/signup", payload).Code)

	w := postJSON(r, "/api/users/signup", payload)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"message":"user already exists, please login instead"}`, w.Body.String())
}

func TestLoginEndpoint(t *testing.T) {
	r, _ := newUserTestRouter(mocks.NewStore())

	require.Equal(t, http.StatusCreated, postJSON(r, "/api/users/signup", gin.H{
		"name": "Alice", "email": "alice@example.com", "password": "password123",
	}).Code)

	w := postJSON(r, "/api/users/login", gin.H{"email": "alice@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Message string `json:"message"`
		UserID  string `json:"userId"`
		Email   string `json:"email"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "user logged in", body.Message)
	assert.NotEmpty(t, body.UserID)
	assert.Equal(t, "alice@example.com", body.Email)
	assert.NotEmpty(t, body.Token)
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	r, _ := newUserTestRouter(mocks.NewStore())

	require.Equal(t, http.StatusCreated, postJSON(r, "/api/users/signup", gin.H{
		"name": "Alice", "email": "alice@example.com", "password": "password123",
	}).Code)

	for _, tc := range []struct {
		name string
		body gin.H
	}{
		{"unknown email", gin.H{"email": "bob@example.com", "password": "password123"}},
		{"wrong password", gin.H{"email": "alice@example.com", "password": "wrongpw"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(r, "/api/users/login", tc.body)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"message":"invalid credentials, could not log you in"}`, w.Body.String())
		})
	}
}

func TestListUsersEndpoint(t *testing.T) {
	store := mocks.NewStore()
	r, _ := newUserTestRouter(store)

	require.Equal(t, http.StatusCreated, postJSON(r, "/api/users/signup", gin.H{
		"name": "Alice", "email": "alice@example.com", "password": "password123",
	}).Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Users []json.RawMessage `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Users, 1)
}
