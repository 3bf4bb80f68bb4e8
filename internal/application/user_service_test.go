package application

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placora/places-api/internal/domain/entity"
	"github.com/placora/places-api/internal/mocks"
	"github.com/placora/places-api/pkg/helpers"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newUserService(store *mocks.Store) *UserService {
	return NewUserService(
		&mocks.UserRepo{S: store},
		helpers.NewJWTManager("test-secret", time.Hour),
		nil,
		quietLogger(),
		false,
	)
}

func TestSignupCreatesUserWithEmptyPlaceSet(t *testing.T) {
	store := mocks.NewStore()
	svc := newUserService(store)

	u, err := svc.Signup(context.Background(), "Alice", "Alice@Example.com", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)

	// email is normalized, the hash is stored instead of the password
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "password123", u.Password)
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "password123"))
	assert.Empty(t, u.PlaceIDs)
	assert.NotNil(t, u.PlaceIDs)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	store := mocks.NewStore()
	svc := newUserService(store)

	_, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), "Other Alice", "ALICE@example.com", "different456")
	var appErr *Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	assert.Equal(t, "user already exists, please login instead", appErr.Message)
}

func TestLoginIssuesToken(t *testing.T) {
	store := mocks.NewStore()
	svc := newUserService(store)

	u, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.UserID)
	assert.Equal(t, "alice@example.com", res.Email)
	require.NotEmpty(t, res.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, 5*time.Second)

	claims, err := svc.JWT.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store := mocks.NewStore()
	svc := newUserService(store)

	_, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	// unknown email and wrong password produce the same client error
	for _, tc := range []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "bob@example.com", "password123"},
		{"wrong password", "alice@example.com", "nope"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.email, tc.password)
			var appErr *Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, http.StatusUnauthorized, appErr.Status)
			assert.Equal(t, "invalid credentials, could not log you in", appErr.Message)
		})
	}
}

func TestListReturnsAllUsers(t *testing.T) {
	store := mocks.NewStore()
	store.SeedUser(&entity.User{Name: "Alice", Email: "alice@example.com"})
	store.SeedUser(&entity.User{Name: "Bob", Email: "bob@example.com"})
	svc := newUserService(store)

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
