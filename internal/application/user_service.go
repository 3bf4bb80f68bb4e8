package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/placora/places-api/internal/domain/entity"
	repo "github.com/placora/places-api/internal/domain/repository"
	"github.com/placora/places-api/pkg/helpers"
	"github.com/placora/places-api/pkg/mailer"
)

// UserService implements signup, login, and the user listing.
type UserService struct {
	Repo        repo.UserRepository
	JWT         *helpers.JWTManager
	Pub         *helpers.RabbitPublisher
	Logger      *logrus.Logger
	MailEnabled bool
}

func NewUserService(r repo.UserRepository, jwt *helpers.JWTManager, pub *helpers.RabbitPublisher, logger *logrus.Logger, mailEnabled bool) *UserService {
	return &UserService{Repo: r, JWT: jwt, Pub: pub, Logger: logger, MailEnabled: mailEnabled}
}

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	UserID    string
	Email     string
	Token     string
	ExpiresAt time.Time
}

// Signup creates a new user with an empty owned-place set. A taken email
// fails with 422 whether it is caught by the lookup or by the unique
// constraint on insert.
func (s *UserService) Signup(ctx context.Context, name, email, password string) (*entity.User, error) {
	email = normalizeEmail(email)

	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, Unprocessable("user already exists, please login instead")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, Internal("signing up failed, please try again later", err)
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		// never leak hashing internals to the client
		return nil, Internal("signing up failed, please try again later", err)
	}

	u := &entity.User{
		Name:     name,
		Email:    email,
		Password: hash,
		PlaceIDs: []string{},
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, Unprocessable("user already exists, please login instead")
		}
		return nil, Internal("signing up failed, please try again later", err)
	}

	s.sendWelcome(ctx, u)
	return u, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password return the same client-facing error so the two cases cannot be
// told apart; the log messages differ.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)

	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.Logger.WithField("email", email).Info("login attempt for unknown email")
			return nil, Unauthorized("invalid credentials, could not log you in")
		}
		return nil, Internal("logging in failed, please try again later", err)
	}

	if !helpers.CompareHashAndPassword(u.Password, password) {
		s.Logger.WithField("user_id", u.ID).Info("login attempt with wrong password")
		return nil, Unauthorized("invalid credentials, could not log you in")
	}

	token, exp, err := s.JWT.Issue(u.ID, u.Email)
	if err != nil {
		return nil, Internal("logging in failed, please try again later", err)
	}

	return &LoginResult{UserID: u.ID, Email: u.Email, Token: token, ExpiresAt: exp}, nil
}

// List returns all users; password hashes stay server-side via json:"-".
func (s *UserService) List(ctx context.Context) ([]entity.User, error) {
	users, err := s.Repo.List(ctx)
	if err != nil {
		return nil, Internal("fetching users failed, please try again later", err)
	}
	return users, nil
}

// sendWelcome enqueues the welcome email; delivery is best-effort and a
// broker failure never fails the signup.
func (s *UserService) sendWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data:     map[string]any{"Name": u.Name},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue welcome email failed")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
