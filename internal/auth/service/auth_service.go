package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/GoSim-25-26J-441/taskflow-backend/internal/apperr"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/auth/domain"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/auth/token"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/logging"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/storage"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/validation"
)

// Issuer signs session tokens for users.
type Issuer interface {
	Issue(u *domain.User) (string, error)
}

type AuthService struct {
	users    storage.UserStore
	issuer   Issuer
	verifier token.Verifier
	cost     int
	log      *zap.Logger
	now      func() time.Time
}

type Option func(*AuthService)

// WithBcryptCost overrides the password hashing cost; tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *AuthService) { s.cost = cost }
}

func WithClock(now func() time.Time) Option {
	return func(s *AuthService) { s.now = now }
}

func NewAuthService(users storage.UserStore, issuer Issuer, verifier token.Verifier, log *zap.Logger, opts ...Option) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &AuthService{
		users:    users,
		issuer:   issuer,
		verifier: verifier,
		cost:     bcrypt.DefaultCost,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account and returns a session for it.
func (s *AuthService) Register(ctx context.Context, in domain.RegisterInput) (*domain.Session, error) {
	in.Normalize()
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperr.Field("password", "password cannot exceed 72 bytes")
		}
		return nil, apperr.Internal("hash password", err)
	}

	now := storage.Timestamp(s.now())
	u := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, domain.ErrEmailTaken
		}
		return nil, apperr.Internal("create user", err)
	}

	logging.For(ctx, s.log).Info("user registered", zap.String("user_id", u.ID))
	return s.session(u)
}

// Login checks the credentials and returns a fresh session. Unknown emails
// and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, in domain.LoginInput) (*domain.Session, error) {
	in.Normalize()
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}

	u, err := s.users.UserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, apperr.Internal("load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return s.session(u)
}

// Resolve verifies a bearer token and loads the user it names. Tokens for
// users that no longer exist are invalid.
func (s *AuthService) Resolve(ctx context.Context, raw string) (*domain.User, error) {
	if raw == "" {
		return nil, domain.ErrMissingToken
	}

	id, err := s.verifier.Verify(ctx, raw)
	if err != nil {
		logging.For(ctx, s.log).Debug("token rejected", zap.Error(err))
		return nil, domain.ErrInvalidToken
	}

	var u *domain.User
	if id.UserID != "" {
		u, err = s.users.UserByID(ctx, id.UserID)
	} else {
		u, err = s.users.UserByEmail(ctx, id.Email)
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, apperr.Internal("load user", err)
	}
	return u, nil
}

func (s *AuthService) session(u *domain.User) (*domain.Session, error) {
	tok, err := s.issuer.Issue(u)
	if err != nil {
		return nil, apperr.Internal("issue token", err)
	}
	return &domain.Session{Token: tok, User: u}, nil
}
