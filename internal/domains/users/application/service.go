// Package application implements the users use cases: account registration
// and credential-based login.
package application

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/envioslab/shipment-api/internal/domains/users/domain"
	"github.com/envioslab/shipment-api/internal/domains/users/ports"
)

const bcryptCost = 10

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Address   string
}

// Service implements the users use cases.
type Service struct {
	users  ports.UserRepository
	tokens ports.TokenIssuer
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService wires the users service.
func NewService(users ports.UserRepository, tokens ports.TokenIssuer, opts ...Option) *Service {
	s := &Service{users: users, tokens: tokens}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Register creates an account with a bcrypt-hashed password and the customer
// role. The returned user never carries the hash.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, mapError(err)
	}
	user, err := domain.NewUser(input.FirstName, input.LastName, input.Email, input.Address)
	if err != nil {
		return nil, mapError(err)
	}
	if _, err := s.users.GetByEmail(ctx, user.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ports.ErrUserNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = string(hash)
	created, err := s.users.Create(ctx, user)
	if err != nil {
		// The unique index wins over the pre-check under concurrency.
		if errors.Is(err, ports.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	created.PasswordHash = ""
	s.logInfo(ctx, "user registered", slog.Int64("user.id", created.ID))
	return created, nil
}

// Login verifies the credentials and returns a signed session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(ports.Claims{UserID: user.ID, Email: user.Email, RoleID: user.RoleID})
	if err != nil {
		return "", err
	}
	s.logInfo(ctx, "user logged in", slog.Int64("user.id", user.ID))
	return token, nil
}

// GetByID loads an account without its password hash.
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}
