// Package auth registers and authenticates login identities.
package auth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/crmdesk/crmdesk/internal/domain"
	"github.com/crmdesk/crmdesk/internal/repository"
	"github.com/crmdesk/crmdesk/pkg/common"
)

// MaxPasswordLength is the bcrypt input limit in bytes
const MaxPasswordLength = 72

type Service struct {
	users repository.UserRepository
}

func NewService(users repository.UserRepository) *Service {
	return &Service{users: users}
}

// Register creates a user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrValidation
	}
	if len(password) > MaxPasswordLength {
		return nil, domain.ErrPasswordTooLong
	}

	hashed, err := common.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{Username: username, Password: hashed}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	zap.L().Info("user registered", zap.String("username", username))
	return user, nil
}

// Login verifies credentials. Unknown users and bad passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	} else if err != nil {
		return nil, err
	}

	if !common.CheckPassword(user.Password, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// Lookup resolves a session identity.
func (s *Service) Lookup(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}
