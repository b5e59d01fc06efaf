package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lodgeworks/inventory-ledger/internal/auth"
	"github.com/lodgeworks/inventory-ledger/internal/core/domain"
	"github.com/lodgeworks/inventory-ledger/internal/port"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	users  port.UserRepository
	tokens *auth.TokenManager
	logger *logrus.Logger
}

func NewAuthService(users port.UserRepository, tokens *auth.TokenManager, logger *logrus.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

// Login verifies the password and issues a signed token carrying the user's
// role. Unknown and inactive users fail the same way as a wrong password.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil || !user.Active {
		return "", nil, ErrInvalidCredentials
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user logged in")
	return token, user, nil
}
