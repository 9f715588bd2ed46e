// Package service holds the application logic between the HTTP handlers and
// the storage layer.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/YuBaBing/FCS/auth"
	"github.com/YuBaBing/FCS/domain/user"
	"github.com/YuBaBing/FCS/storage"
)

type AuthService struct {
	users  storage.UserStorage
	tokens *auth.TokenService
	log    *zap.Logger
}

func NewAuthService(users storage.UserStorage, tokens *auth.TokenService, log *zap.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, log: log}
}

// Register hashes the password and persists a new user. Duplicate usernames
// surface as storage.ErrUserExists.
func (s *AuthService) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return ErrValidation
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.users.AddUser(ctx, &user.User{Username: username, Password: hash}); err != nil {
		return err
	}
	s.log.Info("user registered", zap.String("username", username))
	return nil
}

// Login verifies the credentials and issues a signed session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	if username == "" || password == "" {
		return "", time.Time{}, ErrValidation
	}
	u, err := s.users.GetUser(ctx, username)
	if err != nil {
		return "", time.Time{}, err
	}
	if !auth.CheckPassword(u.Password, password) {
		return "", time.Time{}, ErrWrongPassword
	}
	token, exp, err := s.tokens.Issue(u.Username)
	if err != nil {
		return "", time.Time{}, err
	}
	s.log.Info("login success", zap.String("username", username))
	return token, exp, nil
}
