package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jeongwook5013/SecondHand-Shop/internal/apperr"
	"github.com/jeongwook5013/SecondHand-Shop/internal/events"
	"github.com/jeongwook5013/SecondHand-Shop/internal/models"
	"github.com/jeongwook5013/SecondHand-Shop/internal/repo"
	"github.com/jeongwook5013/SecondHand-Shop/pkg/hash"
	"github.com/jeongwook5013/SecondHand-Shop/pkg/logging"
)

type UserService struct {
	Repo   *repo.GormRepo
	Tokens *TokenService
	Events *events.Producer
}

func (s *UserService) Signup(ctx context.Context, username, password, email string) error {
	l := logging.FromContext(ctx).With("svc", "user.signup")

	if username == "" || password == "" || email == "" {
		return fmt.Errorf("username, password and email are required: %w", apperr.ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("signup_failed", "reason", "cannot hash password", "error", err)
		return fmt.Errorf("hash password: %v: %w", err, apperr.ErrStorage)
	}

	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
		Email:        email,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserExists) {
			l.Warn("signup_failed", "reason", "duplicate username or email")
			return fmt.Errorf("username or email already taken: %w", apperr.ErrValidation)
		}
		l.Error("signup_failed", "error", err)
		return fmt.Errorf("create user: %v: %w", err, apperr.ErrStorage)
	}

	if err := s.Events.Publish(ctx, username, map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	}); err != nil {
		l.Warn("event publish failed", "error", err)
	}

	l.Info("signup_success", "username", username)
	return nil
}

// Login checks credentials and returns a fresh bearer token. Unknown user
// and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "user.login", "username", username)

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "reason", "unknown user")
			return "", fmt.Errorf("invalid username or password: %w", apperr.ErrUnauthenticated)
		}
		l.Error("login_failed", "error", err)
		return "", fmt.Errorf("load user: %v: %w", err, apperr.ErrStorage)
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "wrong password")
		return "", fmt.Errorf("invalid username or password: %w", apperr.ErrUnauthenticated)
	}

	token, err := s.Tokens.Issue(user.Username)
	if err != nil {
		l.Error("login_failed", "reason", "cannot sign token", "error", err)
		return "", fmt.Errorf("issue token: %v: %w", err, apperr.ErrStorage)
	}

	l.Info("login_success")
	return token, nil
}
