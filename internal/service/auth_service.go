package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mkalisz/keepsake/internal/auth"
	"github.com/mkalisz/keepsake/internal/domain"
)

type userRepository interface {
	Create(ctx context.Context, username, passwordHash, name string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type AuthService struct {
	users  userRepository
	tokens *auth.Tokens
	logger *slog.Logger
}

func NewAuthService(users userRepository, tokens *auth.Tokens, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, logger: logger}
}

type RegisterInput struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Name            string `json:"name"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	username := strings.TrimSpace(in.Username)
	name := strings.TrimSpace(in.Name)
	if username == "" || in.Password == "" || name == "" {
		return ValidationError("Missing required fields")
	}
	if in.Password != in.ConfirmPassword {
		return ValidationError("Passwords do not match")
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return ValidationError("Username already exists")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := s.users.Create(ctx, username, hash, name); err != nil {
		return err
	}
	s.logger.Info("user registered", "username", username)
	return nil
}

// Login verifies the credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return "", nil, ValidationError("Username and password required")
	}

	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", nil, err
	}
	if user == nil || !auth.CheckPassword(user.Password, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
