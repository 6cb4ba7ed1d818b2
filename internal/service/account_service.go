package service

import (
	"context"
	"errors"
	"fmt"

	"pos-service/internal/auth"
	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned on a failed login. Deliberately the
// same for unknown-user and wrong-password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AccountStore is the storage surface the account service needs
type AccountStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// AccountService handles registration and login
type AccountService struct {
	store  AccountStore
	tokens *auth.TokenManager
	logger *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(st AccountStore, tokens *auth.TokenManager) *AccountService {
	return &AccountService{
		store:  st,
		tokens: tokens,
		logger: util.GetLogger(),
	}
}

// Register creates a new owner account and returns it with a token
func (s *AccountService) Register(ctx context.Context, username, password string) (*models.User, string, error) {
	errs := FieldErrors{}
	if username == "" {
		errs["username"] = "Username is required."
	}
	if len(password) < 8 {
		errs["password"] = "Password must be at least 8 characters."
	}
	if len(errs) > 0 {
		return nil, "", errs
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("User registered", zap.Int64("user_id", user.ID))
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token
func (s *AccountService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

var _ AccountStore = (*store.Store)(nil)
