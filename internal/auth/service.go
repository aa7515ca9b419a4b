package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/avolkov/url-shortener/internal/generator"
	"github.com/avolkov/url-shortener/internal/model"
	"github.com/avolkov/url-shortener/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is disabled")
)

// Service is the credential verifier: it owns registration, password
// checks, and token issuance. The rest of the system only ever sees the
// stable user ID it yields.
type Service struct {
	accounts        storage.AccountStorage
	jwt             *JWTService
	defaultURLLimit int
}

// NewService constructs the auth service.
func NewService(accounts storage.AccountStorage, jwt *JWTService, defaultURLLimit int) *Service {
	return &Service{
		accounts:        accounts,
		jwt:             jwt,
		defaultURLLimit: defaultURLLimit,
	}
}

// Register creates a new account with a bcrypt-hashed password and the
// configured default URL limit.
func (s *Service) Register(ctx context.Context, username, password string, isAdmin bool) (model.Account, error) {
	if username == "" || password == "" {
		return model.Account{}, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to hash password: %w", err)
	}

	account := model.Account{
		UserID:       generator.NewUserID(),
		Username:     username,
		PasswordHash: string(hash),
		URLLimit:     s.defaultURLLimit,
		IsAdmin:      isAdmin,
	}

	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return model.Account{}, err
	}

	log.Info().Str("username", username).Bool("isAdmin", isAdmin).Msg("Account created")

	return account, nil
}

// Login verifies the credentials and returns a signed access token.
// Disabled accounts are rejected even with a correct password.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	account, err := s.accounts.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get account %s: %w", username, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("username", username).Msg("Failed login attempt")
		return "", ErrInvalidCredentials
	}

	if account.Disabled {
		return "", ErrAccountDisabled
	}

	token, err := s.jwt.GenerateToken(account.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	log.Info().Str("username", username).Msg("Access token issued")

	return token, nil
}

// ChangePassword replaces the account's password after verifying the old one.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	account, err := s.accounts.GetAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("failed to get account %s: %w", userID, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	if newPassword == "" {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.accounts.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	log.Info().Str("userID", userID).Msg("Password changed")

	return nil
}

// GetAccount returns the account for an authenticated user ID.
func (s *Service) GetAccount(ctx context.Context, userID string) (model.Account, error) {
	return s.accounts.GetAccount(ctx, userID)
}
