package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/boardgame-depot/internal/logging"
	"github.com/iliyamo/boardgame-depot/internal/model"
	"github.com/iliyamo/boardgame-depot/internal/repository"
	"github.com/iliyamo/boardgame-depot/internal/utils"
)

// AuthService authenticates managers and issues access tokens.
type AuthService struct {
	managers *repository.ManagerRepo
	secret   string
	ttl      time.Duration
	cost     int
	logger   *slog.Logger
}

// NewAuthService returns an AuthService signing tokens with secret.
func NewAuthService(managers *repository.ManagerRepo, secret string, ttl time.Duration, bcryptCost int, logger *slog.Logger) *AuthService {
	return &AuthService{managers: managers, secret: secret, ttl: ttl, cost: bcryptCost, logger: logger}
}

// TokenResult is returned by a successful login.
type TokenResult struct {
	Token     string    `json:"token"`
	IsAdmin   bool      `json:"isAdmin"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RegisterInput describes a new manager account.
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	IsAdmin   bool   `json:"isAdmin"`
}

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// ValidateCredentials returns the manager owning email when password matches.
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (*model.Manager, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, badRequest("email and password are required")
	}
	m, err := s.managers.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("manager %s not found", email)
	}
	if err != nil {
		return nil, fmt.Errorf("loading manager: %w", err)
	}
	ok, err := s.ComparePassword(password, m.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, unauthorized("invalid credentials")
	}
	return m, nil
}

// IssueToken validates credentials and signs an access token.
func (s *AuthService) IssueToken(ctx context.Context, email, password string) (*TokenResult, error) {
	m, err := s.ValidateCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	tok, err := utils.NewAccessToken(s.secret, m.ID, m.Email, m.IsAdmin, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}
	return &TokenResult{Token: tok.Token, IsAdmin: m.IsAdmin, ExpiresAt: tok.Exp}, nil
}

// Profile returns the manager behind a token.
func (s *AuthService) Profile(ctx context.Context, managerID string) (*model.Manager, error) {
	m, err := s.managers.GetByID(ctx, managerID)
	if err != nil {
		return nil, lookup(err, "manager", managerID)
	}
	return m, nil
}

// Register creates a manager account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.Manager, error) {
	email := normalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, badRequest("a valid email is required")
	}
	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	m := &model.Manager{
		ID:           uuid.NewString(),
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hash,
		IsAdmin:      in.IsAdmin,
		CreatedAt:    time.Now(),
	}
	if err := s.managers.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("email %s is already registered", email)
		}
		return nil, fmt.Errorf("creating manager: %w", err)
	}
	return m, nil
}

// EnsureAdmin creates an admin with the given credentials unless a manager
// with that email exists. It reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := s.managers.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("looking up bootstrap admin: %w", err)
	}
	m, err := s.Register(ctx, RegisterInput{Email: email, Password: password, FirstName: "Admin", IsAdmin: true})
	if err != nil {
		return false, err
	}
	logging.Info(s.logger, "bootstrap admin created", logging.FieldManagerID, m.ID)
	return true, nil
}

// HashPassword hashes plain with the configured bcrypt cost.
func (s *AuthService) HashPassword(plain string) (string, error) {
	if plain == "" {
		return "", badRequest("password is required")
	}
	if len(plain) > maxPasswordBytes {
		return "", badRequest("password must be at most %d bytes", maxPasswordBytes)
	}
	h, err := utils.HashPassword(plain, s.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return h, nil
}

// ComparePassword reports whether plain matches hash.
func (s *AuthService) ComparePassword(plain, hash string) (bool, error) {
	if plain == "" || hash == "" {
		return false, badRequest("password and hash are required")
	}
	return utils.VerifyPassword(hash, plain), nil
}
