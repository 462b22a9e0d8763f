package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/keepupapp/keepup-server/internal/auth"
	"github.com/keepupapp/keepup-server/internal/domain"
	domainerrors "github.com/keepupapp/keepup-server/internal/errors"
	"github.com/keepupapp/keepup-server/internal/metrics"
	"github.com/keepupapp/keepup-server/internal/store"
	"github.com/keepupapp/keepup-server/internal/validation"
)

// AuthService handles registration, login and access token verification.
type AuthService struct {
	store     store.Store
	tokens    *auth.TokenService
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store store.Store,
	tokens *auth.TokenService,
	validator *validation.Validator,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:     store,
		tokens:    tokens,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// RegisterRequest contains the credentials for a new account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,max=1024"`
}

// LoginRequest contains the credentials for an existing account.
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required,max=1024"`
}

// AuthResponse is returned on successful login.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Compared against when the username does not exist, so a miss costs the
// same as a wrong password.
var dummyPasswordHash = sync.OnceValue(func() string {
	hash, err := auth.HashPassword("keepup-timing-equaliser")
	if err != nil {
		return ""
	}
	return hash
})

// Register creates a new account. Usernames are compared exactly.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	// The validator counts runes; the hasher's limit is in bytes.
	if len(req.Password) > auth.MaxPasswordLength {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"password": fmt.Sprintf("must be at most %d bytes", auth.MaxPasswordLength),
		})
	}

	_, err := s.store.GetUserByUsername(ctx, req.Username)
	if err == nil {
		metrics.RecordAuthAttempt("register", false)
		return nil, domainerrors.DuplicateUsername("Username already registered")
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     req.Username,
		PasswordHash: passwordHash,
		CreatedAt:    s.now(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		// A concurrent registration won the unique index.
		if errors.Is(err, store.ErrUsernameTaken) {
			metrics.RecordAuthAttempt("register", false)
			return nil, domainerrors.DuplicateUsername("Username already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.RecordAuthAttempt("register", true)
	s.logger.Info("user registered", "user_id", user.ID)

	return user, nil
}

// Login verifies credentials and issues an access token. An unknown
// username and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			//nolint:errcheck // result is irrelevant; only the time spent matters
			_, _ = auth.VerifyPassword(dummyPasswordHash(), req.Password)
			metrics.RecordAuthAttempt("login", false)
			return nil, domainerrors.InvalidCredentials("Invalid credentials")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		metrics.RecordAuthAttempt("login", false)
		return nil, domainerrors.InvalidCredentials("Invalid credentials")
	}

	if auth.NeedsRehash(user.PasswordHash) {
		s.upgradePasswordHash(ctx, user, req.Password)
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	metrics.RecordAuthAttempt("login", true)
	s.logger.Info("user logged in", "user_id", user.ID)

	return &AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.tokens.AccessTokenDuration().Seconds()),
	}, nil
}

// upgradePasswordHash replaces a legacy bcrypt digest with argon2id.
// Failure is logged; the login itself already succeeded.
func (s *AuthService) upgradePasswordHash(ctx context.Context, user *domain.User, password string) {
	hash, err := auth.HashPassword(password)
	if err == nil {
		err = s.store.UpdateUserPassword(ctx, user.ID, hash)
	}
	if err != nil {
		s.logger.Warn("failed to upgrade legacy password hash", "user_id", user.ID, "error", err)
		return
	}
	user.PasswordHash = hash
	s.logger.Info("upgraded legacy password hash", "user_id", user.ID)
}

// VerifyAccessToken validates a token and returns the user it was issued to.
// A bad or expired token is Unauthorized; a token whose user no longer
// exists is NotFound.
func (s *AuthService) VerifyAccessToken(ctx context.Context, tokenString string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		metrics.RecordAuthAttempt("token", false)
		return nil, nil, domainerrors.Unauthorized("Invalid token").WithCause(err)
	}

	userID, err := claims.UserID()
	if err != nil {
		metrics.RecordAuthAttempt("token", false)
		return nil, nil, domainerrors.Unauthorized("Invalid token").WithCause(err)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			metrics.RecordAuthAttempt("token", false)
			return nil, nil, domainerrors.NotFound("User not found")
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	metrics.RecordAuthAttempt("token", true)
	return user, claims, nil
}
