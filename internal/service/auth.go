package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pennywise/pennywise-go/internal/crypto"
	"github.com/pennywise/pennywise-go/internal/model"
	"github.com/pennywise/pennywise-go/internal/repository"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserExists         = errors.New("user already exists")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrUsernameRequired   = errors.New("username is required")
)

// UserStore is the user persistence surface the auth service needs.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	SetPassword(ctx context.Context, id int64, hash string) error
}

// TokenStore is the refresh-token persistence surface.
type TokenStore interface {
	Create(ctx context.Context, token *model.Token) error
	Rotate(ctx context.Context, userID int64, oldToken, newToken string) error
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID int64) error
}

// TokenConfig carries the signing secrets and lifetimes for the two token
// kinds.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// AuthService handles credential verification and the refresh-token
// lifecycle: issuance, rotation and revocation.
type AuthService struct {
	users  UserStore
	tokens TokenStore
	cfg    TokenConfig
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, tokens TokenStore, cfg TokenConfig) *AuthService {
	return &AuthService{users: users, tokens: tokens, cfg: cfg}
}

// issuePair signs a new access/refresh pair and persists the refresh half
// as a new device row.
func (s *AuthService) issuePair(ctx context.Context, userID int64, email string) (model.TokenPairResponse, error) {
	access, err := crypto.GenerateToken(userID, email, s.cfg.AccessSecret, s.cfg.AccessExpiry)
	if err != nil {
		return model.TokenPairResponse{}, err
	}

	refresh, err := crypto.GenerateToken(userID, email, s.cfg.RefreshSecret, s.cfg.RefreshExpiry)
	if err != nil {
		return model.TokenPairResponse{}, err
	}

	if err := s.tokens.Create(ctx, &model.Token{UserID: userID, RefreshToken: refresh}); err != nil {
		return model.TokenPairResponse{}, err
	}

	return model.TokenPairResponse{AccessToken: access, RefreshToken: refresh}, nil
}

// SignIn authenticates a user by email and password and issues a token
// pair. Unknown email and wrong password produce the same error.
func (s *AuthService) SignIn(ctx context.Context, req model.SignInRequest) (model.AuthResponse, error) {
	if req.Email == "" {
		return model.AuthResponse{}, ErrEmailRequired
	}
	if req.Password == "" {
		return model.AuthResponse{}, ErrPasswordRequired
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	// A user who signed up but never set a password cannot sign in yet.
	if user.Password == "" || !crypto.VerifyPassword(req.Password, user.Password) {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user.ID, user.Email)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		User:         model.PublicUser(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// SignUp registers a new account with no password set and issues a token
// pair so the client can call the password endpoint next.
func (s *AuthService) SignUp(ctx context.Context, req model.SignUpRequest) (model.AuthResponse, error) {
	if req.Username == "" {
		return model.AuthResponse{}, ErrUsernameRequired
	}
	if req.Email == "" {
		return model.AuthResponse{}, ErrEmailRequired
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if exists {
		return model.AuthResponse{}, ErrUserExists
	}

	user := &model.User{Username: req.Username, Email: req.Email}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.AuthResponse{}, ErrUserExists
		}
		return model.AuthResponse{}, err
	}

	pair, err := s.issuePair(ctx, user.ID, user.Email)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		User:         model.PublicUser(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// SetPassword hashes and stores a new password for the user. It does not
// reissue tokens; the caller already holds a valid pair.
func (s *AuthService) SetPassword(ctx context.Context, userID int64, password string) error {
	if password == "" {
		return ErrPasswordRequired
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}

	return s.users.SetPassword(ctx, userID, hash)
}

// Refresh exchanges a valid, still-stored refresh token for a new pair.
// The stored row is rotated in place only if its value still matches, so
// a rotated or revoked token always fails and concurrent refreshes with
// the same token produce exactly one winner.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenPairResponse, error) {
	if refreshToken == "" {
		return model.TokenPairResponse{}, ErrInvalidToken
	}

	claims, err := crypto.ValidateToken(refreshToken, s.cfg.RefreshSecret)
	if err != nil {
		return model.TokenPairResponse{}, ErrInvalidToken
	}

	access, err := crypto.GenerateToken(claims.UserID, claims.Email, s.cfg.AccessSecret, s.cfg.AccessExpiry)
	if err != nil {
		return model.TokenPairResponse{}, err
	}

	refresh, err := crypto.GenerateToken(claims.UserID, claims.Email, s.cfg.RefreshSecret, s.cfg.RefreshExpiry)
	if err != nil {
		return model.TokenPairResponse{}, err
	}

	if err := s.tokens.Rotate(ctx, claims.UserID, refreshToken, refresh); err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return model.TokenPairResponse{}, ErrInvalidToken
		}
		return model.TokenPairResponse{}, err
	}

	return model.TokenPairResponse{AccessToken: access, RefreshToken: refresh}, nil
}

// Logout revokes the presented refresh token. With allDevices set it
// verifies the token to recover the user and deletes every stored row for
// them; if verification fails it falls back to deleting the literal value.
// Revoking a token that is not stored is not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string, allDevices bool) error {
	if allDevices {
		claims, err := crypto.ValidateToken(refreshToken, s.cfg.RefreshSecret)
		if err == nil {
			return s.tokens.DeleteByUser(ctx, claims.UserID)
		}
		slog.Warn("logout: token verification failed, deleting single token", "error", err)
	}

	return s.tokens.DeleteByToken(ctx, refreshToken)
}
