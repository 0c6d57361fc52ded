package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"jobportal/internal/cache"
	"jobportal/internal/config"
	"jobportal/internal/models"
	"jobportal/internal/repositories"
)

const (
	refreshKeyPrefix = "refresh_token:"
	revokedKeyPrefix = "revoked_token:"
)

type accessTokenClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type tokenService struct {
	cfg    *config.AuthConfig
	cache  cache.Cache
	users  repositories.UserRepository
	logger *zap.Logger
}

// NewTokenService creates the token service backing login, refresh, and the
// auth middleware.
func NewTokenService(cfg *config.AuthConfig, store cache.Cache, users repositories.UserRepository, logger *zap.Logger) TokenService {
	return &tokenService{cfg: cfg, cache: store, users: users, logger: logger}
}

// IssuePair signs a short-lived access token and stores a new opaque refresh
// token.
func (s *tokenService) IssuePair(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, err := s.signAccessToken(user)
	if err != nil {
		return nil, err
	}

	refresh := newOpaqueToken()
	if err := s.cache.Set(ctx, refreshKeyPrefix+refresh, strconv.FormatInt(user.ID, 10), s.cfg.RefreshTokenTTL); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.cfg.AccessTokenTTL.Seconds()),
	}, nil
}

// Verify parses and validates an access token
func (s *tokenService) Verify(_ context.Context, accessToken string) (*AccessClaims, error) {
	claims := &accessTokenClaims{}
	token, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, NewAuthenticationError("Invalid or expired token")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, NewAuthenticationError("Invalid or expired token")
	}

	result := &AccessClaims{
		UserID:   userID,
		Username: claims.Username,
		Role:     claims.Role,
		TokenID:  claims.ID,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	return result, nil
}

// Refresh exchanges a stored refresh token for a fresh access token. The
// refresh token itself is only replaced when rotation is enabled.
func (s *tokenService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if s.cache.Exists(ctx, revokedKeyPrefix+refreshToken) {
		return nil, NewAuthenticationError("Refresh token has been revoked")
	}

	value, ok := s.cache.Get(ctx, refreshKeyPrefix+refreshToken)
	if !ok {
		return nil, NewAuthenticationError("Invalid or expired refresh token")
	}
	userID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return nil, NewAuthenticationError("Invalid or expired refresh token")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user for refresh: %w", err)
	}
	if user == nil {
		return nil, NewAuthenticationError("Invalid or expired refresh token")
	}

	access, err := s.signAccessToken(user)
	if err != nil {
		return nil, err
	}

	pair := &TokenPair{
		AccessToken:  access,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.cfg.AccessTokenTTL.Seconds()),
	}

	if s.cfg.RotateRefreshTokens {
		rotated := newOpaqueToken()
		if err := s.cache.Set(ctx, refreshKeyPrefix+rotated, value, s.cfg.RefreshTokenTTL); err != nil {
			return nil, fmt.Errorf("failed to store rotated refresh token: %w", err)
		}
		if err := s.revoke(ctx, refreshToken); err != nil {
			s.logger.Warn("Failed to revoke rotated refresh token", zap.Error(err))
		}
		pair.RefreshToken = rotated
	}

	return pair, nil
}

// Invalidate revokes a refresh token. Unknown tokens are treated as already
// revoked.
func (s *tokenService) Invalidate(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.revoke(ctx, refreshToken)
}

func (s *tokenService) revoke(ctx context.Context, refreshToken string) error {
	if err := s.cache.Delete(ctx, refreshKeyPrefix+refreshToken); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	// Blacklist for the full refresh lifetime so a replayed token stays dead
	// even if a delete raced a concurrent refresh.
	if err := s.cache.Set(ctx, revokedKeyPrefix+refreshToken, "1", s.cfg.RefreshTokenTTL); err != nil {
		return fmt.Errorf("failed to blacklist refresh token: %w", err)
	}
	return nil
}

func (s *tokenService) signAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &accessTokenClaims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        newOpaqueToken()[:32],
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenTTL)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// newOpaqueToken returns 64 hex characters of randomness for refresh tokens
// and token ids.
func newOpaqueToken() string {
	a := uuid.Must(uuid.NewV4()).String()
	b := uuid.Must(uuid.NewV4()).String()
	return strings.ReplaceAll(a+b, "-", "")
}
