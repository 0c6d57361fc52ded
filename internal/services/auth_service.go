package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"jobportal/internal/config"
	"jobportal/internal/models"
	"jobportal/internal/repositories"
)

// Dashboard paths the client is steered to after register and login
const (
	companyRedirect   = "/company/dashboard"
	jobSeekerRedirect = "/jobseeker/dashboard"
)

type authService struct {
	cfg      *config.AuthConfig
	repos    *repositories.Collection
	tokens   TokenService
	resolver *identityResolver
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAuthService creates the authentication service
func NewAuthService(cfg *config.AuthConfig, repos *repositories.Collection, tokens TokenService, logger *zap.Logger) AuthService {
	return &authService{
		cfg:      cfg,
		repos:    repos,
		tokens:   tokens,
		resolver: newIdentityResolver(repos),
		validate: validator.New(),
		logger:   logger,
	}
}

// Register creates the account and its role profile atomically, then logs the
// new user straight in.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}
	if len(req.Password) < s.cfg.MinPasswordLength {
		return nil, NewFieldValidationError("Request validation failed", []FieldError{{
			Field:   "password",
			Message: fmt.Sprintf("password must be at least %d characters", s.cfg.MinPasswordLength),
			Code:    "min",
		}})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
	}

	var company *models.Company
	var seeker *models.JobSeeker
	switch req.Role {
	case models.RoleCompany:
		// A fresh company profile starts out named after the account.
		company = &models.Company{CompanyName: req.Username}
	case models.RoleJobSeeker:
		seeker = &models.JobSeeker{}
	}

	if err := s.repos.User.CreateWithProfile(ctx, user, company, seeker); err != nil {
		if errors.Is(err, repositories.ErrDuplicateUser) {
			return nil, NewValidationError("Username or email already taken", nil)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	tokens, err := s.tokens.IssuePair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	return &AuthResponse{
		User:     user,
		Tokens:   tokens,
		Redirect: redirectFor(user.Role),
	}, nil
}

// Login authenticates with username and password. Unknown usernames and bad
// passwords produce the same error.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	user, err := s.repos.User.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, NewAuthenticationError("Invalid username or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, NewAuthenticationError("Invalid username or password")
	}

	tokens, err := s.tokens.IssuePair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}

	s.logger.Info("User logged in",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
	)

	return &AuthResponse{
		User:     user,
		Tokens:   tokens,
		Redirect: redirectFor(user.Role),
	}, nil
}

// Logout revokes the refresh token. Revoking an already-revoked or unknown
// token succeeds.
func (s *authService) Logout(ctx context.Context, req *LogoutRequest) error {
	if err := validateStruct(s.validate, req); err != nil {
		return err
	}
	return s.tokens.Invalidate(ctx, req.RefreshToken)
}

// RefreshToken exchanges a refresh token for fresh credentials
func (s *authService) RefreshToken(ctx context.Context, req *RefreshRequest) (*TokenPair, error) {
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}
	return s.tokens.Refresh(ctx, req.RefreshToken)
}

// GetProfile returns the account merged with its role profile
func (s *authService) GetProfile(ctx context.Context, userID int64) (*ProfileResponse, error) {
	id, err := s.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileResponse{
		User:      id.User,
		Company:   id.Company,
		JobSeeker: id.JobSeeker,
	}, nil
}

func redirectFor(role string) string {
	if role == models.RoleCompany {
		return companyRedirect
	}
	return jobSeekerRedirect
}
