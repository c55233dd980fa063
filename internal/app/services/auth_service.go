package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdiamond4/CourseSearch/internal/app/models/dto"
	"github.com/jdiamond4/CourseSearch/internal/pkg/apperrors"
	"github.com/jdiamond4/CourseSearch/internal/pkg/auth"
	"github.com/jdiamond4/CourseSearch/internal/pkg/logger"
)

// AuthService handles authentication for the admin sync surface. There is a
// single operator principal configured through the admin section of the
// config file; no user records are kept in the store.
type AuthService struct {
	adminUsername     string
	adminPasswordHash string
	jwtService        *auth.JWTService
}

// NewAuthService creates a new AuthService. The password hash is a bcrypt
// hash; plain text passwords are never configured.
func NewAuthService(adminUsername, adminPasswordHash string, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		adminUsername:     adminUsername,
		adminPasswordHash: adminPasswordHash,
		jwtService:        jwtService,
	}
}

// Login checks the operator credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", apperrors.ErrValidationFailed)
	}

	if username != s.adminUsername {
		logger.Warn().Str("username", username).Msg("Login attempt with unknown username")
		return nil, apperrors.ErrInvalidCredentials
	}
	if s.adminPasswordHash == "" {
		logger.Error().Msg("Admin password hash is not configured")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !auth.CheckPassword(s.adminPasswordHash, req.Password) {
		logger.Warn().Str("username", username).Msg("Login attempt with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(username)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
	}, nil
}
