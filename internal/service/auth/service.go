package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/repository"
	"github.com/clinicasys/clinica-api/pkg/auth"
	apperrors "github.com/clinicasys/clinica-api/pkg/errors"
	"github.com/clinicasys/clinica-api/pkg/security"
)

type Service struct {
	users  repository.UserRepository
	jwt    auth.JWTService
	hasher security.PasswordHasher
}

func NewService(users repository.UserRepository, jwtSvc auth.JWTService, hasher security.PasswordHasher) *Service {
	return &Service{users: users, jwt: jwtSvc, hasher: hasher}
}

// Login verifies credentials and issues a token pair. Invalid username and
// invalid password fail identically so the endpoint does not leak which
// usernames exist.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	u, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.hasher.Compare(u.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	if u.Status != model.UserStatusActive {
		return nil, apperrors.AccessDenied("account is inactive")
	}

	return s.issueTokens(u)
}

// Refresh exchanges a valid refresh token for a fresh pair. The user is
// re-read so a deactivation since issuance still locks them out.
func (s *Service) Refresh(ctx context.Context, req *model.RefreshRequest) (*model.TokenResponse, error) {
	userID, err := s.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid refresh token")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if u.Status != model.UserStatusActive {
		return nil, apperrors.AccessDenied("account is inactive")
	}

	return s.issueTokens(u)
}

func (s *Service) issueTokens(u *model.User) (*model.TokenResponse, error) {
	access, err := s.jwt.GenerateAccessToken(u)
	if err != nil {
		return nil, apperrors.Internal("failed to generate access token", err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(u)
	if err != nil {
		return nil, apperrors.Internal("failed to generate refresh token", err)
	}

	return &model.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwt.AccessExpiry().Seconds()),
		User:         u,
	}, nil
}
