package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicasys/clinica-api/internal/email"
	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/repository"
	apperrors "github.com/clinicasys/clinica-api/pkg/errors"
	"github.com/clinicasys/clinica-api/pkg/logger"
	"github.com/clinicasys/clinica-api/pkg/security"
)

type Service struct {
	repo   repository.UserRepository
	hasher security.PasswordHasher
	mailer email.Sender
	log    *logger.Logger
}

func NewService(repo repository.UserRepository, hasher security.PasswordHasher, mailer email.Sender, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		mailer: mailer,
		log:    log,
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if !req.Role.Valid() {
		return nil, apperrors.Validation("unknown role", nil)
	}
	if req.Role == model.RoleDoctor && (req.Specialty == nil || *req.Specialty == "") {
		return nil, apperrors.Validation("doctors require a specialty", nil)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	u := &model.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		FullName:     req.FullName,
		Specialty:    req.Specialty,
		Phone:        req.Phone,
		Status:       model.UserStatusActive,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.DuplicateKey("username or email already in use", err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Welcome mail is best effort; account creation already succeeded.
	if err := s.mailer.SendWelcome(u.Email, u.FullName, u.Username); err != nil {
		s.log.Error(err, "failed to send welcome email", "user_id", u.ID.String())
	}

	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// List returns users, optionally filtered to a single role. Handlers use the
// doctor filter to populate scheduling forms.
func (s *Service) List(ctx context.Context, role *model.Role) ([]*model.User, error) {
	if role != nil && !role.Valid() {
		return nil, apperrors.Validation("unknown role", nil)
	}

	users, err := s.repo.List(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status model.UserStatus) error {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("user", err)
		}
		return fmt.Errorf("failed to update user status: %w", err)
	}
	return nil
}
