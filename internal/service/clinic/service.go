package clinic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/repository"
	apperrors "github.com/clinicasys/clinica-api/pkg/errors"
)

const (
	cacheKeyConfig      = "clinic_config"
	cacheKeySpecialties = "specialties"
	cacheTTL            = time.Minute
)

type Service struct {
	repo  repository.ClinicRepository
	cache *gocache.Cache
}

func NewService(repo repository.ClinicRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(cacheTTL, 5*time.Minute),
	}
}

// GetConfig serves the singleton clinic configuration through a short-lived
// cache; booking validation reads it on every create.
func (s *Service) GetConfig(ctx context.Context) (*model.ClinicConfig, error) {
	if cached, ok := s.cache.Get(cacheKeyConfig); ok {
		return cached.(*model.ClinicConfig), nil
	}

	cfg, err := s.repo.GetConfig(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("clinic configuration", err)
		}
		return nil, fmt.Errorf("failed to get clinic config: %w", err)
	}

	s.cache.SetDefault(cacheKeyConfig, cfg)
	return cfg, nil
}

func (s *Service) UpdateConfig(ctx context.Context, req *model.UpdateClinicConfigRequest) (*model.ClinicConfig, error) {
	if req.OpeningTime != nil && req.ClosingTime != nil &&
		req.OpeningTime.Minutes() >= req.ClosingTime.Minutes() {
		return nil, apperrors.Validation("opening time must precede closing time", nil)
	}

	if err := s.repo.UpdateConfig(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to update clinic config: %w", err)
	}

	s.cache.Delete(cacheKeyConfig)
	return s.GetConfig(ctx)
}

func (s *Service) ListSpecialties(ctx context.Context) ([]*model.Specialty, error) {
	if cached, ok := s.cache.Get(cacheKeySpecialties); ok {
		return cached.([]*model.Specialty), nil
	}

	specialties, err := s.repo.ListSpecialties(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list specialties: %w", err)
	}

	s.cache.SetDefault(cacheKeySpecialties, specialties)
	return specialties, nil
}

func (s *Service) CreateSpecialty(ctx context.Context, req *model.CreateSpecialtyRequest) (*model.Specialty, error) {
	specialty := &model.Specialty{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Status:      model.SpecialtyStatusActive,
	}

	if err := s.repo.CreateSpecialty(ctx, specialty); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.DuplicateKey("specialty name already exists", err)
		}
		return nil, fmt.Errorf("failed to create specialty: %w", err)
	}

	s.cache.Delete(cacheKeySpecialties)
	return specialty, nil
}
