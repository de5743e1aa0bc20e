package clinic

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/repository"
	apperrors "github.com/clinicasys/clinica-api/pkg/errors"
)

type fakeClinicRepo struct {
	config      *model.ClinicConfig
	specialties map[string]*model.Specialty
	configReads int
}

func newFakeClinicRepo() *fakeClinicRepo {
	return &fakeClinicRepo{
		config: &model.ClinicConfig{
			ID:          uuid.New(),
			Name:        "Test Clinic",
			OpeningTime: "08:00",
			ClosingTime: "18:00",
			SlotMinutes: 30,
		},
		specialties: make(map[string]*model.Specialty),
	}
}

func (f *fakeClinicRepo) GetConfig(_ context.Context) (*model.ClinicConfig, error) {
	f.configReads++
	copied := *f.config
	return &copied, nil
}

func (f *fakeClinicRepo) UpdateConfig(_ context.Context, req *model.UpdateClinicConfigRequest) error {
	if req.Name != nil {
		f.config.Name = *req.Name
	}
	if req.OpeningTime != nil {
		f.config.OpeningTime = *req.OpeningTime
	}
	if req.ClosingTime != nil {
		f.config.ClosingTime = *req.ClosingTime
	}
	if req.SlotMinutes != nil {
		f.config.SlotMinutes = *req.SlotMinutes
	}
	return nil
}

func (f *fakeClinicRepo) ListSpecialties(_ context.Context) ([]*model.Specialty, error) {
	var out []*model.Specialty
	for _, s := range f.specialties {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeClinicRepo) CreateSpecialty(_ context.Context, s *model.Specialty) error {
	if _, exists := f.specialties[s.Name]; exists {
		return repository.ErrDuplicate
	}
	f.specialties[s.Name] = s
	return nil
}

func TestGetConfigCaches(t *testing.T) {
	repo := newFakeClinicRepo()
	svc := NewService(repo)

	_, err := svc.GetConfig(context.Background())
	require.NoError(t, err)
	_, err = svc.GetConfig(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, repo.configReads)
}

func TestUpdateConfigInvalidatesCache(t *testing.T) {
	repo := newFakeClinicRepo()
	svc := NewService(repo)

	_, err := svc.GetConfig(context.Background())
	require.NoError(t, err)

	opening := model.TimeSlot("09:00")
	updated, err := svc.UpdateConfig(context.Background(), &model.UpdateClinicConfigRequest{
		OpeningTime: &opening,
	})
	require.NoError(t, err)
	assert.Equal(t, opening, updated.OpeningTime)
}

func TestUpdateConfigRejectsInvertedHours(t *testing.T) {
	svc := NewService(newFakeClinicRepo())

	opening := model.TimeSlot("18:00")
	closing := model.TimeSlot("08:00")
	_, err := svc.UpdateConfig(context.Background(), &model.UpdateClinicConfigRequest{
		OpeningTime: &opening,
		ClosingTime: &closing,
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestCreateSpecialtyDuplicate(t *testing.T) {
	svc := NewService(newFakeClinicRepo())

	_, err := svc.CreateSpecialty(context.Background(), &model.CreateSpecialtyRequest{Name: "Cardiology"})
	require.NoError(t, err)

	_, err = svc.CreateSpecialty(context.Background(), &model.CreateSpecialtyRequest{Name: "Cardiology"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrDuplicateKey))
}
