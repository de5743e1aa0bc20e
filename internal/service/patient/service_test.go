package patient

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/repository"
	apperrors "github.com/clinicasys/clinica-api/pkg/errors"
)

type fakeRepo struct {
	byID         map[uuid.UUID]*model.Patient
	byNationalID map[string]uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:         make(map[uuid.UUID]*model.Patient),
		byNationalID: make(map[string]uuid.UUID),
	}
}

func (f *fakeRepo) Create(_ context.Context, p *model.Patient) error {
	if _, exists := f.byNationalID[p.NationalID]; exists {
		return repository.ErrDuplicate
	}
	f.byID[p.ID] = p
	f.byNationalID[p.NationalID] = p.ID
	return nil
}

func (f *fakeRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) Search(_ context.Context, term string) ([]*model.Patient, error) {
	var out []*model.Patient
	for _, p := range f.byID {
		if term == "" || strings.Contains(strings.ToLower(p.FullName), strings.ToLower(term)) ||
			strings.Contains(p.NationalID, term) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, req *model.UpdatePatientRequest) error {
	p, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	if req.FullName != nil {
		p.FullName = *req.FullName
	}
	if req.Phone != nil {
		p.Phone = req.Phone
	}
	return nil
}

func (f *fakeRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	p, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = model.PatientStatusInactive
	return nil
}

func (f *fakeRepo) CountActive(_ context.Context) (int, error) {
	count := 0
	for _, p := range f.byID {
		if p.Status == model.PatientStatusActive {
			count++
		}
	}
	return count, nil
}

func validRequest() *model.CreatePatientRequest {
	return &model.CreatePatientRequest{
		NationalID: "12345678",
		FullName:   "Ana Torres",
		BirthDate:  "1990-06-15",
		Sex:        model.SexFemale,
	}
}

func TestCreate(t *testing.T) {
	svc := NewService(newFakeRepo())

	p, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, model.PatientStatusActive, p.Status)
	assert.Equal(t, "Ana Torres", p.FullName)
	assert.NotEqual(t, uuid.Nil, p.ID)
}

func TestCreateDuplicateNationalID(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.FullName = "Someone Else"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrDuplicateKey))

	// The registry is unchanged by the rejected insert.
	count, err := repo.CountActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCreateFutureBirthDate(t *testing.T) {
	svc := NewService(newFakeRepo())

	req := validRequest()
	req.BirthDate = "2099-01-01"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestGetNotFound(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestDeactivateKeepsRecord(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), p.ID))

	got, err := svc.Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PatientStatusInactive, got.Status)
}
