package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/clinicasys/clinica-api/internal/model"
)

func (r *clinicRepository) GetConfig(ctx context.Context) (*model.ClinicConfig, error) {
	query := `
		SELECT id, name, address, phone, email, opening_time, closing_time, slot_minutes
		FROM clinic_config
		LIMIT 1
	`
	var cfg model.ClinicConfig
	if err := r.db.GetContext(ctx, &cfg, query); err != nil {
		return nil, wrapErr("failed to get clinic config", err)
	}
	return &cfg, nil
}

// UpdateConfig updates the singleton row in place, inserting it first on the
// very first write.
func (r *clinicRepository) UpdateConfig(ctx context.Context, req *model.UpdateClinicConfigRequest) error {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM clinic_config)`); err != nil {
		return wrapErr("failed to check clinic config", err)
	}

	if !exists {
		cfg := defaultConfig()
		applyConfig(cfg, req)
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO clinic_config (id, name, address, phone, email, opening_time, closing_time, slot_minutes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, cfg.ID, cfg.Name, cfg.Address, cfg.Phone, cfg.Email, cfg.OpeningTime, cfg.ClosingTime, cfg.SlotMinutes)
		return wrapErr("failed to create clinic config", err)
	}

	sets := []string{}
	args := []interface{}{}
	n := 1

	set := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}

	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.Address != nil {
		set("address", *req.Address)
	}
	if req.Phone != nil {
		set("phone", *req.Phone)
	}
	if req.Email != nil {
		set("email", *req.Email)
	}
	if req.OpeningTime != nil {
		set("opening_time", *req.OpeningTime)
	}
	if req.ClosingTime != nil {
		set("closing_time", *req.ClosingTime)
	}
	if req.SlotMinutes != nil {
		set("slot_minutes", *req.SlotMinutes)
	}

	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE clinic_config SET %s", strings.Join(sets, ", "))
	_, err := r.db.ExecContext(ctx, query, args...)
	return wrapErr("failed to update clinic config", err)
}

func defaultConfig() *model.ClinicConfig {
	return &model.ClinicConfig{
		ID:          uuid.New(),
		Name:        "Clinica Medica",
		OpeningTime: "08:00",
		ClosingTime: "18:00",
		SlotMinutes: 30,
	}
}

func applyConfig(cfg *model.ClinicConfig, req *model.UpdateClinicConfigRequest) {
	if req.Name != nil {
		cfg.Name = *req.Name
	}
	if req.Address != nil {
		cfg.Address = req.Address
	}
	if req.Phone != nil {
		cfg.Phone = req.Phone
	}
	if req.Email != nil {
		cfg.Email = req.Email
	}
	if req.OpeningTime != nil {
		cfg.OpeningTime = *req.OpeningTime
	}
	if req.ClosingTime != nil {
		cfg.ClosingTime = *req.ClosingTime
	}
	if req.SlotMinutes != nil {
		cfg.SlotMinutes = *req.SlotMinutes
	}
}

func (r *clinicRepository) ListSpecialties(ctx context.Context) ([]*model.Specialty, error) {
	query := `
		SELECT id, name, description, status
		FROM specialties
		WHERE status = 'active'
		ORDER BY name ASC
	`
	var specialties []*model.Specialty
	if err := r.db.SelectContext(ctx, &specialties, query); err != nil {
		return nil, wrapErr("failed to list specialties", err)
	}
	return specialties, nil
}

func (r *clinicRepository) CreateSpecialty(ctx context.Context, specialty *model.Specialty) error {
	if specialty.ID == uuid.Nil {
		specialty.ID = uuid.New()
	}
	if specialty.Status == "" {
		specialty.Status = model.SpecialtyStatusActive
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO specialties (id, name, description, status)
		VALUES ($1, $2, $3, $4)
	`, specialty.ID, specialty.Name, specialty.Description, specialty.Status)
	return wrapErr("failed to create specialty", err)
}
