package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicasys/clinica-api/internal/config"
)

var defaultSpecialties = []string{
	"General Medicine",
	"Cardiology",
	"Dermatology",
	"Pediatrics",
	"Gynecology",
	"Neurology",
	"Ophthalmology",
	"Traumatology",
}

// Seed inserts the bootstrap admin user, the default specialties and the
// clinic configuration row. Safe to run on every startup.
func Seed(ctx context.Context, db *sqlx.DB, cfg config.ClinicConfig, adminPasswordHash string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, role, full_name, status, created_at)
		VALUES ($1, $2, $3, $4, 'admin', 'Administrator', 'active', $5)
		ON CONFLICT (username) DO NOTHING
	`, uuid.New(), cfg.AdminUser, cfg.AdminEmail, adminPasswordHash, time.Now())
	if err != nil {
		return wrapErr("failed to seed admin user", err)
	}

	for _, name := range defaultSpecialties {
		_, err := db.ExecContext(ctx, `
			INSERT INTO specialties (id, name, status)
			VALUES ($1, $2, 'active')
			ON CONFLICT (name) DO NOTHING
		`, uuid.New(), name)
		if err != nil {
			return wrapErr("failed to seed specialties", err)
		}
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO clinic_config (id, name, opening_time, closing_time, slot_minutes)
		SELECT $1, $2, $3, $4, $5
		WHERE NOT EXISTS (SELECT 1 FROM clinic_config)
	`, uuid.New(), cfg.Name, cfg.OpeningTime, cfg.ClosingTime, cfg.SlotMinutes)
	return wrapErr("failed to seed clinic config", err)
}
