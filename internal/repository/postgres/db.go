package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/clinicasys/clinica-api/internal/config"
)

func NewDB(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// schema is applied idempotently on every startup.
//
// The partial unique index on appointments closes the check-then-insert race:
// two concurrent bookings for the same doctor, date and slot cannot both
// commit while either is non-cancelled.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('admin', 'doctor', 'receptionist', 'patient')),
		full_name TEXT NOT NULL,
		specialty TEXT,
		phone TEXT,
		status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS patients (
		id UUID PRIMARY KEY,
		national_id TEXT UNIQUE NOT NULL,
		full_name TEXT NOT NULL,
		birth_date DATE NOT NULL,
		sex TEXT NOT NULL CHECK (sex IN ('M', 'F', 'other')),
		phone TEXT,
		address TEXT,
		email TEXT,
		blood_type TEXT,
		allergies TEXT,
		chronic_conditions TEXT,
		status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive')),
		user_id UUID REFERENCES users (id),
		registered_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id UUID PRIMARY KEY,
		patient_id UUID NOT NULL REFERENCES patients (id),
		doctor_id UUID NOT NULL REFERENCES users (id),
		date DATE NOT NULL,
		slot TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'attended', 'cancelled')),
		reason TEXT,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_appointments_doctor_date_slot
		ON appointments (doctor_id, date, slot)
		WHERE status <> 'cancelled'`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_doctor_date ON appointments (doctor_id, date)`,
	`CREATE TABLE IF NOT EXISTS medical_records (
		id UUID PRIMARY KEY,
		patient_id UUID NOT NULL REFERENCES patients (id),
		appointment_id UUID REFERENCES appointments (id),
		doctor_id UUID NOT NULL REFERENCES users (id),
		visit_reason TEXT NOT NULL,
		diagnosis TEXT,
		prescription TEXT,
		requested_tests TEXT,
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id UUID PRIMARY KEY,
		appointment_id UUID NOT NULL REFERENCES appointments (id),
		amount NUMERIC(10,2) NOT NULL,
		method TEXT NOT NULL CHECK (method IN ('cash', 'card', 'transfer')),
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'paid', 'cancelled')),
		paid_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		notes TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS clinic_config (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT,
		phone TEXT,
		email TEXT,
		opening_time TEXT NOT NULL DEFAULT '08:00',
		closing_time TEXT NOT NULL DEFAULT '18:00',
		slot_minutes INT NOT NULL DEFAULT 30
	)`,
	`CREATE TABLE IF NOT EXISTS specialties (
		id UUID PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		description TEXT,
		status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive'))
	)`,
	`CREATE TABLE IF NOT EXISTS outbox_events (
		id UUID PRIMARY KEY,
		event_type TEXT NOT NULL,
		payload JSONB NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'processed', 'failed')),
		error TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		processed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_status_created ON outbox_events (status, created_at)`,
}

// Migrate creates the schema idempotently.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
