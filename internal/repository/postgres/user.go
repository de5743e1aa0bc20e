package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicasys/clinica-api/internal/model"
	"github.com/clinicasys/clinica-api/internal/repository"
)

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, role, full_name, specialty, phone, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.FullName,
		user.Specialty,
		user.Phone,
		user.Status,
		user.CreatedAt,
	)
	return wrapErr("failed to create user", err)
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT id, username, email, password_hash, role, full_name, specialty, phone, status, created_at
		FROM users
		WHERE id = $1
	`
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, wrapErr("failed to get user", err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `
		SELECT id, username, email, password_hash, role, full_name, specialty, phone, status, created_at
		FROM users
		WHERE username = $1
	`
	var user model.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, wrapErr("failed to get user by username", err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, role *model.Role) ([]*model.User, error) {
	query := `
		SELECT id, username, email, password_hash, role, full_name, specialty, phone, status, created_at
		FROM users
		WHERE status = 'active'
	`
	args := []interface{}{}
	if role != nil {
		query += " AND role = $1"
		args = append(args, *role)
	}
	query += " ORDER BY full_name ASC"

	var users []*model.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, wrapErr("failed to list users", err)
	}
	return users, nil
}

func (r *userRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.UserStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return wrapErr("failed to update user status", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return wrapErr("failed to get rows affected", err)
	}
	if rows == 0 {
		return wrapErr("failed to update user status", repository.ErrNotFound)
	}
	return nil
}

func (r *userRepository) CountActiveByRole(ctx context.Context, role model.Role) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM users WHERE role = $1 AND status = 'active'`, role)
	if err != nil {
		return 0, wrapErr("failed to count users", err)
	}
	return count, nil
}
