package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campushq/course-service/internal/models"
	pkgerrors "github.com/campushq/course-service/pkg/errors"
	"github.com/lib/pq"
)

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	if user == nil {
		return pkgerrors.ErrNilUser
	}
	if user.StudentID == "" || user.PasswordHash == "" {
		return fmt.Errorf("%w: student_id and password are required", pkgerrors.ErrInvalidInput)
	}

	query := `
	INSERT INTO users (student_id, name, email, role, active, password_hash)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, created_at
	`
	err := r.db.QueryRowContext(
		ctx,
		query,
		user.StudentID,
		user.Name,
		user.Email,
		user.Role,
		user.Active,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return pkgerrors.ErrUserAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int32) (*models.User, error) {
	query := `SELECT id, student_id, name, email, role, active, password_hash, created_at FROM users WHERE id = $1`

	var user models.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.StudentID,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.Active,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, pkgerrors.ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetByStudentID(ctx context.Context, studentID string) (*models.User, error) {
	if studentID == "" {
		return nil, fmt.Errorf("%w: student_id cannot be empty", pkgerrors.ErrInvalidInput)
	}

	query := `SELECT id, student_id, name, email, role, active, password_hash, created_at FROM users WHERE student_id = $1`

	var user models.User
	err := r.db.QueryRowContext(ctx, query, studentID).Scan(
		&user.ID,
		&user.StudentID,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.Active,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, pkgerrors.ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to get user by student_id: %w", err)
	}
	return &user, nil
}

func (r *PostgresUserRepository) SetActive(ctx context.Context, id int32, active bool) error {
	query := `UPDATE users SET active = $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("failed to update user active flag: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return pkgerrors.ErrUserNotFound
	}
	return nil
}
