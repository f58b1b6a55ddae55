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

type PostgresEnrollmentRepository struct {
	db *sql.DB
}

func NewPostgresEnrollmentRepository(db *sql.DB) *PostgresEnrollmentRepository {
	return &PostgresEnrollmentRepository{db: db}
}

func (r *PostgresEnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment == nil || enrollment.UserID == 0 || enrollment.CourseID == 0 {
		return fmt.Errorf("%w: user_id and course_id are required", pkgerrors.ErrInvalidInput)
	}
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentActive
	}

	query := `
	INSERT INTO enrollments (user_id, course_id, status)
	VALUES ($1, $2, $3)
	RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, enrollment.UserID, enrollment.CourseID, enrollment.Status).
		Scan(&enrollment.ID, &enrollment.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return pkgerrors.ErrAlreadyEnrolled
	}
	if err != nil {
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

func (r *PostgresEnrollmentRepository) GetByID(ctx context.Context, id int32) (*models.Enrollment, error) {
	query := `SELECT id, user_id, course_id, status, created_at FROM enrollments WHERE id = $1`

	var e models.Enrollment
	err := r.db.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.UserID, &e.CourseID, &e.Status, &e.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, pkgerrors.ErrEnrollmentNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return &e, nil
}

func (r *PostgresEnrollmentRepository) ListByUser(ctx context.Context, userID int32) ([]models.Enrollment, error) {
	query := `SELECT id, user_id, course_id, status, created_at FROM enrollments WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []models.Enrollment
	for rows.Next() {
		var e models.Enrollment
		if err := rows.Scan(&e.ID, &e.UserID, &e.CourseID, &e.Status, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate enrollments: %w", err)
	}
	return enrollments, nil
}

func (r *PostgresEnrollmentRepository) Exists(ctx context.Context, userID, courseID int32) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2 AND status = $3)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, courseID, models.EnrollmentActive).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return exists, nil
}
