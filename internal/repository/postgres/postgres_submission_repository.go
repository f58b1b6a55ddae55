package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campushq/course-service/internal/models"
	pkgerrors "github.com/campushq/course-service/pkg/errors"
)

type PostgresSubmissionRepository struct {
	db *sql.DB
}

func NewPostgresSubmissionRepository(db *sql.DB) *PostgresSubmissionRepository {
	return &PostgresSubmissionRepository{db: db}
}

func (r *PostgresSubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if submission == nil || submission.EnrollmentID == 0 || submission.Assignment == "" {
		return fmt.Errorf("%w: enrollment_id and assignment are required", pkgerrors.ErrInvalidInput)
	}

	query := `
	INSERT INTO submissions (enrollment_id, assignment, content)
	VALUES ($1, $2, $3)
	RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, submission.EnrollmentID, submission.Assignment, submission.Content).
		Scan(&submission.ID, &submission.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (r *PostgresSubmissionRepository) GetByID(ctx context.Context, id int32) (*models.Submission, error) {
	query := `SELECT id, enrollment_id, assignment, content, score, graded_by, created_at, graded_at FROM submissions WHERE id = $1`

	var s models.Submission
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID,
		&s.EnrollmentID,
		&s.Assignment,
		&s.Content,
		&s.Score,
		&s.GradedBy,
		&s.CreatedAt,
		&s.GradedAt,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, pkgerrors.ErrSubmissionNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return &s, nil
}

func (r *PostgresSubmissionRepository) SetGrade(ctx context.Context, id int32, score int32, gradedBy int32) error {
	query := `UPDATE submissions SET score = $1, graded_by = $2, graded_at = NOW() WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, score, gradedBy, id)
	if err != nil {
		return fmt.Errorf("failed to set grade: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return pkgerrors.ErrSubmissionNotFound
	}
	return nil
}
