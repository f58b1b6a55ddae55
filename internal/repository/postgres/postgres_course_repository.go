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

type PostgresCourseRepository struct {
	db *sql.DB
}

func NewPostgresCourseRepository(db *sql.DB) *PostgresCourseRepository {
	return &PostgresCourseRepository{db: db}
}

func (r *PostgresCourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course == nil || course.Code == "" || course.Title == "" {
		return fmt.Errorf("%w: code and title are required", pkgerrors.ErrInvalidInput)
	}

	query := `
	INSERT INTO courses (code, title, teacher_id, capacity)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, course.Code, course.Title, course.TeacherID, course.Capacity).
		Scan(&course.ID, &course.CreatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return pkgerrors.ErrCourseExists
	}
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

func (r *PostgresCourseRepository) GetByID(ctx context.Context, id int32) (*models.Course, error) {
	query := `SELECT id, code, title, teacher_id, capacity, created_at FROM courses WHERE id = $1`

	var course models.Course
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&course.ID,
		&course.Code,
		&course.Title,
		&course.TeacherID,
		&course.Capacity,
		&course.CreatedAt,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, pkgerrors.ErrCourseNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return &course, nil
}

func (r *PostgresCourseRepository) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	query := `SELECT id, code, title, teacher_id, capacity, created_at FROM courses WHERE code = $1`

	var course models.Course
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&course.ID,
		&course.Code,
		&course.Title,
		&course.TeacherID,
		&course.Capacity,
		&course.CreatedAt,
	)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, pkgerrors.ErrCourseNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to get course by code: %w", err)
	}
	return &course, nil
}

func (r *PostgresCourseRepository) List(ctx context.Context) ([]models.Course, error) {
	query := `SELECT id, code, title, teacher_id, capacity, created_at FROM courses ORDER BY code`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Code, &c.Title, &c.TeacherID, &c.Capacity, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate courses: %w", err)
	}
	return courses, nil
}
