package repository

import (
	"context"

	"github.com/campushq/course-service/internal/models"
)

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id int32) (*models.Enrollment, error)
	ListByUser(ctx context.Context, userID int32) ([]models.Enrollment, error)
	Exists(ctx context.Context, userID, courseID int32) (bool, error)
}
