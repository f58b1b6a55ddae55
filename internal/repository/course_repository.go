package repository

import (
	"context"

	"github.com/campushq/course-service/internal/models"
)

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int32) (*models.Course, error)
	GetByCode(ctx context.Context, code string) (*models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
}
