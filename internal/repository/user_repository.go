package repository

import (
	"context"

	"github.com/campushq/course-service/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int32) (*models.User, error)
	GetByStudentID(ctx context.Context, studentID string) (*models.User, error)
	SetActive(ctx context.Context, id int32, active bool) error
}
