package repository

import (
	"context"

	"github.com/campushq/course-service/internal/models"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id int32) (*models.Submission, error)
	SetGrade(ctx context.Context, id int32, score int32, gradedBy int32) error
}
