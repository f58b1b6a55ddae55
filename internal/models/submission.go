package models

import "time"

type Submission struct {
	ID           int32     `json:"id"`
	EnrollmentID int32     `json:"enrollment_id"`
	Assignment   string    `json:"assignment"`
	Content      string    `json:"content"`
	Score        *int32    `json:"score,omitempty"`
	GradedBy     *int32    `json:"graded_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	GradedAt     *time.Time `json:"graded_at,omitempty"`
}
