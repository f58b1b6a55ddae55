package models

// NotificationEvent is the payload published to the notifications topic and
// consumed by the email notifier.
type NotificationEvent struct {
	EventType  string `json:"event_type"`
	StudentID  string `json:"student_id"`
	Email      string `json:"email"`
	CourseCode string `json:"course_code"`
	Assignment string `json:"assignment,omitempty"`
	Score      int32  `json:"score,omitempty"`
	CreatedAt  string `json:"created_at"`
}

const (
	EventEnrollmentCreated = "enrollment_created"
	EventGradePosted       = "grade_posted"
)
