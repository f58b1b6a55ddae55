package models

import "time"

type Course struct {
	ID        int32     `json:"id"`
	Code      string    `json:"code"`
	Title     string    `json:"title"`
	TeacherID int32     `json:"teacher_id"`
	Capacity  int32     `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
}
