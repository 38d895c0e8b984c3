package model

import "time"

// Course represents a course in the catalog
type Course struct {
	CourseID    string    `db:"id" json:"course_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	Image       string    `db:"image" json:"image,omitempty"`
	Category    string    `db:"category" json:"category,omitempty"`
	IsPublished bool      `db:"is_published" json:"is_published"`
	IsPaid      bool      `db:"is_paid" json:"is_paid"`
	Enrolled    int       `db:"enrolled" json:"enrolled_students,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
