package model

import "time"

// Lesson represents a lesson within a course
type Lesson struct {
	LessonID  string    `db:"id" json:"lesson_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// LessonResource is an uploaded file attached to a lesson
type LessonResource struct {
	ResourceID string    `db:"id" json:"resource_id"`
	LessonID   string    `db:"lesson_id" json:"lesson_id"`
	Name       string    `db:"name" json:"name"`
	URL        string    `db:"url" json:"url"`
	Kind       string    `db:"kind" json:"kind"` // 'image', 'video' or 'raw'
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
