package dto

import "time"

// LessonResponseDTO is returned in API responses for lessons
type LessonResponseDTO struct {
	LessonID  string    `json:"lesson_id"`
	CourseID  string    `json:"course_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// LessonDetailResponseDTO is a lesson with its quizzes
type LessonDetailResponseDTO struct {
	LessonResponseDTO
	Quizzes []QuizResponseDTO `json:"quizzes"`
}

// ResourceAttachDTO links an uploaded file to a lesson
type ResourceAttachDTO struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url" validate:"required,url"`
	Kind string `json:"kind" validate:"required,oneof=image video raw"`
}

// ResourceResponseDTO is returned for lesson resources
type ResourceResponseDTO struct {
	ResourceID string    `json:"resource_id"`
	LessonID   string    `json:"lesson_id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Kind       string    `json:"kind"`
	CreatedAt  time.Time `json:"created_at"`
}
