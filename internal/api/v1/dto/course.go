package dto

import "time"

// CourseResponseDTO is returned in API responses for courses
type CourseResponseDTO struct {
	CourseID    string    `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	Image       string    `json:"image,omitempty"`
	TeacherID   string    `json:"teacher_id"`
	IsPublished bool      `json:"is_published"`
	IsPaid      bool      `json:"is_paid"`
	Enrolled    int       `json:"enrolled_students,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CourseListResponseDTO is one page of the catalog
type CourseListResponseDTO struct {
	Courses []CourseResponseDTO `json:"courses"`
	Total   int                 `json:"total"`
}

// RecommendationsResponseDTO wraps the resolver's ranked list
type RecommendationsResponseDTO struct {
	Recommended []CourseResponseDTO `json:"recommended"`
}

// PopularCoursesResponseDTO wraps the enrollment-ranked list
type PopularCoursesResponseDTO struct {
	Popular []CourseResponseDTO `json:"popular"`
}

// CourseDetailResponseDTO is a course with teacher, lessons and quizzes
type CourseDetailResponseDTO struct {
	CourseResponseDTO
	Teacher *UserResponseDTO          `json:"teacher,omitempty"`
	Lessons []LessonDetailResponseDTO `json:"lessons"`
}

// EnrollResponseDTO carries the user-facing enrollment outcome
type EnrollResponseDTO struct {
	Message string `json:"message"`
}

// EnrolledCoursesResponseDTO lists the user's enrolled courses
type EnrolledCoursesResponseDTO struct {
	Success bool                `json:"success"`
	Courses []CourseResponseDTO `json:"courses"`
}
