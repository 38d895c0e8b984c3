package dto

// ViewCreateDTO records a course (and optionally lesson) visit
type ViewCreateDTO struct {
	CourseID string `json:"course_id,omitempty"`
	LessonID string `json:"lesson_id,omitempty"`
}

// LastVisitedResponseDTO carries the dashboard resume pointers
type LastVisitedResponseDTO struct {
	LastVisitedCourse *CourseResponseDTO `json:"last_visited_course"`
	LastVisitedLesson *LessonResponseDTO `json:"last_visited_lesson"`
}
