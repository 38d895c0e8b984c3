package dto

import "time"

// QuizResponseDTO is returned in API responses for quizzes
type QuizResponseDTO struct {
	QuizID        string    `json:"quiz_id"`
	LessonID      string    `json:"lesson_id"`
	Question      string    `json:"question"`
	Options       []string  `json:"options,omitempty"`
	CorrectAnswer string    `json:"correct_answer"`
	IsAIGenerated bool      `json:"is_ai_generated"`
	CreatedAt     time.Time `json:"created_at"`
}
