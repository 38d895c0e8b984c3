package handler

import (
	"encoding/json"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func toCourseDTO(c model.Course) dto.CourseResponseDTO {
	return dto.CourseResponseDTO{
		CourseID:    c.CourseID,
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Image:       c.Image,
		TeacherID:   c.TeacherID,
		IsPublished: c.IsPublished,
		IsPaid:      c.IsPaid,
		Enrolled:    c.Enrolled,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCourseDTOs(courses []model.Course) []dto.CourseResponseDTO {
	out := make([]dto.CourseResponseDTO, len(courses))
	for i, c := range courses {
		out[i] = toCourseDTO(c)
	}
	return out
}

func toLessonDTO(l model.Lesson) dto.LessonResponseDTO {
	return dto.LessonResponseDTO{
		LessonID:  l.LessonID,
		CourseID:  l.CourseID,
		Title:     l.Title,
		Content:   l.Content,
		CreatedAt: l.CreatedAt,
	}
}

func toQuizDTO(q model.Quiz) dto.QuizResponseDTO {
	return dto.QuizResponseDTO{
		QuizID:        q.QuizID,
		LessonID:      q.LessonID,
		Question:      q.Question,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
		IsAIGenerated: q.IsAIGenerated,
		CreatedAt:     q.CreatedAt,
	}
}

func toQuizDTOs(quizzes []model.Quiz) []dto.QuizResponseDTO {
	out := make([]dto.QuizResponseDTO, len(quizzes))
	for i, q := range quizzes {
		out[i] = toQuizDTO(q)
	}
	return out
}

func toUserDTO(u model.User) dto.UserResponseDTO {
	return dto.UserResponseDTO{
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}
