package handler

import (
	"errors"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/service"

	"github.com/rs/zerolog"
)

// QuizHandler serves quiz content
type QuizHandler struct {
	contentService service.ContentService
	logger         zerolog.Logger
}

// NewQuizHandler creates a new QuizHandler
func NewQuizHandler(contentService service.ContentService, logger zerolog.Logger) *QuizHandler {
	return &QuizHandler{
		contentService: contentService,
		logger:         logger.With().Str("handler", "QuizHandler").Logger(),
	}
}

// RegisterRoutes mounts quiz routes
func (h *QuizHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/quizzes", authMw(http.HandlerFunc(h.listQuizzes)))
}

// listQuizzes godoc
// @Summary List quizzes in a lesson
// @Tags quizzes
// @Produce json
// @Param lesson_id query string true "Lesson ID"
// @Success 200 {array} dto.QuizResponseDTO
// @Failure 400 {string} string "lesson_id is required"
// @Failure 404 {string} string "Lesson not found"
// @Router /quizzes [get]
func (h *QuizHandler) listQuizzes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	lessonID := r.URL.Query().Get("lesson_id")
	if lessonID == "" {
		http.Error(w, "lesson_id is required", http.StatusBadRequest)
		return
	}

	quizzes, err := h.contentService.ListQuizzes(r.Context(), lessonID)
	if err != nil {
		if errors.Is(err, service.ErrLessonNotFound) {
			http.Error(w, "Lesson not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to list quizzes: "+err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]dto.QuizResponseDTO, len(quizzes))
	for i, q := range quizzes {
		out[i] = toQuizDTO(q)
	}
	writeJSON(w, http.StatusOK, out)
}
