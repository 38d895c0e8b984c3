package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// LessonHandler serves lesson content and resource attachments
type LessonHandler struct {
	contentService service.ContentService
	mediaService   service.MediaService
	validate       *validator.Validate
	logger         zerolog.Logger
}

// NewLessonHandler creates a new LessonHandler
func NewLessonHandler(
	contentService service.ContentService,
	mediaService service.MediaService,
	validate *validator.Validate,
	logger zerolog.Logger,
) *LessonHandler {
	return &LessonHandler{
		contentService: contentService,
		mediaService:   mediaService,
		validate:       validate,
		logger:         logger.With().Str("handler", "LessonHandler").Logger(),
	}
}

// RegisterRoutes mounts lesson routes
func (h *LessonHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/lessons", authMw(http.HandlerFunc(h.listLessons)))
	mux.Handle("/lessons/", authMw(http.HandlerFunc(h.handleLessonSubtree)))
}

// listLessons godoc
// @Summary List lessons in a course
// @Tags lessons
// @Produce json
// @Param course_id query string true "Course ID"
// @Success 200 {array} dto.LessonResponseDTO
// @Failure 400 {string} string "course_id is required"
// @Failure 404 {string} string "Course not found"
// @Router /lessons [get]
func (h *LessonHandler) listLessons(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	courseID := r.URL.Query().Get("course_id")
	if courseID == "" {
		http.Error(w, "course_id is required", http.StatusBadRequest)
		return
	}

	lessons, err := h.contentService.ListLessons(r.Context(), courseID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			http.Error(w, "Course not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to list lessons: "+err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]dto.LessonResponseDTO, len(lessons))
	for i, l := range lessons {
		out[i] = toLessonDTO(l)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LessonHandler) handleLessonSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/lessons/")

	if strings.HasSuffix(rest, "/resources") {
		h.handleResources(w, r, strings.TrimSuffix(rest, "/resources"))
		return
	}
	h.getLesson(w, r, rest)
}

// getLesson godoc
// @Summary Get a lesson
// @Tags lessons
// @Produce json
// @Param lessonId path string true "Lesson ID"
// @Success 200 {object} dto.LessonResponseDTO
// @Failure 404 {string} string "Lesson not found"
// @Router /lessons/{lessonId} [get]
func (h *LessonHandler) getLesson(w http.ResponseWriter, r *http.Request, lessonID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	lesson, err := h.contentService.GetLesson(r.Context(), lessonID)
	if err != nil {
		if errors.Is(err, service.ErrLessonNotFound) {
			http.Error(w, "Lesson not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get lesson: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toLessonDTO(*lesson))
}

// handleResources godoc
// @Summary List or attach lesson resources
// @Description GET lists a lesson's resources; POST links an uploaded file to the lesson.
// @Tags lessons
// @Accept json
// @Produce json
// @Param lessonId path string true "Lesson ID"
// @Param request body dto.ResourceAttachDTO false "Resource to attach (POST)"
// @Success 200 {array} dto.ResourceResponseDTO
// @Success 201 {object} dto.ResourceResponseDTO
// @Failure 404 {string} string "Lesson not found"
// @Router /lessons/{lessonId}/resources [get]
func (h *LessonHandler) handleResources(w http.ResponseWriter, r *http.Request, lessonID string) {
	switch r.Method {
	case http.MethodGet:
		resources, err := h.contentService.ListResources(r.Context(), lessonID)
		if err != nil {
			h.writeResourceError(w, err)
			return
		}
		out := make([]dto.ResourceResponseDTO, len(resources))
		for i, res := range resources {
			out[i] = toResourceDTO(res)
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var req dto.ResourceAttachDTO
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := h.validate.Struct(req); err != nil {
			http.Error(w, "Invalid resource: "+err.Error(), http.StatusBadRequest)
			return
		}

		res, err := h.mediaService.AttachResource(r.Context(), lessonID, req.Name, req.URL, req.Kind)
		if err != nil {
			h.writeResourceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toResourceDTO(*res))
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *LessonHandler) writeResourceError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrLessonNotFound) {
		http.Error(w, "Lesson not found", http.StatusNotFound)
		return
	}
	http.Error(w, "Failed to handle resources: "+err.Error(), http.StatusInternalServerError)
}

func toResourceDTO(res model.LessonResource) dto.ResourceResponseDTO {
	return dto.ResourceResponseDTO{
		ResourceID: res.ResourceID,
		LessonID:   res.LessonID,
		Name:       res.Name,
		URL:        res.URL,
		Kind:       res.Kind,
		CreatedAt:  res.CreatedAt,
	}
}
