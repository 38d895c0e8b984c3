package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ActivityHandler records view history and serves resume pointers
type ActivityHandler struct {
	activityService service.ActivityService
	validate        *validator.Validate
	logger          zerolog.Logger
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityService service.ActivityService, validate *validator.Validate, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
		validate:        validate,
		logger:          logger.With().Str("handler", "ActivityHandler").Logger(),
	}
}

// RegisterRoutes mounts activity routes
func (h *ActivityHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/activity/views", authMw(http.HandlerFunc(h.recordView)))
	mux.Handle("/activity/last-visited", authMw(http.HandlerFunc(h.getLastVisited)))
}

// recordView godoc
// @Summary Record a course or lesson visit
// @Description Moves the course to the front of the user's recent-views list and updates the last-visited pointers.
// @Tags activity
// @Accept json
// @Produce json
// @Param request body dto.ViewCreateDTO true "Visit"
// @Success 204
// @Failure 400 {string} string "Either course_id or lesson_id is required"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "Course not found"
// @Router /activity/views [post]
func (h *ActivityHandler) recordView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.ViewCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.CourseID == "" && req.LessonID == "" {
		http.Error(w, "Either course_id or lesson_id is required", http.StatusBadRequest)
		return
	}

	if err := h.activityService.RecordView(r.Context(), userID, req.CourseID, req.LessonID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		case errors.Is(err, service.ErrCourseNotFound):
			http.Error(w, "Course not found", http.StatusNotFound)
		case errors.Is(err, service.ErrLessonNotFound):
			http.Error(w, "Lesson not found", http.StatusNotFound)
		default:
			http.Error(w, "Failed to record view: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// getLastVisited godoc
// @Summary Get resume pointers
// @Description Returns the user's last visited course and lesson for the dashboard's continue-learning card.
// @Tags activity
// @Produce json
// @Success 200 {object} dto.LastVisitedResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "User not found"
// @Router /activity/last-visited [get]
func (h *ActivityHandler) getLastVisited(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	lv, err := h.activityService.GetLastVisited(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get last visited: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := dto.LastVisitedResponseDTO{}
	if lv.Course != nil {
		c := toCourseDTO(*lv.Course)
		resp.LastVisitedCourse = &c
	}
	if lv.Lesson != nil {
		l := toLessonDTO(*lv.Lesson)
		resp.LastVisitedLesson = &l
	}
	writeJSON(w, http.StatusOK, resp)
}
