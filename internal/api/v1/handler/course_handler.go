package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// CourseHandler handles catalog, recommendation and enrollment endpoints
type CourseHandler struct {
	courseService    service.CourseService
	recommendService service.RecommendationService
	validate         *validator.Validate
	logger           zerolog.Logger
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(
	courseService service.CourseService,
	recommendService service.RecommendationService,
	validate *validator.Validate,
	logger zerolog.Logger,
) *CourseHandler {
	return &CourseHandler{
		courseService:    courseService,
		recommendService: recommendService,
		validate:         validate,
		logger:           logger.With().Str("handler", "CourseHandler").Logger(),
	}
}

// RegisterRoutes mounts course routes
func (h *CourseHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/courses", authMw(http.HandlerFunc(h.listCourses)))
	mux.Handle("/courses/", authMw(http.HandlerFunc(h.handleCourseSubtree)))
}

func parseBoolParam(v string) *bool {
	switch v {
	case "true":
		b := true
		return &b
	case "false":
		b := false
		return &b
	}
	return nil
}

// listCourses godoc
// @Summary List courses
// @Description Searches the catalog by title with pagination; suggest=true returns title suggestions, popular=true the enrollment-ranked list.
// @Tags courses
// @Produce json
// @Param search query string false "Title search term"
// @Param page query int false "Page number (8 per page)"
// @Param sort query string false "Sort, e.g. createdAt,DESC"
// @Param published query bool false "Filter by published flag"
// @Param isPaid query bool false "Filter by paid flag"
// @Param suggest query bool false "Return title suggestions only"
// @Param popular query bool false "Return most-enrolled published courses"
// @Success 200 {object} dto.CourseListResponseDTO
// @Failure 500 {string} string "Failed to list courses"
// @Router /courses [get]
func (h *CourseHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()

	if q.Get("popular") == "true" {
		courses, err := h.courseService.Popular(r.Context())
		if err != nil {
			http.Error(w, "Failed to list popular courses: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, dto.PopularCoursesResponseDTO{Popular: toCourseDTOs(courses)})
		return
	}

	if q.Get("suggest") == "true" {
		titles, err := h.courseService.Suggest(r.Context(), q.Get("search"))
		if err != nil {
			http.Error(w, "Failed to suggest titles: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, titles)
		return
	}

	page, _ := strconv.Atoi(q.Get("page"))
	listing, err := h.courseService.List(
		r.Context(),
		q.Get("search"),
		parseBoolParam(q.Get("published")),
		parseBoolParam(q.Get("isPaid")),
		q.Get("sort"),
		page,
	)
	if err != nil {
		http.Error(w, "Failed to list courses: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dto.CourseListResponseDTO{
		Courses: toCourseDTOs(listing.Courses),
		Total:   listing.Total,
	})
}

func (h *CourseHandler) handleCourseSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/courses/")

	switch {
	case rest == "recommendations":
		h.getRecommendations(w, r)
	case rest == "enrolled":
		h.getEnrolledCourses(w, r)
	case strings.HasSuffix(rest, "/enroll"):
		h.handleEnrollment(w, r, strings.TrimSuffix(rest, "/enroll"))
	default:
		h.getCourse(w, r, rest)
	}
}

// getRecommendations godoc
// @Summary Recommend courses
// @Description Returns up to 6 published courses for the user via the staged fallback resolver. An unknown user gets an empty list.
// @Tags courses
// @Produce json
// @Param userId query string false "User to recommend for; defaults to the authenticated user"
// @Success 200 {object} dto.RecommendationsResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 500 {string} string "Failed to compute recommendations"
// @Router /courses/recommendations [get]
func (h *CourseHandler) getRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}
	if target := r.URL.Query().Get("userId"); target != "" {
		userID = target
	}

	courses, err := h.recommendService.Recommend(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Recommendation cascade failed")
		http.Error(w, "Failed to compute recommendations", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dto.RecommendationsResponseDTO{Recommended: toCourseDTOs(courses)})
}

// getCourse godoc
// @Summary Get a course
// @Description Retrieves a course with its teacher, lessons and quizzes.
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} dto.CourseDetailResponseDTO
// @Failure 404 {string} string "Course not found"
// @Failure 500 {string} string "Failed to retrieve course"
// @Router /courses/{courseId} [get]
func (h *CourseHandler) getCourse(w http.ResponseWriter, r *http.Request, courseID string) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	detail, err := h.courseService.GetCourseDetail(r.Context(), courseID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			http.Error(w, "Course not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to retrieve course: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := dto.CourseDetailResponseDTO{CourseResponseDTO: toCourseDTO(detail.Course)}
	if detail.Teacher != nil {
		teacher := toUserDTO(*detail.Teacher)
		resp.Teacher = &teacher
	}
	resp.Lessons = make([]dto.LessonDetailResponseDTO, len(detail.Lessons))
	for i, ld := range detail.Lessons {
		resp.Lessons[i] = dto.LessonDetailResponseDTO{
			LessonResponseDTO: toLessonDTO(ld.Lesson),
			Quizzes:           toQuizDTOs(ld.Quizzes),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleEnrollment godoc
// @Summary Enroll in or leave a course
// @Description POST enrolls the authenticated user (idempotent), DELETE unenrolls.
// @Tags courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} dto.EnrollResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "Course not found"
// @Failure 500 {string} string "Failed to update enrollment"
// @Router /courses/{courseId}/enroll [post]
func (h *CourseHandler) handleEnrollment(w http.ResponseWriter, r *http.Request, courseID string) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodPost:
		message, err := h.courseService.Enroll(r.Context(), courseID, userID)
		if err != nil {
			h.writeEnrollError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, dto.EnrollResponseDTO{Message: message})
	case http.MethodDelete:
		if err := h.courseService.Unenroll(r.Context(), courseID, userID); err != nil {
			h.writeEnrollError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, dto.EnrollResponseDTO{Message: "Unenrolled successfully."})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CourseHandler) writeEnrollError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		http.Error(w, "Course not found", http.StatusNotFound)
	case errors.Is(err, service.ErrUserNotFound):
		http.Error(w, "User not found", http.StatusNotFound)
	default:
		http.Error(w, "Failed to update enrollment: "+err.Error(), http.StatusInternalServerError)
	}
}

// getEnrolledCourses godoc
// @Summary List enrolled courses
// @Tags courses
// @Produce json
// @Success 200 {object} dto.EnrolledCoursesResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 500 {string} string "Failed to list enrolled courses"
// @Router /courses/enrolled [get]
func (h *CourseHandler) getEnrolledCourses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	courses, err := h.courseService.EnrolledCourses(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to list enrolled courses: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dto.EnrolledCoursesResponseDTO{Success: true, Courses: toCourseDTOs(courses)})
}
