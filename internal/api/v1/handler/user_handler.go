package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// UserHandler handles profile endpoints
type UserHandler struct {
	userService service.UserService
	validate    *validator.Validate
	logger      zerolog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, validate *validator.Validate, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    validate,
		logger:      logger.With().Str("handler", "UserHandler").Logger(),
	}
}

// RegisterRoutes mounts user routes
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/users", authMw(http.HandlerFunc(h.upsertUser)))
	mux.Handle("/users/me", authMw(http.HandlerFunc(h.getMe)))
}

// upsertUser godoc
// @Summary Create or refresh the signed-in profile
// @Description Called after sign-in. Creates the profile on first visit, updates name/avatar afterwards. The role defaults to student.
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.UserCreateDTO true "Profile"
// @Success 200 {object} dto.UserResponseDTO
// @Failure 400 {string} string "Invalid profile"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Router /users [post]
func (h *UserHandler) upsertUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.UserCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "Invalid profile: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.userService.Upsert(r.Context(), &model.User{
		UserID:    userID,
		Name:      req.Name,
		Email:     req.Email,
		Role:      req.Role,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		http.Error(w, "Failed to save profile: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(*user))
}

// getMe godoc
// @Summary Get the signed-in profile
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponseDTO
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Failure 404 {string} string "User not found"
// @Router /users/me [get]
func (h *UserHandler) getMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	user, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get profile: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(*user))
}
