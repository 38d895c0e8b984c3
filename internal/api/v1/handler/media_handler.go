package handler

import (
	"encoding/json"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// MediaHandler hands out presigned storage URLs
type MediaHandler struct {
	mediaService service.MediaService
	validate     *validator.Validate
	logger       zerolog.Logger
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(mediaService service.MediaService, validate *validator.Validate, logger zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
		validate:     validate,
		logger:       logger.With().Str("handler", "MediaHandler").Logger(),
	}
}

// RegisterRoutes mounts media routes
func (h *MediaHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/media/uploads", authMw(http.HandlerFunc(h.createUpload)))
	mux.Handle("/media/download-url", authMw(http.HandlerFunc(h.getDownloadURL)))
}

// createUpload godoc
// @Summary Request a presigned upload URL
// @Description Returns a short-lived PUT URL so the client can upload a lesson resource directly to storage.
// @Tags media
// @Accept json
// @Produce json
// @Param request body dto.UploadCreateDTO true "File to upload"
// @Success 201 {object} dto.UploadResponseDTO
// @Failure 400 {string} string "Invalid upload request"
// @Failure 401 {string} string "Unauthorized: User ID not found in context"
// @Router /media/uploads [post]
func (h *MediaHandler) createUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.UploadCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "Invalid upload request: "+err.Error(), http.StatusBadRequest)
		return
	}

	upload, err := h.mediaService.InitiateUpload(r.Context(), userID, req.FileName, req.ContentType)
	if err != nil {
		http.Error(w, "Failed to create upload URL: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, dto.UploadResponseDTO{
		UploadURL:   upload.UploadURL,
		StoragePath: upload.StoragePath,
		Kind:        upload.Kind,
	})
}

// getDownloadURL godoc
// @Summary Request a presigned download URL
// @Tags media
// @Produce json
// @Param path query string true "Storage path"
// @Success 200 {object} dto.DownloadURLResponseDTO
// @Failure 400 {string} string "path is required"
// @Router /media/download-url [get]
func (h *MediaHandler) getDownloadURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	storagePath := r.URL.Query().Get("path")
	if storagePath == "" {
		http.Error(w, "path is required", http.StatusBadRequest)
		return
	}

	url, err := h.mediaService.GetDownloadURL(r.Context(), storagePath)
	if err != nil {
		http.Error(w, "Failed to create download URL: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dto.DownloadURLResponseDTO{URL: url})
}
