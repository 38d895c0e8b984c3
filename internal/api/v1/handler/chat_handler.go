package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ChatHandler handles the chatbot endpoint
type ChatHandler struct {
	chatbotService service.ChatbotService
	validate       *validator.Validate
	logger         zerolog.Logger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatbotService service.ChatbotService, validate *validator.Validate, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		chatbotService: chatbotService,
		validate:       validate,
		logger:         logger.With().Str("handler", "ChatHandler").Logger(),
	}
}

// RegisterRoutes mounts chat routes
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/chat", authMw(http.HandlerFunc(h.chat)))
}

// chat godoc
// @Summary Ask the catalog assistant
// @Description Answers a single-turn question. Known question shapes are resolved against the catalog; anything else goes to the completion service.
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequestDTO true "Question"
// @Success 200 {object} dto.ChatResponseDTO
// @Failure 400 {string} string "Message is required"
// @Failure 500 {string} string "AI call failed."
// @Router /chat [post]
func (h *ChatHandler) chat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.ChatRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "Message is required", http.StatusBadRequest)
		return
	}

	reply, err := h.chatbotService.Respond(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			http.Error(w, "Message is required", http.StatusBadRequest)
			return
		}
		if errors.Is(err, service.ErrCompletionUnavailable) {
			h.logger.Error().Err(err).Msg("Completion backend unavailable")
			http.Error(w, "AI call failed.", http.StatusInternalServerError)
			return
		}
		http.Error(w, "Failed to answer message: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, dto.ChatResponseDTO{Reply: reply})
}
