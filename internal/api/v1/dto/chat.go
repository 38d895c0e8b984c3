package dto

// ChatRequestDTO is a single chatbot question
type ChatRequestDTO struct {
	Message string `json:"message" validate:"required"`
}

// ChatResponseDTO is the chatbot's reply
type ChatResponseDTO struct {
	Reply string `json:"reply"`
}
