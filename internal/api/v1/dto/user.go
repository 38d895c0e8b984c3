package dto

import "time"

// UserCreateDTO is the sign-in profile upsert payload
type UserCreateDTO struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Role      string `json:"role" validate:"omitempty,oneof=teacher student"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

// UserResponseDTO is returned in API responses for users
type UserResponseDTO struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
