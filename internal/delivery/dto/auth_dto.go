package dto

import "time"

// Request DTOs

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Phone    string `json:"phone" validate:"required,phone"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Role     string `json:"role" validate:"required,oneof=patient doctor reception medical radiology"`
	Age      *int   `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender   string `json:"gender" validate:"omitempty,max=10"`

	// Doctors only
	Degrees        string `json:"degrees" validate:"omitempty,max=255"`
	Specialization string `json:"specialization" validate:"omitempty,max=120"`
	Experience     *int   `json:"experience" validate:"omitempty,gte=0,lte=80"`
}

type LoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Response DTOs

type RegisterResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	ID        string `json:"id"`
	ExpiresIn int64  `json:"expires_in"`
}

type UserResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	Phone          string    `json:"phone"`
	Age            *int      `json:"age"`
	Gender         *string   `json:"gender"`
	Degrees        *string   `json:"degrees,omitempty"`
	Specialization *string   `json:"specialization,omitempty"`
	Experience     *int      `json:"experience,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
