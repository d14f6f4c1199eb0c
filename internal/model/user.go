package model

import "time"

// User mirrors an identity-provider account. ID is the provider's subject.
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}

// UserResponse represents user data for API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
