package model

import "time"

// SharedList is a capability token granting read access to a user's entries.
type SharedList struct {
	ID        string
	UserID    string
	CreatedAt time.Time
}

// SharedListResponse represents a shared list in API responses.
type SharedListResponse struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSharedListResponse converts a SharedList for the API.
func NewSharedListResponse(s *SharedList) SharedListResponse {
	return SharedListResponse{
		ID:        s.ID,
		User:      s.UserID,
		CreatedAt: s.CreatedAt,
	}
}
