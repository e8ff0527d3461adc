package types

import (
	"time"

	"github.com/google/uuid"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type Meta struct {
	RequestID string `json:"request_id,omitempty"`
	Page      int    `json:"page,omitempty"`
	PageSize  int    `json:"page_size,omitempty"`
	Total     int64  `json:"total,omitempty"`
}

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        UserResponse `json:"user"`
}

// ChatResponse is one turn of a conversation: the engine's reply and where
// the session now stands.
type ChatResponse struct {
	Flow    string `json:"flow"`
	Step    string `json:"step"`
	Message string `json:"message"`
	Done    bool   `json:"done"`
}

type ExportJobResponse struct {
	TaskID string `json:"task_id"`
}

type ExportDocumentResponse struct {
	Filename    string    `json:"filename"`
	ETag        string    `json:"etag"`
	GeneratedAt time.Time `json:"generated_at"`
	Content     string    `json:"content"`
}
