package model

import (
	"fmt"
	"time"
)

// SaveRequest is the typed input of Create/Update. Content is nil when the
// caller did not send it; an empty string is a valid, empty note.
type SaveRequest struct {
	Name    string  `json:"Name"`
	Content *string `json:"Content"`
}

// NewSaveRequest returns a request carrying both fields.
func NewSaveRequest(name, content string) SaveRequest {
	return SaveRequest{Name: name, Content: &content}
}

// Validate checks that both fields are present.
func (r SaveRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("Name is required")
	}
	if r.Content == nil {
		return fmt.Errorf("Content is required")
	}
	return nil
}

// Validate checks that both key parts are present and CreatedAt is a date.
func (k NoteKey) Validate() error {
	if k.CreatedAt == "" {
		return fmt.Errorf("CreatedAt is required")
	}
	if k.Name == "" {
		return fmt.Errorf("Name is required")
	}
	if _, err := time.Parse(DateLayout, k.CreatedAt); err != nil {
		return fmt.Errorf("CreatedAt must be a date in YYYY-MM-DD format")
	}
	return nil
}
