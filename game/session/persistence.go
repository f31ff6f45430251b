package session

import (
	"time"

	"github.com/wricardo/foxcatcher/game/engine"
	"github.com/wricardo/foxcatcher/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData is the on-disk form of a session
type PersistedSessionData struct {
	ID             string                    `json:"id"`
	LayoutID       string                    `json:"layout_id"`
	PlayerOne      string                    `json:"player_one"`
	PlayerTwo      string                    `json:"player_two"`
	ResultID       string                    `json:"result_id,omitempty"`
	CreatedAt      time.Time                 `json:"created_at"`
	LastAccessedAt time.Time                 `json:"last_accessed_at"`
	Board          engine.BoardSnapshot      `json:"board"`
	History        []engine.MoveHistoryEntry `json:"history"`
}
