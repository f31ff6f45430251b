package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/wricardo/foxcatcher/game/engine"
	"github.com/wricardo/foxcatcher/game/service"
)

// FilePersistence stores each session as <id>.json in a directory
type FilePersistence struct {
	sessionsDir string
	layouts     service.LayoutManager
}

// NewFilePersistence creates a new file-based session persistence layer
func NewFilePersistence(sessionsDir string, layouts service.LayoutManager) (*FilePersistence, error) {
	if err := os.MkdirAll(sessionsDir, 0755); err != nil {
		return nil, errors.Wrap(err, "create sessions directory")
	}

	return &FilePersistence{
		sessionsDir: sessionsDir,
		layouts:     layouts,
	}, nil
}

// Save persists a session to a JSON file
func (fp *FilePersistence) Save(session *service.Session) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}

	data := PersistedSessionData{
		ID:             session.ID,
		LayoutID:       session.LayoutID,
		PlayerOne:      session.PlayerOne,
		PlayerTwo:      session.PlayerTwo,
		ResultID:       session.ResultID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		Board:          session.Engine.Board().Snapshot(),
		History:        session.Engine.GetMoveHistory(),
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal session data")
	}

	if err := os.WriteFile(fp.getFilePath(session.ID), jsonData, 0644); err != nil {
		return errors.Wrap(err, "write session file")
	}
	return nil
}

// Load retrieves a session from a JSON file. The board is rebuilt from the
// snapshot, so a tampered file that breaks the board rules fails to load.
func (fp *FilePersistence) Load(id string) (*service.Session, error) {
	jsonData, err := os.ReadFile(fp.getFilePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSessionNotFound
		}
		return nil, errors.Wrap(err, "read session file")
	}

	var data PersistedSessionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, errors.Wrap(err, "unmarshal session data")
	}

	layoutID := data.LayoutID
	if layoutID == "" {
		layoutID = engine.DefaultLayoutName
	}
	layout, err := fp.layouts.LoadLayout(layoutID)
	if err != nil {
		return nil, errors.WithMessagef(err, "load layout '%s'", layoutID)
	}

	gameEngine, err := engine.NewEngine(layout)
	if err != nil {
		return nil, errors.WithMessage(err, "create game engine")
	}
	if err := gameEngine.Restore(data.Board, data.History); err != nil {
		return nil, errors.WithMessagef(err, "restore session %s", id)
	}

	return &service.Session{
		ID:             data.ID,
		PlayerOne:      data.PlayerOne,
		PlayerTwo:      data.PlayerTwo,
		LayoutID:       layoutID,
		Engine:         gameEngine,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
		ResultID:       data.ResultID,
	}, nil
}

// Delete removes a session file
func (fp *FilePersistence) Delete(id string) error {
	if !fp.Exists(id) {
		return ErrSessionNotFound
	}
	if err := os.Remove(fp.getFilePath(id)); err != nil {
		return errors.Wrap(err, "remove session file")
	}
	return nil
}

// ListAll returns all persisted session IDs
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.sessionsDir)
	if err != nil {
		return nil, errors.Wrap(err, "read sessions directory")
	}

	var sessionIDs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name := entry.Name(); strings.HasSuffix(name, ".json") {
			sessionIDs = append(sessionIDs, strings.TrimSuffix(name, ".json"))
		}
	}
	return sessionIDs, nil
}

// Exists checks if a session file exists
func (fp *FilePersistence) Exists(id string) bool {
	_, err := os.Stat(fp.getFilePath(id))
	return err == nil
}

func (fp *FilePersistence) getFilePath(id string) string {
	return filepath.Join(fp.sessionsDir, fmt.Sprintf("%s.json", strings.ToLower(id)))
}
