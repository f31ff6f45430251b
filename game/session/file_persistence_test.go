package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"github.com/wricardo/foxcatcher/game/engine"
	"github.com/wricardo/foxcatcher/game/service"
)

// stubLayouts serves the classic layout only
type stubLayouts struct{}

func (stubLayouts) LoadLayout(id string) (*engine.Layout, error) {
	if id == engine.DefaultLayoutName {
		return engine.DefaultLayout(), nil
	}
	return nil, service.ErrLayoutNotFound
}

func (stubLayouts) ListLayouts() ([]*service.LayoutInfo, error) {
	return []*service.LayoutInfo{{LayoutID: engine.DefaultLayoutName, Name: engine.DefaultLayoutName}}, nil
}

func (stubLayouts) GetDefault() *engine.Layout {
	return engine.DefaultLayout()
}

func (stubLayouts) SaveLayout(string, *engine.Layout) error {
	return nil
}

func newTestPersistence(t *testing.T) (*FilePersistence, string) {
	t.Helper()
	dir := t.TempDir()
	fp, err := NewFilePersistence(dir, stubLayouts{})
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}
	return fp, dir
}

func TestFilePersistence_SaveLoad(t *testing.T) {
	fp, dir := newTestPersistence(t)
	manager := NewManager()
	session, _ := manager.Create("ab12", createTestOptions())

	if ok, err := session.Engine.Move(1, engine.UpRight); err != nil || !ok {
		t.Fatalf("Expected dog move to succeed: %v %v", ok, err)
	}
	if ok, err := session.Engine.Move(0, engine.DownLeft); err != nil || !ok {
		t.Fatalf("Expected fox move to succeed: %v %v", ok, err)
	}
	session.ResultID = "result-1"

	if err := fp.Save(session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "ab12.json")); err != nil {
		t.Fatalf("Expected session file: %v", err)
	}

	loaded, err := fp.Load("AB12")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !loaded.Engine.Board().Equal(session.Engine.Board()) {
		t.Errorf("Expected board %s, got %s", session.Engine.Board(), loaded.Engine.Board())
	}
	if loaded.Engine.MoveCount() != 2 {
		t.Errorf("Expected 2 moves in history, got %d", loaded.Engine.MoveCount())
	}
	if loaded.PlayerOne != "ann" || loaded.PlayerTwo != "bob" || loaded.ResultID != "result-1" {
		t.Errorf("Unexpected session metadata %+v", loaded)
	}
	if loaded.Engine.Board().ToMove() != engine.Dog {
		t.Errorf("Expected dogs to move, got %s", loaded.Engine.Board().ToMove())
	}

	// reset goes back to the layout, not to the restored position
	loaded.Engine.Reset()
	if !loaded.Engine.Board().Equal(engine.NewInitialBoardState()) {
		t.Errorf("Expected reset to the classic layout, got %s", loaded.Engine.Board())
	}
}

func TestFilePersistence_LoadRejectsTamperedBoard(t *testing.T) {
	fp, dir := newTestPersistence(t)
	content := `{
  "id": "bad1",
  "layout_id": "classic",
  "board": {
    "to_move": "DOG",
    "pieces": [
      {"type": "FOX", "position": {"row": 0, "col": 2}},
      {"type": "FOX", "position": {"row": 7, "col": 1}},
      {"type": "DOG", "position": {"row": 7, "col": 3}},
      {"type": "DOG", "position": {"row": 7, "col": 5}},
      {"type": "DOG", "position": {"row": 7, "col": 7}}
    ]
  },
  "history": []
}`
	if err := os.WriteFile(filepath.Join(dir, "bad1.json"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := fp.Load("bad1"); !errors.Is(err, engine.ErrInvalidArgument) {
		t.Errorf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestFilePersistence_DeleteAndList(t *testing.T) {
	fp, _ := newTestPersistence(t)
	manager := NewManager()
	for _, id := range []string{"aaaa", "bbbb"} {
		session, _ := manager.Create(id, createTestOptions())
		if err := fp.Save(session); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	ids, err := fp.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("Expected 2 ids, got %v", ids)
	}

	if err := fp.Delete("aaaa"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if fp.Exists("aaaa") {
		t.Error("Expected file to be removed")
	}
	if err := fp.Delete("aaaa"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
	if _, err := fp.Load("aaaa"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManagerWithPersistence(t *testing.T) {
	fp, _ := newTestPersistence(t)

	manager := NewManagerWithPersistence(fp)
	session, err := manager.Create("p001", createTestOptions())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := session.Engine.Move(2, engine.UpLeft); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if err := manager.Save("p001"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// lazy load in a fresh manager
	fresh := NewManagerWithPersistence(fp)
	got, err := fresh.Get("P001")
	if err != nil {
		t.Fatalf("Get from persistence failed: %v", err)
	}
	if got.Engine.MoveCount() != 1 {
		t.Errorf("Expected 1 move, got %d", got.Engine.MoveCount())
	}

	// bulk load
	other := NewManagerWithPersistence(fp)
	if err := other.LoadPersistedSessions(); err != nil {
		t.Fatalf("LoadPersistedSessions failed: %v", err)
	}
	if other.Count() != 1 {
		t.Errorf("Expected 1 loaded session, got %d", other.Count())
	}
	if err := other.SaveAllSessions(); err != nil {
		t.Errorf("SaveAllSessions failed: %v", err)
	}

	// memory eviction keeps the file
	if err := fresh.DeleteFromMemory("p001"); err != nil {
		t.Fatalf("DeleteFromMemory failed: %v", err)
	}
	if !fp.Exists("p001") {
		t.Error("Expected persisted file to remain")
	}

	if err := fresh.Delete("p001"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if fp.Exists("p001") {
		t.Error("Expected persisted file to be removed")
	}
}
