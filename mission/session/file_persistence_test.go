package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wricardo/mars-rover/mission/engine"
	"github.com/wricardo/mars-rover/mission/service"
)

func newTestSession(t *testing.T, id string) *service.Session {
	t.Helper()
	config := createTestConfig()
	eng, err := engine.NewEngine(config)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	now := time.Now().Truncate(time.Second)
	return &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
}

func TestFilePersistence_SaveLoad(t *testing.T) {
	fp, err := NewFilePersistence(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}

	session := newTestSession(t, "ab12")
	session.Engine.Execute("RMMLX")

	if err := fp.Save(session); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !fp.Exists("ab12") {
		t.Fatal("Expected session file to exist")
	}

	loaded, err := fp.Load("ab12")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.ID != "ab12" {
		t.Errorf("Expected ID ab12, got %s", loaded.ID)
	}
	if got := loaded.Engine.GetRover().Report(); got != "3 2 N" {
		t.Errorf("Expected restored rover at 3 2 N, got %s", got)
	}
	state := loaded.Engine.GetState()
	if state.TotalCommands != 5 {
		t.Errorf("Expected 5 commands in history, got %d", state.TotalCommands)
	}
	if state.Summary.Ignored != 1 {
		t.Errorf("Expected 1 ignored command, got %d", state.Summary.Ignored)
	}
	if !loaded.CreatedAt.Equal(session.CreatedAt) {
		t.Errorf("Expected CreatedAt %v, got %v", session.CreatedAt, loaded.CreatedAt)
	}

	// Reset after reload returns to the original landing
	if got := loaded.Engine.Reset().Report; got != "1 2 N" {
		t.Errorf("Expected reset to 1 2 N, got %s", got)
	}
}

func TestFilePersistence_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	fp, _ := NewFilePersistence(dir)

	if _, err := fp.Load("none"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}

	os.WriteFile(filepath.Join(dir, "junk.json"), []byte("{not json"), 0644)
	if _, err := fp.Load("junk"); err == nil {
		t.Error("Expected error for corrupt session file")
	}

	os.WriteFile(filepath.Join(dir, "empty.json"), []byte(`{"id":"empty"}`), 0644)
	if _, err := fp.Load("empty"); err == nil {
		t.Error("Expected error for session file without config")
	}
}

func TestFilePersistence_DeleteAndList(t *testing.T) {
	fp, _ := NewFilePersistence(t.TempDir())

	for _, id := range []string{"aaaa", "bbbb", "cccc"} {
		if err := fp.Save(newTestSession(t, id)); err != nil {
			t.Fatalf("Save %s failed: %v", id, err)
		}
	}

	ids, err := fp.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(ids) != 3 {
		t.Errorf("Expected 3 sessions, got %v", ids)
	}

	if err := fp.Delete("bbbb"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if fp.Exists("bbbb") {
		t.Error("Expected bbbb to be gone")
	}
	if err := fp.Delete("bbbb"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestFilePersistence_SaveNil(t *testing.T) {
	fp, _ := NewFilePersistence(t.TempDir())
	if err := fp.Save(nil); err == nil {
		t.Error("Expected error saving nil session")
	}
}
