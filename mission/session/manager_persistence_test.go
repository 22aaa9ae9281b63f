package session

import (
	"errors"
	"sync"
	"testing"
)

func TestManagerWithPersistence(t *testing.T) {
	persistence, err := NewFilePersistence(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}
	manager := NewManagerWithPersistence(persistence)

	t.Run("create auto-saves", func(t *testing.T) {
		session, err := manager.Create("auto1", createTestConfig())
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if !persistence.Exists(session.ID) {
			t.Error("Session should be auto-saved on creation")
		}
	})

	t.Run("get loads from persistence", func(t *testing.T) {
		session, _ := manager.Get("auto1")
		session.Engine.Execute("MM")
		if err := manager.Save("auto1"); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		manager2 := NewManagerWithPersistence(persistence)
		loaded, err := manager2.Get("AUTO1")
		if err != nil {
			t.Fatalf("Failed to load session through second manager: %v", err)
		}
		if got := loaded.Engine.GetRover().Report(); got != "1 4 N" {
			t.Errorf("Expected 1 4 N, got %s", got)
		}
		if manager2.Count() != 1 {
			t.Errorf("Expected loaded session to be cached, count %d", manager2.Count())
		}
	})

	t.Run("load persisted sessions", func(t *testing.T) {
		manager.Create("auto2", createTestConfig())

		manager3 := NewManagerWithPersistence(persistence)
		if err := manager3.LoadPersistedSessions(); err != nil {
			t.Fatalf("LoadPersistedSessions failed: %v", err)
		}
		if manager3.Count() != 2 {
			t.Errorf("Expected 2 sessions loaded, got %d", manager3.Count())
		}
	})

	t.Run("delete removes file", func(t *testing.T) {
		if err := manager.Delete("auto2"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if persistence.Exists("auto2") {
			t.Error("Expected persisted file to be removed")
		}
	})

	t.Run("delete from memory keeps file", func(t *testing.T) {
		if err := manager.DeleteFromMemory("auto1"); err != nil {
			t.Fatalf("DeleteFromMemory failed: %v", err)
		}
		if !persistence.Exists("auto1") {
			t.Error("Expected persisted file to remain")
		}
		if _, err := manager.Get("auto1"); err != nil {
			t.Errorf("Expected session to reload from disk: %v", err)
		}
	})

	t.Run("save all", func(t *testing.T) {
		if err := manager.SaveAllSessions(); err != nil {
			t.Errorf("SaveAllSessions failed: %v", err)
		}
	})

	t.Run("save unknown session", func(t *testing.T) {
		if err := manager.Save("nope"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_SaveWhileExecuting(t *testing.T) {
	persistence, err := NewFilePersistence(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}
	manager := NewManagerWithPersistence(persistence)

	session, err := manager.Create("sync1", createTestConfig())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			session.Engine.Execute("LRM")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if err := manager.SaveAllSessions(); err != nil {
				t.Errorf("SaveAllSessions failed: %v", err)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			manager.UpdateLastAccessed("sync1")
		}
	}()
	wg.Wait()

	if err := manager.Save("sync1"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := persistence.Load("sync1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := loaded.Engine.GetState().TotalCommands; got != 150 {
		t.Errorf("Expected 150 persisted commands, got %d", got)
	}
}
