package session

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/tilenav/world/nav"
	"github.com/wricardo/tilenav/world/service"
)

func createTestConfig() *nav.MapConfig {
	return &nav.MapConfig{
		Name:        "Test Map",
		Description: "Test map",
		Layout: []string{
			"#####",
			"#...#",
			"#.#.#",
			"#...#",
			"#####",
		},
		Start: &nav.Position{X: 1, Y: 1},
	}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", "test", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" || session.MapID != "test" {
			t.Errorf("Unexpected session %+v", session)
		}
		if session.Grid == nil || session.Grid.Len() != 25 {
			t.Error("Expected grid to be built from the layout")
		}
		if session.Agent != (nav.Position{X: 1, Y: 1}) {
			t.Errorf("Expected agent at start, got %s", session.Agent)
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", "test", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got '%s'", session.ID)
		}
	})

	t.Run("duplicate ID", func(t *testing.T) {
		_, err := manager.Create("TEST-SESSION", "test", config)
		if err != ErrSessionAlreadyExists {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("invalid map", func(t *testing.T) {
		_, err := manager.Create("bad", "bad", &nav.MapConfig{Name: "bad"})
		if !errors.Is(err, nav.ErrInvalidMap) {
			t.Errorf("Expected ErrInvalidMap, got %v", err)
		}
	})

	t.Run("sessions get independent grids", func(t *testing.T) {
		a, _ := manager.Create("", "test", config)
		b, _ := manager.Create("", "test", config)
		a.Grid.ToggleWalkable(nav.Position{X: 2, Y: 1})
		node, _ := b.Grid.Lookup(nav.Position{X: 2, Y: 1})
		if !node.Walkable {
			t.Error("Toggling one session's grid must not affect another")
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create("AbCd", "test", createTestConfig())

	for _, id := range []string{"AbCd", "abcd", "ABCD"} {
		session, err := manager.Get(id)
		if err != nil {
			t.Errorf("Get(%q) failed: %v", id, err)
			continue
		}
		if session != created {
			t.Errorf("Get(%q) returned a different session", id)
		}
	}

	_, err := manager.Get("zzzz")
	if err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
	if !errors.Is(err, service.ErrNotFound) {
		t.Error("Expected ErrSessionNotFound to wrap service.ErrNotFound")
	}
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	manager.Create("del1", "test", createTestConfig())

	if err := manager.Delete("DEL1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := manager.Get("del1"); err != ErrSessionNotFound {
		t.Error("Expected session to be gone")
	}
	if err := manager.Delete("del1"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	session, _ := manager.Create("time", "test", createTestConfig())
	before := session.LastAccessedAt

	time.Sleep(5 * time.Millisecond)
	if err := manager.UpdateLastAccessed("time"); err != nil {
		t.Fatalf("UpdateLastAccessed failed: %v", err)
	}
	if !session.LastAccessedAt.After(before) {
		t.Error("Expected last accessed time to advance")
	}
	if err := manager.UpdateLastAccessed("none"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_CleanupExpiredSessions(t *testing.T) {
	manager := NewManager()
	old, _ := manager.Create("old", "test", createTestConfig())
	manager.Create("new", "test", createTestConfig())

	old.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	removed := manager.CleanupExpiredSessions(time.Hour)
	if removed != 1 {
		t.Errorf("Expected 1 session removed, got %d", removed)
	}
	if manager.Count() != 1 {
		t.Errorf("Expected 1 session left, got %d", manager.Count())
	}
	if _, err := manager.Get("new"); err != nil {
		t.Error("Expected fresh session to survive cleanup")
	}
}

func TestManager_ConcurrentCreate(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	var wg sync.WaitGroup
	var mu sync.Mutex
	ids := make(map[string]bool)
	failures := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := manager.Create("", "test", config)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures++
				return
			}
			ids[strings.ToLower(session.ID)] = true
		}()
	}
	wg.Wait()

	if failures > 0 {
		t.Errorf("Expected no failures, got %d", failures)
	}
	if len(ids) != 50 || manager.Count() != 50 {
		t.Errorf("Expected 50 unique sessions, got %d ids and %d stored", len(ids), manager.Count())
	}
}
