package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"ibc_tool/pkg/core/calculator"
)

func TestCreateAndGet(t *testing.T) {
	m := NewManager(nil, time.Minute)
	s := m.Create()

	got, err := m.Get(s.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != s {
		t.Error("Expected the same session")
	}
	if _, err := m.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	m.Delete(s.ID)
	if m.Len() != 0 {
		t.Errorf("Expected no sessions, got %d", m.Len())
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	m := NewManager(nil, time.Minute)
	a, b := m.Create(), m.Create()
	if a.ID == b.ID {
		t.Fatal("Expected distinct ids")
	}

	a.Do(func(c *calculator.Calculator) error { return c.PressAll("42") })

	var display string
	b.Do(func(c *calculator.Calculator) error {
		display = c.Display()
		return nil
	})
	if display != "0" {
		t.Errorf("Expected untouched session, got %s", display)
	}
}

func TestConcurrentPresses(t *testing.T) {
	m := NewManager(nil, time.Minute)
	s := m.Create()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Do(func(c *calculator.Calculator) error { return c.PressAll("1 + 1 =") })
		}()
	}
	wg.Wait()

	s.Do(func(c *calculator.Calculator) error {
		if c.Display() != "2" {
			t.Errorf("Expected 2, got %s", c.Display())
		}
		if c.History.Len() != 20 {
			t.Errorf("Expected full history, got %d", c.History.Len())
		}
		return nil
	})
}

func TestSweepEvictsIdle(t *testing.T) {
	m := NewManager(nil, time.Minute)
	old := m.Create()
	fresh := m.Create()

	if n := m.Sweep(time.Now()); n != 0 {
		t.Errorf("Expected nothing evicted, got %d", n)
	}

	// Only the fresh session is touched after the cutoff
	later := time.Now().Add(2 * time.Minute)
	fresh.mu.Lock()
	fresh.updatedAt = later
	fresh.mu.Unlock()

	if n := m.Sweep(later); n != 1 {
		t.Errorf("Expected 1 eviction, got %d", n)
	}
	if _, err := m.Get(old.ID); err == nil {
		t.Error("Expected idle session to be evicted")
	}
	if _, err := m.Get(fresh.ID); err != nil {
		t.Error("Expected active session to survive")
	}
}
