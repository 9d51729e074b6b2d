package callflow

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSessionLifecycle(t *testing.T) {
	m := NewSessionManager(time.Minute, zap.NewNop())
	defer m.Close()

	s := m.Create("CA-1", "+15125550100")
	if s.Stage != StageGreeting {
		t.Errorf("new session stage = %q", s.Stage)
	}
	if got, ok := m.Get("CA-1"); !ok || got != s {
		t.Error("Get did not return the created session")
	}

	m.End("CA-1")
	if _, ok := m.Get("CA-1"); ok {
		t.Error("session still present after End")
	}
}

func TestExpireIdle(t *testing.T) {
	m := NewSessionManager(10*time.Minute, zap.NewNop())
	defer m.Close()

	stale := m.Create("CA-stale", "+15125550100")
	stale.LastActivity = time.Now().Add(-time.Hour)
	m.Create("CA-fresh", "+15125550101")

	expired := m.ExpireIdle()
	if len(expired) != 1 || expired[0].CallID != "CA-stale" {
		t.Fatalf("expired = %v", expired)
	}
	if _, ok := m.Get("CA-stale"); ok {
		t.Error("stale session still present")
	}
	if _, ok := m.Get("CA-fresh"); !ok {
		t.Error("fresh session was removed")
	}
}

// TestConcurrentGetAndExpire drives Get and the janitor's sweep from separate
// goroutines: the activity bump and the idle check touch the same timestamp,
// so this fails under the race detector if either happens outside the lock.
// A continuously touched session must also survive the sweeps.
func TestConcurrentGetAndExpire(t *testing.T) {
	m := NewSessionManager(50*time.Millisecond, zap.NewNop())
	defer m.Close()
	m.Create("CA-live", "+15125550100")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if _, ok := m.Get("CA-live"); !ok {
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			m.ExpireIdle()
		}
	}()
	wg.Wait()

	if _, ok := m.Get("CA-live"); !ok {
		t.Error("actively touched session was expired mid-turn")
	}
}

func TestCreateReplacesStaleSession(t *testing.T) {
	m := NewSessionManager(time.Minute, zap.NewNop())
	defer m.Close()

	old := m.Create("CA-1", "+15125550100")
	old.Stage = StageDecision
	fresh := m.Create("CA-1", "+15125550100")
	if got, _ := m.Get("CA-1"); got != fresh {
		t.Error("Create did not replace the existing session")
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}
