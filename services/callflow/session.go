package callflow

import (
	"sync"
	"time"

	"movecall/models"

	"go.uber.org/zap"
)

// SessionManager owns the call-keyed session store. Turns within one call are
// strictly sequential, so session fields need no lock of their own; the map
// and the activity timestamps the janitor reads are guarded by mu.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*models.CallSession
	ttl      time.Duration
	logger   *zap.Logger
	stop     chan struct{}
	stopOnce sync.Once
}

// NewSessionManager builds a manager. Sessions idle longer than ttl are
// garbage collected by the janitor.
func NewSessionManager(ttl time.Duration, logger *zap.Logger) *SessionManager {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionManager{
		sessions: make(map[string]*models.CallSession),
		ttl:      ttl,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Create registers a new session for a call, replacing any stale one with the
// same id.
func (m *SessionManager) Create(callID, callerContact string) *models.CallSession {
	now := time.Now()
	s := &models.CallSession{
		CallID:        callID,
		Stage:         StageGreeting,
		CallerContact: callerContact,
		Collected:     make(map[string]string),
		Attempts:      make(map[string]int),
		StartedAt:     now,
		LastActivity:  now,
	}
	m.mu.Lock()
	m.sessions[callID] = s
	m.mu.Unlock()
	return s
}

// Get returns the live session for a call, bumping its activity timestamp.
// The bump happens under the write lock so the janitor never reads a
// half-written timestamp and never expires a session whose turn is in flight.
func (m *SessionManager) Get(callID string) (*models.CallSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[callID]
	if ok {
		s.LastActivity = time.Now()
	}
	return s, ok
}

// End removes a session once the call finishes or reaches a terminal stage.
func (m *SessionManager) End(callID string) {
	m.mu.Lock()
	delete(m.sessions, callID)
	m.mu.Unlock()
}

// Len reports the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ExpireIdle removes sessions idle past the TTL and returns them so the
// caller can record their outcome as abandoned.
func (m *SessionManager) ExpireIdle() []*models.CallSession {
	cutoff := time.Now().Add(-m.ttl)
	var expired []*models.CallSession
	m.mu.Lock()
	for id, s := range m.sessions {
		if s.LastActivity.Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
	return expired
}

// StartJanitor sweeps idle sessions on an interval until Close is called.
// Each expired session is passed to onExpire.
func (m *SessionManager) StartJanitor(interval time.Duration, onExpire func(*models.CallSession)) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				for _, s := range m.ExpireIdle() {
					m.logger.Info("expiring idle call session",
						zap.String("callId", s.CallID), zap.String("stage", s.Stage))
					if onExpire != nil {
						onExpire(s)
					}
				}
			case <-m.stop:
				return
			}
		}
	}()
}

// Close stops the janitor.
func (m *SessionManager) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}
