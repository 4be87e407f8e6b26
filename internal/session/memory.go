package session

import (
	"context"
	"sync"
	"time"

	"github.com/streamops/stitcher/internal/logger"
)

// MemoryManager is a concurrent-map-backed Manager: touch/get/remove
// take a per-call lock, and a background sweep evicts entries whose
// last-accessed time has passed ttl.
type MemoryManager struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	logger   logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

var _ Manager = (*MemoryManager)(nil)

func NewMemoryManager(ttl time.Duration, log logger.Logger) *MemoryManager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &MemoryManager{
		sessions: make(map[string]Session),
		ttl:      ttl,
		logger:   log,
		ctx:      ctx,
		cancel:   cancel,
	}
	go m.sweepLoop()
	return m
}

func (m *MemoryManager) GetOrCreate(_ context.Context, id, originURL string) (Session, error) {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok && !s.Expired(now, m.ttl) {
		return s, nil
	}

	s := Session{ID: id, OriginURL: originURL, CreatedAt: now, LastAccessed: now}
	m.sessions[id] = s
	return s, nil
}

func (m *MemoryManager) Get(_ context.Context, id string) (Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok || s.Expired(time.Now(), m.ttl) {
		return Session{}, false, nil
	}
	return s, true, nil
}

func (m *MemoryManager) Touch(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil
	}
	s.LastAccessed = time.Now()
	m.sessions[id] = s
	return nil
}

func (m *MemoryManager) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemoryManager) CleanupExpired(_ context.Context) error {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	evicted := 0
	for id, s := range m.sessions {
		if s.Expired(now, m.ttl) {
			delete(m.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		m.logger.Debugf("session: evicted %d expired sessions, %d remain", evicted, len(m.sessions))
	}
	return nil
}

func (m *MemoryManager) SessionCount(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions), nil
}

func (m *MemoryManager) Stop() {
	m.cancel()
}

func (m *MemoryManager) sweepLoop() {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			_ = m.CleanupExpired(m.ctx)
		}
	}
}
