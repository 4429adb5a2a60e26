package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultIdleTimeout = 24 * time.Hour
	sweepPeriod        = 5 * time.Minute
)

type tracked struct {
	history  *History
	lastSeen time.Time
}

// Manager maps session IDs to their histories. A session ends when it has
// been idle for longer than the idle timeout; its history goes with it.
// Safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	idle    time.Duration
	now     func() time.Time
	entries map[uuid.UUID]*tracked
	stop    chan struct{}
	once    sync.Once
}

// NewManager creates a Manager and starts a background goroutine that drops
// expired sessions. Call Close to stop it.
func NewManager(idle time.Duration) *Manager {
	m := newManager(idle)
	go m.sweep()
	return m
}

func newManager(idle time.Duration) *Manager {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Manager{
		idle:    idle,
		now:     time.Now,
		entries: make(map[uuid.UUID]*tracked),
		stop:    make(chan struct{}),
	}
}

// Get returns the history for id, starting a fresh session when id is
// unknown or expired. The returned ID is the one the caller should keep.
func (m *Manager) Get(id string) (uuid.UUID, *History) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if parsed, err := uuid.Parse(id); err == nil {
		if t, ok := m.entries[parsed]; ok && now.Sub(t.lastSeen) <= m.idle {
			t.lastSeen = now
			return parsed, t.history
		}
	}

	fresh := uuid.New()
	t := &tracked{history: NewHistory(), lastSeen: now}
	m.entries[fresh] = t
	return fresh, t.history
}

// Lookup returns the history of a live session without creating one.
func (m *Manager) Lookup(id string) (*History, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.entries[parsed]
	now := m.now()
	if !ok || now.Sub(t.lastSeen) > m.idle {
		return nil, false
	}
	t.lastSeen = now
	return t.history, true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Manager) Close() {
	m.once.Do(func() { close(m.stop) })
}

func (m *Manager) sweep() {
	ticker := time.NewTicker(sweepPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.expire()
		}
	}
}

func (m *Manager) expire() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, t := range m.entries {
		if now.Sub(t.lastSeen) > m.idle {
			delete(m.entries, id)
		}
	}
}
