package cache

import (
	"context"
	"sync"

	"cardfields/internal/frames"
	"cardfields/internal/models"
)

// MemoryStore is a process-local SessionStore for tests and single instance
// development. Sessions never expire.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
	frames   map[string]map[frames.Kind]frames.Snapshot
	remote   map[string]map[frames.Kind][]frames.RemoteError
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: map[string]models.Session{},
		frames:   map[string]map[frames.Kind]frames.Snapshot{},
		remote:   map[string]map[frames.Kind][]frames.RemoteError{},
	}
}

func (m *MemoryStore) SaveSession(_ context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

func (m *MemoryStore) GetSession(_ context.Context, id string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (m *MemoryStore) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	delete(m.frames, id)
	delete(m.remote, id)
	return nil
}

func (m *MemoryStore) PutFrame(_ context.Context, sessionID string, kind frames.Kind, snap frames.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	if m.frames[sessionID] == nil {
		m.frames[sessionID] = map[frames.Kind]frames.Snapshot{}
	}
	snap.RemoteErrors = nil
	m.frames[sessionID][kind] = snap
	return nil
}

func (m *MemoryStore) RemoveFrame(_ context.Context, sessionID string, kind frames.Kind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.frames[sessionID], kind)
	delete(m.remote[sessionID], kind)
	return nil
}

func (m *MemoryStore) GetFrames(_ context.Context, sessionID string) (map[frames.Kind]frames.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[frames.Kind]frames.Snapshot, len(m.frames[sessionID]))
	for k, snap := range m.frames[sessionID] {
		snap.RemoteErrors = append([]frames.RemoteError(nil), m.remote[sessionID][k]...)
		out[k] = snap
	}
	return out, nil
}

func (m *MemoryStore) SetRemoteErrors(_ context.Context, sessionID string, kind frames.Kind, errs []frames.RemoteError) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(errs) == 0 {
		delete(m.remote[sessionID], kind)
		return nil
	}
	if m.remote[sessionID] == nil {
		m.remote[sessionID] = map[frames.Kind][]frames.RemoteError{}
	}
	m.remote[sessionID][kind] = append([]frames.RemoteError(nil), errs...)
	return nil
}
