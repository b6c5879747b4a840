package session

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"
)

// ErrUnknownHandle is returned for ids that are not registered.
var ErrUnknownHandle = errors.New("session: unknown handle")

// Registry maps handle ids to open sessions. Lookups take a read lock;
// insertion and removal take the write lock.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uint64]*Session
	next     atomic.Uint64
}

// NewRegistry creates an empty registry. Ids start at 1.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[uint64]*Session),
	}
}

// NextID allocates a fresh handle id. Ids are never reused.
func (r *Registry) NextID() uint64 {
	return r.next.Add(1)
}

// Insert registers s under its id.
func (r *Registry) Insert(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

// Get returns the session for id.
func (r *Registry) Get(id uint64) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrUnknownHandle
	}
	return s, nil
}

// Remove unregisters id and returns its session. The caller closes it.
func (r *Registry) Remove(id uint64) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrUnknownHandle
	}
	delete(r.sessions, id)
	return s, nil
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// IDs returns the registered ids in ascending order.
func (r *Registry) IDs() []uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]uint64, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// CloseAll removes and closes every session, joining their errors.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[uint64]*Session)
	r.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
