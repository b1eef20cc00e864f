package session

import (
	"context"
	"sync"
	"time"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Type    string `json:"type"`
	Intro   string `json:"intro"`
	Message string `json:"message"`
}

// Data is what a session persists between requests.
type Data struct {
	CartID string `json:"cart_id,omitempty"`
	Flash  *Flash `json:"flash,omitempty"`
}

func (d Data) empty() bool { return d.CartID == "" && d.Flash == nil }

// Store persists session data by id.
type Store interface {
	Load(ctx context.Context, id string) (Data, bool, error)
	Save(ctx context.Context, id string, d Data) error
	Delete(ctx context.Context, id string) error
}

type entry struct {
	data    Data
	touched time.Time
}

// MemoryStore keeps sessions in process memory. Entries idle longer than ttl are
// dropped on access and by Sweep.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]entry
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) Load(ctx context.Context, id string) (Data, bool, error) {
	if err := ctx.Err(); err != nil {
		return Data{}, false, err
	}
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return Data{}, false, nil
	}
	if s.expired(e) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return Data{}, false, nil
	}
	return e.data, true, nil
}

func (s *MemoryStore) Save(ctx context.Context, id string, d Data) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = entry{data: d, touched: s.now()}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Sweep removes expired sessions and returns how many were dropped.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.sessions {
		if s.expired(e) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Len reports the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *MemoryStore) expired(e entry) bool {
	return s.ttl > 0 && s.now().Sub(e.touched) > s.ttl
}
