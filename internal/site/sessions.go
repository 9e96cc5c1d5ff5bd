package site

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dvasava/portfolio/internal/contact"
)

// Sessions keeps one contact flow per browser session.
type Sessions struct {
	newFlow func() *contact.Flow
	idle    time.Duration
	now     func() time.Time

	mu    sync.Mutex
	flows map[string]*session
}

type session struct {
	flow     *contact.Flow
	lastSeen time.Time
}

// NewSessions creates a registry. Sessions unused for longer than idle are
// dropped by Sweep.
func NewSessions(newFlow func() *contact.Flow, idle time.Duration) *Sessions {
	return &Sessions{
		newFlow: newFlow,
		idle:    idle,
		now:     time.Now,
		flows:   make(map[string]*session),
	}
}

// Start binds a fresh flow to id, replacing any previous one. An empty id
// gets a new random one. It returns the id in use.
func (s *Sessions) Start(id string) (string, *contact.Flow) {
	if id == "" {
		id = uuid.NewString()
	}
	f := s.newFlow()

	s.mu.Lock()
	s.flows[id] = &session{flow: f, lastSeen: s.now()}
	s.mu.Unlock()
	return id, f
}

// Get returns the flow bound to id and marks the session as used.
func (s *Sessions) Get(id string) (*contact.Flow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.flows[id]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.flow, true
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.flows)
}

// Sweep drops idle sessions whose flow is not mid-submission and returns
// how many were removed.
func (s *Sessions) Sweep() int {
	cutoff := s.now().Add(-s.idle)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.flows {
		if sess.lastSeen.After(cutoff) {
			continue
		}
		if sess.flow.View().State == contact.StateSubmitting {
			continue
		}
		delete(s.flows, id)
		removed++
	}
	return removed
}

// Run sweeps every interval until ctx ends.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
