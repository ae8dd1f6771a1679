package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
)

var ErrNotFound = errors.New("session not found")

// Registry keeps live sessions by ID for the HTTP layer.
type Registry struct {
	assistant   Assistant
	idleTimeout time.Duration
	logger      *zap.Logger
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(assistant Assistant, idleTimeout time.Duration, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		assistant:   assistant,
		idleTimeout: idleTimeout,
		logger:      logger,
		now:         time.Now,
		sessions:    make(map[string]*Session),
	}
}

func (r *Registry) Create(kind models.Kind) (*Session, error) {
	s, err := newSession(kind, r.assistant, r.logger, r.now)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()

	r.logger.Debug("session created", zap.String("session_id", s.ID()), zap.String("kind", string(kind)))
	return s, nil
}

// Get returns the session and marks it active.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	s.touch()
	return s, nil
}

func (r *Registry) Dispose(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.Dispose()
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Run evicts idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if r.idleTimeout <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.EvictIdle(); n > 0 {
				r.logger.Info("evicted idle sessions", zap.Int("count", n))
			}
		}
	}
}

// EvictIdle disposes every session idle longer than the idle timeout and
// returns how many were removed.
func (r *Registry) EvictIdle() int {
	now := r.now()

	r.mu.Lock()
	var idle []*Session
	for id, s := range r.sessions {
		if s.idleSince(now) > r.idleTimeout {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.Dispose()
	}
	return len(idle)
}

// Close disposes every session.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Dispose()
	}
}
