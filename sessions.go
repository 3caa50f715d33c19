package main

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/turbekoff/calckeys/pkg/calculator"
)

var ErrSessionsClosed = errors.New("sessions closed")

// Session is one user's calculator. The engine is not safe for
// concurrent use, so every access goes through mu.
type Session struct {
	mu       sync.Mutex
	engine   *calculator.Engine
	rendered calculator.Snapshot
}

func NewSession(engine *calculator.Engine) *Session {
	return &Session{engine: engine, rendered: engine.Snapshot()}
}

// Press applies ev and reports the new snapshot and whether it differs
// from the last one rendered.
func (s *Session) Press(ev calculator.Event) (calculator.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.Apply(ev); err != nil {
		return s.rendered, false, err
	}
	snap := s.engine.Snapshot()
	return snap, snap != s.rendered, nil
}

func (s *Session) Rendered(snap calculator.Snapshot) {
	s.mu.Lock()
	s.rendered = snap
	s.mu.Unlock()
}

func (s *Session) Snapshot() calculator.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

type sessionItem struct {
	session  *Session
	expireAt int64
}

type Sessions struct {
	mu          sync.RWMutex
	cleanerOnce sync.Once
	cleanerCh   chan struct{}
	items       map[string]sessionItem
	ttlTimeout  time.Duration
	inShutdown  atomic.Bool
	now         func() time.Time
}

func NewSessions(ttlTimeout, cleanupTimeout time.Duration) *Sessions {
	s := &Sessions{
		cleanerCh:  make(chan struct{}),
		items:      make(map[string]sessionItem),
		ttlTimeout: ttlTimeout,
		now:        time.Now,
	}

	go func() {
		ticker := time.NewTicker(cleanupTimeout)
		defer ticker.Stop()

		for {
			select {
			case <-s.cleanerCh:
				return
			case <-ticker.C:
				s.cleanExpired()
			}
		}
	}()
	return s
}

// Set stores the session under key and restarts its TTL. New keys are
// refused once shutdown has begun.
func (s *Sessions) Set(key string, session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.items[key]
	if s.inShutdown.Load() && !exists {
		return
	}

	s.items[key] = sessionItem{
		session:  session,
		expireAt: s.now().Add(s.ttlTimeout).UnixNano(),
	}
}

func (s *Sessions) Get(key string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[key]
	if !exists || s.now().UnixNano() > item.expireAt {
		return nil
	}
	return item.session
}

const shutdownIntervalMax = 500 * time.Millisecond

// Shutdown stops accepting new sessions and waits for the existing ones
// to expire or for ctx to be done.
func (s *Sessions) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.inShutdown.Store(true)
	s.mu.Unlock()
	s.closeCleaner()

	intervalBase := time.Millisecond
	nextInterval := func() time.Duration {
		interval := intervalBase + time.Duration(rand.Intn(int(intervalBase/10)))

		intervalBase *= 2
		if intervalBase > shutdownIntervalMax {
			intervalBase = shutdownIntervalMax
		}
		return interval
	}

	timer := time.NewTimer(nextInterval())
	defer timer.Stop()
	for {
		s.cleanExpired()
		if s.IsEmpty() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			timer.Reset(nextInterval())
		}
	}
}

// Close drops every session immediately.
func (s *Sessions) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inShutdown.Load() {
		return ErrSessionsClosed
	}

	s.inShutdown.Store(true)
	s.closeCleanerLocked()
	clear(s.items)
	return nil
}

func (s *Sessions) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items) == 0
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Sessions) cleanExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UnixNano()
	for k, v := range s.items {
		if now > v.expireAt {
			delete(s.items, k)
		}
	}
}

func (s *Sessions) closeCleaner() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeCleanerLocked()
}

func (s *Sessions) closeCleanerLocked() {
	s.cleanerOnce.Do(func() {
		close(s.cleanerCh)
	})
}
