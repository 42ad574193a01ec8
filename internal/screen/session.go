package screen

import (
	"sync"
	"time"
)

// Session is the state of every screen for one browser.
type Session struct {
	ID           string
	Home         Home
	Random       Random
	Trending     Trending
	MealPlan     MealPlan
	Trivia       Trivia
	Autocomplete Autocomplete

	mu       sync.Mutex
	lastSeen time.Time
}

func newSession(id string, src RecipeSource, now time.Time) *Session {
	s := &Session{ID: id, lastSeen: now}
	s.Home.src = src
	s.Random.src = src
	s.Trending.src = src
	s.MealPlan.src = src
	s.Trivia.src = src
	s.Autocomplete.src = src
	return s
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Sessions keeps one Session per session id.
type Sessions struct {
	src RecipeSource
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessions creates an empty store. Sessions idle for longer than ttl are
// dropped by Prune.
func NewSessions(src RecipeSource, ttl time.Duration) *Sessions {
	return &Sessions{
		src:      src,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, creating it on first use.
func (s *Sessions) Get(id string) *Session {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = newSession(id, s.src, now)
		s.sessions[id] = sess
		return sess
	}
	sess.touch(now)
	return sess
}

// Len reports the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Prune drops idle sessions and returns how many were removed.
func (s *Sessions) Prune() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
