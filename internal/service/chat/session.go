package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one conversation: a stable id, its transcript and the in-flight flag.
// It lives in memory only and is never persisted.
type Session struct {
	ID        string
	CreatedAt time.Time

	log *MessageLog

	mu         sync.Mutex
	processing bool
}

// NewSession creates a session with a fresh random id.
func NewSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		log:       NewMessageLog(),
	}
}

// Log exposes the session transcript.
func (s *Session) Log() *MessageLog {
	return s.log
}

// Processing reports whether a query is awaiting its reply.
func (s *Session) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

// begin flips the session into processing; false means a query is already in flight.
func (s *Session) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return false
	}
	s.processing = true
	return true
}

func (s *Session) finish() {
	s.mu.Lock()
	s.processing = false
	s.mu.Unlock()
}
