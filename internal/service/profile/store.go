package profile

import (
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Profile is what the gateway knows about a user.
type Profile struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store keeps profiles in memory, keyed by user id.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]Profile
	roles    []string
}

// NewStore creates a store that accepts the given roles.
func NewStore(roles []string) *Store {
	return &Store{
		profiles: make(map[string]Profile),
		roles:    roles,
	}
}

// Get returns the profile of userID.
func (s *Store) Get(userID string) (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	return p, ok
}

// Role returns the role userID picked, if any.
func (s *Store) Role(userID string) (string, bool) {
	p, ok := s.Get(userID)
	if !ok || p.Role == "" {
		return "", false
	}
	return p.Role, true
}

// SetRole validates and stores the role for userID.
func (s *Store) SetRole(userID, email, role string) (Profile, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if err := validation.Validate(role, validation.Required, validation.In(s.allowed()...)); err != nil {
		return Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.profiles[userID]
	p.UserID = userID
	if email != "" {
		p.Email = email
	}
	p.Role = role
	p.UpdatedAt = time.Now().UTC()
	s.profiles[userID] = p
	return p, nil
}

func (s *Store) allowed() []interface{} {
	out := make([]interface{}, len(s.roles))
	for i, role := range s.roles {
		out[i] = role
	}
	return out
}
