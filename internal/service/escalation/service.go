package escalation

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/learningnavigator/navigator/internal/logging"
)

// Status is where an escalated query sits in the admin's queue.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
)

var ErrNotFound = errors.New("escalated query not found")

// ParseStatus accepts the wire form of a status.
func ParseStatus(raw string) (Status, bool) {
	switch s := Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case StatusPending, StatusInProgress, StatusResolved:
		return s, true
	}
	return "", false
}

// Request is a user's ask for a human to follow up.
type Request struct {
	Email         string `json:"email"`
	Question      string `json:"querytext"`
	AgentResponse string `json:"agent_response"`
}

// Validate checks the request before it is stored.
func (r Request) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, is.EmailFormat),
		validation.Field(&r.Question, validation.Required),
	)
}

// Query is a stored escalation.
type Query struct {
	ID            string    `json:"query_id"`
	UserEmail     string    `json:"user_email,omitempty"`
	Question      string    `json:"question"`
	AgentResponse string    `json:"agent_response,omitempty"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Notifier tells an administrator about a new escalation.
type Notifier interface {
	Notify(ctx context.Context, q Query) error
}

// LogNotifier writes the notice to the gateway log.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) Notify(_ context.Context, q Query) error {
	n.Logger.Info().
		Str("query_id", q.ID).
		Str("user_email", q.UserEmail).
		Str("question", q.Question).
		Msg("Agent Assistance Requested")
	return nil
}

// Service keeps escalated queries in memory.
type Service struct {
	mu      sync.RWMutex
	queries map[string]Query

	notifier Notifier
	logger   zerolog.Logger
	now      func() time.Time
}

// NewService creates the queue. A nil notifier logs notices instead.
func NewService(notifier Notifier) *Service {
	logger := logging.Component("escalation")
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}
	return &Service{
		queries:  make(map[string]Query),
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create stores req as a pending query, then notifies. The query is kept even
// when the notice fails; notified reports whether it went out.
func (s *Service) Create(ctx context.Context, req Request) (q Query, notified bool, err error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Question = strings.TrimSpace(req.Question)
	if err := req.Validate(); err != nil {
		return Query{}, false, err
	}

	now := s.now()
	q = Query{
		ID:            uuid.NewString(),
		UserEmail:     req.Email,
		Question:      req.Question,
		AgentResponse: strings.TrimSpace(req.AgentResponse),
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	s.mu.Lock()
	s.queries[q.ID] = q
	s.mu.Unlock()

	if err := s.notifier.Notify(ctx, q); err != nil {
		s.logger.Warn().Err(err).Str("query_id", q.ID).Msg("notification failed")
		return q, false, nil
	}
	return q, true, nil
}

// List returns queries newest first. An empty status returns all of them.
func (s *Service) List(status Status) []Query {
	s.mu.RLock()
	out := make([]Query, 0, len(s.queries))
	for _, q := range s.queries {
		if status == "" || q.Status == status {
			out = append(out, q)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// SetStatus moves query id to status.
func (s *Service) SetStatus(id string, status Status) (Query, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queries[id]
	if !ok {
		return Query{}, ErrNotFound
	}
	q.Status = status
	q.UpdatedAt = s.now()
	s.queries[id] = q
	return q, nil
}
