package conversation

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/learningnavigator/navigator/internal/model/analytics"
	"github.com/learningnavigator/navigator/internal/model/chat"
	"github.com/learningnavigator/navigator/internal/service/classifier"
)

// timestampLayout is fixed width so formatted stamps sort as strings.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// MaxConversations caps the conversations returned with session logs.
const MaxConversations = 50

var ErrSessionRequired = errors.New("session id is required")

// Classifier files an exchange for the dashboard.
type Classifier interface {
	Classify(ctx context.Context, query, response string) classifier.Result
}

// Exchange is one logged question and answer.
type Exchange struct {
	ID           string
	SessionID    string
	UserID       string
	Query        string
	Response     string
	Category     string
	Sentiment    string
	Satisfaction int
	Timestamp    time.Time
}

type feedbackEntry struct {
	sessionID string
	label     string
	at        time.Time
}

// Service keeps transcripts, the exchange log and user feedback in memory.
type Service struct {
	mu          sync.RWMutex
	transcripts map[string][]chat.MessageBlock
	exchanges   []Exchange
	feedback    map[string]feedbackEntry

	classifier Classifier
	now        func() time.Time
}

// NewService bootstraps the in-memory conversation log.
func NewService(c Classifier) *Service {
	return &Service{
		transcripts: make(map[string][]chat.MessageBlock),
		feedback:    make(map[string]feedbackEntry),
		classifier:  c,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// History returns the transcript of a session.
func (s *Service) History(sessionID string) []chat.MessageBlock {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blocks := s.transcripts[sessionID]
	copied := make([]chat.MessageBlock, len(blocks))
	copy(copied, blocks)
	return copied
}

// Record appends a completed exchange to the session and classifies it.
func (s *Service) Record(ctx context.Context, sessionID, userID, query string, reply chat.ReplyFrame) (Exchange, error) {
	if sessionID == "" {
		return Exchange{}, ErrSessionRequired
	}

	result := s.classifier.Classify(ctx, query, reply.Text())
	now := s.now()
	exchange := Exchange{
		ID:           uuid.NewString(),
		SessionID:    sessionID,
		UserID:       userID,
		Query:        query,
		Response:     reply.Text(),
		Category:     result.Category,
		Sentiment:    string(result.Sentiment),
		Satisfaction: result.Satisfaction,
		Timestamp:    now,
	}

	userBlock := chat.NewBlock(query, chat.SenderUser, chat.TypeText, chat.StatusSent)
	botBlock := chat.NewBlock(reply.Text(), chat.SenderBot, chat.TypeText, chat.StatusReceived)
	botBlock.Citations = reply.Citations
	botBlock.RequestID = exchange.ID

	s.mu.Lock()
	s.transcripts[sessionID] = append(s.transcripts[sessionID], userBlock, botBlock)
	s.exchanges = append(s.exchanges, exchange)
	s.mu.Unlock()

	return exchange, nil
}

// SaveFeedback stores a thumbs up or down. A later rating for the same message wins.
func (s *Service) SaveFeedback(fb analytics.Feedback) error {
	if err := validation.ValidateStruct(&fb,
		validation.Field(&fb.MessageID, validation.Required),
		validation.Field(&fb.SessionID, validation.Required),
		validation.Field(&fb.Feedback, validation.Required, validation.In(analytics.SentimentPositive, analytics.SentimentNegative)),
	); err != nil {
		return err
	}

	s.mu.Lock()
	s.feedback[fb.MessageID] = feedbackEntry{sessionID: fb.SessionID, label: fb.Feedback, at: s.now()}
	s.mu.Unlock()
	return nil
}

// Window returns the start of timeframe relative to now.
func Window(tf analytics.Timeframe, now time.Time) time.Time {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch tf {
	case analytics.Weekly:
		offset := (int(day.Weekday()) + 6) % 7 // Monday starts the week
		return day.AddDate(0, 0, -offset)
	case analytics.Monthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	case analytics.Yearly:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

// SessionLogs aggregates the exchanges inside timeframe. Sentiment counts come
// from user feedback; only rated conversations are listed, newest first.
func (s *Service) SessionLogs(tf analytics.Timeframe) analytics.SessionLogs {
	now := s.now()
	start := Window(tf, now)

	s.mu.RLock()
	defer s.mu.RUnlock()

	// 每个会话最近一次评价，用于没有精确 message_id 的情况
	latestBySession := make(map[string]feedbackEntry)
	for _, fb := range s.feedback {
		if prev, ok := latestBySession[fb.sessionID]; !ok || fb.at.After(prev.at) {
			latestBySession[fb.sessionID] = fb
		}
	}

	out := analytics.SessionLogs{
		Timeframe:     string(tf),
		StartDate:     start.Format("2006-01-02"),
		EndDate:       now.Format("2006-01-02"),
		Categories:    make(map[string]int),
		Conversations: []analytics.Conversation{},
	}
	sessions := make(map[string]bool)
	var scoreSum float64
	var scored int

	for _, ex := range s.exchanges {
		if ex.Timestamp.Before(start) || ex.Timestamp.After(now) {
			continue
		}
		sessions[ex.SessionID] = true
		if ex.Category != "" {
			out.Categories[ex.Category]++
		}
		scoreSum += float64(ex.Satisfaction)
		scored++

		fb, ok := s.feedback[ex.ID]
		if !ok {
			fb, ok = latestBySession[ex.SessionID]
		}
		if !ok {
			continue
		}
		switch fb.label {
		case analytics.SentimentPositive:
			out.Sentiment.Positive++
		case analytics.SentimentNegative:
			out.Sentiment.Negative++
		}
		out.Conversations = append(out.Conversations, analytics.Conversation{
			SessionID:         ex.SessionID,
			Timestamp:         ex.Timestamp.UTC().Format(timestampLayout),
			Query:             ex.Query,
			Response:          ex.Response,
			Category:          ex.Category,
			Sentiment:         fb.label,
			SatisfactionScore: float64(ex.Satisfaction),
		})
	}

	out.UserCount = len(sessions)
	if scored > 0 {
		out.AvgSatisfaction = math.Round(scoreSum/float64(scored)*10) / 10
	}
	sort.SliceStable(out.Conversations, func(i, j int) bool {
		return out.Conversations[i].Timestamp > out.Conversations[j].Timestamp
	})
	if len(out.Conversations) > MaxConversations {
		out.Conversations = out.Conversations[:MaxConversations]
	}
	return out
}
