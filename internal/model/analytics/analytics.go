package analytics

import "strings"

// Timeframe selects the window the session-logs endpoint aggregates over.
type Timeframe string

const (
	Today   Timeframe = "today"
	Weekly  Timeframe = "weekly"
	Monthly Timeframe = "monthly"
	Yearly  Timeframe = "yearly"
)

// ParseTimeframe normalises user input; ok is false for unknown values.
func ParseTimeframe(raw string) (Timeframe, bool) {
	tf := Timeframe(strings.ToLower(strings.TrimSpace(raw)))
	if tf == "" {
		return Today, true
	}
	switch tf {
	case Today, Weekly, Monthly, Yearly:
		return tf, true
	default:
		return "", false
	}
}

// Sentiment labels used by the classifier and by user feedback.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// SentimentCounts is the per-label tally shown on the dashboard.
type SentimentCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// Total sums all labels.
func (c SentimentCounts) Total() int {
	return c.Positive + c.Neutral + c.Negative
}

// Conversation is one logged question/answer pair.
type Conversation struct {
	SessionID         string  `json:"session_id"`
	Timestamp         string  `json:"timestamp"`
	Query             string  `json:"query"`
	Response          string  `json:"response"`
	Category          string  `json:"category"`
	Sentiment         string  `json:"sentiment"`
	SatisfactionScore float64 `json:"satisfaction_score"`
}

// SessionLogs is the payload of GET session-logs.
type SessionLogs struct {
	Timeframe       string          `json:"timeframe,omitempty"`
	StartDate       string          `json:"start_date,omitempty"`
	EndDate         string          `json:"end_date,omitempty"`
	UserCount       int             `json:"user_count"`
	Categories      map[string]int  `json:"categories,omitempty"`
	Sentiment       SentimentCounts `json:"sentiment"`
	AvgSatisfaction float64         `json:"avg_satisfaction"`
	Conversations   []Conversation  `json:"conversations"`
}

// Empty is the zero dashboard state rendered while loading or after a failure.
func Empty() SessionLogs {
	return SessionLogs{Conversations: []Conversation{}}
}

// Feedback is a thumbs up/down on an assistant reply.
type Feedback struct {
	MessageID string `json:"message_id"`
	SessionID string `json:"session_id"`
	Feedback  string `json:"feedback"`
}
