package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"github.com/learningnavigator/navigator/internal/analysis/category"
	"github.com/learningnavigator/navigator/internal/analysis/sentiment"
	"github.com/learningnavigator/navigator/internal/logging"
)

// Result is how one logged exchange is filed on the dashboard.
type Result struct {
	Category     string
	Sentiment    sentiment.Label
	Satisfaction int
	Reason       string
	Source       string
}

// Service 使用大模型为会话分类并评估满意度，失败时回退到关键词规则。
type Service struct {
	enabled    bool
	classifier compose.Runnable[map[string]any, *schema.Message]
	logger     zerolog.Logger
}

// NewService creates the classifier. chatModel may be nil, in which case only
// the keyword rules are used.
func NewService(ctx context.Context, chatModel model.ChatModel, enabled bool) (*Service, error) {
	svc := &Service{
		enabled: enabled && chatModel != nil,
		logger:  logging.Component("classifier"),
	}
	if !svc.enabled {
		return svc, nil
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(classifierSystemPrompt),
		schema.UserMessage(classifierUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile classifier chain: %w", err)
	}

	svc.classifier = runnable
	return svc, nil
}

// Enabled reports whether the model-backed path is active.
func (s *Service) Enabled() bool {
	return s != nil && s.enabled && s.classifier != nil
}

// Classify files an exchange. It always returns a usable result.
func (s *Service) Classify(ctx context.Context, query, response string) Result {
	if !s.Enabled() {
		return fallback(query, response)
	}

	msg, err := s.classifier.Invoke(ctx, map[string]any{
		"categories": strings.Join(category.All[:len(category.All)-1], ", "),
		"question":   strings.TrimSpace(query),
		"response":   strings.TrimSpace(response),
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("classifier invoke failed, using keyword rules")
		return fallback(query, response)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return fallback(query, response)
	}

	result, err := parseClassifierOutput(msg.Content)
	if err != nil {
		s.logger.Warn().Err(err).Msg("classifier output parse failed, using keyword rules")
		return fallback(query, response)
	}
	return result
}

func fallback(query, response string) Result {
	decision := sentiment.Analyze(query, response)
	return Result{
		Category:     category.Classify(query),
		Sentiment:    decision.Sentiment,
		Satisfaction: decision.Satisfaction,
		Reason:       decision.Reason,
		Source:       "keywords",
	}
}

// parseClassifierOutput 解析大模型返回的 JSON，字段不合法时取保守值。
func parseClassifierOutput(content string) (Result, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return Result{}, fmt.Errorf("missing json object")
	}

	var payload classifierPayload
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &payload); err != nil {
		return Result{}, err
	}

	label, ok := sentiment.ParseLabel(payload.Sentiment)
	if !ok {
		label = sentiment.Neutral
	}
	score := 50
	if payload.Score != nil {
		score = *payload.Score
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return Result{
		Category:     category.Normalize(payload.Category),
		Sentiment:    label,
		Satisfaction: score,
		Reason:       strings.TrimSpace(payload.Reason),
		Source:       "model",
	}, nil
}

type classifierPayload struct {
	Category  string `json:"category"`
	Sentiment string `json:"sentiment"`
	Score     *int   `json:"score"`
	Reason    string `json:"reason"`
}

const classifierSystemPrompt = "You review conversations between learners and the MHFA Learning Navigator assistant.\n" +
	"Classify the question into exactly one of these categories: {categories}. Use \"Unknown\" when none fits.\n" +
	"Then judge the user's likely satisfaction with the answer.\n" +
	"Reply with a single JSON object and nothing else: " +
	`{{"category": "...", "sentiment": "positive|neutral|negative", "score": 0-100, "reason": "one sentence"}}`

const classifierUserPrompt = "User question:\n{question}\n\nAssistant answer:\n{response}"
