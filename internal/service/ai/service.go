package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"github.com/learningnavigator/navigator/internal/logging"
	"github.com/learningnavigator/navigator/internal/model/chat"
	"github.com/learningnavigator/navigator/internal/service/knowledge"
)

// Service answers navigator questions with a chat model, grounded on the knowledge base.
type Service struct {
	chain   compose.Runnable[map[string]any, *schema.Message]
	kb      *knowledge.Base
	prompts *PromptManager
	logger  zerolog.Logger
}

// NewService compiles the answer chain around chatModel.
func NewService(ctx context.Context, chatModel model.BaseChatModel, kb *knowledge.Base) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chain:   runnable,
		kb:      kb,
		prompts: NewPromptManager(),
		logger:  logging.Component("ai"),
	}, nil
}

// Answer generates the reply to q. Citations come from the documents the
// prompt was grounded on.
func (s *Service) Answer(ctx context.Context, q chat.Question) (chat.ReplyFrame, error) {
	hits := s.kb.Search(q.Query, knowledge.MaxHits)

	response, err := s.chain.Invoke(ctx, map[string]any{
		"system":  s.prompts.BuildSystemPrompt(q.Role, q.Language, hits),
		"history": buildHistoryMessages(q.History),
		"query":   q.Query,
	})
	if err != nil {
		return chat.ReplyFrame{}, fmt.Errorf("failed to run AI chain: %w", err)
	}

	text := strings.TrimSpace(response.Content)
	s.logger.Info().Str("session_id", q.SessionID).Int("length", len(text)).Int("sources", len(hits)).Msg("generated answer")
	return chat.NewReplyFrame(text, knowledge.Citations(hits)), nil
}

func buildHistoryMessages(blocks []chat.MessageBlock) []*schema.Message {
	const historyLimit = 10

	if len(blocks) == 0 {
		return nil
	}

	start := 0
	if len(blocks) > historyLimit {
		start = len(blocks) - historyLimit
	}

	history := make([]*schema.Message, 0, len(blocks)-start)
	for _, block := range blocks[start:] {
		if block.Status == chat.StatusError || block.Status == chat.StatusProcessing {
			continue
		}
		switch block.Sender {
		case chat.SenderUser:
			history = append(history, schema.UserMessage(block.Content))
		case chat.SenderBot:
			history = append(history, schema.AssistantMessage(block.Content, nil))
		}
	}
	return history
}
