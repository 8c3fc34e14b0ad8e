package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/require"

	"github.com/learningnavigator/navigator/internal/model/chat"
	"github.com/learningnavigator/navigator/internal/service/knowledge"
)

type recordingModel struct {
	reply string
	err   error
	last  []*schema.Message
}

func (m *recordingModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.last = input
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *recordingModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func TestAnswerGroundsOnKnowledgeBase(t *testing.T) {
	m := &recordingModel{reply: "  Recertify through MHFA Connect.  "}
	svc, err := NewService(context.Background(), m, knowledge.NewBase(knowledge.Seed()))
	require.NoError(t, err)

	history := []chat.MessageBlock{
		chat.NewBlock("hi", chat.SenderUser, chat.TypeText, chat.StatusSent),
		chat.NewBlock("WebSocket error. Please try again.", chat.SenderBot, chat.TypeText, chat.StatusError),
		chat.NewBlock("hello", chat.SenderBot, chat.TypeText, chat.StatusReceived),
	}
	reply, err := svc.Answer(context.Background(), chat.Question{
		SessionID: "s1",
		Query:     "How do I recertify as an instructor?",
		Role:      "instructor",
		Language:  "ES",
		History:   history,
	})
	require.NoError(t, err)
	require.Equal(t, "Recertify through MHFA Connect.", reply.Text())
	require.NoError(t, reply.Validate())
	require.NotEmpty(t, reply.Citations)

	// system, two usable history turns, the query
	require.Len(t, m.last, 4)
	require.Equal(t, schema.System, m.last[0].Role)
	require.Contains(t, m.last[0].Content, "aspiring MHFA instructor")
	require.Contains(t, m.last[0].Content, "Reply in Spanish.")
	require.Contains(t, m.last[0].Content, "Instructor Recertification Guide")
	require.Equal(t, "hello", m.last[2].Content)
	require.Equal(t, "How do I recertify as an instructor?", m.last[3].Content)
}

func TestAnswerPropagatesModelError(t *testing.T) {
	m := &recordingModel{err: errors.New("rate limited")}
	svc, err := NewService(context.Background(), m, knowledge.NewBase(nil))
	require.NoError(t, err)

	_, err = svc.Answer(context.Background(), chat.Question{Query: "hello"})
	require.Error(t, err)
}

func TestPromptManagerUnknownRole(t *testing.T) {
	pm := NewPromptManager()
	_, err := pm.Template("pilot")
	require.Error(t, err)

	prompt := pm.BuildSystemPrompt("pilot", "EN", nil)
	require.Contains(t, prompt, "No knowledge base excerpt matched")
	require.NotContains(t, prompt, "Reply in Spanish.")
}
