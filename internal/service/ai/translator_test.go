package ai

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/require"
)

// dictionaryModel answers with a fixed translation of the last user message.
type dictionaryModel struct {
	mu      sync.Mutex
	words   map[string]string
	calls   int
	systems []string
}

func (m *dictionaryModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.systems = append(m.systems, input[0].Content)

	text := input[len(input)-1].Content
	translated, ok := m.words[text]
	if !ok {
		return nil, errors.New("unknown word " + text)
	}
	return schema.AssistantMessage(translated, nil), nil
}

func (m *dictionaryModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func TestTranslatorTranslate(t *testing.T) {
	m := &dictionaryModel{words: map[string]string{"Hello {name}": " Hola {name} "}}
	tr, err := NewTranslator(context.Background(), m)
	require.NoError(t, err)

	out, err := tr.Translate(context.Background(), "Hello {name}", "en", "es")
	require.NoError(t, err)
	require.Equal(t, "Hola {name}", out)
	require.Contains(t, m.systems[0], "from English to Spanish")

	out, err = tr.Translate(context.Background(), "Hello", "en", "EN")
	require.NoError(t, err)
	require.Equal(t, "Hello", out)

	out, err = tr.Translate(context.Background(), "   ", "en", "es")
	require.NoError(t, err)
	require.Equal(t, "   ", out)
	require.Equal(t, 1, m.calls)
}

func TestTranslatorBatchKeepsOrder(t *testing.T) {
	words := map[string]string{}
	var texts []string
	for _, w := range []string{"one", "two", "three", "four", "five", "six"} {
		words[w] = strings.ToUpper(w)
		texts = append(texts, w)
	}
	tr, err := NewTranslator(context.Background(), &dictionaryModel{words: words})
	require.NoError(t, err)

	results, err := tr.TranslateBatch(context.Background(), texts, "en", "es")
	require.NoError(t, err)
	require.Len(t, results, len(texts))
	for i, r := range results {
		require.Equal(t, texts[i], r.Original)
		require.Equal(t, strings.ToUpper(texts[i]), r.Translated)
	}
}

func TestTranslatorBatchFails(t *testing.T) {
	tr, err := NewTranslator(context.Background(), &dictionaryModel{words: map[string]string{"yes": "sí"}})
	require.NoError(t, err)

	_, err = tr.TranslateBatch(context.Background(), []string{"yes", "no"}, "en", "es")
	require.Error(t, err)
}
