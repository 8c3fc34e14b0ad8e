package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/sync/errgroup"

	"github.com/learningnavigator/navigator/internal/service/translate"
)

const translatorSystemPrompt = `You are a translation engine for a mental health first aid training portal.
Translate the user's text from {source} to {target}.
Return only the translated text. Keep names, URLs and product names such as "MHFA Connect" unchanged.`

// batchConcurrency bounds model calls per batch.
const batchConcurrency = 4

var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
}

// Translator translates UI text with a chat model.
type Translator struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewTranslator compiles the translation chain.
func NewTranslator(ctx context.Context, chatModel model.BaseChatModel) (*Translator, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(translatorSystemPrompt),
		schema.UserMessage("{text}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile translation chain: %w", err)
	}
	return &Translator{chain: runnable}, nil
}

// Translate translates one text. Blank input is returned unchanged.
func (t *Translator) Translate(ctx context.Context, text, src, dst string) (string, error) {
	if strings.TrimSpace(text) == "" || strings.EqualFold(src, dst) {
		return text, nil
	}

	msg, err := t.chain.Invoke(ctx, map[string]any{
		"source": languageName(src),
		"target": languageName(dst),
		"text":   text,
	})
	if err != nil {
		return "", fmt.Errorf("failed to translate: %w", err)
	}

	translated := strings.TrimSpace(msg.Content)
	if translated == "" {
		return text, nil
	}
	return translated, nil
}

// TranslateBatch translates texts concurrently and keeps their order.
func (t *Translator) TranslateBatch(ctx context.Context, texts []string, src, dst string) ([]translate.Result, error) {
	results := make([]translate.Result, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			translated, err := t.Translate(gctx, text, src, dst)
			if err != nil {
				return err
			}
			results[i] = translate.Result{Original: text, Translated: translated}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func languageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}
