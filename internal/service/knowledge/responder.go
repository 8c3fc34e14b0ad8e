package knowledge

import (
	"context"
	"strings"

	"github.com/learningnavigator/navigator/internal/model/chat"
)

// NoMatchText is the answer when nothing in the base matches.
const NoMatchText = "I couldn't find anything about that in the MHFA knowledge base. Try rephrasing your question."

// MaxHits bounds how many documents back one answer.
const MaxHits = 3

// Answer builds a reply from the best matching documents. It never fails.
func (b *Base) Answer(_ context.Context, q chat.Question) (chat.ReplyFrame, error) {
	hits := b.Search(q.Query, MaxHits)
	if len(hits) == 0 {
		return chat.NewReplyFrame(NoMatchText, nil), nil
	}

	parts := make([]string, 0, len(hits))
	for _, hit := range hits {
		parts = append(parts, firstSentence(hit.Document.Body))
	}
	return chat.NewReplyFrame(strings.Join(parts, " "), Citations(hits)), nil
}

func firstSentence(body string) string {
	body = strings.TrimSpace(body)
	if i := strings.Index(body, ". "); i >= 0 {
		return body[:i+1]
	}
	return body
}
