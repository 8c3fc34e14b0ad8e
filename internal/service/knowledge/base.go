package knowledge

import (
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/learningnavigator/navigator/internal/model/chat"
	"github.com/learningnavigator/navigator/internal/model/document"
)

// Document is one source the gateway can cite.
type Document struct {
	Key          string
	Title        string
	Source       string
	Body         string
	LastModified time.Time
}

// Hit is a document matched by a query.
type Hit struct {
	Document Document
	Score    int
}

// Base is a tiny in-memory search index over documents.
type Base struct {
	mu   sync.RWMutex
	docs []Document
}

// NewBase indexes docs.
func NewBase(docs []Document) *Base {
	b := &Base{}
	for _, doc := range docs {
		b.Add(doc)
	}
	return b
}

// Add indexes doc, replacing any document with the same key.
func (b *Base) Add(doc Document) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, existing := range b.docs {
		if existing.Key == doc.Key {
			b.docs[i] = doc
			return
		}
	}
	b.docs = append(b.docs, doc)
}

// Search ranks documents by how many query terms they contain.
func (b *Base) Search(query string, limit int) []Hit {
	terms := tokenize(query)
	if len(terms) == 0 || limit <= 0 {
		return nil
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	var hits []Hit
	for _, doc := range b.docs {
		haystack := tokenSet(doc.Title + " " + doc.Body)
		score := 0
		for _, term := range terms {
			if haystack[term] {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, Hit{Document: doc, Score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// Files lists the indexed documents the way the files endpoint reports them.
func (b *Base) Files() []document.File {
	b.mu.RLock()
	defer b.mu.RUnlock()

	files := make([]document.File, 0, len(b.docs))
	for _, doc := range b.docs {
		files = append(files, document.File{
			Key:          doc.Key,
			Size:         int64(len(doc.Body)),
			LastModified: doc.LastModified.UTC().Format(time.RFC3339),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Key < files[j].Key })
	return files
}

// Citations turns hits into a single citation group.
func Citations(hits []Hit) []chat.CitationGroup {
	if len(hits) == 0 {
		return []chat.CitationGroup{}
	}
	refs := make([]chat.Citation, 0, len(hits))
	for _, hit := range hits {
		refs = append(refs, chat.Citation{Title: hit.Document.Title, Source: hit.Document.Source})
	}
	return []chat.CitationGroup{{References: refs}}
}

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "can": true, "do": true, "does": true,
	"for": true, "how": true, "i": true, "in": true, "is": true, "it": true, "me": true,
	"my": true, "of": true, "on": true, "or": true, "the": true, "to": true, "what": true,
	"where": true, "who": true, "why": true, "with": true, "you": true,
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if stopWords[f] || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range tokenize(text) {
		set[t] = true
	}
	return set
}
