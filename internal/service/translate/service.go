package translate

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/learningnavigator/navigator/internal/logging"
)

// Result pairs a source text with its translation.
type Result struct {
	Original   string `json:"original"`
	Translated string `json:"translated"`
}

// Remote is the translation backend.
type Remote interface {
	Translate(ctx context.Context, text, src, dst string) (string, error)
	TranslateBatch(ctx context.Context, texts []string, src, dst string) ([]Result, error)
}

// Service caches translations for the life of the process. It never returns an
// error: when the backend fails the caller gets the untranslated text.
type Service struct {
	remote Remote
	logger zerolog.Logger

	mu    sync.RWMutex
	cache map[string]string

	group singleflight.Group
}

// NewService wraps remote with a cache.
func NewService(remote Remote) *Service {
	return &Service{
		remote: remote,
		logger: logging.Component("translate"),
		cache:  make(map[string]string),
	}
}

func cacheKey(text, src, dst string) string {
	return src + "-" + dst + ":" + text
}

func (s *Service) lookup(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.cache[key]
	return v, ok
}

func (s *Service) store(key, value string) {
	s.mu.Lock()
	s.cache[key] = value
	s.mu.Unlock()
}

// TranslateText translates one text.
func (s *Service) TranslateText(ctx context.Context, text, src, dst string) string {
	key := cacheKey(text, src, dst)
	if v, ok := s.lookup(key); ok {
		return v
	}
	if src == dst {
		return text
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		if cached, ok := s.lookup(key); ok {
			return cached, nil
		}
		translated, err := s.remote.Translate(ctx, text, src, dst)
		if err != nil {
			return nil, err
		}
		s.store(key, translated)
		return translated, nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("src", src).Str("dst", dst).Msg("translation failed, keeping original")
		return text
	}
	return v.(string)
}

// TranslateBatch translates texts with at most one backend call covering the
// uncached ones. Results line up with texts.
func (s *Service) TranslateBatch(ctx context.Context, texts []string, src, dst string) []Result {
	results := make([]Result, len(texts))
	if src == dst {
		return identity(texts)
	}

	var missing []string
	var indices []int
	for i, text := range texts {
		if v, ok := s.lookup(cacheKey(text, src, dst)); ok {
			results[i] = Result{Original: text, Translated: v}
			continue
		}
		missing = append(missing, text)
		indices = append(indices, i)
	}
	if len(missing) == 0 {
		return results
	}

	flightKey := src + "-" + dst + "#batch:" + strings.Join(missing, "\x00")
	v, err, _ := s.group.Do(flightKey, func() (interface{}, error) {
		translated, err := s.remote.TranslateBatch(ctx, missing, src, dst)
		if err != nil {
			return nil, err
		}
		if len(translated) != len(missing) {
			return nil, errors.Errorf("translate-batch returned %d results for %d texts", len(translated), len(missing))
		}
		return translated, nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Int("texts", len(missing)).Msg("batch translation failed, keeping originals")
		return identity(texts)
	}

	for i, tr := range v.([]Result) {
		original := missing[i]
		s.store(cacheKey(original, src, dst), tr.Translated)
		results[indices[i]] = Result{Original: original, Translated: tr.Translated}
	}
	return results
}

// ClearCache drops every cached translation.
func (s *Service) ClearCache() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// CacheSize returns the number of cached translations.
func (s *Service) CacheSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

func identity(texts []string) []Result {
	out := make([]Result, len(texts))
	for i, text := range texts {
		out[i] = Result{Original: text, Translated: text}
	}
	return out
}
