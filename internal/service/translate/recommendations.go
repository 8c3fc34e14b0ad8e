package translate

import (
	"context"

	"github.com/learningnavigator/navigator/internal/model/recommend"
)

// SourceLanguage is the language recommendations are authored in.
const SourceLanguage = "en"

// TranslateRecommendations rewrites every visible text of set into dst using a
// single batch. On failure the texts come back unchanged.
func (s *Service) TranslateRecommendations(ctx context.Context, set recommend.Set, dst string) recommend.Set {
	var texts []string
	for _, action := range set.QuickActions {
		texts = append(texts, action.Title, action.Description)
		texts = append(texts, action.Queries...)
	}
	texts = append(texts, set.SuggestedTopics...)
	texts = append(texts, set.RecentUpdates...)
	if len(texts) == 0 {
		return set.Clone()
	}

	results := s.TranslateBatch(ctx, texts, SourceLanguage, dst)
	next := 0
	take := func() string {
		v := results[next].Translated
		next++
		return v
	}

	out := set.Clone()
	for i := range out.QuickActions {
		action := &out.QuickActions[i]
		action.Title = take()
		action.Description = take()
		for j := range action.Queries {
			action.Queries[j] = take()
		}
	}
	for i := range out.SuggestedTopics {
		out.SuggestedTopics[i] = take()
	}
	for i := range out.RecentUpdates {
		out.RecentUpdates[i] = take()
	}
	return out
}
