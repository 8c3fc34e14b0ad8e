package knowledge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/learningnavigator/navigator/internal/model/chat"
)

func TestSearchRanksByTermOverlap(t *testing.T) {
	base := NewBase(Seed())

	hits := base.Search("How do I recertify my instructor certification?", 2)
	require.NotEmpty(t, hits)
	require.Equal(t, "recertification-guide.pdf", hits[0].Document.Key)
	require.LessOrEqual(t, len(hits), 2)
}

func TestSearchIgnoresStopWords(t *testing.T) {
	base := NewBase(Seed())
	require.Empty(t, base.Search("what is the", 3))
	require.Empty(t, base.Search("anything", 0))
}

func TestAnswerCitesSources(t *testing.T) {
	base := NewBase(Seed())

	reply, err := base.Answer(context.Background(), chat.Question{SessionID: "s1", Query: "What is Mental Health First Aid?"})
	require.NoError(t, err)
	require.NotEmpty(t, reply.Text())
	require.NoError(t, reply.Validate())
	require.Len(t, reply.Citations, 1)
	require.Equal(t, "About Mental Health First Aid", reply.Citations[0].References[0].Title)
}

func TestAnswerWithoutMatch(t *testing.T) {
	base := NewBase(Seed())

	reply, err := base.Answer(context.Background(), chat.Question{SessionID: "s1", Query: "zebra xylophone"})
	require.NoError(t, err)
	require.Equal(t, NoMatchText, reply.Text())
	require.Empty(t, reply.Citations)
}

func TestAddReplacesByKey(t *testing.T) {
	base := NewBase(nil)
	base.Add(Document{Key: "a.pdf", Title: "Old", Body: "x"})
	base.Add(Document{Key: "a.pdf", Title: "New", Body: "xyz"})

	files := base.Files()
	require.Len(t, files, 1)
	require.EqualValues(t, 3, files[0].Size)
}
