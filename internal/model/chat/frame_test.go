package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseReplyFrameSources(t *testing.T) {
	accepted := []string{
		"s3://ncwm-kb/docs/mhfa-guide.pdf",
		"https://www.mentalhealthfirstaid.org/about/",
		"http://localhost:8080/docs/a.pdf",
	}
	for _, source := range accepted {
		_, err := ParseReplyFrame([]byte(`{"responsetext":"x","citations":[{"references":[{"title":"t","source":"` + source + `"}]}]}`))
		require.NoError(t, err, source)
	}

	rejected := []string{"/docs/a.pdf", "docs/a.pdf", "s3:///no-bucket"}
	for _, source := range rejected {
		_, err := ParseReplyFrame([]byte(`{"responsetext":"x","citations":[{"references":[{"title":"t","source":"` + source + `"}]}]}`))
		require.Error(t, err, source)
	}
}

func TestParseReplyFrameTitleFallback(t *testing.T) {
	frame, err := ParseReplyFrame([]byte(`{"responsetext":"x","citations":[{"text":"x","references":[` +
		`{"source":"s3://ncwm-kb/docs/mhfa-guide.pdf","title":""},` +
		`{"source":"https://mhfa.example/","title":""}]}]}`))
	require.NoError(t, err)
	require.Equal(t, "mhfa-guide.pdf", frame.Citations[0].References[0].Title)
	require.Equal(t, "mhfa.example", frame.Citations[0].References[1].Title)
}

func TestParseReplyFrameRequiresText(t *testing.T) {
	_, err := ParseReplyFrame([]byte(`{"citations":[]}`))
	require.Error(t, err)

	frame, err := ParseReplyFrame([]byte(`{"responsetext":""}`))
	require.NoError(t, err)
	require.Equal(t, "", frame.Text())
	require.NotNil(t, frame.Citations)
}
