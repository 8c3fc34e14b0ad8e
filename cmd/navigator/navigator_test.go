package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/learningnavigator/navigator/internal/handler"
	"github.com/learningnavigator/navigator/internal/handler/api"
	"github.com/learningnavigator/navigator/internal/handler/auth"
	"github.com/learningnavigator/navigator/internal/handler/ws"
	"github.com/learningnavigator/navigator/internal/model/recommend"
	"github.com/learningnavigator/navigator/internal/service/classifier"
	"github.com/learningnavigator/navigator/internal/service/conversation"
	"github.com/learningnavigator/navigator/internal/service/escalation"
	"github.com/learningnavigator/navigator/internal/service/knowledge"
	"github.com/learningnavigator/navigator/internal/service/profile"
)

// setupGateway starts a local gateway and points the CLI at it.
func setupGateway(t *testing.T) {
	t.Helper()

	cls, err := classifier.NewService(context.Background(), nil, false)
	require.NoError(t, err)
	convs := conversation.NewService(cls)
	kb := knowledge.NewBase(knowledge.Seed())
	recs := recommend.NewMemoryStore(recommend.Seed())
	profiles := profile.NewStore(recs.Roles())

	router := handler.NewRouter(
		[]string{"*"},
		auth.NewVerifier(""),
		api.New(convs, recs, profiles, escalation.NewService(nil), nil, kb),
		ws.New(ws.Options{Responder: kb, Conversations: convs, Profiles: profiles}),
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	t.Setenv("NAVIGATOR_WS_URL", "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws")
	t.Setenv("NAVIGATOR_API_URL", srv.URL)
	t.Setenv("NAVIGATOR_STATE_FILE", filepath.Join(t.TempDir(), "state.yaml"))
	t.Setenv("NAVIGATOR_USE_TRANSLATE", "false")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_PRETTY", "false")
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGuestAsk(t *testing.T) {
	setupGateway(t)

	_, err := run(t, "", "guest", "--role", "instructor")
	require.NoError(t, err)

	out, err := run(t, "", "ask", "How do I recertify my instructor certification?")
	require.NoError(t, err)
	require.Contains(t, out, "navigator: ")
	require.Contains(t, out, "[1] ")
	require.Contains(t, out, "https://")
}

func TestWhoamiAndLogout(t *testing.T) {
	setupGateway(t)

	_, err := run(t, "", "guest", "--role", "Staff")
	require.NoError(t, err)
	_, err = run(t, "", "language", "es")
	require.NoError(t, err)

	out, err := run(t, "", "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "mode: guest")
	require.Contains(t, out, "role: staff")
	require.Contains(t, out, "language: ES")

	_, err = run(t, "", "logout")
	require.NoError(t, err)

	out, err = run(t, "", "whoami")
	require.NoError(t, err)
	require.Contains(t, out, "mode: signed out")
	require.Contains(t, out, "role: (not set)")
	require.Contains(t, out, "language: ES")

	_, err = run(t, "", "language", "fr")
	require.Error(t, err)
}

func TestRecommendations(t *testing.T) {
	setupGateway(t)

	_, err := run(t, "", "recommendations")
	require.Error(t, err)

	_, err = run(t, "", "guest", "--role", "learner")
	require.NoError(t, err)

	out, err := run(t, "", "recommendations")
	require.NoError(t, err)
	require.Contains(t, out, "Recommendations for learner")
	require.Contains(t, out, "My Courses")
}

func TestChatFeedbackShowsInAnalytics(t *testing.T) {
	setupGateway(t)

	_, err := run(t, "", "guest", "--role", "learner")
	require.NoError(t, err)

	stdin := "/up\nWhat is Mental Health First Aid?\n/up\n/history\n/quit\n"
	out, err := run(t, stdin, "chat")
	require.NoError(t, err)
	require.Contains(t, out, "Nothing to rate yet.")
	require.Contains(t, out, "Thanks for the feedback.")
	require.Contains(t, out, "you: What is Mental Health First Aid?")

	out, err = run(t, "", "analytics", "--timeframe", "weekly")
	require.NoError(t, err)
	require.Contains(t, out, "Users: 1")
	require.Contains(t, out, "100% positive")

	_, err = run(t, "", "analytics", "--timeframe", "hourly")
	require.Error(t, err)
}

func TestFilesAndDashboard(t *testing.T) {
	setupGateway(t)

	_, err := run(t, "", "guest", "--role", "staff")
	require.NoError(t, err)

	out, err := run(t, "", "files")
	require.NoError(t, err)
	require.Contains(t, out, "recertification-guide.pdf")

	out, err = run(t, "", "dashboard")
	require.NoError(t, err)
	require.Contains(t, out, "Users: 0")
	require.Contains(t, out, "recertification-guide.pdf")
}

func TestProfileAndTranslate(t *testing.T) {
	setupGateway(t)

	_, err := run(t, "", "profile")
	require.Error(t, err)

	_, err = run(t, "", "guest", "--role", "staff")
	require.NoError(t, err)

	out, err := run(t, "", "profile", "--role", "learner")
	require.NoError(t, err)
	require.Contains(t, out, "role: learner")

	// the gateway has no model configured, so text comes back as is
	out, err = run(t, "", "translate", "--to", "es", "Hello")
	require.NoError(t, err)
	require.Equal(t, "Hello\n", out)
}

func TestFeedbackNeedsOneLabel(t *testing.T) {
	setupGateway(t)

	_, err := run(t, "", "feedback", "--message-id", "m", "--session-id", "s", "--positive", "--negative")
	require.Error(t, err)
}

func TestEscalateAndResolve(t *testing.T) {
	setupGateway(t)

	_, err := run(t, "", "guest", "--role", "learner")
	require.NoError(t, err)

	out, err := run(t, "", "escalate", "--email", "learner@example.org", "Can", "someone", "call", "me?")
	require.NoError(t, err)
	require.Contains(t, out, "Escalated as ")
	id := strings.TrimSuffix(strings.Fields(out)[2], ".")

	out, err = run(t, "", "escalations", "--status", "pending")
	require.NoError(t, err)
	require.Contains(t, out, id)
	require.Contains(t, out, "learner@example.org")
	require.Contains(t, out, "Can someone call me?")

	out, err = run(t, "", "escalations", "set", id, "resolved")
	require.NoError(t, err)
	require.Contains(t, out, id+" is now resolved")

	out, err = run(t, "", "escalations", "--status", "pending")
	require.NoError(t, err)
	require.Contains(t, out, "No escalated queries.")

	_, err = run(t, "", "escalations", "--status", "closed")
	require.Error(t, err)
}
