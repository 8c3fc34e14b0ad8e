package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/learningnavigator/navigator/internal/client"
	"github.com/learningnavigator/navigator/internal/model/analytics"
	"github.com/learningnavigator/navigator/internal/service/escalation"
	"github.com/learningnavigator/navigator/internal/service/translate"
)

type tokenFunc func(ctx context.Context) (string, error)

func (f tokenFunc) IDToken(ctx context.Context) (string, error) { return f(ctx) }

func fixedToken(token string) client.TokenSource {
	return tokenFunc(func(context.Context) (string, error) { return token, nil })
}

func newClient(t *testing.T, handler http.HandlerFunc) *client.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c, err := client.New(server.URL+"/prod", fixedToken("tok-1"), 2*time.Second)
	require.NoError(t, err)
	return c
}

func TestSessionLogs(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/prod/session-logs", r.URL.Path)
		require.Equal(t, "weekly", r.URL.Query().Get("timeframe"))
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"user_count":3,"sentiment":{"positive":2,"neutral":1,"negative":0},"avg_satisfaction":4.5}`))
	})

	logs, err := c.SessionLogs(context.Background(), analytics.Weekly)
	require.NoError(t, err)
	require.Equal(t, 3, logs.UserCount)
	require.Equal(t, 2, logs.Sentiment.Positive)
	require.Equal(t, 4.5, logs.AvgSatisfaction)
	require.NotNil(t, logs.Conversations)
}

func TestTranslateEndpoints(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "en", body["source_language"])
		require.Equal(t, "es", body["target_language"])

		switch r.URL.Path {
		case "/prod/translate":
			require.Equal(t, "Hello", body["text"])
			_, _ = w.Write([]byte(`{"translated_text":"Hola"}`))
		case "/prod/translate-batch":
			require.Equal(t, []interface{}{"Yes", "No"}, body["texts"])
			_, _ = w.Write([]byte(`{"translations":[{"original":"Yes","translated":"Sí"},{"original":"No","translated":"No"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	text, err := c.Translate(context.Background(), "Hello", "en", "es")
	require.NoError(t, err)
	require.Equal(t, "Hola", text)

	batch, err := c.TranslateBatch(context.Background(), []string{"Yes", "No"}, "en", "es")
	require.NoError(t, err)
	require.Equal(t, []translate.Result{{Original: "Yes", Translated: "Sí"}, {Original: "No", Translated: "No"}}, batch)
}

func TestStatusError(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Admin access required"}`))
	})

	_, err := c.ListFiles(context.Background())
	var statusErr *client.StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusForbidden, statusErr.Code)
	require.Equal(t, "Admin access required", statusErr.Message)
}

func TestListFiles(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/prod/files", r.URL.Path)
		_, _ = w.Write([]byte(`{"files":[{"key":"guide.pdf","size":1024,"last_modified":"2026-01-02T03:04:05Z"}]}`))
	})

	listing, err := c.ListFiles(context.Background())
	require.NoError(t, err)
	require.Len(t, listing.Files, 1)
	require.Equal(t, "guide.pdf", listing.Files[0].Key)
	require.EqualValues(t, 1024, listing.Files[0].Size)
}

func TestSendFeedbackSwallowsFailures(t *testing.T) {
	received := make(chan analytics.Feedback, 1)
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		var fb analytics.Feedback
		require.NoError(t, json.NewDecoder(r.Body).Decode(&fb))
		received <- fb
		w.WriteHeader(http.StatusInternalServerError)
	})

	fb := analytics.Feedback{MessageID: "m1", SessionID: "s1", Feedback: "positive"}
	c.SendFeedback(context.Background(), fb)
	require.Equal(t, fb, <-received)
}

func TestTokenFailureStopsRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent without a token")
	}))
	defer server.Close()

	c, err := client.New(server.URL, tokenFunc(func(context.Context) (string, error) {
		return "", errors.New("signed out")
	}), time.Second)
	require.NoError(t, err)

	_, err = c.Recommendations(context.Background())
	require.Error(t, err)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := client.New("ftp://example.com", fixedToken("t"), time.Second)
	require.Error(t, err)
}

func TestProfile(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/prod/profile", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"user_id":"u1","role":"learner"}`))
		case http.MethodPut:
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			_, _ = w.Write([]byte(`{"message":"Profile updated successfully","profile":{"user_id":"u1","role":"` + body["role"] + `"}}`))
		}
	})

	p, err := c.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "learner", p.Role)

	p, err = c.UpdateRole(context.Background(), "staff")
	require.NoError(t, err)
	require.Equal(t, "u1", p.UserID)
	require.Equal(t, "staff", p.Role)
}

func TestEscalations(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/prod/escalations":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "Who handles refunds?", body["querytext"])
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"message":"Admin has been notified successfully.","query":{"query_id":"q1","question":"Who handles refunds?","status":"pending"}}`))
		case r.Method == http.MethodGet && r.URL.Path == "/prod/escalations":
			require.Equal(t, "pending", r.URL.Query().Get("status"))
			_, _ = w.Write([]byte(`{"queries":[{"query_id":"q1","question":"Who handles refunds?","status":"pending"}]}`))
		case r.Method == http.MethodPatch && r.URL.Path == "/prod/escalations/q1":
			_, _ = w.Write([]byte(`{"query":{"query_id":"q1","question":"Who handles refunds?","status":"resolved"}}`))
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	q, err := c.Escalate(context.Background(), escalation.Request{Question: "Who handles refunds?"})
	require.NoError(t, err)
	require.Equal(t, "q1", q.ID)

	queries, err := c.Escalations(context.Background(), escalation.StatusPending)
	require.NoError(t, err)
	require.Len(t, queries, 1)
	require.Equal(t, escalation.StatusPending, queries[0].Status)

	q, err = c.UpdateEscalation(context.Background(), "q1", escalation.StatusResolved)
	require.NoError(t, err)
	require.Equal(t, escalation.StatusResolved, q.Status)
}
