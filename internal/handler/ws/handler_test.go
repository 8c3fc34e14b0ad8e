package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/learningnavigator/navigator/internal/handler/auth"
	"github.com/learningnavigator/navigator/internal/model/chat"
	"github.com/learningnavigator/navigator/internal/service/classifier"
	chatservice "github.com/learningnavigator/navigator/internal/service/chat"
	"github.com/learningnavigator/navigator/internal/service/conversation"
	"github.com/learningnavigator/navigator/internal/service/session"
)

type stubResponder struct {
	calls atomic.Int32
	delay time.Duration
	err   error
	last  atomic.Pointer[chat.Question]
}

func (s *stubResponder) Answer(ctx context.Context, q chat.Question) (chat.ReplyFrame, error) {
	s.calls.Add(1)
	s.last.Store(&q)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return chat.ReplyFrame{}, ctx.Err()
		}
	}
	if s.err != nil {
		return chat.ReplyFrame{}, s.err
	}
	return chat.NewReplyFrame("echo: "+q.Query, []chat.CitationGroup{{
		References: []chat.Citation{{Title: "Guide", Source: "https://docs.example/guide"}},
	}}), nil
}

type staticProfiles map[string]string

func (p staticProfiles) Role(userID string) (string, bool) {
	role, ok := p[userID]
	return role, ok
}

func newGateway(t *testing.T, opts Options) (*httptest.Server, *conversation.Service) {
	t.Helper()

	cls, err := classifier.NewService(context.Background(), nil, false)
	require.NoError(t, err)
	convs := conversation.NewService(cls)
	opts.Conversations = convs

	r := chi.NewRouter()
	r.Use(auth.NewVerifier("").Middleware)
	New(opts).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, convs
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func guestTokens() chatservice.TokenSource {
	return chatservice.TokenFunc(func(context.Context) (string, error) {
		return session.GuestToken, nil
	})
}

func TestGatewayAnswersDispatcher(t *testing.T) {
	responder := &stubResponder{}
	srv, convs := newGateway(t, Options{Responder: responder, Profiles: staticProfiles{auth.GuestUserID: "staff"}})

	dispatcher, err := chatservice.NewDispatcher(wsURL(srv), guestTokens())
	require.NoError(t, err)

	sess := chatservice.NewSession()
	block, err := dispatcher.Send(context.Background(), sess, "  renew my certificate  ")
	require.NoError(t, err)
	require.Equal(t, chat.StatusReceived, block.Status)
	require.Equal(t, "echo: renew my certificate", block.Content)
	require.Equal(t, "https://docs.example/guide", block.References()[0].Source)

	last := responder.last.Load()
	require.NotNil(t, last)
	require.Equal(t, "staff", last.Role)
	require.Equal(t, sess.ID, last.SessionID)

	history := convs.History(sess.ID)
	require.Len(t, history, 2)
	require.Equal(t, "renew my certificate", history[0].Content)
}

func TestGatewaySendsHistoryOnFollowUp(t *testing.T) {
	responder := &stubResponder{}
	srv, _ := newGateway(t, Options{Responder: responder})

	dispatcher, err := chatservice.NewDispatcher(wsURL(srv), guestTokens())
	require.NoError(t, err)
	sess := chatservice.NewSession()

	_, err = dispatcher.Send(context.Background(), sess, "first")
	require.NoError(t, err)
	_, err = dispatcher.Send(context.Background(), sess, "second")
	require.NoError(t, err)

	last := responder.last.Load()
	require.Len(t, last.History, 2)
	require.Equal(t, "first", last.History[0].Content)
}

func TestGatewayHeartbeatsWhileAnswering(t *testing.T) {
	responder := &stubResponder{delay: 150 * time.Millisecond}
	srv, _ := newGateway(t, Options{Responder: responder, HeartbeatInterval: 20 * time.Millisecond})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv)+"?token="+session.GuestToken, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(chat.NewQueryFrame("hello", "s-1")))

	heartbeats := 0
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		if strings.TrimSpace(string(data)) == "" {
			heartbeats++
			continue
		}
		reply, err := chat.ParseReplyFrame(data)
		require.NoError(t, err)
		require.Equal(t, "echo: hello", reply.Text())
		break
	}
	require.Greater(t, heartbeats, 0)
}

func TestGatewayUsesFallback(t *testing.T) {
	primary := &stubResponder{err: errors.New("model unavailable")}
	fallback := &stubResponder{}
	srv, _ := newGateway(t, Options{Responder: primary, Fallback: fallback})

	dispatcher, err := chatservice.NewDispatcher(wsURL(srv), guestTokens())
	require.NoError(t, err)

	block, err := dispatcher.Send(context.Background(), chatservice.NewSession(), "hi")
	require.NoError(t, err)
	require.Equal(t, "echo: hi", block.Content)
	require.EqualValues(t, 1, primary.calls.Load())
	require.EqualValues(t, 1, fallback.calls.Load())
}

func TestGatewayReportsResponderFailure(t *testing.T) {
	srv, convs := newGateway(t, Options{Responder: &stubResponder{err: errors.New("boom")}})

	dispatcher, err := chatservice.NewDispatcher(wsURL(srv), guestTokens())
	require.NoError(t, err)

	sess := chatservice.NewSession()
	block, err := dispatcher.Send(context.Background(), sess, "hi")
	var protoErr *chatservice.ProtocolError
	require.True(t, errors.As(err, &protoErr))
	require.Equal(t, chat.StatusError, block.Status)
	require.Empty(t, convs.History(sess.ID))
}

func TestGatewayRejectsInvalidFrames(t *testing.T) {
	responder := &stubResponder{}
	srv, _ := newGateway(t, Options{Responder: responder})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv)+"?token="+session.GuestToken, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Contains(t, string(data), "invalid frame")

	require.NoError(t, conn.WriteJSON(chat.QueryFrame{Action: "other", QueryText: "q", SessionID: "s"}))
	_, data, err = conn.ReadMessage()
	require.NoError(t, err)
	require.Contains(t, string(data), "error")

	require.NoError(t, conn.WriteJSON(chat.NewQueryFrame("   ", "s")))
	_, data, err = conn.ReadMessage()
	require.NoError(t, err)
	require.Contains(t, string(data), "error")

	require.Zero(t, responder.calls.Load())
}

func TestGatewayRequiresToken(t *testing.T) {
	srv, _ := newGateway(t, Options{Responder: &stubResponder{}})

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, 401, resp.StatusCode)
}
