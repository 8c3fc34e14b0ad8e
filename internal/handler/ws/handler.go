package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/learningnavigator/navigator/internal/handler/auth"
	"github.com/learningnavigator/navigator/internal/logging"
	"github.com/learningnavigator/navigator/internal/model/chat"
	"github.com/learningnavigator/navigator/internal/service/conversation"
)

// Responder answers one question.
type Responder interface {
	Answer(ctx context.Context, q chat.Question) (chat.ReplyFrame, error)
}

// Profiles resolves the role a user picked, if any.
type Profiles interface {
	Role(userID string) (string, bool)
}

// Options configures the WebSocket handler.
type Options struct {
	Responder Responder
	// Fallback answers when Responder fails. Optional.
	Fallback          Responder
	Conversations     *conversation.Service
	Profiles          Profiles
	HeartbeatInterval time.Duration
	AnswerTimeout     time.Duration
}

// Handler 处理 sendMessage 帧，每帧回复一条 {responsetext, citations}。
type Handler struct {
	opts     Options
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// New creates the WebSocket handler.
func New(opts Options) *Handler {
	if opts.AnswerTimeout <= 0 {
		opts.AnswerTimeout = 60 * time.Second
	}
	return &Handler{
		opts: opts,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logging.Component("ws"),
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

// conn serialises writes; heartbeats and replies share one socket.
type conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *conn) writeText(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *conn) writeJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.writeText(data)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.FromContext(r.Context())

	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer wsConn.Close()

	c := &conn{ws: wsConn}
	logger := h.logger.With().Str("user_id", identity.UserID).Logger()
	logger.Debug().Msg("connection opened")

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				logger.Warn().Err(err).Msg("read failed")
			}
			return
		}
		if strings.TrimSpace(string(data)) == "" {
			continue
		}

		var frame chat.QueryFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			_ = c.writeJSON(map[string]string{"error": "invalid frame"})
			continue
		}
		frame.QueryText = strings.TrimSpace(frame.QueryText)
		if err := frame.Validate(); err != nil {
			_ = c.writeJSON(map[string]string{"error": err.Error()})
			continue
		}

		if err := h.answer(r.Context(), c, identity, frame); err != nil {
			logger.Warn().Err(err).Msg("write failed")
			return
		}
	}
}

func (h *Handler) answer(parent context.Context, c *conn, identity auth.Identity, frame chat.QueryFrame) error {
	ctx, cancel := context.WithTimeout(parent, h.opts.AnswerTimeout)
	defer cancel()

	logger := h.logger.With().Str("session_id", frame.SessionID).Str("user_id", identity.UserID).Logger()

	stopHeartbeat := h.startHeartbeat(ctx, c)
	defer stopHeartbeat()

	q := chat.Question{
		SessionID: frame.SessionID,
		Query:     frame.QueryText,
		Role:      h.role(identity),
		History:   h.opts.Conversations.History(frame.SessionID),
	}
	start := time.Now()
	reply, err := h.opts.Responder.Answer(ctx, q)
	if err != nil && h.opts.Fallback != nil {
		logger.Warn().Err(err).Msg("responder failed, using fallback")
		reply, err = h.opts.Fallback.Answer(ctx, q)
	}
	if err != nil {
		stopHeartbeat()
		logger.Error().Err(err).Msg("failed to answer")
		return c.writeJSON(map[string]string{"error": err.Error()})
	}

	// 先记录再回复，下一条问题一定能看到这轮对话
	if _, err := h.opts.Conversations.Record(ctx, frame.SessionID, identity.UserID, frame.QueryText, reply); err != nil {
		logger.Warn().Err(err).Msg("failed to record exchange")
	}

	stopHeartbeat()
	if err := c.writeJSON(reply); err != nil {
		return err
	}
	logger.Info().Dur("elapsed", time.Since(start)).Msg("answered")
	return nil
}

func (h *Handler) role(identity auth.Identity) string {
	if h.opts.Profiles != nil {
		if role, ok := h.opts.Profiles.Role(identity.UserID); ok {
			return role
		}
	}
	return identity.Role
}

// startHeartbeat sends empty frames until the returned func is called.
func (h *Handler) startHeartbeat(ctx context.Context, c *conn) func() {
	if h.opts.HeartbeatInterval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(h.opts.HeartbeatInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.writeText(nil); err != nil {
					return
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
}
