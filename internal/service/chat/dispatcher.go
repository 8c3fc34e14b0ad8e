package chat

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/learningnavigator/navigator/internal/logging"
	"github.com/learningnavigator/navigator/internal/model/chat"
)

// DefaultResponseTimeout bounds the wait for the assistant's reply.
const DefaultResponseTimeout = 30 * time.Second

// TokenSource yields the token appended to the socket URL.
type TokenSource interface {
	IDToken(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) IDToken(ctx context.Context) (string, error) { return f(ctx) }

// Dispatcher sends one query per short-lived WebSocket connection and folds the
// outcome back into the session log.
type Dispatcher struct {
	endpoint string
	tokens   TokenSource
	dialer   *websocket.Dialer
	timeout  time.Duration
	logger   zerolog.Logger
}

// Option customises a Dispatcher.
type Option func(*Dispatcher)

// WithTimeout overrides the reply timeout. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout >= 0 {
			d.timeout = timeout
		}
	}
}

// WithDialer replaces the default websocket dialer.
func WithDialer(dialer *websocket.Dialer) Option {
	return func(d *Dispatcher) {
		if dialer != nil {
			d.dialer = dialer
		}
	}
}

// NewDispatcher creates a dispatcher for the given ws:// or wss:// endpoint.
func NewDispatcher(endpoint string, tokens TokenSource, opts ...Option) (*Dispatcher, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return nil, errors.Wrap(err, "parse websocket url")
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, errors.Errorf("websocket url must use ws or wss, got %q", u.Scheme)
	}
	if tokens == nil {
		return nil, errors.New("token source is required")
	}

	d := &Dispatcher{
		endpoint: u.String(),
		tokens:   tokens,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		timeout: DefaultResponseTimeout,
		logger:  logging.Component("dispatcher"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Send runs one exchange for session. The log already holds the terminal block
// when Send returns; the returned error says why an ERROR block was written.
func (d *Dispatcher) Send(ctx context.Context, session *Session, query string) (chat.MessageBlock, error) {
	if session == nil {
		return chat.MessageBlock{}, ErrNoSession
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return chat.MessageBlock{}, ErrEmptyQuery
	}
	if !session.begin() {
		return chat.MessageBlock{}, ErrQueryInFlight
	}
	defer session.finish()

	requestID := uuid.NewString()
	logger := d.logger.With().Str("session_id", session.ID).Str("request_id", requestID).Logger()

	if err := session.log.Append(chat.NewBlock(query, chat.SenderUser, chat.TypeText, chat.StatusSent)); err != nil {
		return chat.MessageBlock{}, err
	}
	placeholder := chat.NewBlock("", chat.SenderBot, chat.TypeText, chat.StatusProcessing)
	placeholder.RequestID = requestID
	if err := session.log.Append(placeholder); err != nil {
		return chat.MessageBlock{}, err
	}

	start := time.Now()
	reply, err := d.exchange(ctx, logger, session.ID, query)

	var block chat.MessageBlock
	if err != nil {
		block = chat.NewBlock(failureText(err), chat.SenderBot, chat.TypeText, chat.StatusError)
		logger.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("query failed")
	} else {
		block = chat.NewBlock(reply.Text(), chat.SenderBot, chat.TypeText, chat.StatusReceived)
		block.Citations = reply.Citations
		logger.Info().Dur("elapsed", time.Since(start)).Int("citation_groups", len(reply.Citations)).Msg("reply received")
	}
	block.RequestID = requestID
	session.log.Resolve(requestID, block)

	return block, err
}

func (d *Dispatcher) exchange(ctx context.Context, logger zerolog.Logger, sessionID, query string) (chat.ReplyFrame, error) {
	token, err := d.tokens.IDToken(ctx)
	if err != nil {
		// 与前端一致：拿不到令牌时以空令牌连接，由后端决定是否拒绝。
		logger.Warn().Err(err).Msg("no token available, connecting without one")
		token = ""
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	conn, _, err := d.dialer.DialContext(ctx, d.url(token), nil)
	if err != nil {
		return chat.ReplyFrame{}, d.classify(ctx, "dial", err)
	}
	defer conn.Close()

	// A blocked read only returns once the connection is closed.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	frame := chat.NewQueryFrame(query, sessionID)
	if err := conn.WriteJSON(frame); err != nil {
		return chat.ReplyFrame{}, d.classify(ctx, "write", err)
	}
	logger.Debug().Str("query", query).Msg("query frame sent")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return chat.ReplyFrame{}, d.classify(ctx, "read", err)
		}
		if strings.TrimSpace(string(data)) == "" {
			logger.Debug().Msg("heartbeat frame ignored")
			continue
		}

		logger.Debug().Bytes("raw", data).Msg("reply frame")
		reply, err := chat.ParseReplyFrame(data)
		if err != nil {
			return chat.ReplyFrame{}, &ProtocolError{Err: err}
		}

		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		return reply, nil
	}
}

func (d *Dispatcher) classify(ctx context.Context, op string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrResponseTimeout
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &TransportError{Op: op, Err: ctxErr}
	}
	return &TransportError{Op: op, Err: err}
}

func (d *Dispatcher) url(token string) string {
	u, _ := url.Parse(d.endpoint)
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
