package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/learningnavigator/navigator/internal/logging"
	"github.com/learningnavigator/navigator/internal/model/analytics"
	"github.com/learningnavigator/navigator/internal/model/document"
	"github.com/learningnavigator/navigator/internal/model/recommend"
	"github.com/learningnavigator/navigator/internal/service/escalation"
	"github.com/learningnavigator/navigator/internal/service/profile"
	"github.com/learningnavigator/navigator/internal/service/translate"
)

// TokenSource supplies the bearer token for each request.
type TokenSource interface {
	IDToken(ctx context.Context) (string, error)
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("api returned %d: %s", e.Code, e.Message)
}

// Client calls the navigator REST API.
type Client struct {
	base   *url.URL
	http   *http.Client
	tokens TokenSource
	logger zerolog.Logger
}

// New builds a client rooted at baseURL. timeout applies per request.
func New(baseURL string, tokens TokenSource, timeout time.Duration) (*Client, error) {
	raw := strings.TrimSpace(baseURL)
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(err, "parse api url")
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.Errorf("api url must use http or https, got %q", base.Scheme)
	}
	if tokens == nil {
		return nil, errors.New("token source is required")
	}
	return &Client{
		base:   base,
		http:   &http.Client{Timeout: timeout},
		tokens: tokens,
		logger: logging.Component("api"),
	}, nil
}

// SessionLogs fetches the analytics snapshot for timeframe.
func (c *Client) SessionLogs(ctx context.Context, timeframe analytics.Timeframe) (analytics.SessionLogs, error) {
	var out analytics.SessionLogs
	query := url.Values{"timeframe": {string(timeframe)}}
	if err := c.do(ctx, http.MethodGet, "session-logs", query, nil, &out); err != nil {
		return analytics.SessionLogs{}, err
	}
	if out.Conversations == nil {
		out.Conversations = []analytics.Conversation{}
	}
	return out, nil
}

// Recommendations fetches the caller's role and personalised recommendations.
func (c *Client) Recommendations(ctx context.Context) (recommend.Response, error) {
	var out recommend.Response
	if err := c.do(ctx, http.MethodGet, "recommendations", nil, nil, &out); err != nil {
		return recommend.Response{}, err
	}
	return out, nil
}

type translateRequest struct {
	Text           string   `json:"text,omitempty"`
	Texts          []string `json:"texts,omitempty"`
	SourceLanguage string   `json:"source_language"`
	TargetLanguage string   `json:"target_language"`
}

// Translate calls the single-text endpoint.
func (c *Client) Translate(ctx context.Context, text, src, dst string) (string, error) {
	var out struct {
		TranslatedText string `json:"translated_text"`
	}
	body := translateRequest{Text: text, SourceLanguage: src, TargetLanguage: dst}
	if err := c.do(ctx, http.MethodPost, "translate", nil, body, &out); err != nil {
		return "", err
	}
	return out.TranslatedText, nil
}

// TranslateBatch calls the batch endpoint.
func (c *Client) TranslateBatch(ctx context.Context, texts []string, src, dst string) ([]translate.Result, error) {
	var out struct {
		Translations []translate.Result `json:"translations"`
	}
	body := translateRequest{Texts: texts, SourceLanguage: src, TargetLanguage: dst}
	if err := c.do(ctx, http.MethodPost, "translate-batch", nil, body, &out); err != nil {
		return nil, err
	}
	return out.Translations, nil
}

// SendFeedback posts a rating. It never fails the caller; errors are logged.
func (c *Client) SendFeedback(ctx context.Context, fb analytics.Feedback) {
	if err := c.do(ctx, http.MethodPost, "feedback", nil, fb, nil); err != nil {
		c.logger.Warn().Err(err).Str("message_id", fb.MessageID).Msg("feedback not delivered")
	}
}

// ListFiles lists the knowledge base documents.
func (c *Client) ListFiles(ctx context.Context) (document.Listing, error) {
	var out document.Listing
	if err := c.do(ctx, http.MethodGet, "files", nil, nil, &out); err != nil {
		return document.Listing{}, err
	}
	if out.Files == nil {
		out.Files = []document.File{}
	}
	return out, nil
}

// Profile fetches the caller's profile.
func (c *Client) Profile(ctx context.Context) (profile.Profile, error) {
	var out profile.Profile
	if err := c.do(ctx, http.MethodGet, "profile", nil, nil, &out); err != nil {
		return profile.Profile{}, err
	}
	return out, nil
}

// UpdateRole stores the caller's role on the backend.
func (c *Client) UpdateRole(ctx context.Context, role string) (profile.Profile, error) {
	var out struct {
		Profile profile.Profile `json:"profile"`
	}
	body := map[string]string{"role": role}
	if err := c.do(ctx, http.MethodPut, "profile", nil, body, &out); err != nil {
		return profile.Profile{}, err
	}
	return out.Profile, nil
}

// Escalate asks for a human follow-up on a question.
func (c *Client) Escalate(ctx context.Context, req escalation.Request) (escalation.Query, error) {
	var out struct {
		Query escalation.Query `json:"query"`
	}
	if err := c.do(ctx, http.MethodPost, "escalations", nil, req, &out); err != nil {
		return escalation.Query{}, err
	}
	return out.Query, nil
}

// Escalations lists escalated queries, optionally filtered by status.
func (c *Client) Escalations(ctx context.Context, status escalation.Status) ([]escalation.Query, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}
	var out struct {
		Queries []escalation.Query `json:"queries"`
	}
	if err := c.do(ctx, http.MethodGet, "escalations", query, nil, &out); err != nil {
		return nil, err
	}
	if out.Queries == nil {
		out.Queries = []escalation.Query{}
	}
	return out.Queries, nil
}

// UpdateEscalation moves an escalated query to status.
func (c *Client) UpdateEscalation(ctx context.Context, id string, status escalation.Status) (escalation.Query, error) {
	var out struct {
		Query escalation.Query `json:"query"`
	}
	body := map[string]string{"status": string(status)}
	if err := c.do(ctx, http.MethodPatch, "escalations/"+id, nil, body, &out); err != nil {
		return escalation.Query{}, err
	}
	return out.Query, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	token, err := c.tokens.IDToken(ctx)
	if err != nil {
		return errors.Wrap(err, "get token")
	}

	target := c.base.ResolveReference(&url.URL{Path: path})
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	c.logger.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeStatusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s response", path)
	}
	return nil
}

func decodeStatusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &payload) == nil {
		switch {
		case payload.Message != "":
			msg = payload.Message
		case payload.Error != "":
			msg = payload.Error
		}
	}
	return &StatusError{Code: resp.StatusCode, Message: msg}
}
