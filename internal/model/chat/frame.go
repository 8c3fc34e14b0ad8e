package chat

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pkg/errors"
)

// ActionSendMessage is the route key the gateway dispatches query frames on.
const ActionSendMessage = "sendMessage"

// QueryFrame is the single frame a client sends per connection.
type QueryFrame struct {
	Action    string `json:"action"`
	QueryText string `json:"querytext"`
	SessionID string `json:"session_id"`
}

// NewQueryFrame builds a sendMessage frame for the given session.
func NewQueryFrame(query, sessionID string) QueryFrame {
	return QueryFrame{
		Action:    ActionSendMessage,
		QueryText: query,
		SessionID: sessionID,
	}
}

// Validate checks the frame before it is put on the wire or accepted by a gateway.
func (f QueryFrame) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Action, validation.Required, validation.In(ActionSendMessage)),
		validation.Field(&f.QueryText, validation.Required),
		validation.Field(&f.SessionID, validation.Required),
	)
}

// ReplyFrame is the assistant's answer to a query frame.
type ReplyFrame struct {
	ResponseText *string         `json:"responsetext"`
	Citations    []CitationGroup `json:"citations"`
}

// NewReplyFrame builds a reply with a non-nil citation list.
func NewReplyFrame(text string, citations []CitationGroup) ReplyFrame {
	if citations == nil {
		citations = []CitationGroup{}
	}
	return ReplyFrame{ResponseText: &text, Citations: citations}
}

// Text returns the response text or "" when absent.
func (f ReplyFrame) Text() string {
	if f.ResponseText == nil {
		return ""
	}
	return *f.ResponseText
}

// Validate enforces the reply schema: responsetext must be present and every
// reference needs an absolute source URI (s3://, https://, ...).
func (f ReplyFrame) Validate() error {
	if err := validation.ValidateStruct(&f,
		validation.Field(&f.ResponseText, validation.NotNil),
	); err != nil {
		return err
	}
	for i, group := range f.Citations {
		if err := group.Validate(); err != nil {
			return errors.Wrapf(err, "citations[%d]", i)
		}
	}
	return nil
}

// Validate checks every reference of the group.
func (g CitationGroup) Validate() error {
	for i, ref := range g.References {
		if err := ref.Validate(); err != nil {
			return errors.Wrap(err, "references["+strconv.Itoa(i)+"]")
		}
	}
	return nil
}

// Validate checks a single reference.
func (c Citation) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Source, validation.Required, validation.By(absoluteURI)),
	)
}

// ParseReplyFrame decodes and validates a raw reply frame.
func ParseReplyFrame(data []byte) (ReplyFrame, error) {
	var frame ReplyFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return ReplyFrame{}, errors.Wrap(err, "decode reply frame")
	}
	if err := frame.Validate(); err != nil {
		return ReplyFrame{}, errors.Wrap(err, "invalid reply frame")
	}
	if frame.Citations == nil {
		frame.Citations = []CitationGroup{}
	}
	for i := range frame.Citations {
		if frame.Citations[i].References == nil {
			frame.Citations[i].References = []Citation{}
		}
		for j, ref := range frame.Citations[i].References {
			if ref.Title == "" {
				frame.Citations[i].References[j].Title = titleFromSource(ref.Source)
			}
		}
	}
	return frame, nil
}

func absoluteURI(value interface{}) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.New("must be a valid URI")
	}
	if !u.IsAbs() || (u.Host == "" && u.Opaque == "") {
		return errors.New("must be an absolute URI")
	}
	return nil
}

// titleFromSource names an untitled reference after the last segment of its source.
func titleFromSource(source string) string {
	u, err := url.Parse(source)
	if err != nil {
		return source
	}
	p := strings.TrimSuffix(u.Path, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	if p == "" {
		return u.Host
	}
	return p
}
