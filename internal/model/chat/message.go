package chat

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Sender identifies who authored a block.
type Sender string

const (
	SenderUser Sender = "USER"
	SenderBot  Sender = "BOT"
)

// BlockType is the payload kind of a block. FILE is reserved for uploads.
type BlockType string

const (
	TypeText BlockType = "TEXT"
	TypeFile BlockType = "FILE"
)

// Status tracks where a block is in its lifecycle.
type Status string

const (
	StatusSent       Status = "SENT"
	StatusProcessing Status = "PROCESSING"
	StatusReceived   Status = "RECEIVED"
	StatusError      Status = "ERROR"
)

// Citation is a single reference attached to an assistant reply.
type Citation struct {
	Title  string `json:"title"`
	Source string `json:"source"`
}

// CitationGroup mirrors the backend's grouping of references per retrieved chunk.
type CitationGroup struct {
	Text       string     `json:"text,omitempty"`
	References []Citation `json:"references"`
}

// MessageBlock is one entry of the chat transcript.
type MessageBlock struct {
	ID        string          `json:"id"`
	Sender    Sender          `json:"sender"`
	Type      BlockType       `json:"type"`
	Status    Status          `json:"status"`
	Content   string          `json:"content"`
	Citations []CitationGroup `json:"citations"`
	RequestID string          `json:"requestId,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewBlockID returns a time-ordered identifier that is unique within the process.
func NewBlockID(now time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}

// NewBlock builds a block stamped with the current time and a fresh id.
func NewBlock(content string, sender Sender, typ BlockType, status Status) MessageBlock {
	now := time.Now().UTC()
	return MessageBlock{
		ID:        NewBlockID(now),
		Sender:    sender,
		Type:      typ,
		Status:    status,
		Content:   content,
		Citations: []CitationGroup{},
		Timestamp: now,
	}
}

// IsPending reports whether the block is still awaiting the assistant.
func (b MessageBlock) IsPending() bool {
	return b.Status == StatusProcessing
}

// References flattens the citation groups in order.
func (b MessageBlock) References() []Citation {
	var refs []Citation
	for _, group := range b.Citations {
		refs = append(refs, group.References...)
	}
	return refs
}

// Question is what a responder needs to answer one query.
type Question struct {
	SessionID string
	Query     string
	Role      string
	Language  string
	History   []MessageBlock
}
