package chat

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/learningnavigator/navigator/internal/model/chat"
)

// ErrPendingExists is returned when a second PROCESSING block would enter the log.
var ErrPendingExists = errors.New("a block is already awaiting a reply")

// MessageLog is the ordered transcript of one session.
type MessageLog struct {
	mu     sync.RWMutex
	blocks []chat.MessageBlock
}

// NewMessageLog returns an empty log.
func NewMessageLog() *MessageLog {
	return &MessageLog{blocks: make([]chat.MessageBlock, 0, 16)}
}

// Append adds a block at the end of the log.
func (l *MessageLog) Append(block chat.MessageBlock) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if block.IsPending() {
		for _, existing := range l.blocks {
			if existing.IsPending() {
				return ErrPendingExists
			}
		}
	}
	l.blocks = append(l.blocks, block)
	return nil
}

// Resolve swaps the PROCESSING block carrying requestID for block, keeping its
// position. It reports false when no such placeholder exists.
func (l *MessageLog) Resolve(requestID string, block chat.MessageBlock) bool {
	if requestID == "" || block.IsPending() {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i, existing := range l.blocks {
		if existing.IsPending() && existing.RequestID == requestID {
			l.blocks[i] = block
			return true
		}
	}
	return false
}

// Blocks returns a copy of the transcript.
func (l *MessageLog) Blocks() []chat.MessageBlock {
	l.mu.RLock()
	defer l.mu.RUnlock()

	copied := make([]chat.MessageBlock, len(l.blocks))
	copy(copied, l.blocks)
	return copied
}

// Len returns the number of blocks.
func (l *MessageLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.blocks)
}

// Last returns the newest block.
func (l *MessageLog) Last() (chat.MessageBlock, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.blocks) == 0 {
		return chat.MessageBlock{}, false
	}
	return l.blocks[len(l.blocks)-1], true
}

// Pending counts PROCESSING blocks. It is never more than one.
func (l *MessageLog) Pending() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := 0
	for _, block := range l.blocks {
		if block.IsPending() {
			n++
		}
	}
	return n
}
