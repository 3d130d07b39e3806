package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vcisolabs/vciso-engine/pkg/models"
)

// Entry is one turn in the visible transcript. A pending entry has been
// shown optimistically but not yet persisted; once the stored row exists
// the entry is reconciled in place and keeps its position.
type Entry struct {
	// LocalID identifies the entry within the transcript and is stable
	// across reconciliation.
	LocalID uuid.UUID
	// Message is the turn content. For a pending entry the ID is a
	// locally generated placeholder.
	Message models.Message
	// Pending is true until the entry has been confirmed against a
	// stored row.
	Pending bool
}

// Transcript is the ordered message list for the active conversation.
// It is safe for concurrent use.
type Transcript struct {
	mu      sync.Mutex
	entries []Entry
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// AppendPending adds an unconfirmed turn and returns its local ID.
func (t *Transcript) AppendPending(msg models.Message) uuid.UUID {
	t.mu.Lock()
	defer t.mu.Unlock()

	localID := uuid.New()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	t.entries = append(t.entries, Entry{
		LocalID: localID,
		Message: msg,
		Pending: true,
	})
	return localID
}

// Append adds a confirmed turn and returns its local ID.
func (t *Transcript) Append(msg models.Message) uuid.UUID {
	t.mu.Lock()
	defer t.mu.Unlock()

	localID := uuid.New()
	t.entries = append(t.entries, Entry{
		LocalID: localID,
		Message: msg,
	})
	return localID
}

// Confirm replaces the pending entry identified by localID with the
// stored message, keeping its position in the transcript. It reports
// whether the entry was found.
func (t *Transcript) Confirm(localID uuid.UUID, stored models.Message) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.entries {
		if t.entries[i].LocalID == localID {
			t.entries[i].Message = stored
			t.entries[i].Pending = false
			return true
		}
	}
	return false
}

// Remove drops the entry identified by localID, if present.
func (t *Transcript) Remove(localID uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.entries {
		if t.entries[i].LocalID == localID {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return
		}
	}
}

// Reset replaces the transcript with the given stored history.
func (t *Transcript) Reset(msgs []*models.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = make([]Entry, 0, len(msgs))
	for _, m := range msgs {
		t.entries = append(t.entries, Entry{
			LocalID: uuid.New(),
			Message: *m,
		})
	}
}

// Entries returns a copy of the transcript in order.
func (t *Transcript) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
