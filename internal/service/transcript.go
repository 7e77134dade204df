package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/galder-dev/dogchat/internal/domain"
)

// Transcript is the ordered, append-only conversation history. A single
// mutex serializes appends so concurrently resolving chat flows can never
// interleave partial entries or reorder history. Entries are never merged,
// mutated, or removed.
type Transcript struct {
	mu      sync.Mutex
	entries []domain.TranscriptEntry
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// AppendText appends a text entry for sender and returns the stored entry.
func (t *Transcript) AppendText(sender domain.Sender, text string) domain.TranscriptEntry {
	return t.append(domain.TranscriptEntry{Sender: sender, Text: text})
}

// AppendImage appends a user entry referencing a stored image.
func (t *Transcript) AppendImage(imageKey string) domain.TranscriptEntry {
	return t.append(domain.TranscriptEntry{Sender: domain.SenderUser, ImageKey: imageKey})
}

func (t *Transcript) append(entry domain.TranscriptEntry) domain.TranscriptEntry {
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, entry)
	return entry
}

// Entries returns a snapshot of the transcript in insertion order.
func (t *Transcript) Entries() []domain.TranscriptEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.TranscriptEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len reports the number of entries.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
