package logging

import (
	"sync"
	"time"
)

// SubjectKey is the attribute key naming the subject a record is about.
// Records carrying it are indexed by subject in the ring buffer.
const SubjectKey = "subject"

// LogEntry is one buffered log record.
type LogEntry struct {
	Timestamp  time.Time      `json:"timestamp"`
	Level      string         `json:"level"`
	Module     string         `json:"module"`
	Subject    string         `json:"subject,omitempty"`
	Message    string         `json:"message"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// RingBuffer keeps the most recent log entries. Safe for concurrent use.
type RingBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	next    int // slot the next entry is written to
	full    bool
}

// NewRingBuffer creates a buffer holding up to size entries.
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{entries: make([]LogEntry, size)}
}

// Write stores entry, dropping the oldest one once the buffer is full.
func (rb *RingBuffer) Write(entry LogEntry) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if len(rb.entries) == 0 {
		return
	}
	rb.entries[rb.next] = entry
	rb.next++
	if rb.next == len(rb.entries) {
		rb.next = 0
		rb.full = true
	}
}

// ReadAll returns every buffered entry, oldest first.
func (rb *RingBuffer) ReadAll() []LogEntry {
	return rb.collect(func(LogEntry) bool { return true })
}

// ReadSubject returns the buffered entries about subject, oldest first.
func (rb *RingBuffer) ReadSubject(subject string) []LogEntry {
	return rb.collect(func(e LogEntry) bool { return e.Subject == subject })
}

func (rb *RingBuffer) collect(keep func(LogEntry) bool) []LogEntry {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	var out []LogEntry
	start, n := 0, rb.next
	if rb.full {
		start, n = rb.next, len(rb.entries)
	}
	for i := range n {
		e := rb.entries[(start+i)%len(rb.entries)]
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the number of buffered entries.
func (rb *RingBuffer) Count() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	if rb.full {
		return len(rb.entries)
	}
	return rb.next
}
