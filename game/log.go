package game

import (
	"fmt"
	"time"
)

const (
	logCapacity = 200
	logTail     = 20
)

type LogKind string

const (
	LogInfo      LogKind = "info"
	LogSuccess   LogKind = "success"
	LogDanger    LogKind = "danger"
	LogImportant LogKind = "important"
)

type LogEntry struct {
	Time    time.Time `json:"timestamp"`
	Kind    LogKind   `json:"type"`
	Message string    `json:"message"`
}

// Log is a bounded journal of game events. Oldest entries are dropped first.
type Log struct {
	entries  []LogEntry
	capacity int
	now      func() time.Time
}

func NewLog(capacity int, now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	return &Log{
		entries:  []LogEntry{},
		capacity: capacity,
		now:      now,
	}
}

func (l *Log) Add(kind LogKind, format string, args ...interface{}) LogEntry {
	entry := LogEntry{
		Time:    l.now(),
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}

	l.entries = append(l.entries, entry)
	if over := len(l.entries) - l.capacity; over > 0 {
		l.entries = append([]LogEntry{}, l.entries[over:]...)
	}

	return entry
}

// Tail returns a copy of the last n entries
func (l *Log) Tail(n int) []LogEntry {
	start := len(l.entries) - n
	if start < 0 {
		start = 0
	}
	return append([]LogEntry{}, l.entries[start:]...)
}

func (l *Log) Last() (LogEntry, bool) {
	if len(l.entries) == 0 {
		return LogEntry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

func (l *Log) Len() int {
	return len(l.entries)
}
