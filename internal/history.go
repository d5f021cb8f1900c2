package internal

import "time"

// HistoryEntry wraps one analysis with its originating input. Entries are
// immutable once appended.
type HistoryEntry struct {
	Input  string         `json:"input"`
	Result AnalysisResult `json:"result"`
	At     time.Time      `json:"at"`
}

// HistoryLog is the session-scoped, append-only record of past analyses.
// Append is the only mutator; nothing removes or edits an entry before
// session teardown.
type HistoryLog struct {
	entries []HistoryEntry
}

func NewHistoryLog() *HistoryLog {
	return &HistoryLog{}
}

func (l *HistoryLog) Append(entry HistoryEntry) {
	l.entries = append(l.entries, entry)
}

// Entries returns a copy in reverse-chronological order, newest first.
func (l *HistoryLog) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}

// Replay returns the entry appended at position index (append order, zero
// based) without re-running retrieval or generation.
func (l *HistoryLog) Replay(index int) (HistoryEntry, error) {
	if index < 0 || index >= len(l.entries) {
		return HistoryEntry{}, ErrNoSuchEntry
	}
	return l.entries[index], nil
}

func (l *HistoryLog) Len() int {
	return len(l.entries)
}

func (l *HistoryLog) clear() {
	l.entries = nil
}
