// Package undo holds the bounded single-level undo log. Each entry is one
// variant of a closed union carrying exactly the data its inverse needs.
package undo

import wfdomain "taskportal-backend/internal/workflow/domain"

// Capacity bounds the log; pushing beyond it drops the oldest entry.
const Capacity = 25

// Kind discriminates the entry union.
type Kind string

const (
	KindStatusChange Kind = "task-status"
	KindCreate       Kind = "task-create"
	KindUpdate       Kind = "task-update"
	KindDelete       Kind = "task-delete"
)

// Entry is one inverse-action descriptor. Exactly the fields for its Kind
// are set:
//
//	KindStatusChange: TaskID, PreviousStatus, NextStatus
//	KindCreate:       TaskID
//	KindUpdate:       Task (the pre-update snapshot)
//	KindDelete:       Task (the full removed task)
type Entry struct {
	Kind           Kind
	TaskID         string
	PreviousStatus wfdomain.Status
	NextStatus     wfdomain.Status
	Task           wfdomain.Task
}

// Log is an ordered sequence of entries, oldest first. The zero value is
// ready to use. Not persisted across restarts.
type Log struct {
	entries []Entry
}

// Push appends an entry, dropping from the oldest end when over capacity.
func (l *Log) Push(entry Entry) {
	l.entries = append(l.entries, entry)
	if len(l.entries) > Capacity {
		l.entries = l.entries[len(l.entries)-Capacity:]
	}
}

// Pop removes and returns the newest entry. The second result is false when
// the log is empty.
func (l *Log) Pop() (Entry, bool) {
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	last := l.entries[len(l.entries)-1]
	l.entries = l.entries[:len(l.entries)-1]
	return last, true
}

// Len returns the number of stored entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Clear drops every entry. Used when the task set is replaced wholesale
// and stored inverses no longer apply.
func (l *Log) Clear() {
	l.entries = nil
}
