// Package storage persists per-user, per-day completion state behind a small
// key-value interface and keeps an append-only log of state changes.
package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("storage: not found")

// Entry is one stored key-value pair.
type Entry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// KV is the swappable store behind completion state. Delete of a missing key
// succeeds; List returns entries whose key starts with prefix, ordered by key.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]Entry, error)
}

// CompletionEvent is an audit record of one state change.
type CompletionEvent struct {
	ID        string
	UserID    string
	Day       string
	TaskID    string
	FromState string
	ToState   string
	Reason    string
	At        time.Time
}

type EventFilter struct {
	UserID string
	Day    string
	TaskID string
	Limit  int
	Offset int
}

type EventLog interface {
	AppendEvent(ctx context.Context, in CompletionEvent) error
	ListEvents(ctx context.Context, filter EventFilter) ([]CompletionEvent, error)
}

type Repository interface {
	KV
	EventLog
}
