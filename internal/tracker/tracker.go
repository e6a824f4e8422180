// Package tracker applies per-day completion state from a key-value store to
// the materialized task list and records state changes.
package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/vitalday/internal/model"
	"github.com/sandeepkv93/vitalday/internal/storage"
	"go.uber.org/zap"
)

var (
	ErrUnknownTask = errors.New("tracker: unknown task")
	ErrInvalidUser = errors.New("tracker: invalid user")
)

// TaskSource yields the pending tasks of one calendar day.
type TaskSource interface {
	Tasks(day time.Time) []model.Task
}

type SourceFunc func(day time.Time) []model.Task

func (f SourceFunc) Tasks(day time.Time) []model.Task { return f(day) }

// WriteError reports a failed store access during complete, skip or undo.
// The store is idempotent, so the caller may retry the same action.
type WriteError struct {
	Op     model.Action
	TaskID string
	Date   string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("tracker: %s %s on %s: %v", e.Op, e.TaskID, e.Date, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func (e *WriteError) Retryable() bool { return true }

// IsRetryable reports whether err carries a retryable store failure.
func IsRetryable(err error) bool {
	var we *WriteError
	return errors.As(err, &we) && we.Retryable()
}

type record struct {
	State     model.CompletionState `json:"state"`
	Reason    model.SkipReason      `json:"reason"`
	UpdatedAt time.Time             `json:"updated_at"`
}

type Tracker struct {
	kv     storage.KV
	events storage.EventLog
	source TaskSource
	user   string
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

type Option func(*Tracker)

func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithEventLog overrides the audit log. By default the KV is used when it
// also implements storage.EventLog.
func WithEventLog(l storage.EventLog) Option {
	return func(t *Tracker) { t.events = l }
}

func New(kv storage.KV, src TaskSource, user string, opts ...Option) (*Tracker, error) {
	user = strings.TrimSpace(user)
	if user == "" || strings.Contains(user, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUser, user)
	}
	if kv == nil || src == nil {
		return nil, errors.New("tracker: store and source are required")
	}
	t := &Tracker{
		kv:     kv,
		source: src,
		user:   user,
		logger: zap.NewNop(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	if el, ok := kv.(storage.EventLog); ok {
		t.events = el
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *Tracker) User() string { return t.user }

func (t *Tracker) dayPrefix(day time.Time) string {
	return "completion/" + t.user + "/" + model.DateKey(day) + "/"
}

func (t *Tracker) key(day time.Time, id string) string {
	return t.dayPrefix(day) + id
}

// LoadDay materializes the tasks of day and applies stored states. Stored
// values that do not decode to a completed or skipped state are ignored.
func (t *Tracker) LoadDay(ctx context.Context, day time.Time) ([]model.Task, error) {
	tasks := t.source.Tasks(day)
	entries, err := t.kv.List(ctx, t.dayPrefix(day))
	if err != nil {
		return nil, fmt.Errorf("load completions for %s: %w", model.DateKey(day), err)
	}
	stored := make(map[string]record, len(entries))
	prefix := t.dayPrefix(day)
	for _, e := range entries {
		rec, ok := decode(e.Value)
		if !ok {
			t.logger.Debug("ignoring stored completion", zap.String("key", e.Key))
			continue
		}
		stored[strings.TrimPrefix(e.Key, prefix)] = rec
	}
	for i := range tasks {
		if rec, ok := stored[tasks[i].ID]; ok {
			tasks[i].State = rec.State
			if rec.State == model.StateSkipped {
				tasks[i].SkipReason = rec.Reason
			}
		}
	}
	return tasks, nil
}

func decode(raw string) (record, bool) {
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return record{}, false
	}
	if !rec.State.Done() || !rec.Reason.IsValid() {
		return record{}, false
	}
	return rec, true
}

func (t *Tracker) Complete(ctx context.Context, day time.Time, id string) (model.Task, model.Transition, error) {
	return t.Apply(ctx, day, id, model.ActionComplete, model.SkipNone)
}

func (t *Tracker) Skip(ctx context.Context, day time.Time, id string, reason model.SkipReason) (model.Task, model.Transition, error) {
	return t.Apply(ctx, day, id, model.ActionSkip, reason)
}

func (t *Tracker) Undo(ctx context.Context, day time.Time, id string) (model.Task, model.Transition, error) {
	return t.Apply(ctx, day, id, model.ActionUndo, model.SkipNone)
}

// Apply runs action against the stored state of task id on day. Repeating
// the current state writes nothing. Store failures come back as *WriteError.
func (t *Tracker) Apply(ctx context.Context, day time.Time, id string, action model.Action, reason model.SkipReason) (model.Task, model.Transition, error) {
	date := model.DateKey(day)
	task, ok := find(t.source.Tasks(day), id)
	if !ok {
		return model.Task{}, model.Transition{}, fmt.Errorf("%w: %q on %s", ErrUnknownTask, id, date)
	}

	key := t.key(day, id)
	raw, err := t.kv.Get(ctx, key)
	switch {
	case err == nil:
		if rec, ok := decode(raw); ok {
			task.State = rec.State
			if rec.State == model.StateSkipped {
				task.SkipReason = rec.Reason
			}
		}
	case errors.Is(err, storage.ErrNotFound):
	default:
		return task, model.Transition{}, &WriteError{Op: action, TaskID: id, Date: date, Err: err}
	}

	next, tr, err := task.Apply(action, reason)
	if err != nil || !tr.Changed {
		return next, tr, err
	}

	if next.State == model.StatePending {
		err = t.kv.Delete(ctx, key)
	} else {
		var payload []byte
		payload, err = json.Marshal(record{State: next.State, Reason: next.SkipReason, UpdatedAt: t.now().UTC()})
		if err == nil {
			err = t.kv.Set(ctx, key, string(payload))
		}
	}
	if err != nil {
		t.logger.Warn("completion write failed",
			zap.String("user", t.user), zap.String("date", date), zap.String("task", id),
			zap.String("op", string(action)), zap.Error(err))
		return task, tr, &WriteError{Op: action, TaskID: id, Date: date, Err: err}
	}

	t.audit(ctx, date, tr)
	t.logger.Info("task state changed",
		zap.String("user", t.user), zap.String("date", date), zap.String("task", id),
		zap.String("from", string(tr.From)), zap.String("to", string(tr.To)))
	return next, tr, nil
}

func (t *Tracker) audit(ctx context.Context, date string, tr model.Transition) {
	if t.events == nil {
		return
	}
	err := t.events.AppendEvent(ctx, storage.CompletionEvent{
		ID:        t.newID(),
		UserID:    t.user,
		Day:       date,
		TaskID:    tr.TaskID,
		FromState: string(tr.From),
		ToState:   string(tr.To),
		Reason:    string(tr.Reason),
		At:        t.now(),
	})
	if err != nil {
		t.logger.Warn("audit event not recorded", zap.String("task", tr.TaskID), zap.Error(err))
	}
}

// History lists the recorded transitions of day, oldest first.
func (t *Tracker) History(ctx context.Context, day time.Time) ([]storage.CompletionEvent, error) {
	if t.events == nil {
		return []storage.CompletionEvent{}, nil
	}
	return t.events.ListEvents(ctx, storage.EventFilter{UserID: t.user, Day: model.DateKey(day)})
}

func find(tasks []model.Task, id string) (model.Task, bool) {
	for _, task := range tasks {
		if task.ID == id {
			return task, true
		}
	}
	return model.Task{}, false
}
