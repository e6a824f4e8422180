package storage

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepository keeps everything in process. It backs tests and the
// --ephemeral CLI mode.
type MemoryRepository struct {
	mu     sync.RWMutex
	kv     map[string]Entry
	events []CompletionEvent
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		kv:  make(map[string]Entry),
		now: time.Now,
	}
}

func (r *MemoryRepository) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.kv[key]
	if !ok {
		return "", ErrNotFound
	}
	return e.Value, nil
}

func (r *MemoryRepository) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kv[key] = Entry{Key: key, Value: value, UpdatedAt: r.now().UTC()}
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.kv, key)
	return nil
}

func (r *MemoryRepository) List(ctx context.Context, prefix string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, 0)
	for k, e := range r.kv {
		if strings.HasPrefix(k, prefix) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *MemoryRepository) AppendEvent(ctx context.Context, in CompletionEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(in.ID) == "" {
		return errors.New("storage: event id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, in)
	return nil
}

func (r *MemoryRepository) ListEvents(ctx context.Context, filter EventFilter) ([]CompletionEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]CompletionEvent, 0)
	for _, ev := range r.events {
		if filter.UserID != "" && ev.UserID != filter.UserID {
			continue
		}
		if filter.Day != "" && ev.Day != filter.Day {
			continue
		}
		if filter.TaskID != "" && ev.TaskID != filter.TaskID {
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return []CompletionEvent{}, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}
