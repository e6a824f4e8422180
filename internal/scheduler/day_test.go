package scheduler

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sandeepkv93/vitalday/internal/model"
	"github.com/sandeepkv93/vitalday/internal/planner"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2026, time.October, day, hour, minute, 0, 0, time.UTC)
}

func TestDayEvents(t *testing.T) {
	now := at(16, 9, 0)
	tasks := []model.Task{
		{ID: "walk", Scheduled: model.Explicit(14, 0), State: model.StatePending},
		{ID: "early", Scheduled: model.Explicit(8, 0), State: model.StatePending},
		{ID: "done", Scheduled: model.Explicit(15, 0), State: model.StateCompleted},
		{ID: "tagged", Scheduled: model.Symbolic(model.WindowEvening), State: model.StatePending},
	}

	got := DayEvents(planner.StandardTable(), now, tasks, 10*time.Minute)
	want := []Event{
		{ID: "window:2026-10-16:day", Kind: KindWindow, Window: model.WindowDay, At: at(16, 11, 0)},
		{ID: "window:2026-10-16:evening", Kind: KindWindow, Window: model.WindowEvening, At: at(16, 17, 0)},
		{ID: "window:2026-10-16:night", Kind: KindWindow, Window: model.WindowNight, At: at(16, 21, 0)},
		{ID: "window:2026-10-17:morning", Kind: KindWindow, Window: model.WindowMorning, At: at(17, 5, 0)},
		{ID: "task:walk", Kind: KindTask, TaskID: "walk", Window: model.WindowDay, At: at(16, 13, 50)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected events (-want +got):\n%s", diff)
	}
}

func TestScheduleDayReplacesQueue(t *testing.T) {
	engine := NewEngine(4)
	if err := engine.Schedule(Event{ID: "stale", At: at(16, 10, 0)}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	n, err := engine.ScheduleDay(planner.StandardTable(), at(16, 22, 0), nil, 0)
	if err != nil {
		t.Fatalf("schedule day: %v", err)
	}
	// At 22:00 only tomorrow's four boundaries remain.
	if n != 4 || engine.Pending() != 4 {
		t.Fatalf("expected 4 queued events, got n=%d pending=%d", n, engine.Pending())
	}
}
