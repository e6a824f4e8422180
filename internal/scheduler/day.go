package scheduler

import (
	"fmt"
	"time"

	"github.com/sandeepkv93/vitalday/internal/model"
	"github.com/sandeepkv93/vitalday/internal/planner"
)

// DayEvents builds the events of the 24 hours after now: every window
// boundary and, for pending tasks with an explicit time, a nudge lead before
// that time. Events already in the past are left out.
func DayEvents(table planner.Table, now time.Time, tasks []model.Task, lead time.Duration) []Event {
	horizon := now.Add(24 * time.Hour)
	out := make([]Event, 0, 8+len(tasks))

	for _, d := range []time.Time{now, now.AddDate(0, 0, 1)} {
		for _, b := range table.Boundaries(d) {
			if !b.At.After(now) || b.At.After(horizon) {
				continue
			}
			out = append(out, Event{
				ID:     fmt.Sprintf("window:%s:%s", model.DateKey(b.At), b.Window),
				Kind:   KindWindow,
				Window: b.Window,
				At:     b.At,
			})
		}
	}

	y, m, d := now.Date()
	for _, task := range tasks {
		if task.State != model.StatePending {
			continue
		}
		hour, minute, ok := task.Scheduled.Clock()
		if !ok {
			continue
		}
		at := time.Date(y, m, d, hour, minute, 0, 0, now.Location()).Add(-lead)
		if !at.After(now) {
			continue
		}
		out = append(out, Event{
			ID:     "task:" + task.ID,
			Kind:   KindTask,
			TaskID: task.ID,
			Window: table.WindowOf(task),
			At:     at,
		})
	}
	return out
}

// ScheduleDay replaces the queue with DayEvents.
func (e *Engine) ScheduleDay(table planner.Table, now time.Time, tasks []model.Task, lead time.Duration) (int, error) {
	e.Reset()
	events := DayEvents(table, now, tasks, lead)
	for _, ev := range events {
		if err := e.Schedule(ev); err != nil {
			return 0, err
		}
	}
	return len(events), nil
}
