package planner

import (
	"sort"
	"time"

	"github.com/sandeepkv93/vitalday/internal/model"
)

// WindowOf resolves the window a task belongs to. Unset times, and tags that
// are not day windows, resolve to anytime.
func (t Table) WindowOf(task model.Task) model.Window {
	st := task.Scheduled
	if h, _, ok := st.Clock(); ok {
		return t.WindowAtHour(h)
	}
	if tag, ok := st.Tag(); ok {
		if _, isSpan := t.SpanOf(tag); isSpan {
			return tag
		}
	}
	return model.WindowAnytime
}

// FilterForFocus keeps tasks in window w plus anytime tasks, in input order.
func (t Table) FilterForFocus(tasks []model.Task, w model.Window) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		tw := t.WindowOf(task)
		if tw == w || tw == model.WindowAnytime {
			out = append(out, task)
		}
	}
	return out
}

// OrderForDisplay sorts a copy of tasks: pending before completed/skipped,
// then explicit clock times ascending, then tasks without a clock time.
// Remaining ties keep input order.
func OrderForDisplay(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := completionRank(out[i]), completionRank(out[j])
		if ri != rj {
			return ri < rj
		}
		mi, iTimed := out[i].Scheduled.MinuteOfDay()
		mj, jTimed := out[j].Scheduled.MinuteOfDay()
		switch {
		case iTimed && jTimed:
			return mi < mj
		case iTimed != jTimed:
			return iTimed
		default:
			return false
		}
	})
	return out
}

func completionRank(t model.Task) int {
	if t.State.Done() {
		return 1
	}
	return 0
}

// Plan is the evaluated schedule for one instant.
type Plan struct {
	Now       time.Time
	Current   Span
	Next      Span
	NextStart time.Time
	Focus     []model.Task
	All       []model.Task
}

// Build evaluates the table at now: Focus holds the current window's tasks
// and All holds every task, both in display order.
func (t Table) Build(now time.Time, tasks []model.Task) Plan {
	cur := t.CurrentWindow(now)
	next, nextStart := t.NextWindow(now)
	return Plan{
		Now:       now,
		Current:   cur,
		Next:      next,
		NextStart: nextStart,
		Focus:     OrderForDisplay(t.FilterForFocus(tasks, cur.Window)),
		All:       OrderForDisplay(tasks),
	}
}

// UntilNext is how long the current window has left.
func (p Plan) UntilNext() time.Duration {
	return p.NextStart.Sub(p.Now)
}

// Visible returns Focus or All.
func (p Plan) Visible(focus bool) []model.Task {
	if focus {
		return p.Focus
	}
	return p.All
}
