package planner

import (
	"fmt"
	"testing"
	"time"

	"github.com/sandeepkv93/vitalday/internal/model"
	"pgregory.net/rapid"
)

var scheduledGen = rapid.SampledFrom([]string{
	"", "anytime", "morning", "day", "midday", "evening", "night", "not-a-time",
	"05:00", "07:30", "10:59", "11:00", "13:15", "16:59", "17:00", "20:00", "21:00", "22:30", "00:10", "04:59",
})

var stateGen = rapid.SampledFrom([]model.CompletionState{model.StatePending, model.StateCompleted, model.StateSkipped})

func drawTasks(rt *rapid.T) []model.Task {
	n := rapid.IntRange(0, 25).Draw(rt, "n")
	out := make([]model.Task, 0, n)
	for i := 0; i < n; i++ {
		t := task(fmt.Sprintf("t%02d", i), scheduledGen.Draw(rt, "scheduled"))
		t.State = stateGen.Draw(rt, "state")
		out = append(out, t)
	}
	return out
}

func drawTable(rt *rapid.T) Table {
	v := rapid.SampledFrom([]Variant{VariantStandard, VariantLate}).Draw(rt, "variant")
	table, err := NewTable(v)
	if err != nil {
		rt.Fatalf("new table: %v", err)
	}
	return table
}

// Every minute of the day maps to exactly one day window.
func TestProperty_WindowClassificationIsTotal(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		table := drawTable(rt)
		h := rapid.IntRange(0, 23).Draw(rt, "hour")
		m := rapid.IntRange(0, 59).Draw(rt, "minute")
		now := time.Date(2026, 10, 16, h, m, 0, 0, time.UTC)

		got := table.CurrentWindow(now).Window
		matches := 0
		for _, s := range table.Spans() {
			if s.contains(h) {
				matches++
			}
		}
		if matches != 1 {
			rt.Fatalf("%02d:%02d matched %d spans", h, m, matches)
		}
		if got == model.WindowAnytime || !got.IsValid() {
			rt.Fatalf("%02d:%02d classified as %q", h, m, got)
		}
	})
}

// Anytime tasks are in the focus list of every window.
func TestProperty_AnytimeAbsorption(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		table := drawTable(rt)
		raw := rapid.SampledFrom([]string{"", "anytime", "not-a-time", "99:99"}).Draw(rt, "raw")
		anytime := task("any", raw)
		others := drawTasks(rt)
		tasks := append(others, anytime)

		for _, w := range model.DayWindows {
			found := false
			for _, got := range table.FilterForFocus(tasks, w) {
				if got.ID == "any" {
					found = true
				}
			}
			if !found {
				rt.Fatalf("anytime task (%q) missing from %s focus", raw, w)
			}
		}
	})
}

// Display order puts every pending task first and keeps untimed pending
// tasks in input order.
func TestProperty_OrderForDisplay(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tasks := drawTasks(rt)
		got := OrderForDisplay(tasks)
		if len(got) != len(tasks) {
			rt.Fatalf("length changed: %d -> %d", len(tasks), len(got))
		}

		seenDone := false
		for _, tk := range got {
			if tk.State.Done() {
				seenDone = true
			} else if seenDone {
				rt.Fatalf("pending task %s after a done task", tk.ID)
			}
		}

		// ids are zero-padded in input order, so stability means ascending ids.
		lastUntimedPending := ""
		for _, tk := range got {
			if _, timed := tk.Scheduled.MinuteOfDay(); timed || tk.State.Done() {
				continue
			}
			if tk.ID < lastUntimedPending {
				rt.Fatalf("untimed pending %s reordered before %s", tk.ID, lastUntimedPending)
			}
			lastUntimedPending = tk.ID
		}
	})
}

// Focus is always a subset of All and contains only current or anytime tasks.
func TestProperty_FocusSubsetOfAll(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		table := drawTable(rt)
		tasks := drawTasks(rt)
		h := rapid.IntRange(0, 23).Draw(rt, "hour")
		plan := table.Build(time.Date(2026, 10, 16, h, 0, 0, 0, time.UTC), tasks)

		all := make(map[string]bool, len(plan.All))
		for _, tk := range plan.All {
			all[tk.ID] = true
		}
		for _, tk := range plan.Focus {
			if !all[tk.ID] {
				rt.Fatalf("focus task %s missing from all", tk.ID)
			}
			w := table.WindowOf(tk)
			if w != plan.Current.Window && w != model.WindowAnytime {
				rt.Fatalf("focus task %s has window %s, current %s", tk.ID, w, plan.Current.Window)
			}
		}
	})
}
