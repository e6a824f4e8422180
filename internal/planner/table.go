// Package planner classifies the time of day and each task into windows and
// orders the day's tasks for display. Everything here is a pure function of
// the clock and the task list.
package planner

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/vitalday/internal/model"
)

var ErrUnknownVariant = errors.New("planner: unknown window variant")

// Variant selects one of the two evening/night boundaries.
type Variant string

const (
	VariantStandard Variant = "standard" // evening 17-21, night 21-05
	VariantLate     Variant = "late"     // evening 17-22, night 22-05
)

func ParseVariant(raw string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(raw))); v {
	case "":
		return VariantStandard, nil
	case VariantStandard, VariantLate:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, raw)
	}
}

// Span is a window with its half-open hour range [StartHour, EndHour).
// EndHour < StartHour means the span wraps past midnight.
type Span struct {
	Window    model.Window
	StartHour int
	EndHour   int
}

func (s Span) Label() string { return s.Window.Label() }

func (s Span) contains(hour int) bool {
	if s.StartHour < s.EndHour {
		return hour >= s.StartHour && hour < s.EndHour
	}
	return hour >= s.StartHour || hour < s.EndHour
}

func (s Span) String() string {
	return fmt.Sprintf("%s %02d:00-%02d:00", s.Window, s.StartHour, s.EndHour)
}

// Table is the fixed window table. Spans are kept in clock order from the
// morning boundary and cover all 24 hours without gaps.
type Table struct {
	variant Variant
	spans   [4]Span
}

func NewTable(v Variant) (Table, error) {
	eveningEnd := 21
	switch v {
	case VariantStandard, "":
		v = VariantStandard
	case VariantLate:
		eveningEnd = 22
	default:
		return Table{}, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}
	return Table{
		variant: v,
		spans: [4]Span{
			{Window: model.WindowMorning, StartHour: 5, EndHour: 11},
			{Window: model.WindowDay, StartHour: 11, EndHour: 17},
			{Window: model.WindowEvening, StartHour: 17, EndHour: eveningEnd},
			{Window: model.WindowNight, StartHour: eveningEnd, EndHour: 5},
		},
	}, nil
}

func StandardTable() Table {
	t, _ := NewTable(VariantStandard)
	return t
}

func (t Table) Variant() Variant { return t.variant }

func (t Table) Spans() []Span {
	out := make([]Span, len(t.spans))
	copy(out, t.spans[:])
	return out
}

// SpanOf returns the span for a window. Anytime has no span.
func (t Table) SpanOf(w model.Window) (Span, bool) {
	for _, s := range t.spans {
		if s.Window == w {
			return s, true
		}
	}
	return Span{}, false
}

func (t Table) indexAt(hour int) int {
	hour = ((hour % 24) + 24) % 24
	for i, s := range t.spans {
		if s.contains(hour) {
			return i
		}
	}
	// Unreachable: the spans partition the day.
	return len(t.spans) - 1
}

// WindowAtHour maps an hour of day through the table.
func (t Table) WindowAtHour(hour int) model.Window {
	return t.spans[t.indexAt(hour)].Window
}

// CurrentWindow classifies a local time. A time exactly on a boundary
// belongs to the window that starts there.
func (t Table) CurrentWindow(now time.Time) Span {
	return t.spans[t.indexAt(now.Hour())]
}

// NextWindow returns the window after the current one and the instant it
// starts, which may be on the following calendar day.
func (t Table) NextWindow(now time.Time) (Span, time.Time) {
	i := t.indexAt(now.Hour())
	cur := t.spans[i]
	y, m, d := now.Date()
	start := time.Date(y, m, d, cur.EndHour, 0, 0, 0, now.Location())
	if !start.After(now) {
		start = time.Date(y, m, d+1, cur.EndHour, 0, 0, 0, now.Location())
	}
	return t.spans[(i+1)%len(t.spans)], start
}

// Boundary is the instant a window begins.
type Boundary struct {
	At     time.Time
	Window model.Window
}

// Boundaries lists the window starts on the calendar day of day, in clock
// order, in day's location.
func (t Table) Boundaries(day time.Time) []Boundary {
	y, m, d := day.Date()
	out := make([]Boundary, 0, len(t.spans))
	for _, s := range t.spans {
		out = append(out, Boundary{
			At:     time.Date(y, m, d, s.StartHour, 0, 0, 0, day.Location()),
			Window: s.Window,
		})
	}
	return out
}
