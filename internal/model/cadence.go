package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

type CadenceType string

const (
	CadenceDaily          CadenceType = "daily"
	CadenceWeekdays       CadenceType = "weekdays"
	CadenceEveryNDays     CadenceType = "every_n_days"
	CadenceEveryNWeeks    CadenceType = "every_n_weeks"
	CadenceLastDayOfMonth CadenceType = "last_day_of_month"
)

var (
	ErrInvalidCadenceType = errors.New("model: invalid cadence type")
	ErrInvalidInterval    = errors.New("model: invalid cadence interval")
)

// Cadence decides on which calendar days a task template is materialized.
// Dates are compared as civil dates; the clock part is ignored.
type Cadence struct {
	Type     CadenceType
	Interval int
	Anchor   time.Time
	Weekdays []time.Weekday
}

// DailyCadence is what templates without an explicit cadence get.
func DailyCadence() Cadence {
	return Cadence{Type: CadenceDaily, Interval: 1}
}

func ParseCadenceType(raw string) (CadenceType, error) {
	t := CadenceType(strings.ToLower(strings.TrimSpace(raw)))
	if t == "" {
		return CadenceDaily, nil
	}
	switch t {
	case CadenceDaily, CadenceWeekdays, CadenceEveryNDays, CadenceEveryNWeeks, CadenceLastDayOfMonth:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCadenceType, raw)
	}
}

func (c Cadence) Validate() error {
	switch c.Type {
	case CadenceDaily, CadenceWeekdays, CadenceLastDayOfMonth:
	case CadenceEveryNDays, CadenceEveryNWeeks:
		if c.Anchor.IsZero() {
			return errors.New("model: cadence anchor is required")
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCadenceType, c.Type)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidInterval, c.Interval)
	}
	if c.Type == CadenceWeekdays && len(c.Weekdays) > 0 {
		s := make([]int, 0, len(c.Weekdays))
		for _, d := range c.Weekdays {
			s = append(s, int(d))
		}
		sort.Ints(s)
		for i := 1; i < len(s); i++ {
			if s[i] == s[i-1] {
				return errors.New("model: duplicate weekday in cadence")
			}
		}
	}
	return nil
}

// OccursOn reports whether the template is due on the civil date of day.
// An invalid cadence never occurs.
func (c Cadence) OccursOn(day time.Time) bool {
	if c.Validate() != nil {
		return false
	}
	d := civilDate(day)
	switch c.Type {
	case CadenceDaily:
		return true
	case CadenceWeekdays:
		return c.allowedWeekdays()[d.Weekday()]
	case CadenceEveryNDays:
		return c.onStep(d, c.Interval)
	case CadenceEveryNWeeks:
		return c.onStep(d, c.Interval*7)
	case CadenceLastDayOfMonth:
		return d.AddDate(0, 0, 1).Day() == 1
	default:
		return false
	}
}

// Next returns the first civil date strictly after from on which the
// template occurs.
func (c Cadence) Next(from time.Time) (time.Time, error) {
	if err := c.Validate(); err != nil {
		return time.Time{}, err
	}
	probe := civilDate(from).AddDate(0, 0, 1)
	// Longest gap is an every_n_weeks interval; the loop is bounded by it.
	limit := c.Interval*7 + 62
	for i := 0; i < limit; i++ {
		if c.OccursOn(probe) {
			return probe, nil
		}
		probe = probe.AddDate(0, 0, 1)
	}
	return time.Time{}, fmt.Errorf("model: no occurrence within %d days", limit)
}

func (c Cadence) Preview(from time.Time, count int) ([]time.Time, error) {
	if count <= 0 {
		return []time.Time{}, nil
	}
	out := make([]time.Time, 0, count)
	cursor := from
	for i := 0; i < count; i++ {
		next, err := c.Next(cursor)
		if err != nil {
			return nil, err
		}
		out = append(out, next)
		cursor = next
	}
	return out, nil
}

func (c Cadence) onStep(d time.Time, stepDays int) bool {
	anchor := civilDate(c.Anchor)
	if d.Before(anchor) {
		return false
	}
	return DaysBetween(anchor, d)%stepDays == 0
}

func (c Cadence) allowedWeekdays() map[time.Weekday]bool {
	if len(c.Weekdays) > 0 {
		m := make(map[time.Weekday]bool, len(c.Weekdays))
		for _, w := range c.Weekdays {
			m[w] = true
		}
		return m
	}
	return map[time.Weekday]bool{
		time.Monday:    true,
		time.Tuesday:   true,
		time.Wednesday: true,
		time.Thursday:  true,
		time.Friday:    true,
	}
}

// DaysBetween counts civil days from a to b, ignoring DST shifts.
func DaysBetween(a, b time.Time) int {
	return int(civilDate(b).Sub(civilDate(a)).Hours() / 24)
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey formats the civil date used to scope completion state.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
