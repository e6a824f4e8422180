package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformedTime = errors.New("model: malformed scheduled time")

type TimeKind uint8

const (
	TimeUnset TimeKind = iota
	TimeExplicit
	TimeSymbolic
)

// ScheduledTime is resolved once when a task is normalized: either an
// explicit clock time, a symbolic window tag, or nothing.
type ScheduledTime struct {
	kind   TimeKind
	hour   int
	minute int
	tag    Window
}

func Explicit(hour, minute int) ScheduledTime {
	return ScheduledTime{kind: TimeExplicit, hour: hour, minute: minute}
}

func Symbolic(w Window) ScheduledTime {
	return ScheduledTime{kind: TimeSymbolic, tag: w}
}

func Unset() ScheduledTime {
	return ScheduledTime{}
}

// ParseScheduledTime reads "HH:MM", "H:MM", "HH:MM:SS" or a window tag.
// An empty string is Unset without error.
func ParseScheduledTime(raw string) (ScheduledTime, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Unset(), nil
	}
	if !strings.Contains(s, ":") {
		w, err := ParseWindow(s)
		if err != nil {
			return Unset(), fmt.Errorf("%w: %q", ErrMalformedTime, raw)
		}
		return Symbolic(w), nil
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Unset(), fmt.Errorf("%w: %q", ErrMalformedTime, raw)
	}
	hour, err := clockField(parts[0], 1, 23)
	if err != nil {
		return Unset(), fmt.Errorf("%w: %q", ErrMalformedTime, raw)
	}
	minute, err := clockField(parts[1], 2, 59)
	if err != nil {
		return Unset(), fmt.Errorf("%w: %q", ErrMalformedTime, raw)
	}
	if len(parts) == 3 {
		if _, err := clockField(parts[2], 2, 59); err != nil {
			return Unset(), fmt.Errorf("%w: %q", ErrMalformedTime, raw)
		}
	}
	return Explicit(hour, minute), nil
}

// ScheduledTimeOf is the fail-open form of ParseScheduledTime: anything
// unparseable becomes Unset.
func ScheduledTimeOf(raw string) ScheduledTime {
	st, err := ParseScheduledTime(raw)
	if err != nil {
		return Unset()
	}
	return st
}

func clockField(s string, minDigits, max int) (int, error) {
	if len(s) < minDigits || len(s) > 2 {
		return 0, strconv.ErrSyntax
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v > max {
		return 0, strconv.ErrRange
	}
	return v, nil
}

func (s ScheduledTime) Kind() TimeKind { return s.kind }

func (s ScheduledTime) IsSet() bool { return s.kind != TimeUnset }

func (s ScheduledTime) Clock() (hour, minute int, ok bool) {
	if s.kind != TimeExplicit {
		return 0, 0, false
	}
	return s.hour, s.minute, true
}

func (s ScheduledTime) MinuteOfDay() (int, bool) {
	if s.kind != TimeExplicit {
		return 0, false
	}
	return s.hour*60 + s.minute, true
}

func (s ScheduledTime) Tag() (Window, bool) {
	if s.kind != TimeSymbolic {
		return "", false
	}
	return s.tag, true
}

func (s ScheduledTime) String() string {
	switch s.kind {
	case TimeExplicit:
		return fmt.Sprintf("%02d:%02d", s.hour, s.minute)
	case TimeSymbolic:
		return string(s.tag)
	default:
		return ""
	}
}
