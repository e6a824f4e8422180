package model

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidWindow = errors.New("model: invalid window")

// Window is a named span of the local day. WindowAnytime is not a span; it
// marks tasks that are eligible in every window.
type Window string

const (
	WindowMorning Window = "morning"
	WindowDay     Window = "day"
	WindowEvening Window = "evening"
	WindowNight   Window = "night"
	WindowAnytime Window = "anytime"
)

// DayWindows lists the windows that partition the day, in clock order
// starting at the morning boundary.
var DayWindows = []Window{WindowMorning, WindowDay, WindowEvening, WindowNight}

func (w Window) IsValid() bool {
	switch w {
	case WindowMorning, WindowDay, WindowEvening, WindowNight, WindowAnytime:
		return true
	default:
		return false
	}
}

func (w Window) Label() string {
	switch w {
	case WindowMorning:
		return "Morning"
	case WindowDay:
		return "Day"
	case WindowEvening:
		return "Evening"
	case WindowNight:
		return "Night"
	case WindowAnytime:
		return "Anytime"
	default:
		return string(w)
	}
}

// ParseWindow accepts the symbolic tags used by catalogs, including the
// "midday" alias for WindowDay.
func ParseWindow(raw string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "morning":
		return WindowMorning, nil
	case "day", "midday":
		return WindowDay, nil
	case "evening":
		return WindowEvening, nil
	case "night":
		return WindowNight, nil
	case "anytime":
		return WindowAnytime, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidWindow, raw)
	}
}
