package views

import (
	"fmt"
	"strings"
)

// EmptyFocusText is shown when the current window has nothing to do.
const EmptyFocusText = "no tasks in this window, active recovery"

type TaskRowData struct {
	ID       string
	Title    string
	Time     string
	Window   string
	Pillar   string
	State    string
	Reason   string
	Duration int
}

type TodayPanelData struct {
	Date        string
	Window      string
	WindowLabel string
	NextLabel   string
	NextIn      string
	ShowAll     bool
	Rows        []TaskRowData
	SelectedID  string
	ListView    string
}

type PillarRowData struct {
	Pillar    string
	Completed int
	Total     int
}

type ProgressPanelData struct {
	Percent          int
	BarView          string
	Completed        int
	Skipped          int
	Pending          int
	Total            int
	MinutesCompleted int
	MinutesPlanned   int
	Streak           int
	Pillars          []PillarRowData
}

type TaskDetailData struct {
	ID           string
	Title        string
	Origin       string
	Pillar       string
	Time         string
	Window       string
	Duration     int
	State        string
	Reason       string
	NotesPreview string
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

type NotificationData struct {
	Level string
	Title string
	Body  string
	At    string
}

func RenderTodayPanel(data TodayPanelData) string {
	var b strings.Builder
	scope := "focus"
	if data.ShowAll {
		scope = "all"
	}
	b.WriteString(fmt.Sprintf("%s | now: %s | view: %s\n", data.Date, WindowBadge(data.Window, data.WindowLabel), scope))
	if data.NextLabel != "" {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("next: %s in %s", data.NextLabel, data.NextIn)) + "\n")
	}
	b.WriteString("\n")

	if len(data.Rows) == 0 {
		if data.ShowAll {
			b.WriteString("(no tasks today)")
		} else {
			b.WriteString(EmptyFocusText)
		}
		return b.String()
	}
	if data.ListView != "" {
		b.WriteString(data.ListView)
		return strings.TrimRight(b.String(), "\n")
	}
	for i, row := range data.Rows {
		cursor := " "
		if row.ID == data.SelectedID {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %2d. %s\n", cursor, i+1, RenderTaskRow(row)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderTaskRow is the one-line form shared by the TUI list and the CLI.
func RenderTaskRow(row TaskRowData) string {
	when := row.Time
	if when == "" {
		when = "--:--"
	}
	line := fmt.Sprintf("%s %s %s", stateMark(row.State), when, row.Title)
	if row.Duration > 0 {
		line += fmt.Sprintf(" (%dm)", row.Duration)
	}
	if row.State == "skipped" && row.Reason != "" {
		line += " skipped: " + row.Reason
	}
	if row.State == "completed" || row.State == "skipped" {
		return doneStyle.Render(line)
	}
	return line
}

// TaskRowDescription is the secondary list line.
func TaskRowDescription(row TaskRowData) string {
	parts := []string{row.Pillar, row.Window}
	if row.State == "skipped" && row.Reason != "" {
		parts = append(parts, "skipped: "+row.Reason)
	}
	return strings.Join(parts, " | ")
}

func stateMark(state string) string {
	switch state {
	case "completed":
		return "[x]"
	case "skipped":
		return "[-]"
	default:
		return "[ ]"
	}
}

func RenderProgressPanel(data ProgressPanelData) string {
	var b strings.Builder
	b.WriteString("progress:\n")
	bar := data.BarView
	if bar == "" {
		bar = TextBar(float64(data.Percent)/100, 20)
	}
	b.WriteString(fmt.Sprintf("%s %d%%\n", bar, data.Percent))
	b.WriteString(fmt.Sprintf("done %d | skipped %d | open %d | total %d\n", data.Completed, data.Skipped, data.Pending, data.Total))
	b.WriteString(fmt.Sprintf("minutes: %d/%d\n", data.MinutesCompleted, data.MinutesPlanned))
	b.WriteString(fmt.Sprintf("streak: %d day(s)\n", data.Streak))
	if len(data.Pillars) > 0 {
		b.WriteString("\npillars:\n")
		for _, p := range data.Pillars {
			ratio := 0.0
			if p.Total > 0 {
				ratio = float64(p.Completed) / float64(p.Total)
			}
			b.WriteString(fmt.Sprintf("%-12s %s %d/%d\n", p.Pillar, TextBar(ratio, 10), p.Completed, p.Total))
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderTaskDetail(data TaskDetailData) string {
	if strings.TrimSpace(data.ID) == "" {
		return "task:\n(no selection)"
	}
	var b strings.Builder
	b.WriteString("task:\n")
	b.WriteString(fmt.Sprintf("id: %s\n", data.ID))
	b.WriteString(fmt.Sprintf("title: %s\n", data.Title))
	if data.Origin != "" {
		b.WriteString(fmt.Sprintf("from: %s\n", data.Origin))
	}
	b.WriteString(fmt.Sprintf("pillar: %s | window: %s\n", data.Pillar, data.Window))
	if data.Time != "" {
		b.WriteString(fmt.Sprintf("time: %s\n", data.Time))
	}
	if data.Duration > 0 {
		b.WriteString(fmt.Sprintf("duration: %dm\n", data.Duration))
	}
	state := data.State
	if data.Reason != "" {
		state += " (" + data.Reason + ")"
	}
	b.WriteString("state: " + state + "\n")
	if data.NotesPreview != "" {
		b.WriteString("\n" + data.NotesPreview + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command: " + inputView
}

func RenderNotification(n NotificationData) string {
	if strings.TrimSpace(n.Body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s %s: %s", strings.ToUpper(n.Level), n.At, n.Title, n.Body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s\n%s", strings.Join(data.Bindings, "\n"), data.HelpView)
}

// TextBar draws a fixed-width ASCII bar for ratio in [0,1].
func TextBar(ratio float64, width int) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
