package views

import (
	"strings"
	"testing"
)

func TestRenderTodayPanelEmptyFocus(t *testing.T) {
	out := RenderTodayPanel(TodayPanelData{Date: "2026-10-16", Window: "evening", WindowLabel: "Evening"})
	if !strings.Contains(out, EmptyFocusText) {
		t.Fatalf("expected empty focus text, got:\n%s", out)
	}

	out = RenderTodayPanel(TodayPanelData{Date: "2026-10-16", Window: "evening", WindowLabel: "Evening", ShowAll: true})
	if strings.Contains(out, EmptyFocusText) || !strings.Contains(out, "no tasks today") {
		t.Fatalf("unexpected all-day empty text:\n%s", out)
	}
}

func TestRenderTodayPanelRows(t *testing.T) {
	out := RenderTodayPanel(TodayPanelData{
		Date:        "2026-10-16",
		Window:      "morning",
		WindowLabel: "Morning",
		NextLabel:   "Day",
		NextIn:      "3h0m",
		Rows: []TaskRowData{
			{ID: "a", Title: "Sunlight", Time: "07:30", State: "pending", Duration: 10},
			{ID: "b", Title: "Stretch", State: "completed"},
		},
		SelectedID: "a",
	})
	for _, want := range []string{">  1. [ ] 07:30 Sunlight (10m)", "2. [x] --:-- Stretch", "next: Day in 3h0m"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestRenderProgressPanel(t *testing.T) {
	out := RenderProgressPanel(ProgressPanelData{
		Percent: 50, Completed: 1, Skipped: 1, Pending: 1, Total: 3, Streak: 4,
		Pillars: []PillarRowData{{Pillar: "sleep", Completed: 1, Total: 2}},
	})
	for _, want := range []string{"50%", "streak: 4 day(s)", "[#####-----] 1/2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestRenderTaskDetail(t *testing.T) {
	if out := RenderTaskDetail(TaskDetailData{}); !strings.Contains(out, "no selection") {
		t.Fatalf("unexpected empty detail: %s", out)
	}
	out := RenderTaskDetail(TaskDetailData{ID: "pack:calm:breathe", Title: "Breathe", State: "skipped", Reason: "traveling"})
	if !strings.Contains(out, "state: skipped (traveling)") {
		t.Fatalf("unexpected detail: %s", out)
	}
}

func TestTextBarClamps(t *testing.T) {
	if got := TextBar(2, 4); got != "[####]" {
		t.Fatalf("unexpected bar %q", got)
	}
	if got := TextBar(-1, 4); got != "[----]" {
		t.Fatalf("unexpected bar %q", got)
	}
}
