package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/vitalday/internal/commands"
	domainmodel "github.com/sandeepkv93/vitalday/internal/model"
	"github.com/sandeepkv93/vitalday/internal/tracker"
	"github.com/sandeepkv93/vitalday/internal/views"
	"go.uber.org/zap"
)

const storeTimeout = 5 * time.Second

func (m Model) visible() []domainmodel.Task {
	return m.Plan.Visible(!m.ShowAll)
}

// rebuild re-plans against the current clock and keeps the cursor index,
// so checking off the top task moves the selection to the next one.
func (m *Model) rebuild() {
	m.Plan = m.Table.Build(m.now(), m.Tasks)
	m.Progress = tracker.Summarize(m.Tasks)
	visible := m.visible()
	if m.Cursor >= len(visible) {
		m.Cursor = len(visible) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	m.SelectedTaskID = ""
	if len(visible) > 0 {
		m.SelectedTaskID = visible[m.Cursor].ID
	}
	m.syncBubbleData()
}

func (m *Model) syncBubbleData() {
	visible := m.visible()
	items := make([]list.Item, 0, len(visible))
	for _, task := range visible {
		row := m.rowData(task)
		items = append(items, listItem{title: views.RenderTaskRow(row), description: views.TaskRowDescription(row)})
	}
	m.taskList.SetItems(items)
	if len(items) > 0 {
		m.taskList.Select(m.Cursor)
	}
}

func (m Model) rowData(task domainmodel.Task) views.TaskRowData {
	return views.TaskRowData{
		ID:       task.ID,
		Title:    task.Title,
		Time:     timeLabel(task.Scheduled),
		Window:   string(m.Table.WindowOf(task)),
		Pillar:   string(task.Pillar),
		State:    string(task.State),
		Reason:   string(task.SkipReason),
		Duration: task.DurationMinutes,
	}
}

func timeLabel(st domainmodel.ScheduledTime) string {
	if st.Kind() == domainmodel.TimeExplicit {
		return st.String()
	}
	return ""
}

func (m Model) handleTodayKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case m.Keys.Down, "down":
		if m.Cursor < len(m.visible())-1 {
			m.Cursor++
		}
		m.rebuild()
	case m.Keys.Up, "up":
		if m.Cursor > 0 {
			m.Cursor--
		}
		m.rebuild()
	case m.Keys.ToggleView:
		m.ShowAll = !m.ShowAll
		m.Cursor = 0
		m.rebuild()
		if m.ShowAll {
			m.Status = StatusBar{Text: "showing all tasks today"}
		} else {
			m.Status = StatusBar{Text: fmt.Sprintf("showing %s window", strings.ToLower(m.Plan.Current.Label()))}
		}
	case m.Keys.Complete:
		return m.applyAction(m.SelectedTaskID, domainmodel.ActionComplete, domainmodel.SkipNone)
	case m.Keys.Skip:
		return m.applyAction(m.SelectedTaskID, domainmodel.ActionSkip, domainmodel.SkipOther)
	case m.Keys.Undo:
		return m.applyAction(m.SelectedTaskID, domainmodel.ActionUndo, domainmodel.SkipNone)
	case m.Keys.Reload:
		m.Status = StatusBar{Text: "reloading day"}
		return m, loadDayCmd(m.store, m.now(), m.logger)
	}
	return m, nil
}

// applyAction updates the task in place right away and persists in the
// background; TransitionResultMsg reverts it if the write fails.
func (m Model) applyAction(id string, action domainmodel.Action, reason domainmodel.SkipReason) (Model, tea.Cmd) {
	if id == "" {
		m.Status = StatusBar{Text: "no task selected", IsError: true}
		return m, nil
	}
	idx := m.taskIndex(id)
	if idx < 0 {
		m.Status = StatusBar{Text: fmt.Sprintf("unknown task: %s", id), IsError: true}
		return m, nil
	}
	prev := m.Tasks[idx]
	if m.inflight[id] {
		m.Status = StatusBar{Text: fmt.Sprintf("still saving %s, try again in a moment", prev.Title), IsError: true}
		return m, nil
	}
	next, tr, err := prev.Apply(action, reason)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	if !tr.Changed {
		m.Status = StatusBar{Text: fmt.Sprintf("%s is already %s", prev.Title, prev.State)}
		return m, nil
	}

	m.setTask(idx, next)
	m.rebuild()
	m.Status = StatusBar{Text: fmt.Sprintf("%s: %s", actionVerb(action), prev.Title)}
	if m.store == nil {
		return m, nil
	}
	m.markInflight(id, true)
	return m, persistCmd(m.store, m.Day, prev, next.State, action, reason)
}

// setTask replaces one task without mutating the slice shared with earlier
// copies of the model.
func (m *Model) setTask(idx int, task domainmodel.Task) {
	tasks := make([]domainmodel.Task, len(m.Tasks))
	copy(tasks, m.Tasks)
	tasks[idx] = task
	m.Tasks = tasks
}

func (m Model) taskIndex(id string) int {
	for i, task := range m.Tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

// markInflight copies the set so earlier model values keep their view.
func (m *Model) markInflight(id string, on bool) {
	next := make(map[string]bool, len(m.inflight)+1)
	for k := range m.inflight {
		next[k] = true
	}
	if on {
		next[id] = true
	} else {
		delete(next, id)
	}
	m.inflight = next
}

// onTransitionResult settles the one write in flight for a task. Actions on
// that task are refused until it lands, so results never race each other.
func (m Model) onTransitionResult(msg TransitionResultMsg) (Model, tea.Cmd) {
	m.markInflight(msg.Prev.ID, false)
	idx := m.taskIndex(msg.Prev.ID)
	if idx < 0 || m.Tasks[idx].State != msg.Want {
		// The day was reloaded under this write.
		return m, nil
	}
	if msg.Err != nil {
		m.setTask(idx, msg.Prev)
		m.rebuild()
		m.LastError = msg.Err
		text := fmt.Sprintf("could not save %s: %v", msg.Prev.Title, msg.Err)
		if tracker.IsRetryable(msg.Err) {
			text += " (press again to retry)"
		}
		m.Status = StatusBar{Text: text, IsError: true}
		m.notify("Save failed", text, "error")
		m.logger.Warn("completion reverted", zap.String("task", msg.Prev.ID), zap.Error(msg.Err))
		return m, nil
	}
	m.setTask(idx, msg.Task)
	m.rebuild()
	if msg.Transition.From == domainmodel.StateCompleted || msg.Transition.To == domainmodel.StateCompleted {
		return m, streakCmd(m.store, m.Day)
	}
	return m, nil
}

// resolveTarget accepts a 1-based position in the visible list, a full
// task id or an unambiguous id suffix.
func (m Model) resolveTarget(target string) (domainmodel.Task, error) {
	return commands.Resolve(m.visible(), m.Tasks, target)
}

func (m Model) onDayLoaded(msg DayLoadedMsg) Model {
	if msg.Err != nil {
		m.LastError = msg.Err
		m.Status = StatusBar{Text: fmt.Sprintf("could not load day: %v", msg.Err), IsError: true}
		return m
	}
	sameDay := domainmodel.DateKey(msg.Day) == domainmodel.DateKey(m.Day)
	if !sameDay {
		m.Cursor = 0
	}
	tasks := msg.Tasks
	if sameDay && len(m.inflight) > 0 {
		// A load can read the store before a pending write lands.
		tasks = make([]domainmodel.Task, len(msg.Tasks))
		copy(tasks, msg.Tasks)
		for i, task := range tasks {
			if j := m.taskIndex(task.ID); j >= 0 && m.inflight[task.ID] {
				tasks[i] = m.Tasks[j]
			}
		}
	}
	m.Day = msg.Day
	m.Tasks = tasks
	m.Streak = msg.Streak
	m.rebuild()
	m.scheduleDay()
	m.Status = StatusBar{Text: fmt.Sprintf("%d task(s) for %s", len(m.Tasks), domainmodel.DateKey(m.Day))}
	return m
}

func loadDayCmd(store DayStore, day time.Time, logger *zap.Logger) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		tasks, err := store.LoadDay(ctx, day)
		if err != nil {
			return DayLoadedMsg{Day: day, Err: err}
		}
		streak, err := store.Streak(ctx, day)
		if err != nil {
			logger.Warn("streak unavailable", zap.Error(err))
		}
		return DayLoadedMsg{Day: day, Tasks: tasks, Streak: streak}
	}
}

func persistCmd(store DayStore, day time.Time, prev domainmodel.Task, want domainmodel.CompletionState, action domainmodel.Action, reason domainmodel.SkipReason) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		task, tr, err := store.Apply(ctx, day, prev.ID, action, reason)
		return TransitionResultMsg{Prev: prev, Want: want, Task: task, Transition: tr, Err: err}
	}
}

func streakCmd(store DayStore, day time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		n, err := store.Streak(ctx, day)
		return StreakMsg{Streak: n, Err: err}
	}
}

func actionVerb(a domainmodel.Action) string {
	switch a {
	case domainmodel.ActionComplete:
		return "completed"
	case domainmodel.ActionSkip:
		return "skipped"
	case domainmodel.ActionUndo:
		return "reopened"
	default:
		return string(a)
	}
}
