package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	domainmodel "github.com/sandeepkv93/vitalday/internal/model"
	"github.com/sandeepkv93/vitalday/internal/scheduler"
	"go.uber.org/zap"
)

const tickInterval = 30 * time.Second

// scheduleDay replaces queued engine events with the boundaries and task
// nudges of the loaded day. Task nudges are left out when reminders are off.
func (m *Model) scheduleDay() {
	if m.scheduler == nil {
		return
	}
	var tasks []domainmodel.Task
	if m.reminders {
		tasks = m.Tasks
	}
	n, err := m.scheduler.ScheduleDay(m.Table, m.now(), tasks, m.reminderLead)
	if err != nil {
		m.logger.Warn("scheduling day events failed", zap.Error(err))
		return
	}
	m.logger.Debug("day events scheduled", zap.Int("events", n), zap.String("date", domainmodel.DateKey(m.Day)))
}

func (m Model) onSchedulerEvent(ev scheduler.Event) Model {
	switch ev.Kind {
	case scheduler.KindWindow:
		m.Cursor = 0
		m.rebuild()
		text := fmt.Sprintf("%s window started", m.Plan.Current.Label())
		m.Status = StatusBar{Text: text}
		m.notify("Window", text, "info")
		m.logger.Info("window changed", zap.String("window", string(m.Plan.Current.Window)))
	case scheduler.KindTask:
		idx := m.taskIndex(ev.TaskID)
		if idx < 0 || m.Tasks[idx].State != domainmodel.StatePending {
			return m
		}
		task := m.Tasks[idx]
		text := fmt.Sprintf("%s at %s", task.Title, task.Scheduled)
		m.Status = StatusBar{Text: "reminder: " + text}
		m.notify("Reminder", text, "info")
	}
	return m
}

func (m Model) onTick(at time.Time) (Model, tea.Cmd) {
	if domainmodel.DateKey(at) != domainmodel.DateKey(m.Day) {
		return m, tea.Batch(loadDayCmd(m.store, at, m.logger), tickCmd())
	}
	m.rebuild()
	return m, tickCmd()
}

func waitForEventCmd(ch <-chan scheduler.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return SchedulerEventMsg{Event: ev}
	}
}

func waitForReloadCmd(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return CatalogReloadedMsg{}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg{At: t} })
}
