package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/vitalday/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{loadDayCmd(m.store, m.now(), m.logger), tickCmd()}
	if m.scheduler != nil {
		cmds = append(cmds, waitForEventCmd(m.scheduler.C()))
	}
	if m.reloads != nil {
		cmds = append(cmds, waitForReloadCmd(m.reloads))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		switch typed.String() {
		case m.Keys.Palette:
			return m.openPalette(), nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		return m.handleTodayKey(typed)
	case tea.WindowSizeMsg:
		height := typed.Height - 12
		if height < 6 {
			height = 6
		}
		m.taskList.SetSize(56, height)
		m.listSized = true
		m.syncBubbleData()
		return m, nil
	case DayLoadedMsg:
		return m.onDayLoaded(typed), nil
	case TransitionResultMsg:
		return m.onTransitionResult(typed)
	case StreakMsg:
		if typed.Err == nil {
			m.Streak = typed.Streak
		}
		return m, nil
	case SchedulerEventMsg:
		m = m.onSchedulerEvent(typed.Event)
		if m.scheduler == nil {
			return m, nil
		}
		return m, waitForEventCmd(m.scheduler.C())
	case CatalogReloadedMsg:
		m.notify("Catalog", "catalog changed, reloading", "info")
		cmds := []tea.Cmd{loadDayCmd(m.store, m.now(), m.logger)}
		if m.reloads != nil {
			cmds = append(cmds, waitForReloadCmd(m.reloads))
		}
		return m, tea.Batch(cmds...)
	case TickMsg:
		return m.onTick(typed.At)
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	right := m.renderProgressPanel() + "\n\n" + m.renderTaskDetail()
	if p := views.RenderCommandPalette(m.Palette.Active, m.commandInput.View()); p != "" {
		right += "\n\n" + p
	}
	if h := m.renderHelpIfVisible(); h != "" {
		right += "\n\n" + h
	}
	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("vitalday | %s | %s", m.User, views.WindowBadge(string(m.Plan.Current.Window), m.Plan.Current.Label())),
		LeftPane:     m.renderTodayPanel(),
		RightPane:    right,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: m.renderNotificationsView(),
		Footer: fmt.Sprintf("keys: %s focus/all | %s/%s move | %s done | %s skip | %s undo | %s cmd | %s help | %s quit",
			m.Keys.ToggleView, m.Keys.Down, m.Keys.Up, m.Keys.Complete, m.Keys.Skip, m.Keys.Undo, m.Keys.Palette, m.Keys.Help, m.Keys.Quit),
	})
}
