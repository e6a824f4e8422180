package update

import (
	"strings"

	"github.com/sandeepkv93/vitalday/internal/views"
)

func (m Model) renderTodayPanel() string {
	visible := m.visible()
	rows := make([]views.TaskRowData, 0, len(visible))
	for _, task := range visible {
		rows = append(rows, m.rowData(task))
	}
	data := views.TodayPanelData{
		Date:        m.Day.Format("Mon 2006-01-02"),
		Window:      string(m.Plan.Current.Window),
		WindowLabel: m.Plan.Current.Label(),
		NextLabel:   m.Plan.Next.Label(),
		NextIn:      formatUntil(m.Plan.UntilNext()),
		ShowAll:     m.ShowAll,
		Rows:        rows,
		SelectedID:  m.SelectedTaskID,
	}
	if m.listSized {
		data.ListView = m.taskList.View()
	}
	return views.RenderTodayPanel(data)
}

func (m Model) renderProgressPanel() string {
	p := m.Progress
	pillars := make([]views.PillarRowData, 0, len(p.Pillars))
	for _, pp := range p.Pillars {
		pillars = append(pillars, views.PillarRowData{Pillar: string(pp.Pillar), Completed: pp.Completed, Total: pp.Total})
	}
	return views.RenderProgressPanel(views.ProgressPanelData{
		Percent:          p.Percent,
		BarView:          m.dayProgress.ViewAs(float64(p.Percent) / 100),
		Completed:        p.Completed,
		Skipped:          p.Skipped,
		Pending:          p.Pending,
		Total:            p.Total,
		MinutesCompleted: p.MinutesCompleted,
		MinutesPlanned:   p.MinutesPlanned,
		Streak:           m.Streak,
		Pillars:          pillars,
	})
}

func (m Model) renderTaskDetail() string {
	idx := m.taskIndex(m.SelectedTaskID)
	if idx < 0 {
		return views.RenderTaskDetail(views.TaskDetailData{})
	}
	task := m.Tasks[idx]
	return views.RenderTaskDetail(views.TaskDetailData{
		ID:           task.ID,
		Title:        task.Title,
		Origin:       task.Origin,
		Pillar:       string(task.Pillar),
		Time:         task.Scheduled.String(),
		Window:       string(m.Table.WindowOf(task)),
		Duration:     task.DurationMinutes,
		State:        string(task.State),
		Reason:       string(task.SkipReason),
		NotesPreview: views.RenderMarkdown(task.Notes),
	})
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(views.NotificationData{
		Level: n.Level,
		Title: n.Title,
		Body:  n.Body,
		At:    n.At.Format("15:04"),
	})
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	m.Notifications = append(m.Notifications, Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.now(),
	})
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
}
