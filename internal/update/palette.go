package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/vitalday/internal/commands"
	domainmodel "github.com/sandeepkv93/vitalday/internal/model"
)

func (m Model) openPalette() Model {
	m.Palette.Active = true
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Focus()
	m.Status = StatusBar{Text: "command palette active"}
	return m
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
		return m, cmd
	}
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m = m.closePalette()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var follow tea.Cmd
	act := func(target string, action domainmodel.Action, reason domainmodel.SkipReason) (commands.Result, error) {
		task, err := m.resolveTarget(target)
		if err != nil {
			return commands.Result{}, err
		}
		next, c := m.applyAction(task.ID, action, reason)
		if next.Status.IsError {
			return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: next.Status.Text}
		}
		m, follow = next, c
		return commands.Result{Message: next.Status.Text}, nil
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Done: func(a commands.TaskArgs) (commands.Result, error) {
			return act(a.Target, domainmodel.ActionComplete, domainmodel.SkipNone)
		},
		Skip: func(a commands.SkipArgs) (commands.Result, error) {
			return act(a.Target, domainmodel.ActionSkip, a.Reason)
		},
		Undo: func(a commands.TaskArgs) (commands.Result, error) {
			return act(a.Target, domainmodel.ActionUndo, domainmodel.SkipNone)
		},
		Show: func(a commands.ShowArgs) (commands.Result, error) {
			m.ShowAll = !a.Focus
			m.Cursor = 0
			m.rebuild()
			if a.Focus {
				return commands.Result{Message: fmt.Sprintf("showing %s window", strings.ToLower(m.Plan.Current.Label()))}, nil
			}
			return commands.Result{Message: "showing all tasks today"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command failed", err.Error(), "error")
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	return m, follow
}
