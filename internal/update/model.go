package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	domainmodel "github.com/sandeepkv93/vitalday/internal/model"
	"github.com/sandeepkv93/vitalday/internal/planner"
	"github.com/sandeepkv93/vitalday/internal/scheduler"
	"github.com/sandeepkv93/vitalday/internal/tracker"
	"go.uber.org/zap"
)

// DayStore is the slice of *tracker.Tracker the TUI needs.
type DayStore interface {
	LoadDay(ctx context.Context, day time.Time) ([]domainmodel.Task, error)
	Apply(ctx context.Context, day time.Time, id string, action domainmodel.Action, reason domainmodel.SkipReason) (domainmodel.Task, domainmodel.Transition, error)
	Streak(ctx context.Context, asOf time.Time) (int, error)
}

type StatusBar struct {
	Text    string
	IsError bool
}

type KeyMap struct {
	ToggleView string
	Up         string
	Down       string
	Complete   string
	Skip       string
	Undo       string
	Reload     string
	Palette    string
	Help       string
	Quit       string
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		ToggleView: "f",
		Up:         "k",
		Down:       "j",
		Complete:   "c",
		Skip:       "s",
		Undo:       "u",
		Reload:     "r",
		Palette:    "/",
		Help:       "?",
		Quit:       "q",
	}
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Options struct {
	User         string
	Table        planner.Table
	Store        DayStore
	Scheduler    *scheduler.Engine
	Reminders    bool
	ReminderLead time.Duration
	// Reloads delivers a value whenever the catalog changed on disk.
	Reloads <-chan struct{}
	Logger  *zap.Logger
	Now     func() time.Time
}

type Model struct {
	User           string
	Table          planner.Table
	Day            time.Time
	Tasks          []domainmodel.Task
	Plan           planner.Plan
	ShowAll        bool
	Cursor         int
	SelectedTaskID string
	Progress       tracker.Progress
	Streak         int
	Palette        CommandPaletteState
	HelpVisible    bool
	Notifications  []Notification
	Status         StatusBar
	Keys           KeyMap
	Quitting       bool
	LastError      error

	store        DayStore
	scheduler    *scheduler.Engine
	reminders    bool
	reminderLead time.Duration
	reloads      <-chan struct{}
	logger       *zap.Logger
	now          func() time.Time
	// inflight holds task ids whose write has not reported back yet.
	inflight map[string]bool

	taskList     list.Model
	commandInput textinput.Model
	helpModel    help.Model
	dayProgress  progress.Model
	listSized    bool
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title + " " + i.description }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// DayLoadedMsg carries the tasks of Day with stored states applied.
type DayLoadedMsg struct {
	Day    time.Time
	Tasks  []domainmodel.Task
	Streak int
	Err    error
}

// TransitionResultMsg reports the outcome of persisting an optimistic
// change. Want is the state the UI already shows.
type TransitionResultMsg struct {
	Prev       domainmodel.Task
	Want       domainmodel.CompletionState
	Task       domainmodel.Task
	Transition domainmodel.Transition
	Err        error
}

type StreakMsg struct {
	Streak int
	Err    error
}

type SchedulerEventMsg struct {
	Event scheduler.Event
}

type CatalogReloadedMsg struct{}

type TickMsg struct {
	At time.Time
}

func NewModel(opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	table := opts.Table
	if table.Variant() == "" {
		table = planner.StandardTable()
	}
	m := Model{
		User:         opts.User,
		Table:        table,
		Day:          now(),
		Tasks:        []domainmodel.Task{},
		Keys:         DefaultKeyMap(),
		store:        opts.Store,
		scheduler:    opts.Scheduler,
		reminders:    opts.Reminders,
		reminderLead: opts.ReminderLead,
		reloads:      opts.Reloads,
		logger:       logger,
		now:          now,
		inflight:     make(map[string]bool),
	}
	m.initBubbleComponents()
	m.rebuild()
	return m
}

func (m *Model) initBubbleComponents() {
	delegate := list.NewDefaultDelegate()
	m.taskList = list.New(nil, delegate, 0, 0)
	m.taskList.SetShowTitle(false)
	m.taskList.SetShowStatusBar(false)
	m.taskList.SetShowHelp(false)
	m.taskList.SetFilteringEnabled(false)

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.Placeholder = "done 1 | skip 2 busy | undo 1 | show all"
	m.commandInput.CharLimit = 120

	m.helpModel = help.New()
	m.dayProgress = progress.New(progress.WithWidth(20), progress.WithoutPercentage())
}
