package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidState      = errors.New("model: invalid completion state")
	ErrInvalidPillar     = errors.New("model: invalid pillar")
	ErrInvalidSkipReason = errors.New("model: invalid skip reason")
	ErrInvalidTransition = errors.New("model: invalid state transition")
)

type CompletionState string

const (
	StatePending   CompletionState = "pending"
	StateCompleted CompletionState = "completed"
	StateSkipped   CompletionState = "skipped"
)

func (s CompletionState) IsValid() bool {
	switch s {
	case StatePending, StateCompleted, StateSkipped:
		return true
	default:
		return false
	}
}

// Done reports whether the task left the pending state for the day.
func (s CompletionState) Done() bool {
	return s == StateCompleted || s == StateSkipped
}

type Pillar string

const (
	PillarSleep       Pillar = "sleep"
	PillarNutrition   Pillar = "nutrition"
	PillarMovement    Pillar = "movement"
	PillarStress      Pillar = "stress"
	PillarMindfulness Pillar = "mindfulness"
	PillarSupplements Pillar = "supplements"
	PillarConnection  Pillar = "connection"
	PillarEnvironment Pillar = "environment"
	PillarOther       Pillar = "other"
)

var Pillars = []Pillar{
	PillarSleep, PillarNutrition, PillarMovement, PillarStress, PillarMindfulness,
	PillarSupplements, PillarConnection, PillarEnvironment, PillarOther,
}

func (p Pillar) IsValid() bool {
	for _, known := range Pillars {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePillar maps unknown or empty values to PillarOther.
func ParsePillar(raw string) Pillar {
	p := Pillar(strings.ToLower(strings.TrimSpace(raw)))
	if p.IsValid() {
		return p
	}
	return PillarOther
}

type SkipReason string

const (
	SkipNone           SkipReason = ""
	SkipTooBusy        SkipReason = "too_busy"
	SkipNotFeelingWell SkipReason = "not_feeling_well"
	SkipTraveling      SkipReason = "traveling"
	SkipNotRelevant    SkipReason = "not_relevant"
	SkipOther          SkipReason = "other"
)

func (r SkipReason) IsValid() bool {
	switch r {
	case SkipNone, SkipTooBusy, SkipNotFeelingWell, SkipTraveling, SkipNotRelevant, SkipOther:
		return true
	default:
		return false
	}
}

// Task is the normalized daily task every component works with.
type Task struct {
	ID              string
	Title           string
	Pillar          Pillar
	Scheduled       ScheduledTime
	DurationMinutes int
	State           CompletionState
	SkipReason      SkipReason
	Notes           string
	Origin          string
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if !t.Pillar.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPillar, t.Pillar)
	}
	if !t.State.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidState, t.State)
	}
	if !t.SkipReason.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidSkipReason, t.SkipReason)
	}
	if t.DurationMinutes < 0 {
		return errors.New("model: duration_minutes must not be negative")
	}
	if t.State != StateSkipped && t.SkipReason != SkipNone {
		return errors.New("model: skip reason set on a task that is not skipped")
	}
	return nil
}

type Action string

const (
	ActionComplete Action = "complete"
	ActionSkip     Action = "skip"
	ActionUndo     Action = "undo"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionComplete, ActionSkip, ActionUndo:
		return true
	default:
		return false
	}
}

// Transition records one application of an Action. Changed is false when the
// action was a repeat of the current state.
type Transition struct {
	TaskID  string
	Action  Action
	From    CompletionState
	To      CompletionState
	Reason  SkipReason
	Changed bool
}

// Apply runs the completion state machine:
//
//	pending -> completed | skipped(reason)
//	completed | skipped -> pending (undo)
//
// Repeating the current state is a no-op. completed <-> skipped must go
// through undo.
func (t Task) Apply(action Action, reason SkipReason) (Task, Transition, error) {
	tr := Transition{TaskID: t.ID, Action: action, From: t.State, To: t.State}
	if !reason.IsValid() {
		return t, tr, fmt.Errorf("%w: %q", ErrInvalidSkipReason, reason)
	}

	switch action {
	case ActionComplete:
		switch t.State {
		case StateCompleted:
			return t, tr, nil
		case StateSkipped:
			return t, tr, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.State, StateCompleted)
		}
		t.State = StateCompleted
		t.SkipReason = SkipNone
	case ActionSkip:
		switch t.State {
		case StateSkipped:
			tr.Reason = t.SkipReason
			return t, tr, nil
		case StateCompleted:
			return t, tr, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.State, StateSkipped)
		}
		t.State = StateSkipped
		t.SkipReason = reason
		tr.Reason = reason
	case ActionUndo:
		if t.State == StatePending {
			return t, tr, nil
		}
		t.State = StatePending
		t.SkipReason = SkipNone
	default:
		return t, tr, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}

	tr.To = t.State
	tr.Changed = true
	return t, tr, nil
}

func (t Task) Complete() (Task, Transition, error) { return t.Apply(ActionComplete, SkipNone) }

func (t Task) Skip(reason SkipReason) (Task, Transition, error) { return t.Apply(ActionSkip, reason) }

func (t Task) Undo() (Task, Transition, error) { return t.Apply(ActionUndo, SkipNone) }
