// Package commands parses the palette language typed in the TUI.
package commands

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/vitalday/internal/model"
)

type Type string

const (
	TypeDone Type = "done"
	TypeSkip Type = "skip"
	TypeUndo Type = "undo"
	TypeShow Type = "show"
)

var aliases = map[string]Type{
	"complete": TypeDone,
	"c":        TypeDone,
	"s":        TypeSkip,
	"u":        TypeUndo,
}

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// TaskArgs names a task by id or by 1-based position in the visible list.
type TaskArgs struct {
	Target string
}

type SkipArgs struct {
	Target string
	Reason model.SkipReason
}

type ShowArgs struct {
	// Focus is true for "show focus" and false for "show all".
	Focus bool
}

type Command struct {
	Type Type
	Raw  string
	Task *TaskArgs
	Skip *SkipArgs
	Show *ShowArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]
	typ := Type(head)
	if alias, ok := aliases[head]; ok {
		typ = alias
	}

	switch typ {
	case TypeDone, TypeUndo:
		return parseTask(input, typ, args)
	case TypeSkip:
		return parseSkip(input, args)
	case TypeShow:
		return parseShow(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseTask(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires exactly one task", typ)}
	}
	return Command{Type: typ, Raw: raw, Task: &TaskArgs{Target: args[0]}}, nil
}

func parseSkip(raw string, args []string) (Command, error) {
	if len(args) == 0 || len(args) > 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "skip requires a task and an optional reason"}
	}
	reason := model.SkipOther
	if len(args) == 2 {
		r, err := ParseSkipReason(args[1])
		if err != nil {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
		}
		reason = r
	}
	return Command{Type: TypeSkip, Raw: raw, Skip: &SkipArgs{Target: args[0], Reason: reason}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires focus or all"}
	}
	switch strings.ToLower(args[0]) {
	case "focus", "window":
		return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Focus: true}}, nil
	case "all", "day":
		return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Focus: false}}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown view: %s", args[0])}
	}
}

var reasonAliases = map[string]model.SkipReason{
	"busy":   model.SkipTooBusy,
	"sick":   model.SkipNotFeelingWell,
	"unwell": model.SkipNotFeelingWell,
	"travel": model.SkipTraveling,
	"n/a":    model.SkipNotRelevant,
}

// ParseSkipReason accepts the stored reason names plus a few short aliases.
// An empty string means other.
func ParseSkipReason(raw string) (model.SkipReason, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return model.SkipOther, nil
	}
	if r, ok := reasonAliases[s]; ok {
		return r, nil
	}
	r := model.SkipReason(strings.ReplaceAll(s, "-", "_"))
	if r == model.SkipNone || !r.IsValid() {
		return "", fmt.Errorf("unknown skip reason: %s", raw)
	}
	return r, nil
}
