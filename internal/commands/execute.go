package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Done func(TaskArgs) (Result, error)
	Skip func(SkipArgs) (Result, error)
	Undo func(TaskArgs) (Result, error)
	Show func(ShowArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "done handler not configured"}
		}
		return handlers.Done(*cmd.Task)
	case TypeSkip:
		if handlers.Skip == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "skip handler not configured"}
		}
		return handlers.Skip(*cmd.Skip)
	case TypeUndo:
		if handlers.Undo == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "undo handler not configured"}
		}
		return handlers.Undo(*cmd.Task)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, &CommandError{Code: ErrCodeHandlerMissing, Message: "show handler not configured"}
		}
		return handlers.Show(*cmd.Show)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
