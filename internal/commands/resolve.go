package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/vitalday/internal/model"
)

// Resolve finds the task a target names: a 1-based position in listed, a
// full task id, or an id suffix after the last colon that matches exactly
// one task in all.
func Resolve(listed, all []model.Task, target string) (model.Task, error) {
	target = strings.TrimSpace(target)
	if n, err := strconv.Atoi(target); err == nil {
		if n < 1 || n > len(listed) {
			return model.Task{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("no task at position %d", n)}
		}
		return listed[n-1], nil
	}
	var matches []model.Task
	for _, task := range all {
		if task.ID == target {
			return task, nil
		}
		if strings.HasSuffix(task.ID, ":"+target) {
			matches = append(matches, task)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return model.Task{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown task: %s", target)}
	default:
		return model.Task{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s matches %d tasks", target, len(matches))}
	}
}
