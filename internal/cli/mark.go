package cli

import (
	"fmt"

	"github.com/sandeepkv93/vitalday/internal/commands"
	"github.com/sandeepkv93/vitalday/internal/model"
	"github.com/spf13/cobra"
)

type markKind struct {
	use     string
	aliases []string
	short   string
	action  model.Action
	verb    string
}

var (
	markDone = markKind{use: "done <task>", aliases: []string{"complete"}, short: "Mark a task completed", action: model.ActionComplete, verb: "completed"}
	markSkip = markKind{use: "skip <task>", short: "Skip a task with a reason", action: model.ActionSkip, verb: "skipped"}
	markUndo = markKind{use: "undo <task>", short: "Return a task to pending", action: model.ActionUndo, verb: "reopened"}
)

// newMarkCmd builds done, skip and undo. The task is a position from
// "vitalday today" (or "today --all" with --all), a full id or an id suffix.
func newMarkCmd(flags *globalFlags, opts Options, kind markKind) *cobra.Command {
	var (
		all     bool
		reason  string
		instant instantFlags
	)
	cmd := &cobra.Command{
		Use:     kind.use,
		Aliases: kind.aliases,
		Short:   kind.short,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := instant.resolve(opts.Now())
			if err != nil {
				return err
			}
			skipReason := model.SkipNone
			if kind.action == model.ActionSkip {
				if skipReason, err = commands.ParseSkipReason(reason); err != nil {
					return err
				}
			}
			return withApp(cmd.Context(), flags, opts, func(a *app) error {
				tasks, err := a.tracker.LoadDay(cmd.Context(), at)
				if err != nil {
					return err
				}
				plan := a.table.Build(at, tasks)
				task, err := commands.Resolve(plan.Visible(!all), tasks, args[0])
				if err != nil {
					return err
				}
				next, tr, err := a.tracker.Apply(cmd.Context(), at, task.ID, kind.action, skipReason)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !tr.Changed {
					fmt.Fprintf(out, "%s is already %s\n", next.Title, next.State)
					return nil
				}
				line := fmt.Sprintf("%s %s", kind.verb, next.Title)
				if next.State == model.StateSkipped {
					line += fmt.Sprintf(" (%s)", next.SkipReason)
				}
				fmt.Fprintln(out, line)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "count positions over the whole day")
	if kind.action == model.ActionSkip {
		cmd.Flags().StringVarP(&reason, "reason", "r", "other", "too_busy, not_feeling_well, traveling, not_relevant or other")
	}
	instant.register(cmd)
	return cmd
}
