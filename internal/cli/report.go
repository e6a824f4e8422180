package cli

import (
	"fmt"

	"github.com/sandeepkv93/vitalday/internal/model"
	"github.com/sandeepkv93/vitalday/internal/tracker"
	"github.com/sandeepkv93/vitalday/internal/views"
	"github.com/spf13/cobra"
)

func newProgressCmd(flags *globalFlags, opts Options) *cobra.Command {
	var instant instantFlags
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Summarize today's completions per pillar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := instant.resolve(opts.Now())
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), flags, opts, func(a *app) error {
				tasks, err := a.tracker.LoadDay(cmd.Context(), at)
				if err != nil {
					return err
				}
				streak, err := a.tracker.Streak(cmd.Context(), at)
				if err != nil {
					return err
				}
				p := tracker.Summarize(tasks)
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s  %s %d%%\n", model.DateKey(at), views.TextBar(float64(p.Percent)/100, 20), p.Percent)
				fmt.Fprintf(out, "completed %d, skipped %d, pending %d of %d\n", p.Completed, p.Skipped, p.Pending, p.Total)
				fmt.Fprintf(out, "minutes %d/%d, streak %d day(s)\n", p.MinutesCompleted, p.MinutesPlanned, streak)
				for _, pp := range p.Pillars {
					fmt.Fprintf(out, "  %-10s %d/%d\n", pp.Pillar, pp.Completed, pp.Total)
				}
				return nil
			})
		},
	}
	instant.register(cmd)
	return cmd
}

func newHistoryCmd(flags *globalFlags, opts Options) *cobra.Command {
	var instant instantFlags
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the state changes recorded for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := instant.resolve(opts.Now())
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), flags, opts, func(a *app) error {
				events, err := a.tracker.History(cmd.Context(), at)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(events) == 0 {
					fmt.Fprintln(out, "no changes recorded")
					return nil
				}
				for _, ev := range events {
					line := fmt.Sprintf("%s  %-28s %s -> %s", ev.At.Local().Format("15:04"), ev.TaskID, ev.FromState, ev.ToState)
					if ev.Reason != "" {
						line += " (" + ev.Reason + ")"
					}
					fmt.Fprintln(out, line)
				}
				return nil
			})
		},
	}
	instant.register(cmd)
	return cmd
}
