package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sandeepkv93/vitalday/internal/model"
	"github.com/sandeepkv93/vitalday/internal/planner"
	"github.com/sandeepkv93/vitalday/internal/views"
	"github.com/spf13/cobra"
)

type instantFlags struct {
	date string
	at   string
}

func (f *instantFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "day to use instead of today (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.at, "at", "", "clock time to evaluate windows at (HH:MM)")
}

// resolve overrides the date and clock of now with the flag values.
func (f *instantFlags) resolve(now time.Time) (time.Time, error) {
	out := now
	if f.date != "" {
		d, err := time.ParseInLocation("2006-01-02", f.date, now.Location())
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", f.date)
		}
		out = time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), now.Minute(), now.Second(), 0, now.Location())
	}
	if f.at != "" {
		st, err := model.ParseScheduledTime(f.at)
		h, m, ok := st.Clock()
		if err != nil || !ok {
			return time.Time{}, fmt.Errorf("invalid --at %q: want HH:MM", f.at)
		}
		out = time.Date(out.Year(), out.Month(), out.Day(), h, m, 0, 0, out.Location())
	}
	return out, nil
}

func newTodayCmd(flags *globalFlags, opts Options) *cobra.Command {
	var (
		all     bool
		instant instantFlags
	)
	cmd := &cobra.Command{
		Use:   "today",
		Short: "List the tasks of the current window",
		Long: `List today's tasks for the current time window, pending first.

Tasks without a clock time are always listed. Use --all for the whole day.`,
		Args: cobra.NoArgs,
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
				plan := a.table.Build(at, tasks)
				printPlanHeader(cmd.OutOrStdout(), plan)
				printTasks(cmd.OutOrStdout(), a.table, plan.Visible(!all), all)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "list every task of the day")
	instant.register(cmd)
	return cmd
}

func newWindowCmd(flags *globalFlags, opts Options) *cobra.Command {
	var instant instantFlags
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Show the current time window and the next boundary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := instant.resolve(opts.Now())
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), flags, opts, func(a *app) error {
				plan := a.table.Build(at, nil)
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s (%s)\n", plan.Current.Label(), hours(plan.Current))
				fmt.Fprintf(out, "next: %s at %s, in %s\n", plan.Next.Label(), plan.NextStart.Format("15:04"), formatDuration(plan.UntilNext()))
				return nil
			})
		},
	}
	instant.register(cmd)
	return cmd
}

func printPlanHeader(w io.Writer, plan planner.Plan) {
	fmt.Fprintf(w, "%s | %s window (%s) | next: %s in %s\n\n",
		plan.Now.Format("Mon 2006-01-02"), plan.Current.Label(), hours(plan.Current),
		plan.Next.Label(), formatDuration(plan.UntilNext()))
}

func printTasks(w io.Writer, table planner.Table, tasks []model.Task, all bool) {
	if len(tasks) == 0 {
		if all {
			fmt.Fprintln(w, "(no tasks today)")
		} else {
			fmt.Fprintln(w, views.EmptyFocusText)
		}
		return
	}
	for i, task := range tasks {
		row := views.TaskRowData{
			ID:       task.ID,
			Title:    task.Title,
			Window:   string(table.WindowOf(task)),
			Pillar:   string(task.Pillar),
			State:    string(task.State),
			Reason:   string(task.SkipReason),
			Duration: task.DurationMinutes,
		}
		if task.Scheduled.Kind() == model.TimeExplicit {
			row.Time = task.Scheduled.String()
		}
		fmt.Fprintf(w, "%2d. %s  [%s]\n", i+1, views.RenderTaskRow(row), task.ID)
	}
}

func hours(s planner.Span) string {
	return fmt.Sprintf("%02d:00-%02d:00", s.StartHour, s.EndHour)
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Minute)
	h, m := int(d.Hours()), int(d.Minutes())%60
	var b strings.Builder
	if h > 0 {
		fmt.Fprintf(&b, "%dh", h)
	}
	fmt.Fprintf(&b, "%02dm", m)
	return b.String()
}
