// Package cli wires configuration, storage and the catalog into the vitalday
// command tree. Without a subcommand the TUI starts.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit string) {
	appVersion = version
	appCommit = commit
}

// Options let tests pin the clock and capture output.
type Options struct {
	Now func() time.Time
	Out io.Writer
	Err io.Writer
}

type globalFlags struct {
	configPath string
	ephemeral  bool
	user       string
	db         string
	catalog    string
}

func NewRootCmd(opts Options) *cobra.Command {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "vitalday",
		Short: "Daily health routine, one time window at a time",
		Long: `vitalday turns a catalog of health modules, plans and packs into today's
task list and shows what belongs to the current time window.

Run without a subcommand to open the interactive view.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), flags, opts)
		},
	}
	root.SetOut(opts.Out)
	root.SetErr(opts.Err)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default: search for vitalday.yaml)")
	pf.BoolVar(&flags.ephemeral, "ephemeral", false, "keep completions in memory only")
	pf.StringVar(&flags.user, "user", "", "user whose completions are tracked")
	pf.StringVar(&flags.db, "db", "", "sqlite database path")
	pf.StringVar(&flags.catalog, "catalog", "", "catalog file or directory")

	root.AddCommand(
		newTodayCmd(flags, opts),
		newWindowCmd(flags, opts),
		newMarkCmd(flags, opts, markDone),
		newMarkCmd(flags, opts, markSkip),
		newMarkCmd(flags, opts, markUndo),
		newProgressCmd(flags, opts),
		newHistoryCmd(flags, opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "vitalday %s\ncommit: %s\n", appVersion, appCommit)
			},
		},
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd(Options{}).ExecuteContext(ctx)
}
