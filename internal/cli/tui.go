package cli

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/vitalday/internal/scheduler"
	"github.com/sandeepkv93/vitalday/internal/source"
	"github.com/sandeepkv93/vitalday/internal/update"
	"go.uber.org/zap"
)

func runTUI(ctx context.Context, flags *globalFlags, opts Options) (err error) {
	a, err := openApp(ctx, flags, opts, true)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(); err == nil {
			err = cerr
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	engine := scheduler.NewEngine(a.cfg.SchedulerBuffer)
	engine.Start()
	defer engine.Stop()

	reloads := make(chan struct{}, 1)
	if _, statErr := os.Stat(a.cfg.CatalogPath); statErr == nil {
		go func() {
			werr := source.Watch(ctx, a.cfg.CatalogPath, a.logger, func(cat source.Catalog) {
				a.provider.Replace(cat)
				select {
				case reloads <- struct{}{}:
				default:
				}
			})
			if werr != nil {
				a.logger.Warn("catalog watcher stopped", zap.Error(werr))
			}
		}()
	}

	model := update.NewModel(update.Options{
		User:         a.cfg.User,
		Table:        a.table,
		Store:        a.tracker,
		Scheduler:    engine,
		Reminders:    a.cfg.Reminders,
		ReminderLead: a.cfg.ReminderLead,
		Reloads:      reloads,
		Logger:       a.logger,
		Now:          a.now,
	})
	a.logger.Info("tui starting", zap.String("user", a.cfg.User), zap.String("variant", string(a.table.Variant())))
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		a.logger.Error("tui exited", zap.Error(err), zap.Uint64("dropped_events", engine.Dropped()))
	}
	return err
}
