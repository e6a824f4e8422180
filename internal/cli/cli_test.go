package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/vitalday/internal/model"
	"github.com/sandeepkv93/vitalday/internal/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogYAML = `
modules:
  - id: sleep
    name: Sleep
    pillar: sleep
    tasks:
      - title: Sunlight
        time: "07:30"
        duration_minutes: 10
      - title: Dim lights
        time: "21:30"
  - id: move
    name: Movement
    pillar: movement
    tasks:
      - title: Walk
        time: "14:00"
        duration_minutes: 30
      - title: Stretch
`

var sevenAM = time.Date(2026, time.October, 16, 7, 0, 0, 0, time.Local)

type env struct {
	dir     string
	catalog string
	db      string
}

func newEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("USER", "alice")
	catalog := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catalog, []byte(catalogYAML), 0o644))
	return env{dir: dir, catalog: catalog, db: filepath.Join(dir, "vitalday.db")}
}

func (e env) run(t *testing.T, now time.Time, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd(Options{Now: func() time.Time { return now }, Out: &out, Err: io.Discard})
	cmd.SetArgs(append([]string{"--catalog", e.catalog, "--db", e.db}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTodayListsCurrentWindow(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, sevenAM, "today")
	require.NoError(t, err)
	assert.Contains(t, out, "Morning window (05:00-11:00)")
	assert.Contains(t, out, " 1. ")
	assert.Contains(t, out, "07:30 Sunlight (10m)")
	assert.Contains(t, out, "[module:move:stretch]")
	assert.NotContains(t, out, "Walk")

	out, err = e.run(t, sevenAM, "today", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "14:00 Walk (30m)")
	assert.Contains(t, out, "Dim lights")
}

func TestTodayEmptyWindow(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.WriteFile(e.catalog, []byte("modules:\n  - id: m\n    tasks:\n      - title: Walk\n        time: \"14:00\"\n"), 0o644))

	out, err := e.run(t, sevenAM, "today")
	require.NoError(t, err)
	assert.Contains(t, out, views.EmptyFocusText)
}

func TestMissingCatalogStartsEmpty(t *testing.T) {
	e := newEnv(t)
	e.catalog = filepath.Join(e.dir, "nope")

	out, err := e.run(t, sevenAM, "today", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "(no tasks today)")
}

func TestWindowCommand(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, sevenAM, "window", "--at", "18:00")
	require.NoError(t, err)
	assert.Contains(t, out, "Evening (17:00-21:00)")
	assert.Contains(t, out, "next: Night at 21:00, in 3h00m")

	cfg := filepath.Join(e.dir, "vitalday.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("window_variant: late\n"), 0o644))
	out, err = e.run(t, sevenAM, "--config", cfg, "window", "--at", "21:30")
	require.NoError(t, err)
	assert.Contains(t, out, "Evening (17:00-22:00)")

	_, err = e.run(t, sevenAM, "window", "--at", "25:00")
	assert.Error(t, err)
	_, err = e.run(t, sevenAM, "window", "--date", "tomorrow")
	assert.Error(t, err)
}

func TestMarkCommandsPersist(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, sevenAM, "done", "1")
	require.NoError(t, err)
	assert.Equal(t, "completed Sunlight\n", out)

	out, err = e.run(t, sevenAM, "done", "sunlight")
	require.NoError(t, err)
	assert.Equal(t, "Sunlight is already completed\n", out)

	out, err = e.run(t, sevenAM, "skip", "walk", "--reason", "busy")
	require.NoError(t, err)
	assert.Equal(t, "skipped Walk (too_busy)\n", out)

	_, err = e.run(t, sevenAM, "done", "walk")
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	out, err = e.run(t, sevenAM, "progress")
	require.NoError(t, err)
	assert.Contains(t, out, "completed 1, skipped 1, pending 2 of 4")
	assert.Contains(t, out, "streak 1 day(s)")

	out, err = e.run(t, sevenAM, "undo", "module:move:walk")
	require.NoError(t, err)
	assert.Equal(t, "reopened Walk\n", out)

	out, err = e.run(t, sevenAM, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "module:sleep:sunlight")
	assert.Contains(t, out, "pending -> skipped (too_busy)")
	assert.Contains(t, out, "skipped -> pending")

	out, err = e.run(t, sevenAM.AddDate(0, 0, 1), "progress")
	require.NoError(t, err)
	assert.Contains(t, out, "completed 0, skipped 0, pending 4 of 4")
}

func TestMarkRejectsBadInput(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, sevenAM, "done", "9")
	assert.ErrorContains(t, err, "no task at position 9")
	_, err = e.run(t, sevenAM, "skip", "walk", "--reason", "bored")
	assert.ErrorContains(t, err, "unknown skip reason")
	_, err = e.run(t, sevenAM, "done")
	assert.Error(t, err)
}

func TestEphemeralKeepsNothing(t *testing.T) {
	e := newEnv(t)

	_, err := e.run(t, sevenAM, "--ephemeral", "done", "sunlight")
	require.NoError(t, err)
	_, statErr := os.Stat(e.db)
	assert.True(t, os.IsNotExist(statErr), "no database is created")

	out, err := e.run(t, sevenAM, "--ephemeral", "progress")
	require.NoError(t, err)
	assert.Contains(t, out, "completed 0")
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	out, err := e.run(t, sevenAM, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "vitalday dev")
}
