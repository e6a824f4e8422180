package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/vitalday/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const fixture = `
modules:
  - id: sleep
    name: Sleep Hygiene
    pillar: sleep
    tasks:
      - title: Dim the lights
        title_de: Licht dimmen
        time: "21:30"
        duration_minutes: 5
      - task: Morning sunlight
        time_of_day: morning
        category: movement
      - name: Dim the lights
        scheduled_time: "25:00"
        duration: -3
  - id: strength
    name: Strength
    pillar: movement
    tasks:
      - title: Lift
        cadence:
          type: weekdays
          weekdays: [mon, wed, fri]
plans:
  - id: reset
    name: 7 Day Reset
    start: "2026-10-14"
    days:
      - day: 3
        tasks:
          - title: Cold shower
            time: "07:00"
packs:
  - id: focus
    name: Focus Pack
    tasks:
      - title: Breathwork
        pillar: stress
        cadence:
          type: every_n_days
          interval: 2
          anchor: "2026-10-16"
`

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 9, 0, 0, 0, time.Local)
}

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestParseNormalizesFieldVariants(t *testing.T) {
	cat, err := Parse([]byte(fixture))
	require.NoError(t, err)
	require.Len(t, cat.Modules, 2)
	require.Len(t, cat.Warnings, 1)
	assert.Contains(t, cat.Warnings[0], `"25:00"`)

	sleep := cat.Modules[0].Templates
	require.Len(t, sleep, 3)
	assert.Equal(t, "dim-the-lights", sleep[0].Key)
	assert.Equal(t, "morning-sunlight", sleep[1].Key)
	assert.Equal(t, "dim-the-lights-2", sleep[2].Key)

	assert.Equal(t, model.PillarSleep, sleep[0].Pillar)
	assert.Equal(t, model.PillarMovement, sleep[1].Pillar)
	assert.Equal(t, 5, sleep[0].DurationMinutes)
	assert.Equal(t, 0, sleep[2].DurationMinutes)
	assert.False(t, sleep[2].Scheduled.IsSet())

	tag, ok := sleep[1].Scheduled.Tag()
	require.True(t, ok)
	assert.Equal(t, model.WindowMorning, tag)
}

func TestMaterializeOrderAndIDs(t *testing.T) {
	cat, err := Parse([]byte(fixture))
	require.NoError(t, err)

	tasks := cat.Materialize(day(2026, time.October, 16), LocaleEN)
	assert.Equal(t, []string{
		"module:sleep:dim-the-lights",
		"module:sleep:morning-sunlight",
		"module:sleep:dim-the-lights-2",
		"module:strength:lift",
		"plan:reset:d3:cold-shower",
		"pack:focus:breathwork",
	}, ids(tasks))

	for _, task := range tasks {
		assert.Equal(t, model.StatePending, task.State, task.ID)
		assert.NoError(t, task.Validate(), task.ID)
	}
	assert.Equal(t, "Dim the lights", tasks[0].Title)
	assert.Equal(t, "Sleep Hygiene", tasks[0].Origin)
	assert.Equal(t, model.PillarOther, tasks[4].Pillar)
	assert.Equal(t, model.PillarStress, tasks[5].Pillar)
}

func TestMaterializeRespectsCadenceAndPlanDay(t *testing.T) {
	cat, err := Parse([]byte(fixture))
	require.NoError(t, err)

	saturday := cat.Materialize(day(2026, time.October, 17), LocaleEN)
	assert.Equal(t, []string{
		"module:sleep:dim-the-lights",
		"module:sleep:morning-sunlight",
		"module:sleep:dim-the-lights-2",
	}, ids(saturday))

	beforePlan := cat.Materialize(day(2026, time.October, 13), LocaleEN)
	for _, task := range beforePlan {
		assert.NotContains(t, task.ID, "plan:")
	}
}

func TestMaterializeGermanTitles(t *testing.T) {
	cat, err := Parse([]byte(fixture))
	require.NoError(t, err)

	tasks := cat.Materialize(day(2026, time.October, 16), LocaleDE)
	assert.Equal(t, "Licht dimmen", tasks[0].Title)
	assert.Equal(t, "Morning sunlight", tasks[1].Title, "falls back to the default title")
}

func TestParseRejectsBrokenCatalogs(t *testing.T) {
	cases := map[string]string{
		"bad yaml":       "modules: [",
		"anonymous":      "modules:\n  - tasks: []\n",
		"plan start":     "plans:\n  - id: p\n    start: soon\n",
		"plan day zero":  "plans:\n  - id: p\n    start: \"2026-10-01\"\n    days:\n      - day: 0\n",
		"missing anchor": "packs:\n  - id: p\n    tasks:\n      - title: x\n        cadence: {type: every_n_days, interval: 2}\n",
		"bad weekday":    "packs:\n  - id: p\n    tasks:\n      - title: x\n        cadence: {type: weekdays, weekdays: [funday]}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestTaskKeysNeverCollide(t *testing.T) {
	doc := `
modules:
  - id: m
    tasks:
      - title: Walk
      - title: Walk
      - id: walk-2
        title: Stretch
      - title: Walk
`
	cat, err := Parse([]byte(doc))
	require.NoError(t, err)

	tasks := cat.Materialize(day(2026, time.October, 16), LocaleEN)
	require.Len(t, tasks, 4, "every defined task is materialized")
	assert.Equal(t, []string{"module:m:walk", "module:m:walk-2", "module:m:walk-2-2", "module:m:walk-3"}, ids(tasks))
	assert.Equal(t, "Stretch", tasks[2].Title)

	require.Len(t, cat.Warnings, 1)
	assert.Contains(t, cat.Warnings[0], `"walk-2"`)
}

func TestLoadDirMergesInNameOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte("packs:\n  - id: second\n    tasks:\n      - title: B\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yml"), []byte("modules:\n  - id: first\n    tasks:\n      - title: A\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	cat, err := Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"module:first:a", "pack:second:b"}, ids(cat.Materialize(day(2026, time.October, 16), LocaleEN)))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.yaml"), []byte("modules: ["), 0o644))
	_, err = LoadDir(context.Background(), dir)
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestMaterializeDropsDuplicateIDs(t *testing.T) {
	a, err := Parse([]byte("modules:\n  - id: m\n    tasks:\n      - title: One\n"))
	require.NoError(t, err)
	b, err := Parse([]byte("modules:\n  - id: m\n    tasks:\n      - title: One\n        time: \"08:00\"\n"))
	require.NoError(t, err)

	tasks := Merge(a, b).Materialize(day(2026, time.October, 16), LocaleEN)
	require.Len(t, tasks, 1)
	assert.False(t, tasks[0].Scheduled.IsSet(), "first definition wins")
}

func TestProviderReplace(t *testing.T) {
	a, err := Parse([]byte("modules:\n  - id: m\n    tasks:\n      - title: One\n"))
	require.NoError(t, err)
	p := NewProvider(a, LocaleEN)
	assert.Len(t, p.Tasks(day(2026, time.October, 16)), 1)

	p.Replace(Catalog{})
	assert.Empty(t, p.Tasks(day(2026, time.October, 16)))
}

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("modules:\n  - id: m\n    tasks:\n      - title: One\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	reloaded := make(chan Catalog, 1)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, zap.NewNop(), func(c Catalog) {
			select {
			case reloaded <- c:
			default:
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("modules:\n  - id: m\n    tasks:\n      - title: One\n      - title: Two\n"), 0o644))

	select {
	case c := <-reloaded:
		assert.Len(t, c.Materialize(day(2026, time.October, 16), LocaleEN), 2)
	case <-time.After(5 * time.Second):
		t.Fatal("catalog was not reloaded")
	}

	cancel()
	assert.NoError(t, <-done)
}
