package tracker

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sandeepkv93/vitalday/internal/model"
)

const maxStreak = 365

type PillarProgress struct {
	Pillar    model.Pillar
	Completed int
	// Total excludes skipped tasks.
	Total int
}

type Progress struct {
	Total            int
	Completed        int
	Skipped          int
	Pending          int
	Percent          int
	MinutesCompleted int
	MinutesPlanned   int
	Pillars          []PillarProgress
}

// Summarize computes day progress. Skipped tasks leave the denominator, so a
// day where everything left is skipped reads 100%.
func Summarize(tasks []model.Task) Progress {
	var p Progress
	perPillar := make(map[model.Pillar]*PillarProgress)
	for _, task := range tasks {
		p.Total++
		switch task.State {
		case model.StateSkipped:
			p.Skipped++
			continue
		case model.StateCompleted:
			p.Completed++
			p.MinutesCompleted += task.DurationMinutes
		default:
			p.Pending++
		}
		p.MinutesPlanned += task.DurationMinutes

		pp, ok := perPillar[task.Pillar]
		if !ok {
			pp = &PillarProgress{Pillar: task.Pillar}
			perPillar[task.Pillar] = pp
		}
		pp.Total++
		if task.State == model.StateCompleted {
			pp.Completed++
		}
	}
	if active := p.Total - p.Skipped; active > 0 {
		p.Percent = p.Completed * 100 / active
	} else if p.Total > 0 {
		p.Percent = 100
	}
	for _, pillar := range model.Pillars {
		if pp, ok := perPillar[pillar]; ok {
			p.Pillars = append(p.Pillars, *pp)
		}
	}
	return p
}

// Streak counts consecutive days with at least one completion, ending at
// asOf. A day that has no completion yet does not break the streak.
func (t *Tracker) Streak(ctx context.Context, asOf time.Time) (int, error) {
	prefix := "completion/" + t.user + "/"
	entries, err := t.kv.List(ctx, prefix)
	if err != nil {
		return 0, err
	}
	days := make(map[string]bool)
	for _, e := range entries {
		date, _, ok := strings.Cut(strings.TrimPrefix(e.Key, prefix), "/")
		if !ok {
			continue
		}
		var rec record
		if json.Unmarshal([]byte(e.Value), &rec) == nil && rec.State == model.StateCompleted {
			days[date] = true
		}
	}

	cursor := asOf
	if !days[model.DateKey(cursor)] {
		cursor = cursor.AddDate(0, 0, -1)
	}
	streak := 0
	for streak < maxStreak && days[model.DateKey(cursor)] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak, nil
}
