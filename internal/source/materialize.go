package source

import (
	"fmt"
	"sync"
	"time"

	"github.com/sandeepkv93/vitalday/internal/model"
)

// Materialize returns the day's tasks, all pending: due module tasks, then
// the active plan day, then due pack tasks. Duplicate IDs keep the first.
func (c Catalog) Materialize(day time.Time, locale Locale) []model.Task {
	out := make([]model.Task, 0)
	seen := make(map[string]struct{})
	add := func(id, origin string, tpl Template) {
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out = append(out, model.Task{
			ID:              id,
			Title:           tpl.title(locale),
			Pillar:          tpl.Pillar,
			Scheduled:       tpl.Scheduled,
			DurationMinutes: tpl.DurationMinutes,
			State:           model.StatePending,
			Notes:           tpl.Notes,
			Origin:          origin,
		})
	}

	for _, m := range c.Modules {
		for _, tpl := range m.Templates {
			if tpl.Cadence.OccursOn(day) {
				add(fmt.Sprintf("module:%s:%s", m.ID, tpl.Key), m.Name, tpl)
			}
		}
	}
	for _, p := range c.Plans {
		n, ok := p.DayNumber(day)
		if !ok {
			continue
		}
		for _, tpl := range p.Days[n] {
			add(fmt.Sprintf("plan:%s:d%d:%s", p.ID, n, tpl.Key), p.Name, tpl)
		}
	}
	for _, pk := range c.Packs {
		for _, tpl := range pk.Templates {
			if tpl.Cadence.OccursOn(day) {
				add(fmt.Sprintf("pack:%s:%s", pk.ID, tpl.Key), pk.Name, tpl)
			}
		}
	}
	return out
}

// DayNumber reports the 1-based plan day that day falls on.
func (p Plan) DayNumber(day time.Time) (int, bool) {
	n := model.DaysBetween(p.Start, day) + 1
	if n < 1 {
		return 0, false
	}
	return n, true
}

// Provider serves materialized tasks from a catalog that can be swapped
// while readers are active, e.g. after a file change.
type Provider struct {
	mu      sync.RWMutex
	catalog Catalog
	locale  Locale
}

func NewProvider(cat Catalog, locale Locale) *Provider {
	return &Provider{catalog: cat, locale: locale}
}

func (p *Provider) Tasks(day time.Time) []model.Task {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.catalog.Materialize(day, p.locale)
}

func (p *Provider) Replace(cat Catalog) {
	p.mu.Lock()
	p.catalog = cat
	p.mu.Unlock()
}

func (p *Provider) Catalog() Catalog {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.catalog
}
