// Package source turns catalog files (activated modules, a structured daily
// plan, protocol packs) into the normalized tasks of one calendar day.
package source

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/vitalday/internal/model"
	"gopkg.in/yaml.v3"
)

var ErrInvalidCatalog = errors.New("source: invalid catalog")

type Locale string

const (
	LocaleEN Locale = "en"
	LocaleDE Locale = "de"
)

func ParseLocale(raw string) (Locale, error) {
	switch l := Locale(strings.ToLower(strings.TrimSpace(raw))); l {
	case "":
		return LocaleEN, nil
	case LocaleEN, LocaleDE:
		return l, nil
	default:
		return "", fmt.Errorf("source: unsupported locale %q", raw)
	}
}

// rawTask accepts every field-name variant the catalogs use.
type rawTask struct {
	ID              string      `yaml:"id"`
	Title           string      `yaml:"title"`
	Task            string      `yaml:"task"`
	Name            string      `yaml:"name"`
	TitleDE         string      `yaml:"title_de"`
	Time            string      `yaml:"time"`
	ScheduledTime   string      `yaml:"scheduled_time"`
	TimeOfDay       string      `yaml:"time_of_day"`
	DurationMinutes *int        `yaml:"duration_minutes"`
	Duration        *int        `yaml:"duration"`
	Pillar          string      `yaml:"pillar"`
	Category        string      `yaml:"category"`
	Notes           string      `yaml:"notes"`
	Description     string      `yaml:"description"`
	Cadence         *rawCadence `yaml:"cadence"`
}

type rawCadence struct {
	Type     string   `yaml:"type"`
	Interval int      `yaml:"interval"`
	Anchor   string   `yaml:"anchor"`
	Weekdays []string `yaml:"weekdays"`
}

type rawModule struct {
	ID     string    `yaml:"id"`
	Name   string    `yaml:"name"`
	Pillar string    `yaml:"pillar"`
	Tasks  []rawTask `yaml:"tasks"`
}

type rawPlanDay struct {
	Day   int       `yaml:"day"`
	Tasks []rawTask `yaml:"tasks"`
}

type rawPlan struct {
	ID    string       `yaml:"id"`
	Name  string       `yaml:"name"`
	Start string       `yaml:"start"`
	Days  []rawPlanDay `yaml:"days"`
}

type rawCatalog struct {
	Modules []rawModule `yaml:"modules"`
	Plans   []rawPlan   `yaml:"plans"`
	Packs   []rawModule `yaml:"packs"`
}

// Template is a normalized task definition; Materialize stamps a fresh
// pending Task from it every day it is due.
type Template struct {
	Key             string
	Title           string
	TitleDE         string
	Pillar          model.Pillar
	Scheduled       model.ScheduledTime
	DurationMinutes int
	Notes           string
	Cadence         model.Cadence
}

func (t Template) title(l Locale) string {
	if l == LocaleDE && t.TitleDE != "" {
		return t.TitleDE
	}
	if t.Title != "" {
		return t.Title
	}
	if t.TitleDE != "" {
		return t.TitleDE
	}
	return t.Key
}

type Module struct {
	ID        string
	Name      string
	Templates []Template
}

type Plan struct {
	ID    string
	Name  string
	Start time.Time
	Days  map[int][]Template
}

// Catalog is the normalized content of one or more catalog files. Warnings
// collects recoverable problems such as unparseable times.
type Catalog struct {
	Modules  []Module
	Plans    []Plan
	Packs    []Module
	Warnings []string
}

// Parse decodes and normalizes a YAML catalog.
func Parse(data []byte) (Catalog, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Catalog{}, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	var n normalizer
	cat := Catalog{}
	for i, rm := range raw.Modules {
		m, err := n.module(rm, "module", i)
		if err != nil {
			return Catalog{}, err
		}
		cat.Modules = append(cat.Modules, m)
	}
	for i, rp := range raw.Plans {
		p, err := n.plan(rp, i)
		if err != nil {
			return Catalog{}, err
		}
		cat.Plans = append(cat.Plans, p)
	}
	for i, rk := range raw.Packs {
		p, err := n.module(rk, "pack", i)
		if err != nil {
			return Catalog{}, err
		}
		cat.Packs = append(cat.Packs, p)
	}
	cat.Warnings = n.warnings
	return cat, nil
}

// Merge concatenates catalogs in order.
func Merge(cats ...Catalog) Catalog {
	var out Catalog
	for _, c := range cats {
		out.Modules = append(out.Modules, c.Modules...)
		out.Plans = append(out.Plans, c.Plans...)
		out.Packs = append(out.Packs, c.Packs...)
		out.Warnings = append(out.Warnings, c.Warnings...)
	}
	return out
}

type normalizer struct {
	warnings []string
}

func (n *normalizer) warnf(format string, args ...any) {
	n.warnings = append(n.warnings, fmt.Sprintf(format, args...))
}

func (n *normalizer) module(rm rawModule, kind string, idx int) (Module, error) {
	id := slug(firstNonEmpty(rm.ID, rm.Name))
	if id == "" {
		return Module{}, fmt.Errorf("%w: %s #%d has neither id nor name", ErrInvalidCatalog, kind, idx+1)
	}
	m := Module{ID: id, Name: firstNonEmpty(rm.Name, rm.ID)}
	owner := model.ParsePillar(rm.Pillar)
	keys := make(map[string]bool)
	for _, rt := range rm.Tasks {
		tpl, err := n.template(rt, owner, fmt.Sprintf("%s %s", kind, id), keys)
		if err != nil {
			return Module{}, err
		}
		m.Templates = append(m.Templates, tpl)
	}
	return m, nil
}

func (n *normalizer) plan(rp rawPlan, idx int) (Plan, error) {
	id := slug(firstNonEmpty(rp.ID, rp.Name))
	if id == "" {
		return Plan{}, fmt.Errorf("%w: plan #%d has neither id nor name", ErrInvalidCatalog, idx+1)
	}
	start, err := time.Parse("2006-01-02", strings.TrimSpace(rp.Start))
	if err != nil {
		return Plan{}, fmt.Errorf("%w: plan %s start %q: %v", ErrInvalidCatalog, id, rp.Start, err)
	}
	p := Plan{ID: id, Name: firstNonEmpty(rp.Name, rp.ID), Start: start, Days: make(map[int][]Template)}
	for _, rd := range rp.Days {
		if rd.Day <= 0 {
			return Plan{}, fmt.Errorf("%w: plan %s has day %d, days start at 1", ErrInvalidCatalog, id, rd.Day)
		}
		keys := make(map[string]bool)
		for _, existing := range p.Days[rd.Day] {
			keys[existing.Key] = true
		}
		for _, rt := range rd.Tasks {
			tpl, err := n.template(rt, model.PillarOther, fmt.Sprintf("plan %s day %d", id, rd.Day), keys)
			if err != nil {
				return Plan{}, err
			}
			p.Days[rd.Day] = append(p.Days[rd.Day], tpl)
		}
	}
	return p, nil
}

func (n *normalizer) template(rt rawTask, owner model.Pillar, where string, keys map[string]bool) (Template, error) {
	title := firstNonEmpty(rt.Title, rt.Task, rt.Name)
	tpl := Template{
		Title:   strings.TrimSpace(title),
		TitleDE: strings.TrimSpace(rt.TitleDE),
		Notes:   strings.TrimSpace(firstNonEmpty(rt.Notes, rt.Description)),
		Pillar:  owner,
	}

	if p := firstNonEmpty(rt.Pillar, rt.Category); p != "" {
		tpl.Pillar = model.ParsePillar(p)
	}

	key := slug(rt.ID)
	explicit := key != ""
	if !explicit {
		key = slug(firstNonEmpty(title, rt.TitleDE))
	}
	if key == "" {
		key = "task"
	}
	if keys[key] {
		base := key
		for c := 2; keys[key]; c++ {
			key = base + "-" + strconv.Itoa(c)
		}
		if explicit {
			n.warnf("%s task id %q is already taken, using %q", where, base, key)
		}
	}
	keys[key] = true
	tpl.Key = key

	rawTime := firstNonEmpty(rt.Time, rt.ScheduledTime, rt.TimeOfDay)
	st, err := model.ParseScheduledTime(rawTime)
	if err != nil {
		n.warnf("%s task %s: malformed time %q, treated as anytime", where, key, rawTime)
	}
	tpl.Scheduled = st

	switch {
	case rt.DurationMinutes != nil:
		tpl.DurationMinutes = *rt.DurationMinutes
	case rt.Duration != nil:
		tpl.DurationMinutes = *rt.Duration
	}
	if tpl.DurationMinutes < 0 {
		tpl.DurationMinutes = 0
	}

	cad, err := cadence(rt.Cadence)
	if err != nil {
		return Template{}, fmt.Errorf("%w: %s task %s: %v", ErrInvalidCatalog, where, key, err)
	}
	tpl.Cadence = cad
	return tpl, nil
}

func cadence(rc *rawCadence) (model.Cadence, error) {
	if rc == nil {
		return model.DailyCadence(), nil
	}
	typ, err := model.ParseCadenceType(rc.Type)
	if err != nil {
		return model.Cadence{}, err
	}
	c := model.Cadence{Type: typ, Interval: rc.Interval}
	if c.Interval == 0 {
		c.Interval = 1
	}
	if strings.TrimSpace(rc.Anchor) != "" {
		anchor, err := time.Parse("2006-01-02", strings.TrimSpace(rc.Anchor))
		if err != nil {
			return model.Cadence{}, fmt.Errorf("cadence anchor %q: %v", rc.Anchor, err)
		}
		c.Anchor = anchor
	}
	for _, raw := range rc.Weekdays {
		wd, err := parseWeekday(raw)
		if err != nil {
			return model.Cadence{}, err
		}
		c.Weekdays = append(c.Weekdays, wd)
	}
	if err := c.Validate(); err != nil {
		return model.Cadence{}, err
	}
	return c, nil
}

func parseWeekday(raw string) (time.Weekday, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if len(s) >= 3 {
		for d := time.Sunday; d <= time.Saturday; d++ {
			name := strings.ToLower(d.String())
			if s == name || s == name[:3] {
				return d, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", raw)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

var umlauts = map[rune]string{'ä': "ae", 'ö': "oe", 'ü': "ue", 'ß': "ss"}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if repl, ok := umlauts[r]; ok {
			b.WriteString(repl)
			dash = false
			continue
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if b.Len() > 0 && !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
