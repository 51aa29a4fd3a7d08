package score

import (
	"sort"
	"sync"
)

// Rules configures combo behaviour.
type Rules struct {
	ComboWindowMs int64
	ComboCap      int
	ComboBonus    int
}

// DefaultRules returns the standard combo rules.
func DefaultRules() Rules {
	return Rules{
		ComboWindowMs: 1000,
		ComboCap:      5,
		ComboBonus:    2,
	}
}

// Bonus returns the combo bonus for the given streak length.
func (r Rules) Bonus(combo int) int {
	steps := combo - 1
	if steps < 0 {
		steps = 0
	}
	if steps > r.ComboCap {
		steps = r.ComboCap
	}
	return steps * r.ComboBonus
}

// ItemStats accumulates per-item tallies.
type ItemStats struct {
	ID        string
	Consumed  int
	Score     int
	BaseValue int
}

// Snapshot is a read-only view of engine state.
type Snapshot struct {
	Active        bool
	TotalScore    int
	Combo         int
	Items         []ItemStats
	TotalConsumed int
}

// SessionSummary describes the current or most recent scoring session.
type SessionSummary struct {
	StartedAtMs int64
	LastEventMs int64
	Score       int
	Events      int
	BestCombo   int
	Items       []ItemStats
}

// Engine converts consumed-item events into scores. It is safe for concurrent use.
type Engine struct {
	mu      sync.Mutex
	catalog *Catalog
	rules   Rules

	active     bool
	totalScore int
	combo      int
	lastMs     int64
	hasLast    bool

	items map[string]*ItemStats

	sessionStartMs int64
	sessionEvents  int
	bestCombo      int
	sessionItems   map[string]*ItemStats
}

// New returns an inactive engine with zero tallies.
func New(catalog *Catalog, rules Rules) *Engine {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Engine{
		catalog:      catalog,
		rules:        rules,
		items:        map[string]*ItemStats{},
		sessionItems: map[string]*ItemStats{},
	}
}

// Catalog returns the engine's item catalog.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Rules returns the engine's combo rules.
func (e *Engine) Rules() Rules {
	return e.rules
}

// ItemConsumed scores one consumed item at eventMs and returns the awarded points.
// It returns 0 without touching any state while scoring is inactive.
func (e *Engine) ItemConsumed(id string, eventMs int64) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active {
		return 0
	}

	if e.hasLast && eventMs-e.lastMs < e.rules.ComboWindowMs {
		e.combo++
	} else {
		e.combo = 1
	}
	if e.combo > e.bestCombo {
		e.bestCombo = e.combo
	}

	base := e.catalog.Value(id)
	awarded := base + e.rules.Bonus(e.combo)
	e.totalScore += awarded

	bump(e.items, id, base, awarded)
	bump(e.sessionItems, id, base, awarded)

	if e.sessionEvents == 0 {
		e.sessionStartMs = eventMs
	}
	e.sessionEvents++
	e.lastMs = eventMs
	e.hasLast = true
	return awarded
}

func bump(m map[string]*ItemStats, id string, base, awarded int) {
	entry, ok := m[id]
	if !ok {
		entry = &ItemStats{ID: id, BaseValue: base}
		m[id] = entry
	}
	entry.Consumed++
	entry.Score += awarded
}

// ToggleActive flips scoring mode and returns the new state. Activating starts a
// fresh session; lifetime item stats are kept.
func (e *Engine) ToggleActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = !e.active
	if e.active {
		e.totalScore = 0
		e.combo = 0
		e.lastMs = 0
		e.hasLast = false
		e.sessionStartMs = 0
		e.sessionEvents = 0
		e.bestCombo = 0
		e.sessionItems = map[string]*ItemStats{}
	}
	return e.active
}

// Active reports whether events are currently scored.
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Snapshot returns current tallies.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	items := sortedStats(e.items)
	total := 0
	for _, it := range items {
		total += it.Consumed
	}
	return Snapshot{
		Active:        e.active,
		TotalScore:    e.totalScore,
		Combo:         e.combo,
		Items:         items,
		TotalConsumed: total,
	}
}

// Session returns the current or most recent session summary.
func (e *Engine) Session() SessionSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return SessionSummary{
		StartedAtMs: e.sessionStartMs,
		LastEventMs: e.lastMs,
		Score:       e.totalScore,
		Events:      e.sessionEvents,
		BestCombo:   e.bestCombo,
		Items:       sortedStats(e.sessionItems),
	}
}

// sortedStats copies m ordered by consumed count descending, then id.
func sortedStats(m map[string]*ItemStats) []ItemStats {
	out := make([]ItemStats, 0, len(m))
	for _, it := range m {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Consumed == out[j].Consumed {
			return out[i].ID < out[j].ID
		}
		return out[i].Consumed > out[j].Consumed
	})
	return out
}
