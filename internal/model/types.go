// Package model defines shared data structures.
package model

import "time"

// Config defines play settings.
type Config struct {
	Player     string
	Width      int
	Height     int
	SpawnEvery time.Duration
	FallEvery  time.Duration
}

// RulesConfig defines scoring rule settings.
type RulesConfig struct {
	ComboWindowMs int64
	ComboCap      int
	ComboBonus    int
	DefaultValue  int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Player      string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionStats captures a completed scoring session.
type SessionStats struct {
	StartedAt  time.Time
	EndedAt    time.Time
	Player     string
	TotalScore int
	Events     int
	BestCombo  int
	DurationMs int64
}

// ItemStats stores per-item stats for a session.
type ItemStats struct {
	Item      string
	Consumed  int
	Score     int
	BaseValue int
}

// ItemAggregate aggregates item stats across sessions.
type ItemAggregate struct {
	Item      string
	Consumed  int
	Score     int
	BaseValue int
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64
	EndedAt    time.Time
	Player     string
	TotalScore int
	Events     int
	BestCombo  int
	DurationMs int64
}
