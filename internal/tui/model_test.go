package tui

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/snacktap/internal/generator"
	"github.com/verte-zerg/snacktap/internal/model"
	"github.com/verte-zerg/snacktap/internal/score"
)

type fakeStore struct {
	sessions []model.SessionStats
	items    [][]model.ItemStats
	err      error
}

func (f *fakeStore) InsertSession(_ context.Context, stats model.SessionStats, items []model.ItemStats) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.sessions = append(f.sessions, stats)
	f.items = append(f.items, items)
	return int64(len(f.sessions)), nil
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestModel(t *testing.T) (*Model, *fakeStore, *fakeClock) {
	t.Helper()
	engine := score.New(score.DefaultCatalog(), score.DefaultRules())
	board := generator.NewWithSource(6, 6, []string{"🍟"}, rand.NewSource(1))
	st := &fakeStore{}
	clock := &fakeClock{t: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)}
	cfg := model.Config{Player: "tester", Width: 6, Height: 6, SpawnEvery: time.Second, FallEvery: time.Second}
	m := NewModel(cfg, engine, st, board)
	m.now = clock.now
	return m, st, clock
}

func press(m *Model, key string) {
	var msg tea.KeyMsg
	switch key {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m.Update(msg)
}

func TestNewModelStartsScoring(t *testing.T) {
	m, _, _ := newTestModel(t)
	if !m.engine.Active() {
		t.Fatalf("expected scoring to be active on start")
	}
}

func TestEatScoresWithCombo(t *testing.T) {
	m, _, clock := newTestModel(t)
	m.board.Place("🧁", m.cursorX, m.cursorY)
	press(m, " ")
	clock.advance(400 * time.Millisecond)
	m.board.Place("🍟", m.cursorX, m.cursorY)
	press(m, " ")

	snap := m.engine.Snapshot()
	if snap.TotalScore != 25+12 {
		t.Fatalf("expected score 37, got %d", snap.TotalScore)
	}
	if snap.Combo != 2 {
		t.Fatalf("expected combo 2, got %d", snap.Combo)
	}
	if len(m.popups) != 2 || m.popups[1].text != "+12" {
		t.Fatalf("unexpected popups: %+v", m.popups)
	}
	if len(m.board.Snacks()) != 0 {
		t.Fatalf("expected eaten snacks to leave the board")
	}
}

func TestEatWhileInactiveOnlyPlaysEffect(t *testing.T) {
	m, st, _ := newTestModel(t)
	press(m, "s")
	m.board.Place("🧁", m.cursorX, m.cursorY)
	press(m, " ")
	if len(m.popups) != 1 || m.popups[0].text != "nom" {
		t.Fatalf("expected presentation-only popup, got %+v", m.popups)
	}
	if snap := m.engine.Snapshot(); snap.TotalConsumed != 0 {
		t.Fatalf("expected no stats while inactive, got %+v", snap)
	}
	if len(st.sessions) != 0 {
		t.Fatalf("expected empty session not to be saved")
	}
}

func TestToggleOffSavesSession(t *testing.T) {
	m, st, clock := newTestModel(t)
	m.board.Place("🍬", m.cursorX, m.cursorY)
	press(m, " ")
	clock.advance(3 * time.Second)
	press(m, "s")

	if len(st.sessions) != 1 {
		t.Fatalf("expected 1 saved session, got %d", len(st.sessions))
	}
	saved := st.sessions[0]
	if saved.TotalScore != 6 || saved.Events != 1 || saved.Player != "tester" {
		t.Fatalf("unexpected saved session: %+v", saved)
	}
	if saved.DurationMs != 3000 {
		t.Fatalf("expected 3000ms duration, got %d", saved.DurationMs)
	}
	if len(st.items[0]) != 1 || st.items[0][0].Item != "🍬" {
		t.Fatalf("unexpected saved items: %+v", st.items[0])
	}

	// Quitting while inactive must not save the same session again.
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if len(st.sessions) != 1 {
		t.Fatalf("expected no duplicate save, got %d sessions", len(st.sessions))
	}
}

func TestQuitSavesActiveSession(t *testing.T) {
	m, st, _ := newTestModel(t)
	m.board.Place("🍬", m.cursorX, m.cursorY)
	press(m, " ")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if len(st.sessions) != 1 {
		t.Fatalf("expected session saved on quit, got %d", len(st.sessions))
	}
}

func TestSaveFailureIsNotFatal(t *testing.T) {
	m, st, _ := newTestModel(t)
	st.err = errors.New("disk full")
	m.board.Place("🍬", m.cursorX, m.cursorY)
	press(m, " ")
	press(m, "s")
	if m.saved != 0 {
		t.Fatalf("expected no successful saves")
	}
	if m.engine.Active() {
		t.Fatalf("expected scoring to be off")
	}
}

func TestStatsModalToggle(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.board.Place("🧁", m.cursorX, m.cursorY)
	press(m, " ")
	press(m, "tab")
	if !m.showStats {
		t.Fatalf("expected stats modal")
	}
	view := m.View()
	if !containsAll(view, []string{"Snack stats", "Snacks eaten: 1", "🧁"}) {
		t.Fatalf("modal missing content:\n%s", view)
	}
	press(m, "h")
	if m.cursorX != 3 {
		t.Fatalf("cursor moved while modal open")
	}
	press(m, "esc")
	if m.showStats {
		t.Fatalf("expected modal closed")
	}
}

func TestCursorStaysOnBoard(t *testing.T) {
	m, _, _ := newTestModel(t)
	for i := 0; i < 10; i++ {
		press(m, "l")
		press(m, "j")
	}
	if m.cursorX != 5 || m.cursorY != 5 {
		t.Fatalf("expected cursor clamped to 5,5, got %d,%d", m.cursorX, m.cursorY)
	}
}

func TestFallTickMovesSnacksAndCountsMisses(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.board.Place("🍟", 0, 5)
	m.popups = []popup{{x: 1, y: 1, text: "+5", ttl: 1}}
	_, cmd := m.Update(fallMsg(time.Now()))
	if cmd == nil {
		t.Fatalf("expected next fall tick")
	}
	if m.missed != 1 {
		t.Fatalf("expected 1 missed snack, got %d", m.missed)
	}
	if len(m.popups) != 0 {
		t.Fatalf("expected expired popup to be removed")
	}
}

func TestWindowResizeShrinksBoard(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 8, Height: 7})
	if m.board.Width != 3 || m.board.Height != 3 {
		t.Fatalf("unexpected board size %dx%d", m.board.Width, m.board.Height)
	}
	if m.cursorX > 2 || m.cursorY > 2 {
		t.Fatalf("cursor outside resized board: %d,%d", m.cursorX, m.cursorY)
	}
	if !strings.Contains(m.View(), "Score 0") {
		t.Fatalf("expected footer in view")
	}
}

func TestBoardShowsFullPopupScore(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.board.Place("🧁", m.cursorX, m.cursorY)
	press(m, " ")
	if board := ansi.Strip(m.renderBoard()); !strings.Contains(board, "+25") {
		t.Fatalf("expected +25 under cursor, got:\n%s", board)
	}
	press(m, "h")
	press(m, "h")
	board := ansi.Strip(m.renderBoard())
	if !strings.Contains(board, "+25") {
		t.Fatalf("expected +25 on board, got:\n%s", board)
	}
	for _, line := range strings.Split(board, "\n") {
		if got := runewidth.StringWidth(line); got != 6*cellWidth+2 {
			t.Fatalf("expected row width %d, got %d: %q", 6*cellWidth+2, got, line)
		}
	}
}

func TestPopupClampsAtRightEdge(t *testing.T) {
	m, _, _ := newTestModel(t)
	press(m, "s")
	for i := 0; i < 5; i++ {
		press(m, "l")
	}
	m.board.Place("🍪", m.cursorX, m.cursorY)
	press(m, " ")
	press(m, "h")
	press(m, "h")
	press(m, "h")
	board := ansi.Strip(m.renderBoard())
	if !strings.Contains(board, "nom") {
		t.Fatalf("expected nom popup at edge, got:\n%s", board)
	}
	for _, line := range strings.Split(board, "\n") {
		if got := runewidth.StringWidth(line); got != 6*cellWidth+2 {
			t.Fatalf("expected row width %d, got %d: %q", 6*cellWidth+2, got, line)
		}
	}
}

func TestSplitCells(t *testing.T) {
	got := splitCells("+125")
	if len(got) != 2 || got[0] != "+1" || got[1] != "25" {
		t.Fatalf("unexpected cells %q", got)
	}
	got = splitCells("nom")
	if len(got) != 2 || got[1] != "m " {
		t.Fatalf("unexpected cells %q", got)
	}
}
