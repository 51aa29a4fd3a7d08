// Package tui provides the Bubble Tea snack game interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/snacktap/internal/generator"
	"github.com/verte-zerg/snacktap/internal/model"
	"github.com/verte-zerg/snacktap/internal/score"
	statsPkg "github.com/verte-zerg/snacktap/internal/stats"
)

const (
	cellWidth = 2
	popupTTL  = 4
)

// SessionStore persists finished scoring sessions.
type SessionStore interface {
	InsertSession(ctx context.Context, stats model.SessionStats, items []model.ItemStats) (int64, error)
}

type fallMsg time.Time

type spawnMsg time.Time

type popup struct {
	x, y int
	text string
	ttl  int
}

// Model implements the Bubble Tea game UI.
type Model struct {
	config model.Config
	engine *score.Engine
	store  SessionStore
	board  *generator.Board
	now    func() time.Time

	width  int
	height int

	cursorX int
	cursorY int
	popups  []popup
	missed  int

	showStats bool
	saved     int
}

var (
	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cursorStyle   = lipgloss.NewStyle().Background(lipgloss.Color("#C89A3A"))
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))
	popupStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4")).Bold(true)
	comboStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	modalStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#C89A3A")).Padding(1, 2)
	modalTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	modalMutedRow = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// NewModel constructs a game model and starts the first scoring session.
func NewModel(cfg model.Config, engine *score.Engine, st SessionStore, board *generator.Board) *Model {
	m := &Model{
		config: cfg,
		engine: engine,
		store:  st,
		board:  board,
		now:    time.Now,
	}
	m.cursorX = board.Width / 2
	m.cursorY = board.Height - 1
	if !engine.Active() {
		engine.ToggleActive()
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fallCmd(), m.spawnCmd())
}

func (m *Model) fallCmd() tea.Cmd {
	return tea.Tick(m.config.FallEvery, func(t time.Time) tea.Msg { return fallMsg(t) })
}

func (m *Model) spawnCmd() tea.Cmd {
	return tea.Tick(m.config.SpawnEvery, func(t time.Time) tea.Msg { return spawnMsg(t) })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.fitBoard()
		return m, nil
	case fallMsg:
		m.missed += m.board.Step()
		m.agePopups()
		return m, m.fallCmd()
	case spawnMsg:
		m.board.Spawn()
		return m, m.spawnCmd()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || key == "q" {
		m.finish()
		return m, tea.Quit
	}
	if m.showStats {
		if key == "tab" || key == "esc" || key == "enter" {
			m.showStats = false
		}
		return m, nil
	}
	switch key {
	case "left", "h":
		m.moveCursor(-1, 0)
	case "right", "l":
		m.moveCursor(1, 0)
	case "up", "k":
		m.moveCursor(0, -1)
	case "down", "j":
		m.moveCursor(0, 1)
	case " ", "enter":
		m.eat()
	case "s":
		m.toggleScoring()
	case "tab":
		m.showStats = true
	}
	return m, nil
}

func (m *Model) moveCursor(dx, dy int) {
	m.cursorX = clamp(m.cursorX+dx, 0, m.board.Width-1)
	m.cursorY = clamp(m.cursorY+dy, 0, m.board.Height-1)
}

func (m *Model) eat() {
	snack, ok := m.board.Grab(m.cursorX, m.cursorY)
	if !ok {
		return
	}
	points := m.engine.ItemConsumed(snack.Kind, m.now().UnixMilli())
	text := "nom"
	if points > 0 {
		text = fmt.Sprintf("+%d", points)
	}
	m.popups = append(m.popups, popup{x: snack.X, y: snack.Y, text: text, ttl: popupTTL})
}

func (m *Model) agePopups() {
	kept := m.popups[:0]
	for _, p := range m.popups {
		p.ttl--
		if p.ttl > 0 {
			kept = append(kept, p)
		}
	}
	m.popups = kept
}

func (m *Model) toggleScoring() {
	if m.engine.Active() {
		m.engine.ToggleActive()
		m.saveSession()
		return
	}
	m.engine.ToggleActive()
}

// Close ends and saves the running session. Calling it again is a no-op.
func (m *Model) Close() {
	m.finish()
}

func (m *Model) finish() {
	if !m.engine.Active() {
		return
	}
	m.engine.ToggleActive()
	m.saveSession()
}

func (m *Model) saveSession() {
	sess := m.engine.Session()
	if sess.Events == 0 || m.store == nil {
		return
	}
	startedAt := time.UnixMilli(sess.StartedAtMs)
	endedAt := m.now()
	if endedAt.Before(startedAt) {
		endedAt = startedAt
	}
	stats := model.SessionStats{
		StartedAt:  startedAt,
		EndedAt:    endedAt,
		Player:     m.config.Player,
		TotalScore: sess.Score,
		Events:     sess.Events,
		BestCombo:  sess.BestCombo,
		DurationMs: endedAt.Sub(startedAt).Milliseconds(),
	}
	items := make([]model.ItemStats, 0, len(sess.Items))
	for _, it := range sess.Items {
		items = append(items, model.ItemStats{
			Item:      it.ID,
			Consumed:  it.Consumed,
			Score:     it.Score,
			BaseValue: it.BaseValue,
		})
	}
	if _, err := m.store.InsertSession(context.Background(), stats, items); err != nil {
		log.Error("failed to save session", "player", m.config.Player, "err", err)
		return
	}
	m.saved++
	log.Debug("session saved", "player", m.config.Player, "score", sess.Score, "events", sess.Events)
}

// fitBoard shrinks the board to the window, never beyond the configured size.
func (m *Model) fitBoard() {
	cols := clamp((m.width-2)/cellWidth, 1, m.config.Width)
	rows := clamp(m.height-4, 1, m.config.Height)
	if cols == m.board.Width && rows == m.board.Height {
		return
	}
	m.board.Resize(cols, rows)
	m.moveCursor(0, 0)
}

// View implements tea.Model.
func (m *Model) View() string {
	body := m.renderBoard()
	if m.showStats {
		body = m.renderStatsModal()
	}
	content := body + "\n" + m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderBoard() string {
	w, h := m.board.Width, m.board.Height
	empty := runewidth.FillRight("·", cellWidth)
	raw := make([][]string, h)
	styles := make([][]lipgloss.Style, h)
	for y := range raw {
		raw[y] = make([]string, w)
		styles[y] = make([]lipgloss.Style, w)
		for x := range raw[y] {
			raw[y][x] = empty
			styles[y][x] = emptyStyle
		}
	}
	for _, s := range m.board.Snacks() {
		if inBounds(s.X, s.Y, w, h) {
			raw[s.Y][s.X] = runewidth.FillRight(s.Kind, cellWidth)
			styles[s.Y][s.X] = lipgloss.NewStyle()
		}
	}
	for _, p := range m.popups {
		if p.y < 0 || p.y >= h {
			continue
		}
		chunks := splitCells(p.text)
		if len(chunks) > w {
			chunks = chunks[:w]
		}
		start := clamp(p.x, 0, w-len(chunks))
		for i, chunk := range chunks {
			raw[p.y][start+i] = chunk
			styles[p.y][start+i] = popupStyle
		}
	}
	if inBounds(m.cursorX, m.cursorY, w, h) {
		if raw[m.cursorY][m.cursorX] == empty {
			raw[m.cursorY][m.cursorX] = strings.Repeat(" ", cellWidth)
		}
		styles[m.cursorY][m.cursorX] = cursorStyle.Inherit(styles[m.cursorY][m.cursorX])
	}
	lines := make([]string, h)
	for y := range raw {
		var b strings.Builder
		for x, cell := range raw[y] {
			b.WriteString(styles[y][x].Render(cell))
		}
		lines[y] = b.String()
	}
	return boardStyle.Render(strings.Join(lines, "\n"))
}

// splitCells breaks text into board cells, padding the last one.
func splitCells(text string) []string {
	var out []string
	var cur strings.Builder
	width := 0
	for _, r := range text {
		cur.WriteRune(r)
		width += runewidth.RuneWidth(r)
		if width >= cellWidth {
			out = append(out, cur.String())
			cur.Reset()
			width = 0
		}
	}
	if cur.Len() > 0 {
		out = append(out, runewidth.FillRight(cur.String(), cellWidth))
	}
	return out
}

func (m *Model) renderFooter() string {
	snap := m.engine.Snapshot()
	segments := []string{fmt.Sprintf("Score %d", snap.TotalScore)}
	if snap.Combo > 1 {
		bonus := m.engine.Rules().Bonus(snap.Combo)
		segments = append(segments, comboStyle.Render(fmt.Sprintf("Combo x%d (+%d)", snap.Combo, bonus)))
	}
	if snap.Active {
		segments = append(segments, activeStyle.Render("Scoring on"))
	} else {
		segments = append(segments, "Scoring off")
	}
	segments = append(segments, fmt.Sprintf("Eaten %d", snap.TotalConsumed), fmt.Sprintf("Missed %d", m.missed))
	help := "move: arrows/hjkl  eat: space  score: s  stats: tab  quit: q"
	return footerStyle.Render(strings.Join(segments, "  ")) + "\n" + footerStyle.Render(help)
}

func (m *Model) renderStatsModal() string {
	snap := m.engine.Snapshot()
	lines := []string{
		modalTitle.Render("Snack stats"),
		fmt.Sprintf("Snacks eaten: %d", snap.TotalConsumed),
		fmt.Sprintf("Session score: %d", snap.TotalScore),
		fmt.Sprintf("Current combo: %d", snap.Combo),
		"",
	}
	if len(snap.Items) == 0 {
		lines = append(lines, modalMutedRow.Render("No snacks eaten yet."))
	} else {
		aggs := make([]model.ItemAggregate, 0, len(snap.Items))
		for _, it := range snap.Items {
			aggs = append(aggs, model.ItemAggregate{
				Item:      it.ID,
				Consumed:  it.Consumed,
				Score:     it.Score,
				BaseValue: it.BaseValue,
			})
		}
		for i, line := range statsPkg.FormatItemTable(aggs) {
			if i > 3 {
				line = modalMutedRow.Render(line)
			}
			lines = append(lines, line)
		}
	}
	lines = append(lines, "", footerStyle.Render("tab/esc: close"))
	return modalStyle.Render(strings.Join(lines, "\n"))
}

func inBounds(x, y, width, height int) bool {
	return x >= 0 && y >= 0 && x < width && y < height
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
