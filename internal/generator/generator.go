// Package generator drops snacks onto a falling board.
package generator

import (
	"math/rand"
	"time"
)

// Snack is an item falling down the board.
type Snack struct {
	ID   int
	Kind string
	X    int
	Y    int
}

// Board holds falling snacks on a width x height grid.
type Board struct {
	Width  int
	Height int

	rnd    *rand.Rand
	kinds  []string
	snacks []Snack
	nextID int
}

// New returns a board seeded with the current time.
func New(width, height int, kinds []string) *Board {
	return NewWithSource(width, height, kinds, rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a board using the given random source.
func NewWithSource(width, height int, kinds []string, src rand.Source) *Board {
	return &Board{
		Width:  width,
		Height: height,
		rnd:    rand.New(src),
		kinds:  append([]string(nil), kinds...),
	}
}

// Snacks returns the snacks currently on the board.
func (b *Board) Snacks() []Snack {
	return append([]Snack(nil), b.snacks...)
}

// Spawn drops a random snack into a random column of the top row.
func (b *Board) Spawn() (Snack, bool) {
	if len(b.kinds) == 0 || b.Width <= 0 {
		return Snack{}, false
	}
	b.nextID++
	s := Snack{
		ID:   b.nextID,
		Kind: b.kinds[b.rnd.Intn(len(b.kinds))],
		X:    b.rnd.Intn(b.Width),
		Y:    0,
	}
	b.snacks = append(b.snacks, s)
	return s, true
}

// Place puts a snack at a fixed cell.
func (b *Board) Place(kind string, x, y int) Snack {
	b.nextID++
	s := Snack{ID: b.nextID, Kind: kind, X: x, Y: y}
	b.snacks = append(b.snacks, s)
	return s
}

// Step moves every snack one row down and drops those that leave the board.
// It returns the number of snacks that fell off.
func (b *Board) Step() int {
	kept := b.snacks[:0]
	missed := 0
	for _, s := range b.snacks {
		s.Y++
		if s.Y >= b.Height {
			missed++
			continue
		}
		kept = append(kept, s)
	}
	b.snacks = kept
	return missed
}

// At returns the snack occupying cell (x, y).
func (b *Board) At(x, y int) (Snack, bool) {
	for _, s := range b.snacks {
		if s.X == x && s.Y == y {
			return s, true
		}
	}
	return Snack{}, false
}

// Grab removes and returns the snack at (x, y), or a snack in a neighbouring
// cell when the exact cell is empty.
func (b *Board) Grab(x, y int) (Snack, bool) {
	best := -1
	bestDist := 3
	for i, s := range b.snacks {
		dx := abs(s.X - x)
		dy := abs(s.Y - y)
		if dx > 1 || dy > 1 {
			continue
		}
		if d := dx + dy; d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return Snack{}, false
	}
	s := b.snacks[best]
	b.snacks = append(b.snacks[:best], b.snacks[best+1:]...)
	return s, true
}

// Resize changes the board size and discards snacks outside it.
func (b *Board) Resize(width, height int) {
	b.Width = width
	b.Height = height
	kept := b.snacks[:0]
	for _, s := range b.snacks {
		if s.X < width && s.Y < height {
			kept = append(kept, s)
		}
	}
	b.snacks = kept
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
