package generator

import (
	"math/rand"
	"testing"
)

func TestSpawnUsesKindsAndWidth(t *testing.T) {
	b := NewWithSource(6, 4, []string{"🍟", "🍩"}, rand.NewSource(1))
	for i := 0; i < 50; i++ {
		s, ok := b.Spawn()
		if !ok {
			t.Fatalf("expected spawn to succeed")
		}
		if s.X < 0 || s.X >= 6 || s.Y != 0 {
			t.Fatalf("snack spawned outside top row: %+v", s)
		}
		if s.Kind != "🍟" && s.Kind != "🍩" {
			t.Fatalf("unexpected kind %q", s.Kind)
		}
	}
	if len(b.Snacks()) != 50 {
		t.Fatalf("expected 50 snacks, got %d", len(b.Snacks()))
	}
}

func TestSpawnWithoutKinds(t *testing.T) {
	b := NewWithSource(6, 4, nil, rand.NewSource(1))
	if _, ok := b.Spawn(); ok {
		t.Fatalf("expected spawn to fail without kinds")
	}
}

func TestStepDropsSnacksAtBottom(t *testing.T) {
	b := NewWithSource(3, 2, []string{"x"}, rand.NewSource(1))
	b.Place("x", 0, 0)
	b.Place("x", 1, 1)
	if missed := b.Step(); missed != 1 {
		t.Fatalf("expected 1 missed snack, got %d", missed)
	}
	snacks := b.Snacks()
	if len(snacks) != 1 || snacks[0].Y != 1 {
		t.Fatalf("unexpected snacks after step: %+v", snacks)
	}
}

func TestGrabPrefersExactCell(t *testing.T) {
	b := NewWithSource(5, 5, []string{"x"}, rand.NewSource(1))
	b.Place("near", 2, 3)
	exact := b.Place("exact", 2, 2)
	got, ok := b.Grab(2, 2)
	if !ok || got.ID != exact.ID {
		t.Fatalf("expected exact snack, got %+v", got)
	}
	got, ok = b.Grab(2, 2)
	if !ok || got.Kind != "near" {
		t.Fatalf("expected neighbouring snack, got %+v", got)
	}
	if _, ok := b.Grab(2, 2); ok {
		t.Fatalf("expected empty board")
	}
}

func TestGrabIgnoresFarSnacks(t *testing.T) {
	b := NewWithSource(5, 5, []string{"x"}, rand.NewSource(1))
	b.Place("far", 4, 4)
	if _, ok := b.Grab(1, 1); ok {
		t.Fatalf("expected far snack to be out of reach")
	}
	if _, ok := b.At(4, 4); !ok {
		t.Fatalf("expected far snack to remain")
	}
}

func TestResizeDiscardsOutside(t *testing.T) {
	b := NewWithSource(10, 10, []string{"x"}, rand.NewSource(1))
	b.Place("x", 8, 1)
	b.Place("x", 1, 1)
	b.Resize(5, 5)
	if len(b.Snacks()) != 1 {
		t.Fatalf("expected 1 snack after resize, got %d", len(b.Snacks()))
	}
}
