package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/snacktap/internal/generator"
	"github.com/verte-zerg/snacktap/internal/model"
	"github.com/verte-zerg/snacktap/internal/score"
)

func TestRenderFooterFormats(t *testing.T) {
	engine := score.New(score.DefaultCatalog(), score.DefaultRules())
	m := NewModel(model.Config{Width: 4, Height: 4}, engine, nil, generator.New(4, 4, nil))
	engine.ItemConsumed("🧁", 0)
	engine.ItemConsumed("🍟", 300)
	m.missed = 2

	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"Score 37", "Combo x2 (+2)", "Scoring on", "Eaten 2", "Missed 2"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterHidesSingleCombo(t *testing.T) {
	engine := score.New(score.DefaultCatalog(), score.DefaultRules())
	m := NewModel(model.Config{Width: 4, Height: 4}, engine, nil, generator.New(4, 4, nil))
	engine.ItemConsumed("🧁", 0)
	engine.ToggleActive()

	out := m.renderFooter()
	if strings.Contains(out, "Combo") {
		t.Fatalf("expected no combo segment: %s", out)
	}
	if !strings.Contains(out, "Scoring off") {
		t.Fatalf("expected scoring off segment: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
