package score

import "testing"

func TestDefaultCatalogValues(t *testing.T) {
	cat := DefaultCatalog()
	if cat.Len() != 16 {
		t.Fatalf("expected 16 items, got %d", cat.Len())
	}
	if got := cat.Value("🧁"); got != 25 {
		t.Fatalf("expected 25 for cupcake, got %d", got)
	}
	if got := cat.Value("nope"); got != DefaultBaseValue {
		t.Fatalf("expected fallback %d, got %d", DefaultBaseValue, got)
	}
	items := cat.Items()
	if items[0].ID != "🧁" || items[len(items)-1].ID != "🍬" {
		t.Fatalf("unexpected order: first %q last %q", items[0].ID, items[len(items)-1].ID)
	}
}

func TestNewCatalogOverridesDuplicates(t *testing.T) {
	cat := NewCatalog([]Item{{ID: "x", Value: 1}, {ID: "", Value: 5}, {ID: "x", Value: 3}}, 7)
	if cat.Len() != 1 {
		t.Fatalf("expected 1 item, got %d", cat.Len())
	}
	if got := cat.Value("x"); got != 3 {
		t.Fatalf("expected override value 3, got %d", got)
	}
	if cat.Default() != 7 || cat.Known("y") {
		t.Fatalf("unexpected fallback handling")
	}
}
