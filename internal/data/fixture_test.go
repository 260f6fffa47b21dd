package data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// stubImages is an ImageResolver that builds deterministic URLs without any
// network access.
type stubImages struct{}

func (stubImages) Resolve(_ context.Context, lang, setID, localID string) string {
	return fmt.Sprintf("https://assets.example/%s/%s/%s/high.webp", lang, setID, localID)
}

// fixtureCards is a small dataset: set A1 with two cards, set A2 with one.
func fixtureCards() []map[string]any {
	return []map[string]any{
		{
			"set_id":   "A1",
			"name":     map[string]any{"de": "Arceus", "en": "Arceus"},
			"category": "Pokemon",
			"stage":    "Basic",
			"types":    []any{"Metal"},
			"rarity":   "Common",
			"hp":       "60",
			"retreat":  2,
			"attacks": []any{
				map[string]any{
					"name":   map[string]any{"de": "Urteil", "en": "Judgment"},
					"effect": map[string]any{"de": "Fügt Schaden zu.", "en": "Deals damage."},
				},
			},
			"weaknesses":  []any{map[string]any{"type": "Fire", "value": "+20"}},
			"boosters":    []any{"Dialga"},
			"illustrator": "A. Artist",
		},
		{
			"set_id":     "A1",
			"name":       map[string]any{"de": "Pikachu", "en": "Pikachu"},
			"category":   "Pokemon",
			"stage":      "Basic",
			"types":      []any{"Electric"},
			"rarity":     "Rare",
			"hp":         float64(70),
			"retreat":    1,
			"evolveFrom": map[string]any{"de": "Pichu", "en": "Pichu"},
			"attacks": []any{
				map[string]any{
					"name":   map[string]any{"de": "Donnerschock", "en": "Thunder Shock"},
					"effect": map[string]any{"de": "Arceus auf der Bank wird geheilt.", "en": "If Arceus is on your bench, heal it."},
				},
			},
		},
		{
			"set_id":      "A2",
			"name":        map[string]any{"de": "Trank", "en": "Potion"},
			"category":    "Trainer",
			"trainerType": "Item",
			"rarity":      "Common",
		},
	}
}

func fixtureSets() []map[string]any {
	return []map[string]any{
		{"id": "A1", "name": map[string]any{"de": "Unschlagbare Gene", "en": "Genetic Apex"}},
		{"id": "A2", "name": map[string]any{"de": "Mysteriöse Insel", "en": "Mythical Island"}},
	}
}

// writeFixture writes the fixture dataset to a temp dir and returns it.
func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeJSON(t, dir, "cards.json", fixtureCards())
	writeJSON(t, dir, "sets.json", fixtureSets())
	writeJSON(t, dir, "events.json", []map[string]any{})
	writeJSON(t, dir, "tournaments.json", []map[string]any{})
	return dir
}

func writeJSON(t *testing.T, dir, name string, v any) {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), raw, 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

// loadFixture loads the fixture dataset.
func loadFixture(t *testing.T) *Dataset {
	t.Helper()
	d, err := Load(writeFixture(t))
	if err != nil {
		t.Fatalf("load fixture dataset: %v", err)
	}
	return d
}
