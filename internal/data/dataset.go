package data

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// localIDKey is the internal field holding a card's per-set sequence number.
// It is used to build asset URLs and stripped from responses.
const localIDKey = "_local_id"

type idSet map[string]struct{}

// Dataset holds the card, set, event and tournament data plus all indexes.
// It is built once at startup and never mutated afterwards, so concurrent
// request handlers read it without locking.
type Dataset struct {
	Cards       []Card
	CardsByID   map[string]Card
	Sets        map[string]map[string]any
	SetOrder    []string
	Events      []map[string]any
	Tournaments []map[string]any

	bySet         map[string]idSet
	byType        map[string]idSet
	byRarity      map[string]idSet
	byTrainerType map[string]idSet

	search SearchIndex
}

// Load reads cards.json, sets.json, events.json and tournaments.json from
// dataDir and builds all indexes. A missing file is an error; the server must
// not start without its dataset.
func Load(dataDir string) (*Dataset, error) {
	paths := map[string]string{
		"cards":       filepath.Join(dataDir, "cards.json"),
		"sets":        filepath.Join(dataDir, "sets.json"),
		"events":      filepath.Join(dataDir, "events.json"),
		"tournaments": filepath.Join(dataDir, "tournaments.json"),
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("required data file not found: %s", p)
		}
	}

	var rawCards []Card
	if err := readJSON(paths["cards"], &rawCards); err != nil {
		return nil, err
	}
	var rawSets []map[string]any
	if err := readJSON(paths["sets"], &rawSets); err != nil {
		return nil, err
	}

	d := &Dataset{
		CardsByID:     make(map[string]Card),
		Sets:          make(map[string]map[string]any, len(rawSets)),
		bySet:         make(map[string]idSet),
		byType:        make(map[string]idSet),
		byRarity:      make(map[string]idSet),
		byTrainerType: make(map[string]idSet),
	}
	if err := readJSON(paths["events"], &d.Events); err != nil {
		return nil, err
	}
	if err := readJSON(paths["tournaments"], &d.Tournaments); err != nil {
		return nil, err
	}

	for _, set := range rawSets {
		id, _ := set["id"].(string)
		if id == "" {
			continue
		}
		d.Sets[id] = set
		d.SetOrder = append(d.SetOrder, id)
	}

	// Assign global and per-set local ids in input order and build the
	// category indexes in the same pass.
	setCounter := make(map[string]int)
	d.Cards = make([]Card, 0, len(rawCards))
	for i, raw := range rawCards {
		setID, _ := raw["set_id"].(string)
		setCounter[setID]++

		card := make(Card, len(raw)+2)
		for k, v := range raw {
			card[k] = v
		}
		id := fmt.Sprintf("%03d", i+1)
		card["id"] = id
		card[localIDKey] = fmt.Sprintf("%03d", setCounter[setID])

		d.Cards = append(d.Cards, card)
		d.CardsByID[id] = card

		d.indexInsert(d.bySet, setID, id)
		if types, ok := card["types"].([]any); ok {
			for _, t := range types {
				if s, ok := t.(string); ok {
					d.indexInsert(d.byType, s, id)
				}
			}
		}
		if rarity, ok := card["rarity"].(string); ok {
			d.indexInsert(d.byRarity, rarity, id)
		}
		if trainerType, ok := card["trainerType"].(string); ok {
			d.indexInsert(d.byTrainerType, trainerType, id)
		}
	}

	d.search = BuildSearchIndex(d.Cards)

	log.Printf("Dataset loaded: %d cards, %d sets, %d events, %d tournaments",
		len(d.Cards), len(d.Sets), len(d.Events), len(d.Tournaments))

	return d, nil
}

func (d *Dataset) indexInsert(index map[string]idSet, key, id string) {
	if key == "" {
		return
	}
	ids, ok := index[key]
	if !ok {
		ids = make(idSet)
		index[key] = ids
	}
	ids[id] = struct{}{}
}

// GetCard returns the raw card for a global id.
func (d *Dataset) GetCard(id string) (Card, bool) {
	card, ok := d.CardsByID[id]
	return card, ok
}

// GetSet returns the raw set object for a set id.
func (d *Dataset) GetSet(id string) (map[string]any, bool) {
	set, ok := d.Sets[id]
	return set, ok
}

// SetsInOrder returns all set objects in dataset order.
func (d *Dataset) SetsInOrder() []map[string]any {
	out := make([]map[string]any, 0, len(d.SetOrder))
	for _, id := range d.SetOrder {
		out = append(out, d.Sets[id])
	}
	return out
}

// CardCount returns the number of loaded cards.
func (d *Dataset) CardCount() int { return len(d.Cards) }

// SetCount returns the number of loaded sets.
func (d *Dataset) SetCount() int { return len(d.Sets) }

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
