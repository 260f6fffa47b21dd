package data

import (
	"context"
	"strconv"
	"strings"
)

// ImageResolver decides the asset URL for a card. The network-backed
// implementation lives in the services package; tests stub it.
type ImageResolver interface {
	Resolve(ctx context.Context, lang, setID, localID string) string
}

// CardFilter holds the query parameters for QueryCards. Nil pointer fields
// mean "not given".
type CardFilter struct {
	SetID       string
	Type        string
	TrainerType string
	Rarity      string

	Category    string
	Stage       string
	EvolveFrom  string
	Booster     string
	Illustrator string
	Suffix      string
	Weakness    string
	HPMin       *int
	HPMax       *int
	RetreatMin  *int
	RetreatMax  *int

	Limit  *int
	Offset int
}

// QueryCards returns the cards matching the filter in dataset order, shaped
// for the requested language. Indexed attributes (set, type, trainer type,
// rarity) narrow the candidate set first; the remaining predicates run as a
// linear scan. Offset and limit apply to the final shaped list.
func (d *Dataset) QueryCards(ctx context.Context, f CardFilter, lang string, images ImageResolver) []Card {
	var candidates idSet
	restricted := false
	narrow := func(index map[string]idSet, key string) {
		if key == "" {
			return
		}
		ids := index[key]
		if !restricted {
			restricted = true
			candidates = make(idSet, len(ids))
			for id := range ids {
				candidates[id] = struct{}{}
			}
			return
		}
		for id := range candidates {
			if _, ok := ids[id]; !ok {
				delete(candidates, id)
			}
		}
	}
	narrow(d.bySet, f.SetID)
	narrow(d.byType, f.Type)
	narrow(d.byTrainerType, f.TrainerType)
	narrow(d.byRarity, f.Rarity)

	result := make([]Card, 0)
	for _, card := range d.Cards {
		if restricted {
			id, _ := card["id"].(string)
			if _, ok := candidates[id]; !ok {
				continue
			}
		}
		if !matchesResidual(card, f) {
			continue
		}
		result = append(result, d.shape(ctx, card, lang, images))
	}

	if f.Offset > 0 {
		if f.Offset >= len(result) {
			result = result[:0]
		} else {
			result = result[f.Offset:]
		}
	}
	if f.Limit != nil && *f.Limit >= 0 && *f.Limit < len(result) {
		result = result[:*f.Limit]
	}
	return result
}

// matchesResidual applies the non-indexed predicates, all with AND semantics.
func matchesResidual(card Card, f CardFilter) bool {
	if f.Category != "" && stringField(card, "category") != f.Category {
		return false
	}
	if f.Stage != "" && stringField(card, "stage") != f.Stage {
		return false
	}
	if f.EvolveFrom != "" && !matchesEvolveFrom(card["evolveFrom"], f.EvolveFrom) {
		return false
	}
	if f.Booster != "" && !containsString(card["boosters"], f.Booster) {
		return false
	}
	if f.Illustrator != "" && stringField(card, "illustrator") != f.Illustrator {
		return false
	}
	if f.Suffix != "" && stringField(card, "suffix") != f.Suffix {
		return false
	}
	if f.HPMin != nil && intField(card, "hp") < *f.HPMin {
		return false
	}
	if f.HPMax != nil && intField(card, "hp") > *f.HPMax {
		return false
	}
	if f.Weakness != "" && !matchesWeakness(card["weaknesses"], f.Weakness) {
		return false
	}
	if f.RetreatMin != nil && intField(card, "retreat") < *f.RetreatMin {
		return false
	}
	if f.RetreatMax != nil && intField(card, "retreat") > *f.RetreatMax {
		return false
	}
	return true
}

// matchesEvolveFrom compares case-insensitively against every value of the
// evolveFrom field, which is either a plain name or a translated mapping.
func matchesEvolveFrom(evo any, want string) bool {
	if evo == nil {
		return false
	}
	var names []any
	if m, ok := evo.(map[string]any); ok {
		for _, v := range m {
			names = append(names, v)
		}
	} else {
		names = []any{evo}
	}
	for _, n := range names {
		if strings.EqualFold(stringify(n), want) {
			return true
		}
	}
	return false
}

func matchesWeakness(weaknesses any, want string) bool {
	list, ok := weaknesses.([]any)
	if !ok {
		return false
	}
	for _, w := range list {
		if m, ok := w.(map[string]any); ok {
			if stringify(m["type"]) == want {
				return true
			}
		}
	}
	return false
}

func containsString(list any, want string) bool {
	items, ok := list.([]any)
	if !ok {
		return false
	}
	for _, item := range items {
		if s, ok := item.(string); ok && s == want {
			return true
		}
	}
	return false
}

func stringField(card Card, key string) string {
	s, _ := card[key].(string)
	return s
}

// intField reads a numeric card field, accepting JSON numbers and numeric
// strings. Missing or unparseable values count as 0.
func intField(card Card, key string) int {
	switch v := card[key].(type) {
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// SearchCards returns the cards whose search blob for lang contains q,
// case-insensitively, in dataset order. If fields names any of name,
// abilities or attacks, matching is restricted to the space-join of those
// blobs; unrecognized names are dropped. No offset or limit applies.
func (d *Dataset) SearchCards(ctx context.Context, q, lang string, fields []string, images ImageResolver) []Card {
	qLower := strings.ToLower(q)

	var requested []string
	for _, f := range fields {
		switch strings.TrimSpace(f) {
		case "name", "abilities", "attacks":
			requested = append(requested, strings.TrimSpace(f))
		}
	}

	result := make([]Card, 0)
	for _, card := range d.Cards {
		id, _ := card["id"].(string)
		entry := d.search[id][lang]

		text := entry.Full
		if len(requested) > 0 {
			parts := make([]string, len(requested))
			for i, f := range requested {
				switch f {
				case "name":
					parts[i] = entry.Name
				case "abilities":
					parts[i] = entry.Abilities
				case "attacks":
					parts[i] = entry.Attacks
				}
			}
			text = strings.Join(parts, " ")
		}

		if strings.Contains(text, qLower) {
			result = append(result, d.shape(ctx, card, lang, images))
		}
	}
	return result
}

// ShapeCard prepares a single card for a response: resolved set attached,
// image URL attached, local id stripped, every field localized.
func (d *Dataset) ShapeCard(ctx context.Context, card Card, lang string, images ImageResolver) Card {
	return d.shape(ctx, card, lang, images)
}

func (d *Dataset) shape(ctx context.Context, card Card, lang string, images ImageResolver) Card {
	setID, _ := card["set_id"].(string)
	localID, _ := card[localIDKey].(string)

	out := make(Card, len(card)+2)
	for k, v := range card {
		out[k] = v
	}
	if set, ok := d.Sets[setID]; ok {
		out["set"] = set
	} else {
		out["set"] = nil
	}
	if images != nil {
		out["image"] = images.Resolve(ctx, lang, setID, localID)
	}
	delete(out, localIDKey)

	resolved, _ := Resolve(out, lang, DefaultLanguage).(map[string]any)
	return resolved
}
