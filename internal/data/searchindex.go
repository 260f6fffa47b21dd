package data

import (
	"fmt"
	"strings"
)

// SearchEntry holds the precomputed lowercase text blobs for one card in one
// language. Full is the space-joined concatenation of the other three.
type SearchEntry struct {
	Name      string
	Abilities string
	Attacks   string
	Full      string
}

// SearchIndex maps card id -> language -> search blobs.
type SearchIndex map[string]map[string]SearchEntry

// BuildSearchIndex precomputes the search blobs for every card and every
// recognized language. Runs once at startup; the result is immutable.
func BuildSearchIndex(cards []Card) SearchIndex {
	index := make(SearchIndex, len(cards))
	for _, card := range cards {
		id, _ := card["id"].(string)
		perLang := make(map[string]SearchEntry, len(Languages))
		for _, lang := range Languages {
			name := resolveText(card["name"], lang)

			var abilityParts []string
			if abilities, ok := card["abilities"].([]any); ok {
				for _, a := range abilities {
					ability, _ := a.(map[string]any)
					abilityParts = append(abilityParts,
						resolveText(ability["name"], lang),
						resolveText(ability["effect"], lang))
				}
			}
			abilitiesBlob := strings.Join(abilityParts, " ")

			var attackParts []string
			if attacks, ok := card["attacks"].([]any); ok {
				for _, a := range attacks {
					attack, _ := a.(map[string]any)
					attackParts = append(attackParts,
						resolveText(attack["name"], lang),
						resolveText(attack["effect"], lang))
				}
			}
			attacksBlob := strings.Join(attackParts, " ")

			perLang[lang] = SearchEntry{
				Name:      name,
				Abilities: abilitiesBlob,
				Attacks:   attacksBlob,
				Full:      strings.Join([]string{name, abilitiesBlob, attacksBlob}, " "),
			}
		}
		index[id] = perLang
	}
	return index
}

// resolveText resolves node to lang and lowercases its string form. Missing
// fields become the empty string.
func resolveText(node any, lang string) string {
	if node == nil {
		return ""
	}
	return strings.ToLower(stringify(Resolve(node, lang, DefaultLanguage)))
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}
