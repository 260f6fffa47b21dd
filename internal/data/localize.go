package data

// Card is a raw card record as decoded from cards.json. Translated fields are
// nested maps keyed by language code; everything else is plain JSON values.
type Card = map[string]any

// Languages lists the recognized language codes in sorted order. The sorted
// order doubles as the tie-break when a translated field contains neither the
// requested nor the default language.
var Languages = []string{"de", "en", "es", "fr", "it", "ko", "pt-br"}

// DefaultLanguage is the fallback used when a translated field does not
// contain the requested language.
const DefaultLanguage = "de"

var languageSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Languages))
	for _, code := range Languages {
		m[code] = struct{}{}
	}
	return m
}()

// IsLanguage reports whether code is one of the recognized language codes.
func IsLanguage(code string) bool {
	_, ok := languageSet[code]
	return ok
}

// Resolve reduces translated fields in node to a single language. Lists are
// resolved element-wise. A map that contains at least one language code among
// its keys is a translated leaf: the requested language wins, then the default
// language, then the first present language in sorted order. Maps without
// language keys are structural and resolved value-wise. Scalars pass through.
func Resolve(node any, lang, defaultLang string) any {
	switch v := node.(type) {
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = Resolve(item, lang, defaultLang)
		}
		return out
	case map[string]any:
		if hasLanguageKey(v) {
			if val, ok := v[lang]; ok {
				return Resolve(val, lang, defaultLang)
			}
			if val, ok := v[defaultLang]; ok {
				return Resolve(val, lang, defaultLang)
			}
			for _, code := range Languages {
				if val, ok := v[code]; ok {
					return Resolve(val, lang, defaultLang)
				}
			}
		}
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = Resolve(val, lang, defaultLang)
		}
		return out
	default:
		return node
	}
}

func hasLanguageKey(m map[string]any) bool {
	for k := range m {
		if _, ok := languageSet[k]; ok {
			return true
		}
	}
	return false
}
