package data

import (
	"reflect"
	"testing"
)

func TestResolveDirectLanguage(t *testing.T) {
	node := map[string]any{"de": "Hallo", "en": "Hi"}

	if got := Resolve(node, "de", DefaultLanguage); got != "Hallo" {
		t.Errorf("expected Hallo, got %v", got)
	}
	if got := Resolve(node, "en", DefaultLanguage); got != "Hi" {
		t.Errorf("expected Hi, got %v", got)
	}
}

func TestResolveDefaultFallback(t *testing.T) {
	node := map[string]any{"de": "Hallo", "fr": "Salut"}

	// ko is not present, default language de wins
	if got := Resolve(node, "ko", "de"); got != "Hallo" {
		t.Errorf("expected default-language fallback Hallo, got %v", got)
	}
}

func TestResolveFirstAvailableFallback(t *testing.T) {
	// Neither the requested nor the default language is present; the first
	// present code in sorted order (en before fr) must win.
	node := map[string]any{"fr": "Salut", "en": "Hi"}

	if got := Resolve(node, "ko", "de"); got != "Hi" {
		t.Errorf("expected sorted-order fallback Hi, got %v", got)
	}
}

func TestResolveDirectKeyBeatsFallback(t *testing.T) {
	node := map[string]any{"de": "Hallo", "en": "Hi", "fr": "Salut"}

	// When the requested language exists, no fallback branch may be taken.
	for _, lang := range []string{"de", "en", "fr"} {
		want := node[lang]
		if got := Resolve(node, lang, "de"); got != want {
			t.Errorf("lang %s: expected %v, got %v", lang, want, got)
		}
	}
}

func TestResolveIdempotentWithDefaultLang(t *testing.T) {
	node := map[string]any{"en": "Hi", "fr": "Salut"}

	// lang == defaultLang yields the same leaf whichever branch is taken
	first := Resolve(node, "en", "en")
	second := Resolve(first, "en", "en")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("resolve not idempotent: %v vs %v", first, second)
	}
}

func TestResolveList(t *testing.T) {
	node := []any{
		map[string]any{"de": "eins", "en": "one"},
		map[string]any{"de": "zwei", "en": "two"},
	}

	got := Resolve(node, "en", "de")
	want := []any{"one", "two"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestResolveStructuralMapping(t *testing.T) {
	node := map[string]any{
		"name":   map[string]any{"de": "Arceus", "en": "Arceus"},
		"stage":  "Basic",
		"attack": map[string]any{"effect": map[string]any{"de": "Schaden", "en": "Damage"}},
	}

	got, ok := Resolve(node, "en", "de").(map[string]any)
	if !ok {
		t.Fatalf("expected map result, got %T", got)
	}
	if got["name"] != "Arceus" || got["stage"] != "Basic" {
		t.Errorf("unexpected resolved top level: %v", got)
	}
	attack, ok := got["attack"].(map[string]any)
	if !ok || attack["effect"] != "Damage" {
		t.Errorf("nested structural mapping not resolved: %v", got["attack"])
	}
}

func TestResolveScalarPassthrough(t *testing.T) {
	if got := Resolve("plain", "en", "de"); got != "plain" {
		t.Errorf("expected plain, got %v", got)
	}
	if got := Resolve(float64(60), "en", "de"); got != float64(60) {
		t.Errorf("expected 60, got %v", got)
	}
	if got := Resolve(nil, "en", "de"); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestIsLanguage(t *testing.T) {
	for _, code := range Languages {
		if !IsLanguage(code) {
			t.Errorf("expected %s to be recognized", code)
		}
	}
	for _, code := range []string{"xx", "EN", "", "jp"} {
		if IsLanguage(code) {
			t.Errorf("expected %s to be rejected", code)
		}
	}
}
