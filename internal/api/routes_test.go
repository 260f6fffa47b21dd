package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ptcgp/data-api/internal/data"
	"github.com/ptcgp/data-api/internal/store"
)

const testAPIKey = "testkey"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("API_KEY", testAPIKey)
	os.Exit(m.Run())
}

type stubImages struct{}

func (stubImages) Resolve(_ context.Context, lang, setID, localID string) string {
	return fmt.Sprintf("https://assets.example/%s/%s/%s/high.webp", lang, setID, localID)
}

func writeTestJSON(t *testing.T, path string, v any) {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshaling %s: %v", path, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	dir := t.TempDir()
	cards := []map[string]any{
		{
			"set_id":   "A1",
			"category": "Pokemon",
			"name":     map[string]any{"de": "Arceus", "en": "Arceus"},
			"types":    []any{"Metal"},
			"rarity":   "Common",
			"hp":       "60",
		},
		{
			"set_id":   "A1",
			"category": "Pokemon",
			"name":     map[string]any{"de": "Pikachu", "en": "Pikachu"},
			"types":    []any{"Electric"},
			"rarity":   "Rare",
			"hp":       float64(70),
		},
		{
			"set_id":      "A2",
			"category":    "Trainer",
			"trainerType": "Item",
			"name":        map[string]any{"de": "Trank", "en": "Potion"},
			"rarity":      "Common",
		},
	}
	sets := []map[string]any{
		{"id": "A1", "name": map[string]any{"de": "Unschlagbare Gene", "en": "Genetic Apex"}},
		{"id": "A2", "name": map[string]any{"de": "Mysteriöse Insel", "en": "Mythical Island"}},
	}
	events := []map[string]any{{"id": "ev1", "name": "Launch Event"}}
	tournaments := []map[string]any{{"id": "tr1", "name": "Weekly Cup"}}

	writeTestJSON(t, filepath.Join(dir, "cards.json"), cards)
	writeTestJSON(t, filepath.Join(dir, "sets.json"), sets)
	writeTestJSON(t, filepath.Join(dir, "events.json"), events)
	writeTestJSON(t, filepath.Join(dir, "tournaments.json"), tournaments)

	dataset, err := data.Load(dir)
	if err != nil {
		t.Fatalf("loading dataset: %v", err)
	}
	return SetupRouter(dataset, stubImages{}, store.NewMemoryStores())
}

func doGET(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func doPOST(r *gin.Engine, path string, body any, key string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	r.ServeHTTP(w, req)
	return w
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding list response: %v (body %s)", err, w.Body.String())
	}
	return out
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decoding object response: %v (body %s)", err, w.Body.String())
	}
	return out
}

func TestHealth(t *testing.T) {
	w := doGET(newTestRouter(t), "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := decodeObject(t, w)["status"]; got != "ok" {
		t.Errorf("expected status ok, got %v", got)
	}
}

func TestGetCardsDefaults(t *testing.T) {
	w := doGET(newTestRouter(t), "/cards")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", w.Code, w.Body.String())
	}

	cards := decodeList(t, w)
	if len(cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(cards))
	}
	// Default language is de and cards come back in load order
	if cards[0]["id"] != "001" || cards[0]["name"] != "Arceus" {
		t.Errorf("unexpected first card %v", cards[0])
	}
	if cards[2]["name"] != "Trank" {
		t.Errorf("expected German name for third card, got %v", cards[2]["name"])
	}
	if _, leaked := cards[0]["_local_id"]; leaked {
		t.Error("internal local id leaked into response")
	}
	if img, _ := cards[0]["image"].(string); !strings.Contains(img, "/de/A1/001/") {
		t.Errorf("unexpected image URL %v", cards[0]["image"])
	}
}

func TestGetCardsFiltered(t *testing.T) {
	r := newTestRouter(t)

	w := doGET(r, "/cards?type=Metal&lang=en")
	cards := decodeList(t, w)
	if len(cards) != 1 || cards[0]["id"] != "001" {
		t.Errorf("expected only card 001, got %v", cards)
	}

	w = doGET(r, "/cards?set_id=A1&hp_min=70")
	cards = decodeList(t, w)
	if len(cards) != 1 || cards[0]["id"] != "002" {
		t.Errorf("expected only card 002, got %v", cards)
	}

	w = doGET(r, "/cards?limit=1&offset=1")
	cards = decodeList(t, w)
	if len(cards) != 1 || cards[0]["id"] != "002" {
		t.Errorf("expected page [002], got %v", cards)
	}
}

func TestGetCardsValidation(t *testing.T) {
	r := newTestRouter(t)

	w := doGET(r, "/cards?lang=jp")
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for bad language, got %d", w.Code)
	}
	if got := decodeObject(t, w)["code"]; got != "VALIDATION_LANG" {
		t.Errorf("expected VALIDATION_LANG, got %v", got)
	}

	w = doGET(r, "/cards?hp_min=abc")
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for bad integer, got %d", w.Code)
	}
	if got := decodeObject(t, w)["code"]; got != "VALIDATION_INT" {
		t.Errorf("expected VALIDATION_INT, got %v", got)
	}
}

func TestGetCard(t *testing.T) {
	r := newTestRouter(t)

	w := doGET(r, "/cards/003?lang=en")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	card := decodeObject(t, w)
	if card["name"] != "Potion" {
		t.Errorf("expected English name Potion, got %v", card["name"])
	}
	set, _ := card["set"].(map[string]any)
	if set == nil || set["name"] != "Mythical Island" {
		t.Errorf("expected embedded localized set, got %v", card["set"])
	}

	w = doGET(r, "/cards/999")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if got := decodeObject(t, w)["code"]; got != "CARD_NOT_FOUND" {
		t.Errorf("expected CARD_NOT_FOUND, got %v", got)
	}
}

func TestSearchCards(t *testing.T) {
	r := newTestRouter(t)

	w := doGET(r, "/cards/search?q=arceus&lang=en")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	cards := decodeList(t, w)
	if len(cards) != 1 || cards[0]["id"] != "001" {
		t.Errorf("expected only card 001, got %v", cards)
	}

	w = doGET(r, "/cards/search")
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for missing query, got %d", w.Code)
	}
	if got := decodeObject(t, w)["code"]; got != "VALIDATION_QUERY" {
		t.Errorf("expected VALIDATION_QUERY, got %v", got)
	}
}

func TestSetsEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := doGET(r, "/sets?lang=en")
	sets := decodeList(t, w)
	if len(sets) != 2 || sets[0]["name"] != "Genetic Apex" {
		t.Errorf("unexpected sets %v", sets)
	}

	w = doGET(r, "/sets/A2?lang=en")
	if got := decodeObject(t, w)["name"]; got != "Mythical Island" {
		t.Errorf("expected Mythical Island, got %v", got)
	}

	w = doGET(r, "/sets/ZZ")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if got := decodeObject(t, w)["code"]; got != "SET_NOT_FOUND" {
		t.Errorf("expected SET_NOT_FOUND, got %v", got)
	}
}

func TestEventsAndTournaments(t *testing.T) {
	r := newTestRouter(t)

	events := decodeList(t, doGET(r, "/events"))
	if len(events) != 1 || events[0]["name"] != "Launch Event" {
		t.Errorf("unexpected events %v", events)
	}
	tournaments := decodeList(t, doGET(r, "/tournaments"))
	if len(tournaments) != 1 || tournaments[0]["name"] != "Weekly Cup" {
		t.Errorf("unexpected tournaments %v", tournaments)
	}
}

func TestWriteEndpointsRequireAPIKey(t *testing.T) {
	r := newTestRouter(t)

	w := doPOST(r, "/decks", map[string]any{"name": "x"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without key, got %d", w.Code)
	}

	w = doPOST(r, "/decks", map[string]any{"name": "x"}, "wrong")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong key, got %d", w.Code)
	}
	if got := decodeObject(t, w)["code"]; got != "AUTH_INVALID_KEY" {
		t.Errorf("expected AUTH_INVALID_KEY, got %v", got)
	}
}

func TestDeckEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := doPOST(r, "/decks", map[string]any{"name": "Mewtwo Rush", "cards": []string{"001", "002"}}, testAPIKey)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", w.Code, w.Body.String())
	}
	deck := decodeObject(t, w)
	deckID, _ := deck["id"].(string)
	if deckID == "" {
		t.Fatal("expected deck id in response")
	}

	decks := decodeList(t, doGET(r, "/decks"))
	if len(decks) != 1 || decks[0]["name"] != "Mewtwo Rush" {
		t.Errorf("unexpected decks %v", decks)
	}

	w = doPOST(r, "/decks/"+deckID+"/vote?vote=up", nil, testAPIKey)
	if got := decodeObject(t, w)["votes"]; got != float64(1) {
		t.Errorf("expected 1 vote, got %v", got)
	}

	w = doPOST(r, "/decks/"+deckID+"/vote?vote=sideways", nil, testAPIKey)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for bad vote, got %d", w.Code)
	}
	if got := decodeObject(t, w)["code"]; got != "VALIDATION_VOTE" {
		t.Errorf("expected VALIDATION_VOTE, got %v", got)
	}

	w = doGET(r, "/decks/missing")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestGroupEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := doPOST(r, "/groups", map[string]any{"name": "Gym Leaders"}, testAPIKey)
	group := decodeObject(t, w)
	groupID, _ := group["id"].(string)
	if groupID == "" {
		t.Fatal("expected group id in response")
	}

	w = doPOST(r, "/groups/"+groupID+"/join", map[string]any{"user_id": "ash"}, testAPIKey)
	joined := decodeObject(t, w)
	members, _ := joined["members"].([]any)
	if len(members) != 1 || members[0] != "ash" {
		t.Errorf("unexpected members %v", joined["members"])
	}

	// user_id is required
	w = doPOST(r, "/groups/"+groupID+"/join", map[string]any{}, testAPIKey)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for missing user_id, got %d", w.Code)
	}

	w = doGET(r, "/groups/" + groupID)
	if got := decodeObject(t, w)["name"]; got != "Gym Leaders" {
		t.Errorf("unexpected group %v", got)
	}

	w = doGET(r, "/groups/missing")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestUserAndTradeEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := doPOST(r, "/users/ash/have", map[string]any{"cards": []string{"001"}}, testAPIKey)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", w.Code, w.Body.String())
	}
	doPOST(r, "/users/ash/want", map[string]any{"cards": []string{"002"}}, testAPIKey)
	doPOST(r, "/users/misty/have", map[string]any{"cards": []string{"002"}}, testAPIKey)
	doPOST(r, "/users/misty/want", map[string]any{"cards": []string{"001"}}, testAPIKey)

	user := decodeObject(t, doGET(r, "/users/ash"))
	haves, _ := user["have"].([]any)
	if len(haves) != 1 || haves[0] != "001" {
		t.Errorf("unexpected have list %v", user["have"])
	}

	w = doGET(r, "/users/unknown")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if got := decodeObject(t, w)["code"]; got != "USER_NOT_FOUND" {
		t.Errorf("expected USER_NOT_FOUND, got %v", got)
	}

	matches := decodeList(t, doGET(r, "/trades/matches"))
	if len(matches) != 1 || matches[0]["user_a"] != "ash" || matches[0]["user_b"] != "misty" {
		t.Errorf("unexpected matches %v", matches)
	}

	// Missing cards field fails body validation
	w = doPOST(r, "/users/ash/have", map[string]any{}, testAPIKey)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for missing cards, got %d", w.Code)
	}
	if got := decodeObject(t, w)["code"]; got != "VALIDATION_BODY" {
		t.Errorf("expected VALIDATION_BODY, got %v", got)
	}
}
