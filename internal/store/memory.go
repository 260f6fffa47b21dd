package store

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ptcgp/data-api/internal/metrics"
	"github.com/ptcgp/data-api/internal/models"
)

// NewMemoryStores returns the in-memory backend. All state is lost on
// restart.
func NewMemoryStores() Stores {
	return Stores{
		Decks:  &memoryDeckStore{decks: make(map[string]models.Deck)},
		Groups: &memoryGroupStore{groups: make(map[string]models.Group)},
		Users:  &memoryUserStore{users: make(map[string]*userEntry)},
	}
}

type memoryDeckStore struct {
	mu    sync.RWMutex
	decks map[string]models.Deck
	order []string
}

func (s *memoryDeckStore) Create(name string, cards []string) (models.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deck := models.Deck{
		ID:    uuid.New().String(),
		Name:  name,
		Cards: append([]string(nil), cards...),
	}
	s.decks[deck.ID] = deck
	s.order = append(s.order, deck.ID)
	metrics.StoreWritesTotal.WithLabelValues("decks").Inc()
	return deck, nil
}

func (s *memoryDeckStore) List() ([]models.Deck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Deck, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.decks[id])
	}
	return out, nil
}

func (s *memoryDeckStore) Get(id string) (models.Deck, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deck, ok := s.decks[id]
	return deck, ok, nil
}

func (s *memoryDeckStore) Vote(id string, delta int) (models.Deck, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deck, ok := s.decks[id]
	if !ok {
		return models.Deck{}, false, nil
	}
	deck.Votes += delta
	s.decks[id] = deck
	metrics.StoreWritesTotal.WithLabelValues("decks").Inc()
	return deck, true, nil
}

type memoryGroupStore struct {
	mu     sync.RWMutex
	groups map[string]models.Group
}

func (s *memoryGroupStore) Create(name string) (models.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group := models.Group{
		ID:      uuid.New().String(),
		Name:    name,
		Members: []string{},
	}
	s.groups[group.ID] = group
	metrics.StoreWritesTotal.WithLabelValues("groups").Inc()
	return group, nil
}

func (s *memoryGroupStore) Join(id, userID string) (models.Group, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.groups[id]
	if !ok {
		return models.Group{}, false, nil
	}
	joined := false
	for _, m := range group.Members {
		if m == userID {
			joined = true
			break
		}
	}
	if !joined {
		group.Members = append(group.Members, userID)
		s.groups[id] = group
		metrics.StoreWritesTotal.WithLabelValues("groups").Inc()
	}
	return group, true, nil
}

func (s *memoryGroupStore) Get(id string) (models.Group, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group, ok := s.groups[id]
	return group, ok, nil
}

type userEntry struct {
	have map[string]struct{}
	want map[string]struct{}
}

type memoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*userEntry
	order []string
}

func (s *memoryUserStore) entry(user string) *userEntry {
	e, ok := s.users[user]
	if !ok {
		e = &userEntry{have: make(map[string]struct{}), want: make(map[string]struct{})}
		s.users[user] = e
		s.order = append(s.order, user)
	}
	return e
}

func (s *memoryUserStore) SetHave(user string, cards []string) (models.UserCards, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entry(user)
	e.have = toSet(cards)
	metrics.StoreWritesTotal.WithLabelValues("users").Inc()
	return userCards(user, e), nil
}

func (s *memoryUserStore) SetWant(user string, cards []string) (models.UserCards, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entry(user)
	e.want = toSet(cards)
	metrics.StoreWritesTotal.WithLabelValues("users").Inc()
	return userCards(user, e), nil
}

func (s *memoryUserStore) Get(user string) (models.UserCards, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.users[user]
	if !ok {
		return models.UserCards{}, false, nil
	}
	return userCards(user, e), true, nil
}

func (s *memoryUserStore) TradeMatches() ([]models.TradeMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := []models.TradeMatch{}
	for i, a := range s.order {
		for _, b := range s.order[i+1:] {
			ua, ub := s.users[a], s.users[b]
			if intersects(ua.have, ub.want) && intersects(ub.have, ua.want) {
				matches = append(matches, models.TradeMatch{UserA: a, UserB: b})
			}
		}
	}
	return matches, nil
}

func toSet(cards []string) map[string]struct{} {
	set := make(map[string]struct{}, len(cards))
	for _, c := range cards {
		set[c] = struct{}{}
	}
	return set
}

func intersects(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

func userCards(user string, e *userEntry) models.UserCards {
	return models.UserCards{
		User: user,
		Have: sortedKeys(e.have),
		Want: sortedKeys(e.want),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
