// Package store holds the mutable deck, group and user repositories. The
// default backend keeps everything in memory and is lost on restart; a
// sqlite-backed variant can be selected at startup for persistence.
package store

import "github.com/ptcgp/data-api/internal/models"

// DeckStore manages created decks and their votes.
type DeckStore interface {
	Create(name string, cards []string) (models.Deck, error)
	List() ([]models.Deck, error)
	Get(id string) (models.Deck, bool, error)
	Vote(id string, delta int) (models.Deck, bool, error)
}

// GroupStore manages groups and their members.
type GroupStore interface {
	Create(name string) (models.Group, error)
	Join(id, userID string) (models.Group, bool, error)
	Get(id string) (models.Group, bool, error)
}

// UserStore manages per-user have/want card lists and trade matching.
type UserStore interface {
	SetHave(user string, cards []string) (models.UserCards, error)
	SetWant(user string, cards []string) (models.UserCards, error)
	Get(user string) (models.UserCards, bool, error)
	// TradeMatches returns every user pair (a, b), a seen before b, where
	// a has something b wants and b has something a wants.
	TradeMatches() ([]models.TradeMatch, error)
}

// Stores bundles the three repositories for handler wiring.
type Stores struct {
	Decks  DeckStore
	Groups GroupStore
	Users  UserStore
}
