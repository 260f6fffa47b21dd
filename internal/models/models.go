package models

// CardList carries a list of card IDs for the user have/want endpoints.
type CardList struct {
	Cards []string `json:"cards" binding:"required"`
}

// UserCards is the stored card lists for one user, sorted for responses.
type UserCards struct {
	User string   `json:"user"`
	Have []string `json:"have"`
	Want []string `json:"want"`
}

// TradeMatch names two users whose have/want lists overlap both ways.
type TradeMatch struct {
	UserA string `json:"user_a"`
	UserB string `json:"user_b"`
}

// DeckCreate is the payload for creating a deck.
type DeckCreate struct {
	Name  string   `json:"name" binding:"required"`
	Cards []string `json:"cards" binding:"required"`
}

// Deck is a stored deck with its vote counter.
type Deck struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Cards []string `json:"cards"`
	Votes int      `json:"votes"`
}

// GroupCreate is the payload for creating a group.
type GroupCreate struct {
	Name string `json:"name" binding:"required"`
}

// Group is a stored group and its member list.
type Group struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// JoinGroupRequest is the payload for joining a group.
type JoinGroupRequest struct {
	UserID string `json:"user_id" binding:"required"`
}
