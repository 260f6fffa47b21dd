package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ptcgp/data-api/internal/models"
	"github.com/ptcgp/data-api/internal/store"
)

// UserHandler serves the mutable endpoints: user have/want lists, trade
// matching, decks and groups.
type UserHandler struct {
	stores store.Stores
}

func NewUserHandler(stores store.Stores) *UserHandler {
	return &UserHandler{stores: stores}
}

func validationError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error": err.Error(),
		"code":  "VALIDATION_BODY",
	})
}

func internalError(c *gin.Context, err error) {
	log.Printf("store error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "internal server error",
		"code":  "INTERNAL",
	})
}

// SetHave stores the cards a user owns.
func (h *UserHandler) SetHave(c *gin.Context) {
	var payload models.CardList
	if err := c.ShouldBindJSON(&payload); err != nil {
		validationError(c, err)
		return
	}
	user, err := h.stores.Users.SetHave(c.Param("id"), payload.Cards)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// SetWant stores the cards a user is looking for.
func (h *UserHandler) SetWant(c *gin.Context) {
	var payload models.CardList
	if err := c.ShouldBindJSON(&payload); err != nil {
		validationError(c, err)
		return
	}
	user, err := h.stores.Users.SetWant(c.Param("id"), payload.Cards)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUser returns the stored card lists for a single user.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, found, err := h.stores.Users.Get(c.Param("id"))
	if err != nil {
		internalError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "user not found",
			"code":  "USER_NOT_FOUND",
		})
		return
	}
	c.JSON(http.StatusOK, user)
}

// TradeMatches returns simple trade suggestions between all known users.
func (h *UserHandler) TradeMatches(c *gin.Context) {
	matches, err := h.stores.Users.TradeMatches()
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}

// CreateDeck creates a new deck and returns it.
func (h *UserHandler) CreateDeck(c *gin.Context) {
	var payload models.DeckCreate
	if err := c.ShouldBindJSON(&payload); err != nil {
		validationError(c, err)
		return
	}
	deck, err := h.stores.Decks.Create(payload.Name, payload.Cards)
	if err != nil {
		internalError(c, err)
		return
	}
	log.Printf("Created deck %s with %d cards", deck.ID, len(deck.Cards))
	c.JSON(http.StatusOK, deck)
}

// ListDecks lists all created decks.
func (h *UserHandler) ListDecks(c *gin.Context) {
	decks, err := h.stores.Decks.List()
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, decks)
}

// GetDeck returns a deck by its ID.
func (h *UserHandler) GetDeck(c *gin.Context) {
	deck, found, err := h.stores.Decks.Get(c.Param("id"))
	if err != nil {
		internalError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "deck not found",
			"code":  "DECK_NOT_FOUND",
		})
		return
	}
	c.JSON(http.StatusOK, deck)
}

// VoteDeck applies an up or down vote to a deck.
func (h *UserHandler) VoteDeck(c *gin.Context) {
	delta := 0
	switch c.Query("vote") {
	case "up":
		delta = 1
	case "down":
		delta = -1
	default:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "vote must be 'up' or 'down'",
			"code":  "VALIDATION_VOTE",
		})
		return
	}

	deck, found, err := h.stores.Decks.Vote(c.Param("id"), delta)
	if err != nil {
		internalError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "deck not found",
			"code":  "DECK_NOT_FOUND",
		})
		return
	}
	c.JSON(http.StatusOK, deck)
}

// CreateGroup creates a new group and returns it.
func (h *UserHandler) CreateGroup(c *gin.Context) {
	var payload models.GroupCreate
	if err := c.ShouldBindJSON(&payload); err != nil {
		validationError(c, err)
		return
	}
	group, err := h.stores.Groups.Create(payload.Name)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// JoinGroup adds a user to a group.
func (h *UserHandler) JoinGroup(c *gin.Context) {
	var payload models.JoinGroupRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		validationError(c, err)
		return
	}
	group, found, err := h.stores.Groups.Join(c.Param("id"), payload.UserID)
	if err != nil {
		internalError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "group not found",
			"code":  "GROUP_NOT_FOUND",
		})
		return
	}
	c.JSON(http.StatusOK, group)
}

// GetGroup returns a group by its ID.
func (h *UserHandler) GetGroup(c *gin.Context) {
	group, found, err := h.stores.Groups.Get(c.Param("id"))
	if err != nil {
		internalError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "group not found",
			"code":  "GROUP_NOT_FOUND",
		})
		return
	}
	c.JSON(http.StatusOK, group)
}
