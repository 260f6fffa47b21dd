package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ptcgp/data-api/internal/metrics"
	"github.com/ptcgp/data-api/internal/models"
)

// NewSQLiteStores returns the sqlite-backed store set. It migrates the store
// tables on the given connection.
func NewSQLiteStores(db *gorm.DB) (Stores, error) {
	if err := db.AutoMigrate(&deckRecord{}, &groupRecord{}, &userRecord{}); err != nil {
		return Stores{}, fmt.Errorf("store migration failed: %w", err)
	}
	return Stores{
		Decks:  &sqliteDeckStore{db: db},
		Groups: &sqliteGroupStore{db: db},
		Users:  &sqliteUserStore{db: db},
	}, nil
}

type deckRecord struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Cards     string // JSON-encoded card id list
	Votes     int
	CreatedAt time.Time
}

type groupRecord struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Members   string // JSON-encoded member list
	CreatedAt time.Time
}

type userRecord struct {
	User      string `gorm:"primaryKey"`
	Have      string // JSON-encoded card id list
	Want      string // JSON-encoded card id list
	CreatedAt time.Time
}

func encodeList(list []string) string {
	if list == nil {
		list = []string{}
	}
	raw, _ := json.Marshal(list)
	return string(raw)
}

func decodeList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return []string{}
	}
	return list
}

type sqliteDeckStore struct{ db *gorm.DB }

func (s *sqliteDeckStore) Create(name string, cards []string) (models.Deck, error) {
	rec := deckRecord{
		ID:    uuid.New().String(),
		Name:  name,
		Cards: encodeList(cards),
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return models.Deck{}, err
	}
	metrics.StoreWritesTotal.WithLabelValues("decks").Inc()
	return rec.toDeck(), nil
}

func (s *sqliteDeckStore) List() ([]models.Deck, error) {
	var recs []deckRecord
	if err := s.db.Order("created_at").Find(&recs).Error; err != nil {
		return nil, err
	}
	decks := make([]models.Deck, len(recs))
	for i, rec := range recs {
		decks[i] = rec.toDeck()
	}
	return decks, nil
}

func (s *sqliteDeckStore) Get(id string) (models.Deck, bool, error) {
	var rec deckRecord
	err := s.db.First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Deck{}, false, nil
	}
	if err != nil {
		return models.Deck{}, false, err
	}
	return rec.toDeck(), true, nil
}

func (s *sqliteDeckStore) Vote(id string, delta int) (models.Deck, bool, error) {
	var rec deckRecord
	err := s.db.First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Deck{}, false, nil
	}
	if err != nil {
		return models.Deck{}, false, err
	}
	rec.Votes += delta
	if err := s.db.Save(&rec).Error; err != nil {
		return models.Deck{}, false, err
	}
	metrics.StoreWritesTotal.WithLabelValues("decks").Inc()
	return rec.toDeck(), true, nil
}

func (r deckRecord) toDeck() models.Deck {
	return models.Deck{ID: r.ID, Name: r.Name, Cards: decodeList(r.Cards), Votes: r.Votes}
}

type sqliteGroupStore struct{ db *gorm.DB }

func (s *sqliteGroupStore) Create(name string) (models.Group, error) {
	rec := groupRecord{
		ID:      uuid.New().String(),
		Name:    name,
		Members: encodeList(nil),
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return models.Group{}, err
	}
	metrics.StoreWritesTotal.WithLabelValues("groups").Inc()
	return rec.toGroup(), nil
}

func (s *sqliteGroupStore) Join(id, userID string) (models.Group, bool, error) {
	var rec groupRecord
	err := s.db.First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Group{}, false, nil
	}
	if err != nil {
		return models.Group{}, false, err
	}
	members := decodeList(rec.Members)
	joined := false
	for _, m := range members {
		if m == userID {
			joined = true
			break
		}
	}
	if !joined {
		members = append(members, userID)
		rec.Members = encodeList(members)
		if err := s.db.Save(&rec).Error; err != nil {
			return models.Group{}, false, err
		}
		metrics.StoreWritesTotal.WithLabelValues("groups").Inc()
	}
	return rec.toGroup(), true, nil
}

func (s *sqliteGroupStore) Get(id string) (models.Group, bool, error) {
	var rec groupRecord
	err := s.db.First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Group{}, false, nil
	}
	if err != nil {
		return models.Group{}, false, err
	}
	return rec.toGroup(), true, nil
}

func (r groupRecord) toGroup() models.Group {
	return models.Group{ID: r.ID, Name: r.Name, Members: decodeList(r.Members)}
}

type sqliteUserStore struct{ db *gorm.DB }

func (s *sqliteUserStore) upsert(user string, mutate func(*userRecord)) (models.UserCards, error) {
	var rec userRecord
	err := s.db.First(&rec, "user = ?", user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rec = userRecord{User: user, Have: encodeList(nil), Want: encodeList(nil)}
	} else if err != nil {
		return models.UserCards{}, err
	}
	mutate(&rec)
	if err := s.db.Save(&rec).Error; err != nil {
		return models.UserCards{}, err
	}
	metrics.StoreWritesTotal.WithLabelValues("users").Inc()
	return rec.toUserCards(), nil
}

func (s *sqliteUserStore) SetHave(user string, cards []string) (models.UserCards, error) {
	return s.upsert(user, func(rec *userRecord) {
		rec.Have = encodeList(dedupeSorted(cards))
	})
}

func (s *sqliteUserStore) SetWant(user string, cards []string) (models.UserCards, error) {
	return s.upsert(user, func(rec *userRecord) {
		rec.Want = encodeList(dedupeSorted(cards))
	})
}

func (s *sqliteUserStore) Get(user string) (models.UserCards, bool, error) {
	var rec userRecord
	err := s.db.First(&rec, "user = ?", user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UserCards{}, false, nil
	}
	if err != nil {
		return models.UserCards{}, false, err
	}
	return rec.toUserCards(), true, nil
}

func (s *sqliteUserStore) TradeMatches() ([]models.TradeMatch, error) {
	var recs []userRecord
	if err := s.db.Order("created_at").Find(&recs).Error; err != nil {
		return nil, err
	}
	matches := []models.TradeMatch{}
	for i, a := range recs {
		haveA := toSet(decodeList(a.Have))
		wantA := toSet(decodeList(a.Want))
		for _, b := range recs[i+1:] {
			haveB := toSet(decodeList(b.Have))
			wantB := toSet(decodeList(b.Want))
			if intersects(haveA, wantB) && intersects(haveB, wantA) {
				matches = append(matches, models.TradeMatch{UserA: a.User, UserB: b.User})
			}
		}
	}
	return matches, nil
}

func (r userRecord) toUserCards() models.UserCards {
	return models.UserCards{User: r.User, Have: decodeList(r.Have), Want: decodeList(r.Want)}
}

func dedupeSorted(cards []string) []string {
	return sortedKeys(toSet(cards))
}
