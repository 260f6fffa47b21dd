package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ptcgp/data-api/internal/data"
	"github.com/ptcgp/data-api/internal/metrics"
)

// CardHandler serves the card read endpoints backed by the immutable dataset.
type CardHandler struct {
	dataset *data.Dataset
	images  data.ImageResolver
}

func NewCardHandler(dataset *data.Dataset, images data.ImageResolver) *CardHandler {
	return &CardHandler{dataset: dataset, images: images}
}

// langParam validates the lang query parameter against the recognized codes.
// Invalid codes are rejected before the query engine sees them.
func langParam(c *gin.Context) (string, bool) {
	lang := c.DefaultQuery("lang", data.DefaultLanguage)
	if !data.IsLanguage(lang) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "unrecognized language code: " + lang,
			"code":  "VALIDATION_LANG",
		})
		return "", false
	}
	return lang, true
}

// intParam parses an optional integer query parameter. A malformed value is
// a validation error.
func intParam(c *gin.Context, name string) (*int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "invalid integer for parameter " + name,
			"code":  "VALIDATION_INT",
		})
		return nil, false
	}
	return &n, true
}

// GetCards returns cards filtered by query parameters. Indexed attributes
// narrow candidates via the category indexes; the remaining predicates run
// as a linear scan over the candidate set.
func (h *CardHandler) GetCards(c *gin.Context) {
	lang, ok := langParam(c)
	if !ok {
		return
	}

	filter := data.CardFilter{
		SetID:       c.Query("set_id"),
		Type:        c.Query("type"),
		TrainerType: c.Query("trainerType"),
		Rarity:      c.Query("rarity"),
		Category:    c.Query("category"),
		Stage:       c.Query("stage"),
		EvolveFrom:  c.Query("evolve_from"),
		Booster:     c.Query("booster"),
		Illustrator: c.Query("illustrator"),
		Suffix:      c.Query("suffix"),
		Weakness:    c.Query("weakness"),
	}
	for name, dst := range map[string]**int{
		"hp_min":      &filter.HPMin,
		"hp_max":      &filter.HPMax,
		"retreat_min": &filter.RetreatMin,
		"retreat_max": &filter.RetreatMax,
		"limit":       &filter.Limit,
	} {
		v, ok := intParam(c, name)
		if !ok {
			return
		}
		*dst = v
	}
	if offset, ok := intParam(c, "offset"); !ok {
		return
	} else if offset != nil {
		filter.Offset = *offset
	}

	log.Printf("get_cards request lang=%s set_id=%s", lang, filter.SetID)

	start := time.Now()
	cards := h.dataset.QueryCards(c.Request.Context(), filter, lang, h.images)
	metrics.CardQueryDuration.WithLabelValues("filter").Observe(time.Since(start).Seconds())

	c.JSON(http.StatusOK, cards)
}

// SearchCards performs a case-insensitive substring search over the
// precomputed per-language blobs.
func (h *CardHandler) SearchCards(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "query parameter 'q' is required",
			"code":  "VALIDATION_QUERY",
		})
		return
	}
	lang, ok := langParam(c)
	if !ok {
		return
	}

	var fields []string
	if raw := c.Query("fields"); raw != "" {
		fields = strings.Split(raw, ",")
	}

	log.Printf("search_cards q=%s lang=%s", q, lang)

	start := time.Now()
	cards := h.dataset.SearchCards(c.Request.Context(), q, lang, fields, h.images)
	metrics.CardQueryDuration.WithLabelValues("search").Observe(time.Since(start).Seconds())

	c.JSON(http.StatusOK, cards)
}

// GetCard returns a single card by its global id.
func (h *CardHandler) GetCard(c *gin.Context) {
	lang, ok := langParam(c)
	if !ok {
		return
	}

	card, found := h.dataset.GetCard(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "card not found",
			"code":  "CARD_NOT_FOUND",
		})
		return
	}

	c.JSON(http.StatusOK, h.dataset.ShapeCard(c.Request.Context(), card, lang, h.images))
}
