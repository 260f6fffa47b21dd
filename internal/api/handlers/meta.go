package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ptcgp/data-api/internal/data"
)

// MetaHandler serves sets, events and tournaments. Sets are localized;
// events and tournaments are returned as loaded.
type MetaHandler struct {
	dataset *data.Dataset
}

func NewMetaHandler(dataset *data.Dataset) *MetaHandler {
	return &MetaHandler{dataset: dataset}
}

func (h *MetaHandler) GetSets(c *gin.Context) {
	lang, ok := langParam(c)
	if !ok {
		return
	}

	sets := h.dataset.SetsInOrder()
	out := make([]any, len(sets))
	for i, set := range sets {
		out[i] = data.Resolve(set, lang, data.DefaultLanguage)
	}
	c.JSON(http.StatusOK, out)
}

func (h *MetaHandler) GetSet(c *gin.Context) {
	lang, ok := langParam(c)
	if !ok {
		return
	}

	set, found := h.dataset.GetSet(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "set not found",
			"code":  "SET_NOT_FOUND",
		})
		return
	}
	c.JSON(http.StatusOK, data.Resolve(set, lang, data.DefaultLanguage))
}

func (h *MetaHandler) GetEvents(c *gin.Context) {
	c.JSON(http.StatusOK, h.dataset.Events)
}

func (h *MetaHandler) GetTournaments(c *gin.Context) {
	c.JSON(http.StatusOK, h.dataset.Tournaments)
}
