package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"aethermoor-server/internal/models"
)

type upsertProgressRequest struct {
	SessionID string `json:"sessionId"`
	ChapterID string `json:"chapterId"`
	Progress  int    `json:"progress"`
}

func (h *ContentHandler) listProgress(c *gin.Context) {
	items, err := h.store.ListProgress(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		h.respondError(c, "list_progress", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ContentHandler) upsertProgress(c *gin.Context) {
	var body upsertProgressRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "некорректное тело запроса"})
		return
	}
	if body.SessionID == "" || body.ChapterID == "" {
		h.respondError(c, "upsert_progress",
			fmt.Errorf("%w: sessionId и chapterId обязательны", models.ErrValidation))
		return
	}
	saved, err := h.store.UpsertProgress(c.Request.Context(), body.SessionID, body.ChapterID, body.Progress)
	if err != nil {
		h.respondError(c, "upsert_progress", err)
		return
	}
	c.JSON(http.StatusOK, saved)
}
