package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"aethermoor-server/internal/models"
)

func (h *ContentHandler) listChapters(c *gin.Context) {
	chapters, err := h.store.ListChapters(c.Request.Context())
	if err != nil {
		h.respondError(c, "list_chapters", err)
		return
	}
	c.JSON(http.StatusOK, chapters)
}

func (h *ContentHandler) getChapter(c *gin.Context) {
	ch, err := h.store.GetChapter(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "get_chapter", err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (h *ContentHandler) getChapterBySlug(c *gin.Context) {
	ch, err := h.store.GetChapterBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, "get_chapter_by_slug", err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (h *ContentHandler) createChapter(c *gin.Context) {
	var ch models.Chapter
	if err := c.ShouldBindJSON(&ch); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "некорректное тело запроса"})
		return
	}
	if ch.Title == "" || ch.Slug == "" {
		h.respondError(c, "create_chapter",
			fmt.Errorf("%w: title и slug обязательны", models.ErrValidation))
		return
	}
	created, err := h.store.CreateChapter(c.Request.Context(), ch)
	if err != nil {
		h.respondError(c, "create_chapter", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ContentHandler) updateChapter(c *gin.Context) {
	var patch models.ChapterPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "некорректное тело запроса"})
		return
	}
	updated, err := h.store.UpdateChapter(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.respondError(c, "update_chapter", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ContentHandler) deleteChapter(c *gin.Context) {
	if err := h.store.DeleteChapter(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, "delete_chapter", err)
		return
	}
	c.Status(http.StatusNoContent)
}
