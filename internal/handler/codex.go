package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"aethermoor-server/internal/models"
)

// listCodex отдает глоссарий целиком или по категории (?category=magic).
func (h *ContentHandler) listCodex(c *gin.Context) {
	category := c.Query("category")
	if category != "" && !models.IsValidCodexCategory(category) {
		h.respondError(c, "list_codex",
			fmt.Errorf("%w: неизвестная категория %q", models.ErrValidation, category))
		return
	}

	var (
		entries []models.CodexEntry
		err     error
	)
	if category != "" {
		entries, err = h.store.ListCodexByCategory(c.Request.Context(), category)
	} else {
		entries, err = h.store.ListCodexEntries(c.Request.Context())
	}
	if err != nil {
		h.respondError(c, "list_codex", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *ContentHandler) getCodexEntry(c *gin.Context) {
	e, err := h.store.GetCodexEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "get_codex", err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *ContentHandler) createCodexEntry(c *gin.Context) {
	var body models.CodexEntry
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "некорректное тело запроса"})
		return
	}
	if body.Title == "" || !models.IsValidCodexCategory(body.Category) {
		h.respondError(c, "create_codex",
			fmt.Errorf("%w: нужны title и валидная category", models.ErrValidation))
		return
	}
	created, err := h.store.CreateCodexEntry(c.Request.Context(), body)
	if err != nil {
		h.respondError(c, "create_codex", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ContentHandler) updateCodexEntry(c *gin.Context) {
	var patch models.CodexEntryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "некорректное тело запроса"})
		return
	}
	if patch.Category != nil && !models.IsValidCodexCategory(*patch.Category) {
		h.respondError(c, "update_codex",
			fmt.Errorf("%w: неизвестная категория %q", models.ErrValidation, *patch.Category))
		return
	}
	updated, err := h.store.UpdateCodexEntry(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.respondError(c, "update_codex", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ContentHandler) deleteCodexEntry(c *gin.Context) {
	if err := h.store.DeleteCodexEntry(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, "delete_codex", err)
		return
	}
	c.Status(http.StatusNoContent)
}
