package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"aethermoor-server/internal/models"
)

func (h *ContentHandler) listCharacters(c *gin.Context) {
	characters, err := h.store.ListCharacters(c.Request.Context())
	if err != nil {
		h.respondError(c, "list_characters", err)
		return
	}
	c.JSON(http.StatusOK, characters)
}

func (h *ContentHandler) getCharacter(c *gin.Context) {
	ch, err := h.store.GetCharacter(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "get_character", err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (h *ContentHandler) createCharacter(c *gin.Context) {
	var body models.Character
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "некорректное тело запроса"})
		return
	}
	if body.Name == "" {
		h.respondError(c, "create_character",
			fmt.Errorf("%w: name обязателен", models.ErrValidation))
		return
	}
	created, err := h.store.CreateCharacter(c.Request.Context(), body)
	if err != nil {
		h.respondError(c, "create_character", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ContentHandler) updateCharacter(c *gin.Context) {
	var patch models.CharacterPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "некорректное тело запроса"})
		return
	}
	updated, err := h.store.UpdateCharacter(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.respondError(c, "update_character", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ContentHandler) deleteCharacter(c *gin.Context) {
	if err := h.store.DeleteCharacter(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, "delete_character", err)
		return
	}
	c.Status(http.StatusNoContent)
}
