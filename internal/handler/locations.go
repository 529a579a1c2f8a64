package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"aethermoor-server/internal/models"
)

func (h *ContentHandler) listLocations(c *gin.Context) {
	locations, err := h.store.ListLocations(c.Request.Context())
	if err != nil {
		h.respondError(c, "list_locations", err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

func (h *ContentHandler) getLocation(c *gin.Context) {
	l, err := h.store.GetLocation(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "get_location", err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *ContentHandler) createLocation(c *gin.Context) {
	var body models.Location
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "некорректное тело запроса"})
		return
	}
	if body.Name == "" {
		h.respondError(c, "create_location",
			fmt.Errorf("%w: name обязателен", models.ErrValidation))
		return
	}
	created, err := h.store.CreateLocation(c.Request.Context(), body)
	if err != nil {
		h.respondError(c, "create_location", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ContentHandler) updateLocation(c *gin.Context) {
	var patch models.LocationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "некорректное тело запроса"})
		return
	}
	updated, err := h.store.UpdateLocation(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.respondError(c, "update_location", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ContentHandler) deleteLocation(c *gin.Context) {
	if err := h.store.DeleteLocation(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, "delete_location", err)
		return
	}
	c.Status(http.StatusNoContent)
}
