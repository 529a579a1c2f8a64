package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"aethermoor-server/internal/models"
)

var validEntityTypes = map[string]struct{}{
	models.AudioEntityGlobal:    {},
	models.AudioEntityPage:      {},
	models.AudioEntityChapter:   {},
	models.AudioEntityCharacter: {},
	models.AudioEntityCodex:     {},
	models.AudioEntityLocation:  {},
}

// resolveAudio подбирает трек под контекст страницы.
// Отсутствие подходящей привязки — это 204, а не ошибка.
func (h *ContentHandler) resolveAudio(c *gin.Context) {
	var q models.AudioQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "некорректные параметры запроса"})
		return
	}
	resolved, err := h.store.ResolveAudio(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.Status(http.StatusNoContent)
			return
		}
		h.respondError(c, "resolve_audio", err)
		return
	}
	c.JSON(http.StatusOK, resolved)
}

func (h *ContentHandler) listAudioTracks(c *gin.Context) {
	tracks, err := h.store.ListAudioTracks(c.Request.Context())
	if err != nil {
		h.respondError(c, "list_audio_tracks", err)
		return
	}
	c.JSON(http.StatusOK, tracks)
}

func (h *ContentHandler) getAudioTrack(c *gin.Context) {
	t, err := h.store.GetAudioTrack(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "get_audio_track", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *ContentHandler) createAudioTrack(c *gin.Context) {
	var body models.AudioTrack
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "некорректное тело запроса"})
		return
	}
	if body.Title == "" || body.FileURL == "" {
		h.respondError(c, "create_audio_track",
			fmt.Errorf("%w: title и fileUrl обязательны", models.ErrValidation))
		return
	}
	created, err := h.store.CreateAudioTrack(c.Request.Context(), body)
	if err != nil {
		h.respondError(c, "create_audio_track", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ContentHandler) updateAudioTrack(c *gin.Context) {
	var patch models.AudioTrackPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "некорректное тело запроса"})
		return
	}
	updated, err := h.store.UpdateAudioTrack(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.respondError(c, "update_audio_track", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ContentHandler) deleteAudioTrack(c *gin.Context) {
	if err := h.store.DeleteAudioTrack(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, "delete_audio_track", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ContentHandler) listAudioAssignments(c *gin.Context) {
	assignments, err := h.store.ListAudioAssignments(c.Request.Context())
	if err != nil {
		h.respondError(c, "list_audio_assignments", err)
		return
	}
	c.JSON(http.StatusOK, assignments)
}

func (h *ContentHandler) createAudioAssignment(c *gin.Context) {
	var body models.AudioAssignment
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "некорректное тело запроса"})
		return
	}
	if err := validateAssignment(body); err != nil {
		h.respondError(c, "create_audio_assignment", err)
		return
	}
	created, err := h.store.CreateAudioAssignment(c.Request.Context(), body)
	if err != nil {
		h.respondError(c, "create_audio_assignment", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ContentHandler) updateAudioAssignment(c *gin.Context) {
	var patch models.AudioAssignmentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, APIError{Message: "некорректное тело запроса"})
		return
	}
	if patch.EntityType != nil {
		if _, ok := validEntityTypes[*patch.EntityType]; !ok {
			h.respondError(c, "update_audio_assignment",
				fmt.Errorf("%w: неизвестный entityType %q", models.ErrValidation, *patch.EntityType))
			return
		}
	}
	updated, err := h.store.UpdateAudioAssignment(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.respondError(c, "update_audio_assignment", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ContentHandler) deleteAudioAssignment(c *gin.Context) {
	if err := h.store.DeleteAudioAssignment(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, "delete_audio_assignment", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func validateAssignment(a models.AudioAssignment) error {
	if a.TrackID == "" {
		return fmt.Errorf("%w: trackId обязателен", models.ErrValidation)
	}
	if _, ok := validEntityTypes[a.EntityType]; !ok {
		return fmt.Errorf("%w: неизвестный entityType %q", models.ErrValidation, a.EntityType)
	}
	if a.EntityType != models.AudioEntityGlobal && (a.EntityID == nil || *a.EntityID == "") {
		return fmt.Errorf("%w: entityId обязателен для типа %s", models.ErrValidation, a.EntityType)
	}
	return nil
}
