package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"aethermoor-server/internal/database"
	"aethermoor-server/internal/models"
	"aethermoor-server/internal/storage"
)

// APIError — стандартизированный ответ об ошибке.
type APIError struct {
	Message string `json:"message"`
}

// ContentHandler обрабатывает HTTP-запросы контентного API.
type ContentHandler struct {
	store   storage.Storage
	monitor *database.Monitor
	logger  *zap.Logger
}

// NewContentHandler создает обработчик. monitor может быть nil —
// файловое хранилище не мониторится и всегда готово.
func NewContentHandler(store storage.Storage, monitor *database.Monitor) *ContentHandler {
	return &ContentHandler{
		store:   store,
		monitor: monitor,
		logger:  zap.L().Named("ContentHandler"),
	}
}

// RegisterRoutes регистрирует маршруты API.
func (h *ContentHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/live", h.live)
	r.GET("/ready", h.ready)

	api := r.Group("/api")
	{
		api.GET("/chapters", h.listChapters)
		api.GET("/chapters/:id", h.getChapter)
		api.GET("/chapters/slug/:slug", h.getChapterBySlug)
		api.POST("/chapters", h.createChapter)
		api.PUT("/chapters/:id", h.updateChapter)
		api.DELETE("/chapters/:id", h.deleteChapter)

		api.GET("/characters", h.listCharacters)
		api.GET("/characters/:id", h.getCharacter)
		api.POST("/characters", h.createCharacter)
		api.PUT("/characters/:id", h.updateCharacter)
		api.DELETE("/characters/:id", h.deleteCharacter)

		api.GET("/locations", h.listLocations)
		api.GET("/locations/:id", h.getLocation)
		api.POST("/locations", h.createLocation)
		api.PUT("/locations/:id", h.updateLocation)
		api.DELETE("/locations/:id", h.deleteLocation)

		api.GET("/codex", h.listCodex)
		api.GET("/codex/:id", h.getCodexEntry)
		api.POST("/codex", h.createCodexEntry)
		api.PUT("/codex/:id", h.updateCodexEntry)
		api.DELETE("/codex/:id", h.deleteCodexEntry)

		api.GET("/blog", h.listBlogPosts)
		api.GET("/blog/:id", h.getBlogPost)
		api.GET("/blog/slug/:slug", h.getBlogPostBySlug)
		api.POST("/blog", h.createBlogPost)
		api.PUT("/blog/:id", h.updateBlogPost)
		api.DELETE("/blog/:id", h.deleteBlogPost)

		api.GET("/progress/:sessionId", h.listProgress)
		api.POST("/progress", h.upsertProgress)

		api.GET("/audio/resolve", h.resolveAudio)
		api.GET("/audio/tracks", h.listAudioTracks)
		api.GET("/audio/tracks/:id", h.getAudioTrack)
		api.POST("/audio/tracks", h.createAudioTrack)
		api.PUT("/audio/tracks/:id", h.updateAudioTrack)
		api.DELETE("/audio/tracks/:id", h.deleteAudioTrack)
		api.GET("/audio/assignments", h.listAudioAssignments)
		api.POST("/audio/assignments", h.createAudioAssignment)
		api.PUT("/audio/assignments/:id", h.updateAudioAssignment)
		api.DELETE("/audio/assignments/:id", h.deleteAudioAssignment)
	}
}

// respondError переводит ошибки слоя хранения в HTTP-статусы.
func (h *ContentHandler) respondError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, APIError{Message: "не найдено"})
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, APIError{Message: err.Error()})
	default:
		h.logger.Error("внутренняя ошибка", zap.String("op", op), zap.Error(err))
		c.JSON(http.StatusInternalServerError, APIError{Message: "внутренняя ошибка сервера"})
	}
}
