package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aethermoor-server/internal/config"
	"aethermoor-server/internal/models"
	"aethermoor-server/internal/storage"
)

func newTestRouter(t *testing.T) (*gin.Engine, storage.Storage) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	fs, err := storage.NewFileStore(&config.Config{DataDir: t.TempDir()})
	require.NoError(t, err)
	r := gin.New()
	NewContentHandler(fs, nil).RegisterRoutes(r)
	return r, fs
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestReady_FileStoreAlwaysReady(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doRequest(r, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", w.Body.String())

	w = doRequest(r, http.MethodGet, "/live", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChapterLifecycleOverHTTP(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodPost, "/api/chapters",
		`{"title":"Ch 1","slug":"ch-1","content":"<p>hello world</p>","chapterNumber":1}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Chapter
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "hello world", created.Excerpt)
	assert.Equal(t, 1, created.ReadingTime)

	w = doRequest(r, http.MethodGet, "/api/chapters/slug/ch-1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/api/chapters/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// title и slug обязательны
	w = doRequest(r, http.MethodPost, "/api/chapters", `{"content":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCodexCategoryValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodPost, "/api/codex",
		`{"title":"Thing","description":"d","category":"weather"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "категория вне фиксированного набора")

	w = doRequest(r, http.MethodPost, "/api/codex",
		`{"title":"Thing","description":"d","category":"magic"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(r, http.MethodGet, "/api/codex?category=bogus", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodGet, "/api/codex?category=magic", "")
	require.Equal(t, http.StatusOK, w.Code)
	var entries []models.CodexEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	assert.Len(t, entries, 1)
}

func TestProgressUpsertOverHTTP(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodPost, "/api/progress",
		`{"sessionId":"s1","chapterId":"c1","progress":150}`)
	require.Equal(t, http.StatusOK, w.Code)
	var saved models.ReadingProgress
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.Equal(t, 100, saved.Progress)

	w = doRequest(r, http.MethodPost, "/api/progress", `{"progress":10}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "sessionId и chapterId обязательны")
}

func TestResolveAudioOverHTTP(t *testing.T) {
	r, store := newTestRouter(t)

	// Пока привязок нет — 204
	w := doRequest(r, http.MethodGet, "/api/audio/resolve?page=reading", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	track, err := store.CreateAudioTrack(t.Context(), models.AudioTrack{Title: "T", FileURL: "/t.mp3"})
	require.NoError(t, err)
	_, err = store.CreateAudioAssignment(t.Context(), models.AudioAssignment{
		TrackID: track.ID, EntityType: models.AudioEntityGlobal, Active: 1,
	})
	require.NoError(t, err)

	w = doRequest(r, http.MethodGet, "/api/audio/resolve?page=reading", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resolved storage.ResolvedAudio
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resolved))
	assert.Equal(t, track.ID, resolved.Track.ID)
}

func TestAssignmentValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodPost, "/api/audio/assignments",
		`{"trackId":"t1","entityType":"weather"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodPost, "/api/audio/assignments",
		`{"trackId":"t1","entityType":"chapter"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "для chapter нужен entityId")

	w = doRequest(r, http.MethodPost, "/api/audio/assignments",
		`{"trackId":"t1","entityType":"global","active":1}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}
