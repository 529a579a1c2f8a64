package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aethermoor-server/internal/config"
	"aethermoor-server/internal/models"
)

func newTestFileStore(t *testing.T) (*FileStore, *config.Config) {
	t.Helper()
	cfg := &config.Config{
		DataDir:     t.TempDir(),
		AdminEmails: "boss@example.com",
	}
	fs, err := NewFileStore(cfg)
	require.NoError(t, err)
	return fs, cfg
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	fs, cfg := newTestFileStore(t)
	ctx := context.Background()

	created, err := fs.CreateChapter(ctx, models.Chapter{
		Title: "The Hollow Road", Slug: "the-hollow-road",
		Content: "<p>The road had no milestones.</p>", ChapterNumber: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "The road had no milestones.", created.Excerpt)

	// Новый экземпляр над тем же каталогом видит данные
	reopened, err := NewFileStore(cfg)
	require.NoError(t, err)
	chapters, err := reopened.ListChapters(ctx)
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, "the-hollow-road", chapters[0].Slug)
}

func TestFileStore_EmptyDirIsEmptyNotError(t *testing.T) {
	fs, _ := newTestFileStore(t)
	ctx := context.Background()

	chapters, err := fs.ListChapters(ctx)
	require.NoError(t, err)
	assert.Empty(t, chapters)

	_, err = fs.GetChapter(ctx, "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFileStore_CharacterSlugUniqueness(t *testing.T) {
	fs, _ := newTestFileStore(t)
	ctx := context.Background()

	first, err := fs.CreateCharacter(ctx, models.Character{Name: "Calder Wren"})
	require.NoError(t, err)
	assert.Equal(t, "calder-wren", first.Slug)

	second, err := fs.CreateCharacter(ctx, models.Character{Name: "Calder Wren"})
	require.NoError(t, err)
	assert.Equal(t, "calder-wren-2", second.Slug)
}

func TestFileStore_SuppliedSlugDeduped(t *testing.T) {
	fs, _ := newTestFileStore(t)
	ctx := context.Background()

	_, err := fs.CreateCharacter(ctx, models.Character{Name: "Issa", Slug: "issa-of-the-reach"})
	require.NoError(t, err)
	second, err := fs.CreateCharacter(ctx, models.Character{Name: "Impostor", Slug: "issa-of-the-reach"})
	require.NoError(t, err)
	assert.Equal(t, "issa-of-the-reach-2", second.Slug)

	_, err = fs.CreateChapter(ctx, models.Chapter{Title: "One", Slug: "opening", Content: "a", ChapterNumber: 1})
	require.NoError(t, err)
	dup, err := fs.CreateChapter(ctx, models.Chapter{Title: "Two", Slug: "opening", Content: "b", ChapterNumber: 2})
	require.NoError(t, err)
	assert.Equal(t, "opening-2", dup.Slug)

	_, err = fs.CreateBlogPost(ctx, models.BlogPost{Title: "W", Slug: "welcome", Content: "x"})
	require.NoError(t, err)
	post, err := fs.CreateBlogPost(ctx, models.BlogPost{Title: "W2", Slug: "welcome", Content: "y"})
	require.NoError(t, err)
	assert.Equal(t, "welcome-2", post.Slug)
}

func TestFileStore_ProgressUpsertAndClamp(t *testing.T) {
	fs, _ := newTestFileStore(t)
	ctx := context.Background()

	saved, err := fs.UpsertProgress(ctx, "sess-1", "ch-1", 120)
	require.NoError(t, err)
	assert.Equal(t, 100, saved.Progress)

	saved, err = fs.UpsertProgress(ctx, "sess-1", "ch-1", 55)
	require.NoError(t, err)
	assert.Equal(t, 55, saved.Progress)

	items, err := fs.ListProgress(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestFileStore_AudioDeleteCascadesAndResolves(t *testing.T) {
	fs, _ := newTestFileStore(t)
	ctx := context.Background()

	track, err := fs.CreateAudioTrack(ctx, models.AudioTrack{Title: "Theme", FileURL: "/a.mp3"})
	require.NoError(t, err)
	global, err := fs.CreateAudioTrack(ctx, models.AudioTrack{Title: "Ambient", FileURL: "/b.mp3"})
	require.NoError(t, err)

	_, err = fs.CreateAudioAssignment(ctx, models.AudioAssignment{
		TrackID: track.ID, EntityType: models.AudioEntityPage, EntityID: ptr("map"), Active: 1,
	})
	require.NoError(t, err)
	_, err = fs.CreateAudioAssignment(ctx, models.AudioAssignment{
		TrackID: global.ID, EntityType: models.AudioEntityGlobal, Active: 1,
	})
	require.NoError(t, err)

	resolved, err := fs.ResolveAudio(ctx, models.AudioQuery{Page: "map"})
	require.NoError(t, err)
	assert.Equal(t, track.ID, resolved.Track.ID)

	require.NoError(t, fs.DeleteAudioTrack(ctx, track.ID))
	assignments, err := fs.ListAudioAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, assignments, 1)

	resolved, err = fs.ResolveAudio(ctx, models.AudioQuery{Page: "map"})
	require.NoError(t, err)
	assert.Equal(t, global.ID, resolved.Track.ID)
}

func TestFileStore_AdminAllowlist(t *testing.T) {
	fs, _ := newTestFileStore(t)
	ctx := context.Background()

	u, err := fs.UpsertUser(ctx, models.User{ID: "u-1", Email: ptr("someone@else.com"), IsAdmin: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, u.IsAdmin)

	u, err = fs.UpsertUser(ctx, models.User{ID: "u-2", Email: ptr("boss@example.com"), IsAdmin: 1, PasswordHash: ptr("h1")})
	require.NoError(t, err)
	assert.Equal(t, 1, u.IsAdmin)

	// Обновление без пароля сохраняет хэш
	u, err = fs.UpsertUser(ctx, models.User{ID: "u-2", Email: ptr("boss@example.com"), IsAdmin: 1})
	require.NoError(t, err)
	require.NotNil(t, u.PasswordHash)
	assert.Equal(t, "h1", *u.PasswordHash)
}

func TestFileStore_SnapshotFileIsServedByStore(t *testing.T) {
	// FileStore и SnapshotCache живут в одном каталоге, но в разных
	// файлах: chapters.json против offline-chapters.json
	dir := t.TempDir()
	cache := NewSnapshotCache(dir)
	saveSnapshot(cache, "chapters", []models.Chapter{{ID: "c1", Title: "T", Slug: "t"}})

	loaded, err := loadSnapshot[models.Chapter](cache, "chapters")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "c1", loaded[0].ID)

	missing, err := loadSnapshot[models.Chapter](NewSnapshotCache(filepath.Join(dir, "empty")), "chapters")
	require.NoError(t, err)
	assert.Empty(t, missing)
}
