package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aethermoor-server/internal/config"
	"aethermoor-server/internal/database"
	"aethermoor-server/internal/models"
)

func newSQLiteStore(t *testing.T) (*SQLStore, *database.Manager) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		SQLitePath:  filepath.Join(dir, "test.sqlite"),
		DataDir:     dir,
		AdminEmails: "boss@example.com",
	}
	m, err := database.NewManager(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	require.NoError(t, database.NewProvisioner(m).Run(context.Background()))
	return NewSQLStore(m, cfg), m
}

func TestSQLStore_ChapterCRUD(t *testing.T) {
	store, _ := newSQLiteStore(t)
	ctx := context.Background()

	created, err := store.CreateChapter(ctx, models.Chapter{
		Title:         "The Lantern Keeper",
		Slug:          "the-lantern-keeper",
		Content:       "<p>The night the aether-lanterns went dark.</p>",
		ChapterNumber: 1,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "The night the aether-lanterns went dark.", created.Excerpt, "excerpt выводится из текста")
	assert.Equal(t, 1, created.ReadingTime)
	assert.NotEmpty(t, created.PublishedAt)

	bySlug, err := store.GetChapterBySlug(ctx, "the-lantern-keeper")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySlug.ID)

	updated, err := store.UpdateChapter(ctx, created.ID, models.ChapterPatch{
		Title:   ptr("The Lantern Keeper, Revised"),
		Content: ptr("<p>A fully rewritten opening.</p>"),
	})
	require.NoError(t, err)
	assert.Equal(t, "The Lantern Keeper, Revised", updated.Title)
	assert.Equal(t, "A fully rewritten opening.", updated.Excerpt, "смена текста пересчитывает excerpt")

	require.NoError(t, store.DeleteChapter(ctx, created.ID))
	_, err = store.GetChapter(ctx, created.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, store.DeleteChapter(ctx, created.ID), models.ErrNotFound)
}

func TestSQLStore_ChaptersOrderedByNumber(t *testing.T) {
	store, _ := newSQLiteStore(t)
	ctx := context.Background()

	for _, ch := range []models.Chapter{
		{Title: "Third", Slug: "third", Content: "c", ChapterNumber: 3},
		{Title: "First", Slug: "first", Content: "a", ChapterNumber: 1},
		{Title: "Second", Slug: "second", Content: "b", ChapterNumber: 2},
	} {
		_, err := store.CreateChapter(ctx, ch)
		require.NoError(t, err)
	}

	chapters, err := store.ListChapters(ctx)
	require.NoError(t, err)
	require.Len(t, chapters, 3)
	assert.Equal(t, []int{1, 2, 3},
		[]int{chapters[0].ChapterNumber, chapters[1].ChapterNumber, chapters[2].ChapterNumber})
}

func TestSQLStore_ListFallsBackToSnapshot(t *testing.T) {
	store, m := newSQLiteStore(t)
	ctx := context.Background()

	_, err := store.CreateChapter(ctx, models.Chapter{
		Title: "Snap", Slug: "snap", Content: "text", ChapterNumber: 1,
	})
	require.NoError(t, err)

	// Успешный список пишет offline-снапшот
	chapters, err := store.ListChapters(ctx)
	require.NoError(t, err)
	require.Len(t, chapters, 1)

	// База умерла — список обслуживается из снапшота
	m.Close()
	chapters, err = store.ListChapters(ctx)
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, "snap", chapters[0].Slug)
}

func TestSQLStore_CharacterSlugUniqueness(t *testing.T) {
	store, _ := newSQLiteStore(t)
	ctx := context.Background()

	first, err := store.CreateCharacter(ctx, models.Character{Name: "Maren Voss", Role: "protagonist"})
	require.NoError(t, err)
	assert.Equal(t, "maren-voss", first.Slug)

	second, err := store.CreateCharacter(ctx, models.Character{Name: "Maren Voss", Role: "supporting"})
	require.NoError(t, err)
	assert.Equal(t, "maren-voss-2", second.Slug)
}

func TestSQLStore_CreateDedupsSuppliedSlug(t *testing.T) {
	store, _ := newSQLiteStore(t)
	ctx := context.Background()

	first, err := store.CreateBlogPost(ctx, models.BlogPost{
		Title: "Welcome", Slug: "welcome", Content: "<p>one</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "welcome", first.Slug)

	// Занятый slug получает суффикс вместо тихого "успеха" без записи
	second, err := store.CreateBlogPost(ctx, models.BlogPost{
		Title: "Welcome again", Slug: "welcome", Content: "<p>two</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "welcome-2", second.Slug)

	persisted, err := store.GetBlogPostBySlug(ctx, "welcome-2")
	require.NoError(t, err)
	assert.Equal(t, second.ID, persisted.ID)
	posts, err := store.ListBlogPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	// Главы подчиняются тому же правилу
	_, err = store.CreateChapter(ctx, models.Chapter{
		Title: "One", Slug: "opening", Content: "a", ChapterNumber: 1,
	})
	require.NoError(t, err)
	dup, err := store.CreateChapter(ctx, models.Chapter{
		Title: "Two", Slug: "opening", Content: "b", ChapterNumber: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "opening-2", dup.Slug)
	_, err = store.GetChapterBySlug(ctx, "opening-2")
	require.NoError(t, err)
}

func TestSQLStore_CharacterSuppliedSlugDeduped(t *testing.T) {
	store, _ := newSQLiteStore(t)
	ctx := context.Background()

	_, err := store.CreateCharacter(ctx, models.Character{Name: "Calder Wren", Slug: "calder-wren"})
	require.NoError(t, err)

	// На characters.slug нет UNIQUE, поэтому дубль прошел бы молча
	second, err := store.CreateCharacter(ctx, models.Character{Name: "Another Calder", Slug: "calder-wren"})
	require.NoError(t, err)
	assert.Equal(t, "calder-wren-2", second.Slug)

	characters, err := store.ListCharacters(ctx)
	require.NoError(t, err)
	slugs := map[string]int{}
	for _, c := range characters {
		slugs[c.Slug]++
	}
	assert.Equal(t, 1, slugs["calder-wren"])
	assert.Equal(t, 1, slugs["calder-wren-2"])
}

func TestSQLStore_UpdateToTakenSlugIsValidationError(t *testing.T) {
	store, _ := newSQLiteStore(t)
	ctx := context.Background()

	_, err := store.CreateBlogPost(ctx, models.BlogPost{Title: "A", Slug: "a", Content: "x"})
	require.NoError(t, err)
	b, err := store.CreateBlogPost(ctx, models.BlogPost{Title: "B", Slug: "b", Content: "y"})
	require.NoError(t, err)

	// Конфликт уникальности останавливает цепочку: никакого payload-"успеха"
	_, err = store.UpdateBlogPost(ctx, b.ID, models.BlogPostPatch{Slug: ptr("a")})
	require.ErrorIs(t, err, models.ErrValidation)

	current, err := store.GetBlogPost(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "b", current.Slug, "неудачное обновление ничего не меняет")
}

func TestSQLStore_ProgressUpsertAndClamp(t *testing.T) {
	store, _ := newSQLiteStore(t)
	ctx := context.Background()

	saved, err := store.UpsertProgress(ctx, "sess-1", "ch-1", 150)
	require.NoError(t, err)
	assert.Equal(t, 100, saved.Progress, "прогресс обрезается сверху")

	saved, err = store.UpsertProgress(ctx, "sess-1", "ch-1", -5)
	require.NoError(t, err)
	assert.Equal(t, 0, saved.Progress, "прогресс обрезается снизу")

	saved, err = store.UpsertProgress(ctx, "sess-1", "ch-1", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, saved.Progress)

	items, err := store.ListProgress(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, items, 1, "повторный upsert не плодит строк")

	// Другая сессия — отдельная строка
	_, err = store.UpsertProgress(ctx, "sess-2", "ch-1", 10)
	require.NoError(t, err)
	other, err := store.ListProgress(ctx, "sess-2")
	require.NoError(t, err)
	require.Len(t, other, 1)
}

func TestSQLStore_AudioTrackDeleteCascades(t *testing.T) {
	store, _ := newSQLiteStore(t)
	ctx := context.Background()

	track, err := store.CreateAudioTrack(ctx, models.AudioTrack{Title: "Dunmoor Theme", FileURL: "/audio/dunmoor.mp3"})
	require.NoError(t, err)
	assert.Equal(t, 70, track.VolumeDefault)
	assert.Equal(t, 70, track.VolumeUserMax)

	fallback, err := store.CreateAudioTrack(ctx, models.AudioTrack{Title: "Ambient", FileURL: "/audio/ambient.mp3"})
	require.NoError(t, err)

	_, err = store.CreateAudioAssignment(ctx, models.AudioAssignment{
		TrackID: track.ID, EntityType: models.AudioEntityPage, EntityID: ptr("reading"), Priority: 5, Active: 1,
	})
	require.NoError(t, err)
	_, err = store.CreateAudioAssignment(ctx, models.AudioAssignment{
		TrackID: fallback.ID, EntityType: models.AudioEntityGlobal, Active: 1,
	})
	require.NoError(t, err)

	resolved, err := store.ResolveAudio(ctx, models.AudioQuery{Page: "reading"})
	require.NoError(t, err)
	assert.Equal(t, track.ID, resolved.Track.ID)

	// Удаление трека уносит его привязки; резолв переключается на глобальный фон
	require.NoError(t, store.DeleteAudioTrack(ctx, track.ID))
	assignments, err := store.ListAudioAssignments(ctx)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, fallback.ID, assignments[0].TrackID)

	resolved, err = store.ResolveAudio(ctx, models.AudioQuery{Page: "reading"})
	require.NoError(t, err)
	assert.Equal(t, fallback.ID, resolved.Track.ID)
}

func TestSQLStore_CodexLegacyColumnFallback(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		SQLitePath: filepath.Join(dir, "legacy.sqlite"),
		DataDir:    dir,
	}
	m, err := database.NewManager(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(m.Close)

	// Legacy-схема: content так и не добавили
	_, err = m.Write.ExecContext(context.Background(),
		`CREATE TABLE codex_entries (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			title_i18n TEXT,
			description TEXT NOT NULL DEFAULT '',
			description_i18n TEXT,
			category TEXT NOT NULL,
			image_url TEXT
		)`)
	require.NoError(t, err)

	store := NewSQLStore(m, cfg)
	ctx := context.Background()

	created, err := store.CreateCodexEntry(ctx, models.CodexEntry{
		Title:       "Aetherweave",
		Description: "short card text",
		Content:     ptr("<p>full rich text</p>"),
		Category:    "magic",
	})
	require.NoError(t, err)
	assert.Equal(t, "<p>full rich text</p>", created.Description,
		"на legacy-схеме полный текст сворачивается в description")
	assert.Nil(t, created.Content)

	entries, err := store.ListCodexEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	byCategory, err := store.ListCodexByCategory(ctx, "magic")
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
}

func TestSQLStore_UpsertUserAdminAllowlist(t *testing.T) {
	store, _ := newSQLiteStore(t)
	ctx := context.Background()

	// Email вне allow-list: админ-флаг сбрасывается
	sneaky, err := store.UpsertUser(ctx, models.User{
		ID: "u-1", Email: ptr("visitor@example.com"), IsAdmin: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, sneaky.IsAdmin)

	boss, err := store.UpsertUser(ctx, models.User{
		ID: "u-2", Email: ptr("Boss@Example.com"), IsAdmin: 1, PasswordHash: ptr("hash-1"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, boss.IsAdmin, "email из allow-list сохраняет админ-флаг, регистр не важен")

	// Повторный upsert без пароля не затирает хэш
	boss, err = store.UpsertUser(ctx, models.User{
		ID: "u-2", Email: ptr("boss@example.com"), IsAdmin: 1,
	})
	require.NoError(t, err)
	require.NotNil(t, boss.PasswordHash)
	assert.Equal(t, "hash-1", *boss.PasswordHash)

	byEmail, err := store.GetUserByEmail(ctx, "BOSS@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-2", byEmail.ID)
}

func TestSQLStore_Meta(t *testing.T) {
	store, _ := newSQLiteStore(t)
	ctx := context.Background()

	v, err := store.GetMeta(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, store.SetMeta(ctx, "seed_characters_done", "2025-01-01T00:00:00Z"))
	require.NoError(t, store.SetMeta(ctx, "seed_characters_done", "2025-02-01T00:00:00Z"))

	v, err = store.GetMeta(ctx, "seed_characters_done")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "2025-02-01T00:00:00Z", *v)
}
