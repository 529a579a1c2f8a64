package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"aethermoor-server/internal/config"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	cfg := &config.Config{SQLitePath: filepath.Join(t.TempDir(), "test.sqlite")}
	m, err := NewManager(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

func TestProvisioner_DoubleRunIsIdempotent(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	p := NewProvisioner(m)
	require.NoError(t, p.Run(ctx))
	require.NoError(t, p.Run(ctx))

	// Аддитивные колонки на месте: вставка с ними проходит
	_, err := m.Write.ExecContext(ctx,
		`INSERT INTO chapters (id, title, slug, content, chapter_number, published_at, arc_number, arc_title, title_i18n)
		 VALUES ('c1', 'Title', 'title', 'text', 1, '2025-01-01T00:00:00Z', 2, 'Arc', '{}')`)
	require.NoError(t, err)

	_, err = m.Write.ExecContext(ctx,
		`INSERT INTO audio_tracks (id, title, file_url, volume_user_max) VALUES ('t1', 'Theme', '/a.mp3', 80)`)
	require.NoError(t, err)

	_, err = m.Write.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ('u1', 'a@b.c', 'hash')`)
	require.NoError(t, err)
}

func TestProvisioner_AddsColumnsToLegacyTable(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	// Образ базы до миграций: codex_entries без content
	_, err := m.Write.ExecContext(ctx,
		`CREATE TABLE codex_entries (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			image_url TEXT
		)`)
	require.NoError(t, err)

	require.NoError(t, NewProvisioner(m).Run(ctx))

	_, err = m.Write.ExecContext(ctx,
		`INSERT INTO codex_entries (id, title, category, content) VALUES ('e1', 'Aether', 'magic', 'full text')`)
	require.NoError(t, err)
}

func TestProvisioner_ProgressUniqueIndex(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	require.NoError(t, NewProvisioner(m).Run(ctx))

	_, err := m.Write.ExecContext(ctx,
		`INSERT INTO reading_progress (id, chapter_id, session_id, progress, last_read_at)
		 VALUES ('p1', 'c1', 's1', 10, '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = m.Write.ExecContext(ctx,
		`INSERT INTO reading_progress (id, chapter_id, session_id, progress, last_read_at)
		 VALUES ('p2', 'c1', 's1', 20, '2025-01-01T00:00:00Z')`)
	require.Error(t, err, "дубль пары (session, chapter) должен отбиваться индексом")
}
