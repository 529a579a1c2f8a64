package database

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Базовая схема. Идентификаторы хранятся как TEXT (UUID), чтобы DDL
// был общим для PostgreSQL и SQLite. Новые поля добавляются не сюда,
// а в additiveColumns: существующие инстансы получают их аддитивно.
var createStatements = []string{
	`CREATE TABLE IF NOT EXISTS chapters (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		content TEXT NOT NULL,
		excerpt TEXT NOT NULL DEFAULT '',
		chapter_number INTEGER NOT NULL,
		reading_time INTEGER NOT NULL DEFAULT 1,
		published_at TEXT NOT NULL,
		image_url TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS characters (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT '',
		image_url TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		map_x INTEGER NOT NULL DEFAULT 0,
		map_y INTEGER NOT NULL DEFAULT 0,
		type TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS codex_entries (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		image_url TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS blog_posts (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		content TEXT NOT NULL,
		excerpt TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT 'update',
		published_at TEXT NOT NULL,
		image_url TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS reading_progress (
		id TEXT PRIMARY KEY,
		chapter_id TEXT NOT NULL,
		session_id TEXT NOT NULL,
		progress INTEGER NOT NULL DEFAULT 0,
		last_read_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS audio_tracks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		kind TEXT NOT NULL DEFAULT 'music',
		file_url TEXT NOT NULL,
		loop INTEGER NOT NULL DEFAULT 1,
		volume_default INTEGER NOT NULL DEFAULT 70,
		fade_in_ms INTEGER,
		fade_out_ms INTEGER,
		created_at TEXT,
		updated_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS audio_assignments (
		id TEXT PRIMARY KEY,
		track_id TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		entity_id TEXT,
		priority INTEGER NOT NULL DEFAULT 0,
		active INTEGER NOT NULL DEFAULT 1,
		created_at TEXT,
		updated_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE,
		first_name TEXT,
		last_name TEXT,
		profile_image_url TEXT,
		is_admin INTEGER NOT NULL DEFAULT 0,
		created_at TEXT,
		updated_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT,
		updated_at TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audio_assign_specific
		ON audio_assignments (entity_type, entity_id, active)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_reading_progress_session
		ON reading_progress (session_id, chapter_id)`,
}

type columnDef struct {
	table string
	name  string
	ddl   string
}

// История миграций: колонки, появившиеся после первых релизов.
// Только аддитивные изменения, порядок фиксирован.
var additiveColumns = []columnDef{
	{"chapters", "title_i18n", "TEXT"},
	{"chapters", "content_i18n", "TEXT"},
	{"chapters", "excerpt_i18n", "TEXT"},
	{"chapters", "arc_number", "INTEGER"},
	{"chapters", "arc_title", "TEXT"},
	{"characters", "name_i18n", "TEXT"},
	{"characters", "title_i18n", "TEXT"},
	{"characters", "story", "TEXT"},
	{"characters", "slug", "TEXT"},
	{"locations", "name_i18n", "TEXT"},
	{"locations", "description_i18n", "TEXT"},
	{"locations", "details", "TEXT"},
	{"locations", "slug", "TEXT"},
	{"locations", "tags", "TEXT"},
	{"locations", "image_url", "TEXT"},
	{"codex_entries", "title_i18n", "TEXT"},
	{"codex_entries", "description_i18n", "TEXT"},
	{"codex_entries", "content", "TEXT"},
	{"blog_posts", "title_i18n", "TEXT"},
	{"blog_posts", "content_i18n", "TEXT"},
	{"blog_posts", "excerpt_i18n", "TEXT"},
	{"audio_tracks", "volume_user_max", "INTEGER NOT NULL DEFAULT 70"},
	{"users", "password_hash", "TEXT"},
}

// Provisioner приводит схему базы к актуальному состоянию на старте.
// Вся миграция аддитивна: таблицы и колонки только добавляются.
type Provisioner struct {
	manager *Manager
	logger  *zap.Logger
}

func NewProvisioner(m *Manager) *Provisioner {
	return &Provisioner{
		manager: m,
		logger:  zap.L().Named("schema"),
	}
}

// Run выполняет создание таблиц и аддитивный проход по колонкам.
// Ошибки отдельных statement'ов логируются и не прерывают проход:
// частично инициализированная схема лучше, чем отказ старта.
func (p *Provisioner) Run(ctx context.Context) error {
	for _, stmt := range createStatements {
		err := WithRetry(ctx, func(ctx context.Context) error {
			_, execErr := p.manager.Write.ExecContext(ctx, stmt)
			return execErr
		})
		if err != nil {
			p.logger.Warn("ошибка DDL", zap.String("stmt", firstLine(stmt)), zap.Error(err))
		}
	}
	p.addColumns(ctx)
	p.logger.Info("схема проверена",
		zap.Int("таблиц_и_индексов", len(createStatements)),
		zap.Int("аддитивных_колонок", len(additiveColumns)))
	return nil
}

func (p *Provisioner) addColumns(ctx context.Context) {
	for _, col := range additiveColumns {
		var err error
		if p.manager.Kind == KindPostgres {
			stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s", col.table, col.name, col.ddl)
			_, err = p.manager.Write.ExecContext(ctx, stmt)
		} else {
			err = p.addColumnSQLite(ctx, col)
		}
		if err != nil {
			p.logger.Warn("не удалось добавить колонку",
				zap.String("table", col.table),
				zap.String("column", col.name),
				zap.Error(err))
		}
	}
}

// addColumnSQLite: у SQLite нет ADD COLUMN IF NOT EXISTS,
// поэтому сперва смотрим PRAGMA table_info.
func (p *Provisioner) addColumnSQLite(ctx context.Context, col columnDef) error {
	rows, err := p.manager.Write.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", col.table))
	if err != nil {
		return err
	}
	defer rows.Close()

	exists := false
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal any
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return err
		}
		if name == col.name {
			exists = true
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = p.manager.Write.ExecContext(ctx,
		fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", col.table, col.name, col.ddl))
	return err
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
