package storage

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/sqlscan"

	"aethermoor-server/internal/models"
)

const codexColumns = `id, title, title_i18n, description, description_i18n,
	content, category, image_url`

// Селект без content для баз, где аддитивная миграция не прошла
const codexLegacyColumns = `id, title, title_i18n, description, description_i18n,
	NULL AS content, category, image_url`

func (s *SQLStore) ListCodexEntries(ctx context.Context) ([]models.CodexEntry, error) {
	return firstOf(ctx, s.logger, "list_codex",
		strategy[[]models.CodexEntry]{name: "db", run: func(ctx context.Context) ([]models.CodexEntry, error) {
			entries, err := s.selectCodex(ctx, "", nil)
			if err != nil {
				return nil, err
			}
			saveSnapshot(s.snapshots, "codex", entries)
			return entries, nil
		}},
		strategy[[]models.CodexEntry]{name: "snapshot", run: func(ctx context.Context) ([]models.CodexEntry, error) {
			return loadSnapshot[models.CodexEntry](s.snapshots, "codex")
		}},
	)
}

func (s *SQLStore) ListCodexByCategory(ctx context.Context, category string) ([]models.CodexEntry, error) {
	return s.selectCodex(ctx, "WHERE category = $1", []any{category})
}

// selectCodex выполняет выборку, на legacy-схеме повторяя запрос без content.
func (s *SQLStore) selectCodex(ctx context.Context, where string, args []any) ([]models.CodexEntry, error) {
	var entries []models.CodexEntry
	query := fmt.Sprintf("SELECT %s FROM codex_entries %s ORDER BY title", codexColumns, where)
	err := sqlscan.Select(ctx, s.m.Read, &entries, query, args...)
	if err != nil && isMissingColumn(err) {
		query = fmt.Sprintf("SELECT %s FROM codex_entries %s ORDER BY title", codexLegacyColumns, where)
		err = sqlscan.Select(ctx, s.m.Read, &entries, query, args...)
	}
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *SQLStore) GetCodexEntry(ctx context.Context, id string) (*models.CodexEntry, error) {
	var e models.CodexEntry
	err := sqlscan.Get(ctx, s.m.Read, &e,
		fmt.Sprintf("SELECT %s FROM codex_entries WHERE id = $1", codexColumns), id)
	if err != nil && isMissingColumn(err) {
		err = sqlscan.Get(ctx, s.m.Read, &e,
			fmt.Sprintf("SELECT %s FROM codex_entries WHERE id = $1", codexLegacyColumns), id)
	}
	if err != nil {
		if sqlscan.NotFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (s *SQLStore) CreateCodexEntry(ctx context.Context, e models.CodexEntry) (*models.CodexEntry, error) {
	if e.ID == "" {
		e.ID = newID()
	}

	insert := fmt.Sprintf(`INSERT INTO codex_entries
		(id, title, title_i18n, description, description_i18n, content, category, image_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING %s`, codexColumns)
	args := []any{e.ID, e.Title, e.TitleI18n, e.Description, e.DescriptionI18n,
		e.Content, e.Category, e.ImageURL}

	return firstOf(ctx, s.logger, "create_codex",
		strategy[*models.CodexEntry]{name: "insert-returning", run: func(ctx context.Context) (*models.CodexEntry, error) {
			var out models.CodexEntry
			err := sqlscan.Get(ctx, s.m.Write, &out, insert, args...)
			if err != nil && isMissingColumn(err) {
				return s.createCodexLegacy(ctx, e)
			}
			if err != nil {
				return nil, err
			}
			return &out, nil
		}},
		strategy[*models.CodexEntry]{name: "reselect", run: func(ctx context.Context) (*models.CodexEntry, error) {
			return s.GetCodexEntry(ctx, e.ID)
		}},
		strategy[*models.CodexEntry]{name: "payload", run: func(ctx context.Context) (*models.CodexEntry, error) {
			return &e, nil
		}},
	)
}

// createCodexLegacy вставляет запись в схему без колонки content:
// полный текст сворачивается в description, чтобы не потерять данные.
func (s *SQLStore) createCodexLegacy(ctx context.Context, e models.CodexEntry) (*models.CodexEntry, error) {
	description := e.Description
	if e.Content != nil && *e.Content != "" {
		description = *e.Content
	}
	insert := fmt.Sprintf(`INSERT INTO codex_entries
		(id, title, title_i18n, description, description_i18n, category, image_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING %s`, codexLegacyColumns)
	var out models.CodexEntry
	err := sqlscan.Get(ctx, s.m.Write, &out, insert,
		e.ID, e.Title, e.TitleI18n, description, e.DescriptionI18n, e.Category, e.ImageURL)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SQLStore) UpdateCodexEntry(ctx context.Context, id string, patch models.CodexEntryPatch) (*models.CodexEntry, error) {
	current, err := s.GetCodexEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	set := newSetBuilder()
	setCol(set, "title", patch.Title)
	setCol(set, "title_i18n", patch.TitleI18n)
	setCol(set, "description", patch.Description)
	setCol(set, "description_i18n", patch.DescriptionI18n)
	setCol(set, "content", patch.Content)
	setCol(set, "category", patch.Category)
	setCol(set, "image_url", patch.ImageURL)
	if set.empty() {
		return current, nil
	}

	query, args := set.updateQuery("codex_entries", codexColumns, id)
	return firstOf(ctx, s.logger, "update_codex",
		strategy[*models.CodexEntry]{name: "update-returning", run: func(ctx context.Context) (*models.CodexEntry, error) {
			var out models.CodexEntry
			err := sqlscan.Get(ctx, s.m.Write, &out, query, args...)
			if err != nil && isMissingColumn(err) && patch.Content != nil {
				return s.updateCodexLegacy(ctx, id, patch)
			}
			if err != nil {
				return nil, err
			}
			return &out, nil
		}},
		strategy[*models.CodexEntry]{name: "reselect", run: func(ctx context.Context) (*models.CodexEntry, error) {
			return s.GetCodexEntry(ctx, id)
		}},
		strategy[*models.CodexEntry]{name: "payload", run: func(ctx context.Context) (*models.CodexEntry, error) {
			merged := *current
			applyCodexPatch(&merged, patch)
			return &merged, nil
		}},
	)
}

// updateCodexLegacy повторяет обновление на схеме без content:
// присланный полный текст уходит в description.
func (s *SQLStore) updateCodexLegacy(ctx context.Context, id string, patch models.CodexEntryPatch) (*models.CodexEntry, error) {
	legacy := patch
	if legacy.Description == nil {
		legacy.Description = legacy.Content
	}
	legacy.Content = nil

	set := newSetBuilder()
	setCol(set, "title", legacy.Title)
	setCol(set, "title_i18n", legacy.TitleI18n)
	setCol(set, "description", legacy.Description)
	setCol(set, "description_i18n", legacy.DescriptionI18n)
	setCol(set, "category", legacy.Category)
	setCol(set, "image_url", legacy.ImageURL)
	if set.empty() {
		return s.GetCodexEntry(ctx, id)
	}

	query, args := set.updateQuery("codex_entries", codexLegacyColumns, id)
	var out models.CodexEntry
	if err := sqlscan.Get(ctx, s.m.Write, &out, query, args...); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SQLStore) DeleteCodexEntry(ctx context.Context, id string) error {
	if _, err := s.GetCodexEntry(ctx, id); err != nil {
		return err
	}
	_, err := s.m.Write.ExecContext(ctx, "DELETE FROM codex_entries WHERE id = $1", id)
	return err
}
