package storage

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/sqlscan"

	"aethermoor-server/internal/models"
)

const chapterColumns = `id, title, title_i18n, slug, content, content_i18n,
	excerpt, excerpt_i18n, chapter_number, arc_number, arc_title,
	reading_time, published_at, image_url`

// ListChapters возвращает главы по порядку номеров. При недоступной
// базе отдается последний offline-снапшот.
func (s *SQLStore) ListChapters(ctx context.Context) ([]models.Chapter, error) {
	return firstOf(ctx, s.logger, "list_chapters",
		strategy[[]models.Chapter]{name: "db", run: func(ctx context.Context) ([]models.Chapter, error) {
			var chapters []models.Chapter
			err := sqlscan.Select(ctx, s.m.Read, &chapters,
				fmt.Sprintf("SELECT %s FROM chapters ORDER BY chapter_number", chapterColumns))
			if err != nil {
				return nil, err
			}
			saveSnapshot(s.snapshots, "chapters", chapters)
			return chapters, nil
		}},
		strategy[[]models.Chapter]{name: "snapshot", run: func(ctx context.Context) ([]models.Chapter, error) {
			return loadSnapshot[models.Chapter](s.snapshots, "chapters")
		}},
	)
}

func (s *SQLStore) GetChapter(ctx context.Context, id string) (*models.Chapter, error) {
	var ch models.Chapter
	err := sqlscan.Get(ctx, s.m.Read, &ch,
		fmt.Sprintf("SELECT %s FROM chapters WHERE id = $1", chapterColumns), id)
	if err != nil {
		if sqlscan.NotFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &ch, nil
}

func (s *SQLStore) chapterSlugTaken(ctx context.Context, slug string) (bool, error) {
	var n int
	err := s.m.Read.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chapters WHERE slug = $1", slug).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLStore) GetChapterBySlug(ctx context.Context, slug string) (*models.Chapter, error) {
	var ch models.Chapter
	err := sqlscan.Get(ctx, s.m.Read, &ch,
		fmt.Sprintf("SELECT %s FROM chapters WHERE slug = $1", chapterColumns), slug)
	if err != nil {
		if sqlscan.NotFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &ch, nil
}

// CreateChapter вставляет главу, досчитывая excerpt и reading_time,
// если клиент их не прислал. Цепочка: insert+RETURNING, затем
// повторное чтение по id (вставка могла пройти без RETURNING),
// затем сам payload.
func (s *SQLStore) CreateChapter(ctx context.Context, ch models.Chapter) (*models.Chapter, error) {
	if ch.ID == "" {
		ch.ID = newID()
	}
	// Желаемый slug проходит ту же нормализацию и подбор суффикса,
	// что и сгенерированный: занятый slug не роняет вставку
	base := ch.Title
	if ch.Slug != "" {
		base = ch.Slug
	}
	slug, err := UniqueSlug(ctx, base, s.chapterSlugTaken)
	if err != nil {
		return nil, err
	}
	ch.Slug = slug
	if ch.Excerpt == "" {
		ch.Excerpt = DeriveExcerpt(ch.Content)
	}
	if ch.ReadingTime <= 0 {
		ch.ReadingTime = DeriveReadingTime(ch.Content)
	}
	if ch.PublishedAt == "" {
		ch.PublishedAt = nowISO()
	}

	insert := fmt.Sprintf(`INSERT INTO chapters
		(id, title, title_i18n, slug, content, content_i18n, excerpt, excerpt_i18n,
		 chapter_number, arc_number, arc_title, reading_time, published_at, image_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING %s`, chapterColumns)
	args := []any{ch.ID, ch.Title, ch.TitleI18n, ch.Slug, ch.Content, ch.ContentI18n,
		ch.Excerpt, ch.ExcerptI18n, ch.ChapterNumber, ch.ArcNumber, ch.ArcTitle,
		ch.ReadingTime, ch.PublishedAt, ch.ImageURL}

	return firstOf(ctx, s.logger, "create_chapter",
		strategy[*models.Chapter]{name: "insert-returning", run: func(ctx context.Context) (*models.Chapter, error) {
			var out models.Chapter
			if err := sqlscan.Get(ctx, s.m.Write, &out, insert, args...); err != nil {
				return nil, err
			}
			return &out, nil
		}},
		strategy[*models.Chapter]{name: "reselect", run: func(ctx context.Context) (*models.Chapter, error) {
			return s.GetChapter(ctx, ch.ID)
		}},
		strategy[*models.Chapter]{name: "payload", run: func(ctx context.Context) (*models.Chapter, error) {
			return &ch, nil
		}},
	)
}

func (s *SQLStore) UpdateChapter(ctx context.Context, id string, patch models.ChapterPatch) (*models.Chapter, error) {
	current, err := s.GetChapter(ctx, id)
	if err != nil {
		return nil, err
	}

	set := newSetBuilder()
	setCol(set, "title", patch.Title)
	setCol(set, "title_i18n", patch.TitleI18n)
	setCol(set, "slug", patch.Slug)
	setCol(set, "content", patch.Content)
	setCol(set, "content_i18n", patch.ContentI18n)
	setCol(set, "excerpt", patch.Excerpt)
	setCol(set, "excerpt_i18n", patch.ExcerptI18n)
	setCol(set, "chapter_number", patch.ChapterNumber)
	setCol(set, "arc_number", patch.ArcNumber)
	setCol(set, "arc_title", patch.ArcTitle)
	setCol(set, "reading_time", patch.ReadingTime)
	setCol(set, "published_at", patch.PublishedAt)
	setCol(set, "image_url", patch.ImageURL)

	// При смене текста без явного excerpt/reading_time — пересчитываем
	if patch.Content != nil {
		if patch.Excerpt == nil {
			setCol(set, "excerpt", ptr(DeriveExcerpt(*patch.Content)))
		}
		if patch.ReadingTime == nil {
			setCol(set, "reading_time", ptr(DeriveReadingTime(*patch.Content)))
		}
	}
	if set.empty() {
		return current, nil
	}

	query, args := set.updateQuery("chapters", chapterColumns, id)
	return firstOf(ctx, s.logger, "update_chapter",
		strategy[*models.Chapter]{name: "update-returning", run: func(ctx context.Context) (*models.Chapter, error) {
			var out models.Chapter
			if err := sqlscan.Get(ctx, s.m.Write, &out, query, args...); err != nil {
				return nil, err
			}
			return &out, nil
		}},
		strategy[*models.Chapter]{name: "reselect", run: func(ctx context.Context) (*models.Chapter, error) {
			return s.GetChapter(ctx, id)
		}},
		strategy[*models.Chapter]{name: "payload", run: func(ctx context.Context) (*models.Chapter, error) {
			merged := *current
			applyChapterPatch(&merged, patch)
			return &merged, nil
		}},
	)
}

func (s *SQLStore) DeleteChapter(ctx context.Context, id string) error {
	if _, err := s.GetChapter(ctx, id); err != nil {
		return err
	}
	_, err := s.m.Write.ExecContext(ctx, "DELETE FROM chapters WHERE id = $1", id)
	return err
}
