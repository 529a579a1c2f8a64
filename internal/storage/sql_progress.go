package storage

import (
	"context"

	"github.com/georgysavva/scany/v2/sqlscan"

	"aethermoor-server/internal/models"
)

const progressColumns = `id, chapter_id, session_id, progress, last_read_at`

func (s *SQLStore) ListProgress(ctx context.Context, sessionID string) ([]models.ReadingProgress, error) {
	var items []models.ReadingProgress
	err := sqlscan.Select(ctx, s.m.Read, &items,
		"SELECT "+progressColumns+" FROM reading_progress WHERE session_id = $1", sessionID)
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertProgress обновляет прогресс пары (session, chapter) или создает
// новую строку. Сначала UPDATE ... RETURNING: если строка нашлась,
// INSERT не нужен; гонка на вставке гасится уникальным индексом.
func (s *SQLStore) UpsertProgress(ctx context.Context, sessionID, chapterID string, progress int) (*models.ReadingProgress, error) {
	progress = models.ClampProgress(progress)
	now := nowISO()

	var out models.ReadingProgress
	err := sqlscan.Get(ctx, s.m.Write, &out,
		`UPDATE reading_progress SET progress = $1, last_read_at = $2
		 WHERE session_id = $3 AND chapter_id = $4
		 RETURNING `+progressColumns,
		progress, now, sessionID, chapterID)
	if err == nil {
		return &out, nil
	}
	if !sqlscan.NotFound(err) {
		return nil, err
	}

	err = sqlscan.Get(ctx, s.m.Write, &out,
		`INSERT INTO reading_progress (id, chapter_id, session_id, progress, last_read_at)
		 VALUES ($1,$2,$3,$4,$5)
		 RETURNING `+progressColumns,
		newID(), chapterID, sessionID, progress, now)
	if err == nil {
		return &out, nil
	}
	if !isUniqueViolation(err) {
		return nil, err
	}

	// Параллельная вставка успела раньше — повторяем UPDATE
	err = sqlscan.Get(ctx, s.m.Write, &out,
		`UPDATE reading_progress SET progress = $1, last_read_at = $2
		 WHERE session_id = $3 AND chapter_id = $4
		 RETURNING `+progressColumns,
		progress, now, sessionID, chapterID)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
