package models

// ReadingProgress — прогресс чтения главы в рамках браузерной сессии.
// На пару (session_id, chapter_id) существует ровно одна строка.
type ReadingProgress struct {
	ID        string `db:"id" json:"id"`
	ChapterID string `db:"chapter_id" json:"chapterId"`
	SessionID string `db:"session_id" json:"sessionId"`
	// Процент прочитанного, целое в диапазоне [0,100]
	Progress   int    `db:"progress" json:"progress"`
	LastReadAt string `db:"last_read_at" json:"lastReadAt"`
}

// ClampProgress приводит произвольное значение прогресса к диапазону [0,100].
func ClampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
