package models

// Chapter представляет главу романа.
// Временные метки хранятся как ISO8601-текст, чтобы строки были совместимы
// между встроенным и сетевым бэкендами.
type Chapter struct {
	ID            string  `db:"id" json:"id"`
	Title         string  `db:"title" json:"title"`
	TitleI18n     *string `db:"title_i18n" json:"titleI18n,omitempty"`
	Slug          string  `db:"slug" json:"slug"`
	Content       string  `db:"content" json:"content"`
	ContentI18n   *string `db:"content_i18n" json:"contentI18n,omitempty"`
	Excerpt       string  `db:"excerpt" json:"excerpt"`
	ExcerptI18n   *string `db:"excerpt_i18n" json:"excerptI18n,omitempty"`
	ChapterNumber int     `db:"chapter_number" json:"chapterNumber"`
	ArcNumber     *int    `db:"arc_number" json:"arcNumber,omitempty"`
	ArcTitle      *string `db:"arc_title" json:"arcTitle,omitempty"`
	ReadingTime   int     `db:"reading_time" json:"readingTime"`
	PublishedAt   string  `db:"published_at" json:"publishedAt"`
	ImageURL      *string `db:"image_url" json:"imageUrl,omitempty"`
}

// ChapterPatch — частичное обновление главы; nil-поля не трогаются.
type ChapterPatch struct {
	Title         *string `json:"title,omitempty"`
	TitleI18n     *string `json:"titleI18n,omitempty"`
	Slug          *string `json:"slug,omitempty"`
	Content       *string `json:"content,omitempty"`
	ContentI18n   *string `json:"contentI18n,omitempty"`
	Excerpt       *string `json:"excerpt,omitempty"`
	ExcerptI18n   *string `json:"excerptI18n,omitempty"`
	ChapterNumber *int    `json:"chapterNumber,omitempty"`
	ArcNumber     *int    `json:"arcNumber,omitempty"`
	ArcTitle      *string `json:"arcTitle,omitempty"`
	ReadingTime   *int    `json:"readingTime,omitempty"`
	PublishedAt   *string `json:"publishedAt,omitempty"`
	ImageURL      *string `json:"imageUrl,omitempty"`
}
