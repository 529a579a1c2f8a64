package models

// BlogPost представляет запись блога автора.
// category: update, world-building, behind-scenes, research
type BlogPost struct {
	ID          string  `db:"id" json:"id"`
	Title       string  `db:"title" json:"title"`
	TitleI18n   *string `db:"title_i18n" json:"titleI18n,omitempty"`
	Slug        string  `db:"slug" json:"slug"`
	Content     string  `db:"content" json:"content"`
	ContentI18n *string `db:"content_i18n" json:"contentI18n,omitempty"`
	Excerpt     string  `db:"excerpt" json:"excerpt"`
	ExcerptI18n *string `db:"excerpt_i18n" json:"excerptI18n,omitempty"`
	Category    string  `db:"category" json:"category"`
	PublishedAt string  `db:"published_at" json:"publishedAt"`
	ImageURL    *string `db:"image_url" json:"imageUrl,omitempty"`
}

// BlogPostPatch — частичное обновление записи блога.
type BlogPostPatch struct {
	Title       *string `json:"title,omitempty"`
	TitleI18n   *string `json:"titleI18n,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Content     *string `json:"content,omitempty"`
	ContentI18n *string `json:"contentI18n,omitempty"`
	Excerpt     *string `json:"excerpt,omitempty"`
	ExcerptI18n *string `json:"excerptI18n,omitempty"`
	Category    *string `json:"category,omitempty"`
	PublishedAt *string `json:"publishedAt,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}
