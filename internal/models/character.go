package models

// Character представляет персонажа романа.
type Character struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	NameI18n    *string `db:"name_i18n" json:"nameI18n,omitempty"`
	Title       string  `db:"title" json:"title"`
	TitleI18n   *string `db:"title_i18n" json:"titleI18n,omitempty"`
	Description string  `db:"description" json:"description"`
	Story       *string `db:"story" json:"story,omitempty"`
	Slug        string  `db:"slug" json:"slug"`
	ImageURL    *string `db:"image_url" json:"imageUrl,omitempty"`
	// role: protagonist, antagonist, supporting
	Role string `db:"role" json:"role"`
}

// CharacterPatch — частичное обновление персонажа.
type CharacterPatch struct {
	Name        *string `json:"name,omitempty"`
	NameI18n    *string `json:"nameI18n,omitempty"`
	Title       *string `json:"title,omitempty"`
	TitleI18n   *string `json:"titleI18n,omitempty"`
	Description *string `json:"description,omitempty"`
	Story       *string `json:"story,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	Role        *string `json:"role,omitempty"`
}
