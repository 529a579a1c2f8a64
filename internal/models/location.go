package models

// Location представляет локацию на карте мира.
// MapX/MapY — координаты в процентах от размеров карты.
type Location struct {
	ID              string  `db:"id" json:"id"`
	Name            string  `db:"name" json:"name"`
	NameI18n        *string `db:"name_i18n" json:"nameI18n,omitempty"`
	Description     string  `db:"description" json:"description"`
	DescriptionI18n *string `db:"description_i18n" json:"descriptionI18n,omitempty"`
	Details         *string `db:"details" json:"details,omitempty"`
	ImageURL        *string `db:"image_url" json:"imageUrl,omitempty"`
	Slug            *string `db:"slug" json:"slug,omitempty"`
	// Теги через запятую для быстрой фильтрации (например "continente,kingdom,ocean")
	Tags *string `db:"tags" json:"tags,omitempty"`
	MapX int     `db:"map_x" json:"mapX"`
	MapY int     `db:"map_y" json:"mapY"`
	// type: kingdom, forest, ruins и т.д.
	Type string `db:"type" json:"type"`
}

// LocationPatch — частичное обновление локации.
type LocationPatch struct {
	Name            *string `json:"name,omitempty"`
	NameI18n        *string `json:"nameI18n,omitempty"`
	Description     *string `json:"description,omitempty"`
	DescriptionI18n *string `json:"descriptionI18n,omitempty"`
	Details         *string `json:"details,omitempty"`
	ImageURL        *string `json:"imageUrl,omitempty"`
	Slug            *string `json:"slug,omitempty"`
	Tags            *string `json:"tags,omitempty"`
	MapX            *int    `json:"mapX,omitempty"`
	MapY            *int    `json:"mapY,omitempty"`
	Type            *string `json:"type,omitempty"`
}
