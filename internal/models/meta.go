package models

// MetaEntry — служебная пара ключ/значение (маркеры сидинга и т.п.).
type MetaEntry struct {
	Key       string  `db:"key" json:"key"`
	Value     *string `db:"value" json:"value,omitempty"`
	UpdatedAt *string `db:"updated_at" json:"updatedAt,omitempty"`
}
