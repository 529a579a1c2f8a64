package models

// Категории глоссария; фиксированный набор проверяется на границе API.
var CodexCategories = []string{"magic", "creatures", "items", "other"}

// IsValidCodexCategory проверяет принадлежность категории фиксированному набору.
func IsValidCodexCategory(category string) bool {
	for _, c := range CodexCategories {
		if c == category {
			return true
		}
	}
	return false
}

// CodexEntry представляет запись глоссария (кодекса мира).
// Content — полный rich-HTML текст; Description — краткое описание карточки.
// На старых образах базы колонки content может не быть (legacy-схема).
type CodexEntry struct {
	ID              string  `db:"id" json:"id"`
	Title           string  `db:"title" json:"title"`
	TitleI18n       *string `db:"title_i18n" json:"titleI18n,omitempty"`
	Description     string  `db:"description" json:"description"`
	DescriptionI18n *string `db:"description_i18n" json:"descriptionI18n,omitempty"`
	Content         *string `db:"content" json:"content,omitempty"`
	Category        string  `db:"category" json:"category"`
	ImageURL        *string `db:"image_url" json:"imageUrl,omitempty"`
}

// CodexEntryPatch — частичное обновление записи глоссария.
type CodexEntryPatch struct {
	Title           *string `json:"title,omitempty"`
	TitleI18n       *string `json:"titleI18n,omitempty"`
	Description     *string `json:"description,omitempty"`
	DescriptionI18n *string `json:"descriptionI18n,omitempty"`
	Content         *string `json:"content,omitempty"`
	Category        *string `json:"category,omitempty"`
	ImageURL        *string `json:"imageUrl,omitempty"`
}
