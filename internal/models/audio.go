package models

// Типы целей аудио-привязки.
const (
	AudioEntityGlobal    = "global"
	AudioEntityPage      = "page"
	AudioEntityChapter   = "chapter"
	AudioEntityCharacter = "character"
	AudioEntityCodex     = "codex"
	AudioEntityLocation  = "location"
)

// AudioTrack — загруженный аудио-ассет (музыка, эмбиент, sfx).
// Loop хранится как 0/1 для совместимости колонок между бэкендами.
type AudioTrack struct {
	ID    string `db:"id" json:"id"`
	Title string `db:"title" json:"title"`
	// kind: music | ambient | sfx
	Kind    string `db:"kind" json:"kind"`
	FileURL string `db:"file_url" json:"fileUrl"`
	Loop    int    `db:"loop" json:"loop"`
	// Рекомендованная громкость по умолчанию, 0-100
	VolumeDefault int `db:"volume_default" json:"volumeDefault"`
	// Потолок пользовательского слайдера громкости для этого трека, 0-100
	VolumeUserMax int     `db:"volume_user_max" json:"volumeUserMax"`
	FadeInMs      *int    `db:"fade_in_ms" json:"fadeInMs,omitempty"`
	FadeOutMs     *int    `db:"fade_out_ms" json:"fadeOutMs,omitempty"`
	CreatedAt     *string `db:"created_at" json:"createdAt,omitempty"`
	UpdatedAt     *string `db:"updated_at" json:"updatedAt,omitempty"`
}

// AudioTrackPatch — частичное обновление трека.
type AudioTrackPatch struct {
	Title         *string `json:"title,omitempty"`
	Kind          *string `json:"kind,omitempty"`
	FileURL       *string `json:"fileUrl,omitempty"`
	Loop          *int    `json:"loop,omitempty"`
	VolumeDefault *int    `json:"volumeDefault,omitempty"`
	VolumeUserMax *int    `json:"volumeUserMax,omitempty"`
	FadeInMs      *int    `json:"fadeInMs,omitempty"`
	FadeOutMs     *int    `json:"fadeOutMs,omitempty"`
}

// AudioAssignment привязывает трек к сущности (глава, персонаж, запись кодекса,
// локация), странице или глобально. Разрешение учитывает специфичность и приоритет.
type AudioAssignment struct {
	ID      string `db:"id" json:"id"`
	TrackID string `db:"track_id" json:"trackId"`
	// entityType: global | page | chapter | character | codex | location
	EntityType string `db:"entity_type" json:"entityType"`
	// EntityID nil для global-привязок
	EntityID *string `db:"entity_id" json:"entityId,omitempty"`
	// Больший приоритет побеждает при равной специфичности
	Priority  int     `db:"priority" json:"priority"`
	Active    int     `db:"active" json:"active"`
	CreatedAt *string `db:"created_at" json:"createdAt,omitempty"`
	UpdatedAt *string `db:"updated_at" json:"updatedAt,omitempty"`
}

// AudioAssignmentPatch — частичное обновление привязки.
type AudioAssignmentPatch struct {
	TrackID    *string `json:"trackId,omitempty"`
	EntityType *string `json:"entityType,omitempty"`
	EntityID   *string `json:"entityId,omitempty"`
	Priority   *int    `json:"priority,omitempty"`
	Active     *int    `json:"active,omitempty"`
}

// AudioQuery — контекст запроса на разрешение трека; все поля опциональны.
type AudioQuery struct {
	Page        string `form:"page" json:"page,omitempty"`
	ChapterID   string `form:"chapterId" json:"chapterId,omitempty"`
	CharacterID string `form:"characterId" json:"characterId,omitempty"`
	CodexID     string `form:"codexId" json:"codexId,omitempty"`
	LocationID  string `form:"locationId" json:"locationId,omitempty"`
}
