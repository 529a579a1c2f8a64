package storage

import (
	"sort"

	"aethermoor-server/internal/models"
)

// ResolvedAudio — результат подбора трека: сам трек и победившая привязка.
type ResolvedAudio struct {
	Track      models.AudioTrack      `json:"track"`
	Assignment models.AudioAssignment `json:"assignment"`
}

// Ранги специфичности: привязка к конкретной сущности бьет страницу,
// страница бьет глобальный фон.
var specificityRank = map[string]int{
	models.AudioEntityChapter:   3,
	models.AudioEntityCharacter: 3,
	models.AudioEntityCodex:     3,
	models.AudioEntityLocation:  3,
	models.AudioEntityPage:      2,
	models.AudioEntityGlobal:    1,
}

// PickAssignment выбирает привязку под контекст запроса: фильтр по
// активности и совпадению, затем стабильная сортировка по специфичности
// и приоритету. При полном равенстве побеждает более ранняя привязка.
func PickAssignment(assignments []models.AudioAssignment, q models.AudioQuery) *models.AudioAssignment {
	var matched []models.AudioAssignment
	for _, a := range assignments {
		if a.Active == 0 {
			continue
		}
		if assignmentMatches(a, q) {
			matched = append(matched, a)
		}
	}
	if len(matched) == 0 {
		return nil
	}
	sort.SliceStable(matched, func(i, j int) bool {
		ri, rj := specificityRank[matched[i].EntityType], specificityRank[matched[j].EntityType]
		if ri != rj {
			return ri > rj
		}
		return matched[i].Priority > matched[j].Priority
	})
	return &matched[0]
}

func assignmentMatches(a models.AudioAssignment, q models.AudioQuery) bool {
	switch a.EntityType {
	case models.AudioEntityGlobal:
		return true
	case models.AudioEntityPage:
		return q.Page != "" && a.EntityID != nil && *a.EntityID == q.Page
	case models.AudioEntityChapter:
		return q.ChapterID != "" && a.EntityID != nil && *a.EntityID == q.ChapterID
	case models.AudioEntityCharacter:
		return q.CharacterID != "" && a.EntityID != nil && *a.EntityID == q.CharacterID
	case models.AudioEntityCodex:
		return q.CodexID != "" && a.EntityID != nil && *a.EntityID == q.CodexID
	case models.AudioEntityLocation:
		return q.LocationID != "" && a.EntityID != nil && *a.EntityID == q.LocationID
	}
	return false
}
