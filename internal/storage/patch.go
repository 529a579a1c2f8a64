package storage

import "aethermoor-server/internal/models"

// Применение патчей к моделям в памяти. Используется файловым
// хранилищем и payload-fallback'ом SQL-хранилища.

func applyChapterPatch(ch *models.Chapter, p models.ChapterPatch) {
	if p.Title != nil {
		ch.Title = *p.Title
	}
	if p.TitleI18n != nil {
		ch.TitleI18n = p.TitleI18n
	}
	if p.Slug != nil {
		ch.Slug = *p.Slug
	}
	if p.Content != nil {
		ch.Content = *p.Content
		if p.Excerpt == nil {
			ch.Excerpt = DeriveExcerpt(*p.Content)
		}
		if p.ReadingTime == nil {
			ch.ReadingTime = DeriveReadingTime(*p.Content)
		}
	}
	if p.ContentI18n != nil {
		ch.ContentI18n = p.ContentI18n
	}
	if p.Excerpt != nil {
		ch.Excerpt = *p.Excerpt
	}
	if p.ExcerptI18n != nil {
		ch.ExcerptI18n = p.ExcerptI18n
	}
	if p.ChapterNumber != nil {
		ch.ChapterNumber = *p.ChapterNumber
	}
	if p.ArcNumber != nil {
		ch.ArcNumber = p.ArcNumber
	}
	if p.ArcTitle != nil {
		ch.ArcTitle = p.ArcTitle
	}
	if p.ReadingTime != nil {
		ch.ReadingTime = *p.ReadingTime
	}
	if p.PublishedAt != nil {
		ch.PublishedAt = *p.PublishedAt
	}
	if p.ImageURL != nil {
		ch.ImageURL = p.ImageURL
	}
}

func applyCharacterPatch(c *models.Character, p models.CharacterPatch) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.NameI18n != nil {
		c.NameI18n = p.NameI18n
	}
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.TitleI18n != nil {
		c.TitleI18n = p.TitleI18n
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Story != nil {
		c.Story = p.Story
	}
	if p.Slug != nil {
		c.Slug = *p.Slug
	}
	if p.ImageURL != nil {
		c.ImageURL = p.ImageURL
	}
	if p.Role != nil {
		c.Role = *p.Role
	}
}

func applyLocationPatch(l *models.Location, p models.LocationPatch) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.NameI18n != nil {
		l.NameI18n = p.NameI18n
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.DescriptionI18n != nil {
		l.DescriptionI18n = p.DescriptionI18n
	}
	if p.Details != nil {
		l.Details = p.Details
	}
	if p.ImageURL != nil {
		l.ImageURL = p.ImageURL
	}
	if p.Slug != nil {
		l.Slug = p.Slug
	}
	if p.Tags != nil {
		l.Tags = p.Tags
	}
	if p.MapX != nil {
		l.MapX = *p.MapX
	}
	if p.MapY != nil {
		l.MapY = *p.MapY
	}
	if p.Type != nil {
		l.Type = *p.Type
	}
}

func applyCodexPatch(e *models.CodexEntry, p models.CodexEntryPatch) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.TitleI18n != nil {
		e.TitleI18n = p.TitleI18n
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.DescriptionI18n != nil {
		e.DescriptionI18n = p.DescriptionI18n
	}
	if p.Content != nil {
		e.Content = p.Content
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.ImageURL != nil {
		e.ImageURL = p.ImageURL
	}
}

func applyBlogPatch(b *models.BlogPost, p models.BlogPostPatch) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.TitleI18n != nil {
		b.TitleI18n = p.TitleI18n
	}
	if p.Slug != nil {
		b.Slug = *p.Slug
	}
	if p.Content != nil {
		b.Content = *p.Content
	}
	if p.ContentI18n != nil {
		b.ContentI18n = p.ContentI18n
	}
	if p.Excerpt != nil {
		b.Excerpt = *p.Excerpt
	}
	if p.ExcerptI18n != nil {
		b.ExcerptI18n = p.ExcerptI18n
	}
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.PublishedAt != nil {
		b.PublishedAt = *p.PublishedAt
	}
	if p.ImageURL != nil {
		b.ImageURL = p.ImageURL
	}
}

func applyTrackPatch(t *models.AudioTrack, p models.AudioTrackPatch) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Kind != nil {
		t.Kind = *p.Kind
	}
	if p.FileURL != nil {
		t.FileURL = *p.FileURL
	}
	if p.Loop != nil {
		t.Loop = *p.Loop
	}
	if p.VolumeDefault != nil {
		t.VolumeDefault = *p.VolumeDefault
	}
	if p.VolumeUserMax != nil {
		t.VolumeUserMax = *p.VolumeUserMax
	}
	if p.FadeInMs != nil {
		t.FadeInMs = p.FadeInMs
	}
	if p.FadeOutMs != nil {
		t.FadeOutMs = p.FadeOutMs
	}
}

func applyAssignmentPatch(a *models.AudioAssignment, p models.AudioAssignmentPatch) {
	if p.TrackID != nil {
		a.TrackID = *p.TrackID
	}
	if p.EntityType != nil {
		a.EntityType = *p.EntityType
	}
	if p.EntityID != nil {
		a.EntityID = p.EntityID
	}
	if p.Priority != nil {
		a.Priority = *p.Priority
	}
	if p.Active != nil {
		a.Active = *p.Active
	}
}
