package storage

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/sqlscan"

	"aethermoor-server/internal/models"
)

// slug может быть NULL на старых образах базы
const characterColumns = `id, name, name_i18n, title, title_i18n, description,
	story, COALESCE(slug, '') AS slug, image_url, role`

func (s *SQLStore) ListCharacters(ctx context.Context) ([]models.Character, error) {
	return firstOf(ctx, s.logger, "list_characters",
		strategy[[]models.Character]{name: "db", run: func(ctx context.Context) ([]models.Character, error) {
			var characters []models.Character
			err := sqlscan.Select(ctx, s.m.Read, &characters,
				fmt.Sprintf("SELECT %s FROM characters ORDER BY name", characterColumns))
			if err != nil {
				return nil, err
			}
			saveSnapshot(s.snapshots, "characters", characters)
			return characters, nil
		}},
		strategy[[]models.Character]{name: "snapshot", run: func(ctx context.Context) ([]models.Character, error) {
			return loadSnapshot[models.Character](s.snapshots, "characters")
		}},
	)
}

func (s *SQLStore) GetCharacter(ctx context.Context, id string) (*models.Character, error) {
	var c models.Character
	err := sqlscan.Get(ctx, s.m.Read, &c,
		fmt.Sprintf("SELECT %s FROM characters WHERE id = $1", characterColumns), id)
	if err != nil {
		if sqlscan.NotFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *SQLStore) characterSlugTaken(ctx context.Context, slug string) (bool, error) {
	var n int
	err := s.m.Read.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM characters WHERE slug = $1", slug).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLStore) CreateCharacter(ctx context.Context, c models.Character) (*models.Character, error) {
	if c.ID == "" {
		c.ID = newID()
	}
	// На колонке нет UNIQUE (она аддитивная), поэтому дедупликация
	// желаемого slug'а — единственная защита от дублей
	base := c.Name
	if c.Slug != "" {
		base = c.Slug
	}
	slug, err := UniqueSlug(ctx, base, s.characterSlugTaken)
	if err != nil {
		return nil, err
	}
	c.Slug = slug

	insert := fmt.Sprintf(`INSERT INTO characters
		(id, name, name_i18n, title, title_i18n, description, story, slug, image_url, role)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING %s`, characterColumns)
	args := []any{c.ID, c.Name, c.NameI18n, c.Title, c.TitleI18n, c.Description,
		c.Story, c.Slug, c.ImageURL, c.Role}

	return firstOf(ctx, s.logger, "create_character",
		strategy[*models.Character]{name: "insert-returning", run: func(ctx context.Context) (*models.Character, error) {
			var out models.Character
			if err := sqlscan.Get(ctx, s.m.Write, &out, insert, args...); err != nil {
				return nil, err
			}
			return &out, nil
		}},
		strategy[*models.Character]{name: "reselect", run: func(ctx context.Context) (*models.Character, error) {
			return s.GetCharacter(ctx, c.ID)
		}},
		strategy[*models.Character]{name: "payload", run: func(ctx context.Context) (*models.Character, error) {
			return &c, nil
		}},
	)
}

func (s *SQLStore) UpdateCharacter(ctx context.Context, id string, patch models.CharacterPatch) (*models.Character, error) {
	current, err := s.GetCharacter(ctx, id)
	if err != nil {
		return nil, err
	}

	set := newSetBuilder()
	setCol(set, "name", patch.Name)
	setCol(set, "name_i18n", patch.NameI18n)
	setCol(set, "title", patch.Title)
	setCol(set, "title_i18n", patch.TitleI18n)
	setCol(set, "description", patch.Description)
	setCol(set, "story", patch.Story)
	setCol(set, "slug", patch.Slug)
	setCol(set, "image_url", patch.ImageURL)
	setCol(set, "role", patch.Role)
	if set.empty() {
		return current, nil
	}

	query, args := set.updateQuery("characters", characterColumns, id)
	return firstOf(ctx, s.logger, "update_character",
		strategy[*models.Character]{name: "update-returning", run: func(ctx context.Context) (*models.Character, error) {
			var out models.Character
			if err := sqlscan.Get(ctx, s.m.Write, &out, query, args...); err != nil {
				return nil, err
			}
			return &out, nil
		}},
		strategy[*models.Character]{name: "reselect", run: func(ctx context.Context) (*models.Character, error) {
			return s.GetCharacter(ctx, id)
		}},
		strategy[*models.Character]{name: "payload", run: func(ctx context.Context) (*models.Character, error) {
			merged := *current
			applyCharacterPatch(&merged, patch)
			return &merged, nil
		}},
	)
}

func (s *SQLStore) DeleteCharacter(ctx context.Context, id string) error {
	if _, err := s.GetCharacter(ctx, id); err != nil {
		return err
	}
	_, err := s.m.Write.ExecContext(ctx, "DELETE FROM characters WHERE id = $1", id)
	return err
}
