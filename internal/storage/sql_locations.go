package storage

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/sqlscan"

	"aethermoor-server/internal/models"
)

const locationColumns = `id, name, name_i18n, description, description_i18n,
	details, image_url, slug, tags, map_x, map_y, type`

func (s *SQLStore) ListLocations(ctx context.Context) ([]models.Location, error) {
	return firstOf(ctx, s.logger, "list_locations",
		strategy[[]models.Location]{name: "db", run: func(ctx context.Context) ([]models.Location, error) {
			var locations []models.Location
			err := sqlscan.Select(ctx, s.m.Read, &locations,
				fmt.Sprintf("SELECT %s FROM locations ORDER BY name", locationColumns))
			if err != nil {
				return nil, err
			}
			saveSnapshot(s.snapshots, "locations", locations)
			return locations, nil
		}},
		strategy[[]models.Location]{name: "snapshot", run: func(ctx context.Context) ([]models.Location, error) {
			return loadSnapshot[models.Location](s.snapshots, "locations")
		}},
	)
}

func (s *SQLStore) GetLocation(ctx context.Context, id string) (*models.Location, error) {
	var l models.Location
	err := sqlscan.Get(ctx, s.m.Read, &l,
		fmt.Sprintf("SELECT %s FROM locations WHERE id = $1", locationColumns), id)
	if err != nil {
		if sqlscan.NotFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (s *SQLStore) CreateLocation(ctx context.Context, l models.Location) (*models.Location, error) {
	if l.ID == "" {
		l.ID = newID()
	}
	if l.Slug == nil {
		l.Slug = ptr(Slugify(l.Name))
	}

	insert := fmt.Sprintf(`INSERT INTO locations
		(id, name, name_i18n, description, description_i18n, details, image_url, slug, tags, map_x, map_y, type)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING %s`, locationColumns)
	args := []any{l.ID, l.Name, l.NameI18n, l.Description, l.DescriptionI18n,
		l.Details, l.ImageURL, l.Slug, l.Tags, l.MapX, l.MapY, l.Type}

	return firstOf(ctx, s.logger, "create_location",
		strategy[*models.Location]{name: "insert-returning", run: func(ctx context.Context) (*models.Location, error) {
			var out models.Location
			if err := sqlscan.Get(ctx, s.m.Write, &out, insert, args...); err != nil {
				return nil, err
			}
			return &out, nil
		}},
		strategy[*models.Location]{name: "reselect", run: func(ctx context.Context) (*models.Location, error) {
			return s.GetLocation(ctx, l.ID)
		}},
		strategy[*models.Location]{name: "payload", run: func(ctx context.Context) (*models.Location, error) {
			return &l, nil
		}},
	)
}

func (s *SQLStore) UpdateLocation(ctx context.Context, id string, patch models.LocationPatch) (*models.Location, error) {
	current, err := s.GetLocation(ctx, id)
	if err != nil {
		return nil, err
	}

	set := newSetBuilder()
	setCol(set, "name", patch.Name)
	setCol(set, "name_i18n", patch.NameI18n)
	setCol(set, "description", patch.Description)
	setCol(set, "description_i18n", patch.DescriptionI18n)
	setCol(set, "details", patch.Details)
	setCol(set, "image_url", patch.ImageURL)
	setCol(set, "slug", patch.Slug)
	setCol(set, "tags", patch.Tags)
	setCol(set, "map_x", patch.MapX)
	setCol(set, "map_y", patch.MapY)
	setCol(set, "type", patch.Type)
	if set.empty() {
		return current, nil
	}

	query, args := set.updateQuery("locations", locationColumns, id)
	return firstOf(ctx, s.logger, "update_location",
		strategy[*models.Location]{name: "update-returning", run: func(ctx context.Context) (*models.Location, error) {
			var out models.Location
			if err := sqlscan.Get(ctx, s.m.Write, &out, query, args...); err != nil {
				return nil, err
			}
			return &out, nil
		}},
		strategy[*models.Location]{name: "reselect", run: func(ctx context.Context) (*models.Location, error) {
			return s.GetLocation(ctx, id)
		}},
		strategy[*models.Location]{name: "payload", run: func(ctx context.Context) (*models.Location, error) {
			merged := *current
			applyLocationPatch(&merged, patch)
			return &merged, nil
		}},
	)
}

func (s *SQLStore) DeleteLocation(ctx context.Context, id string) error {
	if _, err := s.GetLocation(ctx, id); err != nil {
		return err
	}
	_, err := s.m.Write.ExecContext(ctx, "DELETE FROM locations WHERE id = $1", id)
	return err
}
