package storage

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/sqlscan"

	"aethermoor-server/internal/models"
)

const trackColumns = `id, title, kind, file_url, loop, volume_default,
	volume_user_max, fade_in_ms, fade_out_ms, created_at, updated_at`

const assignmentColumns = `id, track_id, entity_type, entity_id, priority,
	active, created_at, updated_at`

func (s *SQLStore) ListAudioTracks(ctx context.Context) ([]models.AudioTrack, error) {
	return firstOf(ctx, s.logger, "list_audio_tracks",
		strategy[[]models.AudioTrack]{name: "db", run: func(ctx context.Context) ([]models.AudioTrack, error) {
			var tracks []models.AudioTrack
			err := sqlscan.Select(ctx, s.m.Read, &tracks,
				fmt.Sprintf("SELECT %s FROM audio_tracks ORDER BY title", trackColumns))
			if err != nil {
				return nil, err
			}
			saveSnapshot(s.snapshots, "audio-tracks", tracks)
			return tracks, nil
		}},
		strategy[[]models.AudioTrack]{name: "snapshot", run: func(ctx context.Context) ([]models.AudioTrack, error) {
			return loadSnapshot[models.AudioTrack](s.snapshots, "audio-tracks")
		}},
	)
}

func (s *SQLStore) GetAudioTrack(ctx context.Context, id string) (*models.AudioTrack, error) {
	var t models.AudioTrack
	err := sqlscan.Get(ctx, s.m.Read, &t,
		fmt.Sprintf("SELECT %s FROM audio_tracks WHERE id = $1", trackColumns), id)
	if err != nil {
		if sqlscan.NotFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (s *SQLStore) CreateAudioTrack(ctx context.Context, t models.AudioTrack) (*models.AudioTrack, error) {
	if t.ID == "" {
		t.ID = newID()
	}
	if t.Kind == "" {
		t.Kind = "music"
	}
	if t.VolumeDefault <= 0 {
		t.VolumeDefault = 70
	}
	if t.VolumeUserMax <= 0 {
		t.VolumeUserMax = 70
	}
	now := nowISO()
	t.CreatedAt = &now
	t.UpdatedAt = &now

	insert := fmt.Sprintf(`INSERT INTO audio_tracks
		(id, title, kind, file_url, loop, volume_default, volume_user_max,
		 fade_in_ms, fade_out_ms, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING %s`, trackColumns)
	args := []any{t.ID, t.Title, t.Kind, t.FileURL, t.Loop, t.VolumeDefault,
		t.VolumeUserMax, t.FadeInMs, t.FadeOutMs, t.CreatedAt, t.UpdatedAt}

	return firstOf(ctx, s.logger, "create_audio_track",
		strategy[*models.AudioTrack]{name: "insert-returning", run: func(ctx context.Context) (*models.AudioTrack, error) {
			var out models.AudioTrack
			if err := sqlscan.Get(ctx, s.m.Write, &out, insert, args...); err != nil {
				return nil, err
			}
			return &out, nil
		}},
		strategy[*models.AudioTrack]{name: "reselect", run: func(ctx context.Context) (*models.AudioTrack, error) {
			return s.GetAudioTrack(ctx, t.ID)
		}},
		strategy[*models.AudioTrack]{name: "payload", run: func(ctx context.Context) (*models.AudioTrack, error) {
			return &t, nil
		}},
	)
}

func (s *SQLStore) UpdateAudioTrack(ctx context.Context, id string, patch models.AudioTrackPatch) (*models.AudioTrack, error) {
	current, err := s.GetAudioTrack(ctx, id)
	if err != nil {
		return nil, err
	}

	set := newSetBuilder()
	setCol(set, "title", patch.Title)
	setCol(set, "kind", patch.Kind)
	setCol(set, "file_url", patch.FileURL)
	setCol(set, "loop", patch.Loop)
	setCol(set, "volume_default", patch.VolumeDefault)
	setCol(set, "volume_user_max", patch.VolumeUserMax)
	setCol(set, "fade_in_ms", patch.FadeInMs)
	setCol(set, "fade_out_ms", patch.FadeOutMs)
	if set.empty() {
		return current, nil
	}
	setCol(set, "updated_at", ptr(nowISO()))

	query, args := set.updateQuery("audio_tracks", trackColumns, id)
	return firstOf(ctx, s.logger, "update_audio_track",
		strategy[*models.AudioTrack]{name: "update-returning", run: func(ctx context.Context) (*models.AudioTrack, error) {
			var out models.AudioTrack
			if err := sqlscan.Get(ctx, s.m.Write, &out, query, args...); err != nil {
				return nil, err
			}
			return &out, nil
		}},
		strategy[*models.AudioTrack]{name: "reselect", run: func(ctx context.Context) (*models.AudioTrack, error) {
			return s.GetAudioTrack(ctx, id)
		}},
		strategy[*models.AudioTrack]{name: "payload", run: func(ctx context.Context) (*models.AudioTrack, error) {
			merged := *current
			applyTrackPatch(&merged, patch)
			return &merged, nil
		}},
	)
}

// DeleteAudioTrack удаляет трек вместе с его привязками, чтобы не
// оставлять висячих assignment'ов (FK между таблицами нет).
func (s *SQLStore) DeleteAudioTrack(ctx context.Context, id string) error {
	if _, err := s.GetAudioTrack(ctx, id); err != nil {
		return err
	}
	if _, err := s.m.Write.ExecContext(ctx,
		"DELETE FROM audio_assignments WHERE track_id = $1", id); err != nil {
		return err
	}
	_, err := s.m.Write.ExecContext(ctx, "DELETE FROM audio_tracks WHERE id = $1", id)
	return err
}

func (s *SQLStore) ListAudioAssignments(ctx context.Context) ([]models.AudioAssignment, error) {
	return firstOf(ctx, s.logger, "list_audio_assignments",
		strategy[[]models.AudioAssignment]{name: "db", run: func(ctx context.Context) ([]models.AudioAssignment, error) {
			var assignments []models.AudioAssignment
			err := sqlscan.Select(ctx, s.m.Read, &assignments,
				fmt.Sprintf("SELECT %s FROM audio_assignments ORDER BY created_at", assignmentColumns))
			if err != nil {
				return nil, err
			}
			saveSnapshot(s.snapshots, "audio-assignments", assignments)
			return assignments, nil
		}},
		strategy[[]models.AudioAssignment]{name: "snapshot", run: func(ctx context.Context) ([]models.AudioAssignment, error) {
			return loadSnapshot[models.AudioAssignment](s.snapshots, "audio-assignments")
		}},
	)
}

func (s *SQLStore) getAudioAssignment(ctx context.Context, id string) (*models.AudioAssignment, error) {
	var a models.AudioAssignment
	err := sqlscan.Get(ctx, s.m.Read, &a,
		fmt.Sprintf("SELECT %s FROM audio_assignments WHERE id = $1", assignmentColumns), id)
	if err != nil {
		if sqlscan.NotFound(err) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *SQLStore) CreateAudioAssignment(ctx context.Context, a models.AudioAssignment) (*models.AudioAssignment, error) {
	if a.ID == "" {
		a.ID = newID()
	}
	now := nowISO()
	a.CreatedAt = &now
	a.UpdatedAt = &now

	insert := fmt.Sprintf(`INSERT INTO audio_assignments
		(id, track_id, entity_type, entity_id, priority, active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING %s`, assignmentColumns)
	args := []any{a.ID, a.TrackID, a.EntityType, a.EntityID, a.Priority, a.Active,
		a.CreatedAt, a.UpdatedAt}

	return firstOf(ctx, s.logger, "create_audio_assignment",
		strategy[*models.AudioAssignment]{name: "insert-returning", run: func(ctx context.Context) (*models.AudioAssignment, error) {
			var out models.AudioAssignment
			if err := sqlscan.Get(ctx, s.m.Write, &out, insert, args...); err != nil {
				return nil, err
			}
			return &out, nil
		}},
		strategy[*models.AudioAssignment]{name: "reselect", run: func(ctx context.Context) (*models.AudioAssignment, error) {
			return s.getAudioAssignment(ctx, a.ID)
		}},
		strategy[*models.AudioAssignment]{name: "payload", run: func(ctx context.Context) (*models.AudioAssignment, error) {
			return &a, nil
		}},
	)
}

func (s *SQLStore) UpdateAudioAssignment(ctx context.Context, id string, patch models.AudioAssignmentPatch) (*models.AudioAssignment, error) {
	current, err := s.getAudioAssignment(ctx, id)
	if err != nil {
		return nil, err
	}

	set := newSetBuilder()
	setCol(set, "track_id", patch.TrackID)
	setCol(set, "entity_type", patch.EntityType)
	setCol(set, "entity_id", patch.EntityID)
	setCol(set, "priority", patch.Priority)
	setCol(set, "active", patch.Active)
	if set.empty() {
		return current, nil
	}
	setCol(set, "updated_at", ptr(nowISO()))

	query, args := set.updateQuery("audio_assignments", assignmentColumns, id)
	return firstOf(ctx, s.logger, "update_audio_assignment",
		strategy[*models.AudioAssignment]{name: "update-returning", run: func(ctx context.Context) (*models.AudioAssignment, error) {
			var out models.AudioAssignment
			if err := sqlscan.Get(ctx, s.m.Write, &out, query, args...); err != nil {
				return nil, err
			}
			return &out, nil
		}},
		strategy[*models.AudioAssignment]{name: "reselect", run: func(ctx context.Context) (*models.AudioAssignment, error) {
			return s.getAudioAssignment(ctx, id)
		}},
		strategy[*models.AudioAssignment]{name: "payload", run: func(ctx context.Context) (*models.AudioAssignment, error) {
			merged := *current
			applyAssignmentPatch(&merged, patch)
			return &merged, nil
		}},
	)
}

func (s *SQLStore) DeleteAudioAssignment(ctx context.Context, id string) error {
	if _, err := s.getAudioAssignment(ctx, id); err != nil {
		return err
	}
	_, err := s.m.Write.ExecContext(ctx, "DELETE FROM audio_assignments WHERE id = $1", id)
	return err
}

// ResolveAudio подбирает трек под контекст запроса.
func (s *SQLStore) ResolveAudio(ctx context.Context, q models.AudioQuery) (*ResolvedAudio, error) {
	assignments, err := s.ListAudioAssignments(ctx)
	if err != nil {
		return nil, err
	}
	winner := PickAssignment(assignments, q)
	if winner == nil {
		return nil, models.ErrNotFound
	}
	track, err := s.GetAudioTrack(ctx, winner.TrackID)
	if err != nil {
		return nil, err
	}
	return &ResolvedAudio{Track: *track, Assignment: *winner}, nil
}
