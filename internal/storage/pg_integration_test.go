package storage_test // Отдельный пакет для изоляции

import (
	"context"
	"testing"
	"time"

	"github.com/docker/docker/client"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"aethermoor-server/internal/config"
	"aethermoor-server/internal/database"
	"aethermoor-server/internal/models"
	"aethermoor-server/internal/storage"
)

// PgIntegrationSuite гоняет слой хранения против настоящего PostgreSQL.
type PgIntegrationSuite struct {
	suite.Suite
	ctx         context.Context
	pgContainer *postgres.PostgresContainer
	manager     *database.Manager
	store       *storage.SQLStore
}

func (s *PgIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	var err error
	s.pgContainer, err = postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(s.T(), err, "Failed to start postgres container")

	connStr, err := s.pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err)

	cfg := &config.Config{
		DatabaseURL:      connStr,
		DataDir:          s.T().TempDir(),
		DBPoolMax:        4,
		DBIdleTimeout:    30 * time.Second,
		DBConnectTimeout: 10 * time.Second,
		DBStmtTimeoutMs:  15000,
		DBIdleTxTimeout:  15000,
		DBLockTimeoutMs:  5000,
	}
	s.manager, err = database.NewManager(s.ctx, cfg)
	require.NoError(s.T(), err)
	require.Equal(s.T(), database.KindPostgres, s.manager.Kind)
	require.NoError(s.T(), database.NewProvisioner(s.manager).Run(s.ctx))

	s.store = storage.NewSQLStore(s.manager, cfg)
}

func (s *PgIntegrationSuite) TearDownSuite() {
	if s.manager != nil {
		s.manager.Close()
	}
	if s.pgContainer != nil {
		_ = s.pgContainer.Terminate(s.ctx)
	}
}

func TestPgIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	cli, err := client.NewClientWithOpts(client.FromEnv)
	if err != nil {
		t.Skipf("Docker client init error: %v", err)
	}
	if _, err := cli.Ping(context.Background()); err != nil {
		t.Skipf("Docker daemon is not accessible: %v", err)
	}
	cli.Close()

	suite.Run(t, new(PgIntegrationSuite))
}

func (s *PgIntegrationSuite) TestChapterRoundTrip() {
	t := s.T()
	created, err := s.store.CreateChapter(s.ctx, models.Chapter{
		Title:         "Integration Chapter",
		Slug:          "integration-chapter",
		Content:       "<p>Round trip through a real PostgreSQL.</p>",
		ChapterNumber: 42,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Round trip through a real PostgreSQL.", created.Excerpt)

	got, err := s.store.GetChapterBySlug(s.ctx, "integration-chapter")
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)

	updated, err := s.store.UpdateChapter(s.ctx, created.ID, models.ChapterPatch{
		ArcNumber: ptrOf(2), ArcTitle: ptrOf("The Weave"),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ArcNumber)
	require.Equal(t, 2, *updated.ArcNumber)

	require.NoError(t, s.store.DeleteChapter(s.ctx, created.ID))
	_, err = s.store.GetChapter(s.ctx, created.ID)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func (s *PgIntegrationSuite) TestProgressUpsertUniqueness() {
	t := s.T()
	_, err := s.store.UpsertProgress(s.ctx, "pg-sess", "pg-ch", 30)
	require.NoError(t, err)
	saved, err := s.store.UpsertProgress(s.ctx, "pg-sess", "pg-ch", 999)
	require.NoError(t, err)
	require.Equal(t, 100, saved.Progress)

	items, err := s.store.ListProgress(s.ctx, "pg-sess")
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func (s *PgIntegrationSuite) TestAudioResolveAgainstPostgres() {
	t := s.T()
	track, err := s.store.CreateAudioTrack(s.ctx, models.AudioTrack{
		Title: "PG Theme", FileURL: "/audio/pg.mp3",
	})
	require.NoError(t, err)
	_, err = s.store.CreateAudioAssignment(s.ctx, models.AudioAssignment{
		TrackID: track.ID, EntityType: models.AudioEntityGlobal, Active: 1,
	})
	require.NoError(t, err)

	resolved, err := s.store.ResolveAudio(s.ctx, models.AudioQuery{Page: "home"})
	require.NoError(t, err)
	require.Equal(t, track.ID, resolved.Track.ID)
}

func ptrOf[T any](v T) *T {
	return &v
}
