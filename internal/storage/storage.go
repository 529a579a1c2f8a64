package storage

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"aethermoor-server/internal/config"
	"aethermoor-server/internal/database"
	"aethermoor-server/internal/models"
)

// Storage — единый интерфейс слоя хранения. Его реализуют SQLStore
// (PostgreSQL или SQLite через Manager) и FileStore (JSON-файлы).
type Storage interface {
	// Главы
	ListChapters(ctx context.Context) ([]models.Chapter, error)
	GetChapter(ctx context.Context, id string) (*models.Chapter, error)
	GetChapterBySlug(ctx context.Context, slug string) (*models.Chapter, error)
	CreateChapter(ctx context.Context, ch models.Chapter) (*models.Chapter, error)
	UpdateChapter(ctx context.Context, id string, patch models.ChapterPatch) (*models.Chapter, error)
	DeleteChapter(ctx context.Context, id string) error

	// Персонажи
	ListCharacters(ctx context.Context) ([]models.Character, error)
	GetCharacter(ctx context.Context, id string) (*models.Character, error)
	CreateCharacter(ctx context.Context, c models.Character) (*models.Character, error)
	UpdateCharacter(ctx context.Context, id string, patch models.CharacterPatch) (*models.Character, error)
	DeleteCharacter(ctx context.Context, id string) error

	// Локации
	ListLocations(ctx context.Context) ([]models.Location, error)
	GetLocation(ctx context.Context, id string) (*models.Location, error)
	CreateLocation(ctx context.Context, l models.Location) (*models.Location, error)
	UpdateLocation(ctx context.Context, id string, patch models.LocationPatch) (*models.Location, error)
	DeleteLocation(ctx context.Context, id string) error

	// Глоссарий
	ListCodexEntries(ctx context.Context) ([]models.CodexEntry, error)
	ListCodexByCategory(ctx context.Context, category string) ([]models.CodexEntry, error)
	GetCodexEntry(ctx context.Context, id string) (*models.CodexEntry, error)
	CreateCodexEntry(ctx context.Context, e models.CodexEntry) (*models.CodexEntry, error)
	UpdateCodexEntry(ctx context.Context, id string, patch models.CodexEntryPatch) (*models.CodexEntry, error)
	DeleteCodexEntry(ctx context.Context, id string) error

	// Блог
	ListBlogPosts(ctx context.Context) ([]models.BlogPost, error)
	GetBlogPost(ctx context.Context, id string) (*models.BlogPost, error)
	GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	CreateBlogPost(ctx context.Context, p models.BlogPost) (*models.BlogPost, error)
	UpdateBlogPost(ctx context.Context, id string, patch models.BlogPostPatch) (*models.BlogPost, error)
	DeleteBlogPost(ctx context.Context, id string) error

	// Прогресс чтения
	ListProgress(ctx context.Context, sessionID string) ([]models.ReadingProgress, error)
	UpsertProgress(ctx context.Context, sessionID, chapterID string, progress int) (*models.ReadingProgress, error)

	// Аудио
	ListAudioTracks(ctx context.Context) ([]models.AudioTrack, error)
	GetAudioTrack(ctx context.Context, id string) (*models.AudioTrack, error)
	CreateAudioTrack(ctx context.Context, t models.AudioTrack) (*models.AudioTrack, error)
	UpdateAudioTrack(ctx context.Context, id string, patch models.AudioTrackPatch) (*models.AudioTrack, error)
	DeleteAudioTrack(ctx context.Context, id string) error
	ListAudioAssignments(ctx context.Context) ([]models.AudioAssignment, error)
	CreateAudioAssignment(ctx context.Context, a models.AudioAssignment) (*models.AudioAssignment, error)
	UpdateAudioAssignment(ctx context.Context, id string, patch models.AudioAssignmentPatch) (*models.AudioAssignment, error)
	DeleteAudioAssignment(ctx context.Context, id string) error
	ResolveAudio(ctx context.Context, q models.AudioQuery) (*ResolvedAudio, error)

	// Пользователи
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpsertUser(ctx context.Context, u models.User) (*models.User, error)

	// Служебные пары ключ/значение
	GetMeta(ctx context.Context, key string) (*string, error)
	SetMeta(ctx context.Context, key, value string) error
}

// New создает слой хранения. Если Manager не поднялся по причине,
// не связанной с конфигурацией (база недоступна), слой один раз и
// целиком подменяется файловым хранилищем. Некорректная конфигурация
// (ErrInvalidConfig) фатальна и наверх уходит как есть.
func New(ctx context.Context, cfg *config.Config) (Storage, *database.Manager, error) {
	logger := zap.L().Named("storage")

	manager, err := database.NewManager(ctx, cfg)
	if err != nil {
		if errors.Is(err, database.ErrInvalidConfig) {
			return nil, nil, err
		}
		logger.Warn("база недоступна, переключаемся на файловое хранилище", zap.Error(err))
		fs, fsErr := NewFileStore(cfg)
		if fsErr != nil {
			return nil, nil, fsErr
		}
		return fs, nil, nil
	}

	if err := database.NewProvisioner(manager).Run(ctx); err != nil {
		// Провиженер сам глотает ошибки отдельных statement'ов,
		// сюда попадают только невосстановимые.
		manager.Close()
		logger.Warn("ошибка инициализации схемы, переключаемся на файловое хранилище", zap.Error(err))
		fs, fsErr := NewFileStore(cfg)
		if fsErr != nil {
			return nil, nil, fsErr
		}
		return fs, nil, nil
	}

	return NewSQLStore(manager, cfg), manager, nil
}
