package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"aethermoor-server/internal/config"
	"aethermoor-server/internal/models"
)

func seedConfig(t *testing.T) *config.Config {
	return &config.Config{
		DataDir:       t.TempDir(),
		AdminID:       "admin-root",
		AdminEmail:    "author@aethermoor.example",
		AdminPassword: "correct-horse",
		BcryptRounds:  bcrypt.MinCost,
	}
}

func TestSeeder_PopulatesEmptyStore(t *testing.T) {
	cfg := seedConfig(t)
	fs, err := NewFileStore(cfg)
	require.NoError(t, err)
	ctx := context.Background()

	NewSeeder(fs, cfg).Run(ctx)

	chapters, _ := fs.ListChapters(ctx)
	assert.Len(t, chapters, 3)

	codex, _ := fs.ListCodexEntries(ctx)
	assert.Len(t, codex, 1)

	characters, _ := fs.ListCharacters(ctx)
	assert.Len(t, characters, len(characterSeeds))

	locations, _ := fs.ListLocations(ctx)
	assert.Len(t, locations, 3)

	blog, _ := fs.ListBlogPosts(ctx)
	assert.Len(t, blog, 2)

	marker, err := fs.GetMeta(ctx, metaSeedCharactersDone)
	require.NoError(t, err)
	assert.NotNil(t, marker)
}

func TestSeeder_SecondRunIsIdempotent(t *testing.T) {
	cfg := seedConfig(t)
	fs, err := NewFileStore(cfg)
	require.NoError(t, err)
	ctx := context.Background()

	seeder := NewSeeder(fs, cfg)
	seeder.Run(ctx)
	seeder.Run(ctx)

	chapters, _ := fs.ListChapters(ctx)
	assert.Len(t, chapters, 3, "повторный прогон не дублирует главы")
	characters, _ := fs.ListCharacters(ctx)
	assert.Len(t, characters, len(characterSeeds), "маркер в meta защищает персонажей")
	blog, _ := fs.ListBlogPosts(ctx)
	assert.Len(t, blog, 2)
}

func TestSeeder_ForceUpdatesCharactersInPlace(t *testing.T) {
	cfg := seedConfig(t)
	fs, err := NewFileStore(cfg)
	require.NoError(t, err)
	ctx := context.Background()

	NewSeeder(fs, cfg).Run(ctx)

	// Контент персонажа руками испортили
	characters, _ := fs.ListCharacters(ctx)
	var maren models.Character
	for _, c := range characters {
		if c.Slug == "maren-voss" {
			maren = c
		}
	}
	require.NotEmpty(t, maren.ID)
	_, err = fs.UpdateCharacter(ctx, maren.ID, models.CharacterPatch{Description: ptr("broken")})
	require.NoError(t, err)

	cfg.ForceSeedCharacters = true
	NewSeeder(fs, cfg).Run(ctx)

	restored, err := fs.GetCharacter(ctx, maren.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "broken", restored.Description, "форс обновляет по slug'у, а не создает дубль")
	characters, _ = fs.ListCharacters(ctx)
	assert.Len(t, characters, len(characterSeeds))
}

func TestSeeder_DedupRemovesSuffixedDuplicates(t *testing.T) {
	cfg := seedConfig(t)
	fs, err := NewFileStore(cfg)
	require.NoError(t, err)
	ctx := context.Background()

	NewSeeder(fs, cfg).Run(ctx)

	// Дубль, оставшийся от раннего сидера без маркера
	_, err = fs.CreateCharacter(ctx, models.Character{Name: "Maren Voss", Slug: "maren-voss-1"})
	require.NoError(t, err)

	cfg.ForceSeedCharacters = true
	NewSeeder(fs, cfg).Run(ctx)

	characters, _ := fs.ListCharacters(ctx)
	for _, c := range characters {
		assert.NotEqual(t, "maren-voss-1", c.Slug, "числовой дубль должен быть зачищен")
	}
}

func TestSeeder_AdminCreatedAndNeverDowngraded(t *testing.T) {
	cfg := seedConfig(t)
	fs, err := NewFileStore(cfg)
	require.NoError(t, err)
	ctx := context.Background()

	NewSeeder(fs, cfg).Run(ctx)

	admin, err := fs.GetUserByEmail(ctx, cfg.AdminEmail)
	require.NoError(t, err)
	assert.Equal(t, 1, admin.IsAdmin)
	require.NotNil(t, admin.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(*admin.PasswordHash), []byte("correct-horse")))

	// Повторный прогон без форса не трогает пароль
	firstHash := *admin.PasswordHash
	NewSeeder(fs, cfg).Run(ctx)
	admin, err = fs.GetUserByEmail(ctx, cfg.AdminEmail)
	require.NoError(t, err)
	assert.Equal(t, 1, admin.IsAdmin)
	assert.Equal(t, firstHash, *admin.PasswordHash)

	// Форс меняет хэш
	cfg.AdminForcePassword = true
	cfg.AdminPassword = "new-secret"
	NewSeeder(fs, cfg).Run(ctx)
	admin, err = fs.GetUserByEmail(ctx, cfg.AdminEmail)
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(*admin.PasswordHash), []byte("new-secret")))
}
