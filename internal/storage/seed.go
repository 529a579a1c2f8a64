package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"aethermoor-server/internal/config"
	"aethermoor-server/internal/models"
)

// Маркеры в meta: выполненные шаги сидинга не повторяются
const (
	metaSeedCharactersDone = "seed_characters_done"
)

// Seeder наполняет пустую базу стартовым контентом. Запускается
// явно из main после инициализации схемы; каждый шаг best-effort —
// сбой логируется и не валит остальные.
type Seeder struct {
	store  Storage
	cfg    *config.Config
	logger *zap.Logger
}

func NewSeeder(store Storage, cfg *config.Config) *Seeder {
	return &Seeder{
		store:  store,
		cfg:    cfg,
		logger: zap.L().Named("seed"),
	}
}

func (s *Seeder) Run(ctx context.Context) {
	steps := []struct {
		name string
		run  func(ctx context.Context) error
	}{
		{"codex", s.seedCodex},
		{"chapters", s.seedChapters},
		{"characters", s.seedCharacters},
		{"locations", s.seedLocations},
		{"blog", s.seedBlog},
		{"admin", s.seedAdmin},
	}
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			s.logger.Warn("шаг сидинга не выполнен", zap.String("step", step.name), zap.Error(err))
		}
	}
}

func (s *Seeder) seedCodex(ctx context.Context) error {
	entries, err := s.store.ListCodexEntries(ctx)
	if err != nil {
		return err
	}
	if len(entries) > 0 && !s.cfg.ForceSeed {
		return nil
	}
	if len(entries) == 0 {
		_, err = s.store.CreateCodexEntry(ctx, models.CodexEntry{
			Title:       "Aetherweave",
			Description: "The invisible lattice of power that threads through every living thing in Aethermoor.",
			Category:    "magic",
		})
		if err != nil {
			return err
		}
		s.logger.Info("глоссарий наполнен стартовой записью")
	}
	return nil
}

func (s *Seeder) seedChapters(ctx context.Context) error {
	chapters, err := s.store.ListChapters(ctx)
	if err != nil {
		return err
	}
	if len(chapters) > 0 {
		return nil
	}
	demo := []models.Chapter{
		{
			Title:         "The Lantern Keeper",
			Slug:          "the-lantern-keeper",
			Content:       "<p>The night the aether-lanterns of Dunmoor went dark, Maren was the only one awake to see it happen.</p>",
			ChapterNumber: 1,
		},
		{
			Title:         "Threads in the Weave",
			Slug:          "threads-in-the-weave",
			Content:       "<p>Every weaver learns the first law before the first knot: the Weave remembers what you take from it.</p>",
			ChapterNumber: 2,
		},
		{
			Title:         "The Hollow Road",
			Slug:          "the-hollow-road",
			Content:       "<p>The road to Carrow's Reach had no milestones, only the bones of those who had counted too carefully.</p>",
			ChapterNumber: 3,
		},
	}
	for _, ch := range demo {
		if _, err := s.store.CreateChapter(ctx, ch); err != nil {
			return err
		}
	}
	s.logger.Info("созданы демо-главы", zap.Int("count", len(demo)))
	return nil
}

var characterSeeds = []models.Character{
	{
		Name:        "Maren Voss",
		Title:       "Lantern Keeper of Dunmoor",
		Description: "A keeper of the coastal aether-lanterns who notices what the rest of the town sleeps through.",
		Role:        "protagonist",
		Slug:        "maren-voss",
	},
	{
		Name:        "Calder Wren",
		Title:       "The Unwoven",
		Description: "A weaver who cut his own thread from the Weave and survived it. Nobody agrees on the price he paid.",
		Role:        "antagonist",
		Slug:        "calder-wren",
	},
	{
		Name:        "Issa of the Reach",
		Title:       "Cartographer",
		Description: "Maps the hollow roads for the Reach, one of the few who returns from them with her memory intact.",
		Role:        "supporting",
		Slug:        "issa-of-the-reach",
	},
}

// seedCharacters выполняется один раз (маркер в meta). Форс-флаг
// обновляет уже существующих персонажей по slug'у вместо дублей и
// запускает зачистку дублей с числовыми суффиксами.
func (s *Seeder) seedCharacters(ctx context.Context) error {
	force := s.cfg.ForceSeed || s.cfg.ForceSeedCharacters
	done, err := s.store.GetMeta(ctx, metaSeedCharactersDone)
	if err != nil {
		return err
	}
	if done != nil && !force {
		return nil
	}

	existing, err := s.store.ListCharacters(ctx)
	if err != nil {
		return err
	}
	bySlug := make(map[string]models.Character, len(existing))
	for _, c := range existing {
		bySlug[c.Slug] = c
	}

	for _, seed := range characterSeeds {
		if current, ok := bySlug[seed.Slug]; ok {
			if !force {
				continue
			}
			_, err = s.store.UpdateCharacter(ctx, current.ID, models.CharacterPatch{
				Name:        &seed.Name,
				Title:       &seed.Title,
				Description: &seed.Description,
				Role:        &seed.Role,
			})
		} else {
			_, err = s.store.CreateCharacter(ctx, seed)
		}
		if err != nil {
			return err
		}
	}

	if force {
		s.dedupCharacters(ctx, existing)
	}
	return s.store.SetMeta(ctx, metaSeedCharactersDone, nowISO())
}

// dedupCharacters убирает дубли вида maren-voss-1, появлявшиеся из-за
// повторных прогонов раннего сидера без маркера.
func (s *Seeder) dedupCharacters(ctx context.Context, existing []models.Character) {
	canonical := make(map[string]struct{}, len(characterSeeds))
	for _, seed := range characterSeeds {
		canonical[seed.Slug] = struct{}{}
	}
	for _, c := range existing {
		base, found := strings.CutSuffix(c.Slug, "-1")
		if !found {
			base, found = strings.CutSuffix(c.Slug, "-2")
		}
		if !found {
			continue
		}
		if _, isSeed := canonical[base]; !isSeed {
			continue
		}
		if err := s.store.DeleteCharacter(ctx, c.ID); err != nil {
			s.logger.Warn("не удалось удалить дубль персонажа",
				zap.String("slug", c.Slug), zap.Error(err))
			continue
		}
		s.logger.Info("удален дубль персонажа", zap.String("slug", c.Slug))
	}
}

func (s *Seeder) seedLocations(ctx context.Context) error {
	existing, err := s.store.ListLocations(ctx)
	if err != nil {
		return err
	}
	byName := make(map[string]struct{}, len(existing))
	for _, l := range existing {
		byName[l.Name] = struct{}{}
	}
	demo := []models.Location{
		{Name: "Dunmoor", Description: "A fishing town under the last working ring of aether-lanterns.", MapX: 22, MapY: 61, Type: "town"},
		{Name: "Carrow's Reach", Description: "A fortress city built where three hollow roads converge.", MapX: 54, MapY: 38, Type: "city"},
		{Name: "The Graywood", Description: "A forest the Weave abandoned. Compasses work; memories do not.", MapX: 71, MapY: 52, Type: "forest"},
	}
	for _, l := range demo {
		if _, ok := byName[l.Name]; ok {
			continue
		}
		if _, err := s.store.CreateLocation(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedBlog(ctx context.Context) error {
	demo := []models.BlogPost{
		{
			Title:    "Welcome to Aethermoor",
			Slug:     "welcome-to-aethermoor",
			Content:  "<p>This site is the home of the novel and everything that grows around it: chapters, the codex, the map, and notes from the writing desk.</p>",
			Category: "update",
		},
		{
			Title:    "Why the lanterns burn aether",
			Slug:     "why-the-lanterns-burn-aether",
			Content:  "<p>A look at the worldbuilding behind the lantern network and what it costs the towns that keep it lit.</p>",
			Category: "world-building",
		},
	}
	for _, p := range demo {
		if _, err := s.store.GetBlogPostBySlug(ctx, p.Slug); err == nil {
			continue
		}
		if _, err := s.store.CreateBlogPost(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// seedAdmin создает или повышает админа из окружения. Понижения нет:
// существующий админ остается админом, пароль меняется только при
// явном флаге или отсутствии хэша.
func (s *Seeder) seedAdmin(ctx context.Context) error {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		return nil
	}

	existing, err := s.store.GetUserByEmail(ctx, s.cfg.AdminEmail)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return err
		}
		existing = nil
	}

	needHash := existing == nil || existing.PasswordHash == nil || s.cfg.AdminForcePassword
	var hash *string
	if needHash {
		h, hashErr := bcrypt.GenerateFromPassword([]byte(s.cfg.AdminPassword), s.cfg.BcryptRounds)
		if hashErr != nil {
			return fmt.Errorf("ошибка хэширования пароля администратора: %w", hashErr)
		}
		hash = ptr(string(h))
	}

	user := models.User{
		ID:      s.cfg.AdminID,
		Email:   &s.cfg.AdminEmail,
		IsAdmin: 1,
	}
	if existing != nil {
		user = *existing
		user.IsAdmin = 1
	}
	if hash != nil {
		user.PasswordHash = hash
	}

	if _, err := s.store.UpsertUser(ctx, user); err != nil {
		return err
	}
	s.logger.Info("администратор готов", zap.String("email", s.cfg.AdminEmail))
	return nil
}
