package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"aethermoor-server/internal/config"
	"aethermoor-server/internal/models"
)

// FileStore — файловая реализация Storage: коллекции JSON под DATA_DIR.
// Включается целиком на весь процесс, когда база не поднялась на старте.
// Все операции идут через память, мутации сразу сбрасываются на диск.
type FileStore struct {
	dir       string
	mu        sync.RWMutex
	allowlist map[string]struct{}
	logger    *zap.Logger

	chapters    []models.Chapter
	characters  []models.Character
	locations   []models.Location
	codex       []models.CodexEntry
	blog        []models.BlogPost
	progress    []models.ReadingProgress
	tracks      []models.AudioTrack
	assignments []models.AudioAssignment
	users       []models.User
	meta        map[string]string
}

var _ Storage = (*FileStore)(nil)

func NewFileStore(cfg *config.Config) (*FileStore, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать каталог данных: %w", err)
	}
	fs := &FileStore{
		dir:       cfg.DataDir,
		allowlist: cfg.AdminAllowlist(),
		logger:    zap.L().Named("file-store"),
		meta:      map[string]string{},
	}
	fs.loadAll()
	fs.logger.Info("файловое хранилище открыто", zap.String("dir", cfg.DataDir))
	return fs, nil
}

func (fs *FileStore) path(name string) string {
	return filepath.Join(fs.dir, name+".json")
}

func loadFile(fs *FileStore, name string, dest any) {
	data, err := os.ReadFile(fs.path(name))
	if err != nil {
		if !os.IsNotExist(err) {
			fs.logger.Warn("ошибка чтения коллекции", zap.String("name", name), zap.Error(err))
		}
		return
	}
	if err := json.Unmarshal(data, dest); err != nil {
		fs.logger.Warn("поврежденная коллекция", zap.String("name", name), zap.Error(err))
	}
}

func (fs *FileStore) loadAll() {
	loadFile(fs, "chapters", &fs.chapters)
	loadFile(fs, "characters", &fs.characters)
	loadFile(fs, "locations", &fs.locations)
	loadFile(fs, "codex", &fs.codex)
	loadFile(fs, "blog", &fs.blog)
	loadFile(fs, "progress", &fs.progress)
	loadFile(fs, "audio-tracks", &fs.tracks)
	loadFile(fs, "audio-assignments", &fs.assignments)
	loadFile(fs, "users", &fs.users)
	loadFile(fs, "meta", &fs.meta)
	if fs.meta == nil {
		fs.meta = map[string]string{}
	}
}

// persist пишет коллекцию атомарно; ошибка не прерывает операцию —
// данные остаются в памяти и уйдут на диск при следующей мутации.
func (fs *FileStore) persist(name string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		fs.logger.Warn("ошибка сериализации коллекции", zap.String("name", name), zap.Error(err))
		return
	}
	tmp := fs.path(name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		fs.logger.Warn("ошибка записи коллекции", zap.String("name", name), zap.Error(err))
		return
	}
	if err := os.Rename(tmp, fs.path(name)); err != nil {
		fs.logger.Warn("ошибка переименования коллекции", zap.String("name", name), zap.Error(err))
	}
}

// --- Главы ---

func (fs *FileStore) ListChapters(ctx context.Context) ([]models.Chapter, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := append([]models.Chapter{}, fs.chapters...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ChapterNumber < out[j].ChapterNumber })
	return out, nil
}

func (fs *FileStore) GetChapter(ctx context.Context, id string) (*models.Chapter, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	for i := range fs.chapters {
		if fs.chapters[i].ID == id {
			ch := fs.chapters[i]
			return &ch, nil
		}
	}
	return nil, models.ErrNotFound
}

func (fs *FileStore) GetChapterBySlug(ctx context.Context, slug string) (*models.Chapter, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	for i := range fs.chapters {
		if fs.chapters[i].Slug == slug {
			ch := fs.chapters[i]
			return &ch, nil
		}
	}
	return nil, models.ErrNotFound
}

func (fs *FileStore) CreateChapter(ctx context.Context, ch models.Chapter) (*models.Chapter, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if ch.ID == "" {
		ch.ID = newID()
	}
	base := ch.Title
	if ch.Slug != "" {
		base = ch.Slug
	}
	slug, err := UniqueSlug(ctx, base, func(_ context.Context, candidate string) (bool, error) {
		for i := range fs.chapters {
			if fs.chapters[i].Slug == candidate {
				return true, nil
			}
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	ch.Slug = slug
	if ch.Excerpt == "" {
		ch.Excerpt = DeriveExcerpt(ch.Content)
	}
	if ch.ReadingTime <= 0 {
		ch.ReadingTime = DeriveReadingTime(ch.Content)
	}
	if ch.PublishedAt == "" {
		ch.PublishedAt = nowISO()
	}
	fs.chapters = append(fs.chapters, ch)
	fs.persist("chapters", fs.chapters)
	return &ch, nil
}

func (fs *FileStore) UpdateChapter(ctx context.Context, id string, patch models.ChapterPatch) (*models.Chapter, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i := range fs.chapters {
		if fs.chapters[i].ID == id {
			applyChapterPatch(&fs.chapters[i], patch)
			fs.persist("chapters", fs.chapters)
			ch := fs.chapters[i]
			return &ch, nil
		}
	}
	return nil, models.ErrNotFound
}

func (fs *FileStore) DeleteChapter(ctx context.Context, id string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i := range fs.chapters {
		if fs.chapters[i].ID == id {
			fs.chapters = append(fs.chapters[:i], fs.chapters[i+1:]...)
			fs.persist("chapters", fs.chapters)
			return nil
		}
	}
	return models.ErrNotFound
}

// --- Персонажи ---

func (fs *FileStore) ListCharacters(ctx context.Context) ([]models.Character, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := append([]models.Character{}, fs.characters...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (fs *FileStore) GetCharacter(ctx context.Context, id string) (*models.Character, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	for i := range fs.characters {
		if fs.characters[i].ID == id {
			c := fs.characters[i]
			return &c, nil
		}
	}
	return nil, models.ErrNotFound
}

func (fs *FileStore) CreateCharacter(ctx context.Context, c models.Character) (*models.Character, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if c.ID == "" {
		c.ID = newID()
	}
	// Желаемый slug дедуплицируется так же, как сгенерированный
	base := c.Name
	if c.Slug != "" {
		base = c.Slug
	}
	slug, err := UniqueSlug(ctx, base, func(_ context.Context, candidate string) (bool, error) {
		for i := range fs.characters {
			if fs.characters[i].Slug == candidate {
				return true, nil
			}
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	c.Slug = slug
	fs.characters = append(fs.characters, c)
	fs.persist("characters", fs.characters)
	return &c, nil
}

func (fs *FileStore) UpdateCharacter(ctx context.Context, id string, patch models.CharacterPatch) (*models.Character, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i := range fs.characters {
		if fs.characters[i].ID == id {
			applyCharacterPatch(&fs.characters[i], patch)
			fs.persist("characters", fs.characters)
			c := fs.characters[i]
			return &c, nil
		}
	}
	return nil, models.ErrNotFound
}

func (fs *FileStore) DeleteCharacter(ctx context.Context, id string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i := range fs.characters {
		if fs.characters[i].ID == id {
			fs.characters = append(fs.characters[:i], fs.characters[i+1:]...)
			fs.persist("characters", fs.characters)
			return nil
		}
	}
	return models.ErrNotFound
}

// --- Локации ---

func (fs *FileStore) ListLocations(ctx context.Context) ([]models.Location, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := append([]models.Location{}, fs.locations...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (fs *FileStore) GetLocation(ctx context.Context, id string) (*models.Location, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	for i := range fs.locations {
		if fs.locations[i].ID == id {
			l := fs.locations[i]
			return &l, nil
		}
	}
	return nil, models.ErrNotFound
}

func (fs *FileStore) CreateLocation(ctx context.Context, l models.Location) (*models.Location, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if l.ID == "" {
		l.ID = newID()
	}
	if l.Slug == nil {
		l.Slug = ptr(Slugify(l.Name))
	}
	fs.locations = append(fs.locations, l)
	fs.persist("locations", fs.locations)
	return &l, nil
}

func (fs *FileStore) UpdateLocation(ctx context.Context, id string, patch models.LocationPatch) (*models.Location, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i := range fs.locations {
		if fs.locations[i].ID == id {
			applyLocationPatch(&fs.locations[i], patch)
			fs.persist("locations", fs.locations)
			l := fs.locations[i]
			return &l, nil
		}
	}
	return nil, models.ErrNotFound
}

func (fs *FileStore) DeleteLocation(ctx context.Context, id string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i := range fs.locations {
		if fs.locations[i].ID == id {
			fs.locations = append(fs.locations[:i], fs.locations[i+1:]...)
			fs.persist("locations", fs.locations)
			return nil
		}
	}
	return models.ErrNotFound
}

// --- Глоссарий ---

func (fs *FileStore) ListCodexEntries(ctx context.Context) ([]models.CodexEntry, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := append([]models.CodexEntry{}, fs.codex...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (fs *FileStore) ListCodexByCategory(ctx context.Context, category string) ([]models.CodexEntry, error) {
	all, _ := fs.ListCodexEntries(ctx)
	out := make([]models.CodexEntry, 0, len(all))
	for _, e := range all {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out, nil
}

func (fs *FileStore) GetCodexEntry(ctx context.Context, id string) (*models.CodexEntry, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	for i := range fs.codex {
		if fs.codex[i].ID == id {
			e := fs.codex[i]
			return &e, nil
		}
	}
	return nil, models.ErrNotFound
}

func (fs *FileStore) CreateCodexEntry(ctx context.Context, e models.CodexEntry) (*models.CodexEntry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if e.ID == "" {
		e.ID = newID()
	}
	fs.codex = append(fs.codex, e)
	fs.persist("codex", fs.codex)
	return &e, nil
}

func (fs *FileStore) UpdateCodexEntry(ctx context.Context, id string, patch models.CodexEntryPatch) (*models.CodexEntry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i := range fs.codex {
		if fs.codex[i].ID == id {
			applyCodexPatch(&fs.codex[i], patch)
			fs.persist("codex", fs.codex)
			e := fs.codex[i]
			return &e, nil
		}
	}
	return nil, models.ErrNotFound
}

func (fs *FileStore) DeleteCodexEntry(ctx context.Context, id string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i := range fs.codex {
		if fs.codex[i].ID == id {
			fs.codex = append(fs.codex[:i], fs.codex[i+1:]...)
			fs.persist("codex", fs.codex)
			return nil
		}
	}
	return models.ErrNotFound
}

// --- Блог ---

func (fs *FileStore) ListBlogPosts(ctx context.Context) ([]models.BlogPost, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := append([]models.BlogPost{}, fs.blog...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].PublishedAt > out[j].PublishedAt })
	return out, nil
}

func (fs *FileStore) GetBlogPost(ctx context.Context, id string) (*models.BlogPost, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	for i := range fs.blog {
		if fs.blog[i].ID == id {
			p := fs.blog[i]
			return &p, nil
		}
	}
	return nil, models.ErrNotFound
}

func (fs *FileStore) GetBlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	for i := range fs.blog {
		if fs.blog[i].Slug == slug {
			p := fs.blog[i]
			return &p, nil
		}
	}
	return nil, models.ErrNotFound
}

func (fs *FileStore) CreateBlogPost(ctx context.Context, p models.BlogPost) (*models.BlogPost, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if p.ID == "" {
		p.ID = newID()
	}
	base := p.Title
	if p.Slug != "" {
		base = p.Slug
	}
	slug, err := UniqueSlug(ctx, base, func(_ context.Context, candidate string) (bool, error) {
		for i := range fs.blog {
			if fs.blog[i].Slug == candidate {
				return true, nil
			}
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	p.Slug = slug
	if p.Excerpt == "" {
		p.Excerpt = DeriveExcerpt(p.Content)
	}
	if p.PublishedAt == "" {
		p.PublishedAt = nowISO()
	}
	if p.Category == "" {
		p.Category = "update"
	}
	fs.blog = append(fs.blog, p)
	fs.persist("blog", fs.blog)
	return &p, nil
}

func (fs *FileStore) UpdateBlogPost(ctx context.Context, id string, patch models.BlogPostPatch) (*models.BlogPost, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i := range fs.blog {
		if fs.blog[i].ID == id {
			applyBlogPatch(&fs.blog[i], patch)
			if patch.Content != nil && patch.Excerpt == nil {
				fs.blog[i].Excerpt = DeriveExcerpt(*patch.Content)
			}
			fs.persist("blog", fs.blog)
			p := fs.blog[i]
			return &p, nil
		}
	}
	return nil, models.ErrNotFound
}

func (fs *FileStore) DeleteBlogPost(ctx context.Context, id string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i := range fs.blog {
		if fs.blog[i].ID == id {
			fs.blog = append(fs.blog[:i], fs.blog[i+1:]...)
			fs.persist("blog", fs.blog)
			return nil
		}
	}
	return models.ErrNotFound
}

// --- Прогресс чтения ---

func (fs *FileStore) ListProgress(ctx context.Context, sessionID string) ([]models.ReadingProgress, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := []models.ReadingProgress{}
	for _, p := range fs.progress {
		if p.SessionID == sessionID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (fs *FileStore) UpsertProgress(ctx context.Context, sessionID, chapterID string, progress int) (*models.ReadingProgress, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	progress = models.ClampProgress(progress)
	now := nowISO()
	for i := range fs.progress {
		if fs.progress[i].SessionID == sessionID && fs.progress[i].ChapterID == chapterID {
			fs.progress[i].Progress = progress
			fs.progress[i].LastReadAt = now
			fs.persist("progress", fs.progress)
			p := fs.progress[i]
			return &p, nil
		}
	}
	p := models.ReadingProgress{
		ID:         newID(),
		ChapterID:  chapterID,
		SessionID:  sessionID,
		Progress:   progress,
		LastReadAt: now,
	}
	fs.progress = append(fs.progress, p)
	fs.persist("progress", fs.progress)
	return &p, nil
}

// --- Аудио ---

func (fs *FileStore) ListAudioTracks(ctx context.Context) ([]models.AudioTrack, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := append([]models.AudioTrack{}, fs.tracks...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (fs *FileStore) GetAudioTrack(ctx context.Context, id string) (*models.AudioTrack, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	for i := range fs.tracks {
		if fs.tracks[i].ID == id {
			t := fs.tracks[i]
			return &t, nil
		}
	}
	return nil, models.ErrNotFound
}

func (fs *FileStore) CreateAudioTrack(ctx context.Context, t models.AudioTrack) (*models.AudioTrack, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
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
	fs.tracks = append(fs.tracks, t)
	fs.persist("audio-tracks", fs.tracks)
	return &t, nil
}

func (fs *FileStore) UpdateAudioTrack(ctx context.Context, id string, patch models.AudioTrackPatch) (*models.AudioTrack, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i := range fs.tracks {
		if fs.tracks[i].ID == id {
			applyTrackPatch(&fs.tracks[i], patch)
			fs.tracks[i].UpdatedAt = ptr(nowISO())
			fs.persist("audio-tracks", fs.tracks)
			t := fs.tracks[i]
			return &t, nil
		}
	}
	return nil, models.ErrNotFound
}

func (fs *FileStore) DeleteAudioTrack(ctx context.Context, id string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	found := false
	for i := range fs.tracks {
		if fs.tracks[i].ID == id {
			fs.tracks = append(fs.tracks[:i], fs.tracks[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return models.ErrNotFound
	}
	// Привязки удаленного трека зачищаются вместе с ним
	kept := fs.assignments[:0]
	for _, a := range fs.assignments {
		if a.TrackID != id {
			kept = append(kept, a)
		}
	}
	fs.assignments = kept
	fs.persist("audio-tracks", fs.tracks)
	fs.persist("audio-assignments", fs.assignments)
	return nil
}

func (fs *FileStore) ListAudioAssignments(ctx context.Context) ([]models.AudioAssignment, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return append([]models.AudioAssignment{}, fs.assignments...), nil
}

func (fs *FileStore) CreateAudioAssignment(ctx context.Context, a models.AudioAssignment) (*models.AudioAssignment, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if a.ID == "" {
		a.ID = newID()
	}
	now := nowISO()
	a.CreatedAt = &now
	a.UpdatedAt = &now
	fs.assignments = append(fs.assignments, a)
	fs.persist("audio-assignments", fs.assignments)
	return &a, nil
}

func (fs *FileStore) UpdateAudioAssignment(ctx context.Context, id string, patch models.AudioAssignmentPatch) (*models.AudioAssignment, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i := range fs.assignments {
		if fs.assignments[i].ID == id {
			applyAssignmentPatch(&fs.assignments[i], patch)
			fs.assignments[i].UpdatedAt = ptr(nowISO())
			fs.persist("audio-assignments", fs.assignments)
			a := fs.assignments[i]
			return &a, nil
		}
	}
	return nil, models.ErrNotFound
}

func (fs *FileStore) DeleteAudioAssignment(ctx context.Context, id string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i := range fs.assignments {
		if fs.assignments[i].ID == id {
			fs.assignments = append(fs.assignments[:i], fs.assignments[i+1:]...)
			fs.persist("audio-assignments", fs.assignments)
			return nil
		}
	}
	return models.ErrNotFound
}

func (fs *FileStore) ResolveAudio(ctx context.Context, q models.AudioQuery) (*ResolvedAudio, error) {
	assignments, _ := fs.ListAudioAssignments(ctx)
	winner := PickAssignment(assignments, q)
	if winner == nil {
		return nil, models.ErrNotFound
	}
	track, err := fs.GetAudioTrack(ctx, winner.TrackID)
	if err != nil {
		return nil, err
	}
	return &ResolvedAudio{Track: *track, Assignment: *winner}, nil
}

// --- Пользователи ---

func (fs *FileStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	for i := range fs.users {
		if fs.users[i].ID == id {
			u := fs.users[i]
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (fs *FileStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	target := strings.ToLower(email)
	for i := range fs.users {
		if fs.users[i].Email != nil && strings.ToLower(*fs.users[i].Email) == target {
			u := fs.users[i]
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (fs *FileStore) UpsertUser(ctx context.Context, u models.User) (*models.User, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if u.ID == "" {
		u.ID = newID()
	}
	if u.IsAdmin != 0 {
		allowed := false
		if u.Email != nil {
			_, allowed = fs.allowlist[strings.ToLower(strings.TrimSpace(*u.Email))]
		}
		if !allowed {
			fs.logger.Warn("админ-флаг отклонен: email вне allow-list", zapEmail(u.Email))
			u.IsAdmin = 0
		}
	}
	now := nowISO()
	u.UpdatedAt = &now
	for i := range fs.users {
		if fs.users[i].ID == u.ID {
			if u.PasswordHash == nil {
				u.PasswordHash = fs.users[i].PasswordHash
			}
			if u.CreatedAt == nil {
				u.CreatedAt = fs.users[i].CreatedAt
			}
			fs.users[i] = u
			fs.persist("users", fs.users)
			return &u, nil
		}
	}
	if u.CreatedAt == nil {
		u.CreatedAt = &now
	}
	fs.users = append(fs.users, u)
	fs.persist("users", fs.users)
	return &u, nil
}

// --- Meta ---

func (fs *FileStore) GetMeta(ctx context.Context, key string) (*string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if v, ok := fs.meta[key]; ok {
		return &v, nil
	}
	return nil, nil
}

func (fs *FileStore) SetMeta(ctx context.Context, key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.meta[key] = value
	fs.persist("meta", fs.meta)
	return nil
}
