package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// SnapshotCache хранит offline-снапшоты списков сущностей в DATA_DIR.
// Снапшот пишется best-effort после каждого успешного чтения списка
// из базы и служит последней линией fallback'а при недоступной базе.
type SnapshotCache struct {
	dir    string
	mu     sync.Mutex
	logger *zap.Logger
}

func NewSnapshotCache(dir string) *SnapshotCache {
	return &SnapshotCache{
		dir:    dir,
		logger: zap.L().Named("snapshots"),
	}
}

func (c *SnapshotCache) path(name string) string {
	return filepath.Join(c.dir, fmt.Sprintf("offline-%s.json", name))
}

// saveSnapshot записывает снапшот атомарно (tmp + rename). Ошибки
// только логируются: снапшот — кэш, а не источник истины.
func saveSnapshot[T any](c *SnapshotCache, name string, items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		c.logger.Warn("не удалось создать каталог снапшотов", zap.Error(err))
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		c.logger.Warn("ошибка сериализации снапшота", zap.String("name", name), zap.Error(err))
		return
	}
	tmp := c.path(name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		c.logger.Warn("ошибка записи снапшота", zap.String("name", name), zap.Error(err))
		return
	}
	if err := os.Rename(tmp, c.path(name)); err != nil {
		c.logger.Warn("ошибка переименования снапшота", zap.String("name", name), zap.Error(err))
	}
}

// loadSnapshot читает снапшот; отсутствие файла — это пустой список,
// а не ошибка: так недоступная база деградирует до пустых ответов.
func loadSnapshot[T any](c *SnapshotCache, name string) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return []T{}, nil
		}
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("поврежденный снапшот %s: %w", name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
