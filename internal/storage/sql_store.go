package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"aethermoor-server/internal/config"
	"aethermoor-server/internal/database"
	"aethermoor-server/internal/models"
)

// SQLStore реализует Storage поверх Manager'а. Реализация общая для
// PostgreSQL и SQLite: плейсхолдеры $1 понимают оба драйвера, даты
// хранятся ISO8601-текстом.
type SQLStore struct {
	m         *database.Manager
	snapshots *SnapshotCache
	allowlist map[string]struct{}
	logger    *zap.Logger
}

var _ Storage = (*SQLStore)(nil)

func NewSQLStore(m *database.Manager, cfg *config.Config) *SQLStore {
	return &SQLStore{
		m:         m,
		snapshots: NewSnapshotCache(cfg.DataDir),
		allowlist: cfg.AdminAllowlist(),
		logger:    zap.L().Named("sql-store"),
	}
}

func newID() string {
	return uuid.NewString()
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// strategy — именованный шаг цепочки fallback'ов.
type strategy[T any] struct {
	name string
	run  func(ctx context.Context) (T, error)
}

// firstOf прогоняет стратегии по порядку и возвращает первый успех.
// Каждый промежуточный сбой логируется; наружу уходит последняя ошибка.
// Нарушение уникальности — ошибка данных, а не инфраструктуры:
// цепочка останавливается сразу, фолбэк ее не маскирует.
func firstOf[T any](ctx context.Context, logger *zap.Logger, op string, strategies ...strategy[T]) (T, error) {
	var zero T
	var lastErr error
	for i, s := range strategies {
		v, err := s.run(ctx)
		if err == nil {
			return v, nil
		}
		if isUniqueViolation(err) {
			return zero, fmt.Errorf("%w: %v", models.ErrValidation, err)
		}
		lastErr = err
		if i < len(strategies)-1 {
			logger.Warn("переход к следующей стратегии",
				zap.String("op", op),
				zap.String("strategy", s.name),
				zap.Error(err))
		}
	}
	return zero, lastErr
}

func zapEmail(email *string) zap.Field {
	if email == nil {
		return zap.String("email", "")
	}
	return zap.String("email", *email)
}

// isMissingColumn: колонка отсутствует (legacy-схема до аддитивной миграции).
func isMissingColumn(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42703" {
		return true
	}
	// SQLite: "no such column" в SELECT, "has no column named" в INSERT
	return strings.Contains(err.Error(), "no such column") ||
		strings.Contains(err.Error(), "has no column named")
}

// isUniqueViolation: нарушение уникального ограничения.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
