package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"aethermoor-server/internal/config"
)

// Kind определяет выбранный бэкенд хранения.
type Kind string

const (
	KindPostgres Kind = "postgres"
	KindSQLite   Kind = "sqlite"
)

// ErrInvalidConfig — конфигурация задана, но некорректна (например,
// DATABASE_URL с чужой схемой). Такая ошибка фатальна на старте:
// тихо откатываться на встроенный бэкенд в этом случае нельзя.
var ErrInvalidConfig = errors.New("некорректная конфигурация базы данных")

// Manager держит подключения к выбранному бэкенду. Оба бэкенда
// видны репозиториям как *sql.DB: PostgreSQL через пулы pgx,
// SQLite как единый handle для чтения и записи.
type Manager struct {
	Kind  Kind
	Write *sql.DB
	Read  *sql.DB

	writePool *pgxpool.Pool
	readPool  *pgxpool.Pool

	logger *zap.Logger
}

// NewManager выбирает бэкенд и открывает подключения. Выбор делается
// один раз на старте: DATABASE_URL_WRITE > DATABASE_URL > SQLite по DB_PATH.
func NewManager(ctx context.Context, cfg *config.Config) (*Manager, error) {
	logger := zap.L().Named("database")

	writeURL := cfg.WriteURL()
	if writeURL == "" {
		return newSQLiteManager(ctx, cfg, logger)
	}
	if !isPostgresURL(writeURL) {
		return nil, fmt.Errorf("%w: DATABASE_URL должен начинаться с postgres:// или postgresql://", ErrInvalidConfig)
	}
	readURL := cfg.ReadURL()
	if !isPostgresURL(readURL) {
		return nil, fmt.Errorf("%w: DATABASE_URL_READ должен начинаться с postgres:// или postgresql://", ErrInvalidConfig)
	}
	return newPostgresManager(ctx, cfg, writeURL, readURL, logger)
}

func isPostgresURL(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func newPostgresManager(ctx context.Context, cfg *config.Config, writeURL, readURL string, logger *zap.Logger) (*Manager, error) {
	writePool, err := openPool(ctx, cfg, ensureParams(writeURL), int32(cfg.DBPoolMax))
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к PostgreSQL (write): %w", err)
	}

	readMax := cfg.DBPoolMax / 2
	if readMax < 2 {
		readMax = 2
	}
	readPool, err := openPool(ctx, cfg, ensureParams(readURL), int32(readMax))
	if err != nil {
		writePool.Close()
		return nil, fmt.Errorf("ошибка подключения к PostgreSQL (read): %w", err)
	}

	m := &Manager{
		Kind:      KindPostgres,
		Write:     stdlib.OpenDBFromPool(writePool),
		Read:      stdlib.OpenDBFromPool(readPool),
		writePool: writePool,
		readPool:  readPool,
		logger:    logger,
	}
	m.applySessionSettings(ctx, cfg)

	logger.Info("подключено к PostgreSQL",
		zap.String("write", config.MaskDSN(writeURL)),
		zap.String("read", config.MaskDSN(readURL)),
		zap.Int("pool_max", cfg.DBPoolMax))
	return m, nil
}

func openPool(ctx context.Context, cfg *config.Config, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка разбора connection string: %w", err)
	}
	poolCfg.MaxConns = maxConns
	poolCfg.MaxConnIdleTime = cfg.DBIdleTimeout
	poolCfg.ConnConfig.ConnectTimeout = cfg.DBConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := WithRetry(ctx, pool.Ping); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// ensureParams добавляет sslmode=require для нелокальных хостов,
// если режим не задан явно в connection string.
func ensureParams(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return dsn
	}
	q := u.Query()
	if q.Get("sslmode") != "" {
		return dsn
	}
	host := u.Hostname()
	if host == "localhost" || host == "127.0.0.1" || host == "::1" {
		return dsn
	}
	q.Set("sslmode", "require")
	u.RawQuery = q.Encode()
	return u.String()
}

// applySessionSettings выставляет защитные таймауты на уровне сессии.
// Неудача не фатальна: управляемые инстансы могут запрещать SET.
func (m *Manager) applySessionSettings(ctx context.Context, cfg *config.Config) {
	settings := []string{
		fmt.Sprintf("SET statement_timeout = %d", cfg.DBStmtTimeoutMs),
		fmt.Sprintf("SET idle_in_transaction_session_timeout = %d", cfg.DBIdleTxTimeout),
		fmt.Sprintf("SET lock_timeout = %d", cfg.DBLockTimeoutMs),
	}
	for _, stmt := range settings {
		err := WithRetry(ctx, func(ctx context.Context) error {
			_, execErr := m.Write.ExecContext(ctx, stmt)
			return execErr
		})
		if err != nil {
			m.logger.Warn("не удалось применить настройку сессии",
				zap.String("stmt", stmt), zap.Error(err))
		}
	}
}

func newSQLiteManager(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Manager, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", cfg.SQLitePath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия SQLite: %w", err)
	}
	// Единственный writer: WAL разрешает параллельное чтение,
	// но запись через один handle избавляет от SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ошибка проверки SQLite: %w", err)
	}

	logger.Info("открыта встроенная база SQLite", zap.String("path", cfg.SQLitePath))
	return &Manager{
		Kind:   KindSQLite,
		Write:  db,
		Read:   db,
		logger: logger,
	}, nil
}

// Close закрывает подключения к базе.
func (m *Manager) Close() {
	if m.Kind == KindSQLite {
		if err := m.Write.Close(); err != nil {
			m.logger.Warn("ошибка закрытия SQLite", zap.Error(err))
		}
		return
	}
	if err := m.Write.Close(); err != nil {
		m.logger.Warn("ошибка закрытия write-пула", zap.Error(err))
	}
	if err := m.Read.Close(); err != nil {
		m.logger.Warn("ошибка закрытия read-пула", zap.Error(err))
	}
	m.writePool.Close()
	m.readPool.Close()
}
