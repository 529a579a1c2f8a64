package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит конфигурацию сервера контента.
type Config struct {
	// Настройки сервера
	Port        string `envconfig:"PORT" default:"8080"`
	Env         string `envconfig:"APP_ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`
	LogOutput   string `envconfig:"LOG_OUTPUT" default:"stdout"`

	// Выбор бэкенда хранения.
	// Приоритет: DATABASE_URL_WRITE > DATABASE_URL > встроенный SQLite по DB_PATH.
	DatabaseURL      string `envconfig:"DATABASE_URL"`
	DatabaseURLWrite string `envconfig:"DATABASE_URL_WRITE"`
	DatabaseURLRead  string `envconfig:"DATABASE_URL_READ"`
	SQLitePath       string `envconfig:"DB_PATH" default:"./dev.sqlite"`

	// Каталог для файлового хранилища и offline-снапшотов
	DataDir string `envconfig:"DATA_DIR" default:"./data"`

	// Настройки пулов и таймаутов PostgreSQL
	DBPoolMax        int           `envconfig:"DB_POOL_MAX" default:"10"`
	DBIdleTimeout    time.Duration `envconfig:"DB_IDLE_TIMEOUT" default:"30s"`
	DBStmtTimeoutMs  int           `envconfig:"DB_STMT_TIMEOUT_MS" default:"15000"`
	DBIdleTxTimeout  int           `envconfig:"DB_IDLE_TX_TIMEOUT_MS" default:"15000"`
	DBLockTimeoutMs  int           `envconfig:"DB_LOCK_TIMEOUT_MS" default:"5000"`
	DBConnectTimeout time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"5s"`

	// Настройки health-check circuit breaker'а
	HealthMaxFails int           `envconfig:"DB_HEALTH_FAILS_TO_TRIP" default:"3"`
	HealthOpenFor  time.Duration `envconfig:"DB_HEALTH_OPEN_AFTER" default:"15s"`

	// Настройки сидирования
	ForceSeed           bool   `envconfig:"FORCE_SEED" default:"false"`
	ForceSeedCharacters bool   `envconfig:"FORCE_SEED_CHARACTERS" default:"false"`
	AdminID             string `envconfig:"ADMIN_ID" default:"admin-root"`
	AdminEmail          string `envconfig:"ADMIN_EMAIL"`
	AdminForcePassword  bool   `envconfig:"ADMIN_FORCE_UPDATE_PASSWORD" default:"false"`
	BcryptRounds        int    `envconfig:"BCRYPT_ROUNDS" default:"12"`
	// Секретное поле: никогда не пишем в логи
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`

	// Allow-list администраторов (CSV); админ-флаг пользователя действителен
	// только если его email присутствует здесь или равен ADMIN_EMAIL.
	AdminEmails string `envconfig:"ADMIN_EMAILS"`

	// CORS
	AllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS"`
}

// Load загружает конфигурацию из переменных окружения.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	return &cfg, nil
}

// WriteURL возвращает итоговый connection string для записи ("" => встроенный бэкенд).
func (c *Config) WriteURL() string {
	if c.DatabaseURLWrite != "" {
		return c.DatabaseURLWrite
	}
	return c.DatabaseURL
}

// ReadURL возвращает connection string для чтения (по умолчанию совпадает с write).
func (c *Config) ReadURL() string {
	if c.DatabaseURLRead != "" {
		return c.DatabaseURLRead
	}
	return c.WriteURL()
}

// AdminAllowlist возвращает множество email'ов, которым разрешен админ-флаг.
func (c *Config) AdminAllowlist() map[string]struct{} {
	out := make(map[string]struct{})
	for _, e := range strings.Split(c.AdminEmails, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			out[e] = struct{}{}
		}
	}
	if c.AdminEmail != "" {
		out[strings.ToLower(strings.TrimSpace(c.AdminEmail))] = struct{}{}
	}
	return out
}

// GetAllowedOrigins разбирает CSV со списком CORS origins.
func (c *Config) GetAllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

var credentialsRe = regexp.MustCompile(`://[^@/]*@`)

// MaskDSN убирает учетные данные из connection string для безопасного логирования.
func MaskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Host == "" {
		return credentialsRe.ReplaceAllString(dsn, "://****@")
	}
	return fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, u.Path)
}
