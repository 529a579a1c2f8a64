package database

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	// Количество попыток для транзиентных ошибок
	retryAttempts = 2
	// Базовая задержка перед повтором, растет экспоненциально
	retryBaseDelay = 120 * time.Millisecond
)

// WithRetry выполняет операцию с повтором при транзиентных ошибках.
// Нетранзиентные ошибки возвращаются сразу, без повторных попыток.
func WithRetry(ctx context.Context, op func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

// Подстроки сообщений, характерные для сетевых сбоев драйверов
var transientFragments = []string{
	"connection reset",
	"connection refused",
	"broken pipe",
	"timeout",
	"timed out",
	"temporarily unavailable",
	"database is locked",
}

// IsTransient сообщает, стоит ли повторять операцию после этой ошибки.
// Транзиентными считаются таймауты, сетевые обрывы и ошибки соединения
// PostgreSQL класса 08 (connection exception).
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "08") {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, fragment := range transientFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
