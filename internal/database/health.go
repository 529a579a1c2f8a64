package database

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrCircuitOpen возвращается пока circuit breaker открыт и проверки
// базы пропускаются без реального обращения к ней.
var ErrCircuitOpen = errors.New("db-circuit-open")

// Monitor отслеживает доступность базы и реализует circuit breaker:
// после серии подряд неудачных проверок проверки отключаются на время,
// чтобы не держать запросы на зависшем соединении.
type Monitor struct {
	mu         sync.Mutex
	failStreak int
	openUntil  time.Time

	maxFails int
	openFor  time.Duration
	embedded bool

	// Инжектируются в тестах
	ping func(ctx context.Context) error
	now  func() time.Time

	logger *zap.Logger
}

// NewMonitor создает монитор для менеджера соединений.
// Встроенный бэкенд (SQLite) всегда считается доступным.
func NewMonitor(m *Manager, maxFails int, openFor time.Duration) *Monitor {
	mon := &Monitor{
		maxFails: maxFails,
		openFor:  openFor,
		embedded: m.Kind == KindSQLite,
		now:      time.Now,
		logger:   zap.L().Named("db-monitor"),
	}
	// Проба идет через read-пул: он меньше и существует ради health-check'ов
	mon.ping = func(ctx context.Context) error {
		return m.Read.PingContext(ctx)
	}
	return mon
}

// CircuitOpen сообщает, открыт ли сейчас circuit breaker.
func (mon *Monitor) CircuitOpen() bool {
	if mon.embedded {
		return false
	}
	mon.mu.Lock()
	defer mon.mu.Unlock()
	return mon.now().Before(mon.openUntil)
}

// Check выполняет проверку доступности базы. Пока breaker открыт,
// возвращает ErrCircuitOpen без обращения к базе; по истечении окна
// следующая проверка снова идет к базе (автозакрытие).
func (mon *Monitor) Check(ctx context.Context) error {
	if mon.embedded {
		return nil
	}

	mon.mu.Lock()
	if mon.now().Before(mon.openUntil) {
		mon.mu.Unlock()
		return ErrCircuitOpen
	}
	mon.mu.Unlock()

	err := WithRetry(ctx, mon.ping)

	mon.mu.Lock()
	defer mon.mu.Unlock()
	if err == nil {
		if mon.failStreak > 0 {
			mon.logger.Info("база снова доступна", zap.Int("после_сбоев", mon.failStreak))
		}
		mon.failStreak = 0
		return nil
	}

	// Серия сбрасывается только успехом: после истечения окна одного
	// нового сбоя достаточно, чтобы breaker открылся повторно.
	mon.failStreak++
	if mon.failStreak >= mon.maxFails {
		mon.openUntil = mon.now().Add(mon.openFor)
		mon.logger.Warn("circuit breaker открыт",
			zap.Int("сбоев_подряд", mon.failStreak),
			zap.Duration("на", mon.openFor),
			zap.Error(err))
	} else {
		mon.logger.Warn("проверка базы не прошла",
			zap.Int("сбоев_подряд", mon.failStreak),
			zap.Error(err))
	}
	return err
}
