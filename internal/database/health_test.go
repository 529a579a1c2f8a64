package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMonitor(ping func(ctx context.Context) error, now func() time.Time) *Monitor {
	return &Monitor{
		maxFails: 3,
		openFor:  15 * time.Second,
		ping:     ping,
		now:      now,
		logger:   zap.NewNop(),
	}
}

func TestMonitor_TripsAfterConsecutiveFailures(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	failing := errors.New("dial tcp: connect: connection refused")

	mon := newTestMonitor(
		func(ctx context.Context) error { return failing },
		func() time.Time { return clock },
	)

	// Три неудачных проверки подряд открывают breaker
	for i := 0; i < 3; i++ {
		require.False(t, mon.CircuitOpen())
		err := mon.Check(context.Background())
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrCircuitOpen)
	}
	assert.True(t, mon.CircuitOpen())
}

func TestMonitor_FailsFastWhileOpen(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pings := 0

	mon := newTestMonitor(
		func(ctx context.Context) error {
			pings++
			return errors.New("connection refused")
		},
		func() time.Time { return clock },
	)

	for i := 0; i < 3; i++ {
		_ = mon.Check(context.Background())
	}
	pingsBefore := pings

	// Пока окно не истекло — ErrCircuitOpen без обращений к базе
	err := mon.Check(context.Background())
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, pingsBefore, pings)
}

func TestMonitor_AutoClosesAfterWindow(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	healthy := false

	mon := newTestMonitor(
		func(ctx context.Context) error {
			if healthy {
				return nil
			}
			return errors.New("connection refused")
		},
		func() time.Time { return clock },
	)

	for i := 0; i < 3; i++ {
		_ = mon.Check(context.Background())
	}
	require.True(t, mon.CircuitOpen())

	// По истечении окна следующая проверка снова идет к базе
	clock = clock.Add(16 * time.Second)
	healthy = true
	require.NoError(t, mon.Check(context.Background()))
	assert.False(t, mon.CircuitOpen())
}

func TestMonitor_ReTripsOnFailureAfterWindow(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	mon := newTestMonitor(
		func(ctx context.Context) error { return errors.New("connection refused") },
		func() time.Time { return clock },
	)

	for i := 0; i < 3; i++ {
		_ = mon.Check(context.Background())
	}
	require.True(t, mon.CircuitOpen())

	// Окно истекло, база все еще лежит: одного нового сбоя достаточно,
	// чтобы breaker открылся повторно на свежее окно
	clock = clock.Add(16 * time.Second)
	require.False(t, mon.CircuitOpen())

	err := mon.Check(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrCircuitOpen, "проверка после окна идет к базе")
	assert.True(t, mon.CircuitOpen(), "повторный сбой открывает breaker сразу")

	// И fail-fast снова работает
	assert.ErrorIs(t, mon.Check(context.Background()), ErrCircuitOpen)
}

func TestMonitor_SuccessResetsStreak(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fail := true

	mon := newTestMonitor(
		func(ctx context.Context) error {
			if fail {
				return errors.New("connection refused")
			}
			return nil
		},
		func() time.Time { return clock },
	)

	_ = mon.Check(context.Background())
	_ = mon.Check(context.Background())

	fail = false
	require.NoError(t, mon.Check(context.Background()))

	// Серия сброшена: две новые неудачи breaker не открывают
	fail = true
	_ = mon.Check(context.Background())
	_ = mon.Check(context.Background())
	assert.False(t, mon.CircuitOpen())
}

func TestMonitor_EmbeddedAlwaysHealthy(t *testing.T) {
	mon := &Monitor{embedded: true, logger: zap.NewNop()}
	assert.NoError(t, mon.Check(context.Background()))
	assert.False(t, mon.CircuitOpen())
}
