package telemetry

import (
	"context"
	"ctchen222/Grid-Tac-Toe/internal/game"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "ctchen222/Grid-Tac-Toe/game"

// GameMetrics counts game lifecycle events.
type GameMetrics struct {
	gamesStarted  metric.Int64Counter
	movesAccepted metric.Int64Counter
	movesRejected metric.Int64Counter
	gamesFinished metric.Int64Counter
}

// NewGameMetrics registers the game counters on the meter provider.
func NewGameMetrics(provider metric.MeterProvider) (*GameMetrics, error) {
	meter := provider.Meter(meterName)

	gamesStarted, err := meter.Int64Counter("games.started",
		metric.WithDescription("Games started, including restarts"))
	if err != nil {
		return nil, fmt.Errorf("failed to create games.started counter: %w", err)
	}

	movesAccepted, err := meter.Int64Counter("moves.accepted",
		metric.WithDescription("Moves placed on the board"))
	if err != nil {
		return nil, fmt.Errorf("failed to create moves.accepted counter: %w", err)
	}

	movesRejected, err := meter.Int64Counter("moves.rejected",
		metric.WithDescription("Move attempts ignored as illegal"))
	if err != nil {
		return nil, fmt.Errorf("failed to create moves.rejected counter: %w", err)
	}

	gamesFinished, err := meter.Int64Counter("games.finished",
		metric.WithDescription("Games that reached a terminal state"))
	if err != nil {
		return nil, fmt.Errorf("failed to create games.finished counter: %w", err)
	}

	return &GameMetrics{
		gamesStarted:  gamesStarted,
		movesAccepted: movesAccepted,
		movesRejected: movesRejected,
		gamesFinished: gamesFinished,
	}, nil
}

func (m *GameMetrics) GameStarted(ctx context.Context, size int) {
	m.gamesStarted.Add(ctx, 1, metric.WithAttributes(attribute.Int("board.size", size)))
}

func (m *GameMetrics) MoveRecorded(ctx context.Context, size int, result game.MoveResult) {
	attrs := metric.WithAttributes(attribute.Int("board.size", size))
	if result.Kind == game.MoveRejected {
		m.movesRejected.Add(ctx, 1, attrs)
		return
	}
	m.movesAccepted.Add(ctx, 1, attrs)
}

func (m *GameMetrics) GameEnded(ctx context.Context, size int, outcome game.Outcome) {
	m.gamesFinished.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("board.size", size),
		attribute.String("outcome", string(outcome)),
	))
}
