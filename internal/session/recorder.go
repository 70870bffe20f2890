package session

import (
	"context"
	"ctchen222/Grid-Tac-Toe/internal/game"
)

// Recorder receives game lifecycle events, typically to feed metrics.
type Recorder interface {
	GameStarted(ctx context.Context, size int)
	MoveRecorded(ctx context.Context, size int, result game.MoveResult)
	GameEnded(ctx context.Context, size int, outcome game.Outcome)
}

type nopRecorder struct{}

func (nopRecorder) GameStarted(context.Context, int)                   {}
func (nopRecorder) MoveRecorded(context.Context, int, game.MoveResult) {}
func (nopRecorder) GameEnded(context.Context, int, game.Outcome)       {}
