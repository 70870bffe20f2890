package service

//go:generate mockgen -source=session_service.go -destination=mocks/mock_session_service.go -package=mocks

import (
	"context"
	"ctchen222/Grid-Tac-Toe/internal/game"
	"ctchen222/Grid-Tac-Toe/internal/session"
	"ctchen222/Grid-Tac-Toe/pkg/proto"
)

// SessionService defines the game operations exposed over HTTP and WebSocket.
type SessionService interface {
	Start(ctx context.Context, size int) (proto.GameState, error)
	Get(ctx context.Context, id string) (proto.GameState, error)
	Move(ctx context.Context, id string, index int) (proto.GameState, game.MoveResult, error)
	Withdraw(ctx context.Context, id string) (proto.GameState, error)
	Pause(ctx context.Context, id string) (proto.GameState, error)
	Resume(ctx context.Context, id string) (proto.GameState, error)
	Restart(ctx context.Context, id string) (proto.GameState, error)
	Preview(ctx context.Context, id string, index int) (game.PlayerMark, bool, error)
	End(ctx context.Context, id string) error
	Subscribe(ctx context.Context, id string, conn session.Connection) (*session.Subscriber, error)
	Unsubscribe(sub *session.Subscriber)
}

var _ SessionService = (*session.Manager)(nil)
