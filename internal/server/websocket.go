package server

import (
	"context"
	"ctchen222/Grid-Tac-Toe/internal/api/response"
	"ctchen222/Grid-Tac-Toe/internal/game"
	"ctchen222/Grid-Tac-Toe/internal/session"
	"ctchen222/Grid-Tac-Toe/internal/validator"
	"ctchen222/Grid-Tac-Toe/pkg/proto"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// handleWebSocket upgrades the connection, subscribes it to the session
// named by ?sessionId= and then reads client messages until the socket
// closes. State changes reach the socket through the session broadcast;
// failures are reported to this socket only.
func (s *Server) handleWebSocket(c *gin.Context) {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		response.ErrorResponse(c, http.StatusBadRequest, "sessionId is required")
		return
	}

	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.ErrorContext(ctx, "failed to upgrade connection", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}
	defer conn.Close()

	sub, err := s.sessionService.Subscribe(ctx, sessionID, conn)
	if err != nil {
		slog.WarnContext(ctx, "failed to subscribe", "session.id", sessionID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to subscribe")
		if data, merr := json.Marshal(proto.ErrorMessage(err.Error())); merr == nil {
			_ = conn.WriteMessage(websocket.TextMessage, data)
		}
		return
	}
	defer s.sessionService.Unsubscribe(sub)

	slog.InfoContext(ctx, "subscriber connected", "session.id", sessionID)
	if s.pongWait > 0 {
		s.startHeartbeat(conn)
	}
	s.readPump(ctx, conn, sub)
	slog.InfoContext(ctx, "subscriber disconnected", "session.id", sessionID)
}

// startHeartbeat drops the socket when neither a message nor a pong arrives
// within pongWait. The pings themselves are sent by the subscriber.
func (s *Server) startHeartbeat(conn *websocket.Conn) {
	extend := func() error {
		return conn.SetReadDeadline(time.Now().Add(s.pongWait))
	}
	_ = extend()
	conn.SetPongHandler(func(string) error {
		return extend()
	})
}

// readPump reads client messages until the connection fails or the session
// is gone.
func (s *Server) readPump(ctx context.Context, conn *websocket.Conn, sub *session.Subscriber) {
	span := trace.SpanFromContext(ctx)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "subscriber connection error", "session.id", sub.SessionID, "error", err)
				span.RecordError(err)
			}
			return
		}

		if s.pongWait > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.pongWait))
		}

		var msg proto.ClientToServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.reply(ctx, sub, proto.ErrorMessage("malformed message"))
			continue
		}
		if err := validator.Struct(msg); err != nil {
			s.reply(ctx, sub, proto.ErrorMessage(err.Error()))
			continue
		}

		if err := s.dispatch(ctx, sub, msg); err != nil {
			s.reply(ctx, sub, proto.ErrorMessage(err.Error()))
			if errors.Is(err, session.ErrSessionNotFound) {
				return
			}
		}
	}
}

// dispatch applies one validated client message. Successful changes are
// broadcast by the session itself.
func (s *Server) dispatch(ctx context.Context, sub *session.Subscriber, msg proto.ClientToServerMessage) error {
	id := sub.SessionID

	var err error
	switch msg.Type {
	case proto.TypeMove:
		var (
			state  proto.GameState
			result game.MoveResult
		)
		state, result, err = s.sessionService.Move(ctx, id, *msg.Index)
		if err == nil && result.Kind == game.MoveRejected {
			moveResult := proto.NewMoveResult(result)
			s.reply(ctx, sub, &proto.ServerToClientMessage{
				Type:   proto.TypeError,
				Reason: moveResult.Reason,
				State:  &state,
				Result: &moveResult,
			})
		}
	case proto.TypeWithdraw:
		_, err = s.sessionService.Withdraw(ctx, id)
	case proto.TypePause:
		_, err = s.sessionService.Pause(ctx, id)
	case proto.TypeResume:
		_, err = s.sessionService.Resume(ctx, id)
	case proto.TypeRestart:
		_, err = s.sessionService.Restart(ctx, id)
	default:
		err = fmt.Errorf("unknown message type %q", msg.Type)
	}
	return err
}

func (s *Server) reply(ctx context.Context, sub *session.Subscriber, msg *proto.ServerToClientMessage) {
	if err := sub.Send(msg); err != nil {
		slog.WarnContext(ctx, "failed to reply to subscriber", "session.id", sub.SessionID, "error", err)
	}
}
