package session

import (
	"context"
	"ctchen222/Grid-Tac-Toe/internal/game"
	"ctchen222/Grid-Tac-Toe/pkg/proto"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// sendBuffer is how many messages may queue for one subscriber before it
	// is dropped as too slow.
	sendBuffer = 16
	// writeWait bounds every single write to a subscriber.
	writeWait = 10 * time.Second
)

var (
	ErrSubscriberClosed = errors.New("subscriber closed")
	ErrSubscriberSlow   = errors.New("subscriber send queue full")
)

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Subscriber is a live connection receiving every state change of one session.
// Messages are queued by Send and written by a single writer goroutine, so a
// peer that stops reading never blocks the session.
type Subscriber struct {
	SessionID string
	conn      Connection
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newSubscriber(sessionID string, conn Connection, pingInterval time.Duration) *Subscriber {
	sub := &Subscriber{
		SessionID: sessionID,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		done:      make(chan struct{}),
	}
	go sub.writePump(pingInterval)
	return sub
}

// Send queues message for the subscriber. It never blocks: a subscriber whose
// queue is full is closed and ErrSubscriberSlow is returned.
func (sub *Subscriber) Send(message *proto.ServerToClientMessage) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	select {
	case <-sub.done:
		return ErrSubscriberClosed
	default:
	}

	select {
	case sub.send <- data:
		return nil
	default:
		sub.close()
		return ErrSubscriberSlow
	}
}

// Done is closed once the subscriber has been shut down.
func (sub *Subscriber) Done() <-chan struct{} {
	return sub.done
}

func (sub *Subscriber) close() error {
	var err error
	sub.closeOnce.Do(func() {
		close(sub.done)
		err = sub.conn.Close()
	})
	return err
}

// writePump drains the send queue and pings the peer every pingInterval.
// A failed write or ping is treated as a disconnect. A zero interval
// disables pings.
func (sub *Subscriber) writePump(pingInterval time.Duration) {
	var ping <-chan time.Time
	if pingInterval > 0 {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		ping = ticker.C
	}
	defer sub.close()

	for {
		select {
		case <-sub.done:
			return
		case data := <-sub.send:
			if err := sub.write(websocket.TextMessage, data); err != nil {
				slog.Warn("failed to write to subscriber, assuming disconnect", "session.id", sub.SessionID, "error", err)
				return
			}
		case <-ping:
			if err := sub.write(websocket.PingMessage, nil); err != nil {
				slog.Warn("failed to send ping to subscriber, assuming disconnect", "session.id", sub.SessionID, "error", err)
				return
			}
		}
	}
}

func (sub *Subscriber) write(messageType int, data []byte) error {
	if err := sub.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return sub.conn.WriteMessage(messageType, data)
}

// Session is one game plus the connections watching it.
type Session struct {
	ID          string
	mu          sync.Mutex
	game        *game.Game
	lastSeen    atomic.Int64 // unix nanoseconds
	subscribers map[*Subscriber]struct{}
}

func newSession(id string, g *game.Game, now time.Time) *Session {
	s := &Session{
		ID:          id,
		game:        g,
		subscribers: make(map[*Subscriber]struct{}),
	}
	s.touch(now)
	return s
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) idleSince(cutoff time.Time) bool {
	return s.lastSeen.Load() < cutoff.UnixNano()
}

func (s *Session) state() proto.GameState {
	return proto.NewGameState(s.ID, s.game)
}

// broadcast queues message for all subscribers, dropping those that are
// closed or too slow. Callers hold s.mu.
func (s *Session) broadcast(ctx context.Context, message *proto.ServerToClientMessage) {
	_, span := tracer.Start(ctx, "session.broadcast", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("message.type", message.Type),
		attribute.Int("session.subscribers", len(s.subscribers)),
	))
	defer span.End()

	for sub := range s.subscribers {
		if err := sub.Send(message); err != nil {
			slog.ErrorContext(ctx, "error sending message to subscriber, dropping it", "session.id", s.ID, "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Error sending message to subscriber")
			delete(s.subscribers, sub)
		}
	}
}

// closeSubscribers drops every subscriber. Callers hold s.mu.
func (s *Session) closeSubscribers(ctx context.Context) {
	for sub := range s.subscribers {
		if err := sub.close(); err != nil {
			slog.WarnContext(ctx, "failed to close subscriber connection", "session.id", s.ID, "error", err)
		}
		delete(s.subscribers, sub)
	}
}
