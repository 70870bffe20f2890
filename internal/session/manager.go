package session

import (
	"context"
	"ctchen222/Grid-Tac-Toe/internal/game"
	"ctchen222/Grid-Tac-Toe/pkg/proto"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("session")

var ErrSessionNotFound = errors.New("session not found")

// Options bounds what the manager accepts.
type Options struct {
	// MaxSize is the largest board dimension accepted by Start. Zero means no limit.
	MaxSize int
	// IdleTimeout is how long a session may go untouched before the sweeper evicts it.
	IdleTimeout time.Duration
	// PingInterval is how often each subscriber is pinged. Zero disables pings.
	PingInterval time.Duration
}

// Manager owns all live sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     Options
	recorder Recorder
	now      func() time.Time
}

// NewManager creates a new manager. A nil recorder discards events.
func NewManager(opts Options, recorder Recorder) *Manager {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
		recorder: recorder,
		now:      time.Now,
	}
}

// Start creates a session holding a new size×size game.
func (m *Manager) Start(ctx context.Context, size int) (proto.GameState, error) {
	ctx, span := tracer.Start(ctx, "session.Start", trace.WithAttributes(
		attribute.Int("board.size", size),
	))
	defer span.End()

	if m.opts.MaxSize > 0 && size > m.opts.MaxSize {
		err := fmt.Errorf("%w: %d (maximum is %d)", game.ErrInvalidSize, size, m.opts.MaxSize)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Board size above maximum")
		return proto.GameState{}, err
	}

	g, err := game.NewGame(size)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create game")
		return proto.GameState{}, err
	}

	s := newSession(uuid.New().String(), g, m.now())
	span.SetAttributes(attribute.String("session.id", s.ID))

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.recorder.GameStarted(ctx, size)
	slog.InfoContext(ctx, "session started", "session.id", s.ID, "board.size", size)

	return s.state(), nil
}

// Get returns the current state of a session.
func (m *Manager) Get(ctx context.Context, id string) (proto.GameState, error) {
	return m.update(ctx, id, "session.Get", func(context.Context, *Session) bool {
		return false
	})
}

// Move attempts a move for whoever's turn it is. An illegal move is not an
// error: it comes back as a rejected result and the state is unchanged.
func (m *Manager) Move(ctx context.Context, id string, index int) (proto.GameState, game.MoveResult, error) {
	var result game.MoveResult

	state, err := m.update(ctx, id, "session.Move", func(ctx context.Context, s *Session) bool {
		span := trace.SpanFromContext(ctx)
		span.SetAttributes(attribute.Int("move.index", index))

		result = s.game.Move(index)
		span.SetAttributes(attribute.String("move.result", string(result.Kind)))
		m.recorder.MoveRecorded(ctx, s.game.Size(), result)

		switch result.Kind {
		case game.MoveRejected:
			slog.WarnContext(ctx, "move rejected", "session.id", s.ID, "move.index", index, "reason", result.Reason)
			return false
		case game.MoveWin, game.MoveDraw:
			m.recorder.GameEnded(ctx, s.game.Size(), s.game.Outcome())
			slog.InfoContext(ctx, "game finished", "session.id", s.ID, "game.outcome", s.game.Outcome(), "game.winner", s.game.Winner(), "game.moves", s.game.MoveCount())
		}
		return true
	})

	return state, result, err
}

// Withdraw ends the session's game as withdrawn.
func (m *Manager) Withdraw(ctx context.Context, id string) (proto.GameState, error) {
	return m.update(ctx, id, "session.Withdraw", func(ctx context.Context, s *Session) bool {
		if s.game.IsFinished() {
			return false
		}
		s.game.Withdraw()
		m.recorder.GameEnded(ctx, s.game.Size(), s.game.Outcome())
		slog.InfoContext(ctx, "game withdrawn", "session.id", s.ID, "game.moves", s.game.MoveCount())
		return true
	})
}

// Pause suspends input while the player reads the rules or settings.
func (m *Manager) Pause(ctx context.Context, id string) (proto.GameState, error) {
	return m.update(ctx, id, "session.Pause", func(_ context.Context, s *Session) bool {
		return s.game.Pause()
	})
}

func (m *Manager) Resume(ctx context.Context, id string) (proto.GameState, error) {
	return m.update(ctx, id, "session.Resume", func(_ context.Context, s *Session) bool {
		return s.game.Resume()
	})
}

// Restart replaces the session's game with a fresh one of the same size.
func (m *Manager) Restart(ctx context.Context, id string) (proto.GameState, error) {
	return m.update(ctx, id, "session.Restart", func(ctx context.Context, s *Session) bool {
		g, err := game.NewGame(s.game.Size())
		if err != nil {
			slog.ErrorContext(ctx, "failed to restart game", "session.id", s.ID, "error", err)
			return false
		}
		s.game = g
		m.recorder.GameStarted(ctx, g.Size())
		slog.InfoContext(ctx, "session restarted", "session.id", s.ID, "board.size", g.Size())
		return true
	})
}

// Preview reports the mark a move at index would place.
func (m *Manager) Preview(ctx context.Context, id string, index int) (game.PlayerMark, bool, error) {
	var (
		mark game.PlayerMark
		ok   bool
	)
	_, err := m.update(ctx, id, "session.Preview", func(_ context.Context, s *Session) bool {
		mark, ok = s.game.Preview(index)
		return false
	})
	return mark, ok, err
}

// End removes a session and disconnects its subscribers.
func (m *Manager) End(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "session.End", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		span.SetStatus(codes.Error, "Session not found")
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.mu.Lock()
	s.closeSubscribers(ctx)
	s.mu.Unlock()

	slog.InfoContext(ctx, "session ended", "session.id", id)
	return nil
}

// Subscribe registers conn for state updates of a session and sends it the
// current state. From then on the subscriber owns all writes to conn.
func (m *Manager) Subscribe(ctx context.Context, id string, conn Connection) (*Subscriber, error) {
	var sub *Subscriber

	_, err := m.update(ctx, id, "session.Subscribe", func(ctx context.Context, s *Session) bool {
		sub = newSubscriber(s.ID, conn, m.opts.PingInterval)
		s.subscribers[sub] = struct{}{}
		if err := sub.Send(proto.StateMessage(s.state())); err != nil {
			slog.WarnContext(ctx, "failed to send initial state", "session.id", s.ID, "error", err)
		}
		return false
	})
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// Unsubscribe stops updates to sub and closes its connection. It is safe to
// call after the session ended.
func (m *Manager) Unsubscribe(sub *Subscriber) {
	defer sub.close()

	s, err := m.lookup(sub.SessionID)
	if err != nil {
		return
	}

	s.mu.Lock()
	delete(s.subscribers, sub)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) lookup(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// update runs fn with the session locked. When fn reports a change, the new
// state is broadcast to the session's subscribers before the lock is released.
func (m *Manager) update(ctx context.Context, id, spanName string, fn func(ctx context.Context, s *Session) bool) (proto.GameState, error) {
	ctx, span := tracer.Start(ctx, spanName, trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	s, err := m.lookup(id)
	if err != nil {
		span.SetStatus(codes.Error, "Session not found")
		return proto.GameState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch(m.now())
	changed := fn(ctx, s)
	state := s.state()
	if changed {
		s.broadcast(ctx, proto.StateMessage(state))
	}

	return state, nil
}
