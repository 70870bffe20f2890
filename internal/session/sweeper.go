package session

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// Sweep evicts every session idle for longer than the configured timeout and
// returns how many were removed.
func (m *Manager) Sweep(ctx context.Context) int {
	if m.opts.IdleTimeout <= 0 {
		return 0
	}

	ctx, span := tracer.Start(ctx, "session.Sweep")
	defer span.End()

	cutoff := m.now().Add(-m.opts.IdleTimeout)

	// Session locks are never taken while m.mu is held here.
	m.mu.Lock()
	var idle []*Session
	for id, s := range m.sessions {
		if s.idleSince(cutoff) {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.mu.Lock()
		s.closeSubscribers(ctx)
		s.mu.Unlock()
		slog.InfoContext(ctx, "session exceeded idle timeout, evicted", "session.id", s.ID)
	}

	span.SetAttributes(attribute.Int("sessions.evicted", len(idle)))
	return len(idle)
}

// RunSweeper calls Sweep every interval until ctx is cancelled.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "session sweeper started", "interval", interval, "idle_timeout", m.opts.IdleTimeout)
	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopping")
			return
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}
