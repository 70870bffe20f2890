package proto

import "ctchen222/Grid-Tac-Toe/internal/game"

// Client message types
const (
	TypeMove     = "move"
	TypeWithdraw = "withdraw"
	TypePause    = "pause"
	TypeResume   = "resume"
	TypeRestart  = "restart"
)

// Server message types
const (
	TypeState = "state"
	TypeError = "error"
)

// ClientToServerMessage represents a message from the browser to the server.
type ClientToServerMessage struct {
	Type  string `json:"type" validate:"required,oneof=move withdraw pause resume restart"`
	Index *int   `json:"index,omitempty" validate:"required_if=Type move"`
}

// ServerToClientMessage represents a message from the server to the browser.
type ServerToClientMessage struct {
	Type   string      `json:"type" validate:"required"`
	Reason string      `json:"reason,omitempty"`
	State  *GameState  `json:"state,omitempty"`
	Result *MoveResult `json:"result,omitempty"`
}

// GameState is the public view of one session.
type GameState struct {
	SessionID   string            `json:"sessionId"`
	Size        int               `json:"size"`
	Board       []game.PlayerMark `json:"board"`
	Next        game.PlayerMark   `json:"next,omitempty"`
	MoveCount   int               `json:"moveCount"`
	Status      game.Status       `json:"status"`
	Outcome     game.Outcome      `json:"outcome,omitempty"`
	Winner      game.PlayerMark   `json:"winner,omitempty"`
	WinningLine []int             `json:"winningLine,omitempty"`
	Summary     *Summary          `json:"summary,omitempty"`
}

// Summary is the end-of-game dialog text.
type Summary struct {
	Title   string `json:"title"`
	Details string `json:"details"`
}

// MoveResult reports what happened to a move request.
type MoveResult struct {
	Kind   game.MoveKind   `json:"kind"`
	Player game.PlayerMark `json:"player,omitempty"`
	Index  int             `json:"index"`
	Reason string          `json:"reason,omitempty"`
}

// NewGameState captures the current state of g.
func NewGameState(sessionID string, g *game.Game) GameState {
	state := GameState{
		SessionID:   sessionID,
		Size:        g.Size(),
		Board:       g.Board(),
		MoveCount:   g.MoveCount(),
		Status:      g.Status(),
		Outcome:     g.Outcome(),
		Winner:      g.Winner(),
		WinningLine: g.WinningLine(),
	}

	if g.IsFinished() {
		summary := g.Summary()
		state.Summary = &Summary{Title: summary.Title(), Details: summary.Details()}
	} else {
		state.Next = g.CurrentTurn()
	}

	return state
}

// NewMoveResult converts an engine move result for the wire.
func NewMoveResult(r game.MoveResult) MoveResult {
	result := MoveResult{
		Kind:   r.Kind,
		Player: r.Player,
		Index:  r.Index,
	}
	if r.Reason != nil {
		result.Reason = r.Reason.Error()
	}
	return result
}

// StateMessage wraps a state update.
func StateMessage(state GameState) *ServerToClientMessage {
	return &ServerToClientMessage{Type: TypeState, State: &state}
}

// ErrorMessage wraps a failure reported to a single client.
func ErrorMessage(reason string) *ServerToClientMessage {
	return &ServerToClientMessage{Type: TypeError, Reason: reason}
}
