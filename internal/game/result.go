package game

import (
	"fmt"
)

// MoveKind classifies the result of a move attempt.
type MoveKind string

const (
	MoveAccepted MoveKind = "accepted"
	MoveWin      MoveKind = "win"
	MoveDraw     MoveKind = "draw"
	MoveRejected MoveKind = "rejected"
)

// MoveResult is returned by Game.Move. Reason is set only for rejected moves.
type MoveResult struct {
	Kind   MoveKind
	Player PlayerMark
	Index  int
	Reason error
}

func rejected(index int, reason error) MoveResult {
	return MoveResult{Kind: MoveRejected, Index: index, Reason: reason}
}

// StillActive reports whether the game keeps accepting moves after this result.
func (r MoveResult) StillActive() bool {
	return r.Kind == MoveAccepted
}

// IsTerminal reports whether the move ended the game.
func (r MoveResult) IsTerminal() bool {
	return r.Kind == MoveWin || r.Kind == MoveDraw
}

// Summary describes a game for the end-of-game dialog.
type Summary struct {
	Size      int
	MoveCount int
	Outcome   Outcome
	Winner    PlayerMark
}

// Summary returns the current summary of the game.
func (g *Game) Summary() Summary {
	return Summary{
		Size:      g.size,
		MoveCount: g.moveCount,
		Outcome:   g.outcome,
		Winner:    g.winner,
	}
}

// Title is the headline shown when a game ends. It is empty while the game
// is still in play.
func (s Summary) Title() string {
	switch s.Outcome {
	case OutcomeWin:
		return fmt.Sprintf("Player %s Wins!", s.Winner)
	case OutcomeDraw:
		return "It's a Draw!"
	case OutcomeWithdrawn:
		return "Game Withdrawn"
	default:
		return ""
	}
}

func (s Summary) Details() string {
	return fmt.Sprintf("Board: %d × %d | Moves: %d", s.Size, s.Size, s.MoveCount)
}
