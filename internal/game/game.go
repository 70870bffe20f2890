package game

import (
	"errors"
	"fmt"
)

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

// Status is the lifecycle state of a game.
type Status string

// Outcome is how a finished game ended.
type Outcome string

const (
	// Player marks
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"

	// Game statuses. The zero Game is StatusNotStarted.
	StatusNotStarted Status = ""
	StatusActive     Status = "active"
	StatusPaused     Status = "paused"
	StatusFinished   Status = "finished"

	// Game outcomes
	OutcomeNone      Outcome = ""
	OutcomeWin       Outcome = "win"
	OutcomeDraw      Outcome = "draw"
	OutcomeWithdrawn Outcome = "withdrawn"

	// MinSize is the smallest board dimension accepted by NewGame.
	MinSize = 2
)

var (
	ErrInvalidSize   = errors.New("invalid board size")
	ErrInvalidCell   = errors.New("invalid cell index")
	ErrCellOccupied  = errors.New("cell already occupied")
	ErrGameNotActive = errors.New("game is not active")
)

// Opponent returns the other player's mark.
func (m PlayerMark) Opponent() PlayerMark {
	switch m {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return None
	}
}

// Game holds the complete state of one N×N game. It is not safe for
// concurrent use; callers serialise access.
type Game struct {
	size        int
	board       []PlayerMark
	lines       [][]int
	currentTurn PlayerMark
	moveCount   int
	status      Status
	outcome     Outcome
	winner      PlayerMark
	winningLine []int
}

// NewGame starts a game on a size×size board with X to move.
func NewGame(size int) (*Game, error) {
	if size < MinSize {
		return nil, fmt.Errorf("%w: %d (minimum is %d)", ErrInvalidSize, size, MinSize)
	}

	return &Game{
		size:        size,
		board:       make([]PlayerMark, size*size),
		lines:       Lines(size),
		currentTurn: PlayerX,
		status:      StatusActive,
	}, nil
}

// Move places the current player's mark at index. Illegal moves are
// reported as a rejected result and leave the game untouched.
func (g *Game) Move(index int) MoveResult {
	if g.status != StatusActive {
		return rejected(index, ErrGameNotActive)
	}
	if index < 0 || index >= len(g.board) {
		return rejected(index, fmt.Errorf("%w: %d", ErrInvalidCell, index))
	}
	if g.board[index] != None {
		return rejected(index, fmt.Errorf("%w: %d", ErrCellOccupied, index))
	}

	mover := g.currentTurn
	g.board[index] = mover
	g.moveCount++

	if line := winningLine(g.board, g.lines, mover); line != nil {
		g.finish(OutcomeWin, mover)
		g.winningLine = line
		return MoveResult{Kind: MoveWin, Player: mover, Index: index}
	}

	if g.moveCount == len(g.board) {
		g.finish(OutcomeDraw, None)
		return MoveResult{Kind: MoveDraw, Player: mover, Index: index}
	}

	g.currentTurn = mover.Opponent()
	return MoveResult{Kind: MoveAccepted, Player: mover, Index: index}
}

// Withdraw ends the game with OutcomeWithdrawn. It has no effect on a game
// that has already finished.
func (g *Game) Withdraw() {
	if g.status == StatusFinished {
		return
	}
	g.finish(OutcomeWithdrawn, None)
}

// Pause suspends an active game. It reports whether the status changed.
func (g *Game) Pause() bool {
	if g.status != StatusActive {
		return false
	}
	g.status = StatusPaused
	return true
}

// Resume reactivates a paused game. A finished game stays finished.
func (g *Game) Resume() bool {
	if g.status != StatusPaused {
		return false
	}
	g.status = StatusActive
	return true
}

func (g *Game) finish(outcome Outcome, winner PlayerMark) {
	g.status = StatusFinished
	g.outcome = outcome
	g.winner = winner
}

func (g *Game) Size() int               { return g.size }
func (g *Game) CurrentTurn() PlayerMark { return g.currentTurn }
func (g *Game) MoveCount() int          { return g.moveCount }
func (g *Game) Status() Status          { return g.status }
func (g *Game) Outcome() Outcome        { return g.outcome }
func (g *Game) Winner() PlayerMark      { return g.winner }

// IsActive reports whether the game accepts moves.
func (g *Game) IsActive() bool {
	return g.status == StatusActive
}

// IsFinished reports whether the game reached a terminal state.
func (g *Game) IsFinished() bool {
	return g.status == StatusFinished
}

// CellAt returns the mark at index.
func (g *Game) CellAt(index int) (PlayerMark, error) {
	if index < 0 || index >= len(g.board) {
		return None, fmt.Errorf("%w: %d", ErrInvalidCell, index)
	}
	return g.board[index], nil
}

// Board returns a copy of the cells in row-major order.
func (g *Game) Board() []PlayerMark {
	board := make([]PlayerMark, len(g.board))
	copy(board, g.board)
	return board
}

// Rows returns a copy of the board as a slice of rows.
func (g *Game) Rows() [][]PlayerMark {
	rows := make([][]PlayerMark, g.size)
	for r := range rows {
		rows[r] = make([]PlayerMark, g.size)
		copy(rows[r], g.board[r*g.size:(r+1)*g.size])
	}
	return rows
}

// WinningLine returns the indices of the completed line, or nil.
func (g *Game) WinningLine() []int {
	if g.winningLine == nil {
		return nil
	}
	line := make([]int, len(g.winningLine))
	copy(line, g.winningLine)
	return line
}

// Preview returns the mark a move at index would place, if the move is legal.
func (g *Game) Preview(index int) (PlayerMark, bool) {
	if !g.IsActive() || index < 0 || index >= len(g.board) || g.board[index] != None {
		return None, false
	}
	return g.currentTurn, true
}
