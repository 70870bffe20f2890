package models

import (
	"ctchen222/Grid-Tac-Toe/internal/game"
	"ctchen222/Grid-Tac-Toe/pkg/proto"
)

// StartSessionRequest defines the structure for starting a new game. A
// missing size falls back to the configured default.
type StartSessionRequest struct {
	Size *int `json:"size" binding:"omitempty,min=2"`
}

// MoveRequest defines the structure for a move. Index is a pointer so that
// cell 0 is distinguishable from a missing field.
type MoveRequest struct {
	Index *int `json:"index" binding:"required"`
}

// PreviewQuery is bound from the query string of a preview request.
type PreviewQuery struct {
	Index *int `form:"index" binding:"required"`
}

// MoveResponse defines the structure returned after a move attempt.
type MoveResponse struct {
	State  proto.GameState  `json:"state"`
	Result proto.MoveResult `json:"result"`
}

// PreviewResponse tells the page which mark to ghost into a hovered cell.
type PreviewResponse struct {
	Mark game.PlayerMark `json:"mark"`
	OK   bool            `json:"ok"`
}
