package controller

import (
	"context"
	"ctchen222/Grid-Tac-Toe/internal/api/models"
	"ctchen222/Grid-Tac-Toe/internal/api/response"
	"ctchen222/Grid-Tac-Toe/internal/api/service"
	"ctchen222/Grid-Tac-Toe/internal/quote"
	"ctchen222/Grid-Tac-Toe/pkg/proto"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("controller")

// SessionController handles game session HTTP requests.
type SessionController struct {
	sessionService service.SessionService
	defaultSize    int
}

// NewSessionController creates a new SessionController. defaultSize is used
// when a start request names no size.
func NewSessionController(sessionService service.SessionService, defaultSize int) *SessionController {
	return &SessionController{
		sessionService: sessionService,
		defaultSize:    defaultSize,
	}
}

// StartSession handles the new game endpoint.
func (sc *SessionController) StartSession(c *gin.Context) {
	var req models.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	size := sc.defaultSize
	if req.Size != nil {
		size = *req.Size
	}

	ctx, span := tracer.Start(c.Request.Context(), "controller.StartSession", trace.WithAttributes(
		attribute.Int("board.size", size),
	))
	defer span.End()

	state, err := sc.sessionService.Start(ctx, size)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to start session")
		response.ServiceErrorResponse(c, err)
		return
	}

	response.CreatedResponse(c, state)
}

// GetSession returns the current state of a session.
func (sc *SessionController) GetSession(c *gin.Context) {
	state, err := sc.sessionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ServiceErrorResponse(c, err)
		return
	}

	response.SuccessResponse(c, state)
}

// EndSession discards a session.
func (sc *SessionController) EndSession(c *gin.Context) {
	if err := sc.sessionService.End(c.Request.Context(), c.Param("id")); err != nil {
		response.ServiceErrorResponse(c, err)
		return
	}

	response.SuccessResponse(c, gin.H{"message": "Session ended"})
}

// Move handles a move attempt. A rejected move is still a 200: the result
// carries the reason and the state is unchanged.
func (sc *SessionController) Move(c *gin.Context) {
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	id := c.Param("id")
	ctx, span := tracer.Start(c.Request.Context(), "controller.Move", trace.WithAttributes(
		attribute.String("session.id", id),
		attribute.Int("move.index", *req.Index),
	))
	defer span.End()

	state, result, err := sc.sessionService.Move(ctx, id, *req.Index)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to apply move")
		response.ServiceErrorResponse(c, err)
		return
	}

	response.SuccessResponse(c, models.MoveResponse{
		State:  state,
		Result: proto.NewMoveResult(result),
	})
}

// Preview reports which mark a click on the given cell would place.
func (sc *SessionController) Preview(c *gin.Context) {
	var query models.PreviewQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	mark, ok, err := sc.sessionService.Preview(c.Request.Context(), c.Param("id"), *query.Index)
	if err != nil {
		response.ServiceErrorResponse(c, err)
		return
	}

	response.SuccessResponse(c, models.PreviewResponse{Mark: mark, OK: ok})
}

func (sc *SessionController) Withdraw(c *gin.Context) {
	sc.transition(c, "withdraw", sc.sessionService.Withdraw)
}

func (sc *SessionController) Pause(c *gin.Context) {
	sc.transition(c, "pause", sc.sessionService.Pause)
}

func (sc *SessionController) Resume(c *gin.Context) {
	sc.transition(c, "resume", sc.sessionService.Resume)
}

func (sc *SessionController) Restart(c *gin.Context) {
	sc.transition(c, "restart", sc.sessionService.Restart)
}

// Quote returns a random line for the start screen.
func (sc *SessionController) Quote(c *gin.Context) {
	response.SuccessResponse(c, quote.Random())
}

// Quotes returns every start-screen quote.
func (sc *SessionController) Quotes(c *gin.Context) {
	response.SuccessResponse(c, quote.All())
}

type transitionFunc func(ctx context.Context, id string) (proto.GameState, error)

func (sc *SessionController) transition(c *gin.Context, action string, fn transitionFunc) {
	id := c.Param("id")
	state, err := fn(c.Request.Context(), id)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "session action failed", "session.id", id, "action", action, "error", err)
		response.ServiceErrorResponse(c, err)
		return
	}

	response.SuccessResponse(c, state)
}
