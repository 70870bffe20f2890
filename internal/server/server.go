package server

import (
	"ctchen222/Grid-Tac-Toe/internal/api/controller"
	"ctchen222/Grid-Tac-Toe/internal/api/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("server")

// Options configures the HTTP surface.
type Options struct {
	WebDir           string
	DefaultBoardSize int
	// PongWait is how long a socket may stay silent, pongs included, before
	// it is dropped. Zero disables the read deadline.
	PongWait time.Duration
}

type Server struct {
	engine         *gin.Engine
	sessionService service.SessionService
	upgrader       websocket.Upgrader
	pongWait       time.Duration
}

// NewServer wires the HTTP routes, the WebSocket endpoint and the static
// page under opts.WebDir.
func NewServer(sessionService service.SessionService, opts Options) *Server {
	s := &Server{
		engine:         gin.New(),
		sessionService: sessionService,
		pongWait:       opts.PongWait,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.engine.Use(gin.Recovery())
	s.registerHandlers(controller.NewSessionController(sessionService, opts.DefaultBoardSize), opts.WebDir)
	return s
}

// Engine exposes the router for http.Server.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerHandlers(sc *controller.SessionController, webDir string) {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/ws", s.handleWebSocket)

	api := s.engine.Group("/api")
	api.GET("/quote", sc.Quote)
	api.GET("/quotes", sc.Quotes)

	sessions := api.Group("/sessions")
	sessions.POST("", sc.StartSession)
	sessions.GET("/:id", sc.GetSession)
	sessions.DELETE("/:id", sc.EndSession)
	sessions.POST("/:id/moves", sc.Move)
	sessions.GET("/:id/preview", sc.Preview)
	sessions.POST("/:id/withdraw", sc.Withdraw)
	sessions.POST("/:id/pause", sc.Pause)
	sessions.POST("/:id/resume", sc.Resume)
	sessions.POST("/:id/restart", sc.Restart)

	s.engine.NoRoute(gin.WrapH(http.FileServer(http.Dir(webDir))))
}
