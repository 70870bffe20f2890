package controller

import (
	"ctchen222/Grid-Tac-Toe/internal/api/response"
	"ctchen222/Grid-Tac-Toe/internal/api/service/mocks"
	"ctchen222/Grid-Tac-Toe/internal/game"
	"ctchen222/Grid-Tac-Toe/internal/session"
	"ctchen222/Grid-Tac-Toe/pkg/proto"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestRouter(t *testing.T) (*gin.Engine, *mocks.MockSessionService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := mocks.NewMockSessionService(gomock.NewController(t))
	sc := NewSessionController(svc, 3)

	r := gin.New()
	r.GET("/api/quote", sc.Quote)
	r.GET("/api/quotes", sc.Quotes)
	r.POST("/api/sessions", sc.StartSession)
	r.GET("/api/sessions/:id", sc.GetSession)
	r.DELETE("/api/sessions/:id", sc.EndSession)
	r.POST("/api/sessions/:id/moves", sc.Move)
	r.GET("/api/sessions/:id/preview", sc.Preview)
	r.POST("/api/sessions/:id/withdraw", sc.Withdraw)
	r.POST("/api/sessions/:id/pause", sc.Pause)
	r.POST("/api/sessions/:id/resume", sc.Resume)
	r.POST("/api/sessions/:id/restart", sc.Restart)
	return r, svc
}

func doRequest(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeExtras unmarshals the extras field of a response envelope into v.
func decodeExtras(t *testing.T, w *httptest.ResponseRecorder, v any) response.Response {
	t.Helper()

	var envelope struct {
		response.Response
		Extras json.RawMessage `json:"extras"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	if v != nil {
		require.NoError(t, json.Unmarshal(envelope.Extras, v))
	}
	return envelope.Response
}

func newState(id string) proto.GameState {
	return proto.GameState{
		SessionID: id,
		Size:      3,
		Board:     make([]game.PlayerMark, 9),
		Next:      game.PlayerX,
		Status:    game.StatusActive,
	}
}

func TestSessionController_StartSession(t *testing.T) {
	t.Run("creates a session", func(t *testing.T) {
		// Given: the service accepts size 3
		r, svc := newTestRouter(t)
		svc.EXPECT().Start(gomock.Any(), 3).Return(newState("s1"), nil)

		// When: a session is requested
		w := doRequest(r, http.MethodPost, "/api/sessions", `{"size":3}`)

		// Then: the new state comes back with 201
		assert.Equal(t, http.StatusCreated, w.Code)
		var state proto.GameState
		resp := decodeExtras(t, w, &state)
		assert.True(t, resp.Success)
		assert.Equal(t, "s1", state.SessionID)
		assert.Equal(t, game.PlayerX, state.Next)
	})

	t.Run("falls back to the default size", func(t *testing.T) {
		r, svc := newTestRouter(t)
		svc.EXPECT().Start(gomock.Any(), 3).Return(newState("s2"), nil)

		w := doRequest(r, http.MethodPost, "/api/sessions", `{}`)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("rejects a size below two before reaching the service", func(t *testing.T) {
		r, _ := newTestRouter(t)

		for _, body := range []string{`{"size":1}`, `{"size":0}`, `{"size":-4}`, `not json`} {
			w := doRequest(r, http.MethodPost, "/api/sessions", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, body)
		}
	})

	t.Run("maps a size above the maximum to 400", func(t *testing.T) {
		r, svc := newTestRouter(t)
		svc.EXPECT().Start(gomock.Any(), 50).
			Return(proto.GameState{}, fmt.Errorf("%w: 50 (maximum is 10)", game.ErrInvalidSize))

		w := doRequest(r, http.MethodPost, "/api/sessions", `{"size":50}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeExtras(t, w, nil)
		assert.False(t, resp.Success)
		assert.Contains(t, w.Body.String(), "maximum is 10")
	})
}

func TestSessionController_GetSession(t *testing.T) {
	r, svc := newTestRouter(t)
	svc.EXPECT().Get(gomock.Any(), "s1").Return(newState("s1"), nil)
	svc.EXPECT().Get(gomock.Any(), "missing").
		Return(proto.GameState{}, fmt.Errorf("%w: missing", session.ErrSessionNotFound))

	w := doRequest(r, http.MethodGet, "/api/sessions/s1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/api/sessions/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionController_EndSession(t *testing.T) {
	r, svc := newTestRouter(t)
	svc.EXPECT().End(gomock.Any(), "s1").Return(nil)

	w := doRequest(r, http.MethodDelete, "/api/sessions/s1", "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionController_Move(t *testing.T) {
	t.Run("accepted move", func(t *testing.T) {
		r, svc := newTestRouter(t)
		state := newState("s1")
		state.Board[4] = game.PlayerX
		state.Next = game.PlayerO
		svc.EXPECT().Move(gomock.Any(), "s1", 4).
			Return(state, game.MoveResult{Kind: game.MoveAccepted, Player: game.PlayerX, Index: 4}, nil)

		w := doRequest(r, http.MethodPost, "/api/sessions/s1/moves", `{"index":4}`)

		assert.Equal(t, http.StatusOK, w.Code)
		var body struct {
			State  proto.GameState  `json:"state"`
			Result proto.MoveResult `json:"result"`
		}
		decodeExtras(t, w, &body)
		assert.Equal(t, game.MoveAccepted, body.Result.Kind)
		assert.Equal(t, game.PlayerO, body.State.Next)
	})

	t.Run("index zero is a valid request", func(t *testing.T) {
		r, svc := newTestRouter(t)
		svc.EXPECT().Move(gomock.Any(), "s1", 0).
			Return(newState("s1"), game.MoveResult{Kind: game.MoveAccepted, Player: game.PlayerX, Index: 0}, nil)

		w := doRequest(r, http.MethodPost, "/api/sessions/s1/moves", `{"index":0}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejected move is reported in the result", func(t *testing.T) {
		r, svc := newTestRouter(t)
		svc.EXPECT().Move(gomock.Any(), "s1", 4).
			Return(newState("s1"), game.MoveResult{
				Kind:   game.MoveRejected,
				Index:  4,
				Reason: fmt.Errorf("%w: 4", game.ErrCellOccupied),
			}, nil)

		w := doRequest(r, http.MethodPost, "/api/sessions/s1/moves", `{"index":4}`)

		assert.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Result proto.MoveResult `json:"result"`
		}
		decodeExtras(t, w, &body)
		assert.Equal(t, game.MoveRejected, body.Result.Kind)
		assert.Equal(t, "cell already occupied: 4", body.Result.Reason)
	})

	t.Run("missing index", func(t *testing.T) {
		r, _ := newTestRouter(t)

		w := doRequest(r, http.MethodPost, "/api/sessions/s1/moves", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		r, svc := newTestRouter(t)
		svc.EXPECT().Move(gomock.Any(), "nope", 1).
			Return(proto.GameState{}, game.MoveResult{}, session.ErrSessionNotFound)

		w := doRequest(r, http.MethodPost, "/api/sessions/nope/moves", `{"index":1}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSessionController_Preview(t *testing.T) {
	r, svc := newTestRouter(t)
	svc.EXPECT().Preview(gomock.Any(), "s1", 2).Return(game.PlayerO, true, nil)

	w := doRequest(r, http.MethodGet, "/api/sessions/s1/preview?index=2", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Mark game.PlayerMark `json:"mark"`
		OK   bool            `json:"ok"`
	}
	decodeExtras(t, w, &body)
	assert.Equal(t, game.PlayerO, body.Mark)
	assert.True(t, body.OK)

	w = doRequest(r, http.MethodGet, "/api/sessions/s1/preview", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionController_Transitions(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		expect func(svc *mocks.MockSessionService) *gomock.Call
	}{
		{
			name:   "withdraw",
			path:   "/api/sessions/s1/withdraw",
			expect: func(svc *mocks.MockSessionService) *gomock.Call { return svc.EXPECT().Withdraw(gomock.Any(), "s1") },
		},
		{
			name:   "pause",
			path:   "/api/sessions/s1/pause",
			expect: func(svc *mocks.MockSessionService) *gomock.Call { return svc.EXPECT().Pause(gomock.Any(), "s1") },
		},
		{
			name:   "resume",
			path:   "/api/sessions/s1/resume",
			expect: func(svc *mocks.MockSessionService) *gomock.Call { return svc.EXPECT().Resume(gomock.Any(), "s1") },
		},
		{
			name:   "restart",
			path:   "/api/sessions/s1/restart",
			expect: func(svc *mocks.MockSessionService) *gomock.Call { return svc.EXPECT().Restart(gomock.Any(), "s1") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, svc := newTestRouter(t)
			tt.expect(svc).Return(newState("s1"), nil)

			w := doRequest(r, http.MethodPost, tt.path, "")

			assert.Equal(t, http.StatusOK, w.Code)
		})

		t.Run(tt.name+" unknown session", func(t *testing.T) {
			r, svc := newTestRouter(t)
			tt.expect(svc).Return(proto.GameState{}, session.ErrSessionNotFound)

			w := doRequest(r, http.MethodPost, tt.path, "")

			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}

func TestSessionController_Quote(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/quote", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var q struct {
		Text   string `json:"text"`
		Author string `json:"author"`
	}
	decodeExtras(t, w, &q)
	assert.NotEmpty(t, q.Text)
	assert.NotEmpty(t, q.Author)
}

func TestSessionController_Quotes(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/quotes", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var quotes []struct {
		Text   string `json:"text"`
		Author string `json:"author"`
	}
	decodeExtras(t, w, &quotes)
	assert.Len(t, quotes, 8)
	assert.Equal(t, "Max Euwe", quotes[0].Author)
}
