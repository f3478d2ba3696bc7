package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/minesboomer/internal/api"
	"github.com/mcoot/minesboomer/internal/api/apierr"
	"github.com/mcoot/minesboomer/internal/api/response"
	"github.com/mcoot/minesboomer/internal/factory"
	"github.com/mcoot/minesboomer/internal/model"
	"github.com/mcoot/minesboomer/internal/protocol"
	"github.com/mcoot/minesboomer/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:      testutil.NopLogger(),
		Sessions:    app.Sessions,
		Connections: app.Hub,
		Results:     app.Storage,
		WebSocket:   app.WSServer,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) saveResult(t *testing.T, id string, finished time.Time) {
	t.Helper()
	require.NoError(t, ts.app.Storage.SaveResult(context.Background(), &model.GameResult{
		ID:         id,
		SessionID:  "session-1",
		Name:       "Alice",
		Difficulty: model.DifficultyEasy,
		WinnerID:   "p2",
		WinnerName: "Bob",
		LoserID:    "p1",
		LoserName:  "Alice",
		Moves:      7,
		StartedAt:  finished.Add(-90 * time.Second),
		FinishedAt: finished,
	}))
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.get("/api/v1/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestListGamesEmpty(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.get("/api/v1/games")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"games":[]}`, rr.Body.String())
}

func TestListGamesShowsPendingSessions(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	_, err := ts.app.Sessions.CreateNamedSession(ctx, "c1", "lunch", "Medium")
	require.NoError(t, err)
	_, err = ts.app.Sessions.CreateNamedSession(ctx, "c2", "dinner", "")
	require.NoError(t, err)

	rr := ts.get("/api/v1/games")
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[response.OpenGames](t, rr)
	require.Len(t, resp.Games, 2)
	assert.Equal(t, "lunch", resp.Games[0].Name)
	assert.Equal(t, "Medium", resp.Games[0].Difficulty)
	assert.Equal(t, "dinner", resp.Games[1].Name)
	assert.Equal(t, "Easy", resp.Games[1].Difficulty)
}

func TestStats(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	_, err := ts.app.Sessions.Identify(ctx, "c1", "Alice")
	require.NoError(t, err)
	_, err = ts.app.Sessions.Identify(ctx, "c2", "Bob")
	require.NoError(t, err)

	rr := ts.get("/api/v1/stats")
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[response.Stats](t, rr)
	assert.Equal(t, 2, resp.Players)
	assert.Equal(t, 1, resp.ActiveSessions)
	assert.Equal(t, 0, resp.OpenSessions)
	assert.Equal(t, 1, resp.GamesStarted)
	assert.Equal(t, 0, resp.Connections)
}

func TestListResults(t *testing.T) {
	ts := newTestServer(t)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	ts.saveResult(t, "r1", base)
	ts.saveResult(t, "r2", base.Add(time.Minute))
	ts.saveResult(t, "r3", base.Add(2*time.Minute))

	rr := ts.get("/api/v1/results")
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[response.Results](t, rr)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, "r3", resp.Results[0].ID)
	assert.Equal(t, "1m30s", resp.Results[0].Duration)

	rr = ts.get("/api/v1/results?limit=2")
	require.Equal(t, http.StatusOK, rr.Code)
	resp = decode[response.Results](t, rr)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "r2", resp.Results[1].ID)
}

func TestListResultsEmpty(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.get("/api/v1/results")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"results":[]}`, rr.Body.String())
}

func TestListResultsRejectsBadLimit(t *testing.T) {
	ts := newTestServer(t)

	for _, limit := range []string{"0", "-3", "many"} {
		rr := ts.get("/api/v1/results?limit=" + limit)
		assert.Equal(t, http.StatusBadRequest, rr.Code, limit)
		assert.Equal(t, apierr.CodeInvalidRequest, decode[apierr.ErrorResponse](t, rr).Error.Code)
	}
}

func TestGetResult(t *testing.T) {
	ts := newTestServer(t)
	ts.saveResult(t, "r1", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	rr := ts.get("/api/v1/results/r1")
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[response.Result](t, rr)
	assert.Equal(t, "Bob", resp.WinnerName)
	assert.Equal(t, "Alice", resp.LoserName)
	assert.Equal(t, 7, resp.Moves)
}

func TestGetResultNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.get("/api/v1/results/missing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeResultNotFound, decode[apierr.ErrorResponse](t, rr).Error.Code)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.get("/api/v1/lobbies")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeNotFound, decode[apierr.ErrorResponse](t, rr).Error.Code)
}

func TestWebSocketThroughRouter(t *testing.T) {
	ts := newTestServer(t)
	srv := httptest.NewServer(ts.handler)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	msg, err := protocol.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, protocol.Simple{Name: protocol.NameIdentify}, msg)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage,
		protocol.MustEncode(protocol.Identification{UserID: "Alice"})))

	assert.Eventually(t, func() bool {
		var resp response.OpenGames
		err := json.Unmarshal(ts.get("/api/v1/games").Body.Bytes(), &resp)
		return err == nil && len(resp.Games) == 1
	}, 2*time.Second, 10*time.Millisecond)

	rr := ts.get("/api/v1/stats")
	assert.Equal(t, 1, decode[response.Stats](t, rr).Connections)
}
