package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/futig/resource-assistant/internal/api/middleware"
	"github.com/futig/resource-assistant/internal/config"
	"github.com/futig/resource-assistant/internal/entity"
	pkgRetry "github.com/futig/resource-assistant/internal/pkg/retry"
	"github.com/futig/resource-assistant/internal/pkg/validator"
	"github.com/futig/resource-assistant/internal/repository"
	chatUC "github.com/futig/resource-assistant/internal/usecase/chat"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const noPlanReply = "You haven't started an action plan yet. Add a few steps to begin tracking your progress."

type testEnv struct {
	router http.Handler
	hub    *Hub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	return newLimitedTestEnv(t, 10)
}

func newLimitedTestEnv(t *testing.T, perMinute int) *testEnv {
	t.Helper()

	db, err := repository.OpenSQLite(context.Background(), config.SQLiteConfig{
		Path:         filepath.Join(t.TempDir(), "chat.db"),
		MaxOpenConns: 1,
		BusyTimeout:  time.Second,
		Retry:        pkgRetry.RetryConfig{Attempts: 3, Delay: time.Millisecond, MaxDelay: 5 * time.Millisecond},
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	uc := chatUC.NewUsecase(repository.NewActionStepSQLite(db), repository.NewChatMessageSQLite(db), zap.NewNop())
	v := validator.New()
	hub := NewHub()
	limiter := middleware.NewUserLimiter(perMinute)

	r := chi.NewRouter()
	r.Use(middleware.Identity("default"))
	RegisterRoutes(r, NewHandler(uc, v, hub, limiter))
	RegisterSocketRoutes(r, NewWebSocketHandler(uc, v, hub, limiter, []string{"*"}))

	return &testEnv{router: r, hub: hub}
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	return doAs(t, h, "alice", method, target, body)
}

func doAs(t *testing.T, h http.Handler, userID, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.UserIDHeader, userID)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSendAndListMessages(t *testing.T) {
	env := newTestEnv(t)

	rec := do(t, env.router, http.MethodGet, "/api/chat/messages", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"messages":[]}`, rec.Body.String())

	rec = do(t, env.router, http.MethodPost, "/api/chat/messages", `{"message":"how is my progress?"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var exchange entity.ChatExchange
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exchange))
	assert.Equal(t, "how is my progress?", exchange.UserMessage.Content)
	assert.False(t, exchange.UserMessage.IsBot)
	assert.Equal(t, noPlanReply, exchange.BotMessage.Content)
	assert.True(t, exchange.BotMessage.IsBot)

	rec = do(t, env.router, http.MethodGet, "/api/chat/messages?limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var history entity.ChatHistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history.Messages, 1)
	assert.True(t, history.Messages[0].IsBot)
}

func TestSendMessageValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := do(t, env.router, http.MethodPost, "/api/chat/messages", `{"message":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, env.router, http.MethodPost, "/api/chat/messages", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, env.router, http.MethodGet, "/api/chat/messages?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMessageRateLimited(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 10; i++ {
		rec := do(t, env.router, http.MethodPost, "/api/chat/messages", `{"message":"help"}`)
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}

	rec := do(t, env.router, http.MethodPost, "/api/chat/messages", `{"message":"help"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"Too many requests, please try again later."}`, rec.Body.String())

	// History reads and other users are not throttled.
	rec = do(t, env.router, http.MethodGet, "/api/chat/messages", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doAs(t, env.router, "bob", http.MethodPost, "/api/chat/messages", `{"message":"help"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSendMessageTooLong(t *testing.T) {
	env := newTestEnv(t)

	body, err := json.Marshal(entity.SendMessageRequest{Message: strings.Repeat("a", validator.MaxMessageLength+1)})
	require.NoError(t, err)

	rec := do(t, env.router, http.MethodPost, "/api/chat/messages", string(body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func dial(t *testing.T, ctx context.Context, server *httptest.Server, userID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/chat?user_id=" + userID
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })

	return conn
}

func readEvent(t *testing.T, ctx context.Context, conn *websocket.Conn) map[string]any {
	t.Helper()

	var env map[string]any
	require.NoError(t, wsjson.Read(ctx, conn, &env))
	return env
}

func TestChatSocketBroadcastStaysWithUser(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(env.router)
	t.Cleanup(server.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sender := dial(t, ctx, server, "alice")
	otherTab := dial(t, ctx, server, "alice")
	stranger := dial(t, ctx, server, "bob")
	require.Eventually(t, func() bool { return env.hub.Count() == 3 }, 2*time.Second, 10*time.Millisecond)

	err := wsjson.Write(ctx, sender, map[string]any{
		"event": entity.EventSendMessage,
		"data":  map[string]string{"message": "show my progress"},
	})
	require.NoError(t, err)

	for _, conn := range []*websocket.Conn{sender, otherTab} {
		first := readEvent(t, ctx, conn)
		assert.Equal(t, entity.EventReceiveMessage, first["event"])
		assert.Equal(t, map[string]any{"message": "show my progress", "is_bot": false}, first["data"])

		second := readEvent(t, ctx, conn)
		assert.Equal(t, entity.EventReceiveMessage, second["event"])
		assert.Equal(t, map[string]any{"message": noPlanReply, "is_bot": true}, second["data"])
	}

	quietCtx, quietCancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer quietCancel()
	var leaked map[string]any
	assert.Error(t, wsjson.Read(quietCtx, stranger, &leaked), "bob received %v", leaked)
}

func TestHTTPMessageReachesOwnSocketsOnly(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(env.router)
	t.Cleanup(server.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	own := dial(t, ctx, server, "alice")
	stranger := dial(t, ctx, server, "bob")
	require.Eventually(t, func() bool { return env.hub.Count() == 2 }, 2*time.Second, 10*time.Millisecond)

	rec := do(t, env.router, http.MethodPost, "/api/chat/messages", `{"message":"help"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	got := readEvent(t, ctx, own)
	assert.Equal(t, entity.EventReceiveMessage, got["event"])

	quietCtx, quietCancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer quietCancel()
	var leaked map[string]any
	assert.Error(t, wsjson.Read(quietCtx, stranger, &leaked), "bob received %v", leaked)
}

func TestChatSocketErrorsGoToSender(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(env.router)
	t.Cleanup(server.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, server, "alice")

	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("not json")))
	got := readEvent(t, ctx, conn)
	assert.Equal(t, entity.EventError, got["event"])

	require.NoError(t, wsjson.Write(ctx, conn, map[string]any{"event": "typing", "data": map[string]string{}}))
	got = readEvent(t, ctx, conn)
	assert.Equal(t, entity.EventError, got["event"])

	require.NoError(t, wsjson.Write(ctx, conn, map[string]any{
		"event": entity.EventSendMessage,
		"data":  map[string]string{"message": ""},
	}))
	got = readEvent(t, ctx, conn)
	assert.Equal(t, entity.EventError, got["event"])

	// The connection stays usable after errors.
	require.NoError(t, wsjson.Write(ctx, conn, map[string]any{
		"event": entity.EventSendMessage,
		"data":  map[string]string{"message": "help"},
	}))
	got = readEvent(t, ctx, conn)
	assert.Equal(t, entity.EventReceiveMessage, got["event"])
}

func TestChatSocketRateLimited(t *testing.T) {
	env := newLimitedTestEnv(t, 2)
	server := httptest.NewServer(env.router)
	t.Cleanup(server.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, server, "alice")
	require.Eventually(t, func() bool { return env.hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	// HTTP and the socket draw from the same budget.
	rec := do(t, env.router, http.MethodPost, "/api/chat/messages", `{"message":"help"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	for i := 0; i < 2; i++ {
		assert.Equal(t, entity.EventReceiveMessage, readEvent(t, ctx, conn)["event"])
	}

	send := func() {
		require.NoError(t, wsjson.Write(ctx, conn, map[string]any{
			"event": entity.EventSendMessage,
			"data":  map[string]string{"message": "help"},
		}))
	}

	send()
	for i := 0; i < 2; i++ {
		assert.Equal(t, entity.EventReceiveMessage, readEvent(t, ctx, conn)["event"])
	}

	send()
	got := readEvent(t, ctx, conn)
	assert.Equal(t, entity.EventError, got["event"])
	assert.Equal(t, map[string]any{"message": "Too many requests, please try again later."}, got["data"])
}

func TestHubUnregisterOnDisconnect(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(env.router)
	t.Cleanup(server.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, server, "alice")
	require.Eventually(t, func() bool { return env.hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, "bye"))
	assert.Eventually(t, func() bool { return env.hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}
