package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/checkpoint-chat/relay/internal/auth"
	"github.com/checkpoint-chat/relay/internal/config"
	"github.com/checkpoint-chat/relay/internal/domain"
	"github.com/checkpoint-chat/relay/internal/relay"
	"github.com/checkpoint-chat/relay/internal/store"
)

type stubConn struct{}

func (stubConn) TrySend([]byte) error { return nil }
func (stubConn) Close()               {}

func setupTestServer(t *testing.T) (*gin.Engine, *relay.Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.Open(":memory:")
	require.NoError(t, err)

	cfg := &config.Config{
		Mode:         "test",
		StaticPath:   t.TempDir(),
		Secret:       "test-session-secret",
		CORSOrigin:   "http://localhost:5173",
		ReadLimit:    32768,
		SendBuffer:   8,
		DefaultRoom:  "general",
		HistoryLimit: 50,
	}

	hub := relay.NewHub()
	rooms := store.NewRoomRepository(db)
	router := &relay.Router{
		Hub:         hub,
		Broadcast:   &relay.Broadcaster{Hub: hub},
		Directory:   rooms,
		DefaultRoom: domain.RoomName(cfg.DefaultRoom),
	}

	api := &API{
		Users:    store.NewUserRepository(db),
		Rooms:    rooms,
		Messages: store.NewMessageRepository(db),
		Tokens:   auth.NewTokenManager("test-jwt-secret"),
		Hub:      hub,
		Cfg:      cfg,
	}
	ws := &WSController{Router: router, Hub: hub, Cfg: cfg}

	return SetupRouter(context.Background(), cfg, api, ws), hub
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterAndLogin(t *testing.T) {
	r, _ := setupTestServer(t)

	registerUser(t, r, "alice")

	// Duplicate registration.
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"username": "alice", "email": "alice@example.com", "password": "password123",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// Bad username.
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"username": "not a name!", "email": "x@example.com", "password": "password123",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Login by username and by email.
	for _, identifier := range []string{"alice", "alice@example.com"} {
		w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
			"identifier": identifier, "password": "password123",
		}, "")
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"identifier": "alice", "password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoomEndpoints(t *testing.T) {
	r, _ := setupTestServer(t)
	token := registerUser(t, r, "alice")

	// Creating a room requires auth.
	w := doJSON(t, r, http.MethodPost, "/api/rooms", gin.H{"name": "general"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/rooms", gin.H{"name": "general"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/rooms", gin.H{"name": "general"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/rooms", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data []struct {
			Name        string `json:"name"`
			MemberCount int    `json:"memberCount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "general", list.Data[0].Name)
	assert.Equal(t, 0, list.Data[0].MemberCount)

	w = doJSON(t, r, http.MethodGet, "/api/rooms/general", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/rooms/general/messages", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/rooms/general", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/rooms/general", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatsReflectsLiveHub(t *testing.T) {
	r, hub := setupTestServer(t)

	alice := relay.NewClient("a", stubConn{})
	bob := relay.NewClient("b", stubConn{})
	hub.Register(alice)
	hub.Register(bob)
	hub.Join(alice, "alice", "general")
	hub.Join(bob, "bob", "random")

	w := doJSON(t, r, http.MethodGet, "/api/stats", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			ActiveRooms []string `json:"activeRooms"`
			UserCount   int      `json:"userCount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []string{"general", "random"}, resp.Data.ActiveRooms)
	assert.Equal(t, 2, resp.Data.UserCount)
}
