package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dream-journal/confs"
	"dream-journal/db"
	"dream-journal/entities"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestServer(t *testing.T) (*Server, db.Database) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(&entities.User{}, &entities.Dream{}, &entities.Interpretation{}))

	database := &db.GormDatabase{DB: gdb}
	cfg := &confs.Config{
		Env:       "test",
		Port:      "0",
		JWTSecret: "test-secret",
		JWTExpire: time.Hour,
	}
	return NewServer(database, cfg), database
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)

	var parsed map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func registerUser(t *testing.T, s *Server, username, email string) string {
	t.Helper()
	w, resp := doJSON(t, s, "POST", "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "s3cret",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func makeAdmin(t *testing.T, database db.Database, email string) {
	t.Helper()
	err := database.GetDB().Model(&entities.User{}).Where("email = ?", email).Update("role", entities.RoleAdmin).Error
	require.NoError(t, err)
}

func sampleDream() map[string]any {
	return map[string]any{
		"title":       "Flying Dream",
		"description": "Soaring high",
		"emotions":    []string{"joy"},
		"type":        "adventure",
		"lucid":       false,
		"rating":      4,
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	w, resp := doJSON(t, s, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", resp["status"])
}

func TestRegisterAndLogin(t *testing.T) {
	s, _ := newTestServer(t)

	w, resp := doJSON(t, s, "POST", "/api/v1/auth/register", "", map[string]string{
		"username": "mira", "email": "mira@example.com", "password": "s3cret",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, resp["success"])
	user := resp["user"].(map[string]any)
	assert.Equal(t, "mira", user["username"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")

	// Registering twice with the same email conflicts.
	w, resp = doJSON(t, s, "POST", "/api/v1/auth/register", "", map[string]string{
		"username": "other", "email": "mira@example.com", "password": "different",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "email already exists", resp["error"])

	w, resp = doJSON(t, s, "POST", "/api/v1/auth/login", "", map[string]string{
		"email": "mira@example.com", "password": "s3cret",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, resp["token"])

	w, _ = doJSON(t, s, "POST", "/api/v1/auth/login", "", map[string]string{
		"email": "mira@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeRequiresToken(t *testing.T) {
	s, _ := newTestServer(t)
	token := registerUser(t, s, "mira", "mira@example.com")

	w, resp := doJSON(t, s, "GET", "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	user := resp["user"].(map[string]any)
	assert.Equal(t, "mira@example.com", user["email"])

	w, _ = doJSON(t, s, "GET", "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, s, "GET", "/api/v1/auth/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// A valid token whose user has been deleted is rejected instead of
// proceeding with a stale identity.
func TestDeletedUserTokenFailsClosed(t *testing.T) {
	s, database := newTestServer(t)
	token := registerUser(t, s, "mira", "mira@example.com")

	err := database.GetDB().Where("email = ?", "mira@example.com").Delete(&entities.User{}).Error
	require.NoError(t, err)

	w, _ := doJSON(t, s, "GET", "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutExpiresCookie(t *testing.T) {
	s, _ := newTestServer(t)
	token := registerUser(t, s, "mira", "mira@example.com")

	w, resp := doJSON(t, s, "GET", "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "token", cookies[0].Name)
	assert.Equal(t, "none", cookies[0].Value)
}

func TestDreamLifecycle(t *testing.T) {
	s, _ := newTestServer(t)
	tokenA := registerUser(t, s, "alice", "alice@example.com")
	tokenB := registerUser(t, s, "bob", "bob@example.com")

	// Create as A, fields echoed back.
	w, resp := doJSON(t, s, "POST", "/api/v1/dreams", tokenA, sampleDream())
	require.Equal(t, http.StatusCreated, w.Code)
	data := resp["data"].(map[string]any)
	dreamID := data["id"].(string)
	assert.Equal(t, "Flying Dream", data["title"])
	assert.Equal(t, "Soaring high", data["description"])
	assert.EqualValues(t, 4, data["rating"])
	assert.NotEmpty(t, data["date"])

	// Visible to A.
	w, _ = doJSON(t, s, "GET", "/api/v1/dreams/"+dreamID, tokenA, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Invisible to B: 404 on get, 401 on update/delete.
	w, _ = doJSON(t, s, "GET", "/api/v1/dreams/"+dreamID, tokenB, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(t, s, "PUT", "/api/v1/dreams/"+dreamID, tokenB, map[string]any{"title": "stolen"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, s, "DELETE", "/api/v1/dreams/"+dreamID, tokenB, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Update applies only allow-listed fields; owner cannot be reassigned.
	w, resp = doJSON(t, s, "PUT", "/api/v1/dreams/"+dreamID, tokenA, map[string]any{
		"title":   "Night Flight",
		"lucid":   true,
		"user_id": "bob",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data = resp["data"].(map[string]any)
	assert.Equal(t, "Night Flight", data["title"])
	assert.Equal(t, true, data["lucid"])

	w, _ = doJSON(t, s, "GET", "/api/v1/dreams/"+dreamID, tokenA, nil)
	assert.Equal(t, http.StatusOK, w.Code, "owner unchanged after update attempt")

	// Delete as owner.
	w, _ = doJSON(t, s, "DELETE", "/api/v1/dreams/"+dreamID, tokenA, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, s, "GET", "/api/v1/dreams/"+dreamID, tokenA, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDreamValidationOverHTTP(t *testing.T) {
	s, _ := newTestServer(t)
	token := registerUser(t, s, "mira", "mira@example.com")

	bad := sampleDream()
	bad["emotions"] = []string{}
	w, resp := doJSON(t, s, "POST", "/api/v1/dreams", token, bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, resp["success"])

	bad = sampleDream()
	bad["type"] = "spooky"
	w, _ = doJSON(t, s, "POST", "/api/v1/dreams", token, bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDreamListPagination(t *testing.T) {
	s, _ := newTestServer(t)
	token := registerUser(t, s, "mira", "mira@example.com")

	for i := 0; i < 5; i++ {
		d := sampleDream()
		d["title"] = fmt.Sprintf("dream %d", i)
		w, _ := doJSON(t, s, "POST", "/api/v1/dreams", token, d)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, resp := doJSON(t, s, "GET", "/api/v1/dreams?page=1&limit=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, resp["count"])
	assert.Len(t, resp["data"].([]any), 2)

	pagination := resp["pagination"].(map[string]any)
	next := pagination["next"].(map[string]any)
	assert.EqualValues(t, 2, next["page"])
	assert.EqualValues(t, 2, next["limit"])
	assert.NotContains(t, pagination, "prev")

	w, resp = doJSON(t, s, "GET", "/api/v1/dreams?page=3&limit=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	pagination = resp["pagination"].(map[string]any)
	assert.NotContains(t, pagination, "next")
	assert.Contains(t, pagination, "prev")
}

func TestDreamListFilterOverHTTP(t *testing.T) {
	s, _ := newTestServer(t)
	token := registerUser(t, s, "mira", "mira@example.com")

	high := sampleDream()
	high["rating"] = 5
	low := sampleDream()
	low["rating"] = 2
	for _, d := range []map[string]any{high, low} {
		w, _ := doJSON(t, s, "POST", "/api/v1/dreams", token, d)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, resp := doJSON(t, s, "GET", "/api/v1/dreams?rating_gte=4", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, resp["count"])

	// Numeric-looking values on text columns filter as strings and never
	// produce a server error.
	w, resp = doJSON(t, s, "GET", "/api/v1/dreams?title=123", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, resp["count"])
}

func TestDreamStatsOverHTTP(t *testing.T) {
	s, _ := newTestServer(t)
	token := registerUser(t, s, "mira", "mira@example.com")

	// Empty stats first.
	w, resp := doJSON(t, s, "GET", "/api/v1/dreams/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]any)
	assert.EqualValues(t, 0, data["totalDreams"])
	assert.EqualValues(t, 0, data["avgRating"])
	assert.EqualValues(t, 0, data["lucidPercentage"])
	assert.Nil(t, data["mostCommonEmotion"])

	lucid := sampleDream()
	lucid["lucid"] = true
	lucid["emotions"] = []string{"joy", "fear"}
	w, _ = doJSON(t, s, "POST", "/api/v1/dreams", token, lucid)
	require.Equal(t, http.StatusCreated, w.Code)

	plain := sampleDream()
	plain["rating"] = 5
	plain["emotions"] = []string{"fear"}
	w, _ = doJSON(t, s, "POST", "/api/v1/dreams", token, plain)
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp = doJSON(t, s, "GET", "/api/v1/dreams/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = resp["data"].(map[string]any)
	assert.EqualValues(t, 2, data["totalDreams"])
	assert.InDelta(t, 4.5, data["avgRating"].(float64), 0.001)
	assert.InDelta(t, 50.0, data["lucidPercentage"].(float64), 0.001)
	assert.Equal(t, "fear", data["mostCommonEmotion"])
}

func TestInterpretationRoutes(t *testing.T) {
	s, database := newTestServer(t)
	userToken := registerUser(t, s, "mira", "mira@example.com")
	adminToken := registerUser(t, s, "root", "root@example.com")
	makeAdmin(t, database, "root@example.com")

	// Empty table: random is a 404.
	w, _ := doJSON(t, s, "GET", "/api/v1/interpretations/random", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Only admins may create.
	interpretation := map[string]string{
		"keyword": "flying", "meaning": "freedom", "cultural_origin": "Western",
	}
	w, _ = doJSON(t, s, "POST", "/api/v1/interpretations", userToken, interpretation)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, s, "POST", "/api/v1/interpretations", adminToken, interpretation)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Duplicate keyword conflicts.
	w, _ = doJSON(t, s, "POST", "/api/v1/interpretations", adminToken, interpretation)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Random lookup is public.
	w, resp := doJSON(t, s, "GET", "/api/v1/interpretations/random?keyword=FLY", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "flying", data["keyword"])

	// Listing is admin-only.
	w, _ = doJSON(t, s, "GET", "/api/v1/interpretations", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp = doJSON(t, s, "GET", "/api/v1/interpretations", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, resp["count"])
}

func TestWebsocketClientsRoute(t *testing.T) {
	s, database := newTestServer(t)
	userToken := registerUser(t, s, "mira", "mira@example.com")
	adminToken := registerUser(t, s, "root", "root@example.com")
	makeAdmin(t, database, "root@example.com")

	w, _ := doJSON(t, s, "GET", "/api/v1/ws/clients", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, resp := doJSON(t, s, "GET", "/api/v1/ws/clients", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, resp["count"])

	srv := httptest.NewServer(s.Engine())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + userToken
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the server a moment to register the connection.
	time.Sleep(100 * time.Millisecond)

	w, resp = doJSON(t, s, "GET", "/api/v1/ws/clients", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, resp["count"])
	require.Len(t, resp["data"].([]any), 1)
}

func TestWebsocketEventFeed(t *testing.T) {
	s, _ := newTestServer(t)
	token := registerUser(t, s, "mira", "mira@example.com")

	srv := httptest.NewServer(s.Engine())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the server a moment to register the connection.
	time.Sleep(100 * time.Millisecond)

	client := srv.Client()
	raw, err := json.Marshal(sampleDream())
	require.NoError(t, err)
	req, err := http.NewRequest("POST", srv.URL+"/api/v1/dreams", bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	httpResp, err := client.Do(req)
	require.NoError(t, err)
	httpResp.Body.Close()
	require.Equal(t, http.StatusCreated, httpResp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var event map[string]any
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, "created", event["action"])
	assert.NotEmpty(t, event["dream_id"])

	// Missing token is rejected before upgrade.
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
