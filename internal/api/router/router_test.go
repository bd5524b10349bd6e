package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fahroediin/resource-tracker/config"
	"github.com/fahroediin/resource-tracker/internal/api/handler"
	"github.com/fahroediin/resource-tracker/internal/api/router"
	"github.com/fahroediin/resource-tracker/internal/model"
	"github.com/fahroediin/resource-tracker/internal/repository"
	"github.com/fahroediin/resource-tracker/internal/service"
	"github.com/fahroediin/resource-tracker/pkg/database"
	"github.com/fahroediin/resource-tracker/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memTokens 进程内黑名单，替代 Redis
type memTokens struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (m *memTokens) BlacklistToken(_ context.Context, jti string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = true
	return nil
}

func (m *memTokens) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[jti], nil
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details string          `json:"details"`
}

type testServer struct {
	engine *gin.Engine
	repo   *repository.Repository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Port: 8080, MaxBodyBytes: 1 << 20},
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			DSNOverride: fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", strings.ReplaceAll(t.Name(), "/", "_")),
		},
		Auth: config.AuthConfig{
			JWTSecret:       "router-test-secret-key-32-bytes!",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: time.Hour,
			BcryptCost:      4,
		},
		Seed:      config.SeedConfig{OnSignIn: true},
		RateLimit: config.RateLimitConfig{AuthLimit: 100, AuthWindow: time.Minute},
	}

	logger := zap.NewNop()
	db, err := database.NewDB(&cfg.Database, "error", logger)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, cfg.Database.Driver, logger, model.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	tokens := &memTokens{revoked: map[string]bool{}}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, tokens, logger)

	engine := router.Setup(cfg, router.Deps{
		Handler: handler.NewHandler(cfg, svc),
		JWT:     jwtMgr,
		Actors:  svc.Auth,
		Tokens:  tokens,
		Logger:  logger,
	})
	return &testServer{engine: engine, repo: repo}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func (s *testServer) signUp(t *testing.T, email string) (token, userID string) {
	t.Helper()
	code, env := s.do(t, "POST", "/api/v1/auth/sign-up", "", map[string]string{
		"email": email, "password": "secret123", "full_name": "Test User",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	var tokens struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tokens))
	return tokens.AccessToken, tokens.User.ID
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(t, "GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestRouter_RequiresAuth(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, "GET", "/api/v1/members", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, 10002, env.Code)
}

func TestRouter_MemberRoleIsReadOnly(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signUp(t, "viewer@company.com")

	// 首次登录写入演示数据
	code, env := s.do(t, "GET", "/api/v1/members", token, nil)
	require.Equal(t, http.StatusOK, code)
	var view struct {
		Rows []struct {
			ID      string `json:"id"`
			CanEdit bool   `json:"can_edit"`
		} `json:"rows"`
		Permissions struct {
			CanAdd bool `json:"can_add"`
		} `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Len(t, view.Rows, 7)
	assert.False(t, view.Permissions.CanAdd)
	memberID := view.Rows[0].ID

	code, _ = s.do(t, "POST", "/api/v1/members", token, map[string]string{"name": "Zed"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(t, "GET", "/api/v1/projects", token, nil)
	require.Equal(t, http.StatusOK, code)
	view.Rows, view.Permissions.CanAdd = nil, true
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.NotEmpty(t, view.Rows)
	assert.False(t, view.Permissions.CanAdd)
	for _, row := range view.Rows {
		assert.False(t, row.CanEdit)
	}

	code, _ = s.do(t, "PUT", "/api/v1/skills/"+memberID, token, map[string]interface{}{"skill": "SQL", "level": 4})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(t, "GET", "/api/v1/users", token, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRouter_EditorFlow(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.signUp(t, "head@company.com")
	require.NoError(t, s.repo.Profile.UpdateRole(context.Background(), userID, model.RoleHead))

	code, env := s.do(t, "POST", "/api/v1/members", token, map[string]string{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Name is required", env.Message)

	code, env = s.do(t, "POST", "/api/v1/members", token, map[string]string{"name": "Zed"})
	require.Equal(t, http.StatusCreated, code, env.Details)
	assert.Equal(t, "Member added", env.Message)

	code, env = s.do(t, "GET", "/api/v1/dashboard", token, nil)
	require.Equal(t, http.StatusOK, code)
	var dash struct {
		Stats struct {
			TeamSize int `json:"team_size"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	assert.Equal(t, 8, dash.Stats.TeamSize)

	// head 可查看用户列表，但不能修改角色
	code, _ = s.do(t, "GET", "/api/v1/users", token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(t, "PUT", "/api/v1/users/"+userID+"/role", token, map[string]string{"role": "admin"})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRouter_CalendarRouteBeforeProjectID(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signUp(t, "cal@company.com")

	req := httptest.NewRequest("GET", "/api/v1/projects/calendar.ics", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SUMMARY:Core Banking Revamp")
}

func TestRouter_SignOutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signUp(t, "bye@company.com")

	code, _ := s.do(t, "GET", "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, "POST", "/api/v1/auth/sign-out", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, "GET", "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
