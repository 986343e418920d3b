package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	authservice "github.com/orghub/orghub/internal/auth/service"
	"github.com/orghub/orghub/internal/clock"
	"github.com/orghub/orghub/internal/config"
	"github.com/orghub/orghub/internal/tokenstore"
	userdomain "github.com/orghub/orghub/internal/user/domain"
	userrepository "github.com/orghub/orghub/internal/user/repository"
	userservice "github.com/orghub/orghub/internal/user/service"
	"github.com/orghub/orghub/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	engine  *gin.Engine
	userSvc userdomain.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&userdomain.User{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	cfg := config.Config{
		JWTAccessSecret:  "test-access-secret",
		JWTRefreshSecret: "test-refresh-secret",
		AccessTokenTTL:   30 * time.Minute,
		RefreshTokenTTL:  7 * 24 * time.Hour,
		JWTIssuer:        "orghub-test",
	}

	users := userrepository.NewRepository(dbConn)
	userSvc := userservice.NewService(zap.NewNop(), users, node, clk)
	authSvc := authservice.New(zap.NewNop(), cfg, users, tokenstore.NewMemoryStore(clk), clk)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	NewServer(ServerParams{
		Gin:     engine,
		Cfg:     cfg,
		Log:     zap.NewNop(),
		AuthSvc: authSvc,
		UserSvc: userSvc,
	})

	return &testServer{engine: engine, userSvc: userSvc}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body string, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) login(t *testing.T, email, pass string) string {
	t.Helper()

	form := url.Values{"username": {email}, "password": {pass}}
	rec := ts.do(t, http.MethodPost, "/api/v1/login/access-token", "", form.Encode(), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var pair struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)
	return pair.AccessToken
}

func TestSignupLoginAndMe(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/users/signup", "",
		`{"email":"lan@example.com","password":"changeme123","full_name":"Tran Thi Lan"}`,
		"application/json")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	token := ts.login(t, "lan@example.com", "changeme123")

	rec = ts.do(t, http.MethodGet, "/api/v1/users/me", token, "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var me struct {
		Email    string `json:"email"`
		FullName string `json:"full_name"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	require.Equal(t, "lan@example.com", me.Email)
	require.Equal(t, "Tran Thi Lan", me.FullName)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts := newTestServer(t)

	_, err := ts.userSvc.Register(context.Background(), userdomain.RegisterRequest{
		Email:    "lan@example.com",
		Password: "changeme123",
	})
	require.NoError(t, err)

	form := url.Values{"username": {"lan@example.com"}, "password": {"wrong-pass"}}
	rec := ts.do(t, http.MethodPost, "/api/v1/login/access-token", "", form.Encode(), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Detail)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/users/me", "", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	ts := newTestServer(t)

	_, err := ts.userSvc.Register(context.Background(), userdomain.RegisterRequest{
		Email:    "lan@example.com",
		Password: "changeme123",
	})
	require.NoError(t, err)
	token := ts.login(t, "lan@example.com", "changeme123")

	rec := ts.do(t, http.MethodPost, "/api/v1/logout", token, "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	// The token still parses but its mirror entry is gone.
	rec = ts.do(t, http.MethodGet, "/api/v1/users/me", token, "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRejectRegularUsers(t *testing.T) {
	ts := newTestServer(t)

	_, err := ts.userSvc.Register(context.Background(), userdomain.RegisterRequest{
		Email:    "lan@example.com",
		Password: "changeme123",
	})
	require.NoError(t, err)
	token := ts.login(t, "lan@example.com", "changeme123")

	rec := ts.do(t, http.MethodGet, "/api/v1/users", token, "", "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "the user doesn't have enough privileges", body.Detail)
}
