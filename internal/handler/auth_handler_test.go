package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalmiddleware "github.com/medtrain/cert-registry-api/internal/middleware"
	"github.com/medtrain/cert-registry-api/internal/models"
	"github.com/medtrain/cert-registry-api/internal/service"
)

const testCookieName = "cert_registry_token"

type userRepoStub struct {
	users  map[string]models.User
	nextID int64
}

func (s *userRepoStub) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	user, ok := s.users[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &user, nil
}

func (s *userRepoStub) FindByID(ctx context.Context, id int64) (*models.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			u := user
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	if s.users == nil {
		s.users = make(map[string]models.User)
	}
	s.nextID++
	user.ID = s.nextID
	s.users[user.Username] = *user
	return nil
}

type auditStub struct{}

func (auditStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error { return nil }

func buildAuthRouter(t *testing.T) (*gin.Engine, *service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authSvc := service.NewAuthService(&userRepoStub{}, auditStub{}, nil, nil, service.AuthServiceConfig{
		TokenSecret: "test_secret",
		TokenExpiry: time.Hour,
		Issuer:      "cert-registry-api",
	})
	authHandler := NewAuthHandler(authSvc, AuthHandlerConfig{
		CookieName:   testCookieName,
		CookieSecure: true,
		TokenExpiry:  time.Hour,
	})

	router := gin.New()
	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)
	router.POST("/auth/logout", authHandler.Logout)
	router.GET("/auth/me", internalmiddleware.Auth(authSvc, testCookieName), authHandler.Me)
	return router, authSvc
}

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func registerUser(t *testing.T, router *gin.Engine) {
	t.Helper()
	body := `{"username":"admin","password":"Sup3rSecret"}`
	req, _ := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)
	require.Equal(t, http.StatusCreated, resp.Code)
}

func sessionCookie(resp *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == testCookieName {
			return cookie
		}
	}
	return nil
}

func TestLoginSetsHTTPOnlyCookie(t *testing.T) {
	router, _ := buildAuthRouter(t)
	registerUser(t, router)

	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"username":"admin","password":"Sup3rSecret"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)
	require.Equal(t, http.StatusOK, resp.Code)

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteNoneMode, cookie.SameSite)
	assert.Greater(t, cookie.MaxAge, 0)

	var envelope struct {
		Data models.UserInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "admin", envelope.Data.Username)
}

func TestLoginWrongPasswordNoCookie(t *testing.T) {
	router, _ := buildAuthRouter(t)
	registerUser(t, router)

	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"username":"admin","password":"WrongPass1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Nil(t, sessionCookie(resp))
}

func TestLogoutExpiresCookie(t *testing.T) {
	router, _ := buildAuthRouter(t)

	req, _ := http.NewRequest(http.MethodPost, "/auth/logout", nil)
	resp := performRequest(router, req)
	require.Equal(t, http.StatusOK, resp.Code)

	cookie := sessionCookie(resp)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestMeRequiresValidCookie(t *testing.T) {
	router, _ := buildAuthRouter(t)
	registerUser(t, router)

	req, _ := http.NewRequest(http.MethodGet, "/auth/me", nil)
	resp := performRequest(router, req)
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	req, _ = http.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: "garbage"})
	resp = performRequest(router, req)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestMeWithSessionCookie(t *testing.T) {
	router, _ := buildAuthRouter(t)
	registerUser(t, router)

	loginReq, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"username":"admin","password":"Sup3rSecret"}`))
	loginReq.Header.Set("Content-Type", "application/json")
	loginResp := performRequest(router, loginReq)
	cookie := sessionCookie(loginResp)
	require.NotNil(t, cookie)

	req, _ := http.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: cookie.Value})
	resp := performRequest(router, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"username":"admin"`)
}

func TestMeWithBearerFallback(t *testing.T) {
	router, authSvc := buildAuthRouter(t)
	registerUser(t, router)

	_, token, err := authSvc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "Sup3rSecret"})
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := performRequest(router, req)
	require.Equal(t, http.StatusOK, resp.Code)
}
