package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookshelf/models"
	"bookshelf/permissions"
	"bookshelf/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver map[uint]*permissions.Caller

func (s stubResolver) ResolveCaller(_ context.Context, userID uint) (*permissions.Caller, error) {
	if caller, ok := s[userID]; ok {
		return caller, nil
	}
	return nil, models.ErrUnauthenticated
}

func newTestEngine(tokens *utils.TokenManager, resolver CallerResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())

	r.GET("/open", OptionalAuth(tokens, resolver), func(c *gin.Context) {
		caller := CallerFrom(c)
		if caller == nil {
			c.JSON(http.StatusOK, gin.H{"user": "anonymous"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": caller.Username})
	})
	r.GET("/private", AuthRequired(tokens, resolver), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint(UserIDKey)})
	})
	r.GET("/create", AuthRequired(tokens, resolver), PermissionRequired(permissions.CanCreateBook), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/admin", AuthRequired(tokens, resolver), RoleRequired(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func perform(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	resolver := stubResolver{
		1: {UserID: 1, Username: "member", Role: models.RoleMember, Permissions: map[string]bool{}},
		2: {UserID: 2, Username: "boss", Role: models.RoleAdmin, Permissions: map[string]bool{}},
	}
	r := newTestEngine(tokens, resolver)

	memberToken, err := tokens.GenerateJWT(1)
	require.NoError(t, err)
	adminToken, err := tokens.GenerateJWT(2)
	require.NoError(t, err)
	ghostToken, err := tokens.GenerateJWT(99)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"anonymous read", "/open", "", http.StatusOK},
		{"authenticated read", "/open", memberToken, http.StatusOK},
		{"garbage token on open route", "/open", "garbage", http.StatusUnauthorized},
		{"private without token", "/private", "", http.StatusUnauthorized},
		{"private with token", "/private", memberToken, http.StatusOK},
		{"unknown user", "/private", ghostToken, http.StatusUnauthorized},
		{"missing permission", "/create", memberToken, http.StatusForbidden},
		{"admin has every permission", "/create", adminToken, http.StatusNoContent},
		{"wrong role", "/admin", memberToken, http.StatusForbidden},
		{"right role", "/admin", adminToken, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(r, tt.path, tt.token)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestErrorHandler_Mapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", models.NotFoundError("book"), http.StatusNotFound, "not_found"},
		{"forbidden", models.ErrForbidden, http.StatusForbidden, "permission_denied"},
		{"conflict", models.ErrConflict, http.StatusConflict, "conflict"},
		{"validation", models.NewFieldError("title", "This field may not be blank."), http.StatusBadRequest, "invalid"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			r.GET("/", func(c *gin.Context) { _ = c.Error(tt.err) })

			w := perform(r, "/", "")
			assert.Equal(t, tt.status, w.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestErrorHandler_BindingErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.POST("/", func(c *gin.Context) {
		var req models.CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(err).SetType(gin.ErrorTypeBind)
			return
		}
		c.Status(http.StatusOK)
	})

	post := func(body string) (*httptest.ResponseRecorder, ErrorResponse) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return w, resp
	}

	w, resp := post(`{"email":"not-an-email","username":"ab"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid", resp.Code)
	assert.Equal(t, "Enter a valid email address.", resp.Fields["email"])
	assert.Contains(t, resp.Fields, "username")
	assert.Equal(t, "This field is required.", resp.Fields["password"])

	w, resp = post(`{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "parse_error", resp.Code)
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
