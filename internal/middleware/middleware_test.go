package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mon-auxiliaire/internal/auth"
	"mon-auxiliaire/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(tokens *auth.TokenIssuer, roles ...models.UserRole) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()), Recovery(zap.NewNop()))
	g := r.Group("/", RequireAuth(tokens))
	if len(roles) > 0 {
		g.Use(RequireRole(roles...))
	}
	g.GET("/me", func(c *gin.Context) {
		id, _ := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"username": id.Username})
	})
	r.GET("/panic", func(*gin.Context) { panic("boom") })
	return r
}

func do(r http.Handler, path, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	tokens := auth.NewTokenIssuer("secret", time.Hour)
	r := newEngine(tokens)

	token, err := tokens.Issue(models.User{Base: models.Base{ID: 1}, Username: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)
	foreign, err := auth.NewTokenIssuer("other", time.Hour).Issue(models.User{Base: models.Base{ID: 1}})
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusForbidden},
		{"wrong secret", "Bearer " + foreign, http.StatusForbidden},
		{"valid", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, "/me", tc.header)
			assert.Equal(t, tc.status, w.Code)
			if tc.status != http.StatusOK {
				var body map[string]any
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.NotEmpty(t, body["message"])
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tokens := auth.NewTokenIssuer("secret", time.Hour)
	r := newEngine(tokens, models.RoleAdmin)

	admin, err := tokens.Issue(models.User{Base: models.Base{ID: 1}, Role: models.RoleAdmin})
	require.NoError(t, err)
	lecteur, err := tokens.Issue(models.User{Base: models.Base{ID: 2}, Role: models.RoleLecteur})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, do(r, "/me", "Bearer "+admin).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/me", "Bearer "+lecteur).Code)
}

func TestRequestIDAndRecovery(t *testing.T) {
	r := newEngine(auth.NewTokenIssuer("secret", time.Hour))

	w := do(r, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}
