package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"koalgroup/internal/model"
	"koalgroup/internal/policy"
	"koalgroup/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	issuer := token.NewIssuer("middleware-secret", time.Minute, time.Hour, nil)
	user := &model.User{ID: uuid.New(), Username: "sup", Role: model.RoleSupervisor}
	pair, err := issuer.Issue(user)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", JWTAuth(issuer), func(c *gin.Context) {
		caller, ok := GetCaller(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": caller.ID.String(), "role": string(caller.Role)})
	})

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Token " + pair.Access, http.StatusUnauthorized},
		{"refresh token", "Bearer " + pair.Refresh, http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"access token", "Bearer " + pair.Access, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := serve(r, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), user.ID.String())
				assert.Contains(t, w.Body.String(), "SUPERVISOR")
			}
		})
	}
}

func TestGetCaller_Absent(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := GetCaller(c)
	assert.False(t, ok)
	c.Set(CallerKey, policy.Caller{ID: uuid.New()})
	_, ok = GetCaller(c)
	assert.True(t, ok)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = serve(r, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryAndErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery(), ErrorHandler())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	r.GET("/err", func(c *gin.Context) { _ = c.Error(assert.AnError) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")

	w = serve(r, httptest.NewRequest(http.MethodGet, "/err", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Error interno del servidor"}`, w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	l := NewRateLimiter("test", 2, time.Minute, "lento")
	l.now = func() time.Time { return now }

	r := gin.New()
	r.GET("/", l.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	hit := func() *httptest.ResponseRecorder { return serve(r, httptest.NewRequest(http.MethodGet, "/", nil)) }

	assert.Equal(t, http.StatusOK, hit().Code)
	assert.Equal(t, http.StatusOK, hit().Code)
	w := hit()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "61", w.Header().Get("Retry-After"))

	now = now.Add(61 * time.Second)
	assert.Equal(t, 1, l.purge())
	assert.Equal(t, http.StatusOK, hit().Code)
}

func TestRateLimiter_Disabled(t *testing.T) {
	l := NewRateLimiter("off", 0, time.Minute, "x")
	r := gin.New()
	r.GET("/", l.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
}
