package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/section-planner-api/internal/models"
	appErrors "github.com/noah-isme/section-planner-api/pkg/errors"
)

type validatorStub map[string]*models.JWTClaims

func (v validatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := v[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

var tokens = validatorStub{
	"student": {UserID: "student-1", Role: models.RoleStudent},
	"admin":   {UserID: "admin-1", Role: models.RoleAdmin},
}

func protectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", JWT(tokens), func(c *gin.Context) {
		claims := c.MustGet(ContextUserKey).(*models.JWTClaims)
		c.String(http.StatusOK, claims.UserID)
	})
	r.POST("/admin", JWT(tokens), RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/maybe", OptionalJWT(tokens), func(c *gin.Context) {
		if _, ok := c.Get(ContextUserKey); ok {
			c.String(http.StatusOK, "user")
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	return r
}

func do(r http.Handler, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWT(t *testing.T) {
	r := protectedRouter()

	w := do(r, http.MethodGet, "/me", "Bearer student")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "student-1", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "Token student").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", "Bearer nope").Code)
}

func TestRequireRoles(t *testing.T) {
	r := protectedRouter()
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/admin", "bearer admin").Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPost, "/admin", "Bearer student").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/admin", "").Code)

	gin.SetMode(gin.TestMode)
	bare := gin.New()
	bare.GET("/", RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, do(bare, http.MethodGet, "/", "").Code)
}

func TestOptionalJWT(t *testing.T) {
	r := protectedRouter()
	assert.Equal(t, "user", do(r, http.MethodGet, "/maybe", "Bearer admin").Body.String())
	assert.Equal(t, "anonymous", do(r, http.MethodGet, "/maybe", "Bearer nope").Body.String())
	assert.Equal(t, "anonymous", do(r, http.MethodGet, "/maybe", "").Body.String())
}

type observation struct {
	method, path string
	status       int
}

type observerStub struct{ seen []observation }

func (o *observerStub) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	o.seen = append(o.seen, observation{method, path, status})
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	obs := &observerStub{}
	r := gin.New()
	r.Use(Metrics(obs))
	r.GET("/schedules/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	do(r, http.MethodGet, "/schedules/abc", "")
	do(r, http.MethodGet, "/random/path", "")

	require.Len(t, obs.seen, 2)
	assert.Equal(t, observation{http.MethodGet, "/schedules/:id", http.StatusOK}, obs.seen[0])
	assert.Equal(t, observation{http.MethodGet, "unmatched", http.StatusNotFound}, obs.seen[1])
}

func TestResponseMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var meta map[string]interface{}
	r := gin.New()
	r.Use(WithResponseMeta())
	r.GET("/", func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})
	do(r, http.MethodGet, "/", "")

	require.NotNil(t, meta)
	assert.Equal(t, true, meta["cache_hit"])
	assert.Contains(t, meta, "processing_time_ms")
}
