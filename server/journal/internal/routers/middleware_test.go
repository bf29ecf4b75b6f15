package routers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/ienikesergey/Outage-Dispatch-System/models/journal"
	"github.com/ienikesergey/Outage-Dispatch-System/pkg/middleware/render"
	"github.com/ienikesergey/Outage-Dispatch-System/server/journal/internal/service"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, role string, expiresIn time.Duration) string {
	t.Helper()
	claims := service.Claims{
		UserID:   1,
		Username: "dispatcher",
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return token
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := service.NewAuthService(nil, testSecret, 12, zap.NewNop())

	r := gin.New()
	protected := r.Group("/api", AuthMiddleware(auth))
	protected.GET("/events", func(c *gin.Context) {
		render.OK(c, []string{})
	})
	protected.POST("/events",
		RequireRole(journal.RoleEditor, journal.RoleSenior, journal.RoleAdmin),
		func(c *gin.Context) {
			render.Success(c)
		})
	protected.POST("/substations",
		RequireRole(journal.RoleSenior, journal.RoleAdmin),
		func(c *gin.Context) {
			render.Success(c)
		})
	return r
}

func doRequest(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	r := testRouter()

	w := doRequest(r, http.MethodGet, "/api/events", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"missing authorization token"}`, w.Body.String())
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	r := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsInvalidToken(t *testing.T) {
	r := testRouter()

	w := doRequest(r, http.MethodGet, "/api/events", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid or expired token"}`, w.Body.String())
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	r := testRouter()
	token := signTestToken(t, journal.RoleAdmin, -time.Hour)

	w := doRequest(r, http.MethodGet, "/api/events", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAnyRoleReads(t *testing.T) {
	r := testRouter()
	token := signTestToken(t, journal.RoleReader, time.Hour)

	w := doRequest(r, http.MethodGet, "/api/events", token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReaderCannotWriteEvents(t *testing.T) {
	r := testRouter()
	token := signTestToken(t, journal.RoleReader, time.Hour)

	w := doRequest(r, http.MethodPost, "/api/events", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"insufficient permissions"}`, w.Body.String())
}

func TestEditorWritesEventsButNotReference(t *testing.T) {
	r := testRouter()
	token := signTestToken(t, journal.RoleEditor, time.Hour)

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodPost, "/api/events", token).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, http.MethodPost, "/api/substations", token).Code)
}

func TestSeniorWritesReference(t *testing.T) {
	r := testRouter()
	token := signTestToken(t, journal.RoleSenior, time.Hour)

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodPost, "/api/substations", token).Code)
}
