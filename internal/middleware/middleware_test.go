package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mentor-scheduling-api/internal/backend"
	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/mentor-scheduling-api/pkg/errors"
	"github.com/noah-isme/mentor-scheduling-api/pkg/logger"
)

type stubValidator map[string]*models.JWTClaims

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

type observation struct {
	path   string
	status int
}

type stubObserver struct {
	seen []observation
}

func (s *stubObserver) ObserveHTTPRequest(_, path string, status int, _ time.Duration) {
	s.seen = append(s.seen, observation{path: path, status: status})
}

func newTestRouter(observer *stubObserver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validator := stubValidator{
		"mentor-token":  {UserID: "m-1", Role: models.RoleMentor},
		"student-token": {UserID: "s-1", Role: models.RoleStudent},
	}
	r := gin.New()
	r.Use(Metrics(observer), WithResponseMeta())
	protected := r.Group("/", JWT(validator))
	protected.GET("/whoami", func(c *gin.Context) {
		actor, _ := ActorFromContext(c)
		c.JSON(http.StatusOK, gin.H{
			"id":      actor.ID,
			"token":   actor.Token,
			"forward": backend.TokenFrom(c.Request.Context()),
			"logged":  c.GetString(logger.ActorKey),
		})
	})
	protected.POST("/edit", Editors(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func perform(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTExposesActor(t *testing.T) {
	r := newTestRouter(&stubObserver{})

	w := perform(r, http.MethodGet, "/whoami", "mentor-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"m-1","token":"mentor-token","forward":"mentor-token","logged":"m-1"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/whoami", "").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/whoami", "forged").Code)
}

func TestEditorsRejectsStudents(t *testing.T) {
	r := newTestRouter(&stubObserver{})

	assert.Equal(t, http.StatusNoContent, perform(r, http.MethodPost, "/edit", "mentor-token").Code)
	w := perform(r, http.MethodPost, "/edit", "student-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	observer := &stubObserver{}
	r := newTestRouter(observer)

	perform(r, http.MethodGet, "/whoami", "mentor-token")
	perform(r, http.MethodGet, "/nowhere", "")
	require.Len(t, observer.seen, 2)
	assert.Equal(t, observation{path: "/whoami", status: http.StatusOK}, observer.seen[0])
	assert.Equal(t, observation{path: "unmatched", status: http.StatusNotFound}, observer.seen[1])
}
