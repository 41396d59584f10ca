package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"makerspace/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	admins map[uuid.UUID]bool
	err    error
	calls  int
}

func (s *stubChecker) IsAdmin(ctx context.Context, id uuid.UUID) (bool, error) {
	s.calls++
	return s.admins[id], s.err
}

func newRouter(checker AdminChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionAuthMiddleware("secret"))
	r.GET("/me", func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	admin := r.Group("/admin", AdminOnlyMiddleware(checker))
	admin.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func token(t *testing.T, id uuid.UUID) string {
	t.Helper()
	tok, err := utils.GenerateJWT(id, "secret", time.Hour)
	require.NoError(t, err)
	return tok
}

func TestSessionFromHeaderAndCookie(t *testing.T) {
	id := uuid.New()
	r := newRouter(&stubChecker{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, id))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), id.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token(t, id)})
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionRejected(t *testing.T) {
	r := newRouter(&stubChecker{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOnly(t *testing.T) {
	admin, member := uuid.New(), uuid.New()
	checker := &stubChecker{admins: map[uuid.UUID]bool{admin: true}}
	r := newRouter(checker)

	do := func(id uuid.UUID) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
		req.Header.Set("Authorization", "Bearer "+token(t, id))
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, do(admin))
	assert.Equal(t, http.StatusForbidden, do(member))
	assert.Equal(t, http.StatusNoContent, do(admin))
	assert.Equal(t, 3, checker.calls) // checked on every request

	checker.err = errors.New("db down")
	assert.Equal(t, http.StatusInternalServerError, do(admin))
}
