package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cookieNamed(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestManager_SetTokenAndClear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewCookie("", false)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	m.SetToken(c, "tok", time.Now().Add(time.Hour))

	ck := cookieNamed(t, rec, TokenCookie)
	assert.Equal(t, "tok", ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, "/", ck.Path)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	assert.InDelta(t, 3600, ck.MaxAge, 5)

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	m.Clear(c)
	ck = cookieNamed(t, rec, TokenCookie)
	assert.Empty(t, ck.Value)
	require.Less(t, ck.MaxAge, 0)
}

func TestMaxAgeFrom_Past(t *testing.T) {
	assert.Equal(t, 0, maxAgeFrom(time.Now().Add(-time.Hour)))
}
