package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-todo-auth/internal/domain/entity"
	"github.com/oksasatya/go-todo-auth/internal/domain/repository"
	"github.com/oksasatya/go-todo-auth/internal/infrastructure/memory"
	"github.com/oksasatya/go-todo-auth/pkg/helpers"
)

// countingRepo records lookups and can be made to fail.
type countingRepo struct {
	repository.AccountRepository
	lookups int
	fail    error
}

func (r *countingRepo) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	r.lookups++
	if r.fail != nil {
		return nil, r.fail
	}
	return r.AccountRepository.FindByID(ctx, id)
}

func setupGate(t *testing.T) (*gin.Engine, *countingRepo, *helpers.JWTManager, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := memory.NewAccountRepository(bcrypt.MinCost)
	acc := &entity.Account{
		Email:        "a@x.com",
		Name:         "A",
		Verification: entity.Unverified{Challenge: entity.Challenge{Code: 1, ExpiresAt: time.Now().Add(time.Hour)}},
		Reset:        entity.ResetIdle{},
	}
	acc.SetPassword("pw123456")
	require.NoError(t, mem.Create(context.Background(), acc))

	repo := &countingRepo{AccountRepository: mem}
	jwt := helpers.NewJWTManager("secret", time.Hour)

	r := gin.New()
	r.GET("/me", Auth(repo, jwt, nil), func(c *gin.Context) {
		a, ok := CurrentAccount(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, a.ID+"|"+CurrentAccountID(c))
	})
	return r, repo, jwt, acc.ID
}

func doGet(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: helpers.TokenCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuth_MissingCookieSkipsStore(t *testing.T) {
	r, repo, _, _ := setupGate(t)

	rec := doGet(r, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please login to access this resource")
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.Equal(t, 0, repo.lookups)
}

func TestAuth_InvalidAndExpired(t *testing.T) {
	r, repo, _, id := setupGate(t)

	rec := doGet(r, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	past := helpers.NewJWTManager("secret", time.Hour)
	past.Now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, err := past.Issue(id)
	require.NoError(t, err)
	rec = doGet(r, tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	forged, _, err := helpers.NewJWTManager("other", time.Hour).Issue(id)
	require.NoError(t, err)
	rec = doGet(r, forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, repo.lookups)
}

func TestAuth_Valid(t *testing.T) {
	r, repo, jwt, id := setupGate(t)
	tok, _, err := jwt.Issue(id)
	require.NoError(t, err)

	rec := doGet(r, tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id+"|"+id, rec.Body.String())
	assert.Equal(t, 1, repo.lookups)
}

func TestAuth_DeletedAccount(t *testing.T) {
	r, _, jwt, _ := setupGate(t)
	tok, _, err := jwt.Issue("deleted-account")
	require.NoError(t, err)

	rec := doGet(r, tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_StoreFailure(t *testing.T) {
	r, repo, jwt, id := setupGate(t)
	repo.fail = errors.New("db down")
	tok, _, err := jwt.Issue(id)
	require.NoError(t, err)

	rec := doGet(r, tok)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}

func TestCurrentAccount_Absent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := CurrentAccount(c)
	assert.False(t, ok)
	assert.Empty(t, CurrentAccountID(c))
}
