package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-todo-auth/internal/domain/entity"
	"github.com/oksasatya/go-todo-auth/internal/domain/repository"
	"github.com/oksasatya/go-todo-auth/pkg/helpers"
	"github.com/oksasatya/go-todo-auth/pkg/response"
)

const (
	CtxAccountIDKey = "accountID"
	CtxAccountKey   = "account"
)

const msgLoginRequired = "Please login to access this resource"

// TokenValidator resolves a session token to the account id it was issued for.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// Auth reads the token cookie, validates it and loads the owning account.
// It sets accountID and account in the Gin context on success.
func Auth(repo repository.AccountRepository, tokens TokenValidator, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.TokenCookie)
		if err != nil || token == "" {
			response.Abort(c, http.StatusUnauthorized, msgLoginRequired, nil)
			return
		}
		id, err := tokens.Validate(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, msgLoginRequired, err.Error())
			return
		}

		acc, err := repo.FindByID(c.Request.Context(), id)
		if errors.Is(err, repository.ErrNotFound) {
			response.Abort(c, http.StatusUnauthorized, msgLoginRequired, nil)
			return
		}
		if err != nil {
			if logger != nil {
				helpers.LogError(logger, "auth: load account failed", err, logrus.Fields{"account_id": id})
			}
			response.Abort(c, http.StatusInternalServerError, "Internal server error", nil)
			return
		}

		c.Set(CtxAccountIDKey, acc.ID)
		c.Set(CtxAccountKey, acc)
		c.Next()
	}
}

// CurrentAccountID returns the id set by Auth, or "".
func CurrentAccountID(c *gin.Context) string {
	return c.GetString(CtxAccountIDKey)
}

// CurrentAccount returns the account loaded by Auth.
func CurrentAccount(c *gin.Context) (*entity.Account, bool) {
	v, ok := c.Get(CtxAccountKey)
	if !ok {
		return nil, false
	}
	acc, ok := v.(*entity.Account)
	return acc, ok && acc != nil
}
