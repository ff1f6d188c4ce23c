package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-todo-auth/internal/application"
	"github.com/oksasatya/go-todo-auth/internal/interface/middleware"
	"github.com/oksasatya/go-todo-auth/pkg/response"
	"github.com/oksasatya/go-todo-auth/pkg/validation"
)

const msgInternal = "Internal server error"

// First match wins, so specific errors go before their kind.
var statusByKind = []struct {
	kind   error
	status int
}{
	// forgot password has always answered 400 for an unknown address
	{app.ErrUnknownEmail, http.StatusBadRequest},
	{app.ErrConflict, http.StatusConflict},
	{app.ErrInvalidCredentials, http.StatusBadRequest},
	{app.ErrUnauthenticated, http.StatusUnauthorized},
	{app.ErrInvalidOrExpiredChallenge, http.StatusBadRequest},
	{app.ErrMissingFields, http.StatusBadRequest},
	{app.ErrValidation, http.StatusBadRequest},
	{app.ErrNotFound, http.StatusNotFound},
	{app.ErrIncorrectOldPassword, http.StatusBadRequest},
	{app.ErrAlreadyVerified, http.StatusBadRequest},
}

// statusFor maps a service error to its HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	for _, m := range statusByKind {
		if errors.Is(err, m.kind) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// writeError is the single place service errors become responses.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"account_id": middleware.CurrentAccountID(c),
				"path":       c.FullPath(),
				"request_id": c.GetString("request_id"),
			}).Error("request failed")
		}
		response.Error[any](c, status, msgInternal, nil)
		return
	}
	msg := err.Error()
	var appErr *app.Error
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	response.Error[any](c, status, msg, nil)
}

// bind decodes JSON, urlencoded or multipart bodies. An empty body is not an error.
func bind(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 && c.Request.Body == http.NoBody {
		return true
	}
	if err := c.ShouldBind(dst); err != nil && !errors.Is(err, io.EOF) {
		switch validation.FailedRule(err, "pwd") {
		case "min":
			response.Error[any](c, http.StatusBadRequest, app.ErrPasswordTooShort.Message, validation.ToDetails(err))
			return false
		case "max":
			response.Error[any](c, http.StatusBadRequest, app.ErrPasswordTooLong.Message, validation.ToDetails(err))
			return false
		}
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return false
	}
	return true
}

// requireAccount returns the id set by the session gate, answering 401 when
// the gate did not run or found nothing.
func requireAccount(c *gin.Context) (string, bool) {
	acc, ok := middleware.CurrentAccount(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "Please login to access this resource", nil)
		return "", false
	}
	return acc.ID, true
}
