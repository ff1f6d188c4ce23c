package handlers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/go-todo-auth/internal/application"
	"github.com/oksasatya/go-todo-auth/pkg/helpers"
	"github.com/oksasatya/go-todo-auth/pkg/response"
)

const avatarField = "avatar"

type AuthHandler struct {
	Svc     *app.Service
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *app.Service, logger *logrus.Logger, cookies *helpers.Manager) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: cookies}
}

type registerRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email" binding:"omitempty,email"`
	Password string `json:"password" form:"password" binding:"omitempty,pwd"`
}

// otpCode accepts the code as a JSON string or number.
type otpCode string

func (o *otpCode) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*o = otpCode(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*o = otpCode(s)
	return nil
}

type verifyRequest struct {
	OTP otpCode `json:"otp" form:"otp"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" form:"email"`
}

type resetPasswordRequest struct {
	OTP      otpCode `json:"otp" form:"otp"`
	Password string  `json:"password" form:"password"`
}

// Register POST /register (multipart: name, email, password, avatar)
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bind(c, &req) {
		return
	}
	upload, closeFn, err := formUpload(c, avatarField)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid avatar upload", err.Error())
		return
	}
	defer closeFn()

	res, err := h.Svc.Register(c.Request.Context(), app.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Avatar:   upload,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.sendToken(c, http.StatusCreated, res, "Registered successfully, please verify your account with the OTP sent to your email")
}

// Verify POST /verify {otp} (auth required)
func (h *AuthHandler) Verify(c *gin.Context) {
	id, ok := requireAccount(c)
	if !ok {
		return
	}
	var req verifyRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.Svc.Verify(c.Request.Context(), id, string(req.OTP))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.sendToken(c, http.StatusOK, res, "Account Verified")
}

// ResendOTP POST /resendOtp (auth required)
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	id, ok := requireAccount(c)
	if !ok {
		return
	}
	if err := h.Svc.ResendVerification(c.Request.Context(), id); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "OTP sent to your email", nil)
}

// Login POST /login {email, password}
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.sendToken(c, http.StatusOK, res, "Login Successful")
}

// Logout GET /logout. Always succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, nil, "Logged out successfully", nil)
}

// ForgotPassword POST /forgetPassword {email}
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if !bind(c, &req) {
		return
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "OTP sent to "+req.Email, nil)
}

// ResetPassword PUT /resetPassword {otp, password}
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !bind(c, &req) {
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), string(req.OTP), req.Password); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Password Changed Successfully", nil)
}

func (h *AuthHandler) sendToken(c *gin.Context, status int, res *app.AuthResult, msg string) {
	h.Cookies.SetToken(c, res.Token, res.ExpiresAt)
	response.Success(c, status, viewAccount(res.Account), msg, gin.H{"expires_at": res.ExpiresAt})
}

// formUpload opens an optional multipart file. The returned close func is never nil.
func formUpload(c *gin.Context, field string) (*app.Upload, func(), error) {
	noop := func() {}
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, err
	}
	return &app.Upload{
		Reader:      f,
		Filename:    fh.Filename,
		ContentType: contentType(fh),
	}, func() { _ = f.Close() }, nil
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
