// Auth HTTP handlers.
//
// This file exposes REST endpoints for account lifecycle:
//   - POST /auth/signup
//   - POST /auth/login
//   - POST /auth/refresh
//   - POST /auth/logout
//   - POST /auth/forgot-password
//   - POST /auth/reset-password
//   - GET  /auth/me
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Abroon25/ideax/internal/services"
)

// SignupRequest is the JSON payload for account creation.
type SignupRequest struct {
	Email       string `json:"email" binding:"required" example:"ada@example.com"`
	Phone       string `json:"phone" binding:"required" example:"9876543210"`
	Username    string `json:"username" binding:"required" example:"ada"`
	DisplayName string `json:"display_name" example:"Ada L."`
	Password    string `json:"password" binding:"required" example:"correct horse"`
}

// LoginRequest is the JSON payload for login. Identifier accepts email
// or username.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required" example:"ada@example.com"`
	Password   string `json:"password" binding:"required"`
}

// RefreshRequest carries the refresh token being rotated.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest revokes one session, or all of them.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
	All          bool   `json:"all"`
}

// ForgotPasswordRequest starts the reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetPasswordRequest completes the reset flow.
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// AuthResponse wraps the account and its session tokens.
type AuthResponse struct {
	User   any                 `json:"user"`
	Tokens *services.TokenPair `json:"tokens"`
}

// Signup godoc
// @ID          signup
// @Summary     Create an account
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body body handlers.SignupRequest true "Signup payload"
// @Success     201 {object} handlers.AuthResponse
// @Failure     400 {object} handlers.ErrorResponse
// @Failure     409 {object} handlers.ErrorResponse
// @Router      /auth/signup [post]
func (h *Handlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	u, pair, err := h.Auth.Signup(c.Request.Context(), services.SignupInput{
		Email:       req.Email,
		Phone:       req.Phone,
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, AuthResponse{User: u, Tokens: pair})
}

// Login godoc
// @ID          login
// @Summary     Log in with email or username
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body body handlers.LoginRequest true "Login payload"
// @Success     200 {object} handlers.AuthResponse
// @Failure     401 {object} handlers.ErrorResponse
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	u, pair, err := h.Auth.Login(c.Request.Context(), req.Identifier, req.Password)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, AuthResponse{User: u, Tokens: pair})
}

// Refresh godoc
// @ID          refreshToken
// @Summary     Rotate a refresh token
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body body handlers.RefreshRequest true "Refresh payload"
// @Success     200 {object} services.TokenPair
// @Failure     401 {object} handlers.ErrorResponse
// @Router      /auth/refresh [post]
func (h *Handlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	pair, err := h.Auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, pair)
}

// Logout godoc
// @ID          logout
// @Summary     Revoke sessions
// @Tags        Auth
// @Accept      json
// @Success     204 {string} string "No Content"
// @Failure     401 {object} handlers.ErrorResponse
// @Router      /auth/logout [post]
func (h *Handlers) Logout(c *gin.Context) {
	var req LogoutRequest
	_ = c.ShouldBindJSON(&req)

	if err := h.Auth.Logout(c.Request.Context(), userID(c), req.RefreshToken, req.All); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// ForgotPassword godoc
// @ID          forgotPassword
// @Summary     Start a password reset
// @Tags        Auth
// @Accept      json
// @Success     204 {string} string "No Content"
// @Router      /auth/forgot-password [post]
func (h *Handlers) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.Auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// ResetPassword godoc
// @ID          resetPassword
// @Summary     Complete a password reset
// @Tags        Auth
// @Accept      json
// @Success     204 {string} string "No Content"
// @Failure     401 {object} handlers.ErrorResponse
// @Router      /auth/reset-password [post]
func (h *Handlers) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.Auth.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// Me godoc
// @ID          me
// @Summary     Current account profile
// @Tags        Auth
// @Produce     json
// @Success     200 {object} services.Profile
// @Failure     401 {object} handlers.ErrorResponse
// @Router      /auth/me [get]
func (h *Handlers) Me(c *gin.Context) {
	uid := userID(c)
	p, err := h.Users.GetProfileByID(c.Request.Context(), uid, uid)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}
