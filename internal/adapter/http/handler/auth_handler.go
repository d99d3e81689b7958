package handler

import (
	"context"
	"net/http"
	"time"

	"custodial-wallet-service/internal/adapter/http/dto"
	"custodial-wallet-service/internal/adapter/http/middleware"
	"custodial-wallet-service/internal/core/domain"
	"custodial-wallet-service/internal/core/ports"
	"custodial-wallet-service/pkg/apperror"
	"custodial-wallet-service/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const refreshCookieName = "refresh_token"

// refreshCookiePath scopes the refresh cookie to the auth endpoints so it is
// never sent with ordinary API calls.
const refreshCookiePath = "/api/auth"

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authSvc      ports.AuthService
	cookieDomain string
	refreshTTL   time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc ports.AuthService, cookieDomain string, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authSvc:      authSvc,
		cookieDomain: cookieDomain,
		refreshTTL:   refreshTTL,
	}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	h.signup(c, h.authSvc.Signup)
}

// AdminSignup handles POST /api/auth/admin/signup.
func (h *AuthHandler) AdminSignup(c *gin.Context) {
	h.signup(c, h.authSvc.AdminSignup)
}

func (h *AuthHandler) signup(c *gin.Context, register func(ctx context.Context, in ports.SignupInput) (*domain.User, error)) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, dto.FieldErrors(err))
		return
	}
	dto.SanitizeStruct(&req)

	user, err := register(c.Request.Context(), ports.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Account created, verification code sent", toUserResponse(user))
}

// Login handles POST /api/auth/login. The refresh token travels back as an
// HttpOnly cookie; only the access token appears in the body.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, dto.FieldErrors(err))
		return
	}
	dto.SanitizeStruct(&req)

	tokens, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	response.OK(c, "Login successful", dto.TokenResponse{
		AccessToken: tokens.AccessToken,
		ExpiresAt:   tokens.AccessExpiry.Unix(),
	})
}

// VerifyEmail handles POST /api/auth/verify-email.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, dto.FieldErrors(err))
		return
	}
	dto.SanitizeStruct(&req)

	if err := h.authSvc.VerifyEmail(c.Request.Context(), req.Email, req.Code); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Email verified successfully", nil)
}

// ResendVerificationCode handles POST /api/auth/resend-verification-code.
func (h *AuthHandler) ResendVerificationCode(c *gin.Context) {
	var req dto.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, dto.FieldErrors(err))
		return
	}
	dto.SanitizeStruct(&req)

	if err := h.authSvc.ResendVerificationCode(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Verification code sent", nil)
}

// ForgotPassword handles POST /api/auth/forgot-password. The response does
// not reveal whether the email exists.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, dto.FieldErrors(err))
		return
	}
	dto.SanitizeStruct(&req)

	if err := h.authSvc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "If the address is registered, a reset link has been sent", nil)
}

// ResetPassword handles POST /api/auth/reset-password/:token.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, dto.FieldErrors(err))
		return
	}

	if err := h.authSvc.ResetPassword(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Password reset successfully", nil)
}

// Refresh handles POST /api/auth/refresh. It rotates the refresh token: the
// old one is revoked and a new cookie is issued.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	tokens, err := h.authSvc.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		h.clearRefreshCookie(c)
		response.Error(c, err)
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken)
	response.OK(c, "Token refreshed", dto.TokenResponse{
		AccessToken: tokens.AccessToken,
		ExpiresAt:   tokens.AccessExpiry.Unix(),
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err == nil && refreshToken != "" {
		// A dead or foreign token still clears the cookie below.
		_ = h.authSvc.Logout(c.Request.Context(), refreshToken)
	}

	h.clearRefreshCookie(c)
	response.OK(c, "Logged out", nil)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := c.Get(middleware.CtxUserID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	user, err := h.authSvc.Me(c.Request.Context(), userID.(uuid.UUID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User retrieved successfully", toUserResponse(user))
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, token, int(h.refreshTTL.Seconds()), refreshCookiePath, h.cookieDomain, h.cookieDomain != "", true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, "", -1, refreshCookiePath, h.cookieDomain, h.cookieDomain != "", true)
}

func toUserResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:              u.ID.String(),
		Username:        u.Username,
		Email:           u.Email,
		Role:            string(u.Role),
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
	}
}
