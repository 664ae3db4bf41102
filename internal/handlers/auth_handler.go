package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/selotroca/selotroca-backend/internal/middleware"
	"github.com/selotroca/selotroca-backend/internal/models"
	"github.com/selotroca/selotroca-backend/internal/services"
)

// AuthHandler handles OTP login and session HTTP requests
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SendOtp handles POST /auth/send-otp
func (h *AuthHandler) SendOtp(c *gin.Context) {
	var req models.SendOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.authService.SendOtp(c.Request.Context(), req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// VerifyOtp handles POST /auth/verify-otp
func (h *AuthHandler) VerifyOtp(c *gin.Context) {
	var req models.VerifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.authService.VerifyOtp(c.Request.Context(), req.Phone, req.Code,
		c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	profile := middleware.MustProfile(c)
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		if err := h.authService.Logout(c.Request.Context(), authHeader[7:]); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
