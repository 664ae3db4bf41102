package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/selotroca/selotroca-backend/internal/gamification"
	"github.com/selotroca/selotroca-backend/internal/middleware"
	"github.com/selotroca/selotroca-backend/internal/models"
	"github.com/selotroca/selotroca-backend/internal/services"
)

// ProfileHandler handles profile and leaderboard HTTP requests
type ProfileHandler struct {
	profileService services.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// Update handles PUT /profile
func (h *ProfileHandler) Update(c *gin.Context) {
	profile := middleware.MustProfile(c)

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.profileService.Update(c.Request.Context(), profile.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": updated})
}

// Quota handles GET /profile/quota
func (h *ProfileHandler) Quota(c *gin.Context) {
	profile := middleware.MustProfile(c)

	quota, err := h.profileService.QuotaStatus(c.Request.Context(), profile.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quota)
}

// Progress handles GET /profile/progress
func (h *ProfileHandler) Progress(c *gin.Context) {
	profile := middleware.MustProfile(c)
	c.JSON(http.StatusOK, gamification.PointsForNextLevel(profile.Points))
}

// Transactions handles GET /profile/transactions
func (h *ProfileHandler) Transactions(c *gin.Context) {
	profile := middleware.MustProfile(c)

	txs, err := h.profileService.Transactions(c.Request.Context(), profile.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

// Leaderboard handles GET /leaderboard
func (h *ProfileHandler) Leaderboard(c *gin.Context) {
	entries, err := h.profileService.Leaderboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
