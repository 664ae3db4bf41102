package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/selotroca/selotroca-backend/internal/middleware"
	"github.com/selotroca/selotroca-backend/internal/models"
	"github.com/selotroca/selotroca-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BackofficeHandler handles back-office account, settings and audit HTTP
// requests.
type BackofficeHandler struct {
	backofficeService services.BackofficeService
}

// NewBackofficeHandler creates a new BackofficeHandler
func NewBackofficeHandler(backofficeService services.BackofficeService) *BackofficeHandler {
	return &BackofficeHandler{backofficeService: backofficeService}
}

// Login handles POST /backoffice/login
func (h *BackofficeHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, user, err := h.backofficeService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Me handles GET /backoffice/me
func (h *BackofficeHandler) Me(c *gin.Context) {
	user := middleware.MustAdminUser(c)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// CreateAccount handles POST /backoffice/accounts
func (h *BackofficeHandler) CreateAccount(c *gin.Context) {
	var req models.CreateAdminUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.backofficeService.CreateAdminUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// ListAccounts handles GET /backoffice/accounts
func (h *BackofficeHandler) ListAccounts(c *gin.Context) {
	users, err := h.backofficeService.ListAdminUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// DeactivateAccount handles DELETE /backoffice/accounts/:id
func (h *BackofficeHandler) DeactivateAccount(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	if err := h.backofficeService.DeactivateAdminUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetSettings handles GET /backoffice/settings
func (h *BackofficeHandler) GetSettings(c *gin.Context) {
	settings, err := h.backofficeService.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings handles PUT /backoffice/settings
func (h *BackofficeHandler) UpdateSettings(c *gin.Context) {
	user := middleware.MustAdminUser(c)

	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	settings, err := h.backofficeService.UpdateSettings(c.Request.Context(), &req, user.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// AuditLogs handles GET /backoffice/audit-logs
func (h *BackofficeHandler) AuditLogs(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "100"), 10, 64)
	if err != nil || limit <= 0 {
		limit = 100
	}

	entries, err := h.backofficeService.RecentAuditLogs(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auditLogs": entries})
}

// Overview handles GET /backoffice/overview
func (h *BackofficeHandler) Overview(c *gin.Context) {
	overview, err := h.backofficeService.Overview(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
