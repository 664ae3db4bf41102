package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/selotroca/selotroca-backend/internal/middleware"
	"github.com/selotroca/selotroca-backend/internal/models"
	"github.com/selotroca/selotroca-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListingHandler handles marketplace listing HTTP requests
type ListingHandler struct {
	listingService services.ListingService
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(listingService services.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

func auditContext(c *gin.Context, actorID primitive.ObjectID) services.AuditContext {
	return services.AuditContext{
		ActorID:   actorID,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// List handles GET /listings. Without a userId filter it returns the active
// marketplace; with one it returns that user's listing history.
func (h *ListingHandler) List(c *gin.Context) {
	if userIDParam := c.Query("userId"); userIDParam != "" {
		userID, err := primitive.ObjectIDFromHex(userIDParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
			return
		}
		listings, err := h.listingService.ListByUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"listings": listings})
		return
	}

	listings, err := h.listingService.ListActive(c.Request.Context(), models.ListingType(c.Query("type")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

// Mine handles GET /listings/mine
func (h *ListingHandler) Mine(c *gin.Context) {
	profile := middleware.MustProfile(c)
	listings, err := h.listingService.ListByUser(c.Request.Context(), profile.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

// Get handles GET /listings/:id
func (h *ListingHandler) Get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	listing, err := h.listingService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ListingResponse{Listing: listing})
}

// Create handles POST /listings
func (h *ListingHandler) Create(c *gin.Context) {
	profile := middleware.MustProfile(c)

	var req models.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	listing, err := h.listingService.Create(c.Request.Context(), profile.ID, &req, auditContext(c, profile.ID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ListingResponse{Listing: listing})
}

// Cancel handles PUT /listings/:id/cancel
func (h *ListingHandler) Cancel(c *gin.Context) {
	profile := middleware.MustProfile(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	listing, err := h.listingService.Cancel(c.Request.Context(), id, profile.ID, auditContext(c, profile.ID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ListingResponse{Listing: listing})
}

// ConfirmSent handles PUT /listings/:id/confirm-sent
func (h *ListingHandler) ConfirmSent(c *gin.Context) {
	profile := middleware.MustProfile(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	listing, err := h.listingService.ConfirmSent(c.Request.Context(), id, profile.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ListingResponse{Listing: listing})
}

// Fulfill handles PUT /listings/:id/fulfill
func (h *ListingHandler) Fulfill(c *gin.Context) {
	profile := middleware.MustProfile(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	listing, err := h.listingService.Fulfill(c.Request.Context(), id, profile.ID, auditContext(c, profile.ID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ListingResponse{Listing: listing})
}
