package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/selotroca/selotroca-backend/internal/middleware"
	"github.com/selotroca/selotroca-backend/internal/models"
	"github.com/selotroca/selotroca-backend/internal/repositories"
	"github.com/selotroca/selotroca-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminHandler handles the marketplace-admin HTTP requests: offer
// validation, request fulfillment and listing oversight.
type AdminHandler struct {
	listingService services.ListingService
	listingRepo    repositories.ListingRepository
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(listingService services.ListingService, listingRepo repositories.ListingRepository) *AdminHandler {
	return &AdminHandler{
		listingService: listingService,
		listingRepo:    listingRepo,
	}
}

// PendingOffers handles GET /admin/offers/pending
func (h *AdminHandler) PendingOffers(c *gin.Context) {
	listings, err := h.listingService.ListPendingValidation(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": listings})
}

// ActiveRequests handles GET /admin/requests/active
func (h *AdminHandler) ActiveRequests(c *gin.Context) {
	listings, err := h.listingService.ListActiveRequests(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": listings})
}

// AllListings handles GET /admin/listings with optional type and status
// filters.
func (h *AdminHandler) AllListings(c *gin.Context) {
	listings, err := h.listingRepo.FindAll(c.Request.Context(), repositories.ListingFilter{
		Type:   models.ListingType(c.Query("type")),
		Status: models.ListingStatus(c.Query("status")),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

// ApproveOffer handles PUT /admin/offers/:id/approve
func (h *AdminHandler) ApproveOffer(c *gin.Context) {
	profile := middleware.MustProfile(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	// The body is optional; an empty one means "approve as declared".
	var req models.ApproveOfferRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	resp, err := h.listingService.ApproveOffer(c.Request.Context(), id, &req, auditContext(c, profile.ID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RejectOffer handles PUT /admin/offers/:id/reject
func (h *AdminHandler) RejectOffer(c *gin.Context) {
	profile := middleware.MustProfile(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var req models.RejectOfferRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	listing, err := h.listingService.RejectOffer(c.Request.Context(), id, &req, auditContext(c, profile.ID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offer": listing})
}

// FulfillRequest handles PUT /admin/requests/:id/fulfill
func (h *AdminHandler) FulfillRequest(c *gin.Context) {
	profile := middleware.MustProfile(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	listing, err := h.listingService.AdminFulfillRequest(c.Request.Context(), id, auditContext(c, profile.ID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ListingResponse{Listing: listing})
}
