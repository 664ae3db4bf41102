package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/selotroca/selotroca-backend/internal/models"
	"github.com/selotroca/selotroca-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CollectionHandler handles stamp catalog HTTP requests
type CollectionHandler struct {
	catalogService services.CatalogService
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(catalogService services.CatalogService) *CollectionHandler {
	return &CollectionHandler{catalogService: catalogService}
}

func pathID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// List handles GET /collections. Public callers only see active
// collections; the back office passes ?all=true.
func (h *CollectionHandler) List(c *gin.Context) {
	onlyActive := c.Query("all") != "true"
	collections, err := h.catalogService.ListCollections(c.Request.Context(), onlyActive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collections": collections})
}

// Get handles GET /collections/:id
func (h *CollectionHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	collection, err := h.catalogService.GetCollection(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collection": collection})
}

// Create handles POST /collections
func (h *CollectionHandler) Create(c *gin.Context) {
	var req models.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	collection, err := h.catalogService.CreateCollection(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"collection": collection})
}

// Update handles PUT /collections/:id
func (h *CollectionHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	collection, err := h.catalogService.UpdateCollection(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collection": collection})
}

// Delete handles DELETE /collections/:id
func (h *CollectionHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCollection(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AddItem handles POST /collections/:id/items
func (h *CollectionHandler) AddItem(c *gin.Context) {
	collectionID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req models.CreateCollectionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.catalogService.AddItem(c.Request.Context(), collectionID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// UpdateItem handles PUT /collections/:id/items/:itemId
func (h *CollectionHandler) UpdateItem(c *gin.Context) {
	collectionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	var req models.UpdateCollectionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	item, err := h.catalogService.UpdateItem(c.Request.Context(), collectionID, itemID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// DeleteItem handles DELETE /collections/:id/items/:itemId
func (h *CollectionHandler) DeleteItem(c *gin.Context) {
	collectionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteItem(c.Request.Context(), collectionID, itemID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AddOption handles POST /collections/:id/items/:itemId/options
func (h *CollectionHandler) AddOption(c *gin.Context) {
	collectionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	var req models.CreateRedemptionOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	option, err := h.catalogService.AddOption(c.Request.Context(), collectionID, itemID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"option": option})
}

// DeleteOption handles DELETE /collections/:id/items/:itemId/options/:optionId
func (h *CollectionHandler) DeleteOption(c *gin.Context) {
	collectionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	optionID, ok := pathID(c, "optionId")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteOption(c.Request.Context(), collectionID, itemID, optionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
