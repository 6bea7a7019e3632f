package handler

import (
	productionapp "github.com/foodworks/backend/internal/application/production"
	"github.com/foodworks/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductionHandler exposes the production workflow API
type ProductionHandler struct {
	BaseHandler
	production *productionapp.ProductionService
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(production *productionapp.ProductionService) *ProductionHandler {
	return &ProductionHandler{production: production}
}

// RegisterRoutes registers the production routes
func (h *ProductionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	batches := rg.Group("/production/batches")
	{
		batches.POST("", h.Create)
		batches.GET("", h.List)
		batches.GET("/:id", h.GetByID)
		batches.GET("/:id/availability", h.CheckAvailability)
		batches.POST("/:id/start", h.Start)
		batches.POST("/:id/complete", h.Complete)
		batches.POST("/:id/cancel", h.Cancel)
	}
}

// Create plans a new production batch from a recipe version
func (h *ProductionHandler) Create(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req productionapp.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	result, err := h.production.Create(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// List returns production batches for a branch
func (h *ProductionHandler) List(c *gin.Context) {
	branchID, err := uuid.Parse(c.Query("branch_id"))
	if err != nil {
		h.BadRequest(c, "invalid branch ID")
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.HandleBindError(c, err)
		return
	}

	results, err := h.production.List(c.Request.Context(), branchID, c.Query("status"), listReq.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// GetByID returns one production batch
func (h *ProductionHandler) GetByID(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid batch ID")
		return
	}

	result, err := h.production.GetByID(c.Request.Context(), batchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// CheckAvailability reports ingredient shortages for a planned batch
func (h *ProductionHandler) CheckAvailability(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid batch ID")
		return
	}

	shortages, err := h.production.CheckAvailability(c.Request.Context(), batchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"sufficient": len(shortages) == 0, "shortages": shortages})
}

// Start moves a planned batch to in-progress
func (h *ProductionHandler) Start(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid batch ID")
		return
	}

	result, err := h.production.Start(c.Request.Context(), batchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Complete consumes ingredients and credits the produced output
func (h *ProductionHandler) Complete(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid batch ID")
		return
	}

	var req productionapp.CompleteBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	result, err := h.production.Complete(c.Request.Context(), actorID, batchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel cancels a batch that has not completed
func (h *ProductionHandler) Cancel(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid batch ID")
		return
	}

	result, err := h.production.Cancel(c.Request.Context(), batchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
