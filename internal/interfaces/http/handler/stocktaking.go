package handler

import (
	stocktakingapp "github.com/foodworks/backend/internal/application/stocktaking"
	"github.com/foodworks/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockTakingHandler exposes the stocktaking API
type StockTakingHandler struct {
	BaseHandler
	takings *stocktakingapp.StockTakingService
}

// NewStockTakingHandler creates a new StockTakingHandler
func NewStockTakingHandler(takings *stocktakingapp.StockTakingService) *StockTakingHandler {
	return &StockTakingHandler{takings: takings}
}

// RegisterRoutes registers the stocktaking routes
func (h *StockTakingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	takings := rg.Group("/stock-takings")
	{
		takings.POST("", h.Create)
		takings.GET("", h.List)
		takings.GET("/:id", h.GetByID)
		takings.POST("/:id/start", h.Start)
		takings.POST("/:id/complete", h.Complete)
		takings.POST("/:id/cancel", h.Cancel)
	}
}

// Create opens a draft count with snapshotted expected quantities
func (h *StockTakingHandler) Create(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req stocktakingapp.CreateStockTakingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	result, err := h.takings.Create(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// List returns counts for a branch
func (h *StockTakingHandler) List(c *gin.Context) {
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

	results, err := h.takings.List(c.Request.Context(), branchID, c.Query("status"), listReq.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// GetByID returns one count document
func (h *StockTakingHandler) GetByID(c *gin.Context) {
	takingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid stock taking ID")
		return
	}

	result, err := h.takings.GetByID(c.Request.Context(), takingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Start moves a draft count to in-progress
func (h *StockTakingHandler) Start(c *gin.Context) {
	takingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid stock taking ID")
		return
	}

	result, err := h.takings.Start(c.Request.Context(), takingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Complete records counted quantities and posts adjustments for deltas
func (h *StockTakingHandler) Complete(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	takingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid stock taking ID")
		return
	}

	var req stocktakingapp.CompleteStockTakingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	result, err := h.takings.Complete(c.Request.Context(), actorID, takingID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel discards a count without touching the ledger
func (h *StockTakingHandler) Cancel(c *gin.Context) {
	takingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid stock taking ID")
		return
	}

	result, err := h.takings.Cancel(c.Request.Context(), takingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
