package handler

import (
	transferapp "github.com/foodworks/backend/internal/application/transfer"
	"github.com/foodworks/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransferHandler exposes the inter-branch transfer API
type TransferHandler struct {
	BaseHandler
	transfers *transferapp.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transfers *transferapp.TransferService) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

// RegisterRoutes registers the transfer routes
func (h *TransferHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.Create)
		transfers.GET("", h.List)
		transfers.GET("/:id", h.GetByID)
		transfers.POST("/:id/send", h.Send)
		transfers.POST("/:id/receive", h.Receive)
		transfers.POST("/:id/cancel", h.Cancel)
	}
}

// Create opens a draft transfer between two branches
func (h *TransferHandler) Create(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req transferapp.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	result, err := h.transfers.Create(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// List returns transfers touching a branch as source or destination
func (h *TransferHandler) List(c *gin.Context) {
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

	results, err := h.transfers.List(c.Request.Context(), branchID, c.Query("status"), listReq.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// GetByID returns one transfer
func (h *TransferHandler) GetByID(c *gin.Context) {
	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid transfer ID")
		return
	}

	result, err := h.transfers.GetByID(c.Request.Context(), transferID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Send debits the source branch and puts the goods in transit
func (h *TransferHandler) Send(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid transfer ID")
		return
	}

	result, err := h.transfers.Send(c.Request.Context(), actorID, transferID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Receive credits the destination branch, writing off any shortfall
func (h *TransferHandler) Receive(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid transfer ID")
		return
	}

	var req transferapp.ReceiveTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	result, err := h.transfers.Receive(c.Request.Context(), actorID, transferID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Cancel cancels a transfer, restocking the source if already sent
func (h *TransferHandler) Cancel(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid transfer ID")
		return
	}

	result, err := h.transfers.Cancel(c.Request.Context(), actorID, transferID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
