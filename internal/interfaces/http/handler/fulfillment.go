package handler

import (
	fulfillmentapp "github.com/foodworks/backend/internal/application/fulfillment"
	"github.com/gin-gonic/gin"
)

// FulfillmentHandler exposes the sales fulfillment API
type FulfillmentHandler struct {
	BaseHandler
	fulfillment *fulfillmentapp.Service
}

// NewFulfillmentHandler creates a new FulfillmentHandler
func NewFulfillmentHandler(fulfillment *fulfillmentapp.Service) *FulfillmentHandler {
	return &FulfillmentHandler{fulfillment: fulfillment}
}

// RegisterRoutes registers the fulfillment routes
func (h *FulfillmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	fulfillment := rg.Group("/fulfillment")
	{
		fulfillment.POST("/shipments", h.ConfirmShipment)
		fulfillment.POST("/returns", h.AcceptReturn)
	}
}

// ConfirmShipment debits shipped products against a sale document
func (h *FulfillmentHandler) ConfirmShipment(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req fulfillmentapp.ConfirmShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	movements, err := h.fulfillment.ConfirmShipment(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, movements)
}

// AcceptReturn credits returned products against a return document
func (h *FulfillmentHandler) AcceptReturn(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req fulfillmentapp.AcceptReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	movements, err := h.fulfillment.AcceptReturn(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, movements)
}
