package handler

import (
	"strconv"
	"time"

	stockapp "github.com/foodworks/backend/internal/application/stock"
	"github.com/foodworks/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockHandler exposes the stock ledger API
type StockHandler struct {
	BaseHandler
	ledger *stockapp.LedgerService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(ledger *stockapp.LedgerService) *StockHandler {
	return &StockHandler{ledger: ledger}
}

// RegisterRoutes registers the stock ledger routes
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/stock")
	{
		stock.POST("/credit", h.Credit)
		stock.POST("/debit", h.Debit)
		stock.POST("/adjust", h.Adjust)
		stock.GET("/balances/:branch_id/:item_id", h.GetBalance)
		stock.GET("/balances/:branch_id", h.ListBranchBalances)
		stock.GET("/value/:branch_id", h.GetBranchValue)
		stock.GET("/movements", h.ListMovements)
		stock.GET("/movements/source", h.ListMovementsBySource)
		stock.GET("/verify/:branch_id/:item_id", h.VerifyReplay)
	}
}

// Credit records an inbound stock movement
func (h *StockHandler) Credit(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req stockapp.CreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	result, err := h.ledger.Credit(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Debit records an outbound stock movement
func (h *StockHandler) Debit(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req stockapp.DebitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	result, err := h.ledger.Debit(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Adjust applies a signed reconciliation delta
func (h *StockHandler) Adjust(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req stockapp.AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	result, err := h.ledger.Adjust(c.Request.Context(), actorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetBalance returns the balance of one item at one branch
func (h *StockHandler) GetBalance(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("branch_id"))
	if err != nil {
		h.BadRequest(c, "invalid branch ID")
		return
	}
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "invalid item ID")
		return
	}

	result, err := h.ledger.GetBalance(c.Request.Context(), branchID, itemID, c.Query("kind"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListBranchBalances returns all balances at a branch
func (h *StockHandler) ListBranchBalances(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("branch_id"))
	if err != nil {
		h.BadRequest(c, "invalid branch ID")
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.HandleBindError(c, err)
		return
	}

	filter := listReq.ToFilter()
	results, total, err := h.ledger.ListBranchBalances(c.Request.Context(), branchID, c.Query("kind"), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, results, total, filter.Page, filter.PageSize)
}

// GetBranchValue returns the total book value of stock held at a branch
func (h *StockHandler) GetBranchValue(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("branch_id"))
	if err != nil {
		h.BadRequest(c, "invalid branch ID")
		return
	}

	result, err := h.ledger.GetBranchValue(c.Request.Context(), branchID, c.Query("kind"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListMovements returns the movement history matching the query
func (h *StockHandler) ListMovements(c *gin.Context) {
	branchID, err := uuid.Parse(c.Query("branch_id"))
	if err != nil {
		h.BadRequest(c, "invalid branch ID")
		return
	}

	filter := stockapp.MovementListFilter{
		BranchID: branchID,
		Kind:     c.Query("kind"),
	}
	if s := c.Query("item_id"); s != "" {
		itemID, err := uuid.Parse(s)
		if err != nil {
			h.BadRequest(c, "invalid item ID")
			return
		}
		filter.ItemID = &itemID
	}
	if s := c.Query("from"); s != "" {
		from, err := time.Parse("2006-01-02", s)
		if err != nil {
			h.BadRequest(c, "invalid from date, expected YYYY-MM-DD")
			return
		}
		filter.From = &from
	}
	if s := c.Query("to"); s != "" {
		to, err := time.Parse("2006-01-02", s)
		if err != nil {
			h.BadRequest(c, "invalid to date, expected YYYY-MM-DD")
			return
		}
		filter.To = &to
	}
	if s := c.Query("page"); s != "" {
		filter.Page, _ = strconv.Atoi(s)
	}
	if s := c.Query("page_size"); s != "" {
		filter.PageSize, _ = strconv.Atoi(s)
	}

	results, err := h.ledger.ListMovements(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// ListMovementsBySource returns all movements produced by one source document
func (h *StockHandler) ListMovementsBySource(c *gin.Context) {
	sourceType := c.Query("source_type")
	sourceID := c.Query("source_id")
	if sourceType == "" || sourceID == "" {
		h.BadRequest(c, "source_type and source_id are required")
		return
	}

	results, err := h.ledger.ListMovementsBySource(c.Request.Context(), sourceType, sourceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, results)
}

// VerifyReplay checks the stored balance against a replay of its movements
func (h *StockHandler) VerifyReplay(c *gin.Context) {
	branchID, err := uuid.Parse(c.Param("branch_id"))
	if err != nil {
		h.BadRequest(c, "invalid branch ID")
		return
	}
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		h.BadRequest(c, "invalid item ID")
		return
	}

	consistent, err := h.ledger.VerifyReplay(c.Request.Context(), branchID, itemID, c.Query("kind"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"consistent": consistent})
}
