package stocktaking

import (
	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/foodworks/backend/internal/domain/stock"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeStockTaking = "StockTaking"

// Event type constants
const (
	EventTypeStockTakingCreated   = "StockTakingCreated"
	EventTypeStockTakingStarted   = "StockTakingStarted"
	EventTypeStockTakingCompleted = "StockTakingCompleted"
	EventTypeStockTakingCancelled = "StockTakingCancelled"
)

// StockTakingCreatedEvent is raised when a count document is created
type StockTakingCreatedEvent struct {
	shared.BaseDomainEvent
	TakingNumber string         `json:"taking_number"`
	BranchID     uuid.UUID      `json:"branch_id"`
	Kind         stock.ItemKind `json:"kind"`
}

// NewStockTakingCreatedEvent creates a new StockTakingCreatedEvent
func NewStockTakingCreatedEvent(st *StockTaking) *StockTakingCreatedEvent {
	return &StockTakingCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTakingCreated, AggregateTypeStockTaking, st.ID),
		TakingNumber:    st.TakingNumber,
		BranchID:        st.BranchID,
		Kind:            st.Kind,
	}
}

// StockTakingStartedEvent is raised when counting starts
type StockTakingStartedEvent struct {
	shared.BaseDomainEvent
	TakingNumber string    `json:"taking_number"`
	BranchID     uuid.UUID `json:"branch_id"`
	LineCount    int       `json:"line_count"`
}

// NewStockTakingStartedEvent creates a new StockTakingStartedEvent
func NewStockTakingStartedEvent(st *StockTaking) *StockTakingStartedEvent {
	return &StockTakingStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTakingStarted, AggregateTypeStockTaking, st.ID),
		TakingNumber:    st.TakingNumber,
		BranchID:        st.BranchID,
		LineCount:       len(st.Lines),
	}
}

// StockTakingCompletedEvent is raised when a count document is completed
type StockTakingCompletedEvent struct {
	shared.BaseDomainEvent
	TakingNumber    string    `json:"taking_number"`
	BranchID        uuid.UUID `json:"branch_id"`
	DifferenceCount int       `json:"difference_count"`
}

// NewStockTakingCompletedEvent creates a new StockTakingCompletedEvent
func NewStockTakingCompletedEvent(st *StockTaking) *StockTakingCompletedEvent {
	return &StockTakingCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTakingCompleted, AggregateTypeStockTaking, st.ID),
		TakingNumber:    st.TakingNumber,
		BranchID:        st.BranchID,
		DifferenceCount: len(st.DifferenceLines()),
	}
}

// StockTakingCancelledEvent is raised when a count document is cancelled
type StockTakingCancelledEvent struct {
	shared.BaseDomainEvent
	TakingNumber string `json:"taking_number"`
}

// NewStockTakingCancelledEvent creates a new StockTakingCancelledEvent
func NewStockTakingCancelledEvent(st *StockTaking) *StockTakingCancelledEvent {
	return &StockTakingCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockTakingCancelled, AggregateTypeStockTaking, st.ID),
		TakingNumber:    st.TakingNumber,
	}
}
