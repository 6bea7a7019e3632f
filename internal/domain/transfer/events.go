package transfer

import (
	"github.com/foodworks/backend/internal/domain/shared"
	"github.com/foodworks/backend/internal/domain/stock"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeTransfer = "Transfer"

// Event type constants
const (
	EventTypeTransferCreated   = "TransferCreated"
	EventTypeTransferSent      = "TransferSent"
	EventTypeTransferReceived  = "TransferReceived"
	EventTypeTransferCancelled = "TransferCancelled"
)

// TransferCreatedEvent is raised when a draft transfer is created
type TransferCreatedEvent struct {
	shared.BaseDomainEvent
	TransferNumber string         `json:"transfer_number"`
	SourceBranchID uuid.UUID      `json:"source_branch_id"`
	DestBranchID   uuid.UUID      `json:"dest_branch_id"`
	Kind           stock.ItemKind `json:"kind"`
}

// NewTransferCreatedEvent creates a new TransferCreatedEvent
func NewTransferCreatedEvent(t *Transfer) *TransferCreatedEvent {
	return &TransferCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferCreated, AggregateTypeTransfer, t.ID),
		TransferNumber:  t.TransferNumber,
		SourceBranchID:  t.SourceBranchID,
		DestBranchID:    t.DestBranchID,
		Kind:            t.Kind,
	}
}

// TransferSentEvent is raised when a transfer leaves the source branch
type TransferSentEvent struct {
	shared.BaseDomainEvent
	TransferNumber string    `json:"transfer_number"`
	SourceBranchID uuid.UUID `json:"source_branch_id"`
	DestBranchID   uuid.UUID `json:"dest_branch_id"`
	LineCount      int       `json:"line_count"`
}

// NewTransferSentEvent creates a new TransferSentEvent
func NewTransferSentEvent(t *Transfer) *TransferSentEvent {
	return &TransferSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferSent, AggregateTypeTransfer, t.ID),
		TransferNumber:  t.TransferNumber,
		SourceBranchID:  t.SourceBranchID,
		DestBranchID:    t.DestBranchID,
		LineCount:       len(t.Lines),
	}
}

// TransferReceivedEvent is raised when a transfer arrives at the destination
type TransferReceivedEvent struct {
	shared.BaseDomainEvent
	TransferNumber string    `json:"transfer_number"`
	DestBranchID   uuid.UUID `json:"dest_branch_id"`
}

// NewTransferReceivedEvent creates a new TransferReceivedEvent
func NewTransferReceivedEvent(t *Transfer) *TransferReceivedEvent {
	return &TransferReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferReceived, AggregateTypeTransfer, t.ID),
		TransferNumber:  t.TransferNumber,
		DestBranchID:    t.DestBranchID,
	}
}

// TransferCancelledEvent is raised when a transfer is cancelled
type TransferCancelledEvent struct {
	shared.BaseDomainEvent
	TransferNumber string `json:"transfer_number"`
	WasSent        bool   `json:"was_sent"`
}

// NewTransferCancelledEvent creates a new TransferCancelledEvent
func NewTransferCancelledEvent(t *Transfer) *TransferCancelledEvent {
	return &TransferCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferCancelled, AggregateTypeTransfer, t.ID),
		TransferNumber:  t.TransferNumber,
		WasSent:         t.WasSent(),
	}
}
