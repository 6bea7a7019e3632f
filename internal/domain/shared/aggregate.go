package shared

// BaseAggregateRoot extends BaseEntity with an optimistic locking version
// and a buffer of domain events raised since the last save.
type BaseAggregateRoot struct {
	BaseEntity
	Version int `gorm:"not null;default:1"`

	events []DomainEvent `gorm:"-"`
}

// NewBaseAggregateRoot starts a new aggregate at version 1.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{BaseEntity: NewBaseEntity(), Version: 1}
}

// GetVersion reports the version the aggregate was loaded at.
func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

// IncrementVersion bumps the version ahead of a compare-and-swap save.
func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

// AddDomainEvent buffers an event for publication after the owning
// transaction commits.
func (a *BaseAggregateRoot) AddDomainEvent(e DomainEvent) {
	a.events = append(a.events, e)
}

// GetDomainEvents returns the events buffered since the last clear.
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent { return a.events }

// ClearDomainEvents empties the buffer once the events are published.
func (a *BaseAggregateRoot) ClearDomainEvents() { a.events = nil }
