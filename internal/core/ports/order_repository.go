package ports

import (
	"context"
	"time"

	"github.com/haulwise/backoffice/internal/core/domain"
)

// ListOrdersFilter carries all query parameters for listing orders.
// CarrierCompanyID is always enforced by the service layer for carrier actors.
type ListOrdersFilter struct {
	Status           string    // optional: filter by order status
	ShipperCompanyID string    // optional
	CarrierCompanyID string    // empty = no filter; non-empty = dispatched to this carrier
	Search           string    // optional: partial match on order_number or cargo description
	DateFrom         time.Time // optional: pickup_at >= DateFrom
	DateTo           time.Time // optional: pickup_at <= DateTo
	Page             int       // 1-based
	Limit            int       // max rows per page (capped at 100 by service)
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error)
	// List returns a page of orders matching filter and the total count.
	List(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, int64, error)
	// Save replaces the stored order if its version still equals o.Version, and
	// bumps the version. A stale version yields domain.ErrVersionConflict.
	Save(ctx context.Context, o *domain.Order) error
}

// EventRepository handles status event persistence and atomic order status updates.
type EventRepository interface {
	// UpdateOrderStatus atomically moves the order from one status to another and
	// appends a history entry. If the order is no longer in from, it returns
	// domain.ErrVersionConflict.
	UpdateOrderStatus(
		ctx context.Context,
		orderNumber string,
		from, to domain.OrderStatus,
		ts time.Time,
		notes string,
	) error

	// InsertEvent persists an event to the status_events audit collection.
	InsertEvent(ctx context.Context, event *domain.StatusEvent) error
}
